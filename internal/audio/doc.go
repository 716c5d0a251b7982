// Package audio labels recovered MP3 payloads with ID3v2 metadata.
//
// The history API returns bare audio streams, so once the A/B/C grouping
// is reconstructed the only place that structure survives is the archive
// entry order. Tagging embeds it in the files themselves:
//
//	tagger := audio.NewTagger(audio.DefaultTagConfig())
//	tagged, err := tagger.TagPayload(mp3Bytes, model.TakeB, 2, record)
//
// The tagger works entirely in memory; payloads are tagged on their way
// into an archive, never written to disk individually.
package audio
