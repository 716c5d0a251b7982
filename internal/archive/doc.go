// Package archive packages recovered audio payloads into zip files, one
// archive per take.
//
// Entries are numbered 1-based in input order with a fixed extension:
//
//	builder := archive.NewBuilder(".mp3", true)
//	data, err := builder.Build(entries)
//	// data is a zip containing 1.mp3, 2.mp3, ... and manifest.json
//
// The input order is preserved exactly; it encodes the take's batch
// chronology, which the zip format has no other way to express.
//
// Artifact names carry the take letter and a generation timestamp:
//
//	archive.FileName(model.TakeA, time.Now()) // "version_A_20240301_120000.zip"
package archive
