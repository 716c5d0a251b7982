// Package elevenlabs provides an HTTP client for the ElevenLabs history
// API: listing past generations and fetching their audio payloads.
//
// # Basic Usage
//
//	client := elevenlabs.NewClient(apiKey)
//
//	// Full history, all pages accumulated
//	records, err := client.GetHistory(ctx)
//
//	// Raw MP3 bytes for one item
//	audio, err := client.DownloadAudio(ctx, records[0].ID)
//
// # Error Taxonomy
//
// Errors are classified so callers can pick the right recovery:
//
//	if errors.Is(err, elevenlabs.ErrAuth) {
//	    // bad credential: fatal, surface immediately
//	}
//	var upstream *elevenlabs.UpstreamError
//	if errors.As(err, &upstream) {
//	    // non-success status: fatal for listing, skippable per audio item
//	}
//
// Network-level failures come back as wrapped transport errors with the
// same recovery policy as UpstreamError at each call site.
//
// # Timestamps
//
// The history endpoint has returned creation dates both as Unix epoch
// numbers and as ISO-8601 strings. The Timestamp type normalizes both
// onto time.Time during decoding.
package elevenlabs
