// Package session provides the orchestration logic for one recovery
// session against the ElevenLabs history API.
//
// # Manager
//
// The Manager coordinates the entire recovery:
//
//  1. Fetch the full generation history
//  2. Reconstruct the A/B/C take grouping
//  3. Download every payload, skipping individual failures
//  4. Optionally tag payloads with take metadata
//  5. Write one zip archive per non-empty take
//
// # Basic Usage
//
//	manager := session.NewManager(settings, func(event session.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, apiKey); err != nil {
//	    log.Fatal(err) // bad credential or unreachable service
//	}
//	if !manager.HasResults() {
//	    fmt.Println("no audio found")
//	    return
//	}
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Failure Policy
//
// Listing failures abort the session. A failed audio download only
// shortens its take's archive; remaining entries are renumbered
// consecutively and the session continues.
//
// # Progress Tracking
//
// Progress is reported two ways: message events through the callback, and
// a monotonic (processed, total) item counter via GetProgress for
// progress bars.
package session
