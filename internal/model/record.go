package model

import (
	"time"
)

// HistoryRecord describes one past generation event as exposed by the
// ElevenLabs history API.
//
// A record is immutable once fetched; its identity is ID. CreatedAt is
// normalized to a time.Time regardless of whether the API returned a
// numeric epoch or an ISO-8601 string (see elevenlabs.Timestamp).
//
// FetchIndex is the record's position in the original listing response.
// It is used as a deterministic tie-breaker when two records carry the
// same timestamp.
type HistoryRecord struct {
	// ID is the opaque history item identifier assigned by the service.
	ID string

	// CreatedAt is when the audio was generated.
	CreatedAt time.Time

	// Text is the generation input text (the API returns a prefix of it).
	Text string

	// FetchIndex is the zero-based position in the fetched listing.
	FetchIndex int
}
