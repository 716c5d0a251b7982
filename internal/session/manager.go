package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/handiism/takeback/internal/archive"
	"github.com/handiism/takeback/internal/audio"
	"github.com/handiism/takeback/internal/config"
	"github.com/handiism/takeback/internal/elevenlabs"
	ioutils "github.com/handiism/takeback/internal/io"
	"github.com/handiism/takeback/internal/model"
	"github.com/handiism/takeback/internal/takes"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a recovery progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Artifact describes one archive written to disk.
type Artifact struct {
	Take  model.Take
	Path  string
	Count int
}

// Manager drives one recovery session end to end: fetch history,
// reconstruct the take grouping, download every payload, archive each
// non-empty take.
type Manager struct {
	settings *config.Settings
	client   *elevenlabs.Client
	strategy takes.Strategy
	builder  *archive.Builder
	tagger   *audio.Tagger

	sessionID string
	versions  *model.VersionSet
	artifacts []Artifact

	totalItems     int32
	processedItems int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new recovery Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings:   settings,
		strategy:   settings.ToStrategy(),
		builder:    archive.NewBuilder(settings.AudioExtension, settings.WriteManifest),
		tagger:     audio.NewTagger(settings.ToTagConfig()),
		sessionID:  uuid.NewString(),
		onProgress: onProgress,
	}
}

// SessionID returns the unique identifier of this session, used to
// correlate verbose progress output.
func (m *Manager) SessionID() string {
	return m.sessionID
}

// Initialize fetches the full history and reconstructs the take grouping.
//
// Listing failures (bad credential, upstream error, transport error) are
// fatal and returned as-is. An empty reconstruction is not an error; it
// is reported as a notice and HasResults() returns false afterwards.
func (m *Manager) Initialize(ctx context.Context, apiKey string) error {
	m.client = elevenlabs.NewClientWithBaseURL(apiKey, m.settings.APIBaseURL)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Session %s: fetching history", m.sessionID), Level: LevelVerbose})

	records, err := m.client.GetHistory(ctx)
	if err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error fetching history: %v", err), Level: LevelError})
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetched %d history records", len(records)), Level: LevelInfo})

	m.versions = m.strategy.Reconstruct(records)
	atomic.StoreInt32(&m.totalItems, int32(m.versions.Total()))

	if m.versions.IsEmpty() {
		m.progress(ProgressEvent{Message: "No audio found in history", Level: LevelWarning})
		return nil
	}

	for _, take := range model.Takes {
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("%s: %d items", take, len(m.versions.Slot(take))),
			Level:   LevelInfo,
		})
	}

	return nil
}

// HasResults reports whether reconstruction produced anything to download.
func (m *Manager) HasResults() bool {
	return m.versions != nil && !m.versions.IsEmpty()
}

// TakeSummaries returns one human-readable line per take with its item count.
func (m *Manager) TakeSummaries() []string {
	if m.versions == nil {
		return nil
	}
	summaries := make([]string, 0, len(model.Takes))
	for _, take := range model.Takes {
		summaries = append(summaries, fmt.Sprintf("%s: %d items", take, len(m.versions.Slot(take))))
	}
	return summaries
}

// StartDownloads downloads every reconstructed record and writes one
// archive per non-empty take.
//
// Individual download failures are skipped, never fatal: a failed item
// shortens its take's archive and the remaining entries are renumbered
// consecutively. Only context cancellation aborts the session.
func (m *Manager) StartDownloads(ctx context.Context) error {
	if !m.HasResults() {
		return nil
	}

	if err := ioutils.EnsureDir(m.settings.OutputPath); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating output directory: %v", err), Level: LevelError})
		return err
	}

	generatedAt := time.Now()

	for _, take := range model.Takes {
		records := m.versions.Slot(take)
		if len(records) == 0 {
			continue
		}

		m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s...", take), Level: LevelInfo})

		entries := m.downloadTake(ctx, take, records)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if len(entries) == 0 {
			m.progress(ProgressEvent{Message: fmt.Sprintf("%s: no items could be downloaded", take), Level: LevelWarning})
			continue
		}

		if m.settings.EmbedTakeTags {
			m.tagEntries(take, entries)
		}

		data, err := m.builder.Build(entries)
		if err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error building %s archive: %v", take, err), Level: LevelError})
			continue
		}

		name := ioutils.SanitizeFileName(archive.FileName(take, generatedAt))
		path := filepath.Join(m.settings.OutputPath, name)
		if err := ioutils.WriteFile(path, data); err != nil {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Error writing %s archive: %v", take, err), Level: LevelError})
			continue
		}

		m.artifacts = append(m.artifacts, Artifact{Take: take, Path: path, Count: len(entries)})
		m.progress(ProgressEvent{
			Message: fmt.Sprintf("Wrote %s archive: %s (%d files)", take, name, len(entries)),
			Level:   LevelSuccess,
		})
	}

	return nil
}

// GetProgress returns the items processed so far and the total across all
// takes. Processed only ever grows during a session.
func (m *Manager) GetProgress() (processed, total int32) {
	return atomic.LoadInt32(&m.processedItems), atomic.LoadInt32(&m.totalItems)
}

// Artifacts returns the archives written by StartDownloads.
func (m *Manager) Artifacts() []Artifact {
	return m.artifacts
}

// downloadTake fetches all payloads of one take, concurrently but with
// results placed back at their record index so take order survives any
// completion order. Failed items leave gaps that are compacted before
// archiving.
func (m *Manager) downloadTake(ctx context.Context, take model.Take, records []model.HistoryRecord) []archive.Entry {
	results := make([][]byte, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentDownloads)

	for i, record := range records {
		i, record := i, record
		g.Go(func() error {
			payload, err := m.downloadWithRetry(gctx, record.ID)
			if err != nil {
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Skipping %s item %d (%s): %v", take, i+1, record.ID, err),
					Level:   LevelWarning,
				})
			} else {
				results[i] = payload
				m.progress(ProgressEvent{
					Message: fmt.Sprintf("Downloaded %s item %d (%s)", take, i+1, record.ID),
					Level:   LevelVerbose,
				})
			}
			atomic.AddInt32(&m.processedItems, 1)
			return nil
		})
	}

	g.Wait()

	entries := make([]archive.Entry, 0, len(records))
	for i, payload := range results {
		if payload == nil {
			continue
		}
		entries = append(entries, archive.Entry{Record: records[i], Payload: payload})
	}
	return entries
}

// downloadWithRetry fetches one payload with exponential backoff.
// Auth failures and cancellation are not retried.
func (m *Manager) downloadWithRetry(ctx context.Context, id string) ([]byte, error) {
	tries := m.settings.DownloadMaxRetries
	if tries < 1 {
		tries = 1
	}

	var payload []byte
	var err error
	for try := 0; try < tries; try++ {
		payload, err = m.client.DownloadAudio(ctx, id)
		if err == nil {
			return payload, nil
		}
		if errors.Is(err, elevenlabs.ErrAuth) || ctx.Err() != nil {
			return nil, err
		}
		m.waitForRetry(ctx, try)
	}
	return nil, err
}

// tagEntries stamps take/position metadata onto each payload. Tagging
// failures keep the original payload; the item is still archived.
func (m *Manager) tagEntries(take model.Take, entries []archive.Entry) {
	for i := range entries {
		tagged, err := m.tagger.TagPayload(entries[i].Payload, take, i+1, entries[i].Record)
		if err != nil {
			m.progress(ProgressEvent{
				Message: fmt.Sprintf("Error tagging %s item %d: %v", take, i+1, err),
				Level:   LevelWarning,
			})
			continue
		}
		entries[i].Payload = tagged
	}
}

func (m *Manager) waitForRetry(ctx context.Context, tries int) {
	cooldown := m.settings.DownloadRetryCooldown * math.Pow(m.settings.DownloadRetryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}
