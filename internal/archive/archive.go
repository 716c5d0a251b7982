package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/handiism/takeback/internal/model"
)

// ManifestName is the name of the optional metadata entry inside an archive.
const ManifestName = "manifest.json"

// Entry is one audio payload headed for an archive, together with the
// history record it came from. The record feeds the manifest; it does not
// affect entry naming, which is strictly positional.
type Entry struct {
	Record  model.HistoryRecord
	Payload []byte
}

// Builder packages ordered audio payloads into deflate-compressed zip
// archives.
//
// Entries are named by 1-based position with a fixed extension: 1.mp3,
// 2.mp3, and so on. Entry order inside the archive equals input order —
// that ordering is what encodes the take's internal batch sequence, since
// the zip format itself knows nothing about takes.
type Builder struct {
	// Ext is the file extension for audio entries, including the dot.
	Ext string

	// WriteManifest adds a manifest.json entry describing each audio
	// entry (index, history item id, creation time, text snippet).
	WriteManifest bool
}

// NewBuilder creates a Builder. An empty ext defaults to ".mp3".
func NewBuilder(ext string, writeManifest bool) *Builder {
	if ext == "" {
		ext = ".mp3"
	}
	return &Builder{Ext: ext, WriteManifest: writeManifest}
}

// manifestEntry is one row of the manifest.json archive entry.
type manifestEntry struct {
	File          string `json:"file"`
	HistoryItemID string `json:"history_item_id"`
	CreatedAt     string `json:"created_at"`
	Text          string `json:"text"`
}

// Build produces a zip archive from the entries, in the exact order
// supplied. A nil or empty input yields an archive with no audio entries;
// callers normally skip building archives for empty takes.
func (b *Builder) Build(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	manifest := make([]manifestEntry, 0, len(entries))

	for i, entry := range entries {
		name := fmt.Sprintf("%d%s", i+1, b.Ext)

		w, err := zw.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", name, err)
		}
		if _, err := w.Write(entry.Payload); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", name, err)
		}

		manifest = append(manifest, manifestEntry{
			File:          name,
			HistoryItemID: entry.Record.ID,
			CreatedAt:     entry.Record.CreatedAt.UTC().Format(time.RFC3339),
			Text:          entry.Record.Text,
		})
	}

	if b.WriteManifest {
		data, err := sonic.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode manifest: %w", err)
		}
		w, err := zw.Create(ManifestName)
		if err != nil {
			return nil, fmt.Errorf("create manifest entry: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("write manifest entry: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}

// FileName returns the artifact file name for a take generated at the
// given time: version_A_20060102_150405.zip and so on.
func FileName(take model.Take, t time.Time) string {
	return fmt.Sprintf("version_%s_%s.zip", take.Letter(), t.Format("20060102_150405"))
}
