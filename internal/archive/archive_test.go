package archive

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/handiism/takeback/internal/model"
)

func testEntries() []Entry {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Entry{
		{Record: model.HistoryRecord{ID: "h1", CreatedAt: base, Text: "first"}, Payload: []byte("b1")},
		{Record: model.HistoryRecord{ID: "h2", CreatedAt: base.Add(time.Minute), Text: "second"}, Payload: []byte("b2")},
		{Record: model.HistoryRecord{ID: "h3", CreatedAt: base.Add(2 * time.Minute), Text: "third"}, Payload: []byte("b3")},
	}
}

func TestBuilder_RoundTrip(t *testing.T) {
	builder := NewBuilder(".mp3", false)

	data, err := builder.Build(testEntries())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a readable zip: %v", err)
	}

	if len(zr.File) != 3 {
		t.Fatalf("archive has %d entries, want 3", len(zr.File))
	}

	wantNames := []string{"1.mp3", "2.mp3", "3.mp3"}
	wantContents := []string{"b1", "b2", "b3"}

	for i, f := range zr.File {
		if f.Name != wantNames[i] {
			t.Errorf("entry %d named %q, want %q", i, f.Name, wantNames[i])
		}
		if f.Method != zip.Deflate {
			t.Errorf("entry %q method = %d, want deflate", f.Name, f.Method)
		}

		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %q: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %q: %v", f.Name, err)
		}
		if string(content) != wantContents[i] {
			t.Errorf("entry %q content = %q, want %q", f.Name, content, wantContents[i])
		}
	}
}

func TestBuilder_Manifest(t *testing.T) {
	builder := NewBuilder(".mp3", true)

	data, err := builder.Build(testEntries())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a readable zip: %v", err)
	}

	if len(zr.File) != 4 {
		t.Fatalf("archive has %d entries, want 3 audio + manifest", len(zr.File))
	}

	var manifestFile *zip.File
	for _, f := range zr.File {
		if f.Name == ManifestName {
			manifestFile = f
		}
	}
	if manifestFile == nil {
		t.Fatalf("archive missing %s", ManifestName)
	}

	rc, err := manifestFile.Open()
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer rc.Close()

	var manifest []struct {
		File          string `json:"file"`
		HistoryItemID string `json:"history_item_id"`
		CreatedAt     string `json:"created_at"`
		Text          string `json:"text"`
	}
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}

	if len(manifest) != 3 {
		t.Fatalf("manifest has %d rows, want 3", len(manifest))
	}
	if manifest[0].File != "1.mp3" || manifest[0].HistoryItemID != "h1" {
		t.Errorf("manifest[0] = %+v, want 1.mp3/h1", manifest[0])
	}
	if manifest[2].Text != "third" {
		t.Errorf("manifest[2].Text = %q, want %q", manifest[2].Text, "third")
	}
	if _, err := time.Parse(time.RFC3339, manifest[1].CreatedAt); err != nil {
		t.Errorf("manifest created_at not RFC3339: %q", manifest[1].CreatedAt)
	}
}

func TestBuilder_CustomExtension(t *testing.T) {
	builder := NewBuilder(".wav", false)

	data, err := builder.Build(testEntries()[:1])
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a readable zip: %v", err)
	}
	if zr.File[0].Name != "1.wav" {
		t.Errorf("entry named %q, want 1.wav", zr.File[0].Name)
	}
}

func TestBuilder_Empty(t *testing.T) {
	builder := NewBuilder(".mp3", false)

	data, err := builder.Build(nil)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a readable zip: %v", err)
	}
	if len(zr.File) != 0 {
		t.Errorf("empty build produced %d entries, want 0", len(zr.File))
	}
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 34, 56, 0, time.UTC)

	tests := []struct {
		take model.Take
		want string
	}{
		{model.TakeA, "version_A_20240301_123456.zip"},
		{model.TakeB, "version_B_20240301_123456.zip"},
		{model.TakeC, "version_C_20240301_123456.zip"},
	}

	for _, tt := range tests {
		if got := FileName(tt.take, at); got != tt.want {
			t.Errorf("FileName(%v) = %q, want %q", tt.take, got, tt.want)
		}
	}
}
