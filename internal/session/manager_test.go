package session

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/takeback/internal/config"
	"github.com/handiism/takeback/internal/elevenlabs"
	"github.com/handiism/takeback/internal/model"
)

// newHistoryServer serves n history items h1..hn with ascending epoch
// timestamps, and their audio payloads as "audio-<id>". IDs in failIDs
// respond 404 on the audio endpoint.
func newHistoryServer(t *testing.T, n int, failIDs map[string]bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/history" {
			var items []string
			for i := 1; i <= n; i++ {
				items = append(items, fmt.Sprintf(
					`{"history_item_id": "h%d", "created_at": %d, "text": "line %d"}`,
					i, 1000+i, (i+2)/3,
				))
			}
			fmt.Fprintf(w, `{"history": [%s], "has_more": false}`, strings.Join(items, ","))
			return
		}

		if strings.HasSuffix(r.URL.Path, "/audio") {
			id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v1/history/"), "/audio")
			if failIDs[id] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, "audio-%s", id)
			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
}

func testSettings(t *testing.T, baseURL string) *config.Settings {
	t.Helper()

	settings := config.DefaultSettings()
	settings.APIBaseURL = baseURL
	settings.OutputPath = t.TempDir()
	settings.WriteManifest = false
	settings.EmbedTakeTags = false
	settings.DownloadMaxRetries = 1
	settings.DownloadRetryCooldown = 0
	settings.MaxConcurrentDownloads = 2
	return settings
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read archive %s: %v", path, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive %s: %v", path, err)
	}

	entries := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(content)
	}
	return entries
}

func TestManager_FullSession(t *testing.T) {
	server := newHistoryServer(t, 9, nil)
	defer server.Close()

	manager := NewManager(testSettings(t, server.URL), nil)
	ctx := context.Background()

	if err := manager.Initialize(ctx, "test-key"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if !manager.HasResults() {
		t.Fatal("expected results for 9 records")
	}
	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	artifacts := manager.Artifacts()
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}

	// Positional strategy over h1..h9: A=[h1,h4,h7], B=[h2,h5,h8], C=[h3,h6,h9].
	wantEntries := map[model.Take][]string{
		model.TakeA: {"audio-h1", "audio-h4", "audio-h7"},
		model.TakeB: {"audio-h2", "audio-h5", "audio-h8"},
		model.TakeC: {"audio-h3", "audio-h6", "audio-h9"},
	}

	for _, artifact := range artifacts {
		if artifact.Count != 3 {
			t.Errorf("%s artifact count = %d, want 3", artifact.Take, artifact.Count)
		}
		entries := readArchive(t, artifact.Path)
		for i, want := range wantEntries[artifact.Take] {
			name := fmt.Sprintf("%d.mp3", i+1)
			if entries[name] != want {
				t.Errorf("%s entry %s = %q, want %q", artifact.Take, name, entries[name], want)
			}
		}
	}

	processed, total := manager.GetProgress()
	if processed != 9 || total != 9 {
		t.Errorf("GetProgress() = %d/%d, want 9/9", processed, total)
	}
}

func TestManager_SkipsFailedDownload(t *testing.T) {
	// h4 is the 2nd item of take A; its failure must shrink A's archive
	// to 2 renumbered entries, not kill the session.
	server := newHistoryServer(t, 9, map[string]bool{"h4": true})
	defer server.Close()

	var warnings []string
	manager := NewManager(testSettings(t, server.URL), func(event ProgressEvent) {
		if event.Level == LevelWarning {
			warnings = append(warnings, event.Message)
		}
	})
	ctx := context.Background()

	if err := manager.Initialize(ctx, "test-key"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	var takeA *Artifact
	artifacts := manager.Artifacts()
	for i := range artifacts {
		if artifacts[i].Take == model.TakeA {
			takeA = &artifacts[i]
		}
	}
	if takeA == nil {
		t.Fatal("no artifact for take A")
	}
	if takeA.Count != 2 {
		t.Fatalf("take A count = %d, want 2", takeA.Count)
	}

	entries := readArchive(t, takeA.Path)
	if len(entries) != 2 {
		t.Fatalf("take A archive has %d entries, want 2", len(entries))
	}
	if entries["1.mp3"] != "audio-h1" {
		t.Errorf("entry 1.mp3 = %q, want audio-h1", entries["1.mp3"])
	}
	if entries["2.mp3"] != "audio-h7" {
		t.Errorf("entry 2.mp3 = %q, want audio-h7 (renumbered)", entries["2.mp3"])
	}

	if len(warnings) == 0 {
		t.Error("expected a skip warning for the failed item")
	}

	processed, total := manager.GetProgress()
	if processed != total {
		t.Errorf("GetProgress() = %d/%d, failed items still count as processed", processed, total)
	}
}

func TestManager_EmptyHistory(t *testing.T) {
	server := newHistoryServer(t, 0, nil)
	defer server.Close()

	var noticed bool
	settings := testSettings(t, server.URL)
	manager := NewManager(settings, func(event ProgressEvent) {
		if strings.Contains(event.Message, "No audio found") {
			noticed = true
		}
	})
	ctx := context.Background()

	if err := manager.Initialize(ctx, "test-key"); err != nil {
		t.Fatalf("empty history must not be an error, got: %v", err)
	}
	if manager.HasResults() {
		t.Error("HasResults() = true for empty history")
	}
	if !noticed {
		t.Error("expected a 'No audio found' notice")
	}

	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads on empty set failed: %v", err)
	}
	if len(manager.Artifacts()) != 0 {
		t.Errorf("got %d artifacts for empty history, want 0", len(manager.Artifacts()))
	}
}

func TestManager_AuthErrorIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	manager := NewManager(testSettings(t, server.URL), nil)

	err := manager.Initialize(context.Background(), "bad-key")
	if !errors.Is(err, elevenlabs.ErrAuth) {
		t.Errorf("Initialize err = %v, want ErrAuth", err)
	}
}

func TestManager_EmbedsTakeTags(t *testing.T) {
	server := newHistoryServer(t, 3, nil)
	defer server.Close()

	settings := testSettings(t, server.URL)
	settings.EmbedTakeTags = true
	manager := NewManager(settings, nil)
	ctx := context.Background()

	if err := manager.Initialize(ctx, "test-key"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	artifacts := manager.Artifacts()
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3", len(artifacts))
	}

	entries := readArchive(t, artifacts[0].Path)
	content := entries["1.mp3"]
	if !strings.HasPrefix(content, "ID3") {
		t.Error("tagged entry should start with an ID3 header")
	}
	if !strings.HasSuffix(content, "audio-h1") {
		t.Error("tagged entry should end with the original payload")
	}
}

func TestManager_ArtifactNamesSanitized(t *testing.T) {
	server := newHistoryServer(t, 3, nil)
	defer server.Close()

	manager := NewManager(testSettings(t, server.URL), nil)
	ctx := context.Background()

	if err := manager.Initialize(ctx, "test-key"); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := manager.StartDownloads(ctx); err != nil {
		t.Fatalf("StartDownloads failed: %v", err)
	}

	for _, artifact := range manager.Artifacts() {
		base := filepath.Base(artifact.Path)
		if !strings.HasPrefix(base, "version_"+artifact.Take.Letter()+"_") || !strings.HasSuffix(base, ".zip") {
			t.Errorf("artifact name %q does not match version_<take>_<timestamp>.zip", base)
		}
	}
}
