package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/bogem/id3v2"
	"github.com/handiism/takeback/internal/model"
)

// TagConfig holds the tagging options applied to recovered payloads.
//
// Example:
//
//	cfg := &TagConfig{Album: "My Recovery Session"}
//	tagger := NewTagger(cfg)
type TagConfig struct {
	// Album is the TALB frame value written to every payload.
	Album string

	// Language is the ISO-639-2 language code for the comment frame.
	Language string
}

// DefaultTagConfig returns the default tagging configuration.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		Album:    "ElevenLabs Recovery",
		Language: "eng",
	}
}

// Tagger writes ID3v2 tags onto recovered MP3 payloads in memory.
//
// Recovered audio carries no metadata of its own, so the tagger labels
// each payload with its reconstructed position before archiving:
//   - Title (TIT2): take letter and 1-based position, e.g. "Take A 3"
//   - Album (TALB): the configured album name
//   - Track number (TRCK): position within the take
//   - Recording time (TDRC): the record's creation date
//   - Comment (COMM): the history item id and generation text
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	tagged, err := tagger.TagPayload(mp3Bytes, model.TakeA, 3, record)
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// TagPayload returns a copy of payload with a fresh ID3v2 tag prepended.
//
// Any ID3v2 tag already present on the payload is replaced, not merged.
// The position argument is the record's 1-based index within its take.
func (t *Tagger) TagPayload(payload []byte, take model.Take, position int, record model.HistoryRecord) ([]byte, error) {
	audio := payload

	// Strip an existing tag so we never stack two headers.
	if bytes.HasPrefix(payload, []byte("ID3")) {
		existing, err := id3v2.ParseReader(bytes.NewReader(payload), id3v2.Options{Parse: false})
		if err != nil {
			return nil, fmt.Errorf("parse existing tag: %w", err)
		}
		if size := existing.Size(); size > 0 && len(payload) > size {
			audio = payload[size:]
		}
	}

	tag := id3v2.NewEmptyTag()
	tag.SetTitle(fmt.Sprintf("Take %s %d", take.Letter(), position))
	tag.SetAlbum(t.config.Album)
	tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, fmt.Sprintf("%d", position))
	if !record.CreatedAt.IsZero() {
		tag.AddTextFrame("TDRC", id3v2.EncodingUTF8, record.CreatedAt.Format("2006-01-02"))
	}
	if record.ID != "" || record.Text != "" {
		tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    id3v2.EncodingUTF8,
			Language:    t.config.Language,
			Description: record.ID,
			Text:        record.Text,
		})
	}

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write tag: %w", err)
	}
	if _, err := io.Copy(&buf, bytes.NewReader(audio)); err != nil {
		return nil, fmt.Errorf("append audio: %w", err)
	}

	return buf.Bytes(), nil
}
