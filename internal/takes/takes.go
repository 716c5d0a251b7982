package takes

import (
	"sort"
	"time"

	"github.com/handiism/takeback/internal/model"
)

// SnippetKeyLength is the number of leading runes of a record's text used
// as the clustering key by SnippetCluster. The history endpoint returns a
// prefix of the generation input, so two variants of the same line share
// this prefix.
const SnippetKeyLength = 50

// Strategy reconstructs the A/B/C take grouping from an unordered list of
// history records. The history API exposes no grouping field, so both
// implementations are heuristics; which one is correct depends on how the
// history was produced.
//
// All strategies share the same edge-case behavior:
//   - zero records yield an empty VersionSet, never an error
//   - a batch with only 1 or 2 records fills only the leading slots;
//     slots are never padded, skipped or reassigned
//   - duplicate timestamps are ordered by original fetch position
type Strategy interface {
	Reconstruct(records []model.HistoryRecord) *model.VersionSet
}

// Positional assumes generation always happened in strict A, B, C, A, B,
// C, ... temporal order. It sorts all records oldest first, partitions
// them into consecutive triples and assigns slot A/B/C by position within
// each triple.
//
// Use this when the history is known to be complete and contiguous: every
// record is assigned to exactly one slot, and the three takes together
// reproduce the time-sorted input exactly.
type Positional struct{}

// Reconstruct implements Strategy.
func (Positional) Reconstruct(records []model.HistoryRecord) *model.VersionSet {
	vs := &model.VersionSet{}
	if len(records) == 0 {
		return vs
	}

	sorted := sortChronological(records)

	for i := 0; i < len(sorted); i += 3 {
		batch := sorted[i:min(i+3, len(sorted))]
		for slot, r := range batch {
			vs.Append(model.Take(slot), r)
		}
	}

	return vs
}

// SnippetCluster groups records that share the same text prefix, on the
// assumption that the three takes of one line were generated from the
// same input. Within each cluster the three chronologically earliest
// records become takes A, B and C; any further records in a cluster are
// dropped. This is a known limitation of the heuristic, not something to
// repair by inventing extra slots.
//
// When Window is positive, records strictly older than now minus Window
// are discarded before clustering. A record timestamped exactly at the
// cutoff is kept. The filter scans every record rather than stopping at
// the first old one, because the feed is not guaranteed to be sorted.
type SnippetCluster struct {
	// Window is the recency filter. Zero means no filtering.
	Window time.Duration

	// Now supplies the current instant for the recency cutoff.
	// Defaults to time.Now when nil.
	Now func() time.Time
}

// Reconstruct implements Strategy.
func (s SnippetCluster) Reconstruct(records []model.HistoryRecord) *model.VersionSet {
	vs := &model.VersionSet{}
	if len(records) == 0 {
		return vs
	}

	if s.Window > 0 {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		cutoff := now().Add(-s.Window)

		kept := make([]model.HistoryRecord, 0, len(records))
		for _, r := range records {
			if !r.CreatedAt.Before(cutoff) {
				kept = append(kept, r)
			}
		}
		records = kept
	}

	// Cluster by snippet key, preserving first-seen key order so runs
	// are deterministic even though no caller may rely on it.
	clusters := make(map[string][]model.HistoryRecord)
	var keys []string
	for _, r := range records {
		key := snippetKey(r.Text)
		if _, seen := clusters[key]; !seen {
			keys = append(keys, key)
		}
		clusters[key] = append(clusters[key], r)
	}

	for _, key := range keys {
		group := sortChronological(clusters[key])
		if len(group) > 3 {
			group = group[:3]
		}
		for slot, r := range group {
			vs.Append(model.Take(slot), r)
		}
	}

	return vs
}

// snippetKey derives the clustering key from a record's text: its first
// SnippetKeyLength runes.
func snippetKey(text string) string {
	runes := []rune(text)
	if len(runes) > SnippetKeyLength {
		runes = runes[:SnippetKeyLength]
	}
	return string(runes)
}

// sortChronological returns a copy of records sorted oldest first.
// Timestamp ties are broken by original fetch position so the result is
// deterministic regardless of input order.
func sortChronological(records []model.HistoryRecord) []model.HistoryRecord {
	sorted := make([]model.HistoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].FetchIndex < sorted[j].FetchIndex
	})
	return sorted
}
