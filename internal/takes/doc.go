// Package takes reconstructs the A/B/C take grouping from raw history
// records.
//
// The generation workflow produces three variants (takes) per input line,
// but the history API carries no grouping field, so the structure has to
// be recovered heuristically. Two strategies are provided behind one
// interface:
//
//	// Strict a,b,c,a,b,c temporal order:
//	vs := takes.Positional{}.Reconstruct(records)
//
//	// Cluster by shared text prefix, only the last 6 hours:
//	vs := takes.SnippetCluster{Window: 6 * time.Hour}.Reconstruct(records)
//
// # Choosing a strategy
//
// Positional is correct when the history is complete and contiguous; it
// assigns every record to exactly one slot. SnippetCluster tolerates
// interleaved or missing generations but silently drops any records
// beyond three that share a prefix.
//
// Slot assignment for partial clusters and for tied timestamps follows
// earliest-available-timestamp order. That matches observed upstream
// behavior but is not a guaranteed contract of the history API.
package takes
