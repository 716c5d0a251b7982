package model

// Take identifies one of the three generation variants (A, B, C) that the
// generation workflow produces for each input line.
type Take int

const (
	TakeA Take = iota
	TakeB
	TakeC
)

// Takes lists all takes in canonical order. Iterate over this instead of
// hand-rolling the sequence so every consumer agrees on A, B, C ordering.
var Takes = []Take{TakeA, TakeB, TakeC}

// Letter returns the take's single-letter name: "A", "B" or "C".
func (t Take) Letter() string {
	switch t {
	case TakeA:
		return "A"
	case TakeB:
		return "B"
	case TakeC:
		return "C"
	default:
		return "?"
	}
}

// String implements fmt.Stringer.
func (t Take) String() string {
	return "Take " + t.Letter()
}

// VersionSet is the reconstructed grouping output: one ordered record
// sequence per take. Order within each take reflects batch chronological
// order, not necessarily original fetch order.
//
// Invariants maintained by the reconstruction strategies:
//   - every record appears in at most one slot across the whole set
//   - a batch contributes at most one record per take
type VersionSet struct {
	A []HistoryRecord
	B []HistoryRecord
	C []HistoryRecord
}

// Slot returns the record sequence for the given take.
func (v *VersionSet) Slot(t Take) []HistoryRecord {
	switch t {
	case TakeA:
		return v.A
	case TakeB:
		return v.B
	case TakeC:
		return v.C
	default:
		return nil
	}
}

// Append adds a record to the given take's sequence.
func (v *VersionSet) Append(t Take, r HistoryRecord) {
	switch t {
	case TakeA:
		v.A = append(v.A, r)
	case TakeB:
		v.B = append(v.B, r)
	case TakeC:
		v.C = append(v.C, r)
	}
}

// Total returns the number of records across all three takes.
func (v *VersionSet) Total() int {
	return len(v.A) + len(v.B) + len(v.C)
}

// IsEmpty reports whether no take holds any record. An empty set means
// "nothing found", not an error.
func (v *VersionSet) IsEmpty() bool {
	return v.Total() == 0
}
