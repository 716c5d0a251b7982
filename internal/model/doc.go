// Package model defines the core data structures used throughout
// the takeback application.
//
// # HistoryRecord
//
// HistoryRecord is one past generation event as reported by the ElevenLabs
// history endpoint:
//
//	r := model.HistoryRecord{ID: "abc", CreatedAt: t, Text: "Hello world"}
//
// # Take and VersionSet
//
// Take enumerates the three generation variants (A, B, C). VersionSet is
// the output of group reconstruction, one ordered record sequence per take:
//
//	var vs model.VersionSet
//	vs.Append(model.TakeA, r)
//	for _, take := range model.Takes {
//	    fmt.Println(take, len(vs.Slot(take)))
//	}
package model
