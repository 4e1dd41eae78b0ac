// Package eventview partitions one event's records by session kind for
// display.
//
// The grouper trusts the normalizer: Session.Kind is already canonical
// and is never re-derived here. Duplicate physical records for the same
// (session, driver) are displayed, not hidden; for display, surfacing a
// duplicate beats silently dropping a real result. Scoring-side dedup is
// the standings package's job.
package eventview

import (
	"sort"

	"github.com/okian/gridbook/internal/domain/model"
)

// Compute filters records to the named event and partitions them by
// session kind, each bucket ordered by standing ascending with
// unclassified (standing 0) entries last. A kind with no records has no
// bucket; a single-session event is the normal case, not an edge case.
// Pure: safe to call repeatedly and concurrently on the same snapshot.
func Compute(records []model.ResultRecord, eventName string) model.EventView {
	view := model.EventView{
		EventName: eventName,
		Sessions:  make(map[model.SessionKind][]model.ResultRecord),
	}

	for _, rec := range records {
		if rec.EventName != eventName {
			continue
		}
		view.Sessions[rec.Session.Kind] = append(view.Sessions[rec.Session.Kind], rec)
	}

	for kind, bucket := range view.Sessions {
		sort.SliceStable(bucket, func(i, j int) bool {
			return standingLess(bucket[i].Standing, bucket[j].Standing)
		})
		view.Sessions[kind] = bucket
	}

	return view
}

// standingLess orders classified positions ascending and pushes
// unclassified (0) entries to the end.
func standingLess(a, b int) bool {
	switch {
	case a == 0:
		return false
	case b == 0:
		return true
	default:
		return a < b
	}
}
