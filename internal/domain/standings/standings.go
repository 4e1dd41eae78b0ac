// Package standings folds the full record set into the season standings
// table with exactly-once point accounting per session.
//
// The per-driver seen-session set is the load-bearing invariant: it
// defends against duplicate physical records that survived write-time
// dedup (a migration artifact, a partial write, records ingested before
// the idempotency fix). Write-time idempotency prevents future
// duplicates; this fold tolerates existing ones. The two are different
// failure domains and both defenses must exist.
package standings

import (
	"sort"

	"github.com/okian/gridbook/internal/domain/model"
)

// accumulator carries one driver's running total and the sessions
// already counted for them.
type accumulator struct {
	standing model.DriverStanding
	seen     map[model.SessionID]struct{}
}

// Compute folds records into DriverStandings ordered by total points
// descending. A record whose SessionID was already counted for its
// driver adds nothing. The fold runs over the records in chronological
// order regardless of how the caller arranged them, so the output is a
// function of the record set: a driver's Team is the one from their
// latest session, and equal totals rank in order of each driver's first
// session of the season. No countback tie-break is applied. Pure: safe
// to call repeatedly and concurrently on the same snapshot.
func Compute(records []model.ResultRecord) []model.DriverStanding {
	ordered := make([]model.ResultRecord, len(records))
	copy(ordered, records)
	sort.Slice(ordered, func(i, j int) bool {
		return model.ChronologicalLess(ordered[i], ordered[j])
	})

	byDriver := make(map[string]*accumulator)
	order := make([]string, 0)

	for _, rec := range ordered {
		acc, ok := byDriver[rec.DriverName]
		if !ok {
			acc = &accumulator{
				standing: model.DriverStanding{DriverName: rec.DriverName},
				seen:     make(map[model.SessionID]struct{}),
			}
			byDriver[rec.DriverName] = acc
			order = append(order, rec.DriverName)
		}

		if _, counted := acc.seen[rec.Session]; counted {
			continue
		}
		acc.seen[rec.Session] = struct{}{}
		acc.standing.TotalPoints += rec.Points
		acc.standing.Team = rec.Team // chronologically latest team wins
	}

	result := make([]model.DriverStanding, 0, len(order))
	for _, name := range order {
		result = append(result, byDriver[name].standing)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalPoints > result[j].TotalPoints
	})

	return result
}
