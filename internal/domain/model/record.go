// Package model contains domain models passed between layers.
package model

import "time"

// SessionKind is the canonical session classification. Values are only
// produced by session.CanonicalKind; raw source strings never cross into
// the domain as a SessionKind.
type SessionKind string

// Canonical session kinds. Comparisons and storage use these tokens only.
const (
	KindRace   SessionKind = "Race"
	KindSprint SessionKind = "Sprint"
)

// phase is the within-round running order: on a sprint weekend the
// sprint runs before the race.
func (k SessionKind) phase() int {
	if k == KindSprint {
		return 0
	}
	return 1
}

// SessionID identifies one discrete session within a season. Two records
// belong to the same session iff all three components are equal; this is
// the unit of "has this session's points already been counted".
type SessionID struct {
	Season int
	Round  int
	Kind   SessionKind
}

// Before reports whether s runs earlier in the calendar than other.
func (s SessionID) Before(other SessionID) bool {
	if s.Season != other.Season {
		return s.Season < other.Season
	}
	if s.Round != other.Round {
		return s.Round < other.Round
	}
	return s.Kind.phase() < other.Kind.phase()
}

// ResultRecord is one driver's classified result in one session.
// RecordID is derived from (SessionID, DriverName) and is the dedup and
// idempotency key: re-ingesting the same session for the same driver
// overwrites, never duplicates, the prior record.
type ResultRecord struct {
	RecordID     string
	Session      SessionID
	EventName    string    // human label, e.g. "Chinese Grand Prix"
	EventDate    time.Time // the session's calendar date
	Standing     int       // classification position; 0 = unclassified
	DriverNumber string
	DriverName   string
	Team         string
	FastestLap   string
	Points       float64
}

// ChronologicalLess is the canonical total order over records: calendar
// order of the session, then RecordID. Stores and aggregators use it so
// every read of an unchanged record set observes the same sequence.
func ChronologicalLess(a, b ResultRecord) bool {
	if a.Session != b.Session {
		return a.Session.Before(b.Session)
	}
	return a.RecordID < b.RecordID
}

// Sentinel values used when the source omits a field.
const (
	UnknownDriver = "Unknown Driver"
	UnknownTeam   = "Unknown Team"
	NotAvailable  = "N/A"
)

// EventView is the derived per-event display shape: the event's records
// partitioned by session kind. A bucket with zero records is absent from
// Sessions, not present and empty.
type EventView struct {
	EventName string                         `json:"event_name"`
	Sessions  map[SessionKind][]ResultRecord `json:"sessions"`
}

// DriverStanding is one row of the derived season standings table.
// Team is the most recently seen team for the driver.
type DriverStanding struct {
	DriverName  string  `json:"driver_name"`
	Team        string  `json:"team"`
	TotalPoints float64 `json:"total_points"`
}
