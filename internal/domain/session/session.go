// Package session derives stable session and record identities.
//
// CanonicalKind is the single point of truth for session-kind
// normalization. Callers must never re-implement case handling locally:
// divergent normalization between the write path and the read path is
// exactly how race results end up in the wrong bucket.
package session

import (
	"strconv"
	"strings"

	"github.com/okian/gridbook/internal/domain/model"
)

// recordIDSep separates the components of a record ID. Occurrences inside
// the driver name are escaped so distinct (session, driver) pairs can
// never collide.
const recordIDSep = "|"

// sprintSynonyms maps folded raw tags to the Sprint kind. Extending the
// kind universe means adding a canonical token in model and its synonyms
// here; nowhere else compares kind strings.
var sprintSynonyms = map[string]struct{}{
	"sprint":      {},
	"sprint race": {},
	"sprint_race": {},
	"sprintrace":  {},
}

// CanonicalKind maps a raw session-kind tag to its canonical form.
// Matching is whitespace- and case-insensitive. Anything unrecognized or
// empty maps to Race: the race is the common case, and a default beats a
// hard failure on a tag the upstream renamed. Strict mode (rejecting
// ambiguous tags) is deliberately not implemented.
func CanonicalKind(raw string) model.SessionKind {
	folded := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := sprintSynonyms[folded]; ok {
		return model.KindSprint
	}
	return model.KindRace
}

// NewSessionID builds the composite session identifier. Pure and total for
// any season and round >= 1; kind must already be canonical.
func NewSessionID(season, round int, kind model.SessionKind) model.SessionID {
	return model.SessionID{Season: season, Round: round, Kind: kind}
}

// RecordID derives the deduplication key for one driver's result in one
// session. Deterministic and collision-free: the driver component is
// escaped so a name containing the separator cannot forge another pair.
func RecordID(id model.SessionID, driverName string) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(id.Season))
	b.WriteString(recordIDSep)
	b.WriteString(strconv.Itoa(id.Round))
	b.WriteString(recordIDSep)
	b.WriteString(string(id.Kind))
	b.WriteString(recordIDSep)
	b.WriteString(escapeComponent(driverName))
	return b.String()
}

func escapeComponent(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, recordIDSep, `\`+recordIDSep)
}
