// Package normalize turns raw, loosely-keyed source rows into canonical
// ResultRecords.
//
// Every optional field gets a documented default so downstream logic
// never special-cases "absent"; only an unresolvable round rejects a
// record. Normalization is pure and safe to run concurrently.
//
// Known limitation: DriverName is the identity key. The upstream offers
// no stable driver identifier, so a name spelled differently across
// ingestion runs is a different driver as far as this pipeline can tell.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/internal/domain/session"
)

// RawRecord is one upstream row: an untyped mapping where any field may
// be absent.
type RawRecord = map[string]any

// Key aliases accepted for each semantic field. The upstream is not
// consistent about casing or naming, so each field is resolved through
// its alias list in order.
var (
	roundKeys      = []string{"round", "Round"}
	kindKeys       = []string{"session_type", "sessionType", "type", "Session"}
	driverKeys     = []string{"Driver", "driver", "driver_name", "driverName"}
	teamKeys       = []string{"Team", "team", "constructor", "Constructor"}
	fastestLapKeys = []string{"Fastest Lap", "fastest_lap", "fastestLap"}
	pointsKeys     = []string{"Points", "points"}
	eventNameKeys  = []string{"raceName", "race_name", "event", "eventName"}
	eventDateKeys  = []string{"race_date", "date", "event_date"}
	standingKeys   = []string{"position", "Position", "standing"}
	numberKeys     = []string{"driver_number", "number", "Number"}
)

// defaultDateLayouts are tried in order when parsing the event date.
var defaultDateLayouts = []string{time.RFC3339, "2006-01-02"}

// Normalizer canonicalizes raw records for a season.
type Normalizer struct {
	dateLayouts []string
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		dateLayouts: defaultDateLayouts,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize builds one ResultRecord from a raw row. It fails only with
// *MissingRoundError; every other absent field takes its sentinel
// default.
func (n *Normalizer) Normalize(raw RawRecord, season int) (model.ResultRecord, error) {
	round, err := resolveRound(raw)
	if err != nil {
		return model.ResultRecord{}, err
	}

	kind := session.CanonicalKind(stringField(raw, kindKeys, ""))
	sid := session.NewSessionID(season, round, kind)

	driver := stringField(raw, driverKeys, model.UnknownDriver)

	rec := model.ResultRecord{
		RecordID:     session.RecordID(sid, driver),
		Session:      sid,
		EventName:    stringField(raw, eventNameKeys, ""),
		EventDate:    n.dateField(raw, eventDateKeys),
		Standing:     intField(raw, standingKeys, 0),
		DriverNumber: stringField(raw, numberKeys, model.NotAvailable),
		DriverName:   driver,
		Team:         stringField(raw, teamKeys, model.UnknownTeam),
		FastestLap:   stringField(raw, fastestLapKeys, model.NotAvailable),
		Points:       floatField(raw, pointsKeys, 0),
	}
	if rec.Standing < 0 {
		rec.Standing = 0
	}
	if rec.Points < 0 {
		rec.Points = 0
	}
	return rec, nil
}

// NormalizeAll normalizes a batch, collecting per-record rejections by
// source position. One bad record never aborts the rest.
func (n *Normalizer) NormalizeAll(raws []RawRecord, season int) ([]model.ResultRecord, []Reject) {
	records := make([]model.ResultRecord, 0, len(raws))
	var rejects []Reject
	for i, raw := range raws {
		rec, err := n.Normalize(raw, season)
		if err != nil {
			rejects = append(rejects, Reject{Pos: i, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, rejects
}

// resolveRound extracts the 1-based round. Numeric strings are accepted;
// fractional values and anything else are a *MissingRoundError. JSON
// decodes every number as float64, so an integral float like 3.0 is a
// valid round while 2.7 is not a round at all.
func resolveRound(raw RawRecord) (int, error) {
	for _, key := range roundKeys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case int:
			if x >= 1 {
				return x, nil
			}
		case int64:
			if x >= 1 {
				return int(x), nil
			}
		case float64:
			if x >= 1 && x == math.Trunc(x) {
				return int(x), nil
			}
		case string:
			if r, err := strconv.Atoi(strings.TrimSpace(x)); err == nil && r >= 1 {
				return r, nil
			}
		}
		return 0, &MissingRoundError{Raw: v}
	}
	return 0, &MissingRoundError{}
}

func stringField(raw RawRecord, keys []string, def string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			if s, ok := v.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return def
}

func intField(raw RawRecord, keys []string, def int) int {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case int:
			return x
		case int64:
			return int(x)
		case float64:
			return int(x)
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
				return i
			}
		}
	}
	return def
}

func floatField(raw RawRecord, keys []string, def float64) float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			return x
		case int:
			return float64(x)
		case int64:
			return float64(x)
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil {
				return f
			}
		}
	}
	return def
}

func (n *Normalizer) dateField(raw RawRecord, keys []string) time.Time {
	s := stringField(raw, keys, "")
	if s == "" {
		return time.Time{}
	}
	for _, layout := range n.dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
