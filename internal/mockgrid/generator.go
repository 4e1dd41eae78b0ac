// Package mockgrid generates deterministic mock season results for local
// development and end-to-end testing. The generated rows are deliberately
// messy so the normalization and dedup paths get exercised.
package mockgrid

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/okian/gridbook/internal/domain/normalize"
)

// Grid dimensions.
const (
	defaultRounds      = 8
	defaultDriverCount = 20
	sprintEvery        = 3
	teamSize           = 2
)

// Messiness cadence. Every Nth generated row gets the corresponding defect.
const (
	missingTeamEvery       = 7
	missingFastestLapEvery = 11
	missingDriverEvery     = 13
	missingRoundEvery      = 29
	stringPointsEvery      = 5
	duplicateEvery         = 17
	conflictEvery          = 23
)

// Points awarded by finishing position. Positions past the table score zero.
var (
	racePoints   = []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}
	sprintPoints = []float64{8, 7, 6, 5, 4, 3, 2, 1}
)

var eventNames = []string{
	"Bahrain Grand Prix",
	"Saudi Arabian Grand Prix",
	"Australian Grand Prix",
	"Japanese Grand Prix",
	"Chinese Grand Prix",
	"Miami Grand Prix",
	"Monaco Grand Prix",
	"Canadian Grand Prix",
	"Spanish Grand Prix",
	"Austrian Grand Prix",
	"British Grand Prix",
	"Hungarian Grand Prix",
}

var teamNames = []string{
	"Team Alpha", "Team Beta", "Team Gamma", "Team Delta", "Team Epsilon",
	"Team Zeta", "Team Eta", "Team Theta", "Team Iota", "Team Kappa",
}

// Kind spellings cycled across rows. All of them canonicalize to either
// Race or Sprint.
var (
	raceKindTokens   = []string{"Race", "RACE", "race", " Race "}
	sprintKindTokens = []string{"Sprint", "SPRINT", "sprint_race", "Sprint Race"}
)

// Generator produces the raw rows for a mock season. The same season
// always yields the same rows.
type Generator struct {
	rounds      int
	driverCount int
}

// NewGenerator creates a generator with default grid dimensions.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		rounds:      defaultRounds,
		driverCount: defaultDriverCount,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Season generates the raw result rows for the given season, shuffled into
// an arbitrary but deterministic order.
func (g *Generator) Season(season int) []normalize.RawRecord {
	rng := rand.New(rand.NewSource(int64(season)))

	var rows []normalize.RawRecord
	counter := 0
	for round := 1; round <= g.rounds; round++ {
		event := eventNames[(round-1)%len(eventNames)]
		date := time.Date(season, time.March, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, (round-1)*14)

		// Sprint weekends carry an extra short session before the race.
		if round%sprintEvery == 0 {
			rows = append(rows, g.session(rng, &counter, season, round, event, date, true)...)
		}
		rows = append(rows, g.session(rng, &counter, season, round, event, date, false)...)
	}

	rng.Shuffle(len(rows), func(i, j int) {
		rows[i], rows[j] = rows[j], rows[i]
	})
	return rows
}

// session generates one classification: every driver in a random finishing
// order, plus the occasional duplicate or conflicting row.
func (g *Generator) session(rng *rand.Rand, counter *int, season, round int, event string, date time.Time, sprint bool) []normalize.RawRecord {
	order := rng.Perm(g.driverCount)
	points := racePoints
	kinds := raceKindTokens
	if sprint {
		points = sprintPoints
		kinds = sprintKindTokens
	}

	rows := make([]normalize.RawRecord, 0, g.driverCount+2)
	for pos, driverIdx := range order {
		*counter++
		standing := pos + 1
		pts := 0.0
		if pos < len(points) {
			pts = points[pos]
		}

		row := normalize.RawRecord{
			"Session":  kinds[*counter%len(kinds)],
			"raceName": event,
			"date":     date.Format("2006-01-02"),
			"position": standing,
			"Points":   pts,
		}

		// Vary alias keys so every alias path gets traffic.
		switch *counter % 3 {
		case 0:
			row["round"] = round
			row["Driver"] = driverName(driverIdx)
			row["driver_number"] = strconv.Itoa(driverIdx + 1)
		case 1:
			row["Round"] = strconv.Itoa(round)
			row["driver_name"] = driverName(driverIdx)
			row["number"] = strconv.Itoa(driverIdx + 1)
		default:
			row["round"] = round
			row["driver"] = driverName(driverIdx)
			row["Number"] = strconv.Itoa(driverIdx + 1)
		}

		if *counter%stringPointsEvery == 0 {
			row["Points"] = strconv.FormatFloat(pts, 'f', -1, 64)
		}
		if *counter%missingTeamEvery != 0 {
			row["Team"] = teamNames[driverIdx/teamSize%len(teamNames)]
		}
		if *counter%missingFastestLapEvery != 0 {
			row["fastest_lap"] = fastestLap(rng)
		}
		if *counter%missingDriverEvery == 0 {
			delete(row, "Driver")
			delete(row, "driver_name")
			delete(row, "driver")
		}
		if *counter%missingRoundEvery == 0 {
			delete(row, "round")
			delete(row, "Round")
		}

		rows = append(rows, row)

		// Exact duplicates must collapse to one stored record.
		if *counter%duplicateEvery == 0 {
			dup := make(normalize.RawRecord, len(row))
			for k, v := range row {
				dup[k] = v
			}
			rows = append(rows, dup)
		}

		// Conflicting duplicates carry corrected points for the same
		// session and driver; the last write wins.
		if *counter%conflictEvery == 0 {
			conflict := make(normalize.RawRecord, len(row))
			for k, v := range row {
				conflict[k] = v
			}
			conflict["Points"] = pts + 1
			rows = append(rows, conflict)
		}
	}
	return rows
}

func driverName(idx int) string {
	return fmt.Sprintf("Driver %02d", idx+1)
}

func fastestLap(rng *rand.Rand) string {
	return fmt.Sprintf("1:%02d.%03d", 20+rng.Intn(20), rng.Intn(1000))
}
