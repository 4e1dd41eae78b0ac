package standings_test

import (
	"fmt"
	"testing"

	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/internal/domain/session"
	"github.com/okian/gridbook/internal/domain/standings"
	. "github.com/smartystreets/goconvey/convey"
)

var racePoints = []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
var sprintPoints = []float64{8, 7, 6, 5, 4, 3, 2, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

func record(round int, kind model.SessionKind, event, driver string, standing int, points float64) model.ResultRecord {
	sid := session.NewSessionID(2025, round, kind)
	return model.ResultRecord{
		RecordID:   session.RecordID(sid, driver),
		Session:    sid,
		EventName:  event,
		Standing:   standing,
		DriverName: driver,
		Team:       "Team " + driver,
		Points:     points,
	}
}

// fullSession builds one session's 20-driver classification with the
// given points table.
func fullSession(round int, kind model.SessionKind, event string, points []float64) []model.ResultRecord {
	records := make([]model.ResultRecord, 0, len(points))
	for i, pts := range points {
		driver := fmt.Sprintf("Driver %02d", i+1)
		records = append(records, record(round, kind, event, driver, i+1, pts))
	}
	return records
}

func TestComputeDedup(t *testing.T) {
	Convey("Given the same session appearing twice in the input", t, func() {
		once := record(2, model.KindRace, "Chinese Grand Prix", "Oscar Piastri", 1, 25)
		input := []model.ResultRecord{once, once}

		table := standings.Compute(input)

		Convey("Then the session's points are attributed exactly once", func() {
			So(len(table), ShouldEqual, 1)
			So(table[0].TotalPoints, ShouldEqual, 25.0)
		})
	})

	Convey("Given distinct sessions for the same driver", t, func() {
		input := []model.ResultRecord{
			record(1, model.KindRace, "Australian Grand Prix", "Oscar Piastri", 2, 18),
			record(2, model.KindSprint, "Chinese Grand Prix", "Oscar Piastri", 1, 8),
			record(2, model.KindRace, "Chinese Grand Prix", "Oscar Piastri", 1, 25),
		}

		table := standings.Compute(input)

		Convey("Then all of them count", func() {
			So(table[0].TotalPoints, ShouldEqual, 51.0)
		})
	})
}

func TestComputeOrdering(t *testing.T) {
	Convey("Given totals of 25, 18, 18 and 15", t, func() {
		input := []model.ResultRecord{
			record(1, model.KindRace, "Australian Grand Prix", "B", 2, 18),
			record(1, model.KindRace, "Australian Grand Prix", "A", 1, 25),
			record(1, model.KindRace, "Australian Grand Prix", "C", 3, 18),
			record(1, model.KindRace, "Australian Grand Prix", "D", 4, 15),
		}

		table := standings.Compute(input)

		Convey("Then the order is descending with stable ties", func() {
			So(len(table), ShouldEqual, 4)
			So(table[0].DriverName, ShouldEqual, "A")
			So(table[1].DriverName, ShouldEqual, "B") // first-encountered 18
			So(table[2].DriverName, ShouldEqual, "C")
			So(table[3].DriverName, ShouldEqual, "D")
		})
	})
}

func TestComputeTeam(t *testing.T) {
	Convey("Given a driver whose team label changed between records", t, func() {
		first := record(1, model.KindRace, "Australian Grand Prix", "X", 1, 25)
		first.Team = "Old Team"
		second := record(2, model.KindRace, "Chinese Grand Prix", "X", 1, 25)
		second.Team = "New Team"

		table := standings.Compute([]model.ResultRecord{first, second})

		Convey("Then the most recently seen team is reported", func() {
			So(table[0].Team, ShouldEqual, "New Team")
		})
	})
}

func TestComputeOrderIndependence(t *testing.T) {
	Convey("Given the same record set in two different arrangements", t, func() {
		sorted := fullSession(1, model.KindRace, "Australian Grand Prix", racePoints)
		sorted = append(sorted, fullSession(2, model.KindSprint, "Chinese Grand Prix", sprintPoints)...)
		sorted = append(sorted, fullSession(2, model.KindRace, "Chinese Grand Prix", racePoints)...)

		// Driver 03 changes teams between rounds so the Team column
		// depends on which record wins.
		for i := range sorted {
			if sorted[i].DriverName == "Driver 03" {
				sorted[i].Team = fmt.Sprintf("Scuderia %d", sorted[i].Session.Round)
			}
		}

		reversed := make([]model.ResultRecord, len(sorted))
		for i, rec := range sorted {
			reversed[len(sorted)-1-i] = rec
		}

		Convey("Then both arrangements yield the identical table", func() {
			So(standings.Compute(reversed), ShouldResemble, standings.Compute(sorted))
		})

		Convey("Then the team column reflects the latest round either way", func() {
			for _, table := range [][]model.DriverStanding{
				standings.Compute(sorted),
				standings.Compute(reversed),
			} {
				for _, row := range table {
					if row.DriverName == "Driver 03" {
						So(row.Team, ShouldEqual, "Scuderia 2")
					}
				}
			}
		})
	})
}

func TestComputeSeason(t *testing.T) {
	Convey("Given round 1 race plus round 2 race and sprint", t, func() {
		input := fullSession(1, model.KindRace, "Australian Grand Prix", racePoints)
		input = append(input, fullSession(2, model.KindRace, "Chinese Grand Prix", racePoints)...)
		input = append(input, fullSession(2, model.KindSprint, "Chinese Grand Prix", sprintPoints)...)

		Convey("When round 2's race records are accidentally present twice", func() {
			input = append(input, fullSession(2, model.KindRace, "Chinese Grand Prix", racePoints)...)

			table := standings.Compute(input)

			Convey("Then every driver's total is race + race + sprint, counted once", func() {
				So(len(table), ShouldEqual, 20)
				byName := make(map[string]float64, len(table))
				for _, row := range table {
					byName[row.DriverName] = row.TotalPoints
				}
				for i := range racePoints {
					driver := fmt.Sprintf("Driver %02d", i+1)
					So(byName[driver], ShouldEqual, racePoints[i]*2+sprintPoints[i])
				}
			})

			Convey("Then the leader is driver 01", func() {
				So(table[0].DriverName, ShouldEqual, "Driver 01")
				So(table[0].TotalPoints, ShouldEqual, 58.0)
			})
		})
	})
}
