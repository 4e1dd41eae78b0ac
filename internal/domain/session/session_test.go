package session_test

import (
	"testing"

	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCanonicalKind(t *testing.T) {
	Convey("Given raw session-kind tags from the source", t, func() {
		Convey("When the tag is any spelling of sprint", func() {
			Convey("Then all variants normalize to the same kind", func() {
				So(session.CanonicalKind("Sprint"), ShouldEqual, model.KindSprint)
				So(session.CanonicalKind(" sprint "), ShouldEqual, model.KindSprint)
				So(session.CanonicalKind("SPRINT"), ShouldEqual, model.KindSprint)
				So(session.CanonicalKind("Sprint Race"), ShouldEqual, model.KindSprint)
				So(session.CanonicalKind("sprint_race"), ShouldEqual, model.KindSprint)
			})
		})

		Convey("When the tag is a race spelling", func() {
			So(session.CanonicalKind("Race"), ShouldEqual, model.KindRace)
			So(session.CanonicalKind("  RACE  "), ShouldEqual, model.KindRace)
		})

		Convey("When the tag is absent or unrecognized", func() {
			Convey("Then it defaults to Race", func() {
				So(session.CanonicalKind(""), ShouldEqual, model.KindRace)
				So(session.CanonicalKind("   "), ShouldEqual, model.KindRace)
				So(session.CanonicalKind("feature"), ShouldEqual, model.KindRace)
			})
		})
	})
}

func TestSessionIdentity(t *testing.T) {
	Convey("Given session identifiers", t, func() {
		a := session.NewSessionID(2025, 2, model.KindRace)
		b := session.NewSessionID(2025, 2, model.KindRace)
		c := session.NewSessionID(2025, 2, model.KindSprint)

		Convey("Then equality is component-wise", func() {
			So(a, ShouldResemble, b)
			So(a, ShouldNotResemble, c)
		})

		Convey("Then identifiers are usable as map keys", func() {
			seen := map[model.SessionID]struct{}{a: {}}
			_, ok := seen[b]
			So(ok, ShouldBeTrue)
			_, ok = seen[c]
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRecordID(t *testing.T) {
	Convey("Given a session and a driver", t, func() {
		id := session.NewSessionID(2025, 2, model.KindRace)

		Convey("Then the record id is deterministic", func() {
			So(session.RecordID(id, "Max Verstappen"), ShouldEqual, session.RecordID(id, "Max Verstappen"))
			So(session.RecordID(id, "Max Verstappen"), ShouldEqual, "2025|2|Race|Max Verstappen")
		})

		Convey("Then distinct pairs never collide", func() {
			sprint := session.NewSessionID(2025, 2, model.KindSprint)
			So(session.RecordID(id, "Max Verstappen"), ShouldNotEqual, session.RecordID(sprint, "Max Verstappen"))
			So(session.RecordID(id, "Max Verstappen"), ShouldNotEqual, session.RecordID(id, "Lando Norris"))
		})

		Convey("Then separators inside the driver name are escaped", func() {
			tricky := session.RecordID(id, "A|B")
			plain := session.RecordID(id, `A\`)
			So(tricky, ShouldNotEqual, session.RecordID(id, "A")+"|B")
			So(tricky, ShouldNotEqual, plain)
			So(tricky, ShouldEqual, `2025|2|Race|A\|B`)
		})
	})
}
