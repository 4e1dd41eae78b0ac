package repository_test

import (
	"context"
	"testing"

	"github.com/okian/gridbook/internal/adapters/repository"
	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/internal/domain/session"
	. "github.com/smartystreets/goconvey/convey"
)

func newRecord(round int, kind model.SessionKind, event, driver string, points float64) model.ResultRecord {
	sid := session.NewSessionID(2025, round, kind)
	return model.ResultRecord{
		RecordID:   session.RecordID(sid, driver),
		Session:    sid,
		EventName:  event,
		Standing:   1,
		DriverName: driver,
		Team:       "Team " + driver,
		Points:     points,
	}
}

func TestMemStoreUpsert(t *testing.T) {
	Convey("Given an empty in-memory store", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()
		rec := newRecord(2, model.KindRace, "Chinese Grand Prix", "Lewis Hamilton", 25)

		Convey("When the same record is ingested twice", func() {
			So(store.Upsert(ctx, rec), ShouldBeNil)
			So(store.Upsert(ctx, rec), ShouldBeNil)

			Convey("Then exactly one record exists for that id", func() {
				all, err := store.QueryAll(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 1)
				So(store.Count(ctx), ShouldEqual, 1)
			})
		})

		Convey("When a record is re-ingested with corrected fields", func() {
			So(store.Upsert(ctx, rec), ShouldBeNil)
			corrected := rec
			corrected.Points = 26 // fastest lap point granted after review
			So(store.Upsert(ctx, corrected), ShouldBeNil)

			Convey("Then the record is updated in place", func() {
				all, err := store.QueryAll(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 1)
				So(all[0].Points, ShouldEqual, 26.0)
			})
		})

		Convey("When records span multiple events", func() {
			So(store.Upsert(ctx, rec), ShouldBeNil)
			So(store.Upsert(ctx, newRecord(2, model.KindSprint, "Chinese Grand Prix", "Lewis Hamilton", 8)), ShouldBeNil)
			So(store.Upsert(ctx, newRecord(1, model.KindRace, "Australian Grand Prix", "Lewis Hamilton", 18)), ShouldBeNil)

			Convey("Then QueryByEvent filters correctly", func() {
				china, err := store.QueryByEvent(ctx, "Chinese Grand Prix")
				So(err, ShouldBeNil)
				So(len(china), ShouldEqual, 2)

				australia, err := store.QueryByEvent(ctx, "Australian Grand Prix")
				So(err, ShouldBeNil)
				So(len(australia), ShouldEqual, 1)
			})

			Convey("Then QueryAll returns everything", func() {
				all, err := store.QueryAll(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 3)
			})
		})

		Convey("When the event label changes under the same identity", func() {
			So(store.Upsert(ctx, rec), ShouldBeNil)
			renamed := rec
			renamed.EventName = "Shanghai Grand Prix"
			So(store.Upsert(ctx, renamed), ShouldBeNil)

			Convey("Then the old event index entry is gone", func() {
				old, err := store.QueryByEvent(ctx, "Chinese Grand Prix")
				So(err, ShouldBeNil)
				So(len(old), ShouldEqual, 0)

				renamedRecs, err := store.QueryByEvent(ctx, "Shanghai Grand Prix")
				So(err, ShouldBeNil)
				So(len(renamedRecs), ShouldEqual, 1)
			})
		})

		Convey("When records are inserted out of calendar order", func() {
			So(store.Upsert(ctx, newRecord(2, model.KindRace, "Chinese Grand Prix", "Oscar Piastri", 25)), ShouldBeNil)
			So(store.Upsert(ctx, newRecord(1, model.KindRace, "Australian Grand Prix", "Lando Norris", 25)), ShouldBeNil)
			So(store.Upsert(ctx, newRecord(2, model.KindSprint, "Chinese Grand Prix", "Oscar Piastri", 8)), ShouldBeNil)
			So(store.Upsert(ctx, newRecord(1, model.KindRace, "Australian Grand Prix", "Oscar Piastri", 18)), ShouldBeNil)

			Convey("Then QueryAll returns the chronological sequence", func() {
				all, err := store.QueryAll(ctx)
				So(err, ShouldBeNil)
				So(len(all), ShouldEqual, 4)
				So(all[0].Session, ShouldResemble, session.NewSessionID(2025, 1, model.KindRace))
				So(all[1].Session, ShouldResemble, session.NewSessionID(2025, 1, model.KindRace))
				So(all[0].DriverName, ShouldBeLessThan, all[1].DriverName)
				So(all[2].Session.Kind, ShouldEqual, model.KindSprint)
				So(all[3].Session.Kind, ShouldEqual, model.KindRace)
			})

			Convey("Then repeated reads observe the same sequence", func() {
				first, err := store.QueryAll(ctx)
				So(err, ShouldBeNil)
				for i := 0; i < 20; i++ {
					again, err := store.QueryAll(ctx)
					So(err, ShouldBeNil)
					So(again, ShouldResemble, first)
				}
			})

			Convey("Then QueryByEvent is ordered too", func() {
				china, err := store.QueryByEvent(ctx, "Chinese Grand Prix")
				So(err, ShouldBeNil)
				So(len(china), ShouldEqual, 2)
				So(china[0].Session.Kind, ShouldEqual, model.KindSprint)
				So(china[1].Session.Kind, ShouldEqual, model.KindRace)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)

			Convey("Then upserts fail with ErrClosed", func() {
				So(store.Upsert(ctx, rec), ShouldEqual, repository.ErrClosed)
			})
		})
	})
}
