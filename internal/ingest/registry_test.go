package ingest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/gridbook/internal/ingest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given a batch registry", t, func() {
		r := ingest.NewRegistry()

		Convey("When opening a batch", func() {
			id := r.Open(3)

			Convey("Then it should return a unique id and track the batch", func() {
				So(id, ShouldNotBeEmpty)
				So(r.Pending(), ShouldEqual, 1)
				So(r.Open(1), ShouldNotEqual, id)
			})
		})

		Convey("When every record succeeds", func() {
			id := r.Open(2)
			r.Success(id, "rec-1")
			r.Success(id, "rec-2")

			Convey("Then Wait should return immediately with the tally", func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				succeeded, failed, err := r.Wait(ctx, id)
				So(err, ShouldBeNil)
				So(succeeded, ShouldEqual, 2)
				So(failed, ShouldBeEmpty)
				So(r.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When some records fail", func() {
			id := r.Open(3)
			r.Success(id, "rec-1")
			r.Failure(id, "rec-2", errors.New("store error"))
			r.Success(id, "rec-3")

			Convey("Then Wait should report the failed record ids", func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				succeeded, failed, err := r.Wait(ctx, id)
				So(err, ShouldBeNil)
				So(succeeded, ShouldEqual, 2)
				So(len(failed), ShouldEqual, 1)
				So(failed[0].RecordID, ShouldEqual, "rec-2")
				So(failed[0].Err.Error(), ShouldContainSubstring, "store error")
			})
		})

		Convey("When a batch expects zero records", func() {
			id := r.Open(0)

			Convey("Then Wait should not block", func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				succeeded, failed, err := r.Wait(ctx, id)
				So(err, ShouldBeNil)
				So(succeeded, ShouldEqual, 0)
				So(failed, ShouldBeEmpty)
			})
		})

		Convey("When outcomes arrive while Wait is blocking", func() {
			id := r.Open(2)

			go func() {
				time.Sleep(20 * time.Millisecond)
				r.Success(id, "rec-1")
				r.Success(id, "rec-2")
			}()

			Convey("Then Wait should unblock once the batch drains", func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				succeeded, _, err := r.Wait(ctx, id)
				So(err, ShouldBeNil)
				So(succeeded, ShouldEqual, 2)
			})
		})

		Convey("When the context expires before the batch drains", func() {
			id := r.Open(2)
			r.Success(id, "rec-1")

			Convey("Then Wait should return the context error", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
				defer cancel()
				succeeded, _, err := r.Wait(ctx, id)
				So(err, ShouldNotBeNil)
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)
				So(succeeded, ShouldEqual, 1)
				So(r.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When reporting against an unknown batch", func() {
			Convey("Then the report should be ignored", func() {
				So(func() { r.Success("no-such-batch", "rec-1") }, ShouldNotPanic)
				So(func() { r.Failure("no-such-batch", "rec-1", errors.New("x")) }, ShouldNotPanic)
				So(r.Pending(), ShouldEqual, 0)
			})
		})

		Convey("When more outcomes arrive than the batch expects", func() {
			id := r.Open(1)
			r.Success(id, "rec-1")
			r.Success(id, "rec-1") // late duplicate report

			Convey("Then the extra outcome should not be counted", func() {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				succeeded, _, err := r.Wait(ctx, id)
				So(err, ShouldBeNil)
				So(succeeded, ShouldEqual, 1)
			})
		})
	})
}
