package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/gridbook/internal/adapters/source"
	. "github.com/smartystreets/goconvey/convey"
)

func TestHTTPSource_FetchSeasonResults(t *testing.T) {
	Convey("Given an HTTP result source", t, func() {
		ctx := context.Background()

		Convey("When the provider returns a valid payload", func() {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`[
					{"round": 1, "Session": "Race", "Driver": "Driver A", "Points": 25},
					{"round": 1, "Session": "Race", "Driver": "Driver B", "Points": 18}
				]`))
			}))
			defer srv.Close()

			s := source.NewHTTPSource(srv.URL)
			raws, err := s.FetchSeasonResults(ctx, 2025)

			Convey("Then it should decode the raw rows", func() {
				So(err, ShouldBeNil)
				So(len(raws), ShouldEqual, 2)
				So(raws[0]["Driver"], ShouldEqual, "Driver A")
				So(gotPath, ShouldEqual, "/seasons/2025/results")
			})
		})

		Convey("When the provider returns an empty array", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			s := source.NewHTTPSource(srv.URL)
			raws, err := s.FetchSeasonResults(ctx, 2025)

			Convey("Then it should succeed with no rows", func() {
				So(err, ShouldBeNil)
				So(len(raws), ShouldEqual, 0)
			})
		})

		Convey("When the provider returns a non-200 status", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			defer srv.Close()

			s := source.NewHTTPSource(srv.URL)
			_, err := s.FetchSeasonResults(ctx, 2025)

			Convey("Then the error should classify as a fetch failure", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			})
		})

		Convey("When the payload is malformed", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"not": "an array"}`))
			}))
			defer srv.Close()

			s := source.NewHTTPSource(srv.URL)
			_, err := s.FetchSeasonResults(ctx, 2025)

			Convey("Then the error should classify as a fetch failure", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			})
		})

		Convey("When the provider is unreachable", func() {
			s := source.NewHTTPSource("http://127.0.0.1:1")
			_, err := s.FetchSeasonResults(ctx, 2025)

			Convey("Then the error should classify as a fetch failure", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			})
		})

		Convey("When the provider is slower than the timeout", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			s := source.NewHTTPSource(srv.URL, source.WithTimeout(20*time.Millisecond))
			_, err := s.FetchSeasonResults(ctx, 2025)

			Convey("Then the fetch should time out as a fetch failure", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, source.ErrFetch), ShouldBeTrue)
			})
		})
	})
}
