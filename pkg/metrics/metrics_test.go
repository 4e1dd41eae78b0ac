package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording ingestion metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					RecordUpsert()
					RecordOverwrite()
					RecordNormalizeReject()
					RecordUpsertError()
					RecordFetchError()
					RecordFetchLatency(12.5)
					RecordBatchCompleted()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording store metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					UpdateStoreRecords(42)
					RecordStoreUpsertLatency(1.5)
					RecordStoreQueryLatency(3.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording queue metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					UpdateQueueSize(10)
					UpdateQueueCapacity(100)
					UpdateQueueUtilization(0.1)
					RecordQueueEnqueue()
					RecordQueueDequeue()
					RecordQueueEnqueueError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording worker metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					UpdateWorkerCount(4)
					RecordWorkerProcessingLatency(2.0)
					RecordWorkerError()
				}, ShouldNotPanic)
			})
		})

		Convey("When recording HTTP metrics", func() {
			Convey("Then recording should not panic", func() {
				So(func() {
					RecordHTTPRequest("standings", "GET", "200")
					RecordHTTPRequestDuration("standings", "GET", "200", 5.0)
					RecordErrorByComponent("http", "client_error")
				}, ShouldNotPanic)
			})
		})

		Convey("When updating system metrics", func() {
			Convey("Then updating should not panic", func() {
				So(func() {
					UpdateSystemMemoryUsage(1024 * 1024)
					UpdateSystemGoroutineCount(12)
				}, ShouldNotPanic)
			})
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		Convey("When gathering after recording", func() {
			RecordUpsert()
			RecordHTTPRequest("events", "GET", "200")

			families, err := GetRegistry().Gather()

			Convey("Then the custom metrics should be exposed", func() {
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)

				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["gridbook_results_records_upserted_total"], ShouldBeTrue)
				So(names["gridbook_results_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
