package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithPrometheusRegistry(registry),
				WithNamespace("test"),
				WithSubsystem("roster"),
				WithHistogramBuckets([]float64{1, 5, 10}),
				WithConstLabels(map[string]string{"env": "test"}),
			)

			Convey("Then collectors should be registered under the namespace", func() {
				m.SetActivities(9)
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_roster_activities_total"], ShouldBeTrue)
			})
		})

		Convey("When registering two managers on the same registry", func() {
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on a private registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording roster operations", func() {
			m.RecordSignup("Chess Club", ResultOK)
			m.RecordSignup("Chess Club", ResultOK)
			m.RecordSignup("Chess Club", ResultDuplicate)
			m.RecordUnregister(UnknownActivity, ResultNotFound)
			m.SetParticipants("Chess Club", 4)

			Convey("Then counters and gauges should reflect them", func() {
				So(testutil.ToFloat64(m.signups.WithLabelValues("Chess Club", ResultOK)), ShouldEqual, 2.0)
				So(testutil.ToFloat64(m.signups.WithLabelValues("Chess Club", ResultDuplicate)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.unregistrations.WithLabelValues(UnknownActivity, ResultNotFound)), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.participants.WithLabelValues("Chess Club")), ShouldEqual, 4.0)
			})
		})

		Convey("When recording roster events", func() {
			m.UpdateQueue(3, 10)
			m.RecordEventPublished()
			m.RecordEventDropped()
			m.RecordEventDelivered(2.5)
			m.RecordNotifierError()
			m.SetNotifierWorkers(2)

			Convey("Then the event series should be updated", func() {
				So(testutil.ToFloat64(m.queueSize), ShouldEqual, 3.0)
				So(testutil.ToFloat64(m.queueCapacity), ShouldEqual, 10.0)
				So(testutil.ToFloat64(m.eventsPublished), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.eventsDropped), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.eventsDelivered), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.notifierErrors), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.notifierWorkers), ShouldEqual, 2.0)
			})
		})

		Convey("When recording HTTP traffic and errors", func() {
			m.RecordHTTPRequest("signup", "POST", "404", 1.2)
			m.RecordErrorByEndpoint("signup", "POST", "not_found")
			m.RecordErrorByType("not_found", "medium")
			m.RecordErrorByComponent("store", "redis")

			Convey("Then the labelled counters should be incremented", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("signup", "POST", "404")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.errorsByEndpoint.WithLabelValues("signup", "POST", "not_found")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.errorsByType.WithLabelValues("not_found", "medium")), ShouldEqual, 1.0)
				So(testutil.ToFloat64(m.errorsByComponent.WithLabelValues("store", "redis")), ShouldEqual, 1.0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then package helpers should not panic", func() {
			So(func() {
				RecordSignup("Drama Club", ResultOK)
				RecordUnregister("Drama Club", ResultOK)
				SetParticipants("Drama Club", 1)
				SetActivities(1)
				RecordStoreLatency("memory", "signup", 0.1)
				RecordHTTPRequest("activities", "GET", "200", 0.3)
				RecordErrorByComponent("api", "internal")
				RecordErrorByType("internal", "high")
				RecordErrorByEndpoint("activities", "GET", "internal")
				UpdateQueue(0, 1)
				RecordEventPublished()
				RecordEventDropped()
				RecordEventDelivered(0.1)
				RecordNotifierError()
				SetNotifierWorkers(1)
				UpdateSystem(1024, 10, 0.5)
			}, ShouldNotPanic)
		})

		Convey("And the registry should expose the series", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
