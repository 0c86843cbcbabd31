package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Write path
	TelemetryPointsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enerlytics_telemetry_points_written_total",
		Help: "Telemetry points durably written to the time-series store",
	})

	TelemetryWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enerlytics_telemetry_write_failures_total",
		Help: "Telemetry events dropped because the point write failed",
	})

	// Threshold-check runs
	ThresholdCheckRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enerlytics_threshold_check_runs_total",
		Help: "Threshold-check runs by outcome",
	}, []string{"outcome"})

	ThresholdCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "enerlytics_threshold_check_duration_seconds",
		Help:    "Duration of one threshold-check run",
		Buckets: prometheus.DefBuckets,
	})

	// Devices silently excluded because their owner could not be
	// resolved. The run never fails on this; the counter is the only
	// way to see it happening.
	DevicesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enerlytics_devices_dropped_total",
		Help: "Device usage records dropped for lack of a resolvable owner",
	})

	AlertsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "enerlytics_alerts_published_total",
		Help: "Threshold violation alerts published",
	})

	BatchLookupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enerlytics_batch_lookup_failures_total",
		Help: "Batch lookups that returned empty due to a transport failure",
	}, []string{"service"})
)

// Run outcomes for ThresholdCheckRuns.
const (
	RunOutcomeOK          = "ok"
	RunOutcomeEmptyWindow = "empty_window"
	RunOutcomeError       = "error"
	RunOutcomeSkipped     = "skipped"
)
