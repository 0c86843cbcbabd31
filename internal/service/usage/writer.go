package usage

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/observability/telemetry"
	"github.com/enerlytics/enerlytics/internal/ports"
)

const writeTimeout = 5 * time.Second

// Writer consumes inbound telemetry events and records each one as a
// time-series point. Persistence is at-most-once: a failed write is
// logged and the event is dropped, so one bad event or a store outage
// never blocks the consumer.
type Writer struct {
	store ports.PointStore
	log   *zap.Logger
}

func NewWriter(store ports.PointStore, log *zap.Logger) *Writer {
	return &Writer{
		store: store,
		log:   log,
	}
}

// HandleEnergyUsageEvent is the queue handler for the telemetry topic.
// It always returns nil: every failure path swallows the event.
func (w *Writer) HandleEnergyUsageEvent(data []byte) error {
	var event domain.EnergyUsageEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.log.Error("Failed to decode energy usage event", zap.Error(err))
		telemetry.TelemetryWriteFailures.Inc()
		return nil
	}

	w.log.Debug("Received energy usage event",
		zap.String("device_id", event.DeviceID.String()),
		zap.Float64("energy_consumed", event.EnergyConsumed),
	)

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := w.store.WritePoint(ctx, domain.NewPoint(event)); err != nil {
		w.log.Error("Failed to write energy usage point",
			zap.String("device_id", event.DeviceID.String()),
			zap.Error(err),
		)
		telemetry.TelemetryWriteFailures.Inc()
		return nil
	}

	telemetry.TelemetryPointsWritten.Inc()
	w.log.Debug("Successfully wrote energy usage point",
		zap.String("device_id", event.DeviceID.String()),
	)
	return nil
}
