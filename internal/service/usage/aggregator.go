package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/adapter/queue"
	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/observability/telemetry"
	"github.com/enerlytics/enerlytics/internal/ports"
)

// Aggregator runs the periodic threshold check: it sums the trailing
// window of telemetry per device, attributes consumption to owners,
// and publishes one alert per owner whose total strictly exceeds their
// configured threshold.
type Aggregator struct {
	store      ports.PointStore
	devices    ports.DeviceDirectory
	users      ports.UserDirectory
	mq         queue.MessageQueue
	alertTopic string
	window     time.Duration
	message    string
	log        *zap.Logger

	running atomic.Bool
	now     func() time.Time
}

func NewAggregator(
	store ports.PointStore,
	devices ports.DeviceDirectory,
	users ports.UserDirectory,
	mq queue.MessageQueue,
	alertTopic string,
	window time.Duration,
	message string,
	log *zap.Logger,
) *Aggregator {
	return &Aggregator{
		store:      store,
		devices:    devices,
		users:      users,
		mq:         mq,
		alertTopic: alertTopic,
		window:     window,
		message:    message,
		log:        log,
		now:        time.Now,
	}
}

// CheckEnergyThresholds executes one aggregation run over the window
// [now-window, now). A store query failure aborts the run; lookup
// failures only shrink it. Overlapping invocations are skipped.
func (a *Aggregator) CheckEnergyThresholds(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		a.log.Warn("Threshold check already running, skipping this tick")
		telemetry.ThresholdCheckRuns.WithLabelValues(telemetry.RunOutcomeSkipped).Inc()
		return nil
	}
	defer a.running.Store(false)

	started := a.now()
	defer func() {
		telemetry.ThresholdCheckDuration.Observe(time.Since(started).Seconds())
	}()

	a.log.Info("Starting energy threshold check")

	end := started
	start := end.Add(-a.window)

	usages, err := a.store.SumByDevice(ctx, start, end)
	if err != nil {
		telemetry.ThresholdCheckRuns.WithLabelValues(telemetry.RunOutcomeError).Inc()
		return fmt.Errorf("query device energy usage: %w", err)
	}

	if len(usages) == 0 {
		a.log.Warn("No device energy usage found for the window",
			zap.Time("start", start),
			zap.Time("end", end),
		)
		telemetry.ThresholdCheckRuns.WithLabelValues(telemetry.RunOutcomeEmptyWindow).Inc()
		return nil
	}

	resolved := a.resolveOwners(ctx, usages)
	totals := aggregateByOwner(resolved)
	a.sendAlerts(ctx, totals)

	telemetry.ThresholdCheckRuns.WithLabelValues(telemetry.RunOutcomeOK).Inc()
	return nil
}

// resolveOwners issues one batch device lookup and attributes each usage
// record to its owner. Records whose device is unknown (or whose lookup
// failed) are dropped from the run without failing it.
func (a *Aggregator) resolveOwners(ctx context.Context, usages []domain.DeviceEnergyUsage) []domain.DeviceEnergyUsage {
	ids := make([]uuid.UUID, 0, len(usages))
	seen := make(map[uuid.UUID]struct{}, len(usages))
	for _, u := range usages {
		if _, ok := seen[u.DeviceID]; ok {
			continue
		}
		seen[u.DeviceID] = struct{}{}
		ids = append(ids, u.DeviceID)
	}

	deviceMap := a.devices.GetDevicesByIDs(ctx, ids)

	resolved := usages[:0]
	for _, u := range usages {
		device, ok := deviceMap[u.DeviceID]
		if !ok {
			a.log.Warn("Device info not found, excluding from this run",
				zap.String("device_id", u.DeviceID.String()),
			)
			telemetry.DevicesDropped.Inc()
			continue
		}
		ownerID := device.OwnerID
		u.OwnerID = &ownerID
		resolved = append(resolved, u)
	}
	return resolved
}

// aggregateByOwner groups resolved records by owner, summing energy.
func aggregateByOwner(usages []domain.DeviceEnergyUsage) map[uuid.UUID]float64 {
	totals := make(map[uuid.UUID]float64, len(usages))
	for _, u := range usages {
		if u.OwnerID == nil {
			continue
		}
		totals[*u.OwnerID] += u.EnergyConsumed
	}
	return totals
}

// sendAlerts resolves alert configuration for every owner in one batch
// call and publishes an alert for each strict threshold violation.
// Equality is not a violation.
func (a *Aggregator) sendAlerts(ctx context.Context, totals map[uuid.UUID]float64) {
	ids := make([]uuid.UUID, 0, len(totals))
	for ownerID := range totals {
		ids = append(ids, ownerID)
	}

	userMap := a.users.GetUsersByIDs(ctx, ids)

	for ownerID, totalConsumed := range totals {
		user, ok := userMap[ownerID]
		if !ok || !user.AlertingEnabled {
			a.log.Debug("Owner not found or alerting disabled",
				zap.String("owner_id", ownerID.String()),
			)
			continue
		}

		if totalConsumed <= user.Threshold {
			a.log.Debug("Owner within threshold",
				zap.String("owner_id", ownerID.String()),
				zap.Float64("threshold", user.Threshold),
				zap.Float64("total_consumed", totalConsumed),
			)
			continue
		}

		a.log.Warn("Energy threshold exceeded",
			zap.String("owner_id", ownerID.String()),
			zap.Float64("threshold", user.Threshold),
			zap.Float64("total_consumed", totalConsumed),
		)

		alert := domain.AlertEvent{
			OwnerID:        ownerID,
			Message:        a.message,
			Threshold:      user.Threshold,
			EnergyConsumed: totalConsumed,
			ContactAddress: user.ContactAddress,
		}

		data, err := json.Marshal(alert)
		if err != nil {
			a.log.Error("Failed to encode alert event",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err),
			)
			continue
		}

		// Fire-and-forget: delivery is the channel's concern.
		if err := a.mq.Publish(a.alertTopic, data); err != nil {
			a.log.Error("Failed to publish alert event",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err),
			)
			continue
		}
		telemetry.AlertsPublished.Inc()
	}
}
