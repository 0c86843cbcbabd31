package usage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/mocks"
)

const alertTopic = "energy-alerts"

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type aggregatorFixture struct {
	store   *mocks.MockPointStore
	devices *mocks.MockDeviceDirectory
	users   *mocks.MockUserDirectory
	mq      *mocks.MockMessageQueue
	agg     *Aggregator
	now     time.Time
}

func newAggregatorFixture(t *testing.T) *aggregatorFixture {
	t.Helper()

	f := &aggregatorFixture{
		store:   mocks.NewMockPointStore(),
		devices: &mocks.MockDeviceDirectory{Devices: make(map[uuid.UUID]domain.Device)},
		users:   &mocks.MockUserDirectory{Users: make(map[uuid.UUID]domain.User)},
		mq:      mocks.NewMockMessageQueue(),
		now:     time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC),
	}
	f.agg = NewAggregator(
		f.store, f.devices, f.users, f.mq,
		alertTopic, time.Hour, "Energy consumption threshold exceeded",
		newTestLogger(),
	)
	f.agg.now = func() time.Time { return f.now }
	return f
}

// addDevice registers a device with an owner and returns its ID.
func (f *aggregatorFixture) addDevice(ownerID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.devices.Devices[id] = domain.Device{
		ID:      id,
		Name:    "meter",
		Type:    domain.DeviceTypeMeter,
		OwnerID: ownerID,
	}
	return id
}

func (f *aggregatorFixture) addUser(threshold float64, alertingEnabled bool) uuid.UUID {
	id := uuid.New()
	f.users.Users[id] = domain.User{
		ID:              id,
		FirstName:       "Ana",
		LastName:        "Souza",
		ContactAddress:  "ana@example.com",
		AlertingEnabled: alertingEnabled,
		Threshold:       threshold,
	}
	return id
}

func (f *aggregatorFixture) addPoint(deviceID uuid.UUID, energy float64, at time.Time) {
	f.store.Points = append(f.store.Points, domain.Point{
		DeviceID:       deviceID,
		EnergyConsumed: energy,
		Time:           at,
	})
}

func decodeAlert(t *testing.T, data []byte) domain.AlertEvent {
	t.Helper()
	var alert domain.AlertEvent
	if err := json.Unmarshal(data, &alert); err != nil {
		t.Fatalf("failed to decode alert event: %v", err)
	}
	return alert
}

func TestCheckEnergyThresholds_AlertOnStrictViolation(t *testing.T) {
	// Arrange: two devices of the same owner, 4 + 9 against a threshold of 10.
	f := newAggregatorFixture(t)
	ownerID := f.addUser(10.0, true)
	deviceA := f.addDevice(ownerID)
	deviceB := f.addDevice(ownerID)
	f.addPoint(deviceA, 4.0, f.now.Add(-30*time.Minute))
	f.addPoint(deviceB, 9.0, f.now.Add(-10*time.Minute))

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	published := f.mq.GetPublishedMessages(alertTopic)
	if len(published) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(published))
	}
	alert := decodeAlert(t, published[0])
	if alert.OwnerID != ownerID {
		t.Errorf("expected owner %s, got %s", ownerID, alert.OwnerID)
	}
	if alert.EnergyConsumed != 13.0 {
		t.Errorf("expected total 13.0, got %v", alert.EnergyConsumed)
	}
	if alert.Threshold != 10.0 {
		t.Errorf("expected threshold 10.0, got %v", alert.Threshold)
	}
	if alert.ContactAddress != "ana@example.com" {
		t.Errorf("expected contact address to be carried, got %q", alert.ContactAddress)
	}
}

func TestCheckEnergyThresholds_NoAlertOnEquality(t *testing.T) {
	// Arrange: total exactly equals the threshold.
	f := newAggregatorFixture(t)
	ownerID := f.addUser(10.0, true)
	deviceID := f.addDevice(ownerID)
	f.addPoint(deviceID, 10.0, f.now.Add(-5*time.Minute))

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := len(f.mq.GetPublishedMessages(alertTopic)); got != 0 {
		t.Errorf("expected no alert at equality, got %d", got)
	}
}

func TestCheckEnergyThresholds_AlertingDisabled(t *testing.T) {
	// Arrange
	f := newAggregatorFixture(t)
	ownerID := f.addUser(1.0, false)
	deviceID := f.addDevice(ownerID)
	f.addPoint(deviceID, 50.0, f.now.Add(-5*time.Minute))

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := len(f.mq.GetPublishedMessages(alertTopic)); got != 0 {
		t.Errorf("expected no alert for disabled owner, got %d", got)
	}
}

func TestCheckEnergyThresholds_UnknownDeviceDropped(t *testing.T) {
	// Arrange: one resolvable device and one the directory does not know.
	f := newAggregatorFixture(t)
	ownerID := f.addUser(10.0, true)
	known := f.addDevice(ownerID)
	unknown := uuid.New()
	f.addPoint(known, 12.0, f.now.Add(-5*time.Minute))
	f.addPoint(unknown, 100.0, f.now.Add(-5*time.Minute))

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert: the unknown device's consumption never reaches the owner total.
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	published := f.mq.GetPublishedMessages(alertTopic)
	if len(published) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(published))
	}
	if alert := decodeAlert(t, published[0]); alert.EnergyConsumed != 12.0 {
		t.Errorf("expected total 12.0 with unknown device dropped, got %v", alert.EnergyConsumed)
	}
}

func TestCheckEnergyThresholds_OwnerNotFoundSkipped(t *testing.T) {
	// Arrange: the device resolves but its owner is missing from the directory.
	f := newAggregatorFixture(t)
	ownerID := uuid.New()
	deviceID := f.addDevice(ownerID)
	f.addPoint(deviceID, 99.0, f.now.Add(-5*time.Minute))

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := len(f.mq.GetPublishedMessages(alertTopic)); got != 0 {
		t.Errorf("expected no alert for unknown owner, got %d", got)
	}
}

func TestCheckEnergyThresholds_EmptyWindowSkipsLookups(t *testing.T) {
	// Arrange: no telemetry at all.
	f := newAggregatorFixture(t)

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert: the run ends cleanly without touching either directory.
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if f.devices.Calls != 0 {
		t.Errorf("expected no device lookups, got %d", f.devices.Calls)
	}
	if f.users.Calls != 0 {
		t.Errorf("expected no user lookups, got %d", f.users.Calls)
	}
}

func TestCheckEnergyThresholds_WindowBounds(t *testing.T) {
	// Arrange: points at the exact window edges. Lower bound is included,
	// upper bound is not.
	f := newAggregatorFixture(t)
	ownerID := f.addUser(5.0, true)
	deviceID := f.addDevice(ownerID)
	f.addPoint(deviceID, 7.0, f.now.Add(-time.Hour)) // at start, included
	f.addPoint(deviceID, 50.0, f.now)                // at end, excluded
	f.addPoint(deviceID, 50.0, f.now.Add(-2*time.Hour))

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	published := f.mq.GetPublishedMessages(alertTopic)
	if len(published) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(published))
	}
	if alert := decodeAlert(t, published[0]); alert.EnergyConsumed != 7.0 {
		t.Errorf("expected only the in-window point (7.0), got %v", alert.EnergyConsumed)
	}
}

func TestCheckEnergyThresholds_StoreErrorAborts(t *testing.T) {
	// Arrange
	f := newAggregatorFixture(t)
	f.store.SumByDeviceFunc = func(ctx context.Context, start, end time.Time) ([]domain.DeviceEnergyUsage, error) {
		return nil, errors.New("connection refused")
	}

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert
	if err == nil {
		t.Fatal("expected error when the store query fails")
	}
	if f.devices.Calls != 0 {
		t.Errorf("expected no device lookups after store failure, got %d", f.devices.Calls)
	}
}

func TestCheckEnergyThresholds_PublishFailureDoesNotAbort(t *testing.T) {
	// Arrange: two violating owners, every publish fails.
	f := newAggregatorFixture(t)
	for i := 0; i < 2; i++ {
		ownerID := f.addUser(1.0, true)
		deviceID := f.addDevice(ownerID)
		f.addPoint(deviceID, 10.0, f.now.Add(-5*time.Minute))
	}
	f.mq.PublishFunc = func(topic string, data []byte) error {
		return errors.New("broker unavailable")
	}

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert: alert delivery is fire-and-forget.
	if err != nil {
		t.Fatalf("expected no error despite publish failures, got %v", err)
	}
}

func TestCheckEnergyThresholds_SkipsOverlappingRun(t *testing.T) {
	// Arrange: a store query that re-enters the aggregator, as an overdue
	// timer tick would while a slow run is still in flight.
	f := newAggregatorFixture(t)
	storeCalls := 0
	f.store.SumByDeviceFunc = func(ctx context.Context, start, end time.Time) ([]domain.DeviceEnergyUsage, error) {
		storeCalls++
		if storeCalls == 1 {
			if err := f.agg.CheckEnergyThresholds(ctx); err != nil {
				t.Errorf("overlapping run should be skipped, not fail: %v", err)
			}
		}
		return nil, nil
	}

	// Act
	err := f.agg.CheckEnergyThresholds(context.Background())

	// Assert: the nested invocation never reached the store.
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if storeCalls != 1 {
		t.Errorf("expected 1 store query, got %d", storeCalls)
	}
}

func TestCheckEnergyThresholds_IdempotentReRun(t *testing.T) {
	// Arrange
	f := newAggregatorFixture(t)
	ownerID := f.addUser(10.0, true)
	deviceID := f.addDevice(ownerID)
	f.addPoint(deviceID, 13.0, f.now.Add(-5*time.Minute))

	// Act: same window evaluated twice.
	if err := f.agg.CheckEnergyThresholds(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := f.agg.CheckEnergyThresholds(context.Background()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	// Assert: each run re-derives the same totals and re-publishes.
	published := f.mq.GetPublishedMessages(alertTopic)
	if len(published) != 2 {
		t.Fatalf("expected 2 alerts across 2 runs, got %d", len(published))
	}
	first := decodeAlert(t, published[0])
	second := decodeAlert(t, published[1])
	if first.EnergyConsumed != second.EnergyConsumed {
		t.Errorf("expected identical totals, got %v and %v", first.EnergyConsumed, second.EnergyConsumed)
	}
}
