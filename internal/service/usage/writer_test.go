package usage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/mocks"
)

func TestHandleEnergyUsageEvent_WritesPoint(t *testing.T) {
	// Arrange
	store := mocks.NewMockPointStore()
	writer := NewWriter(store, newTestLogger())

	event := domain.EnergyUsageEvent{
		DeviceID:       uuid.New(),
		EnergyConsumed: 1.25,
		Timestamp:      time.Date(2026, 3, 14, 15, 0, 0, 123456789, time.UTC),
	}
	data, _ := json.Marshal(event)

	// Act
	err := writer.HandleEnergyUsageEvent(data)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(store.Points) != 1 {
		t.Fatalf("expected 1 point, got %d", len(store.Points))
	}
	point := store.Points[0]
	if point.DeviceID != event.DeviceID {
		t.Errorf("expected device %s, got %s", event.DeviceID, point.DeviceID)
	}
	if point.EnergyConsumed != 1.25 {
		t.Errorf("expected energy 1.25, got %v", point.EnergyConsumed)
	}
	if want := event.Timestamp.Truncate(time.Millisecond); !point.Time.Equal(want) {
		t.Errorf("expected millisecond-truncated timestamp %v, got %v", want, point.Time)
	}
}

func TestHandleEnergyUsageEvent_MalformedPayloadSwallowed(t *testing.T) {
	// Arrange
	store := mocks.NewMockPointStore()
	writer := NewWriter(store, newTestLogger())

	// Act
	err := writer.HandleEnergyUsageEvent([]byte("{not json"))

	// Assert: the handler never propagates an error back to the queue.
	if err != nil {
		t.Fatalf("expected nil for malformed payload, got %v", err)
	}
	if len(store.Points) != 0 {
		t.Errorf("expected no points written, got %d", len(store.Points))
	}
}

func TestHandleEnergyUsageEvent_WriteFailureSwallowed(t *testing.T) {
	// Arrange
	store := mocks.NewMockPointStore()
	store.WritePointFunc = func(ctx context.Context, point domain.Point) error {
		return errors.New("store down")
	}
	writer := NewWriter(store, newTestLogger())

	event := domain.EnergyUsageEvent{
		DeviceID:       uuid.New(),
		EnergyConsumed: 2.0,
		Timestamp:      time.Now(),
	}
	data, _ := json.Marshal(event)

	// Act
	err := writer.HandleEnergyUsageEvent(data)

	// Assert
	if err != nil {
		t.Fatalf("expected nil when the write fails, got %v", err)
	}
}
