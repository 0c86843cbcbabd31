package ingestion

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

const usageTopic = "energy-usage"

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func validEvent() domain.EnergyUsageEvent {
	return domain.EnergyUsageEvent{
		DeviceID:       uuid.New(),
		EnergyConsumed: 1.5,
		Timestamp:      time.Now(),
	}
}

func TestIngestEnergyUsage_PublishesToTopic(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	service := NewService(mq, usageTopic, newTestLogger())
	event := validEvent()

	// Act
	err := service.IngestEnergyUsage(context.Background(), event)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	published := mq.GetPublishedMessages(usageTopic)
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	var got domain.EnergyUsageEvent
	if err := json.Unmarshal(published[0], &got); err != nil {
		t.Fatalf("failed to decode published event: %v", err)
	}
	if got.DeviceID != event.DeviceID {
		t.Errorf("expected device %s, got %s", event.DeviceID, got.DeviceID)
	}
}

func TestIngestEnergyUsage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.EnergyUsageEvent)
		wantErr error
	}{
		{
			name:    "missing device id",
			mutate:  func(e *domain.EnergyUsageEvent) { e.DeviceID = uuid.Nil },
			wantErr: ErrMissingDeviceID,
		},
		{
			name:    "zero energy",
			mutate:  func(e *domain.EnergyUsageEvent) { e.EnergyConsumed = 0 },
			wantErr: ErrNonPositiveEnergy,
		},
		{
			name:    "negative energy",
			mutate:  func(e *domain.EnergyUsageEvent) { e.EnergyConsumed = -0.5 },
			wantErr: ErrNonPositiveEnergy,
		},
		{
			name:    "missing timestamp",
			mutate:  func(e *domain.EnergyUsageEvent) { e.Timestamp = time.Time{} },
			wantErr: ErrMissingTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mq := mocks.NewMockMessageQueue()
			service := NewService(mq, usageTopic, newTestLogger())
			event := validEvent()
			tt.mutate(&event)

			err := service.IngestEnergyUsage(context.Background(), event)

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if got := len(mq.GetPublishedMessages(usageTopic)); got != 0 {
				t.Errorf("expected nothing published, got %d", got)
			}
		})
	}
}

func TestIngestEnergyUsage_PublishFailure(t *testing.T) {
	// Arrange
	mq := mocks.NewMockMessageQueue()
	mq.PublishFunc = func(topic string, data []byte) error {
		return errors.New("broker unavailable")
	}
	service := NewService(mq, usageTopic, newTestLogger())

	// Act
	err := service.IngestEnergyUsage(context.Background(), validEvent())

	// Assert: unlike the pipeline's consumers, ingestion surfaces the failure.
	if err == nil {
		t.Fatal("expected error when publish fails")
	}
}
