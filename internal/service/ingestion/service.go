package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/adapter/queue"
	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/ports"
)

// Validation errors surfaced to the API as 400s.
var (
	ErrMissingDeviceID   = errors.New("deviceId is required")
	ErrNonPositiveEnergy = errors.New("energy consumed should be positive")
	ErrMissingTimestamp  = errors.New("timestamp is required")
)

// Service validates raw ingestion requests and republishes them on the
// telemetry topic. It does no processing of its own.
type Service struct {
	mq         queue.MessageQueue
	usageTopic string
	log        *zap.Logger
}

func NewService(mq queue.MessageQueue, usageTopic string, log *zap.Logger) ports.IngestionService {
	return &Service{
		mq:         mq,
		usageTopic: usageTopic,
		log:        log,
	}
}

func (s *Service) IngestEnergyUsage(ctx context.Context, event domain.EnergyUsageEvent) error {
	if event.DeviceID == uuid.Nil {
		return ErrMissingDeviceID
	}
	if event.EnergyConsumed <= 0 {
		return ErrNonPositiveEnergy
	}
	if event.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode energy usage event: %w", err)
	}

	if err := s.mq.Publish(s.usageTopic, data); err != nil {
		return fmt.Errorf("publish energy usage event: %w", err)
	}

	s.log.Info("Successfully ingested energy usage",
		zap.String("device_id", event.DeviceID.String()),
	)
	return nil
}
