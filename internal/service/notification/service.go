package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/adapter/queue"
	"github.com/enerlytics/enerlytics/internal/domain"
)

// Provider delivers one rendered alert message.
type Provider interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Service consumes published alert events and delivers them to the
// owner's contact address. Delivery is best-effort and at-most-once:
// a failed send is logged and the alert is dropped, matching the
// pipeline's posture everywhere else.
type Service struct {
	provider Provider
	log      *zap.Logger
}

func NewService(provider Provider, log *zap.Logger) *Service {
	return &Service{
		provider: provider,
		log:      log,
	}
}

// Start binds the service to the alert topic under its own consumer
// group so it splits the stream with other notifier replicas.
func (s *Service) Start(mq queue.MessageQueue, alertTopic string) error {
	return mq.Subscribe(alertTopic, "notification-service", s.HandleAlertEvent)
}

// HandleAlertEvent is the queue handler for the alert topic. It always
// returns nil; failures are swallowed after logging.
func (s *Service) HandleAlertEvent(data []byte) error {
	var alert domain.AlertEvent
	if err := json.Unmarshal(data, &alert); err != nil {
		s.log.Error("Failed to decode alert event", zap.Error(err))
		return nil
	}

	subject := "Energy consumption alert"
	body := fmt.Sprintf(
		"%s\n\nYour aggregate consumption over the last hour was %.2f kWh, above your configured limit of %.2f kWh.",
		alert.Message, alert.EnergyConsumed, alert.Threshold,
	)

	if err := s.provider.Send(context.Background(), alert.ContactAddress, subject, body); err != nil {
		s.log.Error("Failed to deliver alert notification",
			zap.String("owner_id", alert.OwnerID.String()),
			zap.Error(err),
		)
		return nil
	}

	s.log.Info("Alert notification delivered",
		zap.String("owner_id", alert.OwnerID.String()),
	)
	return nil
}
