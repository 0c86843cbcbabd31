package notification

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/domain"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type fakeProvider struct {
	sent []struct{ to, subject, body string }
	err  error
}

func (f *fakeProvider) Send(ctx context.Context, to, subject, body string) error {
	f.sent = append(f.sent, struct{ to, subject, body string }{to, subject, body})
	return f.err
}

func TestHandleAlertEvent_SendsToContactAddress(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	service := NewService(provider, newTestLogger())

	alert := domain.AlertEvent{
		OwnerID:        uuid.New(),
		Message:        "Energy consumption threshold exceeded",
		Threshold:      10.0,
		EnergyConsumed: 13.0,
		ContactAddress: "ana@example.com",
	}
	data, _ := json.Marshal(alert)

	// Act
	err := service.HandleAlertEvent(data)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(provider.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(provider.sent))
	}
	if provider.sent[0].to != "ana@example.com" {
		t.Errorf("expected delivery to contact address, got %q", provider.sent[0].to)
	}
}

func TestHandleAlertEvent_MalformedPayloadSwallowed(t *testing.T) {
	// Arrange
	provider := &fakeProvider{}
	service := NewService(provider, newTestLogger())

	// Act
	err := service.HandleAlertEvent([]byte("{not json"))

	// Assert
	if err != nil {
		t.Fatalf("expected nil for malformed payload, got %v", err)
	}
	if len(provider.sent) != 0 {
		t.Errorf("expected no notification, got %d", len(provider.sent))
	}
}

func TestHandleAlertEvent_ProviderFailureSwallowed(t *testing.T) {
	// Arrange
	provider := &fakeProvider{err: errors.New("sendgrid unavailable")}
	service := NewService(provider, newTestLogger())

	alert := domain.AlertEvent{OwnerID: uuid.New(), ContactAddress: "ana@example.com"}
	data, _ := json.Marshal(alert)

	// Act
	err := service.HandleAlertEvent(data)

	// Assert: delivery failures never bounce the message back to the queue.
	if err != nil {
		t.Fatalf("expected nil when the provider fails, got %v", err)
	}
}
