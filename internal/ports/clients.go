package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/enerlytics/enerlytics/internal/domain"
)

// DeviceDirectory resolves devices in batch. Implementations never
// return an error: a missing id, an unreachable service and a timeout
// all surface the same way, as an id absent from the result map.
type DeviceDirectory interface {
	GetDevicesByIDs(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.Device
}

// UserDirectory resolves owner alert configuration in batch, with the
// same never-fail contract as DeviceDirectory.
type UserDirectory interface {
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.User
}
