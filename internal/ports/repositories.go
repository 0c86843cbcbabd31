package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/enerlytics/enerlytics/internal/domain"
)

// ErrNotFound is returned by repository mutations that matched no row.
var ErrNotFound = errors.New("record not found")

type DeviceRepository interface {
	Save(ctx context.Context, device *domain.Device) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Device, error)
	FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Device, int64, error)
	FindAllByOwnerID(ctx context.Context, ownerID uuid.UUID, pageNumber, pageSize int) ([]domain.Device, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.User, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PointStore is the time-series boundary. Writes are append-only, one
// point per call; SumByDevice aggregates energy per device over
// [start, end), start inclusive and end exclusive.
type PointStore interface {
	WritePoint(ctx context.Context, point domain.Point) error
	SumByDevice(ctx context.Context, start, end time.Time) ([]domain.DeviceEnergyUsage, error)
}
