package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/enerlytics/enerlytics/internal/domain"
)

type DeviceService interface {
	CreateDevice(ctx context.Context, device *domain.Device) (*domain.Device, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	GetDevices(ctx context.Context, pageNumber, pageSize int) (domain.Page[domain.Device], error)
	GetDevicesByOwner(ctx context.Context, ownerID uuid.UUID, pageNumber, pageSize int) (domain.Page[domain.Device], error)
	GetDevicesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Device, error)
	UpdateDevice(ctx context.Context, id uuid.UUID, device *domain.Device) (*domain.Device, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error
}

type UserService interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUsers(ctx context.Context, pageNumber, pageSize int) (domain.Page[domain.User], error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, user *domain.User) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type IngestionService interface {
	IngestEnergyUsage(ctx context.Context, event domain.EnergyUsageEvent) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
