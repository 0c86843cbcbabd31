package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/ports"
)

// MockDeviceRepository is a mock implementation of the DeviceRepository interface
type MockDeviceRepository struct {
	SaveFunc             func(ctx context.Context, device *domain.Device) error
	FindByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.Device, error)
	FindByIDsFunc        func(ctx context.Context, ids []uuid.UUID) ([]domain.Device, error)
	FindAllFunc          func(ctx context.Context, pageNumber, pageSize int) ([]domain.Device, int64, error)
	FindAllByOwnerIDFunc func(ctx context.Context, ownerID uuid.UUID, pageNumber, pageSize int) ([]domain.Device, int64, error)
	DeleteFunc           func(ctx context.Context, id uuid.UUID) error
}

func (m *MockDeviceRepository) Save(ctx context.Context, device *domain.Device) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, device)
	}
	return nil
}

func (m *MockDeviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockDeviceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Device, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockDeviceRepository) FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Device, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, pageNumber, pageSize)
	}
	return nil, 0, nil
}

func (m *MockDeviceRepository) FindAllByOwnerID(ctx context.Context, ownerID uuid.UUID, pageNumber, pageSize int) ([]domain.Device, int64, error) {
	if m.FindAllByOwnerIDFunc != nil {
		return m.FindAllByOwnerIDFunc(ctx, ownerID, pageNumber, pageSize)
	}
	return nil, 0, nil
}

func (m *MockDeviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUserRepository is a mock implementation of the UserRepository interface
type MockUserRepository struct {
	SaveFunc      func(ctx context.Context, user *domain.User) error
	FindByIDFunc  func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByIDsFunc func(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	FindAllFunc   func(ctx context.Context, pageNumber, pageSize int) ([]domain.User, int64, error)
	DeleteFunc    func(ctx context.Context, id uuid.UUID) error
}

func (m *MockUserRepository) Save(ctx context.Context, user *domain.User) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if m.FindByIDsFunc != nil {
		return m.FindByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *MockUserRepository) FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.User, int64, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc(ctx, pageNumber, pageSize)
	}
	return nil, 0, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// assert interface conformance
var (
	_ ports.DeviceRepository = (*MockDeviceRepository)(nil)
	_ ports.UserRepository   = (*MockUserRepository)(nil)
	_ ports.PointStore       = (*MockPointStore)(nil)
	_ ports.DeviceDirectory  = (*MockDeviceDirectory)(nil)
	_ ports.UserDirectory    = (*MockUserDirectory)(nil)
	_ ports.Cache            = (*MockCache)(nil)
)
