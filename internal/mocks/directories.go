package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/enerlytics/enerlytics/internal/domain"
)

// MockDeviceDirectory is a mock implementation of the DeviceDirectory interface
type MockDeviceDirectory struct {
	Devices             map[uuid.UUID]domain.Device
	GetDevicesByIDsFunc func(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.Device
	Calls               int
}

func (m *MockDeviceDirectory) GetDevicesByIDs(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.Device {
	m.Calls++
	if m.GetDevicesByIDsFunc != nil {
		return m.GetDevicesByIDsFunc(ctx, ids)
	}
	result := make(map[uuid.UUID]domain.Device)
	for _, id := range ids {
		if d, ok := m.Devices[id]; ok {
			result[id] = d
		}
	}
	return result
}

// MockUserDirectory is a mock implementation of the UserDirectory interface
type MockUserDirectory struct {
	Users             map[uuid.UUID]domain.User
	GetUsersByIDsFunc func(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.User
	Calls             int
}

func (m *MockUserDirectory) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.User {
	m.Calls++
	if m.GetUsersByIDsFunc != nil {
		return m.GetUsersByIDsFunc(ctx, ids)
	}
	result := make(map[uuid.UUID]domain.User)
	for _, id := range ids {
		if u, ok := m.Users[id]; ok {
			result[id] = u
		}
	}
	return result
}
