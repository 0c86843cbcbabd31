package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/enerlytics/enerlytics/internal/domain"
)

// MockPointStore is an in-memory implementation of the PointStore
// interface with the same [start, end) query semantics as the real one.
type MockPointStore struct {
	mu              sync.Mutex
	Points          []domain.Point
	WritePointFunc  func(ctx context.Context, point domain.Point) error
	SumByDeviceFunc func(ctx context.Context, start, end time.Time) ([]domain.DeviceEnergyUsage, error)
}

func NewMockPointStore() *MockPointStore {
	return &MockPointStore{}
}

func (m *MockPointStore) WritePoint(ctx context.Context, point domain.Point) error {
	if m.WritePointFunc != nil {
		return m.WritePointFunc(ctx, point)
	}
	m.mu.Lock()
	m.Points = append(m.Points, point)
	m.mu.Unlock()
	return nil
}

func (m *MockPointStore) SumByDevice(ctx context.Context, start, end time.Time) ([]domain.DeviceEnergyUsage, error) {
	if m.SumByDeviceFunc != nil {
		return m.SumByDeviceFunc(ctx, start, end)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sums := make(map[uuid.UUID]float64)
	order := make([]uuid.UUID, 0)
	for _, p := range m.Points {
		if p.Time.Before(start) || !p.Time.Before(end) {
			continue
		}
		if _, ok := sums[p.DeviceID]; !ok {
			order = append(order, p.DeviceID)
		}
		sums[p.DeviceID] += p.EnergyConsumed
	}

	usages := make([]domain.DeviceEnergyUsage, 0, len(sums))
	for _, id := range order {
		usages = append(usages, domain.DeviceEnergyUsage{
			DeviceID:       id,
			EnergyConsumed: sums[id],
		})
	}
	return usages, nil
}
