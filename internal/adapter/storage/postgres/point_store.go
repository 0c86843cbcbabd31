package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/ports"
)

// EnergyUsagePoint is one row of the energy_usage measurement: tagged by
// device, valued by consumed energy, timestamped at millisecond
// precision. Rows are never updated or deleted.
type EnergyUsagePoint struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	DeviceID       uuid.UUID `gorm:"type:uuid;not null;column:device_id"`
	EnergyConsumed float64   `gorm:"not null"`
	Ts             time.Time `gorm:"not null;column:ts"`
}

func (EnergyUsagePoint) TableName() string {
	return "energy_usage_points"
}

type PointStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPointStore(db *gorm.DB, log *zap.Logger) ports.PointStore {
	return &PointStore{
		db:  db,
		log: log,
	}
}

func (s *PointStore) WritePoint(ctx context.Context, point domain.Point) error {
	row := EnergyUsagePoint{
		DeviceID:       point.DeviceID,
		EnergyConsumed: point.EnergyConsumed,
		Ts:             point.Time.Truncate(time.Millisecond),
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// SumByDevice sums energy per device over [start, end). The lower bound
// is inclusive and the upper exclusive so back-to-back windows never
// double-count a point sitting exactly on the boundary.
func (s *PointStore) SumByDevice(ctx context.Context, start, end time.Time) ([]domain.DeviceEnergyUsage, error) {
	type row struct {
		DeviceID       uuid.UUID
		EnergyConsumed float64
	}

	var rows []row
	err := s.db.WithContext(ctx).
		Model(&EnergyUsagePoint{}).
		Select("device_id, SUM(energy_consumed) AS energy_consumed").
		Where("ts >= ? AND ts < ?", start, end).
		Group("device_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	usages := make([]domain.DeviceEnergyUsage, 0, len(rows))
	for _, r := range rows {
		usages = append(usages, domain.DeviceEnergyUsage{
			DeviceID:       r.DeviceID,
			EnergyConsumed: r.EnergyConsumed,
		})
	}
	return usages, nil
}
