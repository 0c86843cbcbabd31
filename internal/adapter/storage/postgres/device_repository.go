package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/ports"
)

type DeviceRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDeviceRepository(db *gorm.DB, log *zap.Logger) ports.DeviceRepository {
	return &DeviceRepository{
		db:  db,
		log: log,
	}
}

func (r *DeviceRepository) Save(ctx context.Context, device *domain.Device) error {
	return r.db.WithContext(ctx).Save(device).Error
}

func (r *DeviceRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	var device domain.Device
	err := r.db.WithContext(ctx).First(&device, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

func (r *DeviceRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Device, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var devices []domain.Device
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&devices).Error
	return devices, err
}

func (r *DeviceRepository) FindAll(ctx context.Context, pageNumber, pageSize int) ([]domain.Device, int64, error) {
	var devices []domain.Device
	var total int64

	if err := r.db.WithContext(ctx).Model(&domain.Device{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Order("created_at desc").
		Offset(pageNumber * pageSize).
		Limit(pageSize).
		Find(&devices).Error
	return devices, total, err
}

func (r *DeviceRepository) FindAllByOwnerID(ctx context.Context, ownerID uuid.UUID, pageNumber, pageSize int) ([]domain.Device, int64, error) {
	var devices []domain.Device
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Device{}).Where("owner_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Order("created_at desc").
		Offset(pageNumber * pageSize).
		Limit(pageSize).
		Find(&devices).Error
	return devices, total, err
}

func (r *DeviceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Device{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}
