package device

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/ports"
)

// ErrDeviceNotFound is returned for lookups and mutations of unknown ids.
var ErrDeviceNotFound = errors.New("device not found")

type Service struct {
	repo     ports.DeviceRepository
	cache    ports.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewService(repo ports.DeviceRepository, cache ports.Cache, cacheTTL time.Duration, log *zap.Logger) ports.DeviceService {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func cacheKey(id uuid.UUID) string {
	return "device:" + id.String()
}

func (s *Service) CreateDevice(ctx context.Context, device *domain.Device) (*domain.Device, error) {
	if device.ID == uuid.Nil {
		device.ID = uuid.New()
	}
	if err := s.repo.Save(ctx, device); err != nil {
		return nil, err
	}
	s.log.Info("Device created", zap.String("device_id", device.ID.String()))
	return device, nil
}

func (s *Service) GetDevice(ctx context.Context, id uuid.UUID) (*domain.Device, error) {
	if val, err := s.cache.Get(ctx, cacheKey(id)); err == nil {
		var device domain.Device
		if err := json.Unmarshal([]byte(val), &device); err == nil {
			return &device, nil
		}
	}

	device, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if device == nil {
		return nil, ErrDeviceNotFound
	}

	if data, err := json.Marshal(device); err == nil {
		if err := s.cache.Set(ctx, cacheKey(id), string(data), s.cacheTTL); err != nil {
			s.log.Debug("Failed to cache device", zap.Error(err))
		}
	}
	return device, nil
}

func (s *Service) GetDevices(ctx context.Context, pageNumber, pageSize int) (domain.Page[domain.Device], error) {
	devices, total, err := s.repo.FindAll(ctx, pageNumber, pageSize)
	if err != nil {
		return domain.Page[domain.Device]{}, err
	}
	return domain.NewPage(devices, pageNumber, pageSize, total), nil
}

func (s *Service) GetDevicesByOwner(ctx context.Context, ownerID uuid.UUID, pageNumber, pageSize int) (domain.Page[domain.Device], error) {
	devices, total, err := s.repo.FindAllByOwnerID(ctx, ownerID, pageNumber, pageSize)
	if err != nil {
		return domain.Page[domain.Device]{}, err
	}
	return domain.NewPage(devices, pageNumber, pageSize, total), nil
}

// GetDevicesByIDs backs the batch endpoint. Unknown ids are simply
// absent from the result; an empty input yields an empty list.
func (s *Service) GetDevicesByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Device, error) {
	return s.repo.FindByIDs(ctx, ids)
}

func (s *Service) UpdateDevice(ctx context.Context, id uuid.UUID, update *domain.Device) (*domain.Device, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrDeviceNotFound
	}

	existing.Name = update.Name
	existing.Type = update.Type
	existing.Location = update.Location
	existing.OwnerID = update.OwnerID

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Debug("Failed to invalidate device cache", zap.Error(err))
	}

	s.log.Info("Device updated", zap.String("device_id", id.String()))
	return existing, nil
}

func (s *Service) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrDeviceNotFound
		}
		return err
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Debug("Failed to invalidate device cache", zap.Error(err))
	}
	s.log.Info("Device deleted", zap.String("device_id", id.String()))
	return nil
}
