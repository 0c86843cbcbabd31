package user

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

// ErrUserNotFound is returned for lookups and mutations of unknown ids.
var ErrUserNotFound = errors.New("user not found")

type Service struct {
	repo     ports.UserRepository
	cache    ports.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewService(repo ports.UserRepository, cache ports.Cache, cacheTTL time.Duration, log *zap.Logger) ports.UserService {
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (s *Service) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("User created", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if val, err := s.cache.Get(ctx, cacheKey(id)); err == nil {
		var user domain.User
		if err := json.Unmarshal([]byte(val), &user); err == nil {
			return &user, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if data, err := json.Marshal(user); err == nil {
		if err := s.cache.Set(ctx, cacheKey(id), string(data), s.cacheTTL); err != nil {
			s.log.Debug("Failed to cache user", zap.Error(err))
		}
	}
	return user, nil
}

func (s *Service) GetUsers(ctx context.Context, pageNumber, pageSize int) (domain.Page[domain.User], error) {
	users, total, err := s.repo.FindAll(ctx, pageNumber, pageSize)
	if err != nil {
		return domain.Page[domain.User]{}, err
	}
	return domain.NewPage(users, pageNumber, pageSize, total), nil
}

// GetUsersByIDs backs the batch endpoint. Unknown ids are simply absent
// from the result; an empty input yields an empty list.
func (s *Service) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	return s.repo.FindByIDs(ctx, ids)
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, update *domain.User) (*domain.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrUserNotFound
	}

	existing.FirstName = update.FirstName
	existing.LastName = update.LastName
	existing.ContactAddress = update.ContactAddress
	existing.AlertingEnabled = update.AlertingEnabled
	existing.Threshold = update.Threshold

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Debug("Failed to invalidate user cache", zap.Error(err))
	}

	s.log.Info("User updated", zap.String("user_id", id.String()))
	return existing, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		s.log.Debug("Failed to invalidate user cache", zap.Error(err))
	}
	s.log.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}
