package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/observability/telemetry"
	"github.com/enerlytics/enerlytics/internal/ports"
)

// UserClient resolves owner alert configuration against the user
// service's batch endpoint, with the same never-fail contract as
// DeviceClient.
type UserClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient httpGetter
	log        *zap.Logger
}

func NewUserClient(baseURL string, timeout time.Duration, httpClient httpGetter, log *zap.Logger) ports.UserDirectory {
	return &UserClient{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		log:        log,
	}
}

func (c *UserClient) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.User {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.User{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	users, err := fetchBatch[domain.User](ctx, c.httpClient, c.baseURL, ids)
	if err != nil {
		c.log.Error("Failed to fetch users in batch", zap.Int("ids", len(ids)), zap.Error(err))
		telemetry.BatchLookupFailures.WithLabelValues("user").Inc()
		return map[uuid.UUID]domain.User{}
	}

	result := make(map[uuid.UUID]domain.User, len(users))
	for _, u := range users {
		result[u.ID] = u
	}
	return result
}
