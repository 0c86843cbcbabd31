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

// DeviceClient resolves device ownership against the device service's
// batch endpoint. Lookups never fail: transport errors, 5xx responses
// and timeouts all collapse into an empty result, the same shape as
// "nothing found". Devices the aggregator cannot resolve are dropped
// from that run.
type DeviceClient struct {
	baseURL    string
	timeout    time.Duration
	httpClient httpGetter
	log        *zap.Logger
}

func NewDeviceClient(baseURL string, timeout time.Duration, httpClient httpGetter, log *zap.Logger) ports.DeviceDirectory {
	return &DeviceClient{
		baseURL:    baseURL,
		timeout:    timeout,
		httpClient: httpClient,
		log:        log,
	}
}

func (c *DeviceClient) GetDevicesByIDs(ctx context.Context, ids []uuid.UUID) map[uuid.UUID]domain.Device {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Device{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	devices, err := fetchBatch[domain.Device](ctx, c.httpClient, c.baseURL, ids)
	if err != nil {
		c.log.Error("Failed to fetch devices in batch", zap.Int("ids", len(ids)), zap.Error(err))
		telemetry.BatchLookupFailures.WithLabelValues("device").Inc()
		return map[uuid.UUID]domain.Device{}
	}

	result := make(map[uuid.UUID]domain.Device, len(devices))
	for _, d := range devices {
		result[d.ID] = d
	}
	return result
}
