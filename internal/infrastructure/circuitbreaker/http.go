package circuitbreaker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// HTTPClient wraps an HTTP client with circuit breaker protection. A
// tripped breaker fails fast without hitting the network, which keeps a
// dead lookup service from stalling every aggregation run.
type HTTPClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// Settings configures the HTTP client and its breaker.
type Settings struct {
	Name        string
	Timeout     time.Duration
	MaxRequests uint32
	Interval    time.Duration
	OpenTimeout time.Duration
}

// DefaultSettings returns the settings used for service-to-service calls.
func DefaultSettings(name string) Settings {
	return Settings{
		Name:        name,
		Timeout:     10 * time.Second,
		MaxRequests: 3,
		Interval:    time.Minute,
		OpenTimeout: 30 * time.Second,
	}
}

// NewHTTPClient creates an HTTP client guarded by a gobreaker instance.
func NewHTTPClient(settings Settings, log *zap.Logger) *HTTPClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("HTTP client circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &HTTPClient{
		client:  &http.Client{Timeout: settings.Timeout},
		breaker: cb,
		log:     log,
	}
}

// Do executes an HTTP request through the breaker. A 5xx response counts
// as a failure.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("server error: %d", resp.StatusCode)
		}
		return resp, nil
	})

	if err != nil {
		if IsCircuitOpen(err) {
			c.log.Warn("Circuit breaker open, request blocked",
				zap.String("url", req.URL.String()),
				zap.String("breaker", c.breaker.Name()),
			)
		}
		return nil, err
	}

	return result.(*http.Response), nil
}

// Get performs a GET request through the breaker.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

// IsCircuitOpen reports whether err came from a tripped breaker.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
