package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// joinIDs renders a uuid set as the comma-separated ids query parameter.
func joinIDs(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return strings.Join(parts, ",")
}

func batchURL(baseURL string, ids []uuid.UUID) string {
	return fmt.Sprintf("%s/batch?ids=%s", strings.TrimRight(baseURL, "/"), url.QueryEscape(joinIDs(ids)))
}

type httpGetter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// fetchBatch issues one GET for the whole id set and decodes the list
// response. Any failure surfaces as an error; callers translate that
// into an empty result.
func fetchBatch[T any](ctx context.Context, httpClient httpGetter, baseURL string, ids []uuid.UUID) ([]T, error) {
	resp, err := httpClient.Get(ctx, batchURL(baseURL, ids))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("batch lookup returned status %d", resp.StatusCode)
	}

	var items []T
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode batch response: %w", err)
	}
	return items, nil
}
