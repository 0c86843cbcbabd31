package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func pageParams(c *fiber.Ctx) (int, int) {
	pageNumber := c.QueryInt("pageNumber", 0)
	pageSize := c.QueryInt("pageSize", 10)
	if pageNumber < 0 {
		pageNumber = 0
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}
	return pageNumber, pageSize
}

// parseIDList splits the comma-separated ids query parameter. Blank
// segments are skipped; a malformed uuid fails the whole parse.
func parseIDList(raw string) ([]uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
