package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/ports"
	"github.com/enerlytics/enerlytics/internal/service/ingestion"
)

type IngestionHandler struct {
	service ports.IngestionService
	log     *zap.Logger
}

func NewIngestionHandler(service ports.IngestionService, log *zap.Logger) *IngestionHandler {
	return &IngestionHandler{
		service: service,
		log:     log,
	}
}

// Ingest accepts one telemetry reading and republishes it on the
// telemetry topic. 201 on success, 400 on validation failure.
func (h *IngestionHandler) Ingest(c *fiber.Ctx) error {
	var event domain.EnergyUsageEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	if err := h.service.IngestEnergyUsage(c.Context(), event); err != nil {
		if errors.Is(err, ingestion.ErrMissingDeviceID) ||
			errors.Is(err, ingestion.ErrNonPositiveEnergy) ||
			errors.Is(err, ingestion.ErrMissingTimestamp) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusCreated)
}
