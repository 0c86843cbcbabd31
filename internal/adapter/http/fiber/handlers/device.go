package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/enerlytics/enerlytics/internal/domain"
	"github.com/enerlytics/enerlytics/internal/ports"
	"github.com/enerlytics/enerlytics/internal/service/device"
)

type DeviceHandler struct {
	service ports.DeviceService
	log     *zap.Logger
}

func NewDeviceHandler(service ports.DeviceService, log *zap.Logger) *DeviceHandler {
	return &DeviceHandler{
		service: service,
		log:     log,
	}
}

func (h *DeviceHandler) Create(c *fiber.Ctx) error {
	var req domain.Device
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}
	if req.OwnerID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ownerId is required"})
	}

	created, err := h.service.CreateDevice(c.Context(), &req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *DeviceHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid device id"})
	}

	dev, err := h.service.GetDevice(c.Context(), id)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Device not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(dev)
}

func (h *DeviceHandler) List(c *fiber.Ctx) error {
	pageNumber, pageSize := pageParams(c)
	page, err := h.service.GetDevices(c.Context(), pageNumber, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

func (h *DeviceHandler) ListByOwner(c *fiber.Ctx) error {
	ownerID, err := uuid.Parse(c.Params("ownerId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner id"})
	}

	pageNumber, pageSize := pageParams(c)
	page, err := h.service.GetDevicesByOwner(c.Context(), ownerID, pageNumber, pageSize)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

// GetBatch serves the device batch-lookup endpoint. Empty or missing
// ids yields an empty list, never an error.
func (h *DeviceHandler) GetBatch(c *fiber.Ctx) error {
	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid ids"})
	}

	devices, err := h.service.GetDevicesByIDs(c.Context(), ids)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if devices == nil {
		devices = []domain.Device{}
	}
	return c.JSON(devices)
}

func (h *DeviceHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid device id"})
	}

	var req domain.Device
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid body"})
	}

	updated, err := h.service.UpdateDevice(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Device not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(updated)
}

func (h *DeviceHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid device id"})
	}

	if err := h.service.DeleteDevice(c.Context(), id); err != nil {
		if errors.Is(err, device.ErrDeviceNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Device not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
