package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/qa-admin-service/internal/objectstore"
	"github.com/spec-kit/qa-admin-service/internal/persistence"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	store       *persistence.Mongo
	objects     *objectstore.Client
}

// NewHealthHandler returns a new handler instance. objects may be nil for
// binaries that do not use object storage.
func NewHealthHandler(serviceName, version string, store *persistence.Mongo, objects *objectstore.Client) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, store: store, objects: objects}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	if err := h.store.Ping(ctx); err != nil {
		h.store.MarkNotReady()
		depStatus["mongo"] = err.Error()
		ready = false
	} else {
		depStatus["mongo"] = "ok"
	}

	if h.objects != nil {
		if err := h.objects.Ping(ctx); err != nil {
			depStatus["object_storage"] = err.Error()
			ready = false
		} else {
			depStatus["object_storage"] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"success": false,
		"error":   "one or more dependencies unavailable",
		"details": depStatus,
	})
}
