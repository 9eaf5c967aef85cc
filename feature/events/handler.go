package events

import (
	"shelter-sync/core/logger"
	"shelter-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the event mirror.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the event routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/events")
	group.Post("/sync", h.HandleSync)
	group.Get("/sync/status", h.HandleSyncStatus)
	group.Get("/", h.HandleRecent)
	group.Get("/:hash", h.HandleGet)
}

// HandleSync runs an event sync cycle from the newest crawl snapshot.
// @Summary Sync Events
// @Description Reads the newest crawl snapshot and inserts or updates events by content hash.
// @Tags events
// @Produce json
// @Param dry_run query boolean false "Plan only, write nothing"
// @Success 200 {object} reconcile.Result "Cycle Result"
// @Failure 500 {object} reconcile.Result "Failed Cycle"
// @Security ApiKeyAuth
// @Router /events/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var res *reconcile.Result
	if c.QueryBool("dry_run") {
		res = h.service.DryRun(c.UserContext())
	} else {
		l.Info("Triggering event sync")
		res = h.service.RunSync(c.UserContext())
	}

	if !res.OK() {
		l.Warn("Event sync failed", zap.String("cycle_id", res.CycleID), zap.String("detail", res.Detail))
		return c.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return c.JSON(res)
}

// HandleSyncStatus reports the running flag and the last cycle.
// @Summary Event Sync Status
// @Tags events
// @Produce json
// @Success 200 {object} map[string]interface{} "Status"
// @Security ApiKeyAuth
// @Router /events/sync/status [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	running, last := h.service.Status()
	return c.JSON(fiber.Map{"running": running, "last": last})
}

// HandleRecent lists recently updated events.
// @Summary Recent Events
// @Tags events
// @Produce json
// @Param limit query int false "Max events (default 20)"
// @Success 200 {array} events.PetEvent "Events"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /events [get]
func (h *Handler) HandleRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	items, err := h.service.Recent(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Event list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

// HandleGet returns one event.
// @Summary Get Event
// @Tags events
// @Produce json
// @Param hash path string true "Content hash"
// @Success 200 {object} events.PetEvent "Event"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /events/{hash} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	e, ok, err := h.service.Get(c.UserContext(), c.Params("hash"))
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Event lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "event not found"})
	}
	return c.JSON(e)
}
