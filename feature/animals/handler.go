package animals

import (
	"shelter-sync/core/logger"
	"shelter-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Handler handles HTTP requests for the animal registry mirror.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the animal routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/animals")
	group.Post("/sync", h.HandleSync)
	group.Get("/sync/status", h.HandleSyncStatus)
	group.Get("/", h.HandleList)
	group.Get("/:desertionNo", h.HandleGet)
}

// HandleSync runs a registry sync cycle.
// @Summary Sync Animals
// @Description Drains every registry partition and reconciles the local mirror. Joins a cycle that is already running.
// @Tags animals
// @Produce json
// @Param dry_run query boolean false "Plan only, write nothing"
// @Success 200 {object} reconcile.Result "Cycle Result"
// @Failure 500 {object} reconcile.Result "Failed Cycle"
// @Security ApiKeyAuth
// @Router /animals/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var res *reconcile.Result
	if c.QueryBool("dry_run") {
		l.Info("Triggering animal dry run")
		res = h.service.DryRun(c.UserContext())
	} else {
		l.Info("Triggering animal sync")
		res = h.service.RunSync(c.UserContext())
	}

	if !res.OK() {
		l.Warn("Animal sync failed", zap.String("cycle_id", res.CycleID), zap.String("detail", res.Detail))
		return c.Status(fiber.StatusInternalServerError).JSON(res)
	}
	return c.JSON(res)
}

// HandleSyncStatus reports the running flag and the last cycle.
// @Summary Animal Sync Status
// @Tags animals
// @Produce json
// @Success 200 {object} map[string]interface{} "Status"
// @Security ApiKeyAuth
// @Router /animals/sync/status [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	running, last := h.service.Status()
	return c.JSON(fiber.Map{
		"running": running,
		"last":    last,
	})
}

// HandleGet returns one mirrored animal.
// @Summary Get Animal
// @Tags animals
// @Produce json
// @Param desertionNo path string true "Desertion number"
// @Success 200 {object} animals.Animal "Animal"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /animals/{desertionNo} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("desertionNo")

	a, ok, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Animal lookup failed", zap.String("desertion_no", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "animal not found"})
	}
	return c.JSON(a)
}

// HandleList returns a page of mirrored animals.
// @Summary List Animals
// @Tags animals
// @Produce json
// @Param state query string false "process_state filter"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{} "Animals"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security ApiKeyAuth
// @Router /animals [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	f := ListFilter{
		State:  c.Query("state"),
		Limit:  c.QueryInt("limit", defaultListLimit),
		Offset: c.QueryInt("offset", 0),
	}
	if f.Limit <= 0 || f.Limit > maxListLimit {
		f.Limit = defaultListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	items, total, err := h.service.List(c.UserContext(), f)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Animal list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"total":  total,
		"limit":  f.Limit,
		"offset": f.Offset,
		"items":  items,
	})
}
