package events

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	enabled bool
	service *Service
	handler *Handler
}

// NewFeature creates the events feature around svc.
func NewFeature(cfg Config, svc *Service, logger *zap.Logger) *Feature {
	return &Feature{
		enabled: cfg.Enabled,
		service: svc,
		handler: NewHandler(svc, logger),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return SourceName
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
