package di

import (
	"go.uber.org/zap"

	"skydesk-backend/application/ports"
	"skydesk-backend/application/services"
	"skydesk-backend/infrastructure/config"
	"skydesk-backend/interfaces/tools"
	"skydesk-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	Logger         *zap.Logger
	BookingRepo    ports.BookingRepository
	EventPublisher ports.EventPublisher
	BookingService *services.BookingService
	Registry       *tools.Registry
	Metrics        *observability.Metrics
	Tracer         *observability.Tracer
}
