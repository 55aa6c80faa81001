// Package main provides the Pagecraft API server implementation.
package main

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/pagecraft/pagecraft/pkg/eventbus"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	"github.com/pagecraft/pagecraft/pkg/services"
	"github.com/pagecraft/pagecraft/pkg/statecache"
	"github.com/pagecraft/pagecraft/pkg/web"
	"go.opentelemetry.io/otel/trace"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	publisher   eventbus.EventPublisher
	stateCache  statecache.Cache
	stateTTL    time.Duration
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	publisher eventbus.EventPublisher,
	stateCache statecache.Cache,
	stateTTL time.Duration,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		publisher:   publisher,
		stateCache:  stateCache,
		stateTTL:    stateTTL,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	contentService := services.NewContent(a.persistence)
	schedulingService := services.NewScheduling(
		a.persistence,
		services.WithEventPublisher(a.publisher),
		services.WithTracer(a.tracer),
		services.WithLogger(a.logger),
	)

	handlers := web.NewAPIHandlers(contentService, schedulingService, a.stateCache, a.stateTTL, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return a.persistence.HealthCheck(c.Context()) == nil
		},
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Pagecraft API")
	})

	handlers.Register(app)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
