package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pagecraft/pagecraft/pkg/cmd"
	"github.com/pagecraft/pagecraft/pkg/log"
	"github.com/pagecraft/pagecraft/pkg/statecache"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultPort = 9091
	serviceName = "pagecraft-api"
)

func main() {
	command := &cli.Command{
		Name:                  serviceName,
		Usage:                 "Plan, schedule and browse social content",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence (file://path or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for OAuth state storage, in-memory when empty",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "oauth-state-ttl",
				Usage:   "Lifetime of OAuth state tokens",
				Value:   statecache.DefaultTTL,
				Sources: cli.EnvVars("OAUTH_STATE_TTL"),
			},
			&cli.BoolFlag{
				Name:    "otel-enabled",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule("api")

	logger.InfoContext(ctx, "Initializing Pagecraft API")

	tracer, shutdownTracer, err := cmd.NewTracer(ctx, logger, serviceName, command.Bool("otel-enabled"))
	if err != nil {
		return fmt.Errorf("failed to initialize tracer: %w", err)
	}

	defer func() {
		if err := shutdownTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
		}
	}()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), cmd.ParseBrokers(command.String("kafka-brokers")), serviceName, logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	stateTTL := command.Duration("oauth-state-ttl")

	stateCache, err := cmd.NewStateCache(ctx, logger, command.String("redis-url"), stateTTL)
	if err != nil {
		return err
	}

	defer func() {
		if err := stateCache.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close OAuth state cache", "error", err)
		}
	}()

	api := NewAPI(logger, persistence, eventBus, stateCache, stateTTL, tracer)

	return api.Start(command.Int("port"))
}
