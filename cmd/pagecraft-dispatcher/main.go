// Package main provides the Pagecraft dispatcher, which announces scheduled content once it
// becomes due.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pagecraft/pagecraft/pkg/cmd"
	"github.com/pagecraft/pagecraft/pkg/dispatcher"
	"github.com/pagecraft/pagecraft/pkg/log"
	cli "github.com/urfave/cli/v3"
)

const (
	serviceName     = "pagecraft-dispatcher"
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newCommand builds the command tree. Root flags are inherited by subcommands.
func newCommand() *cli.Command {
	return &cli.Command{
		Name:                  serviceName,
		Usage:                 "Announce scheduled content when its publish date passes",
		EnableShellCompletion: true,
		Commands: []*cli.Command{
			NewDueCommand(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for persistence (file://path or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (kafka, gochannel)",
				Value:   "kafka",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "dispatch-spec",
				Usage:   "Cron spec of the due-content poll",
				Value:   dispatcher.DefaultSpec,
				Sources: cli.EnvVars("DISPATCH_SPEC"),
			},
			&cli.DurationFlag{
				Name:    "lookback",
				Usage:   "Only announce overdue content younger than this on startup, 0 announces all",
				Sources: cli.EnvVars("DISPATCH_LOOKBACK"),
			},
			&cli.DurationFlag{
				Name:    "grace",
				Usage:   "How far each poll reaches back behind the previous one",
				Value:   dispatcher.DefaultGrace,
				Sources: cli.EnvVars("DISPATCH_GRACE"),
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
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"), command.String("log-format"))

	logger := log.WithModule(serviceName)

	logger.InfoContext(ctx, "Initializing Pagecraft Dispatcher")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	defer func() {
		if err := persistence.Close(context.Background()); err != nil {
			logger.Error("Failed to close persistence", "error", err)
		}
	}()

	eventBus, err := cmd.NewEventBus(command.String("event-bus"), cmd.ParseBrokers(command.String("kafka-brokers")), serviceName, logger)
	if err != nil {
		return err
	}

	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.Error("Failed to close event bus", "error", err)
		}
	}()

	d, err := dispatcher.New(persistence, eventBus,
		dispatcher.WithSpec(command.String("dispatch-spec")),
		dispatcher.WithLookback(command.Duration("lookback")),
		dispatcher.WithGrace(command.Duration("grace")),
		dispatcher.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if err := d.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return d.Stop(shutdownCtx)
}
