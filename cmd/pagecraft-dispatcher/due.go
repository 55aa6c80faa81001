package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pagecraft/pagecraft/pkg/cmd"
	"github.com/pagecraft/pagecraft/pkg/models"
	"github.com/pagecraft/pagecraft/pkg/persistence"
	cli "github.com/urfave/cli/v3"
)

// NewDueCommand lists scheduled content that is due without announcing it.
func NewDueCommand() *cli.Command {
	return &cli.Command{
		Name:    "due",
		Aliases: []string{"d"},
		Usage:   "List scheduled content whose publish date has passed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "workspace-id",
				Usage: "Only list content of this workspace",
			},
			&cli.DurationFlag{
				Name:  "since",
				Usage: "Only list content due within this duration, 0 lists all",
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := slog.With("module", serviceName, "action", "due")

			p, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := p.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			return listDue(ctx, p, command.Root().Writer, command.String("workspace-id"), command.Duration("since"), time.Now())
		},
	}
}

func listDue(ctx context.Context, p persistence.Persistence, w io.Writer, workspaceID string, since time.Duration, now time.Time) error {
	query := persistence.ContentQuery{
		WorkspaceID:   workspaceID,
		Status:        models.ContentStatusScheduled,
		PublishBefore: now,
	}

	if since > 0 {
		query.PublishAfter = now.Add(-since)
	}

	contents, err := p.ContentRepository().Query(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query due content: %w", err)
	}

	for _, content := range contents {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			content.ID,
			content.WorkspaceID,
			content.Schedule.PublishDate.UTC().Format(time.RFC3339),
			content.Schedule.Timezone,
		)
		if err != nil {
			return err
		}
	}

	_, err = fmt.Fprintf(w, "%d due\n", len(contents))

	return err
}
