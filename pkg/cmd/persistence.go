// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pagecraft/pagecraft/pkg/persistence"
	"github.com/pagecraft/pagecraft/pkg/persistence/file"
	"github.com/pagecraft/pagecraft/pkg/persistence/postgresql"
)

// NewPersistence picks the store from the URL scheme: file:// for the JSON file store and
// postgres:// or postgresql:// for PostgreSQL.
//
//nolint:ireturn // callers depend on the persistence interface
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	provider, rest, found := strings.Cut(databaseURL, "://")
	if !found {
		return nil, fmt.Errorf("invalid database url %q, expected <scheme>://", databaseURL)
	}

	switch provider {
	case "file":
		if rest == "" {
			return nil, fmt.Errorf("file database url requires a path")
		}

		logger.InfoContext(ctx, "Using file persistence", "path", rest)

		return file.NewPersistence(rest), nil
	case "postgres", "postgresql":
		logger.InfoContext(ctx, "Using PostgreSQL persistence")

		postgres, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, err
		}

		return postgres, nil
	default:
		return nil, fmt.Errorf("unsupported persistence provider %q, supported: file, postgres", provider)
	}
}
