// Package store persists summaries of finished runs so results can be
// compared across sessions after the live session is gone.
package store

import (
	"context"

	"vacuumworld/internal/domain"
)

// Store is the results archive interface.
type Store interface {
	// SaveResult archives the summary of a session that reached a
	// terminal state.
	SaveResult(ctx context.Context, result *domain.RunResult) error

	// ListResults returns archived results, most recent first. A
	// non-positive limit returns everything.
	ListResults(ctx context.Context, limit int) ([]domain.RunResult, error)

	// Lifecycle
	Close() error
}
