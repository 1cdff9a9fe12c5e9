// Package fetch retrieves compose file contents from remote repositories.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/cameronsjo/stevedore/internal/selector"
)

// DefaultTimeout bounds a single fetch when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves the raw text of the file a selector points at.
// Implementations are safe for concurrent use; fetches for distinct
// selectors may run in parallel.
type Fetcher interface {
	Fetch(ctx context.Context, sel selector.Selector) (string, error)
}

// Error wraps a transport or not-found failure with the selector that
// caused it.
type Error struct {
	Selector selector.Selector
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Selector, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
