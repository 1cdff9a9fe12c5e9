package manifest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cameronsjo/stevedore/internal/fetch"
	"github.com/cameronsjo/stevedore/internal/selector"
)

// selectorResult holds one selector's fetch+extract outcome, indexed by the
// selector's command-line position.
type selectorResult struct {
	entries []Entry
	err     error
}

// Build fetches and extracts every selector concurrently, then folds the
// results into a fresh composite strictly in selector order.
func Build(ctx context.Context, f fetch.Fetcher, sels []selector.Selector) (*Composite, error) {
	return BuildInto(ctx, f, sels, NewComposite())
}

// BuildInto is Build with a caller-supplied composite, which may already be
// seeded from an existing output document. Fetches run in parallel; the
// first failure cancels the remaining ones and aborts the run before any
// merge happens. The merge itself is a sequential fold, so the output order
// never depends on fetch completion order.
func BuildInto(ctx context.Context, f fetch.Fetcher, sels []selector.Selector, composite *Composite) (*Composite, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]selectorResult, len(sels))
	var wg sync.WaitGroup
	for i, sel := range sels {
		wg.Add(1)
		go func(i int, sel selector.Selector) {
			defer wg.Done()

			text, err := f.Fetch(ctx, sel)
			if err != nil {
				results[i].err = &fetch.Error{Selector: sel, Err: err}
				cancel()
				return
			}

			entries, err := Extract(text, sel.Names)
			if err != nil {
				results[i].err = fmt.Errorf("extract from %s: %w", sel, err)
				cancel()
				return
			}
			results[i].entries = entries
		}(i, sel)
	}
	wg.Wait()

	if err := firstFailure(results); err != nil {
		return nil, err
	}

	for i, sel := range sels {
		if err := composite.Merge(sel.String(), results[i].entries); err != nil {
			return nil, fmt.Errorf("merge %s: %w", sel, err)
		}
	}
	return composite, nil
}

// firstFailure picks the lowest-index failure for deterministic diagnostics.
// Fetches that died only because another failure cancelled the context are
// reported last, so the original cause always wins.
func firstFailure(results []selectorResult) error {
	var cancelled error
	for i := range results {
		err := results[i].err
		if err == nil {
			continue
		}
		if errors.Is(err, context.Canceled) {
			if cancelled == nil {
				cancelled = err
			}
			continue
		}
		return err
	}
	return cancelled
}
