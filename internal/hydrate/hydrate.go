// Package hydrate fills missing denormalized fields on rows that reference
// entities by id. A pass dedupes the referenced ids, fans the point lookups
// out concurrently, and merges results back in input order. One failed
// lookup never blocks the rest of the batch.
package hydrate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"cricket-data-service/internal/logging"
)

// maxConcurrentLookups bounds the fan-out of one hydration pass.
const maxConcurrentLookups = 8

// Lookup fetches the referenced entity for one id.
type Lookup[V any] func(ctx context.Context, id int) (V, error)

// Pass hydrates rows in place. idOf extracts the referenced id, missing
// gates which rows need filling (making re-runs a no-op), and apply merges a
// fetched value into a row. Lookups are issued once per distinct missing id.
func Pass[R, V any](ctx context.Context, logger *slog.Logger, rows []R, idOf func(R) int, missing func(R) bool, lookup Lookup[V], apply func(*R, V)) {
	ids := distinctMissingIDs(rows, idOf, missing)
	if len(ids) == 0 {
		return
	}

	var mu sync.Mutex
	found := make(map[int]V, len(ids))

	p := pool.New().WithContext(ctx).WithMaxGoroutines(maxConcurrentLookups)
	for _, id := range ids {
		id := id
		p.Go(func(ctx context.Context) error {
			value, err := lookup(ctx, id)
			if err != nil {
				logging.Warn(logging.FromContext(ctx, logger), "hydration lookup failed", "id", id, "error", err)
				return nil
			}
			mu.Lock()
			found[id] = value
			mu.Unlock()
			return nil
		})
	}
	// Lookup errors are swallowed above; Wait only reports ctx cancellation.
	_ = p.Wait()

	for i := range rows {
		if !missing(rows[i]) {
			continue
		}
		if value, ok := found[idOf(rows[i])]; ok {
			apply(&rows[i], value)
		}
	}
}

func distinctMissingIDs[R any](rows []R, idOf func(R) int, missing func(R) bool) []int {
	seen := make(map[int]struct{}, len(rows))
	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		if !missing(row) {
			continue
		}
		id := idOf(row)
		if id <= 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
