package runstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

const sweepParallelism = 8

// Sweep deletes leftover run files ("sorted*.txt") from dir. A failed sort
// leaves its temp files behind for deferred cleanup; this is that cleanup.
// Returns the number of files removed.
func Sweep(ctx context.Context, dir string) (int, error) {
	if dir == "" {
		dir = "."
	}
	matches, err := filepath.Glob(filepath.Join(dir, "sorted[0-9][0-9][0-9][0-9].txt"))
	if err != nil {
		return 0, fmt.Errorf("scan %s for run files: %w", dir, err)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(sweepParallelism)
	for _, path := range matches {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove run file %s: %w", path, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return 0, err
	}
	return len(matches), nil
}
