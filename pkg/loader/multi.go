package loader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// maxParallelFiles bounds open files during LoadFiles.
const maxParallelFiles = 16

// LoadFiles reads several row files concurrently and concatenates their rows
// in argument order, so the result is the same as loading them one by one.
// The first failure cancels the remaining loads.
func LoadFiles(ctx context.Context, paths []string, opts ParseOptions) ([]*model.Row, error) {
	results := make([][]*model.Row, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFiles)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := LoadFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, rows := range results {
		total += len(rows)
	}
	all := make([]*model.Row, 0, total)
	for _, rows := range results {
		all = append(all, rows...)
	}
	return all, nil
}
