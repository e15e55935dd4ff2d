package container

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DecodeAll decodes independent containers concurrently, calling fn with each
// container's index and Decoder. Every Decoder reads its own buffer, so fn
// may run on several goroutines at once. The first error cancels ctx for the
// remaining work and is returned.
func DecodeAll(ctx context.Context, containers [][]byte, cfg Config, fn func(ctx context.Context, i int, d *Decoder) error) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, data := range containers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := NewDecoderWithConfig(data, cfg)
			if err != nil {
				return err
			}
			return fn(ctx, i, d)
		})
	}
	return g.Wait()
}
