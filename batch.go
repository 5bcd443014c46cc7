package ttx

import (
	"context"
	"runtime"

	"github.com/npillmayer/schuko"
	"golang.org/x/sync/errgroup"
)

// DumpAll converts a batch of binary fonts to TTX concurrently. Every font
// is handled by a processor of its own; results are in the order of fonts.
// Conversion failures are reported per font in the results. An error is
// returned only if ctx is cancelled before all fonts are done.
func DumpAll(ctx context.Context, fonts [][]byte, opts Options, conf schuko.Configuration) ([]Result, error) {
	results := make([]Result, len(fonts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, data := range fonts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = NewProcessor(conf).DumpToTTX(data, opts)
			tracer().Debugf("font %d of batch converted, success=%v", i, results[i].Success)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
