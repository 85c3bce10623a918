package predict

import (
	"context"
	"fmt"
	"iter"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// TrainShards trains every shard into its own private predictor, at most
// workers at a time, then merges the shards into p in argument order.
// If any shard fails or ctx is cancelled nothing is merged.
func (p *Predictor) TrainShards(ctx context.Context, workers int, shards ...iter.Seq2[string, error]) error {
	if len(shards) == 0 {
		return nil
	}

	locals := make([]*Predictor, len(shards))
	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, shard := range shards {
		g.Go(func() error {
			local := New(p.backend)
			if err := local.Train(withContext(gctx, shard)); err != nil {
				return fmt.Errorf("shard %d: %w", i, err)
			}
			locals[i] = local
			log.Debugf("Shard %d trained: %d words", i, len(local.counts))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, local := range locals {
		if err := p.Merge(local); err != nil {
			return err
		}
	}
	return nil
}

// withContext ends seq with ctx.Err() once ctx is done.
func withContext(ctx context.Context, seq iter.Seq2[string, error]) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for w, err := range seq {
			if cerr := ctx.Err(); cerr != nil {
				yield("", cerr)
				return
			}
			if !yield(w, err) {
				return
			}
		}
	}
}
