package studio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"devart/internal/imagegen"
	"devart/internal/style"
)

const defaultBatchDelay = 50 * time.Millisecond

type RunnerOptions struct {
	Generator   imagegen.Generator
	Delay       time.Duration
	Concurrency int
	Logger      *slog.Logger
}

// Runner executes a batch of prompt items. Items run one by one with a short
// pause between them unless Concurrency is above one.
type Runner struct {
	gen         imagegen.Generator
	delay       time.Duration
	concurrency int
	logger      *slog.Logger
}

// Output pairs a prompt item with what the generator returned for it.
type Output struct {
	Index  int
	Item   style.PromptItem
	Result imagegen.Result
}

func NewRunner(opts RunnerOptions) *Runner {
	delay := opts.Delay
	if delay <= 0 {
		delay = defaultBatchDelay
	}
	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		gen:         opts.Generator,
		delay:       delay,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run generates every item. The first failure stops the batch; outputs that
// were already produced are returned with the error, in item order.
func (r *Runner) Run(ctx context.Context, items []style.PromptItem) ([]Output, error) {
	if r.concurrency > 1 {
		return r.runParallel(ctx, items)
	}
	return r.runSequential(ctx, items)
}

func (r *Runner) runSequential(ctx context.Context, items []style.PromptItem) ([]Output, error) {
	out := make([]Output, 0, len(items))
	for i, item := range items {
		res, err := r.generate(ctx, item)
		if err != nil {
			return out, fmt.Errorf("generate %q: %w", item.Subject, err)
		}
		out = append(out, Output{Index: i, Item: item, Result: res})

		if i < len(items)-1 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(r.delay):
			}
		}
	}
	return out, nil
}

func (r *Runner) runParallel(ctx context.Context, items []style.PromptItem) ([]Output, error) {
	results := make([]*Output, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			res, err := r.generate(gctx, item)
			if err != nil {
				return fmt.Errorf("generate %q: %w", item.Subject, err)
			}
			results[i] = &Output{Index: i, Item: item, Result: res}
			return nil
		})
	}
	err := g.Wait()

	out := make([]Output, 0, len(items))
	for _, o := range results {
		if o != nil {
			out = append(out, *o)
		}
	}
	return out, err
}

func (r *Runner) generate(ctx context.Context, item style.PromptItem) (imagegen.Result, error) {
	start := time.Now()
	res, err := r.gen.Generate(ctx, imagegen.Request{Prompt: item.Prompt, Seed: imagegen.Seed(item.Seed)})
	if err != nil {
		r.logger.Error("batch item failed", "subject", item.Subject, "seed", item.Seed, "err", err)
		return imagegen.Result{}, err
	}
	r.logger.Info("batch item done", "subject", item.Subject, "seed", res.Seed, "dur_ms", time.Since(start).Milliseconds())
	return res, nil
}
