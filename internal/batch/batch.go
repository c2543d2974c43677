// Package batch fans valuation and metadata work out across a worker pool
// with per-item failure isolation. Result order always matches input order,
// and every input item gets exactly one output slot.
package batch

import (
	"context"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cloudcurio/arbfinder/internal/metadata"
	"github.com/cloudcurio/arbfinder/internal/model"
	"github.com/cloudcurio/arbfinder/internal/valuation"
)

// Options tunes a batch run.
type Options struct {
	// Concurrency caps the worker pool; zero means one worker per CPU.
	Concurrency int

	// SoftDeadline bounds the run. Items not started before it passes are
	// marked truncated instead of being computed; the run still returns
	// one slot per input.
	SoftDeadline time.Duration

	// EvaluationDate is applied to items that carry none, and stamps
	// generated metadata. Zero means the processor picks the wall-clock
	// time once at the start of the run, keeping all items in a single
	// run consistent.
	EvaluationDate time.Time
}

// Processor runs batches against a valuation engine and metadata generator.
type Processor struct {
	engine *valuation.Engine
	meta   *metadata.Generator
}

// New creates a Processor.
func New(engine *valuation.Engine, meta *metadata.Generator) *Processor {
	return &Processor{engine: engine, meta: meta}
}

// Run processes items under the given operation. Each item's outcome lands
// in its own slot: a per-item validation failure is recorded there and never
// aborts siblings. Cancellation of ctx or expiry of the soft deadline stops
// dispatch gracefully; unstarted items get truncated markers.
func (p *Processor) Run(ctx context.Context, items []model.Item, op model.Operation, opts Options) ([]model.BatchResult, model.BatchStats, error) {
	if _, ok := model.ParseOperation(string(op)); !ok {
		return nil, model.BatchStats{}, eris.Errorf("batch: unknown operation %q", op)
	}

	start := time.Now()
	evalDate := opts.EvaluationDate
	if evalDate.IsZero() {
		evalDate = time.Now().UTC()
	}
	var deadline time.Time
	if opts.SoftDeadline > 0 {
		deadline = start.Add(opts.SoftDeadline)
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	zap.L().Info("batch: run started",
		zap.Int("items", len(items)),
		zap.String("operation", string(op)),
		zap.Int("concurrency", concurrency),
	)

	// Index-tagged dispatch: every worker writes only its own slot, so
	// result order matches input order regardless of completion order.
	results := make([]model.BatchResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, item := range items {
		if gctx.Err() != nil || (!deadline.IsZero() && time.Now().After(deadline)) {
			results[i] = truncatedSlot(i)
			continue
		}
		g.Go(func() error {
			results[i] = p.processOne(i, item.WithEvaluationDate(evalDate), op, evalDate)
			return nil
		})
	}

	// Workers never return errors; per-item failures live in their slots.
	_ = g.Wait()

	stats := model.BatchStats{
		Total:    len(items),
		Duration: time.Since(start),
	}
	for _, r := range results {
		switch {
		case r.Error == nil:
			stats.Succeeded++
		case r.Error.Kind == model.ErrorKindTruncated:
			stats.Skipped++
			stats.Truncated = true
		default:
			stats.Failed++
		}
	}

	zap.L().Info("batch: run complete",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped),
		zap.Bool("truncated", stats.Truncated),
		zap.Duration("duration", stats.Duration),
	)
	return results, stats, nil
}

// processOne computes a single result slot.
func (p *Processor) processOne(index int, item model.Item, op model.Operation, evalDate time.Time) model.BatchResult {
	res := model.BatchResult{Index: index}

	if op == model.OperationPrice || op == model.OperationBoth {
		price, err := p.engine.ComputePrice(item)
		if err != nil {
			zap.L().Warn("batch: item failed",
				zap.Int("item_index", index),
				zap.Error(err),
			)
			res.Error = &model.ItemError{
				Kind:      model.ErrorKind(err),
				Message:   err.Error(),
				ItemIndex: index,
			}
			return res
		}
		res.Price = price
	}

	if op == model.OperationMetadata || op == model.OperationBoth {
		res.Metadata = p.meta.Generate(item, evalDate)
	}
	return res
}

func truncatedSlot(index int) model.BatchResult {
	return model.BatchResult{
		Index: index,
		Error: &model.ItemError{
			Kind:      model.ErrorKindTruncated,
			Message:   "batch: item not processed before deadline or cancellation",
			ItemIndex: index,
		},
	}
}
