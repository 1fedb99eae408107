// Package batch scores many markets or deals in parallel. Each item is
// independent, so results are written to their own slot and returned in
// input order.
package batch

import (
	"context"
	"time"

	"github.com/iwvelando/carescore/internal/deal"
	"github.com/iwvelando/carescore/internal/market"
	"github.com/iwvelando/carescore/pkg/constants"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MarketRequest is one market to score.
type MarketRequest struct {
	FacilityType string            `json:"facilityType"`
	Market       market.Data       `json:"market"`
	LaborData    *market.LaborData `json:"laborData,omitempty"`
}

// MarketResult is the outcome for one MarketRequest. Exactly one of Report
// and Error is set.
type MarketResult struct {
	Index  int            `json:"index"`
	Report *market.Report `json:"report,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// DealRequest is one deal to evaluate.
type DealRequest struct {
	Deal       deal.Deal          `json:"deal"`
	Facilities []deal.RawFacility `json:"facilities,omitempty"`
}

// DealResult is the outcome for one DealRequest.
type DealResult struct {
	Index      int              `json:"index"`
	Evaluation *deal.Evaluation `json:"evaluation,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// Runner fans requests out over a bounded number of goroutines.
type Runner struct {
	logger      *zap.Logger
	scorer      *market.Scorer
	evaluator   *deal.Evaluator
	concurrency int
}

// NewRunner creates a batch runner. A concurrency below one uses the default.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewRunner(logger *zap.Logger, scorer *market.Scorer, evaluator *deal.Evaluator, concurrency int) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = constants.DefaultBatchConcurrency
	}
	return &Runner{
		logger:      logger,
		scorer:      scorer,
		evaluator:   evaluator,
		concurrency: concurrency,
	}
}

// Concurrency returns the goroutine limit.
func (r *Runner) Concurrency() int {
	return r.concurrency
}

// ScoreMarkets scores every request. Per-market failures are reported in the
// result; a cancelled context stops scheduling and returns ctx.Err().
func (r *Runner) ScoreMarkets(ctx context.Context, reqs []MarketRequest) ([]MarketResult, error) {
	start := time.Now()
	results := make([]MarketResult, len(reqs))

	err := r.run(ctx, len(reqs), func(i int) {
		results[i].Index = i
		report, err := r.scorer.Report(reqs[i].Market, reqs[i].FacilityType, reqs[i].LaborData)
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		results[i].Report = &report
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("batch markets scored",
		zap.String("op", "batch.ScoreMarkets"),
		zap.Int("count", len(reqs)),
		zap.Int("concurrency", r.concurrency),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// EvaluateDeals evaluates every request with the same semantics as ScoreMarkets.
func (r *Runner) EvaluateDeals(ctx context.Context, reqs []DealRequest) ([]DealResult, error) {
	start := time.Now()
	results := make([]DealResult, len(reqs))

	err := r.run(ctx, len(reqs), func(i int) {
		results[i].Index = i
		ev, err := r.evaluator.EvaluateDeal(reqs[i].Deal, reqs[i].Facilities)
		if err != nil {
			results[i].Error = err.Error()
			return
		}
		results[i].Evaluation = &ev
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug("batch deals evaluated",
		zap.String("op", "batch.EvaluateDeals"),
		zap.Int("count", len(reqs)),
		zap.Int("concurrency", r.concurrency),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

func (r *Runner) run(ctx context.Context, n int, work func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			work(i)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
