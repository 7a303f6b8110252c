package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/lifelinesims/lifeline-simulator/internal/logging"
)

// TrialMetrics records optimizer trial outcomes. The observability
// SimCollector satisfies it; a nil recorder is tolerated.
type TrialMetrics interface {
	ObserveTrial(outcome string, seconds float64)
}

// OptimizerConfig tunes the repair-order search.
type OptimizerConfig struct {
	// PredictionHorizon bounds the permutation length per MPC step. A
	// horizon larger than the remaining component count falls back to
	// searching all remaining permutations.
	PredictionHorizon int
	// TrialTimeout bounds one candidate trial; zero means no deadline.
	TrialTimeout time.Duration
	// Workers bounds concurrent trials. Trials run against isolated
	// network copies, so parallelism is safe by construction.
	Workers int
	// Pipeline carries the per-trial expansion and metric options.
	Pipeline PipelineOptions
}

// RepairOptimizer searches repair orders with a model-predictive-control
// loop: enumerate permutations of the remaining components up to the
// prediction horizon, score each candidate with the full pipeline on an
// isolated deep copy, commit only the first component of the best, and
// re-optimize.
type RepairOptimizer struct {
	cfg     OptimizerConfig
	log     logging.Logger
	metrics TrialMetrics
	tracer  trace.Tracer
}

// NewRepairOptimizer applies defaults: horizon and workers floor at 1.
func NewRepairOptimizer(cfg OptimizerConfig, log logging.Logger, metrics TrialMetrics) *RepairOptimizer {
	if cfg.PredictionHorizon < 1 {
		cfg.PredictionHorizon = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logging.Noop()
	}
	return &RepairOptimizer{
		cfg:     cfg,
		log:     log,
		metrics: metrics,
		tracer:  otel.Tracer("lifeline-simulator/optimizer"),
	}
}

// FindOptimalRecovery returns the committed repair order for the base
// network's disrupted components. The base network is never mutated;
// every trial runs on its own deep copy.
//
// Candidates are scored by 0.5×water AUC + 0.5×power AUC. Ties keep the
// first-encountered maximum: scores are compared in enumeration order
// after all trials complete, so parallel completion order cannot change
// the winner.
func (o *RepairOptimizer) FindOptimalRecovery(ctx context.Context, base *InfraNetwork) ([]string, error) {
	remaining := base.DisruptedIDs()
	committed := make([]string, 0, len(remaining))

	for len(remaining) > 0 {
		k := o.cfg.PredictionHorizon
		if k > len(remaining) {
			k = len(remaining)
		}
		candidates := permutations(remaining, k)

		scores := make([]float64, len(candidates))
		for i := range scores {
			scores[i] = math.Inf(-1)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(o.cfg.Workers)
		for i, cand := range candidates {
			order := make([]string, 0, len(committed)+len(cand))
			order = append(order, committed...)
			order = append(order, cand...)

			g.Go(func() error {
				score, err := o.runTrial(gctx, base, order)
				if err != nil {
					if errors.Is(err, ErrSolverNonConvergence) || errors.Is(err, context.DeadlineExceeded) {
						// One bad candidate must not abort the search:
						// score it worst-possible and move on.
						o.log.Warn(gctx, "discarding failed trial",
							logging.String("order", strings.Join(order, ",")),
							logging.String("reason", err.Error()),
						)
						return nil
					}
					return err
				}
				scores[i] = score
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		best := 0
		for i := 1; i < len(scores); i++ {
			if scores[i] > scores[best] {
				best = i
			}
		}
		if math.IsInf(scores[best], -1) {
			return nil, fmt.Errorf("optimizer: every candidate trial failed at step %d", len(committed)+1)
		}

		// Standard MPC: re-optimize every step, act once.
		next := candidates[best][0]
		committed = append(committed, next)
		remaining = removeString(remaining, next)

		o.log.Info(ctx, "committed repair",
			logging.String("component", next),
			logging.Int("step", len(committed)),
			logging.Any("score", scores[best]),
		)
	}
	return committed, nil
}

// runTrial scores one candidate order on an isolated copy of base.
func (o *RepairOptimizer) runTrial(ctx context.Context, base *InfraNetwork, order []string) (score float64, err error) {
	if o.cfg.TrialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.TrialTimeout)
		defer cancel()
	}

	ctx, span := o.tracer.Start(ctx, "optimizer.trial",
		trace.WithAttributes(attribute.String("repair_order", strings.Join(order, ","))),
	)
	start := time.Now()
	defer func() {
		span.SetAttributes(attribute.Float64("score", score))
		span.End()
		o.observe(err, time.Since(start))
	}()

	trial := base.Clone()
	tracker, err := RunPipeline(ctx, trial, order, o.cfg.Pipeline)
	if err != nil {
		return math.Inf(-1), err
	}

	waterAUC, powerAUC, err := tracker.AUC()
	if err != nil {
		return math.Inf(-1), err
	}
	return 0.5*waterAUC + 0.5*powerAUC, nil
}

func (o *RepairOptimizer) observe(err error, elapsed time.Duration) {
	if o.metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, ErrSolverNonConvergence):
		outcome = "non_convergent"
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	case err != nil:
		outcome = "error"
	}
	o.metrics.ObserveTrial(outcome, elapsed.Seconds())
}

// permutations enumerates all ordered selections of k items, in a
// deterministic order that follows the input ordering. The tie-break
// policy of the optimizer depends on this determinism.
func permutations(items []string, k int) [][]string {
	if k <= 0 || k > len(items) {
		return nil
	}

	var out [][]string
	perm := make([]string, 0, k)
	used := make([]bool, len(items))

	var walk func()
	walk = func() {
		if len(perm) == k {
			out = append(out, append([]string(nil), perm...))
			return
		}
		for i := range items {
			if used[i] {
				continue
			}
			used[i] = true
			perm = append(perm, items[i])
			walk()
			perm = perm[:len(perm)-1]
			used[i] = false
		}
	}
	walk()
	return out
}

func removeString(items []string, s string) []string {
	out := items[:0:0]
	for _, it := range items {
		if it != s {
			out = append(out, it)
		}
	}
	return out
}
