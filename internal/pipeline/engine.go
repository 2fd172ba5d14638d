// Package pipeline runs a prospect scan end to end: normalize, filter, group,
// extract signals, score and rank.
//
// The engine is a pure in-memory transform. Per-record and per-company stages fan out
// over a bounded errgroup and write into pre-sized slices by index, so the output never
// depends on goroutine scheduling.
package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/prospect-cli/internal/company"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/normalize"
	"github.com/sells-group/prospect-cli/internal/quality"
	"github.com/sells-group/prospect-cli/internal/rank"
	"github.com/sells-group/prospect-cli/internal/rules"
	"github.com/sells-group/prospect-cli/internal/scorer"
	"github.com/sells-group/prospect-cli/internal/signals"
)

// Options tunes how a scan executes. Zero values select defaults.
type Options struct {
	// Workers bounds the goroutines used by each parallel stage. Defaults to NumCPU.
	Workers int
	// MaxListings truncates the input to a record budget. Zero means unlimited.
	MaxListings int
}

// Engine executes scans against one compiled rule set.
type Engine struct {
	set     *rules.Set
	workers int
	max     int
}

// New creates an Engine. The rule set must already be compiled, which is where
// configuration errors surface.
func New(set *rules.Set, opts Options) *Engine {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Engine{set: set, workers: workers, max: opts.MaxListings}
}

// RulesHash identifies the rule set the engine scores with.
func (e *Engine) RulesHash() string { return e.set.Hash() }

// Run scans the listings and returns the ranked companies and run summary. Malformed
// listings are skipped and counted. The only errors are context cancellations.
func (e *Engine) Run(ctx context.Context, raw []model.RawListing) (*model.ScanResult, error) {
	start := time.Now()
	res := &model.ScanResult{
		Top:     []model.RankedCompany{},
		All:     []model.RankedCompany{},
		Summary: newSummary(),
	}
	sum := &res.Summary
	sum.TotalListingsIn = len(raw)

	if e.max > 0 && len(raw) > e.max {
		sum.TruncatedByBudget = len(raw) - e.max
		raw = raw[:e.max]
	}
	if len(raw) == 0 {
		return res, nil
	}

	// Stage 1: validate and normalize.
	normalized, err := e.normalize(ctx, raw)
	if err != nil {
		return nil, err
	}
	sum.MalformedSkipped = len(raw) - len(normalized)

	// Stage 2: quality filter.
	reasons := make([]string, len(normalized))
	if err := e.forEach(ctx, len(normalized), func(i int) {
		reasons[i], _ = quality.Check(&normalized[i], e.set)
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: filter")
	}
	filtered := quality.Assemble(normalized, reasons)
	sum.TotalAccepted = len(filtered.Accepted)
	for reason, n := range filtered.Counts {
		sum.RejectedByReason[reason] = n
	}

	// Stage 3: group.
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: group")
	}
	partition, err := company.Group(ctx, filtered.Accepted, e.workers)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: group")
	}
	eligible := partition.Eligible(e.set.MinListingsPerCompany())
	sum.TotalCompaniesFormed = len(partition.Companies)
	sum.TotalCompaniesEligible = len(eligible)

	// Stage 4: extract signals and score.
	scored := make([]model.RankedCompany, len(eligible))
	if err := e.forEach(ctx, len(eligible), func(i int) {
		scored[i] = e.score(&eligible[i])
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: score")
	}

	// Stage 5: rank.
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "pipeline: rank")
	}
	ranking := rank.Rank(scored, e.set.TopN())
	res.All = ranking.All
	if ranking.Top != nil {
		res.Top = ranking.Top
	}
	sum.CountsByTier = ranking.CountsByTier

	zap.L().Info("pipeline: scan complete",
		zap.Int("listings_in", sum.TotalListingsIn),
		zap.Int("malformed", sum.MalformedSkipped),
		zap.Int("truncated", sum.TruncatedByBudget),
		zap.Int("accepted", sum.TotalAccepted),
		zap.Int("rejected", sum.TotalRejected()),
		zap.Int("companies", sum.TotalCompaniesFormed),
		zap.Int("eligible", sum.TotalCompaniesEligible),
		zap.Int("top", len(res.Top)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return res, nil
}

// normalize validates and normalizes every listing, dropping malformed ones while
// keeping input order.
func (e *Engine) normalize(ctx context.Context, raw []model.RawListing) ([]model.NormalizedListing, error) {
	out := make([]model.NormalizedListing, len(raw))
	ok := make([]bool, len(raw))
	if err := e.forEach(ctx, len(raw), func(i int) {
		if err := normalize.Validate(raw[i]); err != nil {
			zap.L().Debug("pipeline: skipping malformed listing",
				zap.Int("index", i),
				zap.Error(err),
			)
			return
		}
		out[i] = normalize.Normalize(raw[i], e.set)
		ok[i] = true
	}); err != nil {
		return nil, eris.Wrap(err, "pipeline: normalize")
	}

	valid := out[:0]
	for i := range out {
		if ok[i] {
			valid = append(valid, out[i])
		}
	}
	return valid, nil
}

// score extracts signals from one company and computes its score.
func (e *Engine) score(c *model.Company) model.RankedCompany {
	sig := signals.Extract(c, e.set)
	flags := signals.RedFlags(c, e.set)
	s := scorer.Compute(c.ListingCount(), sig, flags, c.LowConfidenceShare(), e.set)

	if limit := e.set.EvidenceCap(); len(flags) > limit {
		flags = flags[:limit]
	}
	return model.RankedCompany{
		CompanyKey:         c.Key,
		DisplayName:        c.DisplayName,
		ListingCount:       c.ListingCount(),
		Locations:          c.Locations,
		Signals:            sig,
		RedFlags:           flags,
		Score:              s,
		ContactIdentifiers: sig.ContactIdentifiers,
	}
}

// forEach runs fn for every index in [0, n) on at most e.workers goroutines.
func (e *Engine) forEach(ctx context.Context, n int, fn func(i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func newSummary() model.Summary {
	s := model.Summary{
		RejectedByReason: make(map[string]int, len(quality.Reasons)),
		CountsByTier:     make(map[model.Tier]int, len(model.Tiers)),
	}
	for _, r := range quality.Reasons {
		s.RejectedByReason[r] = 0
	}
	for _, t := range model.Tiers {
		s.CountsByTier[t] = 0
	}
	return s
}
