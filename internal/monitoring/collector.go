// Package monitoring summarizes archived scans over a lookback window.
package monitoring

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/store"
)

const pageSize = 500

// Snapshot holds aggregate scan metrics for a window.
type Snapshot struct {
	ScansTotal        int `json:"scans_total"`
	ListingsIn        int `json:"listings_in"`
	ListingsAccepted  int `json:"listings_accepted"`
	ListingsRejected  int `json:"listings_rejected"`
	MalformedSkipped  int `json:"malformed_skipped"`
	TruncatedByBudget int `json:"truncated_by_budget"`
	CompaniesEligible int `json:"companies_eligible"`

	TierTotals    map[model.Tier]int `json:"tier_totals"`
	AcceptRate    float64            `json:"accept_rate"`
	AvgHotPerScan float64            `json:"avg_hot_per_scan"`

	// Metadata.
	Lookback    time.Duration `json:"lookback"`
	CollectedAt time.Time     `json:"collected_at"`
}

// ScanLister is the part of store.Store the collector reads.
type ScanLister interface {
	ListScans(ctx context.Context, filter store.ScanFilter) ([]model.ScanRecord, error)
}

// Collector gathers metrics from the scan archive.
type Collector struct {
	scans ScanLister
	now   func() time.Time
}

// NewCollector creates a new metrics collector.
func NewCollector(scans ScanLister) *Collector {
	return &Collector{scans: scans, now: time.Now}
}

// Collect aggregates every scan created within lookback. A zero lookback covers the
// whole archive.
func (c *Collector) Collect(ctx context.Context, lookback time.Duration) (*Snapshot, error) {
	now := c.now().UTC()
	snap := &Snapshot{
		TierTotals:  make(map[model.Tier]int, len(model.Tiers)),
		Lookback:    lookback,
		CollectedAt: now,
	}
	for _, t := range model.Tiers {
		snap.TierTotals[t] = 0
	}

	var cutoff time.Time
	if lookback > 0 {
		cutoff = now.Add(-lookback)
	}

	// Scans arrive newest first, so the first one older than the cutoff ends the walk.
	for offset := 0; ; offset += pageSize {
		page, err := c.scans.ListScans(ctx, store.ScanFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return nil, eris.Wrap(err, "monitoring: list scans")
		}

		for i := range page {
			if !cutoff.IsZero() && page[i].CreatedAt.Before(cutoff) {
				snap.finish()
				return snap, nil
			}
			snap.add(&page[i])
		}

		if len(page) < pageSize {
			break
		}
	}

	snap.finish()
	return snap, nil
}

func (s *Snapshot) add(rec *model.ScanRecord) {
	s.ScansTotal++
	if rec.Result == nil {
		return
	}
	sum := &rec.Result.Summary
	s.ListingsIn += sum.TotalListingsIn
	s.ListingsAccepted += sum.TotalAccepted
	s.ListingsRejected += sum.TotalRejected()
	s.MalformedSkipped += sum.MalformedSkipped
	s.TruncatedByBudget += sum.TruncatedByBudget
	s.CompaniesEligible += sum.TotalCompaniesEligible
	for t, n := range sum.CountsByTier {
		s.TierTotals[t] += n
	}
}

func (s *Snapshot) finish() {
	if screened := s.ListingsAccepted + s.ListingsRejected; screened > 0 {
		s.AcceptRate = float64(s.ListingsAccepted) / float64(screened)
	}
	if s.ScansTotal > 0 {
		s.AvgHotPerScan = float64(s.TierTotals[model.TierHot]) / float64(s.ScansTotal)
	}
}
