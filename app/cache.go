package app

import (
	"context"
	"fmt"

	"lottolab/domain/core"
	"lottolab/domain/draw"
	"lottolab/internal/analysis"
	"lottolab/internal/memo"
	"lottolab/ports"
)

// Tallies are the per-number and per-pair counts every fairness view is
// derived from.
type Tallies struct {
	Draws        int     `json:"draws"`
	Observations int     `json:"observations"`
	Frequency    []int   `json:"frequency"`
	Cooccurrence [][]int `json:"-"`
}

// Caches holds the memoized views shared by the services. Keys are derived
// from the content hash of the draw history, so a changed history misses
// even without an explicit Invalidate.
type Caches struct {
	Tallies *memo.Cache[*Tallies]
	Reports *memo.Cache[*FairnessReport]
	Rolling *memo.Cache[[]analysis.RollingRow]
}

// NewCaches creates empty caches
func NewCaches() *Caches {
	return &Caches{
		Tallies: memo.New[*Tallies](),
		Reports: memo.New[*FairnessReport](),
		Rolling: memo.New[[]analysis.RollingRow](),
	}
}

// Invalidate drops every cached view
func (c *Caches) Invalidate() {
	c.Tallies.Invalidate()
	c.Reports.Invalidate()
	c.Rolling.Invalidate()
}

// Stats reports hit/miss counters per cache
func (c *Caches) Stats() map[string]memo.Stats {
	return map[string]memo.Stats{
		"tallies": c.Tallies.Stats(),
		"reports": c.Reports.Stats(),
		"rolling": c.Rolling.Stats(),
	}
}

// tallies returns the memoized counts for h
func (c *Caches) tallies(ctx context.Context, h draw.History, hash core.Hash, includeBonus bool) (*Tallies, error) {
	key := hash.Derive(fmt.Sprintf("tallies:bonus=%t", includeBonus))
	return c.Tallies.Get(ctx, key, func(context.Context) (*Tallies, error) {
		return &Tallies{
			Draws:        len(h),
			Observations: analysis.Observations(h, includeBonus),
			Frequency:    analysis.Frequency(h, includeBonus),
			Cooccurrence: analysis.Cooccurrence(h, includeBonus),
		}, nil
	})
}

// loadHistory reads the stored history, failing with InsufficientData when
// nothing has been imported yet.
func loadHistory(ctx context.Context, repo ports.DrawRepository) (draw.History, core.Hash, error) {
	h, err := repo.ListDraws(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load draws: %w", err)
	}
	if len(h) == 0 {
		return nil, "", core.NewInsufficientDataError("no draws stored")
	}
	return h, h.ContentHash(), nil
}
