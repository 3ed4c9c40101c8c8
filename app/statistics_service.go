package app

import (
	"context"
	"fmt"

	"lottolab/domain/core"
	"lottolab/domain/draw"
	"lottolab/internal/analysis"
	"lottolab/ports"
)

// NumberCount is the frequency of one number
type NumberCount struct {
	Number int     `json:"number"`
	Count  int     `json:"count"`
	Share  float64 `json:"share"`
}

// FrequencyView is the per-number frequency table
type FrequencyView struct {
	Draws        int           `json:"draws"`
	Observations int           `json:"observations"`
	IncludeBonus bool          `json:"include_bonus"`
	Expected     float64       `json:"expected"`
	Numbers      []NumberCount `json:"numbers"`
}

// FeaturesView bundles the per-draw composition features
type FeaturesView struct {
	Features   []analysis.DrawFeatures   `json:"features"`
	Summary    []analysis.FeatureSummary `json:"summary"`
	LastDigits [10]int                   `json:"last_digits"`
}

// DrawView is one stored draw with its composition
type DrawView struct {
	draw.Draw
	Features analysis.DrawFeatures `json:"features"`
}

// StatisticsService serves the descriptive statistics views
type StatisticsService struct {
	repo   ports.DrawRepository
	caches *Caches
}

// NewStatisticsService creates a statistics service
func NewStatisticsService(repo ports.DrawRepository, caches *Caches) *StatisticsService {
	return &StatisticsService{repo: repo, caches: caches}
}

// Frequency returns how often each number was drawn
func (s *StatisticsService) Frequency(ctx context.Context, includeBonus bool) (*FrequencyView, error) {
	h, hash, err := loadHistory(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	t, err := s.caches.tallies(ctx, h, hash, includeBonus)
	if err != nil {
		return nil, err
	}

	view := &FrequencyView{
		Draws:        t.Draws,
		Observations: t.Observations,
		IncludeBonus: includeBonus,
		Expected:     float64(t.Observations) / float64(draw.MaxNumber),
		Numbers:      make([]NumberCount, draw.MaxNumber),
	}
	for i, c := range t.Frequency {
		view.Numbers[i] = NumberCount{Number: i + 1, Count: c, Share: float64(c) / float64(t.Observations)}
	}
	return view, nil
}

// Draw looks up a single draw by number
func (s *StatisticsService) Draw(ctx context.Context, no int) (*DrawView, error) {
	if no <= 0 {
		return nil, core.NewInvalidArgumentError("draw number must be positive, got %d", no)
	}
	d, err := s.repo.GetDraw(ctx, no)
	if err != nil {
		return nil, err
	}
	f := analysis.Composition(d.Numbers[:])
	f.DrawNo = d.No
	return &DrawView{Draw: d, Features: f}, nil
}

// Rolling returns the trailing-window frequency after every draw
func (s *StatisticsService) Rolling(ctx context.Context, window int, includeBonus bool) ([]analysis.RollingRow, error) {
	if window <= 0 {
		return nil, core.NewInvalidArgumentError("window must be positive, got %d", window)
	}
	h, hash, err := loadHistory(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	key := hash.Derive(fmt.Sprintf("rolling:window=%d:bonus=%t", window, includeBonus))
	return s.caches.Rolling.Get(ctx, key, func(context.Context) ([]analysis.RollingRow, error) {
		return analysis.RollingFrequency(h, window, includeBonus), nil
	})
}

// Features returns per-draw composition features with a summary
func (s *StatisticsService) Features(ctx context.Context) (*FeaturesView, error) {
	h, _, err := loadHistory(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	features := analysis.BuildFeatures(h)
	summary, err := analysis.SummarizeFeatures(features)
	if err != nil {
		return nil, fmt.Errorf("summarize features: %w", err)
	}
	return &FeaturesView{
		Features:   features,
		Summary:    summary,
		LastDigits: analysis.LastDigitHistogram(h),
	}, nil
}
