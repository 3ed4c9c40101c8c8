package app

import (
	"context"
	"fmt"

	"lottolab/domain/core"
	"lottolab/internal/analysis"
	"lottolab/internal/recommend"
	"lottolab/ports"
)

// RecommendRequest configures the pick heuristics
type RecommendRequest struct {
	IncludeBonus bool
	Lookback     int
	Seed         int64
	Pick         int
	BonusTop     int
}

// Recommendations are the suggested tickets for one request
type Recommendations struct {
	BasedOnDraws    int                `json:"based_on_draws"`
	Seed            int64              `json:"seed"`
	Tickets         []recommend.Ticket `json:"tickets"`
	BonusCandidates []int              `json:"bonus_candidates"`
}

// RecommendationService turns the history into heuristic picks
type RecommendationService struct {
	repo    ports.DrawRepository
	caches  *Caches
	rngPort ports.RNGPort
}

// NewRecommendationService creates a recommendation service
func NewRecommendationService(repo ports.DrawRepository, caches *Caches, rngPort ports.RNGPort) *RecommendationService {
	return &RecommendationService{repo: repo, caches: caches, rngPort: rngPort}
}

// Recommend builds one ticket per strategy. Identical requests over the
// same history return identical tickets.
func (s *RecommendationService) Recommend(ctx context.Context, req RecommendRequest) (*Recommendations, error) {
	if req.Lookback <= 0 {
		return nil, core.NewInvalidArgumentError("lookback must be positive, got %d", req.Lookback)
	}
	if req.BonusTop <= 0 {
		req.BonusTop = 3
	}
	h, hash, err := loadHistory(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	t, err := s.caches.tallies(ctx, h, hash, req.IncludeBonus)
	if err != nil {
		return nil, err
	}

	stream := func(name recommend.Strategy) (func() []int, error) {
		rng, err := s.rngPort.SeededStream(ctx, string(name), req.Seed)
		if err != nil {
			return nil, err
		}
		switch name {
		case recommend.StrategyHot:
			return func() []int { return recommend.Hot(t.Frequency, req.Pick, rng) }, nil
		case recommend.StrategyCold:
			return func() []int { return recommend.Cold(t.Frequency, req.Pick, rng) }, nil
		case recommend.StrategyBalanced:
			return func() []int { return recommend.Balanced(t.Frequency, req.Pick) }, nil
		default:
			return func() []int {
				return recommend.WeightedRecent(h, req.Lookback, req.Pick, req.IncludeBonus, rng)
			}, nil
		}
	}

	out := &Recommendations{
		BasedOnDraws:    len(h),
		Seed:            req.Seed,
		BonusCandidates: recommend.BonusCandidates(h, req.Lookback, req.BonusTop),
	}
	for _, name := range []recommend.Strategy{
		recommend.StrategyHot, recommend.StrategyCold, recommend.StrategyBalanced, recommend.StrategyWeightedRecent,
	} {
		pick, err := stream(name)
		if err != nil {
			return nil, fmt.Errorf("rng stream %s: %w", name, err)
		}
		out.Tickets = append(out.Tickets, recommend.NewTicket(name, pick()))
	}
	return out, nil
}

// LatestComposition describes the most recent draw
func (s *RecommendationService) LatestComposition(ctx context.Context) (analysis.DrawFeatures, error) {
	h, _, err := loadHistory(ctx, s.repo)
	if err != nil {
		return analysis.DrawFeatures{}, err
	}
	latest, _ := h.Latest()
	f := recommend.Composition(latest.Numbers[:])
	f.DrawNo = latest.No
	return f, nil
}
