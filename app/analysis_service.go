package app

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"lottolab/domain/core"
	"lottolab/internal"
	"lottolab/internal/analysis"
	"lottolab/internal/fairness"
	"lottolab/ports"
)

// FairnessReport is the full output of one fairness diagnostics run
type FairnessReport struct {
	RunID        core.RunID `json:"run_id"`
	DatasetHash  core.Hash  `json:"dataset_hash"`
	Draws        int        `json:"draws"`
	FirstDraw    int        `json:"first_draw"`
	LastDraw     int        `json:"last_draw"`
	Observations int        `json:"observations"`
	IncludeBonus bool       `json:"include_bonus"`
	Q            float64    `json:"q"`

	Uniformity  fairness.UniformityResult `json:"uniformity"`
	Pairs       []fairness.PairResult     `json:"pairs"`
	Significant []fairness.PairResult     `json:"significant"`

	// ExactPairProbability is C(43, m-2)/C(45, m) for m balls per draw.
	ExactPairProbability float64 `json:"exact_pair_probability"`

	GeneratedAt core.Timestamp `json:"generated_at"`
	RuntimeMs   int64          `json:"runtime_ms"`
}

// TopPairs returns the n pairs with the smallest raw p-values
func (r *FairnessReport) TopPairs(n int) []fairness.PairResult {
	out := append([]fairness.PairResult(nil), r.Pairs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].PValue != out[j].PValue {
			return out[i].PValue < out[j].PValue
		}
		return out[i].Index < out[j].Index
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// AnalysisRequest selects the variant of the diagnostics to run
type AnalysisRequest struct {
	IncludeBonus bool
	// Q is the false discovery rate and must lie in (0, 1]; callers apply
	// their own default, see DefaultAnalysisRequest.
	Q float64
}

// DefaultAnalysisRequest counts main numbers only at the default FDR
func DefaultAnalysisRequest() AnalysisRequest {
	return AnalysisRequest{Q: fairness.DefaultFDR}
}

// AnalysisService runs the fairness diagnostics over the stored history
type AnalysisService struct {
	repo   ports.DrawRepository
	caches *Caches
	logger *internal.Logger
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(repo ports.DrawRepository, caches *Caches) *AnalysisService {
	return &AnalysisService{
		repo:   repo,
		caches: caches,
		logger: internal.DefaultLogger.WithComponent("AnalysisService"),
	}
}

// Analyze returns the fairness report for the current history. Reports are
// memoized per history content, bonus mode and q.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*FairnessReport, error) {
	if math.IsNaN(req.Q) || req.Q <= 0 || req.Q > 1 {
		return nil, core.NewInvalidArgumentError("false discovery rate %v outside (0, 1]", req.Q)
	}
	h, hash, err := loadHistory(ctx, s.repo)
	if err != nil {
		return nil, err
	}

	key := hash.Derive(fmt.Sprintf("fairness:bonus=%t:q=%g", req.IncludeBonus, req.Q))
	return s.caches.Reports.Get(ctx, key, func(ctx context.Context) (*FairnessReport, error) {
		start := time.Now()
		t, err := s.caches.tallies(ctx, h, hash, req.IncludeBonus)
		if err != nil {
			return nil, err
		}

		uniformity, err := fairness.UniformityTest(t.Frequency, t.Observations)
		if err != nil {
			return nil, fmt.Errorf("uniformity test: %w", err)
		}
		pairs, err := fairness.PairSignificance(t.Cooccurrence, t.Frequency, t.Draws)
		if err != nil {
			return nil, fmt.Errorf("pair significance: %w", err)
		}
		pairs, err = fairness.ApplyFDR(pairs, req.Q)
		if err != nil {
			return nil, fmt.Errorf("fdr correction: %w", err)
		}

		report := &FairnessReport{
			RunID:                core.NewRunID(),
			DatasetHash:          hash,
			Draws:                len(h),
			FirstDraw:            h[0].No,
			LastDraw:             h[len(h)-1].No,
			Observations:         t.Observations,
			IncludeBonus:         req.IncludeBonus,
			Q:                    req.Q,
			Uniformity:           uniformity,
			Pairs:                pairs,
			Significant:          fairness.SignificantPairs(pairs),
			ExactPairProbability: analysis.ExactPairProbability(len(h[0].Balls(req.IncludeBonus))),
			GeneratedAt:          core.Now(),
			RuntimeMs:            time.Since(start).Milliseconds(),
		}
		s.logger.Info("[Analyze] run %s over %d draws (dataset %s): chi2=%.2f p=%.4f, %d/%d pairs significant at q=%g",
			report.RunID, report.Draws, hash.Short(), uniformity.Statistic, uniformity.PValue,
			len(report.Significant), len(pairs), req.Q)
		return report, nil
	})
}
