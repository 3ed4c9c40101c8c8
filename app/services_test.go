package app

import (
	"context"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lottolab/adapters/rng"
	"lottolab/adapters/store"
	"lottolab/domain/core"
	"lottolab/domain/draw"
	"lottolab/internal/fairness"
	"lottolab/internal/recommend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDrawRepository is a testify mock of ports.DrawRepository
type MockDrawRepository struct {
	mock.Mock
}

func (m *MockDrawRepository) SaveDraws(ctx context.Context, draws []draw.Draw) (int, error) {
	args := m.Called(ctx, draws)
	return args.Int(0), args.Error(1)
}

func (m *MockDrawRepository) ListDraws(ctx context.Context) (draw.History, error) {
	args := m.Called(ctx)
	h, _ := args.Get(0).(draw.History)
	return h, args.Error(1)
}

func (m *MockDrawRepository) GetDraw(ctx context.Context, no int) (draw.Draw, error) {
	args := m.Called(ctx, no)
	return args.Get(0).(draw.Draw), args.Error(1)
}

func (m *MockDrawRepository) LatestNo(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDrawRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// syntheticHistory draws n fair tickets from a fixed seed.
func syntheticHistory(n int, seed int64) draw.History {
	r := rand.New(rand.NewSource(seed))
	base := time.Date(2002, 12, 7, 0, 0, 0, 0, time.UTC)
	h := make(draw.History, n)
	for i := range h {
		perm := r.Perm(draw.MaxNumber)
		d := draw.Draw{No: i + 1, Date: base.AddDate(0, 0, 7*i), Bonus: perm[6] + 1}
		for k := 0; k < draw.MainCount; k++ {
			d.Numbers[k] = perm[k] + 1
		}
		h[i] = d
	}
	return h
}

func TestAnalyzeProducesFullReport(t *testing.T) {
	ctx := context.Background()
	h := syntheticHistory(300, 11)
	repo := &MockDrawRepository{}
	repo.On("ListDraws", mock.Anything).Return(h, nil)

	svc := NewAnalysisService(repo, NewCaches())
	report, err := svc.Analyze(ctx, DefaultAnalysisRequest())
	require.NoError(t, err)

	assert.Equal(t, 300, report.Draws)
	assert.Equal(t, 1800, report.Observations)
	assert.Equal(t, fairness.DefaultFDR, report.Q)
	assert.Equal(t, h.ContentHash(), report.DatasetHash)
	assert.Len(t, report.Pairs, fairness.Pairs)
	assert.Equal(t, 44, report.Uniformity.DegreesOfFreedom)
	assert.InDelta(t, 1.0/66, report.ExactPairProbability, 1e-12)
	assert.NotEmpty(t, report.RunID.String())
	for _, p := range report.Significant {
		assert.True(t, p.Significant)
	}

	top := report.TopPairs(5)
	require.Len(t, top, 5)
	for i := 1; i < len(top); i++ {
		assert.LessOrEqual(t, top[i-1].PValue, top[i].PValue)
	}
}

func TestAnalyzeIsMemoizedPerVariant(t *testing.T) {
	ctx := context.Background()
	repo := &MockDrawRepository{}
	repo.On("ListDraws", mock.Anything).Return(syntheticHistory(120, 5), nil)

	caches := NewCaches()
	svc := NewAnalysisService(repo, caches)

	first, err := svc.Analyze(ctx, AnalysisRequest{Q: 0.05})
	require.NoError(t, err)
	second, err := svc.Analyze(ctx, AnalysisRequest{Q: 0.05})
	require.NoError(t, err)
	assert.Equal(t, first.RunID, second.RunID, "served from cache")

	bonus, err := svc.Analyze(ctx, AnalysisRequest{Q: 0.05, IncludeBonus: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, bonus.RunID)
	assert.Equal(t, 840, bonus.Observations)

	caches.Invalidate()
	third, err := svc.Analyze(ctx, AnalysisRequest{Q: 0.05})
	require.NoError(t, err)
	assert.NotEqual(t, first.RunID, third.RunID)
	assert.Equal(t, first.Uniformity, third.Uniformity)
	assert.Equal(t, int64(1), caches.Stats()["reports"].Hits)
}

func TestAnalyzeWithoutDrawsIsInsufficientData(t *testing.T) {
	repo := &MockDrawRepository{}
	repo.On("ListDraws", mock.Anything).Return(draw.History{}, nil)

	_, err := NewAnalysisService(repo, NewCaches()).Analyze(context.Background(), DefaultAnalysisRequest())
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestAnalyzeRejectsBadQ(t *testing.T) {
	repo := &MockDrawRepository{}
	repo.On("ListDraws", mock.Anything).Return(syntheticHistory(20, 1), nil)

	svc := NewAnalysisService(repo, NewCaches())
	for _, q := range []float64{0, -0.1, 1.5, math.NaN()} {
		_, err := svc.Analyze(context.Background(), AnalysisRequest{Q: q})
		assert.ErrorIs(t, err, core.ErrInvalidArgument, "q=%v", q)
	}
}

func TestIngestInvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	repo := store.NewMemoryRepository()
	caches := NewCaches()
	ingest := NewIngestService(repo, caches)
	analysisSvc := NewAnalysisService(repo, caches)

	h := syntheticHistory(60, 3)
	res, err := ingest.AddDraws(ctx, h[:50])
	require.NoError(t, err)
	assert.Equal(t, 50, res.Inserted)
	assert.Equal(t, 50, res.LatestNo)

	before, err := analysisSvc.Analyze(ctx, DefaultAnalysisRequest())
	require.NoError(t, err)
	gen := caches.Stats()["reports"].Generation

	res, err = ingest.AddDraws(ctx, h[40:])
	require.NoError(t, err)
	assert.Equal(t, 10, res.Inserted)
	assert.Equal(t, 60, res.Total)
	assert.Greater(t, caches.Stats()["reports"].Generation, gen)

	after, err := analysisSvc.Analyze(ctx, DefaultAnalysisRequest())
	require.NoError(t, err)
	assert.Equal(t, 50, before.Draws)
	assert.Equal(t, 60, after.Draws)

	bad := h[0]
	bad.Numbers[1] = bad.Numbers[0]
	_, err = ingest.AddDraws(ctx, []draw.Draw{bad})
	assert.ErrorIs(t, err, core.ErrInvalidDraw)
}

func TestImportAndExportFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "lotto.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(
		"draw_no,date,n1,n2,n3,n4,n5,n6,bonus\n"+
			"1,2002-12-07,10,23,29,33,37,40,16\n"+
			"2,2002-12-14,9,13,21,25,32,42,2\n"+
			"3,2002-12-21,11,16,19,21,27,31,31\n"), 0o644))

	repo := store.NewMemoryRepository()
	ingest := NewIngestService(repo, NewCaches())
	res, err := ingest.ImportFile(ctx, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Received)
	assert.Equal(t, 2, res.Inserted)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "row 4")

	out := filepath.Join(dir, "export.csv")
	n, err := ingest.ExportFile(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(raw), "\n"))

	_, err = ingest.ImportFile(ctx, filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestStatisticsViews(t *testing.T) {
	ctx := context.Background()
	repo := &MockDrawRepository{}
	repo.On("ListDraws", mock.Anything).Return(syntheticHistory(40, 9), nil)
	svc := NewStatisticsService(repo, NewCaches())

	freq, err := svc.Frequency(ctx, true)
	require.NoError(t, err)
	require.Len(t, freq.Numbers, 45)
	total := 0
	for _, n := range freq.Numbers {
		total += n.Count
	}
	assert.Equal(t, 280, total)
	assert.InDelta(t, 280.0/45, freq.Expected, 1e-9)

	rows, err := svc.Rolling(ctx, 10, false)
	require.NoError(t, err)
	assert.Len(t, rows, 40)
	_, err = svc.Rolling(ctx, 0, false)
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	features, err := svc.Features(ctx)
	require.NoError(t, err)
	assert.Len(t, features.Features, 40)
	assert.Len(t, features.Summary, 4)
}

func TestRecommendIsReproducible(t *testing.T) {
	ctx := context.Background()
	repo := &MockDrawRepository{}
	repo.On("ListDraws", mock.Anything).Return(syntheticHistory(80, 2), nil)
	svc := NewRecommendationService(repo, NewCaches(), rng.New())

	req := RecommendRequest{Lookback: 50, Seed: 42, Pick: 6}
	a, err := svc.Recommend(ctx, req)
	require.NoError(t, err)
	b, err := svc.Recommend(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	require.Len(t, a.Tickets, 4)
	assert.Equal(t, recommend.StrategyHot, a.Tickets[0].Strategy)
	for _, ticket := range a.Tickets {
		assert.Len(t, ticket.Numbers, 6)
	}
	assert.Len(t, a.BonusCandidates, 3)

	_, err = svc.Recommend(ctx, RecommendRequest{Lookback: 0})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	latest, err := svc.LatestComposition(ctx)
	require.NoError(t, err)
	assert.Equal(t, 80, latest.DrawNo)
}

func TestRenderMarkdown(t *testing.T) {
	repo := &MockDrawRepository{}
	repo.On("ListDraws", mock.Anything).Return(syntheticHistory(50, 4), nil)
	report, err := NewAnalysisService(repo, NewCaches()).Analyze(context.Background(), DefaultAnalysisRequest())
	require.NoError(t, err)

	md := RenderMarkdown(report, 3)
	assert.True(t, strings.HasPrefix(md, "# Fairness report"))
	assert.Contains(t, md, "## Uniformity")
	assert.Contains(t, md, "990 pairs tested")
	assert.Contains(t, md, "### Strongest pair signals")
	assert.Contains(t, md, "| pair | observed | expected |")
}
