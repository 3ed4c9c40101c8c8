package app

import (
	"context"
	"fmt"

	"lottolab/adapters/importer"
	"lottolab/domain/draw"
	"lottolab/internal"
	"lottolab/internal/errors"
	"lottolab/ports"
)

// IngestResult summarizes one ingest
type IngestResult struct {
	Source   string              `json:"source,omitempty"`
	Received int                 `json:"received"`
	Inserted int                 `json:"inserted"`
	Total    int                 `json:"total"`
	LatestNo int                 `json:"latest_no"`
	Rejected []importer.RowError `json:"-"`
	Errors   []string            `json:"errors,omitempty"`
}

// IngestService validates and stores new draws and keeps caches coherent
type IngestService struct {
	repo   ports.DrawRepository
	caches *Caches
	logger *internal.Logger
}

// NewIngestService creates an ingest service
func NewIngestService(repo ports.DrawRepository, caches *Caches) *IngestService {
	return &IngestService{
		repo:   repo,
		caches: caches,
		logger: internal.DefaultLogger.WithComponent("IngestService"),
	}
}

// AddDraws validates, deduplicates and stores draws. Cached views are
// invalidated when anything new was stored.
func (s *IngestService) AddDraws(ctx context.Context, draws []draw.Draw) (*IngestResult, error) {
	for _, d := range draws {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}
	batch := draw.History(draws).Dedupe()

	inserted, err := s.repo.SaveDraws(ctx, batch)
	if err != nil {
		return nil, errors.Wrap(err, "failed to save draws")
	}
	if inserted > 0 {
		s.caches.Invalidate()
	}

	result := &IngestResult{Received: len(draws), Inserted: inserted}
	if err := s.fillTotals(ctx, result); err != nil {
		return nil, err
	}
	s.logger.Info("[AddDraws] stored %d of %d draws, %d total (latest %d)",
		inserted, len(draws), result.Total, result.LatestNo)
	return result, nil
}

// ImportFile reads a CSV or Excel history and stores the valid rows. Rows
// that fail validation are reported, not fatal.
func (s *IngestService) ImportFile(ctx context.Context, path string) (*IngestResult, error) {
	res, err := importer.NewDataReader(path).ReadDraws()
	if err != nil {
		return nil, errors.ImportFailed(path, err)
	}
	result, err := s.AddDraws(ctx, res.Draws)
	if err != nil {
		return nil, errors.ImportFailed(path, err)
	}
	result.Source = path
	result.Received = res.Rows
	result.Rejected = res.Errors
	for _, rowErr := range res.Errors {
		result.Errors = append(result.Errors, rowErr.Error())
	}
	if len(res.Errors) > 0 {
		s.logger.Warn("[ImportFile] %s: %d rows rejected", path, len(res.Errors))
	}
	return result, nil
}

// ExportFile writes the stored history to a CSV file
func (s *IngestService) ExportFile(ctx context.Context, path string) (int, error) {
	h, err := s.repo.ListDraws(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load draws: %w", err)
	}
	if err := importer.WriteCSV(path, h); err != nil {
		return 0, err
	}
	return len(h), nil
}

func (s *IngestService) fillTotals(ctx context.Context, result *IngestResult) error {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to count draws")
	}
	latest, err := s.repo.LatestNo(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to read latest draw")
	}
	result.Total = total
	result.LatestNo = latest
	return nil
}
