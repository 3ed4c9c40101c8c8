package ports

import (
	"context"

	"lottolab/domain/draw"
)

// DrawRepository defines the interface for draw history storage
type DrawRepository interface {
	// SaveDraws stores draws not yet present and returns how many were new
	SaveDraws(ctx context.Context, draws []draw.Draw) (int, error)
	// ListDraws returns the full history ordered by draw number
	ListDraws(ctx context.Context) (draw.History, error)
	// GetDraw returns one draw, or an error wrapping core.ErrDrawNotFound
	GetDraw(ctx context.Context, no int) (draw.Draw, error)
	// LatestNo returns the highest stored draw number, 0 when empty
	LatestNo(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}
