package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lottolab/domain/core"
	"lottolab/domain/draw"
	apperrors "lottolab/internal/errors"
	"lottolab/ports"

	"github.com/jmoiron/sqlx"
)

type drawRow struct {
	No    int    `db:"draw_no"`
	Date  string `db:"draw_date"`
	N1    int    `db:"n1"`
	N2    int    `db:"n2"`
	N3    int    `db:"n3"`
	N4    int    `db:"n4"`
	N5    int    `db:"n5"`
	N6    int    `db:"n6"`
	Bonus int    `db:"bonus"`
}

func toRow(d draw.Draw) drawRow {
	return drawRow{
		No: d.No, Date: d.Date.Format(core.DrawDateLayout),
		N1: d.Numbers[0], N2: d.Numbers[1], N3: d.Numbers[2],
		N4: d.Numbers[3], N5: d.Numbers[4], N6: d.Numbers[5],
		Bonus: d.Bonus,
	}
}

func (r drawRow) toDraw() (draw.Draw, error) {
	date, err := core.ParseDrawDate(r.Date)
	if err != nil {
		return draw.Draw{}, fmt.Errorf("draw %d has invalid date %q: %w", r.No, r.Date, err)
	}
	return draw.Draw{
		No:      r.No,
		Date:    date,
		Numbers: [draw.MainCount]int{r.N1, r.N2, r.N3, r.N4, r.N5, r.N6},
		Bonus:   r.Bonus,
	}, nil
}

// drawRepository implements ports.DrawRepository over sqlx
type drawRepository struct {
	db *sqlx.DB
}

// NewDrawRepository creates a draw repository on an open, migrated connection
func NewDrawRepository(db *sqlx.DB) ports.DrawRepository {
	return &drawRepository{db: db}
}

// SaveDraws inserts draws whose number is not stored yet. Existing rows are
// left untouched, so the first recorded result for a draw wins.
func (r *drawRepository) SaveDraws(ctx context.Context, draws []draw.Draw) (int, error) {
	for _, d := range draws {
		if err := d.Validate(); err != nil {
			return 0, err
		}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, apperrors.DatabaseError("failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := tx.Rebind(`INSERT INTO draws (draw_no, draw_date, n1, n2, n3, n4, n5, n6, bonus)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (draw_no) DO NOTHING`)

	inserted := 0
	for _, d := range draws {
		row := toRow(d)
		res, err := tx.ExecContext(ctx, query,
			row.No, row.Date, row.N1, row.N2, row.N3, row.N4, row.N5, row.N6, row.Bonus)
		if err != nil {
			return 0, apperrors.DatabaseError(fmt.Sprintf("failed to insert draw %d", d.No), err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, apperrors.DatabaseError("failed to read rows affected", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, apperrors.DatabaseError("failed to commit draws", err)
	}
	return inserted, nil
}

// ListDraws returns all draws ordered by draw number
func (r *drawRepository) ListDraws(ctx context.Context) (draw.History, error) {
	var rows []drawRow
	err := r.db.SelectContext(ctx, &rows, `SELECT
		draw_no, CAST(draw_date AS TEXT) AS draw_date, n1, n2, n3, n4, n5, n6, bonus
	FROM draws ORDER BY draw_no`)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to query draws", err)
	}

	history := make(draw.History, 0, len(rows))
	for _, row := range rows {
		d, err := row.toDraw()
		if err != nil {
			return nil, err
		}
		history = append(history, d)
	}
	return history, nil
}

// GetDraw returns the draw with the given number
func (r *drawRepository) GetDraw(ctx context.Context, no int) (draw.Draw, error) {
	var row drawRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`SELECT
		draw_no, CAST(draw_date AS TEXT) AS draw_date, n1, n2, n3, n4, n5, n6, bonus
	FROM draws WHERE draw_no = ?`), no)
	if errors.Is(err, sql.ErrNoRows) {
		return draw.Draw{}, fmt.Errorf("draw %d: %w", no, core.ErrDrawNotFound)
	}
	if err != nil {
		return draw.Draw{}, apperrors.DatabaseError(fmt.Sprintf("failed to query draw %d", no), err)
	}
	return row.toDraw()
}

// LatestNo returns the highest stored draw number
func (r *drawRepository) LatestNo(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COALESCE(MAX(draw_no), 0) FROM draws`); err != nil {
		return 0, apperrors.DatabaseError("failed to query latest draw", err)
	}
	return n, nil
}

// Count returns the number of stored draws
func (r *drawRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM draws`); err != nil {
		return 0, apperrors.DatabaseError("failed to count draws", err)
	}
	return n, nil
}
