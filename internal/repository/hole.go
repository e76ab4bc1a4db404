package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shortgame/shortgame/internal/model"
)

var (
	ErrHoleNotFound = errors.New("hole not found")
)

type HoleRepository interface {
	// Create inserts the hole and its first putt atomically.
	Create(ctx context.Context, hole *model.Hole, first *model.Putt) error
	SetGIR(ctx context.Context, holeID string, gir bool) error
	// Close records the final putt count for the hole.
	Close(ctx context.Context, holeID string, puttsTaken int) error
	// Delete removes the hole together with its putts.
	Delete(ctx context.Context, holeID string) error
	ByRound(ctx context.Context, roundID string) ([]*model.Hole, error)
	Holes(ctx context.Context) ([]*model.Hole, error)
}

type holeRepository struct {
	db *sqlx.DB
}

func NewHoleRepository(db *sqlx.DB) HoleRepository {
	return &holeRepository{db: db}
}

const insertHole = `INSERT INTO holes (id, round_id, hole_number, gir, putts_taken)
	VALUES ($1, $2, $3, $4, $5)`

func (r *holeRepository) Create(ctx context.Context, hole *model.Hole, first *model.Putt) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertHole,
		hole.ID,
		hole.RoundID,
		hole.HoleNumber,
		hole.GIR,
		hole.PuttsTaken,
	)
	if err != nil {
		return fmt.Errorf("failed to create hole: %w", err)
	}

	if first != nil {
		_, err = tx.ExecContext(ctx, insertPutt, first.ID, first.HoleID, first.PuttNumber, first.Distance)
		if err != nil {
			return fmt.Errorf("failed to create first putt: %w", err)
		}
	}

	return tx.Commit()
}

func (r *holeRepository) SetGIR(ctx context.Context, holeID string, gir bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE holes SET gir = $1 WHERE id = $2`, gir, holeID)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrHoleNotFound)
}

func (r *holeRepository) Close(ctx context.Context, holeID string, puttsTaken int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE holes SET putts_taken = $1 WHERE id = $2`, puttsTaken, holeID)
	if err != nil {
		return err
	}
	return checkAffected(result, ErrHoleNotFound)
}

func (r *holeRepository) Delete(ctx context.Context, holeID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM putts WHERE hole_id = $1`, holeID)
	if err != nil {
		return fmt.Errorf("failed to delete putts: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM holes WHERE id = $1`, holeID)
	if err != nil {
		return err
	}
	if err := checkAffected(result, ErrHoleNotFound); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *holeRepository) ByRound(ctx context.Context, roundID string) ([]*model.Hole, error) {
	var holes []*model.Hole
	query := `SELECT * FROM holes WHERE round_id = $1 ORDER BY hole_number ASC`

	err := r.db.SelectContext(ctx, &holes, query, roundID)
	if err != nil {
		return nil, err
	}

	return holes, nil
}

func (r *holeRepository) Holes(ctx context.Context) ([]*model.Hole, error) {
	var holes []*model.Hole
	query := `SELECT * FROM holes ORDER BY round_id ASC, hole_number ASC`

	err := r.db.SelectContext(ctx, &holes, query)
	if err != nil {
		return nil, err
	}

	return holes, nil
}
