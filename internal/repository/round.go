package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shortgame/shortgame/internal/model"
)

var (
	ErrRoundNotFound = errors.New("round not found")
)

type RoundRepository interface {
	Create(ctx context.Context, round *model.Round) error
	// Import writes a finished round with its holes and putts in one transaction.
	Import(ctx context.Context, round *model.Round, holes []*model.Hole, putts []*model.Putt) error
	ByID(ctx context.Context, roundID string) (*model.Round, error)
	Rounds(ctx context.Context) ([]*model.Round, error)
	// Delete removes the round together with its holes and putts.
	Delete(ctx context.Context, roundID string) error
	DeleteSeed(ctx context.Context) (int, error)
}

type roundRepository struct {
	db *sqlx.DB
}

func NewRoundRepository(db *sqlx.DB) RoundRepository {
	return &roundRepository{db: db}
}

const insertRound = `INSERT INTO rounds (id, telegram_user_id, date, course_name, is_seed, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

func (r *roundRepository) Create(ctx context.Context, round *model.Round) error {
	_, err := r.db.ExecContext(ctx, insertRound,
		round.ID,
		round.TelegramUserID,
		round.Date,
		round.CourseName,
		round.IsSeed,
		round.CreatedAt,
	)
	return err
}

func (r *roundRepository) Import(ctx context.Context, round *model.Round, holes []*model.Hole, putts []*model.Putt) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, insertRound,
		round.ID,
		round.TelegramUserID,
		round.Date,
		round.CourseName,
		round.IsSeed,
		round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}

	for _, h := range holes {
		_, err := tx.ExecContext(ctx, insertHole, h.ID, h.RoundID, h.HoleNumber, h.GIR, h.PuttsTaken)
		if err != nil {
			return fmt.Errorf("failed to create hole %d: %w", h.HoleNumber, err)
		}
	}

	for _, p := range putts {
		_, err := tx.ExecContext(ctx, insertPutt, p.ID, p.HoleID, p.PuttNumber, p.Distance)
		if err != nil {
			return fmt.Errorf("failed to create putt %d: %w", p.PuttNumber, err)
		}
	}

	return tx.Commit()
}

func (r *roundRepository) ByID(ctx context.Context, roundID string) (*model.Round, error) {
	round := &model.Round{}
	query := `SELECT * FROM rounds WHERE id = $1`

	err := r.db.GetContext(ctx, round, query, roundID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}

	return round, nil
}

func (r *roundRepository) Rounds(ctx context.Context) ([]*model.Round, error) {
	var rounds []*model.Round
	query := `SELECT * FROM rounds ORDER BY date ASC, created_at ASC`

	err := r.db.SelectContext(ctx, &rounds, query)
	if err != nil {
		return nil, err
	}

	return rounds, nil
}

func (r *roundRepository) Delete(ctx context.Context, roundID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM putts WHERE hole_id IN (SELECT id FROM holes WHERE round_id = $1)`, roundID)
	if err != nil {
		return fmt.Errorf("failed to delete putts: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM holes WHERE round_id = $1`, roundID)
	if err != nil {
		return fmt.Errorf("failed to delete holes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE id = $1`, roundID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRoundNotFound
	}

	return tx.Commit()
}

// DeleteSeed removes every synthetic round and returns how many were removed.
func (r *roundRepository) DeleteSeed(ctx context.Context) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM putts WHERE hole_id IN (
		SELECT h.id FROM holes h JOIN rounds r ON r.id = h.round_id WHERE r.is_seed = $1)`, true)
	if err != nil {
		return 0, fmt.Errorf("failed to delete seed putts: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM holes WHERE round_id IN (SELECT id FROM rounds WHERE is_seed = $1)`, true)
	if err != nil {
		return 0, fmt.Errorf("failed to delete seed holes: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM rounds WHERE is_seed = $1`, true)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), tx.Commit()
}
