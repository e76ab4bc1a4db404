package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/shortgame/shortgame/internal/model"
)

type PuttRepository interface {
	Create(ctx context.Context, putt *model.Putt) error
	ByHole(ctx context.Context, holeID string) ([]*model.Putt, error)
	Putts(ctx context.Context) ([]*model.Putt, error)
}

type puttRepository struct {
	db *sqlx.DB
}

func NewPuttRepository(db *sqlx.DB) PuttRepository {
	return &puttRepository{db: db}
}

const insertPutt = `INSERT INTO putts (id, hole_id, putt_number, distance)
	VALUES ($1, $2, $3, $4)`

func (r *puttRepository) Create(ctx context.Context, putt *model.Putt) error {
	_, err := r.db.ExecContext(ctx, insertPutt,
		putt.ID,
		putt.HoleID,
		putt.PuttNumber,
		putt.Distance,
	)
	return err
}

func (r *puttRepository) ByHole(ctx context.Context, holeID string) ([]*model.Putt, error) {
	var putts []*model.Putt
	query := `SELECT * FROM putts WHERE hole_id = $1 ORDER BY putt_number ASC`

	err := r.db.SelectContext(ctx, &putts, query, holeID)
	if err != nil {
		return nil, err
	}

	return putts, nil
}

func (r *puttRepository) Putts(ctx context.Context) ([]*model.Putt, error) {
	var putts []*model.Putt
	query := `SELECT * FROM putts ORDER BY hole_id ASC, putt_number ASC`

	err := r.db.SelectContext(ctx, &putts, query)
	if err != nil {
		return nil, err
	}

	return putts, nil
}

// checkAffected maps "no rows touched" to the given not-found error.
func checkAffected(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
