package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shortgame/shortgame/internal/db"
	"github.com/shortgame/shortgame/internal/model"
)

// newTestDB opens a migrated SQLite database in a temp directory.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	database, err := db.Init("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("RunMigrations() failed: %v", err)
	}
	return database
}

func newTestRound(userID string) *model.Round {
	now := time.Now().UTC()
	return &model.Round{
		ID:             uuid.New().String(),
		TelegramUserID: userID,
		Date:           now.Truncate(24 * time.Hour),
		CreatedAt:      now,
	}
}

func newTestHole(roundID string, number int) (*model.Hole, *model.Putt) {
	hole := &model.Hole{ID: uuid.New().String(), RoundID: roundID, HoleNumber: number}
	putt := &model.Putt{ID: uuid.New().String(), HoleID: hole.ID, PuttNumber: 1, Distance: model.Distance10ft}
	return hole, putt
}

func countRows(t *testing.T, database *sqlx.DB, table string) int {
	t.Helper()
	var n int
	if err := database.Get(&n, `SELECT COUNT(*) FROM `+table); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
