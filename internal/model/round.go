package model

import (
	"time"
)

// Hole counts a user may choose when starting a round.
const (
	HolesFront = 9
	HolesFull  = 18
)

type Round struct {
	ID             string    `db:"id"`
	TelegramUserID string    `db:"telegram_user_id"`
	Date           time.Time `db:"date"`
	CourseName     *string   `db:"course_name"`
	IsSeed         bool      `db:"is_seed"`
	CreatedAt      time.Time `db:"created_at"`
}

// Hole is one hole's putting summary. PuttsTaken stays 0 until the hole is
// closed; a closed hole always has at least one putt.
type Hole struct {
	ID         string `db:"id"`
	RoundID    string `db:"round_id"`
	HoleNumber int    `db:"hole_number"`
	GIR        bool   `db:"gir"`
	PuttsTaken int    `db:"putts_taken"`
}

// Putt is a recorded putt attempt. The holed putt that ends a hole is never
// stored unless it was a Gimmie.
type Putt struct {
	ID         string   `db:"id"`
	HoleID     string   `db:"hole_id"`
	PuttNumber int      `db:"putt_number"`
	Distance   Distance `db:"distance"`
}

func ValidHoleCount(n int) bool {
	return n == HolesFront || n == HolesFull
}
