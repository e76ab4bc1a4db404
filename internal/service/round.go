package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/repository"
)

// RoundDetail is one stored round with its holes, as shown by the
// operator CLI.
type RoundDetail struct {
	ID         string       `json:"id"`
	UserID     string       `json:"telegram_user_id"`
	Date       time.Time    `json:"date"`
	CourseName string       `json:"course_name,omitempty"`
	IsSeed     bool         `json:"is_seed"`
	Complete   bool         `json:"complete"`
	TotalPutts int          `json:"total_putts"`
	SGPutting  float64      `json:"sg_putting"`
	Holes      []HoleDetail `json:"holes"`
}

type HoleDetail struct {
	Number     int              `json:"hole_number"`
	GIR        bool             `json:"gir"`
	PuttsTaken int              `json:"putts_taken"`
	Putts      []model.Distance `json:"putts"`
}

type RoundService struct {
	rounds repository.RoundRepository
	holes  repository.HoleRepository
	putts  repository.PuttRepository
}

func NewRoundService(
	rounds repository.RoundRepository,
	holes repository.HoleRepository,
	putts repository.PuttRepository,
) *RoundService {
	return &RoundService{
		rounds: rounds,
		holes:  holes,
		putts:  putts,
	}
}

// Rounds lists every stored round, oldest first.
func (s *RoundService) Rounds(ctx context.Context) ([]*model.Round, error) {
	rounds, err := s.rounds.Rounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	return rounds, nil
}

// Detail loads one round hole by hole. Unknown ids return
// repository.ErrRoundNotFound.
func (s *RoundService) Detail(ctx context.Context, roundID string) (*RoundDetail, error) {
	round, err := s.rounds.ByID(ctx, roundID)
	if err != nil {
		return nil, err
	}

	holes, err := s.holes.ByRound(ctx, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holes: %w", err)
	}

	detail := &RoundDetail{
		ID:       round.ID,
		UserID:   round.TelegramUserID,
		Date:     round.Date,
		IsSeed:   round.IsSeed,
		Complete: model.ValidHoleCount(len(holes)),
		Holes:    make([]HoleDetail, 0, len(holes)),
	}
	if round.CourseName != nil {
		detail.CourseName = *round.CourseName
	}

	sg := 0.0
	for _, h := range holes {
		putts, err := s.putts.ByHole(ctx, h.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load putts for hole %d: %w", h.HoleNumber, err)
		}

		hd := HoleDetail{
			Number:     h.HoleNumber,
			GIR:        h.GIR,
			PuttsTaken: h.PuttsTaken,
			Putts:      make([]model.Distance, 0, len(putts)),
		}
		for _, p := range putts {
			hd.Putts = append(hd.Putts, p.Distance)
		}

		detail.TotalPutts += h.PuttsTaken
		if len(putts) > 0 {
			sg += putts[0].Distance.Baseline() - float64(h.PuttsTaken)
		}
		detail.Holes = append(detail.Holes, hd)
	}
	detail.SGPutting = round2(sg)

	return detail, nil
}
