package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/repository"
)

func roundOf(t *testing.T, svc *RoundService, userID string) string {
	t.Helper()
	rounds, err := svc.Rounds(context.Background())
	require.NoError(t, err)
	for _, r := range rounds {
		if r.TelegramUserID == userID {
			return r.ID
		}
	}
	t.Fatalf("no round for %s", userID)
	return ""
}

func TestRoundService_Detail(t *testing.T) {
	conv, store := newTestConversation(t)
	rounds := NewRoundService(store.repos())

	startRound(t, conv, "u1", 9)
	events := holeEvents(true, model.Distance20ft, model.Distance3ft)
	events = append(events, holeEvents(false, model.DistanceGimmie)...)
	for range 7 {
		events = append(events, holeEvents(true, model.Distance10ft)...)
	}
	p := play(t, conv, "u1", events...)
	require.NotNil(t, p.Summary)

	detail, err := rounds.Detail(context.Background(), p.Summary.RoundID)
	require.NoError(t, err)

	assert.Equal(t, "u1", detail.UserID)
	assert.True(t, detail.Complete)
	assert.Equal(t, 10, detail.TotalPutts)
	assert.Equal(t, p.Summary.TotalPutts, detail.TotalPutts)
	// (1.878-2) + (1.009-1) + 7*(1.626-1)
	assert.Equal(t, 4.27, detail.SGPutting)

	require.Len(t, detail.Holes, 9)
	assert.Equal(t, HoleDetail{Number: 1, GIR: true, PuttsTaken: 2,
		Putts: []model.Distance{model.Distance20ft, model.Distance3ft}}, detail.Holes[0])
	assert.Equal(t, HoleDetail{Number: 2, GIR: false, PuttsTaken: 1,
		Putts: []model.Distance{model.DistanceGimmie}}, detail.Holes[1])
	assert.Equal(t, 9, detail.Holes[8].Number)
}

func TestRoundService_CancelledRoundIsIncomplete(t *testing.T) {
	conv, store := newTestConversation(t)
	rounds := NewRoundService(store.repos())

	startRound(t, conv, "u2", 18)
	play(t, conv, "u2", holeEvents(false, model.Distance8ft, model.Distance3ft)...)
	play(t, conv, "u2", holeEvents(true, model.Distance30ft, model.Distance4ft)...)
	play(t, conv, "u2", Cancel())

	detail, err := rounds.Detail(context.Background(), roundOf(t, rounds, "u2"))
	require.NoError(t, err)

	assert.False(t, detail.Complete)
	assert.Len(t, detail.Holes, 2)
	assert.Equal(t, 4, detail.TotalPutts)
}

func TestRoundService_NotFound(t *testing.T) {
	_, store := newTestConversation(t)
	rounds := NewRoundService(store.repos())

	_, err := rounds.Detail(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrRoundNotFound)
}
