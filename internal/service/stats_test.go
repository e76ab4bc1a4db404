package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shortgame/shortgame/internal/model"
)

type holeSpec struct {
	gir   bool
	taken int
	first model.Distance // empty writes no putt rows
}

func repeat(n int, h holeSpec) []holeSpec {
	out := make([]holeSpec, n)
	for i := range out {
		out[i] = h
	}
	return out
}

// fixture builds rounds the way the conversation stores them: one putt row
// per missed putt, so a hole with taken putts has taken rows.
type fixture struct {
	rounds []*model.Round
	holes  []*model.Hole
	putts  []*model.Putt
}

func (f *fixture) addRound(holes ...holeSpec) string {
	roundID := fmt.Sprintf("r%d", len(f.rounds)+1)
	f.rounds = append(f.rounds, &model.Round{
		ID:        roundID,
		Date:      time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: time.Date(2026, 5, 1, 12, len(f.rounds), 0, 0, time.UTC),
	})
	for i, h := range holes {
		holeID := fmt.Sprintf("%s-h%d", roundID, i+1)
		f.holes = append(f.holes, &model.Hole{
			ID:         holeID,
			RoundID:    roundID,
			HoleNumber: i + 1,
			GIR:        h.gir,
			PuttsTaken: h.taken,
		})
		if h.first == "" {
			continue
		}
		for n := 1; n <= max(h.taken, 1); n++ {
			d := h.first
			if n > 1 {
				d = model.Distance3ft
			}
			f.putts = append(f.putts, &model.Putt{
				ID:         fmt.Sprintf("%s-p%d", holeID, n),
				HoleID:     holeID,
				PuttNumber: n,
				Distance:   d,
			})
		}
	}
	return roundID
}

func (f *fixture) compute(policy StatsPolicy) *model.Stats {
	return ComputeStats(f.rounds, f.holes, f.putts, policy)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil, nil, nil, DefaultStatsPolicy())

	assert.Zero(t, stats.TotalRounds)
	assert.Zero(t, stats.PuttsPerRound)
	assert.Zero(t, stats.SGPutting)
	require.NotNil(t, stats.NonGIRApproachDisplay)
	assert.Equal(t, `0'0"`, *stats.NonGIRApproachDisplay)
	assert.Equal(t, `0'0"`, *stats.GIRApproachDisplay)
	assert.Len(t, stats.FirstPuttStats, len(model.Distances))
	assert.Len(t, stats.SecondPuttStats, len(model.Distances))
	assert.Equal(t, model.DefaultGoals, stats.Goals)
}

func TestComputeStats_AllGimmieRound(t *testing.T) {
	t.Run("all GIR", func(t *testing.T) {
		var f fixture
		f.addRound(repeat(18, holeSpec{gir: true, taken: 1, first: model.DistanceGimmie})...)

		stats := f.compute(DefaultStatsPolicy())
		assert.Equal(t, 1, stats.TotalRounds)
		assert.Equal(t, 18.0, stats.PuttsPerRound)
		assert.Zero(t, stats.UpAndDownPct, "no non-GIR holes")
		assert.InDelta(t, 0.16, stats.SGPutting, 1e-9)

		gimmie := stats.FirstPuttStats[model.DistanceGimmie]
		assert.Equal(t, model.MakeStat{Attempts: 18, Makes: 18, Pct: 100}, gimmie)
		assert.Zero(t, stats.SecondPuttStats[model.DistanceGimmie].Attempts)

		assert.Equal(t, 2.0, *stats.GIRApproachFt)
		assert.Equal(t, `2'0"`, *stats.GIRApproachDisplay)
		assert.Zero(t, *stats.NonGIRApproachFt)
	})

	t.Run("all non-GIR", func(t *testing.T) {
		var f fixture
		f.addRound(repeat(18, holeSpec{gir: false, taken: 1, first: model.DistanceGimmie})...)

		stats := f.compute(DefaultStatsPolicy())
		assert.Equal(t, 100.0, stats.UpAndDownPct)
		assert.Equal(t, 2.0, *stats.NonGIRApproachFt)
	})
}

func TestComputeStats_MakeTables(t *testing.T) {
	var f fixture
	specs := []holeSpec{
		{gir: true, taken: 1, first: model.Distance3ft},
		{gir: true, taken: 1, first: model.Distance3ft},
		{gir: true, taken: 2, first: model.Distance3ft},
		{gir: false, taken: 1, first: model.Distance4ft},
		{gir: false, taken: 2, first: model.Distance5ft},
		{gir: false, taken: 2, first: model.Distance6ft},
		{gir: true, taken: 2, first: model.Distance20ft},
		{gir: true, taken: 3, first: model.Distance20ft},
		{gir: true, taken: 3, first: model.Distance20ft},
	}
	specs = append(specs, repeat(9, holeSpec{gir: true, taken: 2, first: model.Distance30ft})...)
	f.addRound(specs...)

	stats := f.compute(DefaultStatsPolicy())

	assert.Equal(t, model.MakeStat{Attempts: 3, Makes: 2, Pct: 66.7}, stats.FirstPuttStats[model.Distance3ft])
	assert.Equal(t, 66.7, stats.MakePct3ft)
	assert.Equal(t, 50.0, stats.MakePct4To5ft)
	assert.Zero(t, stats.MakePct6To7ft)

	assert.Equal(t, model.MakeStat{Attempts: 3, Makes: 0, Pct: 0}, stats.FirstPuttStats[model.Distance20ft])
	assert.Equal(t, model.MakeStat{Attempts: 3, Makes: 1, Pct: 33.3}, stats.SecondPuttStats[model.Distance20ft])
	assert.Equal(t, model.MakeStat{Attempts: 9, Makes: 9, Pct: 100}, stats.SecondPuttStats[model.Distance30ft])

	// 3 non-GIR holes, one of them one-putted
	assert.Equal(t, 33.3, stats.UpAndDownPct)
	assert.Equal(t, 5.0, *stats.NonGIRApproachFt)
	assert.Equal(t, `5'0"`, *stats.NonGIRApproachDisplay)
}

func TestComputeStats_NineHoleNormalization(t *testing.T) {
	var f fixture
	f.addRound(repeat(9, holeSpec{gir: true, taken: 2, first: model.Distance20ft})...)

	normalized := f.compute(DefaultStatsPolicy())
	assert.Equal(t, 1, normalized.TotalRounds)
	assert.Equal(t, 36.0, normalized.PuttsPerRound)
	assert.InDelta(t, -2.2, normalized.SGPutting, 1e-9)

	policy := DefaultStatsPolicy()
	policy.NormalizeNineHole = false
	raw := f.compute(policy)
	assert.Equal(t, 18.0, raw.PuttsPerRound)
	assert.InDelta(t, -1.1, raw.SGPutting, 1e-9)

	// percentages are not scaled
	assert.Equal(t, normalized.FirstPuttStats, raw.FirstPuttStats)
}

func TestComputeStats_MixedRoundLengths(t *testing.T) {
	var f fixture
	f.addRound(repeat(18, holeSpec{gir: true, taken: 2, first: model.Distance10ft})...)
	f.addRound(repeat(9, holeSpec{gir: true, taken: 1, first: model.DistanceGimmie})...)

	stats := f.compute(DefaultStatsPolicy())
	assert.Equal(t, 2, stats.TotalRounds)
	assert.Equal(t, 27.0, stats.PuttsPerRound)

	policy := DefaultStatsPolicy()
	policy.AcceptedHoleCounts = []int{model.HolesFull}
	fullOnly := f.compute(policy)
	assert.Equal(t, 1, fullOnly.TotalRounds)
	assert.Equal(t, 36.0, fullOnly.PuttsPerRound)
	assert.Zero(t, fullOnly.FirstPuttStats[model.DistanceGimmie].Attempts)
}

func TestComputeStats_IncompleteRoundsIgnored(t *testing.T) {
	var f fixture
	f.addRound(repeat(11, holeSpec{gir: false, taken: 3, first: model.Distance50ft})...)
	f.addRound()

	stats := f.compute(DefaultStatsPolicy())
	assert.Equal(t, EmptyStats(DefaultStatsPolicy()), stats)
}

func TestComputeStats_HoleWithoutPutts(t *testing.T) {
	var f fixture
	specs := repeat(17, holeSpec{gir: true, taken: 1, first: model.DistanceGimmie})
	specs = append(specs, holeSpec{gir: false, taken: 2})
	f.addRound(specs...)

	stats := f.compute(DefaultStatsPolicy())
	assert.Equal(t, 19.0, stats.PuttsPerRound, "putts_taken still counts")
	assert.Equal(t, 0.0, stats.UpAndDownPct, "non-GIR hole still counts")
	assert.Equal(t, 17, stats.FirstPuttStats[model.DistanceGimmie].Attempts)
	assert.Zero(t, *stats.NonGIRApproachFt, "no first putt distance to average")
	assert.InDelta(t, 0.15, stats.SGPutting, 1e-9)
}

func TestComputeStats_ApproachMetricsDisabled(t *testing.T) {
	var f fixture
	f.addRound(repeat(18, holeSpec{gir: false, taken: 2, first: model.Distance8ft})...)

	policy := DefaultStatsPolicy()
	policy.ApproachMetrics = false
	stats := f.compute(policy)

	assert.Nil(t, stats.GIRApproachFt)
	assert.Nil(t, stats.NonGIRApproachDisplay)

	body, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "approach_display")
	assert.Contains(t, string(body), `"putts_per_round":36`)
}

func TestFeetDisplay(t *testing.T) {
	tests := []struct {
		feet float64
		want string
	}{
		{0, `0'0"`},
		{7.5, `7'6"`},
		{7.99, `8'0"`},
		{12.25, `12'3"`},
		{3.04, `3'0"`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FeetDisplay(tt.feet), "%v", tt.feet)
	}
}

func TestStatsService_Compute(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	rounds, holes, putts := store.repos()
	svc := NewStatsService(rounds, holes, putts, DefaultStatsPolicy())

	empty, err := svc.Compute(ctx)
	require.NoError(t, err)
	assert.Equal(t, EmptyStats(DefaultStatsPolicy()), empty)

	var f fixture
	f.addRound(repeat(18, holeSpec{gir: true, taken: 2, first: model.Distance15ft})...)
	require.NoError(t, rounds.Import(ctx, f.rounds[0], f.holes, f.putts))

	first, err := svc.Compute(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalRounds)
	assert.Equal(t, 36.0, first.PuttsPerRound)

	second, err := svc.Compute(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "computing twice over the same data is stable")
}
