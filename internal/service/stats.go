package service

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/repository"
)

// StatsPolicy selects which rounds count and how they are normalized.
type StatsPolicy struct {
	// AcceptedHoleCounts lists the hole counts of a complete round,
	// {18} or {9, 18}. Rounds with any other count are ignored.
	AcceptedHoleCounts []int
	// NormalizeNineHole doubles per-round quantities of 9-hole rounds.
	NormalizeNineHole bool
	// ApproachMetrics enables the GIR / non-GIR first putt distance averages.
	ApproachMetrics bool
}

func DefaultStatsPolicy() StatsPolicy {
	return StatsPolicy{
		AcceptedHoleCounts: []int{model.HolesFront, model.HolesFull},
		NormalizeNineHole:  true,
		ApproachMetrics:    true,
	}
}

// Make-percentage buckets shown as dashboard gauges.
var (
	bucket3ft    = []model.Distance{model.Distance3ft}
	bucket4To5ft = []model.Distance{model.Distance4ft, model.Distance5ft}
	bucket6To7ft = []model.Distance{model.Distance6ft, model.Distance7ft}
)

type StatsService struct {
	rounds repository.RoundRepository
	holes  repository.HoleRepository
	putts  repository.PuttRepository
	policy StatsPolicy
}

func NewStatsService(
	rounds repository.RoundRepository,
	holes repository.HoleRepository,
	putts repository.PuttRepository,
	policy StatsPolicy,
) *StatsService {
	return &StatsService{
		rounds: rounds,
		holes:  holes,
		putts:  putts,
		policy: policy,
	}
}

func (s *StatsService) Policy() StatsPolicy {
	return s.policy
}

// Compute scans every stored round and builds a fresh snapshot.
func (s *StatsService) Compute(ctx context.Context) (*model.Stats, error) {
	rounds, err := s.rounds.Rounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	if len(rounds) == 0 {
		return EmptyStats(s.policy), nil
	}

	holes, err := s.holes.Holes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holes: %w", err)
	}

	putts, err := s.putts.Putts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load putts: %w", err)
	}

	return ComputeStats(rounds, holes, putts, s.policy), nil
}

// EmptyStats is the snapshot served before any qualifying round exists.
func EmptyStats(policy StatsPolicy) *model.Stats {
	stats := &model.Stats{
		FirstPuttStats:  emptyMakeTable(),
		SecondPuttStats: emptyMakeTable(),
		Goals:           model.DefaultGoals,
	}
	if policy.ApproachMetrics {
		setApproach(stats, 0, 0)
	}
	return stats
}

func emptyMakeTable() model.MakeTable {
	table := make(model.MakeTable, len(model.Distances))
	for _, d := range model.Distances {
		table[d] = model.MakeStat{}
	}
	return table
}

type tally struct {
	attempts int
	makes    int
}

func (t tally) pct() float64 {
	if t.attempts == 0 {
		return 0
	}
	return float64(t.makes) / float64(t.attempts) * 100
}

// ComputeStats is the pure aggregation over already loaded rows.
func ComputeStats(rounds []*model.Round, holes []*model.Hole, putts []*model.Putt, policy StatsPolicy) *model.Stats {
	holesByRound := make(map[string][]*model.Hole)
	for _, h := range holes {
		holesByRound[h.RoundID] = append(holesByRound[h.RoundID], h)
	}

	var complete []*model.Round
	for _, r := range rounds {
		if slices.Contains(policy.AcceptedHoleCounts, len(holesByRound[r.ID])) {
			complete = append(complete, r)
		}
	}
	if len(complete) == 0 {
		return EmptyStats(policy)
	}

	puttsByHole := make(map[string][]*model.Putt)
	for _, p := range putts {
		puttsByHole[p.HoleID] = append(puttsByHole[p.HoleID], p)
	}
	firstPutt := func(holeID string) (model.Distance, bool) {
		hp := puttsByHole[holeID]
		if len(hp) == 0 {
			return "", false
		}
		first := hp[0]
		for _, p := range hp[1:] {
			if p.PuttNumber < first.PuttNumber {
				first = p
			}
		}
		return first.Distance, true
	}

	var (
		puttTotal    float64
		sgTotal      float64
		nonGIR       tally // attempts = non-GIR holes, makes = one-putts
		girFeet      []float64
		nonGIRFeet   []float64
		firstByDist  = make(map[model.Distance]tally)
		secondByDist = make(map[model.Distance]tally)
	)

	for _, r := range complete {
		roundHoles := holesByRound[r.ID]
		factor := 1.0
		if policy.NormalizeNineHole && len(roundHoles) == model.HolesFront {
			factor = 2
		}

		roundPutts := 0
		roundSG := 0.0
		for _, h := range roundHoles {
			roundPutts += h.PuttsTaken

			if !h.GIR {
				nonGIR.attempts++
				if h.PuttsTaken == 1 {
					nonGIR.makes++
				}
			}

			// Distance based metrics need the first putt row.
			first, ok := firstPutt(h.ID)
			if !ok {
				continue
			}

			roundSG += first.Baseline() - float64(h.PuttsTaken)

			if feet, known := first.Feet(); known {
				if h.GIR {
					girFeet = append(girFeet, feet)
				} else {
					nonGIRFeet = append(nonGIRFeet, feet)
				}
			}

			t := firstByDist[first]
			t.attempts++
			if h.PuttsTaken == 1 {
				t.makes++
			}
			firstByDist[first] = t

			if h.PuttsTaken >= 2 {
				t2 := secondByDist[first]
				t2.attempts++
				if h.PuttsTaken == 2 {
					t2.makes++
				}
				secondByDist[first] = t2
			}
		}

		puttTotal += float64(roundPutts) * factor
		sgTotal += roundSG * factor
	}

	n := float64(len(complete))
	stats := &model.Stats{
		TotalRounds:     len(complete),
		PuttsPerRound:   round1(puttTotal / n),
		UpAndDownPct:    round1(nonGIR.pct()),
		SGPutting:       round2(sgTotal / n),
		MakePct3ft:      round1(bucketPct(firstByDist, bucket3ft)),
		MakePct4To5ft:   round1(bucketPct(firstByDist, bucket4To5ft)),
		MakePct6To7ft:   round1(bucketPct(firstByDist, bucket6To7ft)),
		FirstPuttStats:  makeTable(firstByDist),
		SecondPuttStats: makeTable(secondByDist),
		Goals:           model.DefaultGoals,
	}

	if policy.ApproachMetrics {
		setApproach(stats, mean(girFeet), mean(nonGIRFeet))
	}

	return stats
}

func makeTable(byDist map[model.Distance]tally) model.MakeTable {
	table := emptyMakeTable()
	for _, d := range model.Distances {
		t := byDist[d]
		table[d] = model.MakeStat{
			Attempts: t.attempts,
			Makes:    t.makes,
			Pct:      round1(t.pct()),
		}
	}
	return table
}

func bucketPct(byDist map[model.Distance]tally, bucket []model.Distance) float64 {
	var sum tally
	for _, d := range bucket {
		sum.attempts += byDist[d].attempts
		sum.makes += byDist[d].makes
	}
	return sum.pct()
}

func setApproach(stats *model.Stats, girFt, nonGIRFt float64) {
	gir := round2(girFt)
	girDisplay := FeetDisplay(girFt)
	nonGIR := round2(nonGIRFt)
	nonGIRDisplay := FeetDisplay(nonGIRFt)

	stats.GIRApproachFt = &gir
	stats.GIRApproachDisplay = &girDisplay
	stats.NonGIRApproachFt = &nonGIR
	stats.NonGIRApproachDisplay = &nonGIRDisplay
}

// FeetDisplay renders feet as feet and inches, e.g. 7.5 -> 7'6".
// Inches that round up to 12 carry into the next foot.
func FeetDisplay(feet float64) string {
	ft := int(feet)
	inches := int(math.Round((feet - float64(ft)) * 12))
	if inches == 12 {
		ft++
		inches = 0
	}
	return fmt.Sprintf("%d'%d\"", ft, inches)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
