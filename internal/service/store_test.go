package service

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/repository"
)

// memStore is an in-memory stand-in for the SQL repositories. Setting
// failWrites makes every mutating call fail with that error.
type memStore struct {
	mu         sync.Mutex
	rounds     map[string]*model.Round
	holes      map[string]*model.Hole
	putts      map[string]*model.Putt
	failWrites error
}

func newMemStore() *memStore {
	return &memStore{
		rounds: make(map[string]*model.Round),
		holes:  make(map[string]*model.Hole),
		putts:  make(map[string]*model.Putt),
	}
}

func (m *memStore) repos() (repository.RoundRepository, repository.HoleRepository, repository.PuttRepository) {
	return memRounds{m}, memHoles{m}, memPutts{m}
}

func (m *memStore) setFailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrites = err
}

func (m *memStore) holesOf(roundID string) []*model.Hole {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Hole
	for _, h := range m.holes {
		if h.RoundID == roundID {
			c := *h
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *model.Hole) int { return cmp.Compare(a.HoleNumber, b.HoleNumber) })
	return out
}

func (m *memStore) puttsOf(holeID string) []*model.Putt {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Putt
	for _, p := range m.putts {
		if p.HoleID == holeID {
			c := *p
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *model.Putt) int { return cmp.Compare(a.PuttNumber, b.PuttNumber) })
	return out
}

func (m *memStore) roundCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rounds)
}

func (m *memStore) puttCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.putts)
}

func (m *memStore) deleteHoleLocked(holeID string) {
	for id, p := range m.putts {
		if p.HoleID == holeID {
			delete(m.putts, id)
		}
	}
	delete(m.holes, holeID)
}

func (m *memStore) deleteRoundLocked(roundID string) {
	for id, h := range m.holes {
		if h.RoundID == roundID {
			m.deleteHoleLocked(id)
		}
	}
	delete(m.rounds, roundID)
}

type memRounds struct{ m *memStore }

func (r memRounds) Create(_ context.Context, round *model.Round) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWrites != nil {
		return r.m.failWrites
	}
	c := *round
	r.m.rounds[round.ID] = &c
	return nil
}

func (r memRounds) Import(_ context.Context, round *model.Round, holes []*model.Hole, putts []*model.Putt) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWrites != nil {
		return r.m.failWrites
	}
	c := *round
	r.m.rounds[round.ID] = &c
	for _, h := range holes {
		hc := *h
		r.m.holes[h.ID] = &hc
	}
	for _, p := range putts {
		pc := *p
		r.m.putts[p.ID] = &pc
	}
	return nil
}

func (r memRounds) ByID(_ context.Context, roundID string) (*model.Round, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	round, ok := r.m.rounds[roundID]
	if !ok {
		return nil, repository.ErrRoundNotFound
	}
	c := *round
	return &c, nil
}

func (r memRounds) Rounds(_ context.Context) ([]*model.Round, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*model.Round
	for _, round := range r.m.rounds {
		c := *round
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *model.Round) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (r memRounds) Delete(_ context.Context, roundID string) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWrites != nil {
		return r.m.failWrites
	}
	if _, ok := r.m.rounds[roundID]; !ok {
		return repository.ErrRoundNotFound
	}
	r.m.deleteRoundLocked(roundID)
	return nil
}

func (r memRounds) DeleteSeed(_ context.Context) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.failWrites != nil {
		return 0, r.m.failWrites
	}
	n := 0
	for id, round := range r.m.rounds {
		if round.IsSeed {
			r.m.deleteRoundLocked(id)
			n++
		}
	}
	return n, nil
}

type memHoles struct{ m *memStore }

func (h memHoles) Create(_ context.Context, hole *model.Hole, first *model.Putt) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.m.failWrites != nil {
		return h.m.failWrites
	}
	c := *hole
	h.m.holes[hole.ID] = &c
	if first != nil {
		pc := *first
		h.m.putts[first.ID] = &pc
	}
	return nil
}

func (h memHoles) SetGIR(_ context.Context, holeID string, gir bool) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.m.failWrites != nil {
		return h.m.failWrites
	}
	hole, ok := h.m.holes[holeID]
	if !ok {
		return repository.ErrHoleNotFound
	}
	hole.GIR = gir
	return nil
}

func (h memHoles) Close(_ context.Context, holeID string, puttsTaken int) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.m.failWrites != nil {
		return h.m.failWrites
	}
	hole, ok := h.m.holes[holeID]
	if !ok {
		return repository.ErrHoleNotFound
	}
	hole.PuttsTaken = puttsTaken
	return nil
}

func (h memHoles) Delete(_ context.Context, holeID string) error {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if h.m.failWrites != nil {
		return h.m.failWrites
	}
	if _, ok := h.m.holes[holeID]; !ok {
		return repository.ErrHoleNotFound
	}
	h.m.deleteHoleLocked(holeID)
	return nil
}

func (h memHoles) ByRound(_ context.Context, roundID string) ([]*model.Hole, error) {
	return h.m.holesOf(roundID), nil
}

func (h memHoles) Holes(_ context.Context) ([]*model.Hole, error) {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	var out []*model.Hole
	for _, hole := range h.m.holes {
		c := *hole
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *model.Hole) int {
		return cmp.Or(cmp.Compare(a.RoundID, b.RoundID), cmp.Compare(a.HoleNumber, b.HoleNumber))
	})
	return out, nil
}

type memPutts struct{ m *memStore }

func (p memPutts) Create(_ context.Context, putt *model.Putt) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	if p.m.failWrites != nil {
		return p.m.failWrites
	}
	c := *putt
	p.m.putts[putt.ID] = &c
	return nil
}

func (p memPutts) ByHole(_ context.Context, holeID string) ([]*model.Putt, error) {
	return p.m.puttsOf(holeID), nil
}

func (p memPutts) Putts(_ context.Context) ([]*model.Putt, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []*model.Putt
	for _, putt := range p.m.putts {
		c := *putt
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *model.Putt) int {
		return cmp.Or(cmp.Compare(a.HoleID, b.HoleID), cmp.Compare(a.PuttNumber, b.PuttNumber))
	})
	return out, nil
}
