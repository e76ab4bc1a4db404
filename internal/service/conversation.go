package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/repository"
)

var (
	// ErrNoSession means an event arrived for a user without live conversation
	// state, typically after a restart. The user has to start a new round.
	ErrNoSession = errors.New("no round in progress")

	ErrInvalidHoleCount = errors.New("hole count must be 9 or 18")
)

// State is the step of the round-logging conversation a session is in.
type State string

const (
	StateAwaitingHoleCount State = "awaiting_hole_count"
	StateAwaitingFirstPutt State = "awaiting_first_putt"
	StateAwaitingGIR       State = "awaiting_gir"
	StateAwaitingNextPutt  State = "awaiting_next_putt"
)

type EventKind int

const (
	EventHoleCountChosen EventKind = iota + 1
	EventDistanceChosen
	EventGIRChosen
	EventMadeIt
	EventCancel
)

func (k EventKind) String() string {
	switch k {
	case EventHoleCountChosen:
		return "hole_count"
	case EventDistanceChosen:
		return "distance"
	case EventGIRChosen:
		return "gir"
	case EventMadeIt:
		return "made_it"
	case EventCancel:
		return "cancel"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is one discrete user choice.
type Event struct {
	Kind      EventKind
	HoleCount int
	Distance  model.Distance
	GIR       bool
}

func HoleCountChosen(n int) Event {
	return Event{Kind: EventHoleCountChosen, HoleCount: n}
}

// DistanceChosen builds a distance event. The "0" label is the made-it
// sentinel and yields a MadeIt event.
func DistanceChosen(d model.Distance) Event {
	if d == model.DistanceMadeIt {
		return MadeIt()
	}
	return Event{Kind: EventDistanceChosen, Distance: d}
}

// ParseHoleCount converts a transport value into a hole count.
func ParseHoleCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || !model.ValidHoleCount(n) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHoleCount, raw)
	}
	return n, nil
}

func GIRChosen(gir bool) Event {
	return Event{Kind: EventGIRChosen, GIR: gir}
}

func MadeIt() Event {
	return Event{Kind: EventMadeIt}
}

func Cancel() Event {
	return Event{Kind: EventCancel}
}

// Keyboard identifies the set of choices to offer with a prompt.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardHoleCount
	KeyboardDistance
	KeyboardDistanceWithMadeIt
	KeyboardGIR
)

// Prompt is what the transport shows the user after a transition.
type Prompt struct {
	Text     string
	Keyboard Keyboard
	// Summary is set on the prompt that completes a round.
	Summary *RoundSummary
}

type RoundSummary struct {
	RoundID    string
	Holes      int
	TotalPutts int
}

// roundSession is the ephemeral per-user conversation state.
type roundSession struct {
	state      State
	roundID    string
	holeCount  int
	holeNumber int
	holeID     string // empty while no hole row is open
	puttNumber int
	totalPutts int
	firstPutt  model.Distance
	ended      bool
}

// sessionSlot serializes events for one user. Slots live for the process
// lifetime; session is nil when the user has no round in progress.
type sessionSlot struct {
	mu      sync.Mutex
	session *roundSession
}

type ConversationService struct {
	rounds repository.RoundRepository
	holes  repository.HoleRepository
	putts  repository.PuttRepository

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	slots map[string]*sessionSlot
}

func NewConversationService(
	rounds repository.RoundRepository,
	holes repository.HoleRepository,
	putts repository.PuttRepository,
) *ConversationService {
	return &ConversationService{
		rounds: rounds,
		holes:  holes,
		putts:  putts,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		slots:  make(map[string]*sessionSlot),
	}
}

func (s *ConversationService) slot(userID string, create bool) *sessionSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[userID]
	if !ok && create {
		sl = &sessionSlot{}
		s.slots[userID] = sl
	}
	return sl
}

// Start opens a conversation and asks for the number of holes. Starting while
// a round is already in progress is ignored.
func (s *ConversationService) Start(ctx context.Context, userID string) (*Prompt, error) {
	sl := s.slot(userID, true)
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session != nil {
		slog.Warn("conversation protocol violation",
			"user_id", userID, "state", sl.session.state, "event", "start")
		return nil, nil
	}

	sl.session = &roundSession{state: StateAwaitingHoleCount}
	return &Prompt{
		Text:     "New round! How many holes are you playing?",
		Keyboard: KeyboardHoleCount,
	}, nil
}

// State reports the conversation step for a user, false when idle.
func (s *ConversationService) State(userID string) (State, bool) {
	sl := s.slot(userID, false)
	if sl == nil {
		return "", false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session == nil {
		return "", false
	}
	return sl.session.state, true
}

// Handle applies one event to the user's conversation. Writes for the
// transition are committed before the returned prompt exists; on error the
// session is left exactly as it was. A nil prompt with nil error means the
// event was not valid in the current state and was ignored.
func (s *ConversationService) Handle(ctx context.Context, userID string, ev Event) (*Prompt, error) {
	sl := s.slot(userID, false)
	if sl == nil {
		return s.noSession(userID, ev)
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.session == nil {
		return s.noSession(userID, ev)
	}

	next := *sl.session
	prompt, err := s.apply(ctx, userID, &next, ev)
	if err != nil {
		return nil, err
	}
	if prompt == nil {
		slog.Warn("conversation protocol violation",
			"user_id", userID, "state", sl.session.state, "event", ev.Kind.String())
		return nil, nil
	}

	if next.ended {
		sl.session = nil
	} else {
		sl.session = &next
	}

	slog.Debug("conversation transition",
		"user_id", userID, "event", ev.Kind.String(), "state", next.state, "round_id", next.roundID)
	return prompt, nil
}

func (s *ConversationService) noSession(userID string, ev Event) (*Prompt, error) {
	if ev.Kind == EventCancel {
		return &Prompt{Text: "No round in progress."}, nil
	}
	slog.Warn("conversation event without session", "user_id", userID, "event", ev.Kind.String())
	return nil, ErrNoSession
}

func (s *ConversationService) apply(ctx context.Context, userID string, sess *roundSession, ev Event) (*Prompt, error) {
	if ev.Kind == EventCancel {
		return s.cancel(ctx, sess)
	}

	switch sess.state {
	case StateAwaitingHoleCount:
		if ev.Kind == EventHoleCountChosen && model.ValidHoleCount(ev.HoleCount) {
			return s.startRound(ctx, userID, sess, ev.HoleCount)
		}
	case StateAwaitingFirstPutt:
		if ev.Kind == EventDistanceChosen && ev.Distance.Valid() {
			return s.firstPutt(ctx, sess, ev.Distance)
		}
	case StateAwaitingGIR:
		if ev.Kind == EventGIRChosen {
			return s.gir(ctx, sess, ev.GIR)
		}
	case StateAwaitingNextPutt:
		if ev.Kind == EventMadeIt {
			return s.madeIt(ctx, sess)
		}
		if ev.Kind == EventDistanceChosen && ev.Distance.Valid() {
			return s.nextPutt(ctx, sess, ev.Distance)
		}
	}

	return nil, nil
}

func (s *ConversationService) startRound(ctx context.Context, userID string, sess *roundSession, holeCount int) (*Prompt, error) {
	now := s.now()
	y, m, d := now.Date()
	round := &model.Round{
		ID:             s.newID(),
		TelegramUserID: userID,
		Date:           time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		CreatedAt:      now.UTC(),
	}

	err := s.rounds.Create(ctx, round)
	if err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}

	sess.roundID = round.ID
	sess.holeCount = holeCount
	sess.holeNumber = 1
	sess.totalPutts = 0
	sess.state = StateAwaitingFirstPutt

	slog.Info("round started", "user_id", userID, "round_id", round.ID, "holes", holeCount)

	return &Prompt{
		Text:     fmt.Sprintf("Starting round! Hole 1 of %d.\n\nSelect 1st putt distance:", holeCount),
		Keyboard: KeyboardDistance,
	}, nil
}

func (s *ConversationService) firstPutt(ctx context.Context, sess *roundSession, d model.Distance) (*Prompt, error) {
	hole := &model.Hole{
		ID:         s.newID(),
		RoundID:    sess.roundID,
		HoleNumber: sess.holeNumber,
	}
	putt := &model.Putt{
		ID:         s.newID(),
		HoleID:     hole.ID,
		PuttNumber: 1,
		Distance:   d,
	}

	gimmie := d == model.DistanceGimmie
	if gimmie {
		hole.PuttsTaken = 1
	}

	err := s.holes.Create(ctx, hole, putt)
	if err != nil {
		return nil, fmt.Errorf("failed to create hole %d: %w", sess.holeNumber, err)
	}

	sess.holeID = hole.ID
	sess.puttNumber = 1
	sess.firstPutt = d
	sess.state = StateAwaitingGIR

	text := fmt.Sprintf("Hole %d: 1st putt from %s\n\nGreen in regulation?", sess.holeNumber, d)
	if gimmie {
		sess.totalPutts++
		text = fmt.Sprintf("Hole %d: Gimmie (1 putt)\n\nGreen in regulation?", sess.holeNumber)
	}

	return &Prompt{Text: text, Keyboard: KeyboardGIR}, nil
}

func (s *ConversationService) gir(ctx context.Context, sess *roundSession, gir bool) (*Prompt, error) {
	err := s.holes.SetGIR(ctx, sess.holeID, gir)
	if err != nil {
		return nil, fmt.Errorf("failed to set gir on hole %d: %w", sess.holeNumber, err)
	}

	if sess.firstPutt == model.DistanceGimmie {
		return s.advance(sess), nil
	}

	girText := "Non-GIR"
	if gir {
		girText = "GIR"
	}

	sess.puttNumber = 2
	sess.state = StateAwaitingNextPutt

	return &Prompt{
		Text: fmt.Sprintf("Hole %d (%s): 1st putt from %s\n\nSelect 2nd putt distance:",
			sess.holeNumber, girText, sess.firstPutt),
		Keyboard: KeyboardDistanceWithMadeIt,
	}, nil
}

// madeIt closes the hole: the putt before the current prompt dropped, so the
// hole took puttNumber-1 putts and no row is written for the holed putt.
func (s *ConversationService) madeIt(ctx context.Context, sess *roundSession) (*Prompt, error) {
	actual := sess.puttNumber - 1

	err := s.holes.Close(ctx, sess.holeID, actual)
	if err != nil {
		return nil, fmt.Errorf("failed to close hole %d: %w", sess.holeNumber, err)
	}

	sess.totalPutts += actual
	return s.advance(sess), nil
}

func (s *ConversationService) nextPutt(ctx context.Context, sess *roundSession, d model.Distance) (*Prompt, error) {
	putt := &model.Putt{
		ID:         s.newID(),
		HoleID:     sess.holeID,
		PuttNumber: sess.puttNumber,
		Distance:   d,
	}

	err := s.putts.Create(ctx, putt)
	if err != nil {
		return nil, fmt.Errorf("failed to record putt %d on hole %d: %w", sess.puttNumber, sess.holeNumber, err)
	}

	n := sess.puttNumber
	sess.puttNumber++

	return &Prompt{
		Text: fmt.Sprintf("Hole %d: Putt %d from %s\n\nSelect putt %d distance:",
			sess.holeNumber, n, d, n+1),
		Keyboard: KeyboardDistanceWithMadeIt,
	}, nil
}

// advance moves past a closed hole, finishing the round after the last one.
func (s *ConversationService) advance(sess *roundSession) *Prompt {
	closed := sess.holeNumber
	sess.holeID = ""
	sess.puttNumber = 0
	sess.firstPutt = ""

	if closed >= sess.holeCount {
		sess.ended = true
		slog.Info("round complete", "round_id", sess.roundID, "holes", sess.holeCount, "total_putts", sess.totalPutts)
		return &Prompt{
			Text: fmt.Sprintf("Round complete! %d total putts over %d holes.\n\nView your dashboard to see updated stats.",
				sess.totalPutts, sess.holeCount),
			Summary: &RoundSummary{
				RoundID:    sess.roundID,
				Holes:      sess.holeCount,
				TotalPutts: sess.totalPutts,
			},
		}
	}

	sess.holeNumber++
	sess.state = StateAwaitingFirstPutt

	return &Prompt{
		Text: fmt.Sprintf("Hole %d done. Total putts so far: %d\n\nHole %d of %d - Select 1st putt distance:",
			closed, sess.totalPutts, sess.holeNumber, sess.holeCount),
		Keyboard: KeyboardDistance,
	}
}

// cancel ends the conversation. Closed holes survive; the open hole is
// removed. A round with no closed hole is removed entirely.
func (s *ConversationService) cancel(ctx context.Context, sess *roundSession) (*Prompt, error) {
	text := "Round cancelled."

	switch {
	case sess.roundID == "":
		// still choosing the hole count, nothing written yet
	case sess.holeNumber > 1:
		if sess.holeID != "" {
			err := s.holes.Delete(ctx, sess.holeID)
			if err != nil && !errors.Is(err, repository.ErrHoleNotFound) {
				return nil, fmt.Errorf("failed to delete open hole %d: %w", sess.holeNumber, err)
			}
		}
		text = fmt.Sprintf("Round cancelled. %d completed holes saved.", sess.holeNumber-1)
	default:
		err := s.rounds.Delete(ctx, sess.roundID)
		if err != nil && !errors.Is(err, repository.ErrRoundNotFound) {
			return nil, fmt.Errorf("failed to delete round: %w", err)
		}
	}

	slog.Info("round cancelled", "round_id", sess.roundID, "hole", sess.holeNumber)
	sess.ended = true
	return &Prompt{Text: text}, nil
}
