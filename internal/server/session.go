package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/ai"
	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

var (
	ErrNoActiveHand = errors.New("no hand in play")
	ErrNotAISeat    = errors.New("seat is controlled by the human")
	ErrNotYourSeat  = errors.New("seat is not controlled by the human")
)

// Session owns one hand's PlayState. Every operation takes the session
// mutex, so plays on the same session are strictly serialized while
// different sessions proceed in parallel.
type Session struct {
	mu         sync.Mutex
	id         string
	log        *zap.Logger
	human      engine.Position
	strategy   ai.Strategy
	state      *engine.PlayState
	vuln       engine.Vulnerability
	lastActive time.Time
	conn       stateSink
}

// stateSink receives state pushes for an attached client. Satisfied by
// *websocket.Conn via wsSink.
type stateSink interface {
	WriteJSON(v interface{}) error
}

func newSession(id string, human engine.Position, strategy ai.Strategy, log *zap.Logger) *Session {
	return &Session{
		id:         id,
		log:        log,
		human:      human,
		strategy:   strategy,
		lastActive: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// StartResult reports the derived contract and the opening leader.
type StartResult struct {
	Contract      engine.Contract
	OpeningLeader engine.Position
}

// StartPlay derives the contract from a finished auction and deals a
// fresh hand. A nil auction is practice mode: the caller supplies the
// contract directly.
func (s *Session) StartPlay(auction *engine.Auction, contract *engine.Contract, vuln engine.Vulnerability, seed int64) (StartResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var c engine.Contract
	switch {
	case auction != nil:
		derived, err := engine.DetermineContract(*auction)
		if err != nil {
			return StartResult{}, err
		}
		c = derived
	case contract != nil:
		c = *contract
	default:
		return StartResult{}, fmt.Errorf("%w: auction or contract required", engine.ErrMalformedAuction)
	}

	s.state = engine.NewPlayState(c, engine.DealHands(seed))
	s.vuln = vuln
	s.log.Info("hand started",
		zap.String("session", s.id),
		zap.String("contract", c.String()),
		zap.String("leader", s.state.NextToPlay.String()))
	return StartResult{Contract: c, OpeningLeader: s.state.NextToPlay}, nil
}

// PlayCard plays for a human-controlled seat.
func (s *Session) PlayCard(pos engine.Position, card engine.Card) (engine.PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state == nil {
		return engine.PlayResult{}, ErrNoActiveHand
	}
	if !s.humanControls(pos) {
		return engine.PlayResult{}, fmt.Errorf("%w: %s", ErrNotYourSeat, pos)
	}
	prev := s.state.Clone()
	res, err := s.state.PlayCard(pos, card)
	if err != nil {
		return engine.PlayResult{}, err
	}
	s.pushLocked(buildEvents(prev, s.state, pos, card))
	return res, nil
}

// AIPlay selects and applies a card for a computer seat. Strategy
// failures never surface: the selection always lands on a legal card.
func (s *Session) AIPlay(ctx context.Context, pos engine.Position) (engine.Card, engine.PlayResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state == nil {
		return engine.Card{}, engine.PlayResult{}, ErrNoActiveHand
	}
	if s.state.HandComplete() {
		// Strategies assume a live hand; reject before selection runs.
		return engine.Card{}, engine.PlayResult{}, engine.ErrHandComplete
	}
	if s.humanControls(pos) {
		return engine.Card{}, engine.PlayResult{}, fmt.Errorf("%w: %s", ErrNotAISeat, pos)
	}
	if pos != s.state.NextToPlay {
		return engine.Card{}, engine.PlayResult{}, fmt.Errorf("%w: %s to play", engine.ErrOutOfTurn, s.state.NextToPlay)
	}
	prev := s.state.Clone()
	card := s.strategy.ChooseCard(ctx, s.state, pos)
	res, err := s.state.PlayCard(pos, card)
	if err != nil {
		// Strategies only return legal cards; treat anything else as a bug.
		s.log.Error("ai returned unplayable card",
			zap.String("session", s.id),
			zap.String("card", card.String()),
			zap.Error(err))
		return engine.Card{}, engine.PlayResult{}, err
	}
	s.pushLocked(buildEvents(prev, s.state, pos, card))
	return card, res, nil
}

// ClearTrick is idempotent and safe to call speculatively.
func (s *Session) ClearTrick() (*PlayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state == nil {
		return nil, ErrNoActiveHand
	}
	s.state.ClearTrick()
	return s.viewLocked(), nil
}

// Snapshot returns the state filtered for the human viewer.
func (s *Session) Snapshot() (*PlayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state == nil {
		return nil, ErrNoActiveHand
	}
	return s.viewLocked(), nil
}

// CompletePlay scores the finished hand. Valid only once all 13 tricks
// are in. A non-nil vuln overrides the vulnerability given at start.
func (s *Session) CompletePlay(vuln *engine.Vulnerability) (engine.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state == nil {
		return engine.Score{}, ErrNoActiveHand
	}
	if !s.state.HandComplete() {
		return engine.Score{}, engine.ErrHandNotComplete
	}
	v := s.vuln
	if vuln != nil {
		v = *vuln
	}
	score := engine.ComputeScore(s.state.Contract, s.state.DeclarerTricks(), v)
	s.log.Info("hand scored",
		zap.String("session", s.id),
		zap.String("result", score.Result),
		zap.Int("points", score.Points))
	return score, nil
}

// humanControls covers the dummy arrangement: the human plays their own
// seat, plays dummy's cards when declaring, and directs declarer when
// seated at dummy.
func (s *Session) humanControls(pos engine.Position) bool {
	if pos == s.human {
		return true
	}
	declarer := s.state.Contract.Declarer
	if s.human == declarer && pos == s.state.Dummy() {
		return true
	}
	if s.human == s.state.Dummy() && pos == declarer {
		return true
	}
	return false
}

func (s *Session) viewLocked() *PlayView {
	return BuildPlayView(s.state, s.human, !s.state.HandComplete() && s.humanControls(s.state.NextToPlay))
}

func (s *Session) touch() {
	s.lastActive = time.Now()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActive)
}

func (s *Session) attach(conn stateSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
	s.pushLocked(nil)
}

func (s *Session) pushLocked(events []Event) {
	if s.state == nil {
		return
	}
	s.writeLocked(ServerMessage{
		Type:   "state",
		State:  s.viewLocked(),
		Events: events,
	})
}

// writeLocked is the only path to the attached socket. Holding the
// session mutex here serializes REST-triggered pushes against socket
// replies; gorilla conns do not tolerate concurrent writers.
func (s *Session) writeLocked(msg ServerMessage) {
	if s.conn == nil {
		return
	}
	if err := s.conn.WriteJSON(msg); err != nil {
		s.log.Debug("state push failed", zap.String("session", s.id), zap.Error(err))
		s.conn = nil
	}
}

// sendSnapshot answers a client state poll over the socket.
func (s *Session) sendSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state == nil {
		s.writeLocked(errorMessage("no_active_hand", ErrNoActiveHand.Error()))
		return
	}
	s.pushLocked(nil)
}

// clearTrickAndSend handles a clear_trick socket request.
func (s *Session) clearTrickAndSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	if s.state == nil {
		s.writeLocked(errorMessage("no_active_hand", ErrNoActiveHand.Error()))
		return
	}
	s.state.ClearTrick()
	s.pushLocked(nil)
}

func (s *Session) sendError(code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeLocked(errorMessage(code, message))
}

func errorMessage(code, message string) ServerMessage {
	return ServerMessage{Type: "error", Error: &ErrorView{Code: code, Message: message}}
}
