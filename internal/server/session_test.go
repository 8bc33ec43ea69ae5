package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JFrunk/bridge-bidding-app-sub011/internal/ai"
	"github.com/JFrunk/bridge-bidding-app-sub011/internal/engine"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m := NewManager(ttl, zap.NewNop())
	t.Cleanup(m.Close)
	return m
}

func startedSession(t *testing.T, m *Manager, declarer engine.Position) *Session {
	t.Helper()
	s := m.Create(engine.South, ai.NewBeginner(1))
	contract := engine.Contract{Level: 3, Strain: engine.StrainNoTrump, Declarer: declarer}
	if _, err := s.StartPlay(nil, &contract, engine.VulnNone, 5); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return s
}

func TestStartPlayFromAuction(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := m.Create(engine.South, ai.NewBeginner(1))
	auction := engine.Auction{
		Dealer: engine.South,
		Calls: []engine.Call{
			{Type: engine.CallBid, Level: 1, Strain: engine.StrainNoTrump},
			{Type: engine.CallPass},
			{Type: engine.CallBid, Level: 3, Strain: engine.StrainNoTrump},
			{Type: engine.CallPass},
			{Type: engine.CallPass},
			{Type: engine.CallPass},
		},
	}
	res, err := s.StartPlay(&auction, nil, engine.VulnNone, 1)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if res.Contract.Declarer != engine.South {
		t.Fatalf("expected declarer S, got %s", res.Contract.Declarer)
	}
	if res.OpeningLeader != engine.West {
		t.Fatalf("expected opening leader W, got %s", res.OpeningLeader)
	}
}

func TestStartPlayAllPassFails(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := m.Create(engine.South, ai.NewBeginner(1))
	auction := engine.Auction{
		Dealer: engine.North,
		Calls:  []engine.Call{{Type: engine.CallPass}, {Type: engine.CallPass}, {Type: engine.CallPass}, {Type: engine.CallPass}},
	}
	if _, err := s.StartPlay(&auction, nil, engine.VulnNone, 1); !errors.Is(err, engine.ErrMalformedAuction) {
		t.Fatalf("expected ErrMalformedAuction, got %v", err)
	}
}

func TestAIPlayRejectsHumanSeat(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East) // human South defends
	if _, _, err := s.AIPlay(context.Background(), engine.South); !errors.Is(err, ErrNotAISeat) {
		t.Fatalf("expected ErrNotAISeat, got %v", err)
	}
}

func TestAIPlayRejectsDummyWhenHumanDeclares(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.South) // human declares; North is dummy
	// West has the opening lead first.
	if _, _, err := s.AIPlay(context.Background(), engine.West); err != nil {
		t.Fatalf("lead failed: %v", err)
	}
	if _, _, err := s.AIPlay(context.Background(), engine.North); !errors.Is(err, ErrNotAISeat) {
		t.Fatalf("expected ErrNotAISeat for dummy, got %v", err)
	}
}

func TestHumanDirectsDeclarerFromDummySeat(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.North) // human South is dummy
	// East leads against North's contract.
	if _, _, err := s.AIPlay(context.Background(), engine.East); err != nil {
		t.Fatalf("lead failed: %v", err)
	}
	// Declarer (North) is human-directed, not an AI seat.
	if _, _, err := s.AIPlay(context.Background(), engine.North); !errors.Is(err, ErrNotAISeat) {
		t.Fatalf("expected ErrNotAISeat for declarer, got %v", err)
	}
}

func TestPlayCardRejectsAISeat(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East)
	if _, err := s.PlayCard(engine.West, engine.Card{Suit: engine.SuitClubs, Rank: engine.Rank2}); !errors.Is(err, ErrNotYourSeat) {
		t.Fatalf("expected ErrNotYourSeat, got %v", err)
	}
}

func TestSnapshotHidesHandsUntilRevealed(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East) // dummy is West, human South defends
	view, err := s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	for _, seat := range view.Seats {
		visible := len(seat.Hand) > 0
		if seat.Position == "S" && !visible {
			t.Fatalf("human hand must be visible")
		}
		if seat.Position != "S" && visible {
			t.Fatalf("seat %s visible before opening lead", seat.Position)
		}
		if seat.HandCount != 13 {
			t.Fatalf("seat %s: expected 13 cards, got %d", seat.Position, seat.HandCount)
		}
	}

	// Human South holds the opening lead against East.
	legal := view.LegalMoves
	if len(legal) != 13 {
		t.Fatalf("expected 13 legal opening leads, got %d", len(legal))
	}
	card, err := parseCard(legal[0])
	if err != nil {
		t.Fatalf("bad legal move %q: %v", legal[0], err)
	}
	if _, err := s.PlayCard(engine.South, card); err != nil {
		t.Fatalf("lead failed: %v", err)
	}
	view, err = s.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	if !view.DummyRevealed {
		t.Fatalf("dummy not revealed after opening lead")
	}
	for _, seat := range view.Seats {
		if seat.Position == "W" && len(seat.Hand) == 0 {
			t.Fatalf("dummy hand must be visible after opening lead")
		}
		if seat.Position == "E" && len(seat.Hand) != 0 {
			t.Fatalf("declarer hand must stay hidden from a defender")
		}
	}
}

func TestCompletePlayBeforeHandCompleteFails(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East)
	if _, err := s.CompletePlay(nil); !errors.Is(err, engine.ErrHandNotComplete) {
		t.Fatalf("expected ErrHandNotComplete, got %v", err)
	}
}

func TestFullHandThroughSession(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East)
	playOutSession(t, s)
	score, err := s.CompletePlay(nil)
	if err != nil {
		t.Fatalf("scoring failed: %v", err)
	}
	again, err := s.CompletePlay(nil)
	if err != nil || score != again {
		t.Fatalf("score must be reproducible: %v vs %v (%v)", score, again, err)
	}
}

func playOutSession(t *testing.T, s *Session) {
	t.Helper()
	for played := 0; played < 52; played++ {
		pos := s.state.NextToPlay
		if s.humanControls(pos) {
			legal := engine.LegalMoves(s.state.Hands[pos], s.state.CurrentTrick)
			if _, err := s.PlayCard(pos, legal[0]); err != nil {
				t.Fatalf("human play failed: %v", err)
			}
		} else {
			if _, _, err := s.AIPlay(context.Background(), pos); err != nil {
				t.Fatalf("ai play failed: %v", err)
			}
		}
	}
}

func TestAIPlayAfterHandCompleteFails(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East)
	playOutSession(t, s)
	// West is an AI seat with nothing left to play.
	if _, _, err := s.AIPlay(context.Background(), engine.West); !errors.Is(err, engine.ErrHandComplete) {
		t.Fatalf("expected ErrHandComplete, got %v", err)
	}
}

// overlapSink records whether two writers ever entered WriteJSON at the
// same time.
type overlapSink struct {
	active   int32
	overlaps int32
}

func (o *overlapSink) WriteJSON(interface{}) error {
	if atomic.AddInt32(&o.active, 1) > 1 {
		atomic.AddInt32(&o.overlaps, 1)
	}
	time.Sleep(100 * time.Microsecond)
	atomic.AddInt32(&o.active, -1)
	return nil
}

func TestSocketWritesSerialized(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East)
	sink := &overlapSink{}
	s.attach(sink)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.sendSnapshot()
		}
	}()
	go func() {
		defer wg.Done()
		for played := 0; played < 40; {
			view, err := s.Snapshot()
			if err != nil {
				t.Errorf("snapshot failed: %v", err)
				return
			}
			if view.HandComplete {
				return
			}
			pos, err := parsePosition(view.NextToPlay)
			if err != nil {
				t.Errorf("bad seat %q: %v", view.NextToPlay, err)
				return
			}
			if pos == engine.South {
				card, err := parseCard(view.LegalMoves[0])
				if err != nil {
					t.Errorf("bad legal move: %v", err)
					return
				}
				if _, err := s.PlayCard(pos, card); err == nil {
					played++
				}
			} else if _, _, err := s.AIPlay(context.Background(), pos); err == nil {
				played++
			}
		}
	}()
	wg.Wait()
	if n := atomic.LoadInt32(&sink.overlaps); n != 0 {
		t.Fatalf("socket writes overlapped %d times", n)
	}
}

func TestReapDoesNotBlockLookups(t *testing.T) {
	m := newTestManager(t, time.Minute)
	busy := m.Create(engine.South, ai.NewBeginner(1))
	other := m.Create(engine.South, ai.NewBeginner(2))

	// Simulate a session stuck in a long AI turn.
	busy.mu.Lock()
	reaped := make(chan struct{})
	go func() {
		m.reap(time.Now())
		close(reaped)
	}()
	time.Sleep(10 * time.Millisecond)

	got := make(chan error, 1)
	go func() {
		_, err := m.Get(other.ID())
		got <- err
	}()
	select {
	case err := <-got:
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("lookup blocked behind a busy session during reap")
	}
	busy.mu.Unlock()
	<-reaped
}

func TestClearTrickIdempotentAtSessionLevel(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := startedSession(t, m, engine.East)
	v1, err := s.ClearTrick()
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	v2, err := s.ClearTrick()
	if err != nil {
		t.Fatalf("second clear failed: %v", err)
	}
	if len(v1.CurrentTrick) != len(v2.CurrentTrick) || v1.TricksPlayed != v2.TricksPlayed {
		t.Fatalf("repeated clear changed observable state")
	}
}

func TestSessionIsolation(t *testing.T) {
	m := newTestManager(t, time.Minute)
	a := startedSession(t, m, engine.East)
	b := startedSession(t, m, engine.East)
	if _, _, err := a.AIPlay(context.Background(), a.state.NextToPlay); err != nil {
		t.Fatalf("play on session a failed: %v", err)
	}
	if len(b.state.CurrentTrick) != 0 || len(b.state.Hands[engine.West]) != 13 {
		t.Fatalf("play on one session leaked into another")
	}
}

func TestSessionExpiry(t *testing.T) {
	m := newTestManager(t, 10*time.Millisecond)
	s := m.Create(engine.South, ai.NewBeginner(1))
	id := s.ID()
	if _, err := m.Get(id); err != nil {
		t.Fatalf("fresh session missing: %v", err)
	}
	m.reap(time.Now().Add(time.Second))
	if _, err := m.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after expiry, got %v", err)
	}
}
