package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/spiketrade/spiketrade/feed"
	"github.com/spiketrade/spiketrade/journal"
	"github.com/spiketrade/spiketrade/ledger"
)

// State is the round controller state machine.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateSettled    State = "settled"
	StateWipedOut   State = "wiped_out"
)

// Mode selects how capital moves between rounds.
type Mode string

const (
	// ModeClassic resets capital every round; each settlement posts a score.
	ModeClassic Mode = "classic"
	// ModeSurvival chains a fixed number of rounds, carrying equity forward;
	// only the final settlement posts a score and any wipe-out ends the run.
	ModeSurvival Mode = "survival"
)

// ErrNotRunning rejects actions outside the RUNNING state.
var ErrNotRunning = errors.New("session is not in a running round")

// Options are the fixed parameters of a session.
type Options struct {
	StartingCash     float64
	FeeRate          float64
	SurvivalRounds   int
	AutoplayInterval time.Duration
}

// Session owns one player's game: the current round, the state machine and
// the autoplay timer. Every mutation serializes through the session mutex,
// so the timer can never race a manual advance or trade.
type Session struct {
	mu sync.Mutex

	id       string
	nickname string
	mode     Mode
	state    State
	opts     Options

	exec    *ledger.Executor
	picker  *feed.Picker
	journal journal.Journal
	log     logrus.FieldLogger

	round      *Round
	roundNum   int
	scoreTotal float64
	runReturns []float64

	autoplayCancel context.CancelFunc
}

// NewSession creates an idle session.
func NewSession(picker *feed.Picker, j journal.Journal, opts Options) *Session {
	if opts.AutoplayInterval <= 0 {
		opts.AutoplayInterval = 500 * time.Millisecond
	}
	if opts.SurvivalRounds <= 0 {
		opts.SurvivalRounds = 3
	}
	id := ulid.Make().String()
	return &Session{
		id:      id,
		state:   StateNotStarted,
		opts:    opts,
		exec:    ledger.NewExecutor(opts.FeeRate),
		picker:  picker,
		journal: j,
		log:     logrus.WithField("session", id),
	}
}

func (s *Session) ID() string { return s.id }

// Start begins a fresh run. Allowed from any terminal state; an explicit
// restart is the only way out of WIPED_OUT.
func (s *Session) Start(ctx context.Context, nickname string, mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRunning {
		return fmt.Errorf("session already running")
	}
	if mode != ModeSurvival {
		mode = ModeClassic
	}

	s.nickname = nickname
	s.mode = mode
	s.roundNum = 0
	s.scoreTotal = 0
	s.runReturns = nil

	if err := s.newRoundLocked(ctx, s.opts.StartingCash); err != nil {
		s.state = StateNotStarted
		return err
	}
	s.state = StateRunning
	s.log.WithFields(logrus.Fields{
		"nickname": nickname,
		"mode":     mode,
		"label":    s.round.Label,
	}).Info("round started")
	return nil
}

// newRoundLocked obtains a playable dataset and installs a fresh round funded
// with cash. Fails with feed.ErrUnavailable when the feed is exhausted.
func (s *Session) newRoundLocked(ctx context.Context, cash float64) error {
	pick, err := s.picker.PickRound(ctx)
	if err != nil {
		return fmt.Errorf("start round: %w", err)
	}
	s.roundNum++
	s.round = &Round{
		ID:     ulid.Make().String(),
		Symbol: pick.Symbol,
		Name:   pick.Name,
		Label:  maskName(pick.Name),
		Bars:   pick.Bars,
		Series: pick.Series,
		Step:   pick.Start,
		Ledger: ledger.New(cash),
	}
	return nil
}

// Trade executes a player order at the current bar's close. A reversal that
// fails on cash still reports the error after its covering leg applied.
func (s *Session) Trade(side ledger.Side, qty int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return ErrNotRunning
	}

	bar := s.round.Current()
	err := s.exec.Execute(s.round.Ledger, ledger.Order{
		Side:     side,
		Price:    bar.Close,
		Quantity: qty,
		BarIndex: bar.Index,
		Time:     bar.Time,
	})
	if err != nil && !errors.Is(err, ledger.ErrReversalFunds) {
		return err
	}

	if ledger.WipedOut(s.round.Ledger, bar.Close) {
		s.wipeOutLocked(bar.Close)
	}
	return err
}

// Advance moves the round cursor forward one bar. At the last bar it stops
// autoplay and does nothing else; it never errors.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return
	}
	if s.round.AtEnd() {
		s.stopAutoplayLocked()
		return
	}
	s.round.Advance()

	price := s.round.Price()
	if ledger.WipedOut(s.round.Ledger, price) {
		s.wipeOutLocked(price)
		return
	}
	if s.round.AtEnd() {
		s.stopAutoplayLocked()
	}
}

// Settle closes the current round at the current price, posts scores, and
// either rolls into the next round or finishes the run.
func (s *Session) Settle(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning {
		return ErrNotRunning
	}
	s.stopAutoplayLocked()

	v := ledger.Value(s.round.Ledger, s.round.Price())
	rec := buildScore(s.nickname, s.round, v, s.round.Ledger.StartingCash)
	s.log.WithFields(logrus.Fields{
		"round":  s.roundNum,
		"symbol": s.round.Symbol,
		"equity": v.Equity,
		"roi":    v.ROIPercent,
	}).Info("round settled")

	if s.mode == ModeSurvival {
		s.scoreTotal += rec.Score
		s.runReturns = append(s.runReturns, s.round.Ledger.Returns...)

		if s.roundNum < s.opts.SurvivalRounds {
			// Carry the whole equity into the next round.
			if err := s.newRoundLocked(ctx, v.Equity); err != nil {
				s.state = StateNotStarted
				return err
			}
			return nil
		}

		final := rec
		final.Score = s.scoreTotal
		final.AvgReturnPct = avgReturn(s.runReturns)
		final.FinalEquity = v.Equity
		final.Profit = v.Equity - s.opts.StartingCash
		final.ROIPercent = 0
		if s.opts.StartingCash > 0 {
			final.ROIPercent = (v.Equity - s.opts.StartingCash) / s.opts.StartingCash * 100
		}
		s.recordLocked(final)
		s.state = StateSettled
		return nil
	}

	s.recordLocked(rec)

	// Classic mode rolls straight into a new round with reset capital.
	if err := s.newRoundLocked(ctx, s.opts.StartingCash); err != nil {
		s.state = StateNotStarted
		return err
	}
	return nil
}

// wipeOutLocked forces the terminal wiped-out state: equity reached zero or
// below. The outcome is still logged to the leaderboard.
func (s *Session) wipeOutLocked(price float64) {
	s.stopAutoplayLocked()
	v := ledger.Value(s.round.Ledger, price)
	s.recordLocked(buildScore(s.nickname, s.round, v, s.round.Ledger.StartingCash))
	s.state = StateWipedOut
	s.log.WithFields(logrus.Fields{
		"round":  s.roundNum,
		"symbol": s.round.Symbol,
		"equity": v.Equity,
	}).Warn("account wiped out")
}

func (s *Session) recordLocked(rec journal.ScoreRecord) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordScore(rec); err != nil {
		s.log.WithError(err).Error("record score")
	}
}

// StartAutoplay begins advancing one bar per interval until paused, the data
// runs out, the round settles, or the account wipes out.
func (s *Session) StartAutoplay() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRunning || s.autoplayCancel != nil || s.round.AtEnd() {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.autoplayCancel = cancel
	go s.autoplayLoop(ctx)
}

// StopAutoplay pauses playback. Cancellation is immediate; a tick in flight
// just serializes behind the session mutex like any manual action.
func (s *Session) StopAutoplay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAutoplayLocked()
}

func (s *Session) stopAutoplayLocked() {
	if s.autoplayCancel != nil {
		s.autoplayCancel()
		s.autoplayCancel = nil
	}
}

func (s *Session) autoplayLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.AutoplayInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Advance()
		}
	}
}
