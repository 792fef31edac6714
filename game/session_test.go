package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiketrade/spiketrade/feed"
	"github.com/spiketrade/spiketrade/indicators"
	"github.com/spiketrade/spiketrade/journal"
	"github.com/spiketrade/spiketrade/ledger"
	"github.com/spiketrade/spiketrade/market"
)

type scriptProvider struct {
	bars []market.Bar
	err  error
}

func (p *scriptProvider) Fetch(ctx context.Context, symbol, lookback, interval string) ([]market.Bar, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.bars, nil
}

type memJournal struct {
	scores   []journal.ScoreRecord
	feedback []journal.FeedbackRecord
}

func (m *memJournal) RecordScore(s journal.ScoreRecord) error { m.scores = append(m.scores, s); return nil }
func (m *memJournal) ListScores() ([]journal.ScoreRecord, error) { return m.scores, nil }
func (m *memJournal) RecordFeedback(f journal.FeedbackRecord) error {
	m.feedback = append(m.feedback, f)
	return nil
}
func (m *memJournal) Close() error { return nil }

// gameBars builds a playable sequence: a flat warmup prefix (discarded by the
// picker) followed by the scripted closes the round will actually play.
func gameBars(closes []float64) []market.Bar {
	all := make([]float64, 0, indicators.WarmupBars+len(closes))
	for i := 0; i < indicators.WarmupBars; i++ {
		all = append(all, 100)
	}
	all = append(all, closes...)

	bars := make([]market.Bar, len(all))
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	for i, c := range all {
		bars[i] = market.Bar{
			Time:   base.Add(time.Duration(i) * 5 * time.Minute),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// newTestSession starts rounds at bar 0 of the scripted closes.
func newTestSession(t *testing.T, closes []float64, opts Options) (*Session, *memJournal) {
	t.Helper()

	provider := &scriptProvider{bars: gameBars(closes)}
	pk := feed.NewPicker(provider, map[string]string{"3661.TW": "Alchip"}, "1mo", "5m")
	pk.Rand = rand.New(rand.NewSource(7))
	pk.MinBars = 50
	pk.MinPlayable = 1
	pk.StartLow = 0
	pk.StartMargin = len(closes) + 10_000 // forces the cursor to bar 0

	j := &memJournal{}
	return NewSession(pk, j, opts), j
}

func TestSessionStart(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, []float64{100, 101, 102}, Options{StartingCash: 10_000_000, FeeRate: 0.002})
	require.NoError(t, s.Start(context.Background(), "nightowl", ModeClassic))

	snap := s.Snapshot()
	assert.Equal(t, StateRunning, snap.State)
	assert.Equal(t, 1, snap.Round)
	assert.Equal(t, "AＯＯ", snap.Label, "name is masked during play")
	assert.Empty(t, snap.Symbol, "symbol hidden while running")
	assert.InDelta(t, 10_000_000, snap.Cash, 1e-6)
	assert.InDelta(t, 100, snap.Price, 1e-9)
}

func TestSessionStartFeedUnavailable(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, []float64{100}, Options{StartingCash: 1000})
	s.picker.Provider = &scriptProvider{err: errors.New("api down")}

	err := s.Start(context.Background(), "x", ModeClassic)
	require.ErrorIs(t, err, feed.ErrUnavailable)
	assert.Equal(t, StateNotStarted, s.Snapshot().State)
}

func TestSessionActionsRequireRunning(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, []float64{100}, Options{StartingCash: 1000})
	assert.ErrorIs(t, s.Trade(ledger.Buy, 10), ErrNotRunning)
	assert.ErrorIs(t, s.Settle(context.Background()), ErrNotRunning)
	s.Advance() // no-op, no panic
}

func TestSessionAdvanceClampsAtEnd(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, []float64{100, 101, 102}, Options{StartingCash: 10_000})
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))

	for i := 0; i < 10; i++ {
		s.Advance()
	}
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Step, "cursor clamps at the last bar")
	assert.Equal(t, StateRunning, snap.State)
}

func TestSessionTradeAndValuation(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, []float64{100, 110}, Options{StartingCash: 10_000_000, FeeRate: 0.002})
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))

	require.NoError(t, s.Trade(ledger.Buy, 1000))
	s.Advance()

	snap := s.Snapshot()
	assert.EqualValues(t, 1000, snap.Position)
	assert.InDelta(t, 9_899_800, snap.Cash, 1e-6)
	assert.InDelta(t, 10_000, snap.Valuation.Unrealized, 1e-6)
	require.Len(t, snap.TradeLog, 1)
	assert.Contains(t, snap.TradeLog[0], "opened long 1000")
	require.Len(t, snap.Markers, 1)
	assert.Equal(t, 0, snap.Markers[0].BarIndex)
}

func TestSessionWipeOut(t *testing.T) {
	t.Parallel()

	// All-in at 100; the fee leaves cash slightly negative, then the price
	// collapses to almost nothing.
	s, j := newTestSession(t, []float64{100, 0.01}, Options{StartingCash: 10_000, FeeRate: 0.002})
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))

	require.NoError(t, s.Trade(ledger.Buy, 100))
	s.Advance()

	snap := s.Snapshot()
	assert.Equal(t, StateWipedOut, snap.State)
	assert.Equal(t, "3661.TW", snap.Symbol, "symbol revealed after the run")
	assert.LessOrEqual(t, snap.Valuation.Equity, 0.0)

	// The zero/negative outcome is still logged.
	require.Len(t, j.scores, 1)
	assert.LessOrEqual(t, j.scores[0].FinalEquity, 0.0)

	// Terminal: only an explicit restart leaves WIPED_OUT.
	assert.ErrorIs(t, s.Trade(ledger.Buy, 1), ErrNotRunning)
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))
	assert.Equal(t, StateRunning, s.Snapshot().State)
}

func TestSessionSettleClassicRollsToNextRound(t *testing.T) {
	t.Parallel()

	s, j := newTestSession(t, []float64{100, 110}, Options{StartingCash: 10_000_000})
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))

	require.NoError(t, s.Trade(ledger.Buy, 1000))
	s.Advance()
	require.NoError(t, s.Settle(context.Background()))

	require.Len(t, j.scores, 1)
	assert.InDelta(t, 10_010_000, j.scores[0].FinalEquity, 1e-6)
	assert.InDelta(t, 0.1, j.scores[0].ROIPercent, 1e-9)
	assert.Zero(t, j.scores[0].AvgReturnPct, "position never closed, no realized returns")

	snap := s.Snapshot()
	assert.Equal(t, StateRunning, snap.State, "classic settle starts a fresh round")
	assert.Equal(t, 2, snap.Round)
	assert.InDelta(t, 10_000_000, snap.Cash, 1e-6, "capital resets each round")
}

func TestSessionSurvivalCarriesCapital(t *testing.T) {
	t.Parallel()

	s, j := newTestSession(t, []float64{100, 110}, Options{StartingCash: 1_000_000, SurvivalRounds: 2})
	require.NoError(t, s.Start(context.Background(), "p", ModeSurvival))

	require.NoError(t, s.Trade(ledger.Buy, 1000))
	s.Advance()
	require.NoError(t, s.Settle(context.Background()))

	assert.Empty(t, j.scores, "intermediate survival rounds do not post scores")
	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Round)
	assert.InDelta(t, 1_010_000, snap.Cash, 1e-6, "equity carries into the next round")

	require.NoError(t, s.Settle(context.Background()))
	require.Len(t, j.scores, 1, "only the final round posts")
	assert.Equal(t, StateSettled, s.Snapshot().State)
	assert.InDelta(t, 1_010_000, j.scores[0].FinalEquity, 1e-6)
	assert.InDelta(t, 1.0, j.scores[0].ROIPercent, 1e-9)
}

func TestSessionAutoplayRunsToEnd(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, []float64{100, 101, 102, 103, 104},
		Options{StartingCash: 10_000, AutoplayInterval: 2 * time.Millisecond})
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))

	s.StartAutoplay()
	assert.True(t, s.Snapshot().Autoplay)

	assert.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Step == 4 && !snap.Autoplay
	}, 2*time.Second, 5*time.Millisecond, "autoplay advances to the last bar and stops")
}

func TestSessionAutoplayPause(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, make([]float64, 1000),
		Options{StartingCash: 10_000, AutoplayInterval: time.Millisecond})
	// replace zero closes with a constant price
	s.picker.Provider.(*scriptProvider).bars = gameBars(constCloses(1000, 100))
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))

	s.StartAutoplay()
	time.Sleep(20 * time.Millisecond)
	s.StopAutoplay()
	assert.False(t, s.Snapshot().Autoplay)

	step := s.Snapshot().Step
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, step, s.Snapshot().Step, "no advance after pause")
}

func constCloses(n int, v float64) []float64 {
	cs := make([]float64, n)
	for i := range cs {
		cs[i] = v
	}
	return cs
}

func TestSessionChartWindow(t *testing.T) {
	t.Parallel()

	s, _ := newTestSession(t, []float64{100, 101, 102, 103}, Options{StartingCash: 100_000})
	require.NoError(t, s.Start(context.Background(), "p", ModeClassic))

	require.NoError(t, s.Trade(ledger.Buy, 10))
	s.Advance()
	s.Advance()

	w := s.Chart(1)
	require.Len(t, w.Bars, 2)
	assert.Equal(t, 1, w.Bars[0].Index)
	assert.Equal(t, 2, w.Bars[1].Index)
	assert.Equal(t, 2, w.Series.Len())
	assert.Empty(t, w.Markers, "marker at bar 0 is outside the window")

	w = s.Chart(100)
	require.Len(t, w.Markers, 1)
	assert.Equal(t, 0, w.Markers[0].BarIndex)
}
