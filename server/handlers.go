package server

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spiketrade/spiketrade/feed"
	"github.com/spiketrade/spiketrade/game"
	"github.com/spiketrade/spiketrade/journal"
	"github.com/spiketrade/spiketrade/ledger"
)

// chartBack is how many bars of history ship with a state snapshot.
const chartBack = 100

func (s *Server) createSession(c *gin.Context) {
	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_REQUEST", err.Error()))
		return
	}

	sess := game.NewSession(s.newPicker(), s.journal, s.opts)
	if err := sess.Start(c.Request.Context(), req.Nickname, game.Mode(req.Mode)); err != nil {
		if errors.Is(err, feed.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, errorBody("FEED_UNAVAILABLE", err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorBody("START_FAILED", err.Error()))
		return
	}
	s.manager.Put(sess)

	c.JSON(http.StatusCreated, s.state(sess, c))
}

func (s *Server) session(c *gin.Context) (*game.Session, bool) {
	sess, ok := s.manager.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("SESSION_NOT_FOUND", "no such session"))
	}
	return sess, ok
}

func (s *Server) state(sess *game.Session, c *gin.Context) StateResponse {
	back := chartBack
	if v := c.Query("back"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			back = n
		}
	}
	return StateResponse{
		Session: sess.Snapshot(),
		Chart:   sess.Chart(back),
	}
}

func (s *Server) getState(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.state(sess, c))
}

func (s *Server) placeOrder(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_REQUEST", err.Error()))
		return
	}

	var side ledger.Side
	switch req.Side {
	case "buy":
		side = ledger.Buy
	case "sell":
		side = ledger.Sell
	default:
		c.JSON(http.StatusBadRequest, errorBody("INVALID_SIDE", "side must be 'buy' or 'sell'"))
		return
	}

	err := sess.Trade(side, req.Quantity)
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		c.JSON(http.StatusPaymentRequired, errorBody("INSUFFICIENT_FUNDS", err.Error()))
		return
	case errors.Is(err, ledger.ErrReversalFunds):
		// The covering leg applied; report the state alongside the warning.
		c.JSON(http.StatusOK, gin.H{
			"warning": errorBody("REVERSAL_FUNDS", err.Error()).Error,
			"state":   s.state(sess, c),
		})
		return
	case errors.Is(err, game.ErrNotRunning):
		c.JSON(http.StatusConflict, errorBody("NOT_RUNNING", err.Error()))
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, errorBody("INVALID_ORDER", err.Error()))
		return
	}

	c.JSON(http.StatusOK, s.state(sess, c))
}

func (s *Server) advance(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.Advance()
	c.JSON(http.StatusOK, s.state(sess, c))
}

func (s *Server) autoplay(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.StartAutoplay()
	c.JSON(http.StatusOK, s.state(sess, c))
}

func (s *Server) pause(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.StopAutoplay()
	c.JSON(http.StatusOK, s.state(sess, c))
}

func (s *Server) settle(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := sess.Settle(c.Request.Context()); err != nil {
		switch {
		case errors.Is(err, game.ErrNotRunning):
			c.JSON(http.StatusConflict, errorBody("NOT_RUNNING", err.Error()))
		case errors.Is(err, feed.ErrUnavailable):
			c.JSON(http.StatusServiceUnavailable, errorBody("FEED_UNAVAILABLE", err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, errorBody("SETTLE_FAILED", err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, s.state(sess, c))
}

func (s *Server) leaderboard(c *gin.Context) {
	recs, err := s.journal.ListScores()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("LEADERBOARD_READ", err.Error()))
		return
	}

	rows := make([]LeaderboardRow, len(recs))
	for i, r := range recs {
		rows[i] = LeaderboardRow{
			Time:         r.Time,
			Nickname:     r.Nickname,
			Label:        r.Label,
			Symbol:       r.Symbol,
			FinalEquity:  r.FinalEquity,
			ROIPercent:   r.ROIPercent,
			Score:        r.Score,
			AvgReturnPct: r.AvgReturnPct,
			Profit:       r.Profit,
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })

	c.JSON(http.StatusOK, gin.H{"leaderboard": rows})
}

func (s *Server) feedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_REQUEST", err.Error()))
		return
	}
	err := s.journal.RecordFeedback(journal.FeedbackRecord{
		Time:     time.Now(),
		Nickname: req.Nickname,
		Message:  req.Message,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorBody("FEEDBACK_WRITE", err.Error()))
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

func (s *Server) adminSessions(c *gin.Context) {
	sessions := s.manager.List()
	rows := make([]AdminSession, 0, len(sessions))
	for _, sess := range sessions {
		snap := sess.Snapshot()
		rows = append(rows, AdminSession{
			ID:       snap.ID,
			Nickname: snap.Nickname,
			Mode:     snap.Mode,
			State:    snap.State,
			Round:    snap.Round,
			Equity:   snap.Valuation.Equity,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	c.JSON(http.StatusOK, gin.H{"sessions": rows})
}
