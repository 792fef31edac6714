package server

import (
	"time"

	"github.com/spiketrade/spiketrade/game"
)

// StartRequest opens a new game session.
type StartRequest struct {
	Nickname string `json:"nickname" binding:"required"`
	Mode     string `json:"mode"`
}

// OrderRequest places a market order at the current bar.
type OrderRequest struct {
	Side     string `json:"side" binding:"required"` // "buy" or "sell"
	Quantity int64  `json:"quantity" binding:"required"`
}

// FeedbackRequest records a free-text note.
type FeedbackRequest struct {
	Nickname string `json:"nickname" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// StateResponse is the full render payload for one session.
type StateResponse struct {
	Session game.Snapshot    `json:"session"`
	Chart   game.ChartWindow `json:"chart"`
}

// LeaderboardRow is one leaderboard entry, sorted best score first.
type LeaderboardRow struct {
	Time         time.Time `json:"time"`
	Nickname     string    `json:"nickname"`
	Label        string    `json:"label"`
	Symbol       string    `json:"symbol"`
	FinalEquity  float64   `json:"final_equity"`
	ROIPercent   float64   `json:"roi_percent"`
	Score        float64   `json:"score"`
	AvgReturnPct float64   `json:"avg_return_pct"`
	Profit       float64   `json:"profit"`
}

// AdminSession is one row of the live-session listing.
type AdminSession struct {
	ID       string     `json:"id"`
	Nickname string     `json:"nickname"`
	Mode     game.Mode  `json:"mode"`
	State    game.State `json:"state"`
	Round    int        `json:"round"`
	Equity   float64    `json:"equity"`
}

// ErrorDetail carries a machine code alongside the message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the error envelope for every non-2xx reply.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}
