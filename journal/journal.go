package journal

import "time"

// ScoreRecord is one leaderboard row, appended at settlement. Label is the
// masked display name shown during play; Symbol is the real ticker, revealed
// only after the round is over.
type ScoreRecord struct {
	Time         time.Time
	Nickname     string
	Label        string
	Symbol       string
	FinalEquity  float64
	ROIPercent   float64
	Score        float64
	AvgReturnPct float64
	Profit       float64
}

// FeedbackRecord is a free-text note from a player.
type FeedbackRecord struct {
	Time     time.Time
	Nickname string
	Message  string
}

// Journal persists leaderboard rows and feedback. Both sinks are append-only;
// ListScores reads the full leaderboard back for display.
type Journal interface {
	RecordScore(ScoreRecord) error
	ListScores() ([]ScoreRecord, error)
	RecordFeedback(FeedbackRecord) error
	Close() error
}
