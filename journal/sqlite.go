package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordScore(s ScoreRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO scores
		(time, nickname, label, symbol, final_equity, roi_percent, score, avg_return_pct, profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Time, s.Nickname, s.Label, s.Symbol,
		s.FinalEquity, s.ROIPercent, s.Score, s.AvgReturnPct, s.Profit,
	)
	return err
}

func (j *SQLiteJournal) ListScores() ([]ScoreRecord, error) {
	rows, err := j.db.Query(`
		SELECT time, nickname, label, symbol, final_equity, roi_percent, score, avg_return_pct, profit
		FROM scores ORDER BY time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []ScoreRecord
	for rows.Next() {
		var s ScoreRecord
		if err := rows.Scan(&s.Time, &s.Nickname, &s.Label, &s.Symbol,
			&s.FinalEquity, &s.ROIPercent, &s.Score, &s.AvgReturnPct, &s.Profit); err != nil {
			return nil, err
		}
		recs = append(recs, s)
	}
	return recs, rows.Err()
}

func (j *SQLiteJournal) RecordFeedback(f FeedbackRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO feedback (time, nickname, message) VALUES (?, ?, ?)`,
		f.Time, f.Nickname, f.Message,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
