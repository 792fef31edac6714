package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

var scoreHeader = []string{
	"time", "nickname", "label", "symbol",
	"final_equity", "roi_percent", "score", "avg_return_pct", "profit",
}

// CSVJournal appends scores and feedback to flat files. Files are opened in
// append mode so restarts never rewrite history; a header is written only
// when the score file starts empty.
type CSVJournal struct {
	mu        sync.Mutex
	scorePath string
	scores    *os.File
	scoreCSV  *csv.Writer
	feedback  *os.File
}

func NewCSV(scorePath, feedbackPath string) (*CSVJournal, error) {
	sf, err := os.OpenFile(scorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	ff, err := os.OpenFile(feedbackPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		sf.Close()
		return nil, err
	}

	j := &CSVJournal{
		scorePath: scorePath,
		scores:    sf,
		scoreCSV:  csv.NewWriter(sf),
		feedback:  ff,
	}

	info, err := sf.Stat()
	if err != nil {
		j.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := j.scoreCSV.Write(scoreHeader); err != nil {
			j.Close()
			return nil, err
		}
		j.scoreCSV.Flush()
		if err := j.scoreCSV.Error(); err != nil {
			j.Close()
			return nil, err
		}
	}
	return j, nil
}

func (j *CSVJournal) RecordScore(s ScoreRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.scoreCSV.Write([]string{
		s.Time.Format(time.RFC3339),
		s.Nickname,
		s.Label,
		s.Symbol,
		f(s.FinalEquity),
		f(s.ROIPercent),
		f(s.Score),
		f(s.AvgReturnPct),
		f(s.Profit),
	})
	if err != nil {
		return err
	}
	j.scoreCSV.Flush()
	return j.scoreCSV.Error()
}

func (j *CSVJournal) ListScores() ([]ScoreRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rf, err := os.Open(j.scorePath)
	if err != nil {
		return nil, err
	}
	defer rf.Close()

	r := csv.NewReader(rf)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var recs []ScoreRecord
	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "time" {
			continue
		}
		if len(row) < 9 {
			continue
		}
		t, err := time.Parse(time.RFC3339, row[0])
		if err != nil {
			return nil, fmt.Errorf("bad score row %d: %w", i, err)
		}
		vals := make([]float64, 5)
		for k := 0; k < 5; k++ {
			v, err := strconv.ParseFloat(row[4+k], 64)
			if err != nil {
				return nil, fmt.Errorf("bad score row %d: %w", i, err)
			}
			vals[k] = v
		}
		recs = append(recs, ScoreRecord{
			Time:         t,
			Nickname:     row[1],
			Label:        row[2],
			Symbol:       row[3],
			FinalEquity:  vals[0],
			ROIPercent:   vals[1],
			Score:        vals[2],
			AvgReturnPct: vals[3],
			Profit:       vals[4],
		})
	}
	return recs, nil
}

func (j *CSVJournal) RecordFeedback(fb FeedbackRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	_, err := fmt.Fprintf(j.feedback, "[%s] %s: %s\n",
		fb.Time.Format("2006-01-02 15:04"), fb.Nickname, fb.Message)
	return err
}

func (j *CSVJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.scoreCSV.Flush()
	err := j.scoreCSV.Error()
	if cerr := j.scores.Close(); err == nil {
		err = cerr
	}
	if cerr := j.feedback.Close(); err == nil {
		err = cerr
	}
	return err
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
