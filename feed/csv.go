package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spiketrade/spiketrade/market"
)

// CSVProvider serves bars from per-symbol CSV files in a directory, for
// offline play and tests. Expected row layout:
//
//	time,open,high,low,close,volume
//
// where time is RFC3339. A header row is allowed; short or blank rows are
// skipped.
type CSVProvider struct {
	Dir string
}

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{Dir: dir}
}

// Fetch implements Provider. lookback and interval are ignored; the file is
// the dataset.
func (p *CSVProvider) Fetch(ctx context.Context, symbol, lookback, interval string) ([]market.Bar, error) {
	_ = ctx

	path := filepath.Join(p.Dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bar file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []market.Bar
	sawFirst := false
	for {
		row, err := r.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read bar file %s: %w", path, err)
		}
		if len(row) == 0 {
			continue
		}
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		b, ok, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("bar file %s: %w", path, err)
		}
		if ok {
			bars = append(bars, b)
		}
	}
}

func parseBarRow(row []string) (market.Bar, bool, error) {
	if len(row) < 6 {
		return market.Bar{}, false, nil
	}
	ts := strings.TrimSpace(row[0])
	if ts == "" {
		return market.Bar{}, false, nil
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return market.Bar{}, false, fmt.Errorf("bad time %q: %w", ts, err)
	}

	vals := make([]float64, 5)
	for i := 1; i < 6; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad field %q: %w", row[i], err)
		}
		vals[i-1] = v
	}
	return market.Bar{
		Time:   t,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, true, nil
}
