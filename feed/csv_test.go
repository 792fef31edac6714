package feed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVProviderFetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := `time,open,high,low,close,volume
2025-06-02T09:00:00Z,100,101,99,100.5,1500
2025-06-02T09:05:00Z,100.5,102,100,101.5,1200

2025-06-02T09:10:00Z,101.5,103,101,102.5,0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2330.TW.csv"), []byte(data), 0o644))

	p := NewCSVProvider(dir)
	bars, err := p.Fetch(context.Background(), "2330.TW", "", "")
	require.NoError(t, err)

	require.Len(t, bars, 3)
	assert.InDelta(t, 101.5, bars[1].Close, 1e-9)
	assert.InDelta(t, 0, bars[2].Volume, 1e-9)
}

func TestCSVProviderMissingFile(t *testing.T) {
	t.Parallel()

	p := NewCSVProvider(t.TempDir())
	_, err := p.Fetch(context.Background(), "NOPE", "", "")
	require.Error(t, err)
}

func TestCSVProviderBadRow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := "2025-06-02T09:00:00Z,100,101,99,not-a-number,1500\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "X.csv"), []byte(data), 0o644))

	p := NewCSVProvider(dir)
	_, err := p.Fetch(context.Background(), "X", "", "")
	require.Error(t, err)
}
