package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBars(volumes []float64) []Bar {
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	bars := make([]Bar, len(volumes))
	for i, v := range volumes {
		bars[i] = Bar{
			Time:   base.Add(time.Duration(i) * 5 * time.Minute),
			Open:   100,
			High:   101,
			Low:    99,
			Close:  100 + float64(i),
			Volume: v,
		}
	}
	return bars
}

func TestNewBarSetFiltersZeroVolume(t *testing.T) {
	t.Parallel()

	set := NewBarSet("2330.TW", "5m", testBars([]float64{100, 0, 50, 0, 25}))
	require.Equal(t, 3, set.Len())

	// Survivors are reindexed from zero.
	for i, b := range set.Bars {
		assert.Equal(t, i, b.Index)
	}
	assert.InDelta(t, 100, set.Bars[0].Close, 1e-9)
	assert.InDelta(t, 102, set.Bars[1].Close, 1e-9)
	assert.InDelta(t, 104, set.Bars[2].Close, 1e-9)
}

func TestBarSetAt(t *testing.T) {
	t.Parallel()

	set := NewBarSet("x", "5m", testBars([]float64{1, 1, 1}))

	b, err := set.At(1)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Index)

	_, err = set.At(-1)
	assert.Error(t, err)
	_, err = set.At(3)
	assert.Error(t, err)
}

func TestBarSetClamp(t *testing.T) {
	t.Parallel()

	set := NewBarSet("x", "5m", testBars([]float64{1, 1, 1}))
	assert.Equal(t, 0, set.Clamp(-5))
	assert.Equal(t, 1, set.Clamp(1))
	assert.Equal(t, 2, set.Clamp(99))

	empty := NewBarSet("x", "5m", nil)
	assert.Equal(t, -1, empty.Clamp(0))
}

func TestBarSetWindow(t *testing.T) {
	t.Parallel()

	set := NewBarSet("x", "5m", testBars([]float64{1, 1, 1, 1, 1}))

	w := set.Window(3, 2)
	require.Len(t, w, 3)
	assert.Equal(t, 1, w[0].Index)
	assert.Equal(t, 3, w[2].Index)

	// back larger than history clamps to the start.
	w = set.Window(2, 100)
	require.Len(t, w, 3)
	assert.Equal(t, 0, w[0].Index)

	// end beyond the data clamps to the last bar.
	w = set.Window(99, 1)
	require.Len(t, w, 2)
	assert.Equal(t, 4, w[1].Index)

	assert.Nil(t, NewBarSet("x", "5m", nil).Window(0, 10))
}

func TestBarSetTrim(t *testing.T) {
	t.Parallel()

	set := NewBarSet("x", "5m", testBars([]float64{1, 1, 1, 1, 1}))
	set.Trim(2)
	require.Equal(t, 3, set.Len())
	assert.InDelta(t, 102, set.Bars[0].Close, 1e-9)
	for i, b := range set.Bars {
		assert.Equal(t, i, b.Index)
	}

	set.Trim(0)
	assert.Equal(t, 3, set.Len())

	set.Trim(10)
	assert.Equal(t, 0, set.Len())
}
