package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2330.TW", r.URL.Path)
		assert.Equal(t, "1mo", r.URL.Query().Get("range"))
		assert.Equal(t, "5m", r.URL.Query().Get("interval"))

		fmt.Fprint(w, `{
			"chart": {
				"result": [{
					"timestamp": [1750000000, 1750000300, 1750000600],
					"indicators": {
						"quote": [{
							"open":   [100.0, null, 102.0],
							"high":   [101.0, 102.0, 103.0],
							"low":    [99.0, 100.5, 101.5],
							"close":  [100.5, 101.5, 102.5],
							"volume": [1500, 1200, 0]
						}]
					}
				}],
				"error": null
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	bars, err := c.Fetch(context.Background(), "2330.TW", "1mo", "5m")
	require.NoError(t, err)

	// The null-open row is dropped; the zero-volume row is kept here because
	// filtering belongs to the BarSet.
	require.Len(t, bars, 2)
	assert.InDelta(t, 100.5, bars[0].Close, 1e-9)
	assert.InDelta(t, 0, bars[1].Volume, 1e-9)
	assert.Equal(t, int64(1750000000), bars[0].Time.Unix())
}

func TestClientFetchAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart": {"result": [], "error": {"code": "Not Found", "description": "no data"}}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "NOPE", "1mo", "5m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data")
}

func TestClientFetchHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.Fetch(context.Background(), "2330.TW", "1mo", "5m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestClientFetchRequiresSymbol(t *testing.T) {
	t.Parallel()

	c := NewClient("")
	_, err := c.Fetch(context.Background(), "", "1mo", "5m")
	require.Error(t, err)
}
