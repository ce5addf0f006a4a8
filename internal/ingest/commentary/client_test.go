package commentary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedPage = `[
	{"id":1700000000100,"type":"b","o":"1.1","b":"0","c1":"P to Q","c2":"no run"},
	{"id":1700000000200,"type":"t","c2":"Drinks are on the field"},
	{"id":1700000000300,"type":"b","o":"1.3","b":"4","c1":"P to Q","c2":"FOUR"},
	{"id":1700000000250,"type":"b","o":"1.2","b":"1","c1":"P to R","c2":"single"},
	{"id":1700000000050,"type":"b","o":"0.6","b":"6","c1":"S to R","c2":"SIX"}
]`

func TestGetMatchDeliveriesFiltersAndSorts(t *testing.T) {
	var got feedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(feedPage))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	ds := c.GetMatchDeliveries(context.Background(), "m1", 42)

	assert.Equal(t, "m1", got.MatchKey)
	assert.Equal(t, int64(42), got.LastDocID)
	assert.Equal(t, Filters{}, got.Filters)

	require.Len(t, ds, 4)
	assert.Equal(t, "m1_1700000000300", ds[0].ID)
	assert.Equal(t, "m1_1700000000250", ds[1].ID)
	assert.Equal(t, "m1_1700000000100", ds[2].ID)
	assert.Equal(t, "m1_1700000000050", ds[3].ID)
	assert.True(t, ds[0].IsFour)
	assert.True(t, ds[3].IsSix)
}

func TestFetchBallFeedsSendsAllFilterKeys(t *testing.T) {
	var raw map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	balls, err := NewClient(srv.URL, time.Second).FetchBallFeeds(context.Background(), "k", 0, Filters{Wickets: true})
	require.NoError(t, err)
	assert.Empty(t, balls)

	filters, ok := raw["filters"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, filters, 10)
	assert.Equal(t, true, filters["wickets"])
	assert.Equal(t, false, filters["highlights"])
	assert.Equal(t, float64(0), raw["lastDocId"])
}

func TestGetMatchDeliveriesSwallowsFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>blocked</html>"))
		}},
		{"wrong shape", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"bad key"}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			ds := NewClient(srv.URL, time.Second).GetMatchDeliveries(context.Background(), "m1", 0)
			assert.NotNil(t, ds)
			assert.Empty(t, ds)
		})
	}
}

func TestGetBallFeedsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(feedPage))
	}))
	defer srv.Close()

	balls := NewClient(srv.URL, 20*time.Millisecond).GetBallFeeds(context.Background(), "m1", 0, Filters{})
	assert.Empty(t, balls)
}
