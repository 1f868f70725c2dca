package knowledge

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/velo/internal/domain"
)

func newTestClient(url string, maxPassages int) *Client {
	return NewClient(Config{
		Endpoint:    url,
		Timeout:     5 * time.Second,
		Limit:       3,
		MinScore:    0.4,
		MaxPassages: maxPassages,
		Workers:     2,
	})
}

func TestSearch_SendsQueryAndDecodesResults(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []Passage{
			{Source: "Friel", Text: "Base then build.", Score: 0.8},
		}})
	}))
	defer srv.Close()

	hits, err := newTestClient(srv.URL, 6).Search(t.Context(), "periodization", 3, 0.4)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Friel", hits[0].Source)
	assert.Equal(t, "periodization", got.Query)
	assert.Equal(t, 3, got.Limit)
	assert.InDelta(t, 0.4, got.MinScore, 1e-9)
}

func TestSearch_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 6).Search(t.Context(), "q", 3, 0.4)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.Contains(t, err.Error(), "index loading")
}

func TestQueries_GoalSpecificTopics(t *testing.T) {
	ftp := Queries(domain.GoalFTPTarget)
	race := Queries(domain.GoalRacePrep)
	base := Queries(domain.GoalBaseBuilding)

	assert.Contains(t, strings.Join(ftp, "|"), "FTP improvement")
	assert.NotContains(t, strings.Join(ftp, "|"), "Race preparation")
	assert.Contains(t, strings.Join(race, "|"), "Race preparation")
	assert.Contains(t, strings.Join(base, "|"), "Aerobic base building")
	for _, qs := range [][]string{ftp, race, base} {
		assert.Contains(t, strings.Join(qs, "|"), "Recovery supercompensation")
		assert.Contains(t, strings.Join(qs, "|"), "VO2max cardiac output")
	}
}

func TestCitations_MergesDedupesAndRanks(t *testing.T) {
	long := strings.Repeat("a", 150)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req searchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		results := []Passage{
			{Source: "shared", Text: long + "first", Score: 0.5},
			{Source: "", Text: req.Query, Score: 0.6},
		}
		if strings.HasPrefix(req.Query, "Recovery") {
			results = append(results, Passage{Source: "Seiler", Text: "deload", Score: 0.95})
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Results: results})
	}))
	defer srv.Close()

	cites, err := newTestClient(srv.URL, 4).Citations(t.Context(), domain.GoalFTPTarget)
	require.NoError(t, err)
	require.Len(t, cites, 4)
	assert.Equal(t, "Seiler", cites[0].Source)
	assert.InDelta(t, 0.95, cites[0].Score, 1e-9)
	for i := 1; i < len(cites); i++ {
		assert.LessOrEqual(t, cites[i].Score, cites[i-1].Score)
		assert.Equal(t, "unknown", cites[i].Source)
	}
}

func TestCitations_PartialFailureTolerated(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1)%2 == 0 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Results: []Passage{
			{Source: "s", Text: "same passage", Score: 0.7},
		}})
	}))
	defer srv.Close()

	cites, err := newTestClient(srv.URL, 6).Citations(t.Context(), domain.GoalRacePrep)
	require.NoError(t, err)
	require.Len(t, cites, 1)
	assert.Equal(t, "same passage", cites[0].Text)
}

func TestCitations_AllFailedIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 6).Citations(t.Context(), domain.GoalBaseBuilding)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
}

func TestMerge_TruncatesLongText(t *testing.T) {
	cites := merge([][]Passage{{{Source: "x", Text: strings.Repeat("b", 1500), Score: 1}}}, 0)
	require.Len(t, cites, 1)
	assert.Len(t, cites[0].Text, maxTextLen)
}
