package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/cricbase/internal/backfill"
	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/ingest/commentary"
	"github.com/fortuna/cricbase/internal/ingest/cricapi"
	"github.com/fortuna/cricbase/internal/service"
	"github.com/fortuna/cricbase/internal/store"
)

type stubSelector struct {
	list  ingest.ListResult
	match ingest.MatchResult
}

func (s *stubSelector) ListMatches(ctx context.Context, status string, offset int) ingest.ListResult {
	return s.list
}

func (s *stubSelector) GetMatch(ctx context.Context, id string) ingest.MatchResult {
	return s.match
}

type stubMatches struct{ matches []store.Match }

func (s *stubMatches) List(ctx context.Context, status string) ([]store.Match, error) {
	return s.matches, nil
}

func (s *stubMatches) GetByID(ctx context.Context, id string) (*store.Match, error) {
	for i := range s.matches {
		if s.matches[i].ID == id {
			return &s.matches[i], nil
		}
	}
	return nil, store.ErrNotFound
}

type stubFeed struct{ lastDocID int64 }

func (s *stubFeed) GetMatchDeliveries(ctx context.Context, matchID string, lastDocID int64) []store.Delivery {
	s.lastDocID = lastDocID
	return []store.Delivery{{ID: matchID + "_2", Over: 0, Ball: 2}, {ID: matchID + "_1", Over: 0, Ball: 1}}
}

type stubDeliveries struct {
	rows       map[string]store.Delivery
	increments int
}

func (s *stubDeliveries) Feed(ctx context.Context, limit int) ([]store.Delivery, error) {
	return []store.Delivery{}, nil
}

func (s *stubDeliveries) ListByMatch(ctx context.Context, matchID string) ([]store.Delivery, error) {
	return nil, errors.New("pq: relation \"deliveries\" does not exist")
}

func (s *stubDeliveries) GetByID(ctx context.Context, id string) (*store.Delivery, error) {
	if d, ok := s.rows[id]; ok {
		return &d, nil
	}
	return nil, store.ErrNotFound
}

func (s *stubDeliveries) IncrementCommentCount(ctx context.Context, id string) error {
	s.increments++
	return nil
}

type stubComments struct {
	created []*store.Comment
	votes   map[string]string
}

func (s *stubComments) ListByDelivery(ctx context.Context, deliveryID string) ([]*store.Comment, error) {
	parent := "c1"
	return []*store.Comment{
		{ID: "c1", DeliveryID: deliveryID, Content: "Shot!"},
		{ID: "c2", DeliveryID: deliveryID, Content: "Agreed", ParentID: &parent},
	}, nil
}

func (s *stubComments) Exists(ctx context.Context, id string) (bool, error) { return id == "c1", nil }

func (s *stubComments) Create(ctx context.Context, c *store.Comment) error {
	s.created = append(s.created, c)
	return nil
}

func (s *stubComments) UpsertVote(ctx context.Context, v store.Vote) error {
	s.votes[v.CommentID] = v.Vote
	return nil
}

func (s *stubComments) RecountVotes(ctx context.Context, commentID string) (int, int, error) {
	if s.votes[commentID] == store.VoteUp {
		return 1, 0, nil
	}
	return 0, 1, nil
}

func (s *stubComments) UserVotes(ctx context.Context, deliveryID, userID string) (map[string]string, error) {
	return s.votes, nil
}

type stubUsers struct{}

func (stubUsers) Ensure(ctx context.Context, u *store.User) (*store.User, error) { return u, nil }

type stubStats struct{}

func (stubStats) TopPlayers(ctx context.Context, limit int) ([]store.PlayerStats, error) {
	return []store.PlayerStats{{PlayerID: "1", PlayerName: "Virat Kohli", Runs: 13848}}, nil
}

func (stubStats) Teams(ctx context.Context) ([]store.TeamStats, error) {
	return []store.TeamStats{{TeamID: "O", TeamName: "India", Wins: 10}}, nil
}

type stubDirectory struct{}

func (stubDirectory) Series(ctx context.Context, offset int, search string) ([]cricapi.Series, error) {
	return []cricapi.Series{{ID: "s1", Name: search}}, nil
}

func (stubDirectory) Players(ctx context.Context, offset int, search string) ([]cricapi.Player, error) {
	return nil, errors.New("quota exceeded")
}

func (stubDirectory) PlayerInfo(ctx context.Context, id string) (*cricapi.PlayerInfo, error) {
	if id == "broken" {
		return nil, errors.New("HTTP 500")
	}
	return nil, nil
}

type failingCheck struct{}

func (failingCheck) HealthCheck(ctx context.Context) error { return errors.New("connection refused") }

type testEnv struct {
	router     http.Handler
	feed       *stubFeed
	deliveries *stubDeliveries
	comments   *stubComments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log.SetOutput(io.Discard)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	sel := &stubSelector{
		list: ingest.ListResult{
			Source:  ingest.SourceLiveList,
			Matches: []store.Match{{ID: "78412", Team1: "New Zealand", Team2: "India", Status: store.StatusLive}},
		},
	}
	env := &testEnv{
		feed:       &stubFeed{},
		deliveries: &stubDeliveries{rows: map[string]store.Delivery{"78412_1": {ID: "78412_1", MatchID: "78412"}}},
		comments:   &stubComments{votes: map[string]string{}},
	}

	h := NewHandler(Services{
		Matches:    service.NewMatchService(sel, &stubMatches{matches: []store.Match{{ID: "stored", Venue: "Lord's"}}}, nil, 0),
		Deliveries: service.NewDeliveryService(env.feed, env.deliveries),
		Comments:   service.NewCommentService(env.comments, env.deliveries, stubUsers{}),
		Stats:      service.NewStatsService(stubStats{}),
		Catalog:    service.NewCatalogService(stubDirectory{}),
	})
	h.AddHealthCheck("database", failingCheck{})

	feed := &stubBackfillFeed{}
	svc := backfill.NewService(backfill.NewRunner(feed, feed), log.New(io.Discard, "", 0))
	env.router = NewRouter(h, NewBackfillHandler(svc))
	return env
}

type stubBackfillFeed struct{}

func (stubBackfillFeed) FetchBallFeeds(ctx context.Context, matchKey string, lastDocID int64, filters commentary.Filters) ([]commentary.BallFeed, error) {
	return nil, nil
}

func (stubBackfillFeed) Deliveries(events []commentary.BallFeed, matchID string) []store.Delivery {
	return nil
}

func (stubBackfillFeed) Upsert(ctx context.Context, d *store.Delivery) (bool, error) { return true, nil }

func (e *testEnv) do(method, path, body string, auth bool) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if auth {
		req.Header.Set("Authorization", "Bearer test-token")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"CricBase API","version":"1.0.0"}`, rec.Body.String())

	rec = env.do("GET", "/health", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "connection refused", body["dependencies"].(map[string]interface{})["database"])
}

func TestListMatches(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/api/v1/matches?status=live&offset=abc", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var matches []store.Match
	decode(t, rec, &matches)
	require.Len(t, matches, 1)
	assert.Equal(t, "New Zealand", matches[0].Team1)
}

func TestGetMatchFallsBackToStoreThen404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/api/v1/matches/stored", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"venue":"Lord's"`)

	rec = env.do("GET", "/api/v1/matches/unknown", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Match not found","status":404}`, rec.Body.String())
}

func TestLiveDeliveriesCursor(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/api/v1/matches/78412/deliveries/live?lastDocId=1700000000000", "", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1700000000000), env.feed.lastDocID)
	var ds []store.Delivery
	decode(t, rec, &ds)
	assert.Equal(t, "78412_2", ds[0].ID)
}

func TestDeliveryRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/api/v1/deliveries/feed?limit=500", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = env.do("GET", "/api/v1/deliveries/78412_1", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do("GET", "/api/v1/deliveries/nope", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do("GET", "/api/v1/deliveries/match/78412", "", false)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	decode(t, rec, &body)
	assert.Equal(t, "Failed to fetch deliveries", body["error"])
	assert.Contains(t, body["details"], "does not exist")
}

func TestCommentThread(t *testing.T) {
	env := newTestEnv(t)
	env.comments.votes["c2"] = "up"

	rec := env.do("GET", "/api/v1/deliveries/78412_1/comments", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	var thread []store.Comment
	decode(t, rec, &thread)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "up", *thread[0].Replies[0].UserVote)
}

func TestWritesRequireBearerToken(t *testing.T) {
	env := newTestEnv(t)

	for _, path := range []string{"/api/v1/deliveries/78412_1/comments", "/api/v1/comments/c1/vote", "/api/v1/backfill"} {
		rec := env.do("POST", path, `{}`, false)
		assert.Equal(t, http.StatusForbidden, rec.Code, path)
	}
	assert.Empty(t, env.comments.created)
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("POST", "/api/v1/deliveries/78412_1/comments", `{"content":"Great ball","parentId":"c1"}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	var c store.Comment
	decode(t, rec, &c)
	assert.Equal(t, "1", c.UserID)
	assert.Equal(t, "current_user", c.User.Username)
	assert.Equal(t, "Great ball", c.Content)
	assert.Equal(t, 1, env.deliveries.increments)

	rec = env.do("POST", "/api/v1/deliveries/missing/comments", `{"content":"hi"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do("POST", "/api/v1/deliveries/78412_1/comments", `{"content":""}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do("POST", "/api/v1/deliveries/78412_1/comments", `not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVoteComment(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("POST", "/api/v1/comments/c1/vote", `{"vote":"up"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"commentId":"c1","upvotes":1,"downvotes":0,"userVote":"up"}`, rec.Body.String())

	rec = env.do("POST", "/api/v1/comments/c1/vote", `{"vote":"maybe"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do("POST", "/api/v1/comments/ghost/vote", `{"vote":"down"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatsRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/api/v1/stats/players", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"playerName":"Virat Kohli"`)

	rec = env.do("GET", "/api/v1/stats/teams", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"winPercentage":0`)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/api/v1/series?search=Ashes", "", false)
	assert.Contains(t, rec.Body.String(), `"name":"Ashes"`)

	rec = env.do("GET", "/api/v1/players?search=kohli", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = env.do("GET", "/api/v1/players/p1", "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do("GET", "/api/v1/players/broken", "", false)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestBackfillRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do("GET", "/api/v1/backfill/status", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"idle","message":"No active jobs","history":[]}`, rec.Body.String())

	rec = env.do("POST", "/api/v1/backfill", `{"match_id":"78412","dry_run":true}`, true)
	require.Equal(t, http.StatusAccepted, rec.Code)
	var body struct {
		Job backfill.Job `json:"job"`
	}
	decode(t, rec, &body)
	assert.Equal(t, []string{"78412"}, body.Job.MatchIDs)
	assert.Equal(t, backfill.JobStatusQueued, body.Job.Status)

	rec = env.do("POST", "/api/v1/backfill", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/matches", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRecoveryMiddleware(t *testing.T) {
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error","status":500}`, rec.Body.String())
}
