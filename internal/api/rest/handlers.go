package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fortuna/cricbase/internal/service"
	"github.com/fortuna/cricbase/internal/store"
)

// HealthChecker is anything that can report its own health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// StatusReporter exposes background task state on /health.
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	matches    *service.MatchService
	deliveries *service.DeliveryService
	comments   *service.CommentService
	stats      *service.StatsService
	catalog    *service.CatalogService

	checks    map[string]HealthChecker
	scheduler StatusReporter
}

// Services groups the handler's dependencies
type Services struct {
	Matches    *service.MatchService
	Deliveries *service.DeliveryService
	Comments   *service.CommentService
	Stats      *service.StatsService
	Catalog    *service.CatalogService
}

// NewHandler creates a new handler
func NewHandler(svc Services) *Handler {
	return &Handler{
		matches:    svc.Matches,
		deliveries: svc.Deliveries,
		comments:   svc.Comments,
		stats:      svc.Stats,
		catalog:    svc.Catalog,
		checks:     make(map[string]HealthChecker),
	}
}

// AddHealthCheck registers a dependency reported by /health
func (h *Handler) AddHealthCheck(name string, c HealthChecker) {
	h.checks[name] = c
}

// SetScheduler registers the poller whose state /health reports
func (h *Handler) SetScheduler(s StatusReporter) {
	h.scheduler = s
}

// Root returns the service banner
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "CricBase API",
		"version": "1.0.0",
	})
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	deps := make(map[string]string, len(h.checks))
	for name, c := range h.checks {
		if err := c.HealthCheck(ctx); err != nil {
			deps[name] = err.Error()
			status = "degraded"
			continue
		}
		deps[name] = "ok"
	}

	body := map[string]interface{}{
		"status":       status,
		"service":      "cricbase",
		"version":      "1.0.0",
		"dependencies": deps,
	}
	if h.scheduler != nil {
		body["scheduler"] = h.scheduler.GetStatus()
	}

	respondJSON(w, http.StatusOK, body)
}

// ListMatches returns matches, optionally filtered by status
func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	offset := queryInt(r, "offset", 0, 0, 1<<20)

	matches, err := h.matches.ListMatches(r.Context(), status, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch matches", err)
		return
	}

	respondJSON(w, http.StatusOK, matches)
}

// GetMatch returns one match
func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	match, err := h.matches.GetMatch(r.Context(), mux.Vars(r)["matchID"])
	if err != nil {
		respondServiceError(w, "Match not found", "Failed to fetch match", err)
		return
	}

	respondJSON(w, http.StatusOK, match)
}

// GetLiveDeliveries reads a match's ball feed, most recent ball first
func (h *Handler) GetLiveDeliveries(w http.ResponseWriter, r *http.Request) {
	var lastDocID int64
	if v := r.URL.Query().Get("lastDocId"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			lastDocID = n
		}
	}

	deliveries := h.deliveries.LiveDeliveries(r.Context(), mux.Vars(r)["matchID"], lastDocID)
	respondJSON(w, http.StatusOK, deliveries)
}

// GetDeliveryFeed returns the most recent stored deliveries
func (h *Handler) GetDeliveryFeed(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", service.DefaultFeedLimit, 1, 100)

	deliveries, err := h.deliveries.Feed(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch deliveries", err)
		return
	}

	respondJSON(w, http.StatusOK, deliveries)
}

// GetMatchDeliveries returns a match's stored deliveries in bowling order
func (h *Handler) GetMatchDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.deliveries.MatchDeliveries(r.Context(), mux.Vars(r)["matchID"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch deliveries", err)
		return
	}

	respondJSON(w, http.StatusOK, deliveries)
}

// GetDelivery returns one stored delivery
func (h *Handler) GetDelivery(w http.ResponseWriter, r *http.Request) {
	delivery, err := h.deliveries.GetDelivery(r.Context(), mux.Vars(r)["deliveryID"])
	if err != nil {
		respondServiceError(w, "Delivery not found", "Failed to fetch delivery", err)
		return
	}

	respondJSON(w, http.StatusOK, delivery)
}

// GetComments returns a delivery's comment threads
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	var userID string
	if user, ok := bearerUser(r); ok {
		userID = user.ID
	}

	thread, err := h.comments.Thread(r.Context(), mux.Vars(r)["deliveryID"], userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch comments", err)
		return
	}

	respondJSON(w, http.StatusOK, thread)
}

type createCommentRequest struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

// CreateComment adds a comment to a delivery
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	comment, err := h.comments.CreateComment(r.Context(), user, mux.Vars(r)["deliveryID"], req.Content, req.ParentID)
	if err != nil {
		respondServiceError(w, "Delivery not found", "Failed to create comment", err)
		return
	}

	respondJSON(w, http.StatusCreated, comment)
}

type voteRequest struct {
	Vote string `json:"vote"`
}

// VoteComment records an up or down vote on a comment
func (h *Handler) VoteComment(w http.ResponseWriter, r *http.Request) {
	user, _ := userFrom(r.Context())

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result, err := h.comments.Vote(r.Context(), user, mux.Vars(r)["commentID"], req.Vote)
	if err != nil {
		respondServiceError(w, "Comment not found", "Failed to record vote", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetPlayerStats returns the run-scoring leaderboard
func (h *Handler) GetPlayerStats(w http.ResponseWriter, r *http.Request) {
	players, err := h.stats.TopPlayers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch player stats", err)
		return
	}

	respondJSON(w, http.StatusOK, players)
}

// GetTeamStats returns team records
func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	teams, err := h.stats.Teams(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch team stats", err)
		return
	}

	respondJSON(w, http.StatusOK, teams)
}

// ListSeries searches series
func (h *Handler) ListSeries(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0, 0, 1<<20)
	respondJSON(w, http.StatusOK, h.catalog.Series(r.Context(), offset, r.URL.Query().Get("search")))
}

// ListPlayers searches players
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	offset := queryInt(r, "offset", 0, 0, 1<<20)
	respondJSON(w, http.StatusOK, h.catalog.Players(r.Context(), offset, r.URL.Query().Get("search")))
}

// GetPlayer returns a player's profile
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	info, err := h.catalog.PlayerInfo(r.Context(), mux.Vars(r)["playerID"])
	if err != nil {
		respondServiceError(w, "Player not found", "Failed to fetch player", err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

// queryInt reads an integer query parameter, falling back to def when it is
// missing or outside [lo, hi].
func queryInt(r *http.Request, key string, def, lo, hi int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < lo || n > hi {
		return def
	}
	return n
}

// respondServiceError maps service errors onto HTTP statuses
func respondServiceError(w http.ResponseWriter, notFound, failed string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, notFound, nil)
	case errors.Is(err, service.ErrInvalidVote), errors.Is(err, service.ErrInvalidComment):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrUpstream):
		respondError(w, http.StatusBadGateway, failed, err)
	default:
		respondError(w, http.StatusInternalServerError, failed, err)
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]interface{}{
		"error":  message,
		"status": status,
	}

	if err != nil {
		response["details"] = err.Error()
	}

	respondJSON(w, status, response)
}
