package rest

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fortuna/cricbase/internal/backfill"
)

// Server represents the REST API server
type Server struct {
	port   string
	server *http.Server
}

// NewServer creates a new REST API server
func NewServer(port string, handler *Handler, backfillSvc *backfill.Service) *Server {
	return &Server{
		port: port,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      NewRouter(handler, NewBackfillHandler(backfillSvc)),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// NewRouter builds the route table wrapped in the middleware chain
func NewRouter(handler *Handler, backfillHandler *BackfillHandler) http.Handler {
	router := mux.NewRouter()

	// Apply middleware
	router.Use(RecoveryMiddleware)
	router.Use(LoggingMiddleware)

	// Health check
	router.HandleFunc("/", handler.Root).Methods("GET")
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// API v1 routes
	api := router.PathPrefix("/api/v1").Subrouter()

	// Matches
	api.HandleFunc("/matches", handler.ListMatches).Methods("GET")
	api.HandleFunc("/matches/{matchID}", handler.GetMatch).Methods("GET")
	api.HandleFunc("/matches/{matchID}/deliveries/live", handler.GetLiveDeliveries).Methods("GET")

	// Deliveries (static paths before {deliveryID})
	api.HandleFunc("/deliveries/feed", handler.GetDeliveryFeed).Methods("GET")
	api.HandleFunc("/deliveries/match/{matchID}", handler.GetMatchDeliveries).Methods("GET")
	api.HandleFunc("/deliveries/{deliveryID}", handler.GetDelivery).Methods("GET")

	// Comments
	api.HandleFunc("/deliveries/{deliveryID}/comments", handler.GetComments).Methods("GET")
	api.HandleFunc("/deliveries/{deliveryID}/comments", RequireAuth(handler.CreateComment)).Methods("POST")
	api.HandleFunc("/comments/{commentID}/vote", RequireAuth(handler.VoteComment)).Methods("POST")

	// Stats
	api.HandleFunc("/stats/players", handler.GetPlayerStats).Methods("GET")
	api.HandleFunc("/stats/teams", handler.GetTeamStats).Methods("GET")

	// Series and players from the keyed provider
	api.HandleFunc("/series", handler.ListSeries).Methods("GET")
	api.HandleFunc("/players", handler.ListPlayers).Methods("GET")
	api.HandleFunc("/players/{playerID}", handler.GetPlayer).Methods("GET")

	// Backfill operations
	if backfillHandler != nil {
		api.HandleFunc("/backfill", RequireAuth(backfillHandler.HandleBackfillRequest)).Methods("POST")
		api.HandleFunc("/backfill/status", backfillHandler.HandleBackfillStatus).Methods("GET")
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// RecoveryMiddleware turns handler panics into 500 JSON responses
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[rest] ❌ panic serving %s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				respondError(w, http.StatusInternalServerError, "Internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs method, path, status and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[rest] %s %s %d %v", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
