package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/cricbase/internal/api/rest"
	"github.com/fortuna/cricbase/internal/backfill"
	"github.com/fortuna/cricbase/internal/cache"
	"github.com/fortuna/cricbase/internal/config"
	"github.com/fortuna/cricbase/internal/ingest"
	"github.com/fortuna/cricbase/internal/ingest/commentary"
	"github.com/fortuna/cricbase/internal/ingest/cricapi"
	"github.com/fortuna/cricbase/internal/ingest/livematches"
	"github.com/fortuna/cricbase/internal/publisher"
	"github.com/fortuna/cricbase/internal/scheduler"
	"github.com/fortuna/cricbase/internal/service"
	"github.com/fortuna/cricbase/internal/store"
	"github.com/fortuna/cricbase/internal/store/repository"
	"github.com/fortuna/cricbase/internal/teams"
)

const (
	serviceName    = "cricbase"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Cricket Match Data Service", serviceName, serviceVersion)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := store.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("✓ Connected to database")

	// Redis is optional: without it there is no list cache and no streams.
	redisCache := connectRedis(cfg.RedisURL, 5, 2*time.Second)
	if redisCache != nil {
		defer redisCache.Close()
	}

	// Providers
	resolver := teams.NewResolver(teams.DefaultTable())
	timeout := cfg.Providers.Timeout

	liveClient := livematches.NewClient(
		cfg.Providers.LiveMatchesURL,
		cfg.Providers.MatchStatisticsURL,
		timeout,
		livematches.NewNormalizer(resolver),
	)
	feedClient := commentary.NewClient(cfg.Providers.CommentaryURL, timeout)

	// Interfaces stay nil (not typed-nil) when the keyed provider is absent.
	var (
		cricSource ingest.CricAPISource
		directory  service.Directory
	)
	cricClient, err := cricapi.NewClient(cfg.Providers.CricketDataAPIBase, cfg.Providers.CricketDataAPIKey, timeout, cricapi.NewNormalizer())
	if err != nil {
		log.Printf("⚠️  Cricket data API disabled: %v", err)
	} else {
		cricSource, directory = cricClient, cricClient
		log.Println("✓ Cricket data API configured")
	}

	selector := ingest.NewSelector(liveClient, cricSource, timeout)

	// Repositories
	matchRepo := repository.NewMatchRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	userRepo := repository.NewUserRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	var (
		listCache service.ListCache
		streams   scheduler.Publisher
	)
	if redisCache != nil {
		listCache = redisCache
		streams = publisher.NewRedisStreamPublisher(redisCache.Client())
	}

	handler := rest.NewHandler(rest.Services{
		Matches:    service.NewMatchService(selector, matchRepo, listCache, cfg.CacheTTL),
		Deliveries: service.NewDeliveryService(feedClient, deliveryRepo),
		Comments:   service.NewCommentService(commentRepo, deliveryRepo, userRepo),
		Stats:      service.NewStatsService(statsRepo),
		Catalog:    service.NewCatalogService(directory),
	})
	handler.AddHealthCheck("database", db)
	if redisCache != nil {
		handler.AddHealthCheck("redis", redisCache)
	}

	// Start scheduler in background
	sched := scheduler.NewOrchestrator(selector, feedClient, matchRepo, deliveryRepo, streams, &scheduler.Config{
		LivePollInterval:     cfg.Scheduler.LivePollInterval,
		EnableLivePolling:    cfg.Scheduler.EnableLivePolling,
		MaxConcurrentFeeds:   4,
		MaxConsecutiveErrors: 5,
	})
	handler.SetScheduler(sched)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Start(ctx)

	log.Println("✓ Scheduler started")

	// Initialize backfill service
	backfillService := backfill.NewService(backfill.NewRunner(feedClient, deliveryRepo), nil)
	backfillService.Start()

	log.Println("✓ Backfill service started")

	// Initialize REST API server
	restServer := rest.NewServer(cfg.RESTPort, handler, backfillService)
	go func() {
		log.Printf("Starting REST API server on port %s", cfg.RESTPort)
		if err := restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ CricBase v%s started successfully", serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", cfg.RESTPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down CricBase gracefully...")

	// Graceful shutdown
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}
	if err := backfillService.Shutdown(shutdownCtx); err != nil {
		log.Printf("Backfill shutdown error: %v", err)
	}

	log.Println("CricBase stopped")
}

// connectRedis retries the connection a few times and returns nil when Redis
// stays unreachable.
func connectRedis(url string, maxRetries int, retryDelay time.Duration) *cache.RedisCache {
	log.Println("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err := cache.NewRedisCache(url)
		if err == nil {
			log.Println("✓ Connected to Redis")
			return redisCache
		}

		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
			continue
		}
		log.Printf("⚠️  Redis unavailable after %d attempts: %v (continuing without cache and streams)", maxRetries, err)
	}
	return nil
}
