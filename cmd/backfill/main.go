package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fortuna/cricbase/internal/backfill"
	"github.com/fortuna/cricbase/internal/config"
	"github.com/fortuna/cricbase/internal/ingest/commentary"
	"github.com/fortuna/cricbase/internal/store"
	"github.com/fortuna/cricbase/internal/store/repository"
)

const (
	appName    = "cricbase-backfill"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	var (
		dsn     = flag.String("dsn", cfg.DatabaseURL, "Postgres DSN")
		feedURL = flag.String("feed-url", cfg.Providers.CommentaryURL, "Ball feed URL")
		matches = flag.String("match", "", "Match key to backfill (comma-separated for several)")
		dryRun  = flag.Bool("dry-run", false, "Dry run (do not write to DB)")
	)

	flag.Parse()

	spec := backfill.JobSpec{DryRun: *dryRun}
	for _, id := range strings.Split(*matches, ",") {
		if id = strings.TrimSpace(id); id != "" {
			spec.MatchIDs = append(spec.MatchIDs, id)
		}
	}
	if len(spec.MatchIDs) == 0 {
		log.Fatalf("Specify --match")
	}

	db, err := store.NewDatabase(*dsn)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	runner := backfill.NewRunner(commentary.NewClient(*feedURL, cfg.Providers.Timeout), repository.NewDeliveryRepository(db))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runner.Run(ctx, spec, &consoleReporter{dryRun: *dryRun}); err != nil {
		log.Fatalf("backfill failed: %v", err)
	}

	log.Println("✓ Backfill completed successfully")
}

type consoleReporter struct {
	dryRun bool
}

func (c *consoleReporter) OnJobStart(spec backfill.JobSpec) {
	log.Printf("Starting backfill of %d matches (dry_run=%v)", len(spec.MatchIDs), c.dryRun)
}

func (c *consoleReporter) OnMatchStart(matchID string, index int, total int) {
	log.Printf("[%d/%d] %s", index+1, total, matchID)
}

func (c *consoleReporter) OnPage(matchID string, page int, fresh int) {
	log.Printf("  page %d: %d new deliveries", page, fresh)
}

func (c *consoleReporter) OnMatchProcessed(matchID string, inserted int) {
	log.Printf("Processed match %s (%d inserted)", matchID, inserted)
}

func (c *consoleReporter) OnJobComplete() {
	log.Println("Job complete")
}

func (c *consoleReporter) OnJobError(err error) {
	log.Printf("Job error: %v", err)
}
