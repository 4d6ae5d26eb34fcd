// Command reap_outbox deletes processed outbox rows past their retention
// window. The same logic runs on a schedule inside the server; this binary
// exists for ad-hoc operational cleanup, with -dry-run to preview the
// damage first. Unprocessed rows are never touched, whatever their
// fail_count: a stuck row is an investigation, not garbage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/dawn-chorus/teamsync-service/internal/models/m_outbox"
	"github.com/dawn-chorus/teamsync-service/internal/outbox"
	"github.com/dawn-chorus/teamsync-service/internal/pkg/query"
)

type config struct {
	spannerDB     string
	retentionDays int
	dryRun        bool
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.spannerDB, "database", "", "Spanner database (required, format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&cfg.retentionDays, "retention", 30, "Retention days for processed outbox rows")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	if cfg.spannerDB == "" {
		log.Fatal("Error: -database flag is required")
	}

	ctx := context.Background()

	if err := reap(ctx, cfg); err != nil {
		log.Fatalf("Reap failed: %v", err)
	}
}

func reap(ctx context.Context, cfg config) error {
	client, err := spanner.NewClient(ctx, cfg.spannerDB)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	cutoff := time.Now().UTC().AddDate(0, 0, -cfg.retentionDays)
	log.Printf("Reaping processed outbox rows older than %s (retention: %d days, dry-run: %v)",
		cutoff.Format(time.RFC3339), cfg.retentionDays, cfg.dryRun)

	if cfg.dryRun {
		count, err := countReapable(ctx, client, cutoff)
		if err != nil {
			return err
		}
		log.Printf("DRY RUN: would delete %d processed rows", count)
		log.Println("Run without -dry-run to actually delete them")
		return nil
	}

	store := outbox.NewSpannerStore(client)
	deleted, err := store.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	log.Printf("Deleted %d processed rows", deleted)
	return nil
}

func countReapable(ctx context.Context, client *spanner.Client, cutoff time.Time) (int64, error) {
	stmt := query.From(m_outbox.TableName).
		Where(query.IsNotNull(m_outbox.ProcessedUTC)).
		Where(query.Lt(m_outbox.ProcessedUTC, cutoff)).
		Count().
		Build()

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err == iterator.Done {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count reapable rows: %w", err)
	}

	var count int64
	if err := row.Columns(&count); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}

	return count, nil
}
