// Command migrate creates the Spanner instance and database when missing
// (emulator-friendly) and applies the DDL files under migrations/ in order.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	database "cloud.google.com/go/spanner/admin/database/apiv1"
	"cloud.google.com/go/spanner/admin/database/apiv1/databasepb"
	instance "cloud.google.com/go/spanner/admin/instance/apiv1"
	"cloud.google.com/go/spanner/admin/instance/apiv1/instancepb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type config struct {
	projectID  string
	instanceID string
	databaseID string
	migrateDir string
}

func (c config) instancePath() string {
	return fmt.Sprintf("projects/%s/instances/%s", c.projectID, c.instanceID)
}

func (c config) databasePath() string {
	return fmt.Sprintf("%s/databases/%s", c.instancePath(), c.databaseID)
}

func main() {
	cfg := config{}
	flag.StringVar(&cfg.projectID, "project", envOr("SPANNER_PROJECT_ID", "test-project"), "GCP project ID")
	flag.StringVar(&cfg.instanceID, "instance", envOr("SPANNER_INSTANCE_ID", "dev-instance"), "Spanner instance ID")
	flag.StringVar(&cfg.databaseID, "database", envOr("SPANNER_DATABASE_ID", "teamsync-db"), "Spanner database ID")
	flag.StringVar(&cfg.migrateDir, "migrations", "migrations", "directory containing migration SQL files")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if host := os.Getenv("SPANNER_EMULATOR_HOST"); host != "" {
		logger.Info("using spanner emulator", "host", host)
	}

	if err := run(context.Background(), logger, cfg); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("migrations applied", "database", cfg.databasePath())
}

func run(ctx context.Context, logger *slog.Logger, cfg config) error {
	if err := ensureInstance(ctx, logger, cfg); err != nil {
		return fmt.Errorf("ensure instance: %w", err)
	}
	if err := ensureDatabase(ctx, logger, cfg); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}
	if err := applyMigrations(ctx, logger, cfg); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func ensureInstance(ctx context.Context, logger *slog.Logger, cfg config) error {
	admin, err := instance.NewInstanceAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("create instance admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetInstance(ctx, &instancepb.GetInstanceRequest{Name: cfg.instancePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		logger.Warn("instance check returned unexpected error", "error", err)
		return nil
	}

	logger.Info("creating instance", "instance", cfg.instanceID)
	op, err := admin.CreateInstance(ctx, &instancepb.CreateInstanceRequest{
		Parent:     fmt.Sprintf("projects/%s", cfg.projectID),
		InstanceId: cfg.instanceID,
		Instance: &instancepb.Instance{
			Config:      fmt.Sprintf("projects/%s/instanceConfigs/emulator-config", cfg.projectID),
			DisplayName: "Development Instance",
			NodeCount:   1,
		},
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("create instance: %w", err)
	}

	if _, err := op.Wait(ctx); err != nil {
		// The emulator can report completion oddly; only surface real failures.
		if status.Code(err) != codes.AlreadyExists {
			logger.Warn("instance creation wait", "error", err)
		}
	}
	return nil
}

func ensureDatabase(ctx context.Context, logger *slog.Logger, cfg config) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("create database admin client: %w", err)
	}
	defer admin.Close()

	_, err = admin.GetDatabase(ctx, &databasepb.GetDatabaseRequest{Name: cfg.databasePath()})
	if err == nil {
		return nil
	}
	if status.Code(err) != codes.NotFound {
		if os.Getenv("SPANNER_EMULATOR_HOST") != "" {
			logger.Warn("database check failed, continuing on emulator", "error", err)
			return nil
		}
		return fmt.Errorf("check database: %w", err)
	}

	logger.Info("creating database", "database", cfg.databaseID)
	op, err := admin.CreateDatabase(ctx, &databasepb.CreateDatabaseRequest{
		Parent:          cfg.instancePath(),
		CreateStatement: fmt.Sprintf("CREATE DATABASE `%s`", cfg.databaseID),
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil
		}
		return fmt.Errorf("create database: %w", err)
	}
	if _, err := op.Wait(ctx); err != nil {
		return fmt.Errorf("wait for database creation: %w", err)
	}
	return nil
}

func applyMigrations(ctx context.Context, logger *slog.Logger, cfg config) error {
	admin, err := database.NewDatabaseAdminClient(ctx)
	if err != nil {
		return fmt.Errorf("create database admin client: %w", err)
	}
	defer admin.Close()

	// Glob returns lexically sorted paths, so numeric file prefixes
	// determine apply order.
	files, err := filepath.Glob(filepath.Join(cfg.migrateDir, "*.sql"))
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("no migration files found", "dir", cfg.migrateDir)
		return nil
	}

	for _, file := range files {
		name := filepath.Base(file)

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		op, err := admin.UpdateDatabaseDdl(ctx, &databasepb.UpdateDatabaseDdlRequest{
			Database:   cfg.databasePath(),
			Statements: splitDDL(string(content)),
		})
		if err != nil {
			return fmt.Errorf("start DDL update for %s: %w", name, err)
		}
		if err := op.Wait(ctx); err != nil {
			return fmt.Errorf("apply DDL for %s: %w", name, err)
		}

		logger.Info("applied migration", "file", name)
	}
	return nil
}

// splitDDL strips -- comments and splits on semicolons; the admin API wants
// one DDL statement per entry.
func splitDDL(content string) []string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
