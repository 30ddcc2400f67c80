// Command migrate applies the SQL files in a migrations directory in lexical order.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"recipe-costing/internal/config"
	"recipe-costing/internal/db"
	"recipe-costing/internal/logger"
)

var migrationsDir string

var rootCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Apply SQL migrations to DATABASE_URL",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		cfg := config.C()
		if err := logger.Init(cfg.Logger.Level(), cfg.Logger.AsJSON()); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return apply(cmd.Context(), cfg.Postgres.DSN(), migrationsDir)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&migrationsDir, "dir", "d", "migrations", "directory holding *.sql files")
}

// migrationFiles lists the *.sql files in dir sorted by name.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func apply(ctx context.Context, dsn, dir string) error {
	files, err := migrationFiles(dir)
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	for _, path := range files {
		sqlFile, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := pool.Exec(ctx, string(sqlFile)); err != nil {
			return fmt.Errorf("migration %s failed: %w", filepath.Base(path), err)
		}
		logger.Info(ctx, "migration applied", logger.String("file", filepath.Base(path)))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
