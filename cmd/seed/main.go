package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/oksasatya/storefront-api/config"
	"github.com/oksasatya/storefront-api/internal/seed"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	var (
		dsn     string
		timeout time.Duration
		db      *sql.DB
	)

	root := &cobra.Command{
		Use:          "seed",
		Short:        "Seed the storefront database with demo data",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			db, err = sql.Open("pgx", dsn)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if db != nil {
				_ = db.Close()
			}
		},
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", cfg.PostgresDSN(), "postgres connection string")
	root.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "overall seeding timeout")

	step := func(use, short string, run func(*seed.Seeder, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				return run(seed.New(db, logger), ctx)
			},
		}
	}
	root.AddCommand(
		step("all", "Seed users, catalog and content", (*seed.Seeder).All),
		step("users", "Seed the admin and customer accounts", (*seed.Seeder).Users),
		step("catalog", "Seed demo categories and products", (*seed.Seeder).Catalog),
		step("content", "Seed the about page and a welcome post", (*seed.Seeder).Content),
	)

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}
