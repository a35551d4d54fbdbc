package main

import (
	"context"
	"os"

	"clubhub-backend/bootstrap"
	"clubhub-backend/internal/application/seed"
	"clubhub-backend/internal/config"
	"clubhub-backend/internal/infrastructure/database"
	"clubhub-backend/internal/interfaces/router"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var cfg *config.Config

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clubhub",
		Short:        "Club transfer market API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			bootstrap.ConfigureLogging(cfg)
			return nil
		},
	}
	root.AddCommand(serveCmd(), migrateCmd(), seedCmd())
	return root
}

func serveCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				cfg.Port = port
			}
			app, db, rdb, err := router.CreateApp(cfg)
			if err != nil {
				return err
			}
			if db != nil {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				if err := sqlDB.Ping(); err != nil {
					return err
				}
				log.Info().Str("driver", cfg.DatabaseDriver).Msg("database connected")
			}
			if err := rdb.Ping(context.Background()).Err(); err != nil {
				return err
			}
			log.Info().Msg("redis connected")
			log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server running")
			return app.Listen(":" + cfg.Port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func openDB() (*gorm.DB, error) {
	return database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			log.Info().Int("tables", len(database.Models())).Msg("migration complete")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and optional demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			res, err := seed.Run(cmd.Context(), db, seed.Options{AdminPassword: cfg.SeedAdminPassword, Demo: demo})
			if err != nil {
				return err
			}
			log.Info().Bool("admin_created", res.AdminCreated).Int("clubs", len(res.Clubs)).
				Strs("users", res.Users).Msg("seed complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "also create demo clubs, managers and a player")
	return cmd
}
