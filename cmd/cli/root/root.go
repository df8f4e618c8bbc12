package root

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/solestash/solestash/cmd/cli/migrate"
	"github.com/solestash/solestash/cmd/cli/seed"
	"github.com/solestash/solestash/internal/auth"
	"github.com/solestash/solestash/internal/config"
	"github.com/solestash/solestash/internal/db"
	"github.com/solestash/solestash/internal/inventory"
	"github.com/solestash/solestash/internal/prompt"
	"github.com/solestash/solestash/internal/repo"
	"github.com/solestash/solestash/internal/shell"
)

// RootCmd runs the interactive console by default; migrate and seed
// are subcommands.
var RootCmd = &cobra.Command{
	Use:   "solestash",
	Short: "SoleStash shoe collection manager",
	Long:  "Console manager for a personal shoe collection backed by PostgreSQL.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell()
	},
}

func init() {
	RootCmd.AddCommand(migrate.Cmd)
	RootCmd.AddCommand(seed.Cmd)
}

// runShell opens one database handle for the session, wires the
// services over it, and hands control to the menu loop. The handle is
// closed when the session ends; a failed connection at startup is the
// only fatal error.
func runShell() error {
	cfg := config.Load()
	setupLogger(cfg)

	database, err := db.Connect(cfg.DSN(), cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()
	slog.Info("connected to database", "host", cfg.DBHost, "db", cfg.DBName)

	users := repo.NewUserRepo(database)
	shoes := repo.NewShoeRepo(database)

	authSvc := auth.New(users, []byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)
	sh := shell.New(
		prompt.New(os.Stdin, os.Stdout),
		os.Stdout,
		authSvc,
		inventory.NewSelector(shoes),
		inventory.NewMutator(shoes),
		inventory.NewLister(shoes),
	)
	return sh.Run()
}

// setupLogger configures slog for process lifecycle messages. User
// interaction goes straight to stdout; the structured log covers
// startup and shutdown only.
func setupLogger(cfg config.Config) {
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// GetRoot returns the root command for Execute.
func GetRoot() *cobra.Command {
	return RootCmd
}
