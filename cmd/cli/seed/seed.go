package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/solestash/solestash/internal/auth"
	"github.com/solestash/solestash/internal/config"
	"github.com/solestash/solestash/internal/db"
	"github.com/solestash/solestash/internal/inventory"
	"github.com/solestash/solestash/internal/repo"
	seeder "github.com/solestash/solestash/internal/seed"
)

var (
	username string
	email    string
	password string
	pairs    int
	randSeed int64
)

// Cmd creates a demo account with a generated collection.
var Cmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo user with a randomized shoe collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		database, err := db.Connect(cfg.DSN(), cfg.DBMaxOpenConns, cfg.DBMaxIdleConns)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer database.Close()

		users := repo.NewUserRepo(database)
		shoes := repo.NewShoeRepo(database)
		authSvc := auth.New(users, []byte(cfg.JWTSecret), time.Duration(cfg.JWTExpireHours)*time.Hour)

		if randSeed == 0 {
			randSeed = time.Now().UnixNano()
		}
		rng := rand.New(rand.NewSource(randSeed))

		res, err := seeder.Run(authSvc, inventory.NewMutator(shoes), username, email, password, pairs, rng)
		if err != nil {
			return err
		}

		fmt.Printf("Created user %q (id %d) with %d pairs.\n", res.User.Username, res.User.ID, res.Pairs)
		return nil
	},
}

func init() {
	Cmd.Flags().StringVar(&username, "username", "demo", "username for the demo account")
	Cmd.Flags().StringVar(&email, "email", "demo@example.com", "email for the demo account")
	Cmd.Flags().StringVar(&password, "password", "demo-password", "password for the demo account")
	Cmd.Flags().IntVar(&pairs, "pairs", 20, "number of pairs to generate")
	Cmd.Flags().Int64Var(&randSeed, "seed", 0, "random seed (0 uses the clock)")
}
