package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solestash/solestash/internal/config"
	"github.com/solestash/solestash/internal/db"
)

var down bool

// Cmd applies the embedded schema migrations.
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		url := cfg.DatabaseURL()

		if down {
			if err := db.Down(url); err != nil {
				return err
			}
			fmt.Println("Rolled back all migrations.")
			return nil
		}

		if err := db.Run(url); err != nil {
			return err
		}

		version, dirty, err := db.Version(url)
		if err != nil {
			return err
		}
		fmt.Printf("Schema at version %d (dirty=%v).\n", version, dirty)
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&down, "down", false, "roll back all migrations")
}
