package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/evaluation-platform/internal/seed"
	"github.com/frahmantamala/evaluation-platform/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with roles, permissions and sample users",
	Long:  `Bootstrap an empty database with the permission catalogue, the roles and sample accounts. Does nothing when roles already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		setupLogger(cfg)

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := openGorm(db)
		if err != nil {
			return err
		}

		seeded, err := seed.NewSeeder(gdb, cfg.Security.BCryptCost, logger.L()).Run(context.Background())
		if err != nil {
			return err
		}
		if !seeded {
			fmt.Println("Database already seeded; nothing to do")
			return nil
		}

		fmt.Println("Seeded roles, permissions and sample users")
		return nil
	},
}
