// Package cli implements stampctl, a command-line front end to the stamp
// catalog that works directly against the SQLite file.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rwreynolds/stampcollect/internal/config"
	"github.com/rwreynolds/stampcollect/internal/database"
	"github.com/rwreynolds/stampcollect/internal/logger"
	"github.com/rwreynolds/stampcollect/internal/services"
)

// app carries the state shared by every subcommand for one invocation
type app struct {
	dbPath  string
	verbose bool

	db      *gorm.DB
	service *services.StampService
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "stampctl",
		Short: "Manage a stamp collection catalog",
		Long: `stampctl reads and edits the stamp catalog stored in a SQLite file.

The database path comes from --db, or DB_PATH (environment or .env), or
defaults to ./stamps.db. The file and its table are created on first use.

Examples:
  # List every stamp with its id
  stampctl list

  # Find used US stamps from the 1930s
  stampctl search --country "United States" --year-from 1930 --year-to 1939 --used-only

  # Record a new stamp
  stampctl add --scott 65 --description "Washington 3c" --qty-mint 2 --value-mint 1.75

  # Move the catalog through a spreadsheet
  stampctl export --format xlsx --out stamps.xlsx
  stampctl import stamps.csv`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}

	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "Path to the SQLite database (default from DB_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log store operations to stderr")

	rootCmd.AddCommand(
		a.listCmd(),
		a.searchCmd(),
		a.addCmd(),
		a.updateCmd(),
		a.deleteCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.importCmd(),
	)

	return rootCmd
}

// Execute runs stampctl with os.Args
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dbPath := cfg.Database.Path
	if a.dbPath != "" {
		dbPath = a.dbPath
	}

	log := zap.NewNop()
	if a.verbose {
		cfg.Log.Format = "console"
		if log, err = logger.New(cfg); err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
	}

	a.db, err = database.Open(dbPath, database.Options{
		LogLevel: database.ParseLogLevel(cfg.Database.LogLevel),
		Logger:   log,
	})
	if err != nil {
		return err
	}

	a.service, err = services.NewStampService(database.NewStampStore(a.db), cfg.Search.CacheSize, log)
	return err
}

func (a *app) close(*cobra.Command, []string) error {
	if a.db == nil {
		return nil
	}
	return database.Close(a.db)
}
