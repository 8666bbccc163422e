// Command salonctl is the admin CLI: migrations, the stylist roster, backend
// checks and the maintenance jobs.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salon-booking/internal/config"
	"salon-booking/internal/logging"
	"salon-booking/internal/store"
)

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	configFile  string
	databaseURL string
	logLevel    string

	cfg *config.Config
	log *zap.Logger
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	root := &cobra.Command{
		Use:           "salonctl",
		Short:         "Administer the salon booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a salon.yaml config file")
	root.PersistentFlags().StringVar(&a.databaseURL, "database-url", "", "postgres DSN (overrides DATABASE_URL)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	root.AddCommand(
		a.migrateCmd(),
		a.stylistsCmd(),
		a.pingCmd(),
		a.serveJobsCmd(),
	)
	return root
}

// load resolves the configuration once flags are parsed. Flags win over the
// environment and the config file.
func (a *app) load(cmd *cobra.Command) error {
	overrides := map[string]any{}
	if cmd.Flags().Changed("database-url") {
		overrides["database_url"] = a.databaseURL
	}
	if cmd.Flags().Changed("log-level") {
		overrides["log.level"] = a.logLevel
	}
	cfg, err := config.Load(a.configFile, overrides)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log.Level, "console", "salonctl")
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

// openStore connects to postgres. The returned func closes the pool.
func (a *app) openStore(ctx context.Context) (*store.Store, func(), error) {
	if a.cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is not set")
	}
	pool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	return store.New(pool), pool.Close, nil
}
