package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"salon-booking/internal/cache"
	"salon-booking/internal/config"
	"salon-booking/internal/jobs"
	"salon-booking/internal/supabase"
)

func (a *app) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured backend and cache answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			out := cmd.OutOrStdout()

			switch a.cfg.Backend {
			case config.BackendSupabase:
				c, err := supabase.New(supabase.Config{
					URL:     a.cfg.Supabase.URL,
					AnonKey: a.cfg.Supabase.AnonKey,
					Timeout: a.cfg.Supabase.Timeout,
					Retries: 1,
					Logger:  a.log,
				})
				if err != nil {
					return err
				}
				if err := supabase.NewBackend(c).Ping(ctx); err != nil {
					return fmt.Errorf("supabase: %w", err)
				}
				fmt.Fprintln(out, "supabase: ok")
			default:
				// openStore pings before returning
				_, done, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				done()
				fmt.Fprintln(out, "postgres: ok")
			}

			if a.cfg.Redis.Addr != "" {
				rc, err := cache.Dial(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB)
				if err != nil {
					return err
				}
				rc.Close()
				fmt.Fprintln(out, "redis: ok")
			}
			return nil
		},
	}
}

func (a *app) serveJobsCmd() *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "serve-jobs",
		Short: "Run the token purge and reminder sweep on their schedules",
		Long: "Runs the maintenance jobs of the postgres backend until interrupted. " +
			"Use it when the server runs with jobs disabled or on more than one host.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Backend != config.BackendPostgres {
				return fmt.Errorf("jobs need the postgres backend, configured backend is %q", a.cfg.Backend)
			}
			loc, err := a.cfg.Location()
			if err != nil {
				return err
			}
			st, done, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			r := jobs.New(st, jobs.LogNotifier{Log: a.log, Loc: loc}, a.cfg.Jobs, loc, a.log)
			if once {
				n, err := r.Purge(cmd.Context())
				if err != nil {
					return err
				}
				sent, err := r.Remind(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "purged %d tokens, sent %d reminders\n", n, sent)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			if err := r.Start(); err != nil {
				return err
			}
			<-ctx.Done()
			a.log.Info("stopping jobs")

			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			r.Stop(stopCtx)
			a.log.Info("jobs stopped", zap.Bool("clean", stopCtx.Err() == nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "run both jobs once and exit")
	return cmd
}
