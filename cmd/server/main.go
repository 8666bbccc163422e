package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"salon-booking/internal/auth"
	"salon-booking/internal/booking"
	"salon-booking/internal/cache"
	"salon-booking/internal/config"
	gweb "salon-booking/internal/grpcweb"
	"salon-booking/internal/handler"
	"salon-booking/internal/jobs"
	"salon-booking/internal/logging"
	"salon-booking/internal/metrics"
	"salon-booking/internal/middleware"
	"salon-booking/internal/migrate"
	pb "salon-booking/internal/salonpb"
	"salon-booking/internal/store"
	"salon-booking/internal/supabase"
	"salon-booking/internal/web"
)

func main() {
	var configFile string
	cmd := &cobra.Command{
		Use:           "salon-server",
		Short:         "Salon booking gRPC API, grpc-web bridge and web frontend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, nil)
			if err != nil {
				return err
			}
			log, err := logging.New(cfg.Log.Level, cfg.Log.Format, "salon-server")
			if err != nil {
				return err
			}
			defer log.Sync()

			if err := run(cmd.Context(), cfg, log); err != nil {
				log.Error("server stopped", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "path to a salon.yaml config file")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// deps is what the selected backend provides.
type deps struct {
	backend  booking.Backend
	accounts auth.Provider
	verifier auth.Verifier
	envReady bool
	jobs     *jobs.Runner
	close    func()
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	var d deps
	switch cfg.Backend {
	case config.BackendSupabase:
		d = supabaseDeps(cfg, log)
	default:
		d, err = postgresDeps(ctx, cfg, loc, log)
		if err != nil {
			return err
		}
	}
	defer d.close()

	m := metrics.New()
	opts := []booking.Option{booking.WithObserver(m.ObserveBackend)}
	if cfg.Redis.Addr != "" {
		rc, err := cache.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rc.Close()
		opts = append(opts, booking.WithCache(rc))
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}
	svc := booking.NewService(d.backend, loc, log, opts...)

	// grpc server
	rl := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	defer rl.Close()
	rl.OnLimit = m.RateLimited
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.Observe(m, log),
			middleware.RateLimit(rl),
			middleware.Auth(d.verifier),
		),
	)
	pb.RegisterSalonServiceServer(srv, handler.New(svc, d.accounts, log, handler.WithMetrics(m)))

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return err
	}
	go func() {
		log.Info("grpc listening", zap.String("port", cfg.GRPCPort))
		if err := srv.Serve(lis); err != nil {
			log.Error("grpc serve", zap.Error(err))
		}
	}()

	// grpc-web bridge forwards browser calls to the grpc port on localhost
	bridge, err := gweb.New("localhost:"+cfg.GRPCPort, log)
	if err != nil {
		return err
	}
	defer bridge.Close()

	site, err := web.New(svc, d.accounts, d.verifier, web.Options{
		CookieSecure: cfg.CookieSecure || strings.HasPrefix(cfg.BaseURL, "https://"),
		BaseURL:      cfg.BaseURL,
		Backend:      cfg.Backend,
		EnvReady:     d.envReady,
	}, log, web.WithMetrics(m), web.WithLimiter(rl), web.WithBridge(bridge.Handler()))
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           site,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info("web listening", zap.String("port", cfg.WebPort), zap.String("backend", cfg.Backend))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http serve", zap.Error(err))
		}
	}()

	if d.jobs != nil {
		if err := d.jobs.Start(); err != nil {
			return err
		}
	}

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	srv.GracefulStop()
	if d.jobs != nil {
		d.jobs.Stop(shutdownCtx)
	}
	return nil
}

func postgresDeps(ctx context.Context, cfg *config.Config, loc *time.Location, log *zap.Logger) (deps, error) {
	mr, err := migrate.New(cfg.DatabaseURL, log)
	if err != nil {
		return deps{}, err
	}
	if err := mr.Up(ctx); err != nil {
		return deps{}, err
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return deps{}, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return deps{}, err
	}
	log.Info("connected to postgres")

	st := store.New(pool)
	accounts := auth.NewLocal(st, cfg.JWTSecret, log,
		auth.WithResetURL(strings.TrimRight(cfg.BaseURL, "/")+"/auth/reset"),
		auth.WithResetSender(auth.LogSender{Log: log}),
	)
	return deps{
		backend:  st,
		accounts: accounts,
		verifier: auth.JWTVerifier{Secret: cfg.JWTSecret},
		envReady: true,
		jobs:     jobs.New(st, jobs.LogNotifier{Log: log, Loc: loc}, cfg.Jobs, loc, log),
		close:    pool.Close,
	}, nil
}

// supabaseDeps never fails: a missing environment serves the offline
// backend so the pages can say what is wrong.
func supabaseDeps(cfg *config.Config, log *zap.Logger) deps {
	c, err := supabase.New(supabase.Config{
		URL:     cfg.Supabase.URL,
		AnonKey: cfg.Supabase.AnonKey,
		Timeout: cfg.Supabase.Timeout,
		Logger:  log,
	})
	if err != nil {
		log.Warn("supabase unavailable", zap.Error(err))
		off := supabase.Offline{}
		return deps{backend: off, accounts: off, verifier: off, close: func() {}}
	}
	accounts := supabase.NewAccounts(c)
	return deps{
		backend:  supabase.NewBackend(c),
		accounts: accounts,
		verifier: accounts,
		envReady: true,
		close:    func() {},
	}
}
