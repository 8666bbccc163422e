// Package jobs runs the periodic maintenance of the postgres backend: the
// expired token purge and the appointment reminder sweep.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"salon-booking/internal/config"
	"salon-booking/internal/model"
)

const runTimeout = 2 * time.Minute

type Store interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
	DueReminders(ctx context.Context, within time.Duration) ([]model.Reminder, error)
	MarkReminded(ctx context.Context, appointmentID string) error
}

// Notifier delivers one reminder. A reminder is marked as sent only after
// Notify returns nil.
type Notifier interface {
	Notify(ctx context.Context, r model.Reminder) error
}

// LogNotifier writes reminders to the log instead of sending them.
type LogNotifier struct {
	Log *zap.Logger
	Loc *time.Location
}

func (n LogNotifier) Notify(_ context.Context, r model.Reminder) error {
	start := r.StartTime
	if n.Loc != nil {
		start = start.In(n.Loc)
	}
	n.Log.Info("appointment reminder",
		zap.String("appointment_id", r.AppointmentID),
		zap.String("user_id", r.UserID),
		zap.String("name", r.FullName),
		zap.String("phone", r.Phone),
		zap.String("service_id", r.ServiceID),
		zap.String("start", start.Format("2006-01-02 15:04")),
	)
	return nil
}

type Runner struct {
	store    Store
	notifier Notifier
	cfg      config.JobsConfig
	log      *zap.Logger
	cron     *cron.Cron
}

func New(st Store, n Notifier, cfg config.JobsConfig, loc *time.Location, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	cl := cronLogger{log.Sugar()}
	return &Runner{
		store:    st,
		notifier: n,
		cfg:      cfg,
		log:      log,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// Start schedules both jobs. An empty spec disables that job.
func (r *Runner) Start() error {
	if r.cfg.PurgeSpec != "" {
		if _, err := r.cron.AddFunc(r.cfg.PurgeSpec, r.runPurge); err != nil {
			return fmt.Errorf("purge schedule %q: %w", r.cfg.PurgeSpec, err)
		}
	}
	if r.cfg.ReminderSpec != "" {
		if _, err := r.cron.AddFunc(r.cfg.ReminderSpec, r.runRemind); err != nil {
			return fmt.Errorf("reminder schedule %q: %w", r.cfg.ReminderSpec, err)
		}
	}
	r.cron.Start()
	r.log.Info("jobs scheduled", zap.String("purge", r.cfg.PurgeSpec), zap.String("reminders", r.cfg.ReminderSpec))
	return nil
}

// Stop waits for running jobs or for ctx, whichever ends first.
func (r *Runner) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *Runner) runPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := r.Purge(ctx); err != nil {
		r.log.Error("token purge failed", zap.Error(err))
	}
}

func (r *Runner) runRemind() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := r.Remind(ctx); err != nil {
		r.log.Error("reminder sweep failed", zap.Error(err))
	}
}

func (r *Runner) Purge(ctx context.Context) (int64, error) {
	n, err := r.store.PurgeExpiredTokens(ctx)
	if err != nil {
		return 0, err
	}
	r.log.Info("expired tokens purged", zap.Int64("rows", n))
	return n, nil
}

// Remind notifies every due reminder and returns how many were sent. A failed
// notification is logged and retried on the next sweep.
func (r *Runner) Remind(ctx context.Context) (int, error) {
	window := r.cfg.ReminderWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	due, err := r.store.DueReminders(ctx, window)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, rem := range due {
		if err := r.notifier.Notify(ctx, rem); err != nil {
			r.log.Warn("reminder not sent", zap.String("appointment_id", rem.AppointmentID), zap.Error(err))
			continue
		}
		if err := r.store.MarkReminded(ctx, rem.AppointmentID); err != nil {
			return sent, fmt.Errorf("mark reminded %s: %w", rem.AppointmentID, err)
		}
		sent++
	}
	if len(due) > 0 {
		r.log.Info("reminder sweep", zap.Int("due", len(due)), zap.Int("sent", sent))
	}
	return sent, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct{ s *zap.SugaredLogger }

func (l cronLogger) Info(msg string, kv ...interface{}) { l.s.Debugw("cron: "+msg, kv...) }

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.s.Errorw("cron: "+msg, append(kv, "error", err)...)
}
