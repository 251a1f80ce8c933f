// Package reminder runs the background job that notifies users about tasks
// due the next calendar day. One scan runs immediately on start and then once
// per interval for the life of the process; the cadence is relative to
// process start, not pinned to a wall-clock hour.
package reminder

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/janvolk/upkeep/internal/store"
)

// DefaultInterval is the time between scans.
const DefaultInterval = 24 * time.Hour

// Notifier delivers one reminder. The reference implementation logs it;
// swapping in an email or push sender only requires implementing this.
type Notifier interface {
	Notify(ctx context.Context, r store.Reminder) error
}

// LogNotifier records reminders as log lines.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, r store.Reminder) error {
	slog.Info("reminder: task due tomorrow",
		"recipient", r.Email, "task", r.Title, "due", r.Due.Format("2006-01-02"))
	return nil
}

// Job is the process-wide reminder job handle. Create it once at startup and
// start it at most once; it runs until its context is cancelled.
type Job struct {
	DB       *sql.DB
	Notifier Notifier
	Interval time.Duration

	started atomic.Bool
}

// New returns a job with the default interval.
func New(db *sql.DB, n Notifier) *Job {
	return &Job{DB: db, Notifier: n, Interval: DefaultInterval}
}

// Start launches the background loop. A second call returns an error instead
// of spawning a concurrent instance.
func (j *Job) Start(ctx context.Context) error {
	if !j.started.CompareAndSwap(false, true) {
		return errors.New("reminder job already started")
	}
	go j.run(ctx)
	return nil
}

func (j *Job) run(ctx context.Context) {
	slog.Info("reminder job started", "interval", j.Interval)
	timer := time.NewTimer(0) // first scan runs immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder job stopped")
			return
		case <-timer.C:
		}

		// A failed scan must never kill the loop; the next one runs after
		// the normal interval, with no faster retry and no backoff.
		if err := j.scan(ctx, time.Now()); err != nil {
			slog.Warn("reminder scan failed", "error", err)
		}

		timer.Reset(j.Interval)
	}
}

// scan finds every pending task due the day after today and emits one
// notification per match. Delivery failures are logged and skipped.
func (j *Job) scan(ctx context.Context, today time.Time) error {
	tomorrow := today.AddDate(0, 0, 1)

	reminders, err := store.DueReminders(ctx, j.DB, tomorrow)
	if err != nil {
		return err
	}

	for _, r := range reminders {
		if err := j.Notifier.Notify(ctx, r); err != nil {
			slog.Warn("reminder delivery failed",
				"recipient", r.Email, "task", r.Title, "error", err)
		}
	}

	if len(reminders) > 0 {
		slog.Info("reminder scan complete", "due", tomorrow.Format("2006-01-02"), "count", len(reminders))
	}
	return nil
}
