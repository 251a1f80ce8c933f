package reminder

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/janvolk/upkeep/internal/db"
	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

type countingNotifier struct {
	mu    sync.Mutex
	seen  []store.Reminder
	fail  bool
	calls int
}

func (n *countingNotifier) Notify(_ context.Context, r store.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.fail {
		return errors.New("delivery refused")
	}
	n.seen = append(n.seen, r)
	return nil
}

func seedTask(t *testing.T, database *sql.DB, title string, due time.Time, status string) {
	t.Helper()
	ctx := context.Background()

	user, err := store.GetUserByEmail(ctx, database, "owner@example.com")
	if err != nil {
		t.Fatalf("looking up user: %v", err)
	}
	if user == nil {
		if user, err = store.CreateUser(ctx, database, "owner@example.com", "hash"); err != nil {
			t.Fatalf("creating user: %v", err)
		}
	}
	asset, err := store.CreateAsset(ctx, database, &model.Asset{UserID: user.ID, Name: "House"})
	if err != nil {
		t.Fatalf("creating asset: %v", err)
	}
	task, err := store.CreateTask(ctx, database, &model.Task{
		UserID: user.ID, AssetID: asset.ID, Title: title, DueDate: &due,
	})
	if err != nil {
		t.Fatalf("creating task: %v", err)
	}
	if status != model.TaskStatusPending {
		if _, err := database.Exec(`UPDATE tasks SET status = ? WHERE id = ?`, status, task.ID); err != nil {
			t.Fatalf("setting status: %v", err)
		}
	}
}

func TestScanNotifiesTasksDueTomorrow(t *testing.T) {
	database := db.NewTestDB(t)
	today := time.Date(2024, time.June, 15, 9, 30, 0, 0, time.Local)

	seedTask(t, database, "Due tomorrow", today.AddDate(0, 0, 1), model.TaskStatusPending)
	seedTask(t, database, "Due today", today, model.TaskStatusPending)
	seedTask(t, database, "Due in two days", today.AddDate(0, 0, 2), model.TaskStatusPending)
	seedTask(t, database, "Done already", today.AddDate(0, 0, 1), model.TaskStatusDone)

	notifier := &countingNotifier{}
	job := New(database, notifier)

	if err := job.scan(context.Background(), today); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(notifier.seen) != 1 {
		t.Fatalf("expected exactly 1 notification, got %d", len(notifier.seen))
	}
	r := notifier.seen[0]
	if r.Title != "Due tomorrow" || r.Email != "owner@example.com" {
		t.Errorf("unexpected reminder: %+v", r)
	}
	if r.Due.Format("2006-01-02") != "2024-06-16" {
		t.Errorf("unexpected due date: %s", r.Due)
	}
}

func TestScanSkipsFailedDeliveries(t *testing.T) {
	database := db.NewTestDB(t)
	today := time.Date(2024, time.June, 15, 9, 30, 0, 0, time.Local)
	seedTask(t, database, "Due tomorrow", today.AddDate(0, 0, 1), model.TaskStatusPending)

	notifier := &countingNotifier{fail: true}
	job := New(database, notifier)

	// A delivery failure is logged, not returned.
	if err := job.scan(context.Background(), today); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if notifier.calls != 1 {
		t.Errorf("expected 1 delivery attempt, got %d", notifier.calls)
	}
}

func TestScanReportsQueryFailure(t *testing.T) {
	database := db.NewTestDB(t)
	database.Close()

	job := New(database, &countingNotifier{})
	if err := job.scan(context.Background(), time.Now()); err == nil {
		t.Fatal("expected error from closed database")
	}
}

func TestStartRejectsSecondCall(t *testing.T) {
	database := db.NewTestDB(t)
	job := New(database, &countingNotifier{})
	job.Interval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := job.Start(ctx); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := job.Start(ctx); err == nil {
		t.Fatal("expected second Start to fail")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	database := db.NewTestDB(t)
	seedTask(t, database, "Recurring hit", time.Now().AddDate(0, 0, 1), model.TaskStatusPending)

	notifier := &countingNotifier{}
	job := New(database, notifier)
	job.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	if err := job.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)

	notifier.mu.Lock()
	after := notifier.calls
	notifier.mu.Unlock()
	if after == 0 {
		t.Fatal("expected at least one scan before cancel")
	}

	time.Sleep(50 * time.Millisecond)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.calls != after {
		t.Errorf("loop kept scanning after cancel: %d then %d calls", after, notifier.calls)
	}
}
