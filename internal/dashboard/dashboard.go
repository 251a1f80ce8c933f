// Package dashboard builds the per-request summary snapshot: headline stats,
// the upcoming-task list, a 12-month completion histogram, and the recent
// activity feed. Snapshots are computed fresh on every request — there is no
// caching layer — and Build is safe to call concurrently for different users.
package dashboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/janvolk/upkeep/internal/dates"
	"github.com/janvolk/upkeep/internal/model"
	"github.com/janvolk/upkeep/internal/store"
)

// Display formats for the snapshot's human-readable fields.
const (
	monthLabelLayout = "Jan 2006"
	dueLabelLayout   = "Jan 02"
	activityLayout   = "Jan 02, 03:04 PM"
)

// List limits.
const (
	upcomingLimit = 8
	activityLimit = 5
	chartMonths   = 12
)

// Stats are the headline numbers at the top of the dashboard.
type Stats struct {
	Pending       int             `json:"pending"`
	DueNextWeek   int             `json:"due_7d"`
	Overdue       int             `json:"overdue"`
	OldestOverdue string          `json:"oldest_overdue,omitempty"`
	AssetCount    int             `json:"asset_count"`
	Warrantied    int             `json:"warrantied"`
	MonthCost     decimal.Decimal `json:"month_cost"`
	PrevMonthCost decimal.Decimal `json:"prev_month_cost"`
}

// UpcomingTask is one entry of the upcoming-task list.
type UpcomingTask struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	AssetName string    `json:"asset_name"`
	DueDate   time.Time `json:"due_date"`
	DueLabel  string    `json:"due_label"`
	IsOverdue bool      `json:"is_overdue"`
	IsSoon    bool      `json:"is_soon"`
}

// ActivityEntry is one entry of the recent-activity feed.
type ActivityEntry struct {
	TaskID int64  `json:"task_id"`
	Icon   string `json:"icon"`
	Title  string `json:"title"`
	Verb   string `json:"verb"`
	When   string `json:"when"`
}

// Snapshot is the read-only aggregate handed to the presentation layer.
type Snapshot struct {
	Stats       Stats           `json:"stats"`
	Upcoming    []UpcomingTask  `json:"upcoming"`
	ChartLabels []string        `json:"chart_labels"`
	ChartValues []int           `json:"chart_values"`
	Activity    []ActivityEntry `json:"activity"`
}

// Build computes a user's dashboard snapshot as of today. Any store read
// failure aborts the whole build: an incomplete snapshot is worse than a
// failed request.
func Build(ctx context.Context, db *sql.DB, userID int64, today time.Time) (*Snapshot, error) {
	today = dates.DateOnly(today)
	weekAhead := today.AddDate(0, 0, 7)
	firstOfMonth := dates.MonthStart(today, 0)
	firstOfPrevMonth := dates.MonthStart(today, 1)

	snap := &Snapshot{}

	pending, err := store.CountTasksByStatus(ctx, db, userID, model.TaskStatusPending)
	if err != nil {
		return nil, err
	}
	snap.Stats.Pending = pending

	overdue, oldest, err := store.OverdueSummary(ctx, db, userID, today)
	if err != nil {
		return nil, err
	}
	snap.Stats.Overdue = overdue
	if oldest != nil {
		snap.Stats.OldestOverdue = oldest.Format(dueLabelLayout)
	}

	assetCount, err := store.CountAssets(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	snap.Stats.AssetCount = assetCount

	warrantied, err := store.CountWarrantiedAssets(ctx, db, userID, today)
	if err != nil {
		return nil, err
	}
	snap.Stats.Warrantied = warrantied

	// Current month is an open-ended interval; previous month is half-open
	// [first of previous, first of current).
	monthCost, err := store.SumDoneCost(ctx, db, userID, firstOfMonth, nil)
	if err != nil {
		return nil, err
	}
	snap.Stats.MonthCost = monthCost

	prevMonthCost, err := store.SumDoneCost(ctx, db, userID, firstOfPrevMonth, &firstOfMonth)
	if err != nil {
		return nil, err
	}
	snap.Stats.PrevMonthCost = prevMonthCost

	upcoming, err := store.UpcomingTasks(ctx, db, userID, weekAhead, upcomingLimit)
	if err != nil {
		return nil, err
	}
	for _, t := range upcoming {
		due := dates.Rebase(*t.DueDate, today.Location())
		entry := UpcomingTask{
			ID:        t.ID,
			Title:     t.Title,
			AssetName: t.AssetName,
			DueDate:   due,
			DueLabel:  due.Format(dueLabelLayout),
			IsOverdue: due.Before(today),
			IsSoon:    !due.Before(today) && !due.After(weekAhead),
		}
		snap.Upcoming = append(snap.Upcoming, entry)
		// Deliberately excludes overdue items even though they are within
		// the 7-day window and appear in the list above.
		if !entry.IsOverdue {
			snap.Stats.DueNextWeek++
		}
	}

	labels, values, err := buildHistogram(ctx, db, userID, firstOfMonth)
	if err != nil {
		return nil, err
	}
	snap.ChartLabels = labels
	snap.ChartValues = values

	recent, err := store.RecentTasks(ctx, db, userID, activityLimit)
	if err != nil {
		return nil, err
	}
	for _, t := range recent {
		snap.Activity = append(snap.Activity, activityEntry(t))
	}

	return snap, nil
}

// buildHistogram produces 12 consecutive calendar-month buckets ending at the
// current month, oldest first, counting done tasks by the (year, month) of
// their completion timestamp. Empty buckets are zero-filled.
func buildHistogram(ctx context.Context, db *sql.DB, userID int64, firstOfMonth time.Time) ([]string, []int, error) {
	start := dates.MonthStart(firstOfMonth, chartMonths-1)

	months := make([]time.Time, 0, chartMonths)
	cursor := start
	for i := 0; i < chartMonths; i++ {
		months = append(months, cursor)
		cursor = dates.NextMonth(cursor)
	}

	stamps, err := store.CompletionStamps(ctx, db, userID, start)
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[[2]int]int, len(stamps))
	for _, stamp := range stamps {
		counts[[2]int{stamp.Year(), int(stamp.Month())}]++
	}

	labels := make([]string, chartMonths)
	values := make([]int, chartMonths)
	for i, month := range months {
		labels[i] = month.Format(monthLabelLayout)
		values[i] = counts[[2]int{month.Year(), int(month.Month())}]
	}
	return labels, values, nil
}

func activityEntry(t model.Task) ActivityEntry {
	entry := ActivityEntry{
		TaskID: t.ID,
		Icon:   "bi-clipboard-plus",
		Title:  t.Title,
		Verb:   "updated",
		When:   t.CompletedAt().Format(activityLayout),
	}
	if t.Status == model.TaskStatusDone {
		entry.Icon = "bi-clipboard-check"
		entry.Verb = "completed"
	}
	return entry
}
