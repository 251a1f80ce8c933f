package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/janvolk/upkeep/internal/dates"
	"github.com/janvolk/upkeep/internal/model"
)

// Queries backing the dashboard aggregator. Each is a plain read; the
// aggregator composes them without a transaction, so a task changing between
// two reads can skew one request slightly. That is accepted.

// CountTasksByStatus counts a user's tasks with the given status.
func CountTasksByStatus(ctx context.Context, db *sql.DB, userID int64, status string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE user_id = ? AND status = ?`,
		userID, status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting tasks by status: %w", err)
	}
	return count, nil
}

// OverdueSummary returns the number of pending tasks due before today and the
// earliest due date among them, or nil if there are none.
func OverdueSummary(ctx context.Context, db *sql.DB, userID int64, today time.Time) (int, *time.Time, error) {
	var count int
	var oldest sql.NullString
	// MIN() strips the column's DATE decltype, so the result comes back as
	// text and is parsed here.
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(due_date) FROM tasks
		 WHERE user_id = ? AND status = ? AND due_date IS NOT NULL AND due_date < ?`,
		userID, model.TaskStatusPending, fmtDate(today),
	).Scan(&count, &oldest)
	if err != nil {
		return 0, nil, fmt.Errorf("summarizing overdue tasks: %w", err)
	}
	if !oldest.Valid {
		return count, nil, nil
	}
	parsed, ok := dates.ParseISODate(oldest.String)
	if !ok {
		return 0, nil, fmt.Errorf("summarizing overdue tasks: bad due date %q", oldest.String)
	}
	return count, &parsed, nil
}

// CountAssets counts a user's assets.
func CountAssets(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assets WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting assets: %w", err)
	}
	return count, nil
}

// CountWarrantiedAssets counts a user's assets whose warranty has not expired
// as of today.
func CountWarrantiedAssets(ctx context.Context, db *sql.DB, userID int64, today time.Time) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM assets
		 WHERE user_id = ? AND warranty_expiration IS NOT NULL AND warranty_expiration >= ?`,
		userID, fmtDate(today),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting warrantied assets: %w", err)
	}
	return count, nil
}

// SumDoneCost sums the costs of done tasks whose completion timestamp falls
// in [start, end). A nil end leaves the interval open. Null costs count as
// zero; the sum is rounded half-up to two decimal places. Summing happens in
// Go over exact decimals, never in SQL over floats.
func SumDoneCost(ctx context.Context, db *sql.DB, userID int64, start time.Time, end *time.Time) (decimal.Decimal, error) {
	query := `SELECT cost FROM tasks
	          WHERE user_id = ? AND status = ? AND updated_at >= ?`
	args := []any{userID, model.TaskStatusDone, fmtDateTime(start)}
	if end != nil {
		query += ` AND updated_at < ?`
		args = append(args, fmtDateTime(*end))
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing task costs: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var cost decimal.NullDecimal
		if err := rows.Scan(&cost); err != nil {
			return decimal.Zero, fmt.Errorf("scanning task cost: %w", err)
		}
		if cost.Valid {
			total = total.Add(cost.Decimal)
		}
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("summing task costs: %w", err)
	}
	return total.Round(2), nil
}

// UpcomingTasks returns a user's pending tasks with a due date on or before
// until, ascending by due date, limited. Asset names are joined.
func UpcomingTasks(ctx context.Context, db *sql.DB, userID int64, until time.Time, limit int) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+taskJoin+`
		 WHERE t.user_id = ? AND t.status = ? AND t.due_date IS NOT NULL AND t.due_date <= ?
		 ORDER BY t.due_date ASC
		 LIMIT ?`,
		userID, model.TaskStatusPending, fmtDate(until), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// CompletionStamps returns the completion timestamp of every done task
/// completed at or after since: updated_at, falling back to created_at.
func CompletionStamps(ctx context.Context, db *sql.DB, userID int64, since time.Time) ([]time.Time, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT updated_at, created_at FROM tasks
		 WHERE user_id = ? AND status = ? AND updated_at >= ?`,
		userID, model.TaskStatusDone, fmtDateTime(since),
	)
	if err != nil {
		return nil, fmt.Errorf("listing completion stamps: %w", err)
	}
	defer rows.Close()

	var stamps []time.Time
	for rows.Next() {
		var updated, created sql.NullTime
		if err := rows.Scan(&updated, &created); err != nil {
			return nil, fmt.Errorf("scanning completion stamp: %w", err)
		}
		switch {
		case updated.Valid:
			stamps = append(stamps, updated.Time)
		case created.Valid:
			stamps = append(stamps, created.Time)
		}
	}
	return stamps, rows.Err()
}

// RecentTasks returns a user's most recently updated tasks across any
// status, newest first.
func RecentTasks(ctx context.Context, db *sql.DB, userID int64, limit int) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+taskJoin+`
		 WHERE t.user_id = ?
		 ORDER BY t.updated_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing recent tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}
