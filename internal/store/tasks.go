package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/janvolk/upkeep/internal/model"
)

const taskColumns = `t.id, t.user_id, t.asset_id, t.title, t.description, t.due_date,
	t.recurrence_rule, t.status, t.priority, t.estimated_minutes, t.cost, t.vendor,
	t.created_at, t.updated_at, a.name`

const taskJoin = ` FROM tasks t LEFT JOIN assets a ON a.id = t.asset_id `

// TaskFilter narrows ListTasks results. Zero values mean "no filter".
type TaskFilter struct {
	Status  string // "", "open", "overdue", "done"
	Window  string // "", "7d", "30d" (due within N days)
	Search  string // matches task title or asset name
	AssetID int64  // restrict to one asset
	Sort    string // "due" (default), "title", "created"
	Dir     string // "asc" (default), "desc"
	Limit   int
}

// Task filter statuses.
const (
	FilterOpen    = "open"
	FilterOverdue = "overdue"
	FilterDone    = "done"
)

// CreateTask creates a new task for a user.
func CreateTask(ctx context.Context, db *sql.DB, t *model.Task) (*model.Task, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, asset_id, title, description, due_date, recurrence_rule,
		                    priority, estimated_minutes, cost, vendor)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.AssetID, t.Title, t.Description, nullDate(t.DueDate), t.RecurrenceRule,
		t.Priority, t.EstimatedMinutes, nullCost(t.Cost), t.Vendor,
	)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting task id: %w", err)
	}

	return GetTask(ctx, db, t.UserID, id)
}

// GetTask returns a user's task by ID, with the owning asset's name joined.
func GetTask(ctx context.Context, db *sql.DB, userID, id int64) (*model.Task, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+taskColumns+taskJoin+`WHERE t.id = ? AND t.user_id = ?`, id, userID,
	)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// ListTasks returns a user's tasks matching the filter. today anchors the
// "overdue" status and due-window predicates.
func ListTasks(ctx context.Context, db *sql.DB, userID int64, today time.Time, f TaskFilter) ([]model.Task, error) {
	query := `SELECT ` + taskColumns + taskJoin + `WHERE t.user_id = ?`
	args := []any{userID}

	switch f.Status {
	case FilterOpen:
		query += ` AND t.status = ?`
		args = append(args, model.TaskStatusPending)
	case FilterOverdue:
		query += ` AND t.status = ? AND t.due_date IS NOT NULL AND t.due_date < ?`
		args = append(args, model.TaskStatusPending, fmtDate(today))
	case FilterDone:
		query += ` AND t.status = ?`
		args = append(args, model.TaskStatusDone)
	}

	switch f.Window {
	case "7d":
		query += ` AND t.due_date IS NOT NULL AND t.due_date <= ?`
		args = append(args, fmtDate(today.AddDate(0, 0, 7)))
	case "30d":
		query += ` AND t.due_date IS NOT NULL AND t.due_date <= ?`
		args = append(args, fmtDate(today.AddDate(0, 0, 30)))
	}

	if f.AssetID != 0 {
		query += ` AND t.asset_id = ?`
		args = append(args, f.AssetID)
	}

	if f.Search != "" {
		query += ` AND (t.title LIKE ? OR a.name LIKE ?)`
		pattern := "%" + f.Search + "%"
		args = append(args, pattern, pattern)
	}

	sortCol := "t.due_date"
	switch f.Sort {
	case "title":
		sortCol = "t.title"
	case "created":
		sortCol = "t.created_at"
	}
	dir := "ASC"
	if f.Dir == "desc" {
		dir = "DESC"
	}
	query += ` ORDER BY ` + sortCol + ` ` + dir + ` NULLS LAST`

	limit := f.Limit
	if limit <= 0 {
		limit = 250
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// UpdateTask updates a task's fields and refreshes its updated_at. For a done
// task this also moves its completion timestamp; that is inherent to the data
// model, which keeps no separate completion column.
func UpdateTask(ctx context.Context, db *sql.DB, t *model.Task) error {
	_, err := db.ExecContext(ctx,
		`UPDATE tasks SET asset_id = ?, title = ?, description = ?, due_date = ?,
		        recurrence_rule = ?, status = ?, priority = ?, estimated_minutes = ?,
		        cost = ?, vendor = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		t.AssetID, t.Title, t.Description, nullDate(t.DueDate),
		t.RecurrenceRule, t.Status, t.Priority, t.EstimatedMinutes, nullCost(t.Cost),
		t.Vendor, t.ID, t.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return nil
}

// CompleteTask marks a task done. The refreshed updated_at becomes the task's
// completion timestamp.
func CompleteTask(ctx context.Context, db *sql.DB, userID, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND user_id = ?`,
		model.TaskStatusDone, id, userID,
	)
	if err != nil {
		return fmt.Errorf("completing task: %w", err)
	}
	return nil
}

// DeleteTask deletes a task. Attachments go with it via foreign key cascade.
func DeleteTask(ctx context.Context, db *sql.DB, userID, id int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// ExportTasks returns all of a user's tasks ordered by due date for CSV
// export, with asset names joined.
func ExportTasks(ctx context.Context, db *sql.DB, userID int64) ([]model.Task, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+taskJoin+`WHERE t.user_id = ? ORDER BY t.due_date ASC NULLS LAST`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("exporting tasks: %w", err)
	}
	defer rows.Close()

	return collectTasks(rows)
}

// Reminder is one row of the reminder scan: who to notify about what.
type Reminder struct {
	Email string
	Title string
	Due   time.Time
}

// DueReminders returns (owner email, task title, due date) for every pending
// task due exactly on the given date, across all users.
func DueReminders(ctx context.Context, db *sql.DB, due time.Time) ([]Reminder, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT u.email, t.title, t.due_date
		 FROM tasks t
		 JOIN users u ON u.id = t.user_id
		 WHERE t.status = ? AND t.due_date = ?`,
		model.TaskStatusPending, fmtDate(due),
	)
	if err != nil {
		return nil, fmt.Errorf("querying due reminders: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.Email, &r.Title, &r.Due); err != nil {
			return nil, fmt.Errorf("scanning reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func collectTasks(rows *sql.Rows) ([]model.Task, error) {
	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func scanTask(row rowScanner) (*model.Task, error) {
	t := &model.Task{}
	var description, rule, vendor, assetName sql.NullString
	var due sql.NullTime
	err := row.Scan(&t.ID, &t.UserID, &t.AssetID, &t.Title, &description, &due,
		&rule, &t.Status, &t.Priority, &t.EstimatedMinutes, &t.Cost, &vendor,
		&t.CreatedAt, &t.UpdatedAt, &assetName)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	t.RecurrenceRule = rule.String
	t.Vendor = vendor.String
	t.AssetName = assetName.String
	if due.Valid {
		t.DueDate = &due.Time
	}
	return t, nil
}

// nullCost converts an optional cost to a bind parameter, normalized to two
// decimal places.
func nullCost(c decimal.NullDecimal) any {
	if !c.Valid {
		return nil
	}
	return c.Decimal.StringFixed(2)
}
