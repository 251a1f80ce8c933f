package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Task represents a maintenance action tied to one asset. A done task's
// completion time is its updated_at value; there is no separate column.
type Task struct {
	ID               int64               `json:"id"`
	UserID           int64               `json:"user_id"`
	AssetID          int64               `json:"asset_id"`
	Title            string              `json:"title"`
	Description      string              `json:"description,omitempty"`
	DueDate          *time.Time          `json:"due_date,omitempty"`
	RecurrenceRule   string              `json:"recurrence_rule,omitempty"`
	Status           string              `json:"status"`
	Priority         int                 `json:"priority"`
	EstimatedMinutes int                 `json:"estimated_minutes"`
	Cost             decimal.NullDecimal `json:"cost,omitempty"`
	Vendor           string              `json:"vendor,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`

	// Joined fields (not always populated).
	AssetName string `json:"asset_name,omitempty"`
}

// Task statuses.
const (
	TaskStatusPending = "pending"
	TaskStatusDone    = "done"
	TaskStatusSkipped = "skipped"
	TaskStatusDeleted = "deleted"
)

// ValidTaskStatus reports whether status is one of the known task statuses.
func ValidTaskStatus(status string) bool {
	switch status {
	case TaskStatusPending, TaskStatusDone, TaskStatusSkipped, TaskStatusDeleted:
		return true
	}
	return false
}

// CompletedAt returns the task's completion timestamp proxy: updated_at,
// falling back to created_at if updated_at is zero.
func (t *Task) CompletedAt() time.Time {
	if t.UpdatedAt.IsZero() {
		return t.CreatedAt
	}
	return t.UpdatedAt
}
