package model

import (
	"testing"
	"time"
)

func TestValidTaskStatus(t *testing.T) {
	tests := []struct {
		status   string
		expected bool
	}{
		{TaskStatusPending, true},
		{TaskStatusDone, true},
		{TaskStatusSkipped, true},
		{TaskStatusDeleted, true},
		{"", false},
		{"open", false},
		{"DONE", false},
	}

	for _, tt := range tests {
		if got := ValidTaskStatus(tt.status); got != tt.expected {
			t.Errorf("ValidTaskStatus(%q) = %v, want %v", tt.status, got, tt.expected)
		}
	}
}

func TestCompletedAtFallback(t *testing.T) {
	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)

	task := &Task{CreatedAt: created, UpdatedAt: updated}
	if !task.CompletedAt().Equal(updated) {
		t.Errorf("expected updated_at as completion time, got %v", task.CompletedAt())
	}

	task = &Task{CreatedAt: created}
	if !task.CompletedAt().Equal(created) {
		t.Errorf("expected created_at fallback, got %v", task.CompletedAt())
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}
