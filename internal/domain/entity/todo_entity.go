package entity

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority maps an empty string to MEDIUM.
func ParsePriority(s string) (Priority, bool) {
	if strings.TrimSpace(s) == "" {
		return PriorityMedium, true
	}
	switch p := Priority(strings.ToUpper(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, true
	}
	return "", false
}

type Status string

const (
	StatusNotStarted Status = "NOT_STARTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ParseStatus maps an empty string to NOT_STARTED.
func ParseStatus(s string) (Status, bool) {
	if strings.TrimSpace(s) == "" {
		return StatusNotStarted, true
	}
	switch st := Status(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return st, true
	}
	return "", false
}

type Todo struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time
	Overdue     bool
	Priority    Priority
	Status      Status
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Touch stamps the timestamps and recomputes the derived fields. It must run
// before every insert and update.
func (t *Todo) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.Recompute(now)
}

// Recompute derives Overdue and keeps Status consistent with Completed.
func (t *Todo) Recompute(now time.Time) {
	t.Overdue = t.DueDate != nil && !t.Completed && now.After(*t.DueDate)

	if t.Completed {
		t.Status = StatusCompleted
	} else if t.Status == StatusCompleted {
		t.Status = StatusInProgress
	}
}
