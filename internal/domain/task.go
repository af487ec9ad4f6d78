package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskStatuses lists every valid status in display order.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// TaskPriority represents how urgent a task is.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// TaskPriorities lists every valid priority from lowest to highest.
var TaskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities low < medium < high. Unknown priorities rank 0.
func (p TaskPriority) Rank() int {
	for i, v := range TaskPriorities {
		if p == v {
			return i + 1
		}
	}
	return 0
}

// Field limits and messages shared by creation, update and persisted validation.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000

	msgTitleRequired     = "Task title is required"
	msgTitleLength       = "Title must be between 1 and 200 characters"
	msgDescriptionLength = "Description cannot exceed 2000 characters"
	msgInvalidStatus     = "Invalid status value"
	msgInvalidPriority   = "Invalid priority value"
)

// Task is a unit of work owned by exactly one user.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	OwnerID     uuid.UUID    `json:"ownerId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewTaskInput carries the caller-supplied fields for a new task. Nil pointers
// take their defaults.
type NewTaskInput struct {
	Title       string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
}

// Validate checks in without building a task.
func (in NewTaskInput) Validate() error {
	_, err := in.normalize()
	return err
}

// normalize trims the text fields, applies defaults and validates the result.
func (in NewTaskInput) normalize() (NewTaskInput, error) {
	out := NewTaskInput{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     utcPtr(in.DueDate),
	}
	description := ""
	if in.Description != nil {
		description = strings.TrimSpace(*in.Description)
	}
	out.Description = &description
	if out.Status == nil {
		status := TaskStatusPending
		out.Status = &status
	}
	if out.Priority == nil {
		priority := TaskPriorityMedium
		out.Priority = &priority
	}

	return out, Collect(
		Required("title", out.Title, msgTitleRequired),
		LengthBetween("title", out.Title, 1, MaxTitleLength, msgTitleLength),
		MaxLength("description", description, MaxDescriptionLength, msgDescriptionLength),
		OneOf("status", *out.Status, TaskStatuses, msgInvalidStatus),
		OneOf("priority", *out.Priority, TaskPriorities, msgInvalidPriority),
	)
}

// NewTask validates in and builds a task owned by ownerID, stamped with now.
// All field failures are reported together in a *ValidationError.
func NewTask(ownerID uuid.UUID, in NewTaskInput, now time.Time) (*Task, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	now = now.UTC()
	return &Task{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: *in.Description,
		Status:      *in.Status,
		Priority:    *in.Priority,
		DueDate:     in.DueDate,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Validate checks the invariants of a stored task.
func (t *Task) Validate() error {
	return Collect(
		When(t.ID == uuid.Nil, Fail("id", "Task ID cannot be empty")),
		When(t.OwnerID == uuid.Nil, Fail("ownerId", "Task owner cannot be empty")),
		Required("title", t.Title, msgTitleRequired),
		LengthBetween("title", t.Title, 1, MaxTitleLength, msgTitleLength),
		MaxLength("description", t.Description, MaxDescriptionLength, msgDescriptionLength),
		OneOf("status", t.Status, TaskStatuses, msgInvalidStatus),
		OneOf("priority", t.Priority, TaskPriorities, msgInvalidPriority),
		When(t.UpdatedAt.Before(t.CreatedAt), Fail("updatedAt", "Update time cannot precede creation time")),
	)
}

// TaskPatch is a partial update. Nil fields are left unchanged. DueDateSet
// distinguishes an explicit null (clear the due date) from an absent field.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
	DueDate     *time.Time
	DueDateSet  bool
}

// Normalize trims the text fields in place.
func (p *TaskPatch) Normalize() {
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		p.Title = &trimmed
	}
	if p.Description != nil {
		trimmed := strings.TrimSpace(*p.Description)
		p.Description = &trimmed
	}
	if p.DueDate != nil {
		p.DueDate = utcPtr(p.DueDate)
		p.DueDateSet = true
	}
}

// Validate checks only the fields present in the patch.
func (p TaskPatch) Validate() error {
	var rules []Rule
	if p.Title != nil {
		rules = append(rules,
			When(*p.Title == "", Fail("title", msgTitleLength)),
			LengthBetween("title", *p.Title, 1, MaxTitleLength, msgTitleLength),
		)
	}
	if p.Description != nil {
		rules = append(rules, MaxLength("description", *p.Description, MaxDescriptionLength, msgDescriptionLength))
	}
	if p.Status != nil {
		rules = append(rules, OneOf("status", *p.Status, TaskStatuses, msgInvalidStatus))
	}
	if p.Priority != nil {
		rules = append(rules, OneOf("priority", *p.Priority, TaskPriorities, msgInvalidPriority))
	}
	return Collect(rules...)
}

// Columns returns the database columns the patch changes, keyed by column name.
// A cleared due date maps to a nil *time.Time.
func (p TaskPatch) Columns() map[string]any {
	cols := make(map[string]any, 5)
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Priority != nil {
		cols["priority"] = string(*p.Priority)
	}
	if p.DueDateSet {
		cols["due_date"] = p.DueDate
	}
	return cols
}

// Apply copies the present fields onto t and refreshes UpdatedAt.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.DueDateSet {
		t.DueDate = utcPtr(p.DueDate)
	}
	t.UpdatedAt = now.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
