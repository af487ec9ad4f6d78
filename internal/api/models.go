package api

import (
	"encoding/json"
	"time"

	"github.com/phrazzld/tasks-api/internal/domain"
)

const msgInvalidDate = "Invalid date format"

// dateOnlyLayout is accepted alongside RFC 3339 for due dates.
const dateOnlyLayout = "2006-01-02"

// DateInput is an optional JSON date that distinguishes an absent key, an
// explicit null and a malformed value. Malformed input is recorded instead of
// failing the whole decode, so it can be reported with the other field errors.
type DateInput struct {
	Set     bool       // the key was present
	Value   *time.Time // nil when null or malformed
	Invalid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DateInput) UnmarshalJSON(data []byte) error {
	*d = DateInput{Set: true}
	if string(data) == "null" {
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		d.Invalid = true
		return nil
	}
	t, ok := parseDate(raw)
	if !ok {
		d.Invalid = true
		return nil
	}
	d.Value = &t
	return nil
}

// check reports a malformed value as a field error.
func (d DateInput) check(field string) error {
	if d.Invalid {
		return domain.NewValidationError(field, msgInvalidDate, nil)
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", dateOnlyLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string               `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TaskStatus   `json:"status"`
	Priority    *domain.TaskPriority `json:"priority"`
	DueDate     DateInput            `json:"dueDate"`
}

func (req CreateTaskRequest) input() domain.NewTaskInput {
	return domain.NewTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate.Value,
	}
}

// Validate reports every field error of the request, including a malformed
// due date.
func (req CreateTaskRequest) Validate() error {
	return domain.JoinValidation(req.input().Validate(), req.DueDate.check("dueDate"))
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Absent fields are left
// unchanged; "dueDate": null clears the due date.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TaskStatus   `json:"status"`
	Priority    *domain.TaskPriority `json:"priority"`
	DueDate     DateInput            `json:"dueDate"`
}

func (req UpdateTaskRequest) patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate.Value,
		DueDateSet:  req.DueDate.Set && !req.DueDate.Invalid,
	}
}

// Validate reports every field error of the request.
func (req UpdateTaskRequest) Validate() error {
	p := req.patch()
	p.Normalize()
	return domain.JoinValidation(p.Validate(), req.DueDate.check("dueDate"))
}

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest defines the payload for PUT /api/user/profile.
// Omitted fields keep their current value.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// ToPatch converts the request into a domain.ProfilePatch.
func (req UpdateProfileRequest) ToPatch() domain.ProfilePatch {
	return domain.ProfilePatch{Name: req.Name, Email: req.Email}
}

// TaskData wraps a single task in a response envelope.
type TaskData struct {
	Task *domain.Task `json:"task"`
}

// StatsData wraps task statistics in a response envelope.
type StatsData struct {
	Stats *domain.TaskStats `json:"stats"`
}

// UserData wraps a user in a response envelope.
type UserData struct {
	User *domain.User `json:"user"`
}

// AuthData is returned by register and login.
type AuthData struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}
