package domain

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// SortField names a sortable task attribute using its JSON key.
type SortField string

// Sortable task fields
const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
	SortByPriority  SortField = "priority"
	SortByDueDate   SortField = "dueDate"
)

// Valid reports whether f is a supported sort field.
func (f SortField) Valid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle, SortByPriority, SortByDueDate:
		return true
	}
	return false
}

// SortOrder is the listing direction.
type SortOrder string

// Sort directions
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Listing defaults.
const (
	DefaultPage      = 1
	DefaultPageLimit = 10
	DefaultSortField = SortByCreatedAt
	DefaultSortOrder = SortDesc
)

// TaskFilter narrows a listing. Nil or empty fields do not filter.
type TaskFilter struct {
	Status   *TaskStatus
	Priority *TaskPriority
	Search   string
}

// TaskQuery describes one page of a filtered, sorted task listing.
type TaskQuery struct {
	Page      int
	Limit     int
	Filter    TaskFilter
	SortBy    SortField
	SortOrder SortOrder
}

// TaskQueryParams holds the raw query-string values of a listing request.
type TaskQueryParams struct {
	Page      string
	Limit     string
	Status    string
	Priority  string
	Search    string
	SortBy    string
	SortOrder string
}

// Query converts raw parameters into a TaskQuery. Malformed numbers become 0
// and unknown enum values are dropped; Normalize applies the defaults.
func (p TaskQueryParams) Query() TaskQuery {
	q := TaskQuery{
		Page:      atoiOrZero(p.Page),
		Limit:     atoiOrZero(p.Limit),
		SortBy:    SortField(strings.TrimSpace(p.SortBy)),
		SortOrder: SortOrder(strings.ToLower(strings.TrimSpace(p.SortOrder))),
		Filter: TaskFilter{
			Search: strings.TrimSpace(p.Search),
		},
	}
	if s := TaskStatus(strings.TrimSpace(p.Status)); s.Valid() {
		q.Filter.Status = &s
	}
	if pr := TaskPriority(strings.TrimSpace(p.Priority)); pr.Valid() {
		q.Filter.Priority = &pr
	}
	return q
}

// Normalize returns a copy of q with defaults applied and the page size
// capped at maxLimit. A maxLimit of 0 disables the cap.
func (q TaskQuery) Normalize(defaultLimit, maxLimit int) TaskQuery {
	if defaultLimit < 1 {
		defaultLimit = DefaultPageLimit
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	if !q.SortBy.Valid() {
		q.SortBy = DefaultSortField
	}
	if q.SortOrder != SortAsc && q.SortOrder != SortDesc {
		q.SortOrder = DefaultSortOrder
	}
	if q.Filter.Status != nil && !q.Filter.Status.Valid() {
		q.Filter.Status = nil
	}
	if q.Filter.Priority != nil && !q.Filter.Priority.Valid() {
		q.Filter.Priority = nil
	}
	q.Filter.Search = strings.TrimSpace(q.Filter.Search)
	return q
}

// Offset is the number of matching rows skipped before this page. It
// saturates at math.MaxInt instead of overflowing for very large pages.
func (q TaskQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Pagination describes where a page sits within the full result set.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalTasks  int  `json:"totalTasks"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPagination computes page metadata for total matching rows.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = total / limit
		if total%limit != 0 {
			totalPages++
		}
	}
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalTasks:  total,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// TaskPage is one page of a listing.
type TaskPage struct {
	Tasks      []Task     `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// TaskStats counts an owner's tasks per status.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in-progress"`
	Completed  int `json:"completed"`
}

// NewTaskStats folds per-status counts into TaskStats. Counts for statuses
// outside the known set still contribute to Total.
func NewTaskStats(counts map[TaskStatus]int) TaskStats {
	var stats TaskStats
	for status, n := range counts {
		stats.Total += n
		switch status {
		case TaskStatusPending:
			stats.Pending = n
		case TaskStatusInProgress:
			stats.InProgress = n
		case TaskStatusCompleted:
			stats.Completed = n
		}
	}
	return stats
}

// atoiOrZero reads the leading integer of s, so "2abc" and "3.5" give 2 and
// 3. Input without leading digits gives 0; out-of-range values saturate.
func atoiOrZero(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		if s[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	return n
}
