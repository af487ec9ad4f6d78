package sqlite

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

type userRow struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Name           string    `gorm:"size:50;not null"`
	Email          string    `gorm:"size:254;not null;uniqueIndex"`
	HashedPassword string    `gorm:"not null"`
	Role           string    `gorm:"size:10;not null;default:user;check:chk_users_role,role IN ('user','admin')"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

func newUserRow(u *domain.User) userRow {
	return userRow{
		ID:             u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		Role:           string(u.Role),
		CreatedAt:      u.CreatedAt.UTC(),
		UpdatedAt:      u.UpdatedAt.UTC(),
	}
}

func (r userRow) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:             id,
		Name:           r.Name,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
		Role:           domain.Role(r.Role),
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}, nil
}

type taskRow struct {
	ID          string     `gorm:"primaryKey;size:36"`
	Title       string     `gorm:"size:200;not null"`
	Description string     `gorm:"size:2000;not null;default:''"`
	Status      string     `gorm:"size:20;not null;index:idx_tasks_owner_status,priority:2;check:chk_tasks_status,status IN ('pending','in-progress','completed')"`
	Priority    string     `gorm:"size:10;not null;check:chk_tasks_priority,priority IN ('low','medium','high')"`
	DueDate     *time.Time `gorm:"column:due_date"`
	OwnerID     string     `gorm:"size:36;not null;index:idx_tasks_owner_status,priority:1;index:idx_tasks_owner_created,priority:1"`
	CreatedAt   time.Time  `gorm:"not null;index:idx_tasks_owner_created,priority:2;check:chk_tasks_updated_after_created,updated_at >= created_at"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (taskRow) TableName() string { return "tasks" }

func newTaskRow(t *domain.Task) taskRow {
	row := taskRow{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		OwnerID:     t.OwnerID.String(),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		row.DueDate = &d
	}
	return row
}

func (r taskRow) toDomain() (domain.Task, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.Task{}, err
	}
	owner, err := uuid.Parse(r.OwnerID)
	if err != nil {
		return domain.Task{}, err
	}
	t := domain.Task{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    domain.TaskPriority(r.Priority),
		OwnerID:     owner,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DueDate != nil {
		d := r.DueDate.UTC()
		t.DueDate = &d
	}
	return t, nil
}
