package models

import (
	"time"

	"github.com/google/uuid"
)

// Project statuses
const (
	ProjectStatusPending    = "pending"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
)

type Project struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	OwnerID     uuid.UUID  `json:"owner"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// Trashed reports whether the project has been soft-deleted.
func (p *Project) Trashed() bool {
	return p.DeletedAt != nil
}

// IsValidProjectStatus reports whether s is an allowed project status.
func IsValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusPending, ProjectStatusInProgress, ProjectStatusCompleted:
		return true
	}
	return false
}
