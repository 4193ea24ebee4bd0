package services

import (
	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/models"
)

// Authorize reports whether the user owns the project. Ownership is the
// only access rule in the system; there are no roles or shared projects.
func Authorize(userID uuid.UUID, project *models.Project) bool {
	return project.OwnerID == userID
}

// AuthorizeTask reports whether the user may act on the task. Tasks carry
// no owner of their own; access is decided entirely through the parent
// project.
func AuthorizeTask(userID uuid.UUID, task *models.Task, project *models.Project) bool {
	return task.ProjectID == project.ID && Authorize(userID, project)
}
