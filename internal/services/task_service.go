package services

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/repositories"
	"github.com/taskforge/taskforge/pkg/logger"
)

type TaskService struct {
	taskRepo    *repositories.TaskRepository
	projectRepo *repositories.ProjectRepository
}

func NewTaskService(taskRepo *repositories.TaskRepository, projectRepo *repositories.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

type CreateTaskInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

type UpdateTaskInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// ListTasks returns a page of the project's non-deleted tasks, newest
// first. The project is resolved from the route, so a bad id is 404 and
// an ownership mismatch is an explicit 403.
func (s *TaskService) ListTasks(userID uuid.UUID, projectID string, page, perPage int) ([]*models.Task, *models.PaginationMeta, error) {
	project, err := s.resolveProject(userID, projectID)
	if err != nil {
		return nil, nil, err
	}

	page, perPage = normalizePage(page, perPage)

	total, err := s.taskRepo.CountByProjectID(project.ID.String())
	if err != nil {
		return nil, nil, err
	}

	tasks, err := s.taskRepo.ListByProjectID(project.ID.String(), perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}

	return tasks, models.NewPaginationMeta(page, perPage, total), nil
}

// CreateTask creates a task under one of the user's projects.
func (s *TaskService) CreateTask(userID uuid.UUID, projectID string, input CreateTaskInput) (*models.Task, error) {
	project, err := s.resolveProject(userID, projectID)
	if err != nil {
		return nil, err
	}

	errs := models.ValidationErrors{}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		errs.Add("title", "The title field is required.")
	} else if len(title) > 255 {
		errs.Add("title", "The title field must not be greater than 255 characters.")
	}

	if strings.TrimSpace(input.Description) == "" {
		errs.Add("description", "The description field is required.")
	}

	status := models.TaskStatusTodo
	if input.Status != nil {
		if !models.IsValidTaskStatus(*input.Status) {
			errs.Add("status", "The selected status is invalid.")
		} else {
			status = *input.Status
		}
	}

	if input.Priority != nil && !models.IsValidTaskPriority(*input.Priority) {
		errs.Add("priority", "The selected priority is invalid.")
	}

	dueDate := validateDueDate(input.DueDate, errs)

	if len(errs) > 0 {
		return nil, errs
	}

	task := &models.Task{
		ProjectID:   project.ID,
		Title:       title,
		Description: input.Description,
		Status:      status,
		Priority:    input.Priority,
		DueDate:     dueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"task_id":    task.ID.String(),
		"project_id": project.ID.String(),
	}).Info("task created")

	return task, nil
}

// GetTask returns the task iff it is non-deleted, its project is
// non-deleted and the user owns that project. Anything else is 404.
func (s *TaskService) GetTask(userID uuid.UUID, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &models.NotFoundError{Resource: "Task"}
	}

	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Task"}
		}
		return nil, err
	}

	project, err := s.projectRepo.GetByID(task.ProjectID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Task"}
		}
		return nil, err
	}

	if !AuthorizeTask(userID, task, project) {
		return nil, &models.NotFoundError{Resource: "Task"}
	}

	return task, nil
}

// UpdateTask applies a partial update to a task. The task is looked up
// including trashed ones so that deleted state answers Gone rather than
// NotFound; the task's own deletion is checked before the parent's.
func (s *TaskService) UpdateTask(userID uuid.UUID, id string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.findIncludingTrashed(id)
	if err != nil {
		return nil, err
	}

	if task.Trashed() {
		return nil, &models.GoneError{Message: "Task has been deleted and cannot be updated."}
	}

	project, err := s.parentProject(task)
	if err != nil {
		return nil, err
	}
	if project == nil || project.Trashed() {
		return nil, &models.GoneError{Message: "Project has been deleted. Task cannot be updated."}
	}

	if !AuthorizeTask(userID, task, project) {
		return nil, &models.ForbiddenError{Message: "Unauthorized"}
	}

	errs := models.ValidationErrors{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			errs.Add("title", "The title field is required.")
		} else if len(title) > 255 {
			errs.Add("title", "The title field must not be greater than 255 characters.")
		} else {
			task.Title = title
		}
	}

	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			errs.Add("description", "The description field is required.")
		} else {
			task.Description = *input.Description
		}
	}

	if input.Status != nil {
		if !models.IsValidTaskStatus(*input.Status) {
			errs.Add("status", "The selected status is invalid.")
		} else {
			task.Status = *input.Status
		}
	}

	if input.Priority != nil {
		if !models.IsValidTaskPriority(*input.Priority) {
			errs.Add("priority", "The selected priority is invalid.")
		} else {
			task.Priority = input.Priority
		}
	}

	if input.DueDate != nil {
		if dueDate := validateDueDate(input.DueDate, errs); dueDate != nil {
			task.DueDate = dueDate
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.taskRepo.Update(task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Task"}
		}
		return nil, err
	}

	return s.taskRepo.GetByID(task.ID.String())
}

// DeleteTask soft-deletes a task. Deleting twice answers Gone, as does a
// task whose parent project is already trashed.
func (s *TaskService) DeleteTask(userID uuid.UUID, id string) error {
	task, err := s.findIncludingTrashed(id)
	if err != nil {
		return err
	}

	if task.Trashed() {
		return &models.GoneError{Message: "Task already deleted."}
	}

	project, err := s.parentProject(task)
	if err != nil {
		return err
	}
	if project == nil || project.Trashed() {
		return &models.GoneError{Message: "Project of this task has been deleted. Task cannot be deleted."}
	}

	if !AuthorizeTask(userID, task, project) {
		return &models.ForbiddenError{Message: "Unauthorized"}
	}

	if err := s.taskRepo.SoftDelete(task.ID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.GoneError{Message: "Task already deleted."}
		}
		return err
	}

	logger.WithFields(map[string]interface{}{
		"task_id":    task.ID.String(),
		"project_id": task.ProjectID.String(),
	}).Info("task moved to trash")

	return nil
}

// RestoreTask brings a trashed task back. Only trashed tasks qualify; an
// active task answers NotFound. The parent's deletion state is no bar to
// restoring, so ownership is resolved through the parent even when the
// parent itself is trashed.
func (s *TaskService) RestoreTask(userID uuid.UUID, id string) (*models.Task, error) {
	task, err := s.findOnlyTrashed(userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.Restore(task.ID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Task"}
		}
		return nil, err
	}

	return s.taskRepo.GetByIDIncludingDeleted(task.ID.String())
}

// ForceDeleteTask purges a trashed task irrecoverably. After it succeeds
// no lookup, trashed or otherwise, will find the task again.
func (s *TaskService) ForceDeleteTask(userID uuid.UUID, id string) error {
	task, err := s.findOnlyTrashed(userID, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Purge(task.ID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.NotFoundError{Resource: "Task"}
		}
		return err
	}

	logger.WithFields(map[string]interface{}{
		"task_id":    task.ID.String(),
		"project_id": task.ProjectID.String(),
	}).Info("task permanently deleted")

	return nil
}

// resolveProject loads a route-bound, non-deleted project and checks
// ownership: absence is 404, ownership mismatch an explicit 403.
func (s *TaskService) resolveProject(userID uuid.UUID, projectID string) (*models.Project, error) {
	if _, err := uuid.Parse(projectID); err != nil {
		return nil, &models.NotFoundError{Resource: "Project"}
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Project"}
		}
		return nil, err
	}

	if !Authorize(userID, project) {
		return nil, &models.ForbiddenError{Message: "You are not authorized to access this project."}
	}

	return project, nil
}

func (s *TaskService) findIncludingTrashed(id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &models.NotFoundError{Resource: "Task"}
	}

	task, err := s.taskRepo.GetByIDIncludingDeleted(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Task"}
		}
		return nil, err
	}

	return task, nil
}

func (s *TaskService) findOnlyTrashed(userID uuid.UUID, id string) (*models.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &models.NotFoundError{Resource: "Task"}
	}

	task, err := s.taskRepo.GetByIDOnlyDeleted(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Task"}
		}
		return nil, err
	}

	project, err := s.parentProject(task)
	if err != nil {
		return nil, err
	}
	if project == nil || !AuthorizeTask(userID, task, project) {
		return nil, &models.ForbiddenError{Message: "Unauthorized"}
	}

	return task, nil
}

// parentProject loads the task's project regardless of deletion state.
// A nil project (without error) means the row is gone entirely.
func (s *TaskService) parentProject(task *models.Task) (*models.Project, error) {
	project, err := s.projectRepo.GetByIDIncludingDeleted(task.ProjectID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return project, nil
}

// validateDueDate checks the optional due date: it must parse and must
// not lie in the past. Validation happens at submission time only.
func validateDueDate(value *string, errs models.ValidationErrors) *string {
	if value == nil {
		return nil
	}

	dueDate, err := time.Parse(models.DueDateFormat, *value)
	if err != nil {
		errs.Add("due_date", "The due date field must be a valid date.")
		return nil
	}

	today, _ := time.Parse(models.DueDateFormat, time.Now().Format(models.DueDateFormat))
	if dueDate.Before(today) {
		errs.Add("due_date", "The due date field must be a date after or equal to today.")
		return nil
	}

	normalized := dueDate.Format(models.DueDateFormat)
	return &normalized
}
