package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/repositories"
	"github.com/taskforge/taskforge/pkg/logger"
)

const (
	// DefaultPerPage is the page size used when the caller does not ask
	// for a specific one.
	DefaultPerPage = 10
	// MaxPerPage caps caller-supplied page sizes.
	MaxPerPage = 100
)

type ProjectService struct {
	projectRepo *repositories.ProjectRepository
}

func NewProjectService(projectRepo *repositories.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

type CreateProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type UpdateProjectInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// ListProjects returns a page of the user's non-deleted projects, newest first.
func (s *ProjectService) ListProjects(userID uuid.UUID, page, perPage int) ([]*models.Project, *models.PaginationMeta, error) {
	page, perPage = normalizePage(page, perPage)

	total, err := s.projectRepo.CountByOwnerID(userID.String())
	if err != nil {
		return nil, nil, err
	}

	projects, err := s.projectRepo.ListByOwnerID(userID.String(), perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}

	return projects, models.NewPaginationMeta(page, perPage, total), nil
}

// CreateProject creates a project owned by the user. The owner is always
// the authenticated user, whatever the request body claims.
func (s *ProjectService) CreateProject(userID uuid.UUID, input CreateProjectInput) (*models.Project, error) {
	errs := models.ValidationErrors{}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		errs.Add("name", "The name field is required.")
	} else if len(name) > 255 {
		errs.Add("name", "The name field must not be greater than 255 characters.")
	}

	if strings.TrimSpace(input.Description) == "" {
		errs.Add("description", "The description field is required.")
	}

	if input.Status == "" {
		errs.Add("status", "The status field is required.")
	} else if !models.IsValidProjectStatus(input.Status) {
		errs.Add("status", "The selected status is invalid.")
	}

	if len(errs) > 0 {
		return nil, errs
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		Status:      input.Status,
		OwnerID:     userID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"project_id": project.ID.String(),
		"owner_id":   userID.String(),
	}).Info("project created")

	return project, nil
}

// GetProject returns the project iff it exists, is non-deleted and belongs
// to the user. Ownership mismatch is indistinguishable from absence.
func (s *ProjectService) GetProject(userID uuid.UUID, id string) (*models.Project, error) {
	return s.findOwned(userID, id)
}

// UpdateProject applies a partial update to one of the user's projects.
// Supplied fields follow the create-time rules; absent fields are untouched.
func (s *ProjectService) UpdateProject(userID uuid.UUID, id string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findOwned(userID, id)
	if err != nil {
		return nil, err
	}

	errs := models.ValidationErrors{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			errs.Add("name", "The name field is required.")
		} else if len(name) > 255 {
			errs.Add("name", "The name field must not be greater than 255 characters.")
		} else {
			project.Name = name
		}
	}

	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			errs.Add("description", "The description field is required.")
		} else {
			project.Description = *input.Description
		}
	}

	if input.Status != nil {
		if !models.IsValidProjectStatus(*input.Status) {
			errs.Add("status", "The selected status is invalid.")
		} else {
			project.Status = *input.Status
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	if err := s.projectRepo.Update(project); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Project"}
		}
		return nil, err
	}

	return s.findOwned(userID, id)
}

// DeleteProject soft-deletes one of the user's projects. Child tasks keep
// their own deletion state; they are blocked at mutation time instead.
func (s *ProjectService) DeleteProject(userID uuid.UUID, id string) error {
	project, err := s.findOwned(userID, id)
	if err != nil {
		return err
	}

	if err := s.projectRepo.SoftDelete(project.ID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.NotFoundError{Resource: "Project"}
		}
		return err
	}

	logger.WithFields(map[string]interface{}{
		"project_id": project.ID.String(),
		"owner_id":   userID.String(),
	}).Info("project moved to trash")

	return nil
}

func (s *ProjectService) findOwned(userID uuid.UUID, id string) (*models.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, &models.NotFoundError{Resource: "Project"}
	}

	project, err := s.projectRepo.GetByIDForOwner(id, userID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &models.NotFoundError{Resource: "Project"}
		}
		return nil, err
	}

	return project, nil
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
