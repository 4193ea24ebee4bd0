package repositories

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/models"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{
		db: db,
	}
}

// Create creates a new project
func (r *ProjectRepository) Create(project *models.Project) error {
	query := `
		INSERT INTO projects (id, name, description, status, owner_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	project.ID = uuid.New()

	_, err := r.db.Exec(query,
		project.ID,
		project.Name,
		project.Description,
		project.Status,
		project.OwnerID,
	)
	if err != nil {
		return err
	}

	return r.db.QueryRow(
		`SELECT created_at, updated_at FROM projects WHERE id = $1`,
		project.ID,
	).Scan(&project.CreatedAt, &project.UpdatedAt)
}

// GetByID retrieves a project by ID (excluding soft deleted)
func (r *ProjectRepository) GetByID(id string) (*models.Project, error) {
	query := `
		SELECT id, name, description, status, owner_id, created_at, updated_at, deleted_at
		FROM projects
		WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByIDForOwner retrieves a non-deleted project only if it belongs to the owner
func (r *ProjectRepository) GetByIDForOwner(id, ownerID string) (*models.Project, error) {
	query := `
		SELECT id, name, description, status, owner_id, created_at, updated_at, deleted_at
		FROM projects
		WHERE id = $1 AND owner_id = $2 AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id, ownerID))
}

// GetByIDIncludingDeleted retrieves a project regardless of its deletion state
func (r *ProjectRepository) GetByIDIncludingDeleted(id string) (*models.Project, error) {
	query := `
		SELECT id, name, description, status, owner_id, created_at, updated_at, deleted_at
		FROM projects
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// ListByOwnerID retrieves a page of projects for an owner, newest first
// (excluding soft deleted)
func (r *ProjectRepository) ListByOwnerID(ownerID string, limit, offset int) ([]*models.Project, error) {
	query := `
		SELECT id, name, description, status, owner_id, created_at, updated_at, deleted_at
		FROM projects
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project := &models.Project{}
		err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.Status,
			&project.OwnerID,
			&project.CreatedAt,
			&project.UpdatedAt,
			&project.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// CountByOwnerID counts non-deleted projects for an owner
func (r *ProjectRepository) CountByOwnerID(ownerID string) (int, error) {
	query := `SELECT COUNT(*) FROM projects WHERE owner_id = $1 AND deleted_at IS NULL`

	var count int
	err := r.db.QueryRow(query, ownerID).Scan(&count)
	return count, err
}

// Update updates a project's mutable fields
func (r *ProjectRepository) Update(project *models.Project) error {
	query := `
		UPDATE projects
		SET name = $1, description = $2, status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		project.Name,
		project.Description,
		project.Status,
		project.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// SoftDelete marks a project as deleted
func (r *ProjectRepository) SoftDelete(id string) error {
	query := `
		UPDATE projects
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *ProjectRepository) scanOne(row *sql.Row) (*models.Project, error) {
	project := &models.Project{}
	err := row.Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.Status,
		&project.OwnerID,
		&project.CreatedAt,
		&project.UpdatedAt,
		&project.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return project, nil
}
