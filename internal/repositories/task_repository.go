package repositories

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

// Create creates a new task attached to its project
func (r *TaskRepository) Create(task *models.Task) error {
	query := `
		INSERT INTO tasks (id, project_id, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	task.ID = uuid.New()

	_, err := r.db.Exec(query,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
	)
	if err != nil {
		return err
	}

	return r.db.QueryRow(
		`SELECT created_at, updated_at FROM tasks WHERE id = $1`,
		task.ID,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

// GetByID retrieves a task by ID (excluding soft deleted)
func (r *TaskRepository) GetByID(id string) (*models.Task, error) {
	query := taskSelect + ` WHERE id = $1 AND deleted_at IS NULL`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByIDIncludingDeleted retrieves a task regardless of its deletion state
func (r *TaskRepository) GetByIDIncludingDeleted(id string) (*models.Task, error) {
	query := taskSelect + ` WHERE id = $1`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByIDOnlyDeleted retrieves a task only if it is currently trashed
func (r *TaskRepository) GetByIDOnlyDeleted(id string) (*models.Task, error) {
	query := taskSelect + ` WHERE id = $1 AND deleted_at IS NOT NULL`

	return r.scanOne(r.db.QueryRow(query, id))
}

// ListByProjectID retrieves a page of non-deleted tasks for a project, newest first
func (r *TaskRepository) ListByProjectID(projectID string, limit, offset int) ([]*models.Task, error) {
	query := taskSelect + `
		WHERE project_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(query, projectID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []*models.Task{}
	for rows.Next() {
		task := &models.Task{}
		err := rows.Scan(
			&task.ID,
			&task.ProjectID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.DueDate,
			&task.CreatedAt,
			&task.UpdatedAt,
			&task.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// CountByProjectID counts non-deleted tasks for a project
func (r *TaskRepository) CountByProjectID(projectID string) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE project_id = $1 AND deleted_at IS NULL`

	var count int
	err := r.db.QueryRow(query, projectID).Scan(&count)
	return count, err
}

// Update updates a task's mutable fields
func (r *TaskRepository) Update(task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.ID,
	)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// SoftDelete marks a task as deleted
func (r *TaskRepository) SoftDelete(id string) error {
	query := `
		UPDATE tasks
		SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// Restore clears the deletion marker of a trashed task
func (r *TaskRepository) Restore(id string) error {
	query := `
		UPDATE tasks
		SET deleted_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND deleted_at IS NOT NULL
	`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

// Purge removes a trashed task irrecoverably
func (r *TaskRepository) Purge(id string) error {
	query := `DELETE FROM tasks WHERE id = $1 AND deleted_at IS NOT NULL`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	return requireRowsAffected(result)
}

const taskSelect = `
	SELECT id, project_id, title, description, status, priority, due_date,
	       created_at, updated_at, deleted_at
	FROM tasks`

func (r *TaskRepository) scanOne(row *sql.Row) (*models.Task, error) {
	task := &models.Task{}
	err := row.Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	return task, nil
}

func requireRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
