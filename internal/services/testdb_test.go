package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/taskforge/internal/models"
	"github.com/taskforge/taskforge/internal/repositories"
)

const testSchema = `
CREATE TABLE projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'pending',
    owner_id TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP
);

CREATE TABLE tasks (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL REFERENCES projects(id),
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'todo',
    priority TEXT,
    due_date TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at TIMESTAMP
);
`

type testEnv struct {
	db             *sql.DB
	projectService *ProjectService
	taskService    *TaskService
	exportService  *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A pooled second connection would see a different empty in-memory db.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	taskService := NewTaskService(taskRepo, projectRepo)

	return &testEnv{
		db:             db,
		projectService: NewProjectService(projectRepo),
		taskService:    taskService,
		exportService:  NewExportService(taskService),
	}
}

func (e *testEnv) createProject(t *testing.T, ownerID uuid.UUID, name string) *models.Project {
	t.Helper()

	project, err := e.projectService.CreateProject(ownerID, CreateProjectInput{
		Name:        name,
		Description: "a test project",
		Status:      models.ProjectStatusPending,
	})
	require.NoError(t, err)
	return project
}

func (e *testEnv) createTask(t *testing.T, ownerID uuid.UUID, projectID, title string) *models.Task {
	t.Helper()

	task, err := e.taskService.CreateTask(ownerID, projectID, CreateTaskInput{
		Title:       title,
		Description: "a test task",
	})
	require.NoError(t, err)
	return task
}

// backdate shifts a row's created_at so list-ordering tests do not depend
// on insert timestamps sharing the same second.
func (e *testEnv) backdate(t *testing.T, table string, id uuid.UUID, age time.Duration) {
	t.Helper()

	createdAt := time.Now().UTC().Add(-age).Format("2006-01-02 15:04:05")
	_, err := e.db.Exec(`UPDATE `+table+` SET created_at = $1 WHERE id = $2`, createdAt, id)
	require.NoError(t, err)
}
