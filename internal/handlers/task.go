package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/taskforge/internal/services"
)

type TaskHandler struct {
	taskService   *services.TaskService
	exportService *services.ExportService
}

func NewTaskHandler(taskService *services.TaskService, exportService *services.ExportService) *TaskHandler {
	return &TaskHandler{
		taskService:   taskService,
		exportService: exportService,
	}
}

// ListTasks returns a project's tasks, paginated
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, perPage := pageParams(c)

	tasks, meta, err := h.taskService.ListTasks(userID, c.Param("id"), page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, tasks, meta)
}

// CreateTask creates a task under a project
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.CreateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidBody(c)
		return
	}

	task, err := h.taskService.CreateTask(userID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, task, "Task created successfully")
}

// GetTask returns a task the authenticated user transitively owns
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, task, "")
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.UpdateTaskInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidBody(c)
		return
	}

	task, err := h.taskService.UpdateTask(userID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, task, "Task updated successfully")
}

// DeleteTask soft-deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, nil, "Task moved to trash")
}

// RestoreTask brings a trashed task back
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.RestoreTask(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, task, "Task restored successfully")
}

// ForceDeleteTask purges a trashed task irrecoverably
func (h *TaskHandler) ForceDeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.ForceDeleteTask(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, nil, "Task permanently deleted")
}

// ExportTasks streams a project's active tasks as an .xlsx workbook
func (h *TaskHandler) ExportTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportService.ExportTasks(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
