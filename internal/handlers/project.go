package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskforge/taskforge/internal/middleware"
	"github.com/taskforge/taskforge/internal/services"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// ListProjects returns the authenticated user's projects, paginated
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	page, perPage := pageParams(c)

	projects, meta, err := h.projectService.ListProjects(userID, page, perPage)
	if err != nil {
		respondError(c, err)
		return
	}

	respondList(c, projects, meta)
}

// CreateProject creates a project owned by the authenticated user
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidBody(c)
		return
	}

	project, err := h.projectService.CreateProject(userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, project, "Project created successfully")
}

// GetProject returns one of the authenticated user's projects
func (h *ProjectHandler) GetProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, project, "")
}

// UpdateProject applies a partial update to a project
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var input services.UpdateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondInvalidBody(c)
		return
	}

	project, err := h.projectService.UpdateProject(userID, c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, project, "Project updated successfully")
}

// DeleteProject soft-deletes a project
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, nil, "Project moved to trash")
}

// currentUser pulls the authenticated identity resolved by AuthRequired.
// A missing identity means the route was wired without the middleware.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, Response{
			Status:  false,
			Message: "Unauthenticated.",
		})
		return uuid.Nil, false
	}
	return userID, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(services.DefaultPerPage)))
	return page, perPage
}
