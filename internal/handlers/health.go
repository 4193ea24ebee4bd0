package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/taskforge/taskforge/pkg/database"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck reports process liveness and database reachability
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := database.DB.Ping(); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"database": "ok"}, "")
}
