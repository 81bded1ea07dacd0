package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/kovaikural/kural/utils"
)

// HealthController reports service liveness.
type HealthController struct {
	db *gorm.DB
}

// NewHealthController creates a HealthController.
func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health returns status up plus the database connection state.
func (h *HealthController) Health(c *gin.Context) {
	dbState := "up"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
		dbState = "down"
	}
	utils.Success(c, gin.H{"status": "up", "database": dbState})
}
