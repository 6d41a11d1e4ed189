// controllers/reminder.go
package controllers

import (
	"net/http"
	"strconv"
	"time"

	"remindhub-backend/config"
	"remindhub-backend/models"
	"remindhub-backend/services"
	"remindhub-backend/utils"

	"github.com/gin-gonic/gin"
)

// ReminderController exposes the dispatch trigger and the run-log read path.
type ReminderController struct {
	Service *services.ReminderService
}

// Run executes one reminder dispatch run and returns its summary. Intended to
// be invoked by an external scheduler; each invocation independently decides
// which users are due.
func (rc *ReminderController) Run(c *gin.Context) {
	summary := rc.Service.RunDailyReminders(c.Request.Context())
	c.JSON(http.StatusOK, summary)
}

// GetLogs returns reminder logs for the last N days (default 7), newest first
func (rc *ReminderController) GetLogs(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
	if err != nil || days < 1 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid days parameter")
		return
	}

	since := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	var logs []models.ReminderLog
	if err := config.DB.Where("date >= ?", since).
		Order("execution_time desc").Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
