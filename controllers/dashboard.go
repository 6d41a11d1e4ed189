// controllers/dashboard.go
package controllers

import (
	"net/http"
	"sort"
	"time"

	"remindhub-backend/config"
	"remindhub-backend/models"
	"remindhub-backend/utils"

	"github.com/gin-gonic/gin"
)

type UpcomingEvent struct {
	ContactName string `json:"contact_name"`
	EventType   string `json:"event_type"` // "birthday" or "anniversary"
	Date        string `json:"date"`
	DaysUntil   int    `json:"days_until"`
}

type DashboardStats struct {
	TotalContacts  int64           `json:"total_contacts"`
	TotalTemplates int64           `json:"total_templates"`
	UpcomingEvents []UpcomingEvent `json:"upcoming_events"`
}

// GetDashboardStats returns contact/template totals plus occasions falling in
// the next 30 days
func GetDashboardStats(c *gin.Context) {
	userUUID, ok := userUUIDFromContext(c)
	if !ok {
		return
	}

	stats := DashboardStats{UpcomingEvents: []UpcomingEvent{}}

	config.DB.Model(&models.Contact{}).Where("user_id = ?", userUUID).Count(&stats.TotalContacts)
	config.DB.Model(&models.Template{}).Where("user_id = ?", userUUID).Count(&stats.TotalTemplates)

	var contacts []models.Contact
	if err := config.DB.Where("user_id = ?", userUUID).Find(&contacts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve contacts")
		return
	}

	today := time.Now()
	for _, contact := range contacts {
		if contact.Birthday != nil {
			next := utils.NextOccurrence(today, *contact.Birthday)
			if days := utils.DaysBetween(today, next); days <= 30 {
				stats.UpcomingEvents = append(stats.UpcomingEvents, UpcomingEvent{
					ContactName: contact.Name,
					EventType:   "birthday",
					Date:        next.Format("2006-01-02"),
					DaysUntil:   days,
				})
			}
		}
		if contact.AnniversaryDate != nil {
			next := utils.NextOccurrence(today, *contact.AnniversaryDate)
			if days := utils.DaysBetween(today, next); days <= 30 {
				stats.UpcomingEvents = append(stats.UpcomingEvents, UpcomingEvent{
					ContactName: contact.Name,
					EventType:   "anniversary",
					Date:        next.Format("2006-01-02"),
					DaysUntil:   days,
				})
			}
		}
	}

	sort.Slice(stats.UpcomingEvents, func(i, j int) bool {
		return stats.UpcomingEvents[i].DaysUntil < stats.UpcomingEvents[j].DaysUntil
	})
	if len(stats.UpcomingEvents) > 10 {
		stats.UpcomingEvents = stats.UpcomingEvents[:10]
	}

	c.JSON(http.StatusOK, stats)
}
