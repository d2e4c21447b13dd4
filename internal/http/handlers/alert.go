package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/http/response"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type AlertHandler struct {
	userResolver
	alertService        services.AlertService
	notificationService services.NotificationService
}

func NewAlertHandler(users services.UserService, alertService services.AlertService, notificationService services.NotificationService) *AlertHandler {
	return &AlertHandler{
		userResolver:        userResolver{users: users},
		alertService:        alertService,
		notificationService: notificationService,
	}
}

// GET /api/alert/:userId
func (ah *AlertHandler) Overview(c *gin.Context) {
	userID, ok := ah.fromParam(c)
	if !ok {
		return
	}
	out, err := ah.alertService.GetOverview(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"state":        out.State,
		"moods":        out.Moods,
		"emotionAlert": out.EmotionAlert,
	})
}

// GET /api/alert/:userId/history?limit=N
func (ah *AlertHandler) History(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	userID, ok := ah.fromParam(c)
	if !ok {
		return
	}
	rows, err := ah.alertService.ListHistory(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"history": rows})
}

// GET /api/notifications/:userId?limit=N
func (ah *AlertHandler) Notifications(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	userID, ok := ah.fromParam(c)
	if !ok {
		return
	}
	rows, err := ah.notificationService.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notifications": rows})
}
