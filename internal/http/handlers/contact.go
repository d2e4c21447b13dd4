package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/http/response"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type ContactHandler struct {
	userResolver
	contactService services.ContactService
}

func NewContactHandler(users services.UserService, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{userResolver: userResolver{users: users}, contactService: contactService}
}

// POST /api/emergency-contact
// body: { "userId": "...", "name": "...", "phone": "...", "relationship": "..." }
func (ch *ContactHandler) Upsert(c *gin.Context) {
	var req struct {
		UserID       string `json:"userId"`
		Name         string `json:"name"`
		Phone        string `json:"phone"`
		Relationship string `json:"relationship"`
	}
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := ch.resolve(c, req.UserID)
	if !ok {
		return
	}
	contact, err := ch.contactService.Upsert(c.Request.Context(), services.ContactInput{
		UserID:       userID,
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact": contact})
}

// GET /api/emergency-contact/:userId
func (ch *ContactHandler) Get(c *gin.Context) {
	userID, ok := ch.fromParam(c)
	if !ok {
		return
	}
	contact, err := ch.contactService.Get(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"contact": contact})
}
