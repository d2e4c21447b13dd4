package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/http/response"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// POST /api/users
// body: { "name": "...", "email": "...", "phone": "...", "role": "patient" | "hospital" }
func (uh *UserHandler) Create(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email" binding:"omitempty,email"`
		Phone string `json:"phone" binding:"omitempty,max=32"`
		Role  string `json:"role"`
	}
	if !bindJSON(c, &req) {
		return
	}
	u, err := uh.userService.Create(c.Request.Context(), services.CreateUserInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"user": u})
}

// GET /api/users/:userId
func (uh *UserHandler) Get(c *gin.Context) {
	u, err := uh.userService.Resolve(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": u})
}
