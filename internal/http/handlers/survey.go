package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/http/response"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type SurveyHandler struct {
	userResolver
	surveyService services.SurveyService
}

func NewSurveyHandler(users services.UserService, surveyService services.SurveyService) *SurveyHandler {
	return &SurveyHandler{userResolver: userResolver{users: users}, surveyService: surveyService}
}

// POST /api/weekly-survey
// body: { "userId": "...", "sleep": 0..2, "stress": 0..2, "energy": 0..2, "focus": 0..2, "social": 0..2, "weekStartDate": "..." }
func (sh *SurveyHandler) Submit(c *gin.Context) {
	var req struct {
		UserID        string   `json:"userId"`
		Sleep         *float64 `json:"sleep"`
		Stress        *float64 `json:"stress"`
		Energy        *float64 `json:"energy"`
		Focus         *float64 `json:"focus"`
		Social        *float64 `json:"social"`
		WeekStartDate string   `json:"weekStartDate"`
	}
	if !bindJSON(c, &req) {
		return
	}
	week, err := parseDate("weekStartDate", req.WeekStartDate)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	userID, ok := sh.resolve(c, req.UserID)
	if !ok {
		return
	}
	res, err := sh.surveyService.Submit(c.Request.Context(), services.SurveyInput{
		UserID:        userID,
		Sleep:         req.Sleep,
		Stress:        req.Stress,
		Energy:        req.Energy,
		Focus:         req.Focus,
		Social:        req.Social,
		WeekStartDate: week,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"survey":       res.Survey,
		"currentState": res.CurrentState,
	})
}

// GET /api/weekly-survey/:userId/analytics?weeks=N
func (sh *SurveyHandler) Analytics(c *gin.Context) {
	weeks, ok := queryInt(c, "weeks")
	if !ok {
		return
	}
	userID, ok := sh.fromParam(c)
	if !ok {
		return
	}
	out, err := sh.surveyService.Analytics(c.Request.Context(), userID, weeks)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"latest":   out.Latest,
		"averages": out.Averages,
		"series":   out.Series,
	})
}
