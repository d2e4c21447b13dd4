package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/http/response"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type MoodHandler struct {
	userResolver
	moodService      services.MoodService
	behaviourService services.BehaviourService
}

func NewMoodHandler(users services.UserService, moodService services.MoodService, behaviourService services.BehaviourService) *MoodHandler {
	return &MoodHandler{
		userResolver:     userResolver{users: users},
		moodService:      moodService,
		behaviourService: behaviourService,
	}
}

// POST /api/mood
// body: { "userId": "...", "moodScore": 1..5, "note": "...", "date": "..." }
func (mh *MoodHandler) RecordMood(c *gin.Context) {
	var req struct {
		UserID    string   `json:"userId"`
		MoodScore *float64 `json:"moodScore"`
		Note      string   `json:"note"`
		Date      string   `json:"date"`
	}
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	userID, ok := mh.resolve(c, req.UserID)
	if !ok {
		return
	}
	entry, err := mh.moodService.Record(c.Request.Context(), services.MoodInput{
		UserID:    userID,
		MoodScore: req.MoodScore,
		Note:      req.Note,
		Date:      date,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"entry": entry})
}

// POST /api/behaviour-logs
// body: { "userId": "...", "type": "missed_checkin" | "missed_med" | "inactivity", "date": "..." }
func (mh *MoodHandler) RecordBehaviour(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		Type   string `json:"type"`
		Date   string `json:"date"`
	}
	if !bindJSON(c, &req) {
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	userID, ok := mh.resolve(c, req.UserID)
	if !ok {
		return
	}
	entry, err := mh.behaviourService.Record(c.Request.Context(), services.BehaviourInput{
		UserID: userID,
		Type:   req.Type,
		Date:   date,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"log": entry})
}
