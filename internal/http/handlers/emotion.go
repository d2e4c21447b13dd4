package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/moodwatch/moodwatch-backend/internal/http/response"
	errs "github.com/moodwatch/moodwatch-backend/internal/pkg/errors"
	"github.com/moodwatch/moodwatch-backend/internal/services"
)

type EmotionHandler struct {
	userResolver
	emotionService services.EmotionService
}

func NewEmotionHandler(users services.UserService, emotionService services.EmotionService) *EmotionHandler {
	return &EmotionHandler{userResolver: userResolver{users: users}, emotionService: emotionService}
}

type emotionScoresRequest struct {
	Sadness    *float64 `json:"sadness"`
	Anger      *float64 `json:"anger"`
	Fear       *float64 `json:"fear"`
	Happy      *float64 `json:"happy"`
	Engagement *float64 `json:"engagement"`
}

// POST /api/emotion
// body: { "userId": "...", "emotions": {sadness, anger, fear, engagement, happy?} | ["Sad", ...], "intensity": .., "notes": "..." }
func (eh *EmotionHandler) Record(c *gin.Context) {
	var req struct {
		UserID    string          `json:"userId"`
		Emotions  json.RawMessage `json:"emotions"`
		Intensity *float64        `json:"intensity"`
		Notes     string          `json:"notes"`
		Source    string          `json:"source"`
	}
	if !bindJSON(c, &req) {
		return
	}
	in := services.EmotionInput{
		Intensity: req.Intensity,
		Notes:     req.Notes,
		Source:    req.Source,
	}
	if err := decodeEmotions(req.Emotions, &in); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	userID, ok := eh.resolve(c, req.UserID)
	if !ok {
		return
	}
	in.UserID = userID
	sample, err := eh.emotionService.Record(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"moodScore": sample.MoodScore,
		"createdAt": sample.CreatedAt,
		"sample":    sample,
	})
}

// decodeEmotions fills either Scores or Names from the raw payload.
func decodeEmotions(raw json.RawMessage, in *services.EmotionInput) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	switch trimmed[0] {
	case '[':
		var names []string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return errs.Newf(errs.ErrInvalidArgument, "emotions must be a list of names")
		}
		in.Names = names
	case '{':
		var scores emotionScoresRequest
		if err := json.Unmarshal(trimmed, &scores); err != nil {
			return errs.Newf(errs.ErrInvalidArgument, "emotion scores must be numbers")
		}
		in.Scores = &services.EmotionScores{
			Sadness:    scores.Sadness,
			Anger:      scores.Anger,
			Fear:       scores.Fear,
			Happy:      scores.Happy,
			Engagement: scores.Engagement,
		}
	default:
		return errs.Newf(errs.ErrInvalidArgument, "emotions must be an object or a list of names")
	}
	return nil
}

// GET /api/emotion/:userId/analytics
func (eh *EmotionHandler) Analytics(c *gin.Context) {
	userID, ok := eh.fromParam(c)
	if !ok {
		return
	}
	out, err := eh.emotionService.Analytics(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"last7Days":     out.Last7Days,
		"last30Days":    out.Last30Days,
		"recentEntries": out.RecentEntries,
		"bySource":      out.BySource,
	})
}
