package emotion_alert_evaluate

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/alerts"
	domainJobs "github.com/moodwatch/moodwatch-backend/internal/domain/jobs"
	jobrt "github.com/moodwatch/moodwatch-backend/internal/jobs/runtime"
	"github.com/moodwatch/moodwatch-backend/internal/platform/logger"
)

type stubEmotion struct{ users []uuid.UUID }

func (s *stubEmotion) EvaluateEmotionAlert(_ context.Context, userID uuid.UUID) (*types.EmotionAlert, error) {
	s.users = append(s.users, userID)
	return &types.EmotionAlert{UserID: userID, State: alerts.LevelStable, Reason: alerts.ReasonNoEmotionData}, nil
}

func TestRunEvaluatesEmotionTrack(t *testing.T) {
	stub := &stubEmotion{}
	p := New(logger.NewNop(), stub)
	assert.Equal(t, domainJobs.TypeEmotionAlertEvaluate, p.Type())

	id := uuid.New()
	jc := jobrt.NewContext(context.Background(), domainJobs.New(p.Type(), id, "emotion_sample"), logger.NewNop())
	require.NoError(t, p.Run(jc))
	assert.Equal(t, []uuid.UUID{id}, stub.users)
}

func TestRunSkipsJobsWithoutUser(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	stub := &stubEmotion{}
	p := New(&logger.Logger{SugaredLogger: zap.New(core).Sugar()}, stub)
	jc := jobrt.NewContext(context.Background(), domainJobs.New(p.Type(), uuid.Nil, ""), logger.NewNop())
	require.NoError(t, p.Run(jc))
	assert.Empty(t, stub.users)
	assert.Equal(t, 1, logs.FilterMessage("Skipping job without a user").Len())
}
