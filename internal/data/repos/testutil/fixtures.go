package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	domainUser "github.com/moodwatch/moodwatch-backend/internal/domain/user"
)

// Day returns midnight UTC n days before now's calendar day.
func Day(now time.Time, n int) time.Time {
	d := now.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -n)
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.User {
	tb.Helper()
	id := uuid.New()
	u := &types.User{
		ID:       id,
		Name:     name,
		Role:     domainUser.RolePatient,
		HealthID: "MED" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:10]),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedMood(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, score int, date time.Time) *types.MoodEntry {
	tb.Helper()
	m := &types.MoodEntry{UserID: userID, MoodScore: score, Date: date.UTC()}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mood: %v", err)
	}
	return m
}

func SeedMissedCheckin(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date time.Time) *types.BehaviourLog {
	tb.Helper()
	b := &types.BehaviourLog{UserID: userID, Type: signals.BehaviourMissedCheckin, Date: date.UTC()}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed behaviour: %v", err)
	}
	return b
}

// SeedSurvey spreads total across the five items, two points at most each.
func SeedSurvey(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, total int, weekStart time.Time) *types.WeeklySurvey {
	tb.Helper()
	items := [5]int{}
	left := total
	for i := range items {
		v := left
		if v > signals.MaxSurveyItemScore {
			v = signals.MaxSurveyItemScore
		}
		items[i] = v
		left -= v
	}
	s := &types.WeeklySurvey{
		UserID:        userID,
		Sleep:         items[0],
		Stress:        items[1],
		Energy:        items[2],
		Focus:         items[3],
		Social:        items[4],
		TotalScore:    total,
		WeekStartDate: signals.WeekStart(weekStart),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed survey: %v", err)
	}
	return s
}

func SeedEmotion(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, sadness float64, moodScore int, at time.Time) *types.EmotionSample {
	tb.Helper()
	e := &types.EmotionSample{
		UserID:    userID,
		Sadness:   sadness,
		MoodScore: moodScore,
		Source:    signals.SourceManualSurvey,
		CreatedAt: at.UTC(),
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed emotion: %v", err)
	}
	return e
}

func SeedContact(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, phone string) *types.EmergencyContact {
	tb.Helper()
	c := &types.EmergencyContact{UserID: userID, Name: "Sam", Phone: phone, Relationship: "sibling"}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed contact: %v", err)
	}
	return c
}
