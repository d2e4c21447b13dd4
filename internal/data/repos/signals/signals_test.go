package signals

import (
	"context"
	"testing"
	"time"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	domainSignals "github.com/moodwatch/moodwatch-backend/internal/domain/signals"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
)

func TestMoodEntryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewMoodEntryRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "Mood User")
	now := time.Now().UTC()

	if _, err := repo.Create(dbc, []*types.MoodEntry{
		{UserID: u.ID, MoodScore: 2, Date: testutil.Day(now, 20)},
		{UserID: u.ID, MoodScore: 1, Date: testutil.Day(now, 3)},
		{UserID: u.ID, MoodScore: 4, Date: testutil.Day(now, 1)},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListSince(dbc, u.ID, testutil.Day(now, 14))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListSince: expected 2 rows inside window, got %d", len(rows))
	}
	if !rows[0].Date.Before(rows[1].Date) {
		t.Fatalf("ListSince: expected ascending dates, got %s then %s", rows[0].Date, rows[1].Date)
	}

	today := testutil.Day(now, 0)
	if ok, err := repo.ExistsBetween(dbc, u.ID, today, today.AddDate(0, 0, 1)); err != nil || ok {
		t.Fatalf("ExistsBetween(today): ok=%v err=%v", ok, err)
	}
	yesterday := testutil.Day(now, 1)
	if ok, err := repo.ExistsBetween(dbc, u.ID, yesterday, today); err != nil || !ok {
		t.Fatalf("ExistsBetween(yesterday): ok=%v err=%v", ok, err)
	}
}

func TestBehaviourLogRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewBehaviourLogRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "Behaviour User")
	now := time.Now().UTC()

	if _, err := repo.Create(dbc, []*types.BehaviourLog{
		{UserID: u.ID, Type: domainSignals.BehaviourMissedCheckin, Date: testutil.Day(now, 2)},
		{UserID: u.ID, Type: domainSignals.BehaviourMissedMed, Date: testutil.Day(now, 1)},
		{UserID: u.ID, Type: domainSignals.BehaviourMissedCheckin, Date: testutil.Day(now, 9)},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.ListSince(dbc, u.ID, testutil.Day(now, 7))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListSince: expected 2 rows, got %d", len(rows))
	}
}

func TestWeeklySurveyRepoUpsertOverwritesWeek(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewWeeklySurveyRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "Survey User")
	week := domainSignals.WeekStart(time.Now())

	first, err := repo.Upsert(dbc, &types.WeeklySurvey{
		UserID: u.ID, Sleep: 2, Stress: 2, Energy: 2, Focus: 2, Social: 2, TotalScore: 10, WeekStartDate: week,
	})
	if err != nil {
		t.Fatalf("Upsert(first): %v", err)
	}
	second, err := repo.Upsert(dbc, &types.WeeklySurvey{
		UserID: u.ID, Sleep: 1, Stress: 0, Energy: 1, Focus: 1, Social: 0, TotalScore: 3, WeekStartDate: week,
	})
	if err != nil {
		t.Fatalf("Upsert(second): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same row for the same week, got %s and %s", first.ID, second.ID)
	}
	if second.TotalScore != 3 {
		t.Fatalf("expected overwritten total 3, got %d", second.TotalScore)
	}

	if _, err := repo.Upsert(dbc, &types.WeeklySurvey{
		UserID: u.ID, Sleep: 1, Stress: 1, Energy: 1, Focus: 1, Social: 1, TotalScore: 5, WeekStartDate: week.AddDate(0, 0, -7),
	}); err != nil {
		t.Fatalf("Upsert(previous week): %v", err)
	}

	latest, err := repo.Latest(dbc, u.ID)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest == nil || latest.TotalScore != 3 {
		t.Fatalf("Latest: expected current week total 3, got %+v", latest)
	}

	rows, err := repo.ListSince(dbc, u.ID, week.AddDate(0, 0, -28))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(rows) != 2 || rows[0].TotalScore != 5 {
		t.Fatalf("ListSince: expected 2 rows oldest first, got %+v", rows)
	}

	other := testutil.SeedUser(t, ctx, tx, "No Survey")
	if none, err := repo.Latest(dbc, other.ID); err != nil || none != nil {
		t.Fatalf("Latest(none): got=%+v err=%v", none, err)
	}
}

func TestEmotionSampleRepoOrdering(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewEmotionSampleRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "Emotion User")
	now := time.Now().UTC()

	for i := 0; i < 4; i++ {
		testutil.SeedEmotion(t, ctx, tx, u.ID, float64(10*i), 3, now.Add(-time.Duration(i)*time.Hour))
	}
	testutil.SeedEmotion(t, ctx, tx, u.ID, 99, 1, now.Add(-48*time.Hour))

	recent, err := repo.ListRecent(dbc, u.ID, now.Add(-24*time.Hour), 3)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("ListRecent: expected limit 3, got %d", len(recent))
	}
	if recent[0].Sadness != 0 || recent[2].Sadness != 20 {
		t.Fatalf("ListRecent: expected newest first, got %v %v %v", recent[0].Sadness, recent[1].Sadness, recent[2].Sadness)
	}

	all, err := repo.ListSince(dbc, u.ID, now.Add(-72*time.Hour))
	if err != nil {
		t.Fatalf("ListSince: %v", err)
	}
	if len(all) != 5 || all[0].Sadness != 99 {
		t.Fatalf("ListSince: expected 5 rows oldest first, got %d", len(all))
	}
}
