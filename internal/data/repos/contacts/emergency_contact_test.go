package contacts

import (
	"context"
	"testing"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
)

func TestEmergencyContactRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewEmergencyContactRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "Contact User")

	if got, err := repo.GetByUserID(dbc, u.ID); err != nil || got != nil {
		t.Fatalf("GetByUserID(empty): got=%+v err=%v", got, err)
	}

	first, err := repo.Upsert(dbc, &types.EmergencyContact{UserID: u.ID, Name: "Sam", Phone: "+15550001111"})
	if err != nil {
		t.Fatalf("Upsert(first): %v", err)
	}
	second, err := repo.Upsert(dbc, &types.EmergencyContact{UserID: u.ID, Name: "Alex", Phone: "+15550002222", Relationship: "friend"})
	if err != nil {
		t.Fatalf("Upsert(second): %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected one contact per user, got %s and %s", first.ID, second.ID)
	}
	if second.Phone != "+15550002222" || second.Name != "Alex" {
		t.Fatalf("Upsert did not overwrite: %+v", second)
	}
}
