package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/moodwatch/moodwatch-backend/internal/data/repos/testutil"
	types "github.com/moodwatch/moodwatch-backend/internal/domain"
	domainUser "github.com/moodwatch/moodwatch-backend/internal/domain/user"
	"github.com/moodwatch/moodwatch-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	email := "userrepo@example.com"
	created, err := repo.Create(dbc, []*types.User{
		{
			Name:     "Ada Lovelace",
			Email:    &email,
			Role:     domainUser.RolePatient,
			HealthID: "MEDADALOV12345",
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	byHealth, err := repo.GetByHealthID(dbc, " MEDADALOV12345 ")
	if err != nil {
		t.Fatalf("GetByHealthID: %v", err)
	}
	if byHealth == nil || byHealth.ID != created[0].ID {
		t.Fatalf("GetByHealthID: unexpected result: %+v", byHealth)
	}
	if missing, err := repo.GetByHealthID(dbc, "MEDNOBODY00000"); err != nil || missing != nil {
		t.Fatalf("GetByHealthID(missing): got=%+v err=%v", missing, err)
	}

	if ok, err := repo.HealthIDExists(dbc, "MEDADALOV12345"); err != nil || !ok {
		t.Fatalf("HealthIDExists: ok=%v err=%v", ok, err)
	}
	if taken, err := repo.ContactTaken(dbc, email, ""); err != nil || !taken {
		t.Fatalf("ContactTaken(email): taken=%v err=%v", taken, err)
	}
	if taken, err := repo.ContactTaken(dbc, "", "+15550000000"); err != nil || taken {
		t.Fatalf("ContactTaken(phone): taken=%v err=%v", taken, err)
	}
}

func TestUserRepoListIDsAfterPages(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	seen := map[uuid.UUID]bool{}
	for i := 0; i < 5; i++ {
		u := testutil.SeedUser(t, ctx, tx, "pager")
		seen[u.ID] = false
	}

	var cursor uuid.UUID
	pages := 0
	for {
		ids, err := repo.ListIDsAfter(dbc, cursor, 2)
		if err != nil {
			t.Fatalf("ListIDsAfter: %v", err)
		}
		if len(ids) == 0 {
			break
		}
		pages++
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				seen[id] = true
			}
		}
		cursor = ids[len(ids)-1]
	}
	for id, ok := range seen {
		if !ok {
			t.Fatalf("user %s never paged", id)
		}
	}
	if pages < 3 {
		t.Fatalf("expected at least 3 pages of 2, got %d", pages)
	}
}
