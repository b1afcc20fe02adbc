package storage

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
)

func newTestRepo(t *testing.T) Repository {
	t.Helper()
	db, err := OpenAndMigrate(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return NewSQLiteRepository(db, 100, "Rusty Knife")
}

func TestGetCreatesProfileWithStarter(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p, created, err := repo.Get(ctx, "u1", "Ana")
	if err != nil || !created {
		t.Fatalf("expected a new profile, err=%v created=%v", err, created)
	}
	if p.Funds != 100 || len(p.OwnedWeapons) != 1 || p.OwnedWeapons[0] != "Rusty Knife" || p.Injury != game.InjuryNone {
		t.Fatalf("unexpected new profile %+v", p)
	}

	again, created, err := repo.Get(ctx, "u1", "Other")
	if err != nil || created {
		t.Fatalf("second get should load, err=%v created=%v", err, created)
	}
	if again.DisplayName != "Ana" {
		t.Fatalf("display name hint must not overwrite, got %q", again.DisplayName)
	}
}

func TestFindMissingProfile(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Find(context.Background(), "ghost")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestSaveRoundTripsSerializedLists(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	p, _, err := repo.Get(ctx, "u1", "Ana")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	p.Funds = 55
	p.OwnedWeapons = append(p.OwnedWeapons, "Crowbar")
	p.Collectibles = []string{"Old Coin"}
	p.Injury, p.Injured = game.InjuryModerate, true
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Find(ctx, "u1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.Funds != 55 || len(got.OwnedWeapons) != 2 || got.Collectibles[0] != "Old Coin" || !got.Injured {
		t.Fatalf("unexpected saved profile %+v", got)
	}
}

func TestConcurrentGetCreatesOneRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := repo.Get(ctx, "racer", "Racer"); err != nil {
				t.Errorf("get: %v", err)
			}
		}()
	}
	wg.Wait()

	top, err := repo.TopProfiles(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("expected one row, got %d", len(top))
	}
}

func TestTopProfilesOrdering(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	for _, s := range []struct {
		id          string
		extractions int
		funds       int
	}{{"a", 1, 500}, {"b", 3, 10}, {"c", 3, 90}} {
		p, _, err := repo.Get(ctx, s.id, s.id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		p.Extractions, p.Funds = s.extractions, s.funds
		if err := repo.Save(ctx, p); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	top, err := repo.TopProfiles(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 || top[0].ParticipantID != "c" || top[1].ParticipantID != "b" {
		t.Fatalf("unexpected order %+v", top)
	}
}
