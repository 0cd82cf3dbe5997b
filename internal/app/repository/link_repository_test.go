package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/sifan077/LinkShelf/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every connection to :memory: gets its own database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.Link{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, repo LinkRepository, link *model.Link) *model.Link {
	t.Helper()
	if err := repo.Create(context.Background(), link); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return link
}

func TestLinkRepository_CreateAssignsID(t *testing.T) {
	repo := NewLinkRepository(newTestDB(t))

	link := mustCreate(t, repo, &model.Link{URL: "https://example.com", Tags: []string{"go", "news"}})
	if link.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if link.CreatedAt.IsZero() || link.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got, err := repo.GetByID(context.Background(), link.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.URL != "https://example.com" || len(got.Tags) != 2 || got.Tags[1] != "news" {
		t.Fatalf("unexpected stored link %+v", got)
	}
	if got.IsFavourite || got.ClickCount != 0 {
		t.Fatalf("expected defaults, got favourite=%v clicks=%d", got.IsFavourite, got.ClickCount)
	}
}

func TestLinkRepository_ListNewestFirst(t *testing.T) {
	repo := NewLinkRepository(newTestDB(t))
	ctx := context.Background()

	empty, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	var ids []string
	for _, u := range []string{"https://a.com", "https://b.com", "https://c.com"} {
		ids = append(ids, mustCreate(t, repo, &model.Link{URL: u}).ID)
	}

	links, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}
	for i, link := range links {
		if want := ids[len(ids)-1-i]; link.ID != want {
			t.Fatalf("position %d: got %s, want %s", i, link.ID, want)
		}
	}
}

func TestLinkRepository_ListFavourites(t *testing.T) {
	repo := NewLinkRepository(newTestDB(t))
	ctx := context.Background()

	a := mustCreate(t, repo, &model.Link{URL: "https://a.com"})
	mustCreate(t, repo, &model.Link{URL: "https://b.com"})
	c := mustCreate(t, repo, &model.Link{URL: "https://c.com"})

	for _, id := range []string{a.ID, c.ID} {
		if _, err := repo.SetFavourite(ctx, id, true); err != nil {
			t.Fatalf("SetFavourite: %v", err)
		}
	}

	favs, err := repo.ListFavourites(ctx)
	if err != nil {
		t.Fatalf("ListFavourites: %v", err)
	}
	if len(favs) != 2 || favs[0].ID != c.ID || favs[1].ID != a.ID {
		t.Fatalf("unexpected favourites %+v", favs)
	}

	unfav, err := repo.SetFavourite(ctx, c.ID, false)
	if err != nil {
		t.Fatalf("SetFavourite(false): %v", err)
	}
	if unfav.IsFavourite {
		t.Fatal("expected favourite flag to be cleared")
	}
}

func TestLinkRepository_Replace(t *testing.T) {
	repo := NewLinkRepository(newTestDB(t))
	ctx := context.Background()

	link := mustCreate(t, repo, &model.Link{URL: "https://a.com", Title: "A", Tags: []string{"x"}})
	if _, err := repo.SetFavourite(ctx, link.ID, true); err != nil {
		t.Fatalf("SetFavourite: %v", err)
	}

	updated := &model.Link{ID: link.ID, URL: "https://b.com"}
	if err := repo.Replace(ctx, updated); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	if updated.URL != "https://b.com" || updated.Title != "" || len(updated.Tags) != 0 {
		t.Fatalf("expected full replace, got %+v", updated)
	}
	if !updated.IsFavourite {
		t.Fatal("Replace must not touch the favourite flag")
	}
	if updated.UpdatedAt.Before(link.UpdatedAt) {
		t.Fatal("expected updatedAt to move forward")
	}
}

func TestLinkRepository_NotFound(t *testing.T) {
	repo := NewLinkRepository(newTestDB(t))
	ctx := context.Background()
	missing := "0190a1f2-7c3e-7d4a-9b1e-000000000000"

	if _, err := repo.GetByID(ctx, missing); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("GetByID: expected ErrLinkNotFound, got %v", err)
	}
	if err := repo.Replace(ctx, &model.Link{ID: missing, URL: "https://a.com"}); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("Replace: expected ErrLinkNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, missing); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("Delete: expected ErrLinkNotFound, got %v", err)
	}
	if _, err := repo.SetFavourite(ctx, missing, true); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("SetFavourite: expected ErrLinkNotFound, got %v", err)
	}
	if _, err := repo.IncrementClicks(ctx, missing, 1); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("IncrementClicks: expected ErrLinkNotFound, got %v", err)
	}
}

func TestLinkRepository_DeleteTwice(t *testing.T) {
	repo := NewLinkRepository(newTestDB(t))
	ctx := context.Background()

	link := mustCreate(t, repo, &model.Link{URL: "https://a.com"})

	if err := repo.Delete(ctx, link.ID); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := repo.Delete(ctx, link.ID); !errors.Is(err, ErrLinkNotFound) {
		t.Fatalf("second Delete: expected ErrLinkNotFound, got %v", err)
	}
}

func TestLinkRepository_IncrementClicksConcurrent(t *testing.T) {
	repo := NewLinkRepository(newTestDB(t))
	ctx := context.Background()

	link := mustCreate(t, repo, &model.Link{URL: "https://a.com"})

	const callers = 50
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.IncrementClicks(ctx, link.ID, 1); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("IncrementClicks: %v", err)
	}

	got, err := repo.GetByID(ctx, link.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ClickCount != callers {
		t.Fatalf("expected %d clicks, got %d", callers, got.ClickCount)
	}
}
