package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sifan077/LinkShelf/internal/app/apperr"
	"github.com/sifan077/LinkShelf/internal/app/model"
	"github.com/sifan077/LinkShelf/internal/app/repository"
)

const validID = "0190a1f2-7c3e-7d4a-9b1e-5c6d7e8f9a0b"

type mockLinkRepository struct {
	createFn    func(ctx context.Context, link *model.Link) error
	getFn       func(ctx context.Context, id string) (*model.Link, error)
	listFn      func(ctx context.Context) ([]model.Link, error)
	favFn       func(ctx context.Context) ([]model.Link, error)
	replaceFn   func(ctx context.Context, link *model.Link) error
	deleteFn    func(ctx context.Context, id string) error
	setFavFn    func(ctx context.Context, id string, favourite bool) (*model.Link, error)
	incrementFn func(ctx context.Context, id string, delta int64) (*model.Link, error)
}

func (m *mockLinkRepository) Create(ctx context.Context, link *model.Link) error {
	if m.createFn != nil {
		return m.createFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) GetByID(ctx context.Context, id string) (*model.Link, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, repository.ErrLinkNotFound
}

func (m *mockLinkRepository) List(ctx context.Context) ([]model.Link, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockLinkRepository) ListFavourites(ctx context.Context) ([]model.Link, error) {
	if m.favFn != nil {
		return m.favFn(ctx)
	}
	return nil, nil
}

func (m *mockLinkRepository) Replace(ctx context.Context, link *model.Link) error {
	if m.replaceFn != nil {
		return m.replaceFn(ctx, link)
	}
	return nil
}

func (m *mockLinkRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockLinkRepository) SetFavourite(ctx context.Context, id string, favourite bool) (*model.Link, error) {
	if m.setFavFn != nil {
		return m.setFavFn(ctx, id, favourite)
	}
	return &model.Link{ID: id, IsFavourite: favourite}, nil
}

func (m *mockLinkRepository) IncrementClicks(ctx context.Context, id string, delta int64) (*model.Link, error) {
	if m.incrementFn != nil {
		return m.incrementFn(ctx, id, delta)
	}
	return &model.Link{ID: id, ClickCount: delta}, nil
}

func TestLinkService_CreateLink_Normalizes(t *testing.T) {
	var stored *model.Link
	repo := &mockLinkRepository{
		createFn: func(ctx context.Context, link *model.Link) error {
			stored = link
			return nil
		},
	}

	svc := NewLinkService(repo)
	link, err := svc.CreateLink(context.Background(), CreateLinkInput{
		URL:   "  example.com ",
		Title: "  Example  ",
		Tags:  []string{" news ", "   ", "", "go", "go"},
	})
	if err != nil {
		t.Fatalf("CreateLink returned error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected repository Create to be called")
	}
	if link.URL != "https://example.com" {
		t.Fatalf("expected normalized url, got %q", link.URL)
	}
	if link.Title != "Example" {
		t.Fatalf("expected trimmed title, got %q", link.Title)
	}
	want := []string{"news", "go", "go"}
	if strings.Join(link.Tags, ",") != strings.Join(want, ",") {
		t.Fatalf("expected tags %v, got %v", want, link.Tags)
	}
	if link.IsFavourite || link.ClickCount != 0 {
		t.Fatal("expected a fresh link to be unfavourited with no clicks")
	}
}

func TestLinkService_CreateLink_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  CreateLinkInput
		detail string
	}{
		{name: "missing url", input: CreateLinkInput{}, detail: MsgURLRequired},
		{name: "blank url", input: CreateLinkInput{URL: "   "}, detail: MsgURLRequired},
		{name: "malformed url", input: CreateLinkInput{URL: "not a url"}, detail: MsgURLInvalid},
		{name: "long title", input: CreateLinkInput{URL: "example.com", Title: strings.Repeat("a", 201)}, detail: MsgTitleTooLong},
		{name: "long tag", input: CreateLinkInput{URL: "example.com", Tags: []string{strings.Repeat("t", 51)}}, detail: MsgTagTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockLinkRepository{
				createFn: func(ctx context.Context, link *model.Link) error {
					t.Fatal("nothing should be persisted")
					return nil
				},
			}

			_, err := NewLinkService(repo).CreateLink(context.Background(), tt.input)
			if apperr.KindOf(err) != apperr.Validation {
				t.Fatalf("expected Validation, got %v", err)
			}
			details := apperr.DetailsOf(err)
			if len(details) == 0 || details[0] != tt.detail {
				t.Fatalf("expected detail %q, got %v", tt.detail, details)
			}
		})
	}
}

func TestLinkService_CreateLink_LimitsCountCharacters(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{})

	_, err := svc.CreateLink(context.Background(), CreateLinkInput{
		URL:   "example.com",
		Title: strings.Repeat("é", 200),
		Tags:  []string{strings.Repeat("ü", 50)},
	})
	if err != nil {
		t.Fatalf("expected multi-byte text at the limit to pass, got %v", err)
	}
}

func TestLinkService_UpdateLink_FullReplace(t *testing.T) {
	var replaced *model.Link
	repo := &mockLinkRepository{
		replaceFn: func(ctx context.Context, link *model.Link) error {
			replaced = link
			return nil
		},
	}

	svc := NewLinkService(repo)
	url := "new.example.com"
	_, err := svc.UpdateLink(context.Background(), strings.ToUpper(validID), UpdateLinkInput{URL: &url})
	if err != nil {
		t.Fatalf("UpdateLink error: %v", err)
	}

	if replaced.ID != validID {
		t.Fatalf("expected canonical id %q, got %q", validID, replaced.ID)
	}
	if replaced.URL != "https://new.example.com" {
		t.Fatalf("expected normalized url, got %q", replaced.URL)
	}
	if replaced.Title != "" || replaced.Tags == nil || len(replaced.Tags) != 0 {
		t.Fatalf("expected title and tags to be cleared, got %+v", replaced)
	}
}

func TestLinkService_UpdateLink_KeepsURLWhenAbsent(t *testing.T) {
	repo := &mockLinkRepository{
		replaceFn: func(ctx context.Context, link *model.Link) error {
			if link.URL != "" {
				t.Fatalf("expected url to be left for the store to keep, got %q", link.URL)
			}
			return nil
		},
	}

	if _, err := NewLinkService(repo).UpdateLink(context.Background(), validID, UpdateLinkInput{Title: "t"}); err != nil {
		t.Fatalf("UpdateLink error: %v", err)
	}
}

func TestLinkService_UpdateLink_Errors(t *testing.T) {
	blank := "  "
	repo := &mockLinkRepository{
		replaceFn: func(ctx context.Context, link *model.Link) error {
			return repository.ErrLinkNotFound
		},
	}
	svc := NewLinkService(repo)
	ctx := context.Background()

	if _, err := svc.UpdateLink(ctx, "not-an-id", UpdateLinkInput{}); apperr.KindOf(err) != apperr.InvalidID {
		t.Fatalf("expected InvalidID, got %v", err)
	}
	if _, err := svc.UpdateLink(ctx, validID, UpdateLinkInput{URL: &blank}); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("expected Validation, got %v", err)
	}
	_, err := svc.UpdateLink(ctx, validID, UpdateLinkInput{})
	if apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound in chain, got %v", err)
	}
}

func TestLinkService_DeleteLink(t *testing.T) {
	deleted := map[string]bool{}
	repo := &mockLinkRepository{
		deleteFn: func(ctx context.Context, id string) error {
			if deleted[id] {
				return repository.ErrLinkNotFound
			}
			deleted[id] = true
			return nil
		},
	}
	svc := NewLinkService(repo)
	ctx := context.Background()

	if err := svc.DeleteLink(ctx, validID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeleteLink(ctx, validID); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("second delete: expected NotFound, got %v", err)
	}
	if err := svc.DeleteLink(ctx, "123"); apperr.KindOf(err) != apperr.InvalidID {
		t.Fatalf("expected InvalidID, got %v", err)
	}
}

func TestLinkService_RecordClick_UsesAtomicIncrement(t *testing.T) {
	var delta int64
	repo := &mockLinkRepository{
		getFn: func(ctx context.Context, id string) (*model.Link, error) {
			t.Fatal("RecordClick must not read before writing")
			return nil, nil
		},
		incrementFn: func(ctx context.Context, id string, d int64) (*model.Link, error) {
			delta = d
			return &model.Link{ID: id, ClickCount: 7}, nil
		},
	}

	link, err := NewLinkService(repo).RecordClick(context.Background(), validID)
	if err != nil {
		t.Fatalf("RecordClick: %v", err)
	}
	if delta != 1 || link.ClickCount != 7 {
		t.Fatalf("unexpected delta=%d clicks=%d", delta, link.ClickCount)
	}
}

func TestLinkService_SetFavourite(t *testing.T) {
	svc := NewLinkService(&mockLinkRepository{})

	link, err := svc.SetFavourite(context.Background(), validID, true)
	if err != nil {
		t.Fatalf("SetFavourite: %v", err)
	}
	if !link.IsFavourite {
		t.Fatal("expected favourite to be set")
	}
	if _, err := svc.SetFavourite(context.Background(), "", true); apperr.KindOf(err) != apperr.InvalidID {
		t.Fatalf("expected InvalidID, got %v", err)
	}
}

func TestLinkService_ListLinks_WrapsStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	repo := &mockLinkRepository{
		listFn: func(ctx context.Context) ([]model.Link, error) { return nil, boom },
	}

	_, err := NewLinkService(repo).ListLinks(context.Background())
	if !errors.Is(err, boom) || apperr.KindOf(err) != apperr.Internal {
		t.Fatalf("expected internal error wrapping %v, got %v", boom, err)
	}
}
