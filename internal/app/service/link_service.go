package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sifan077/LinkShelf/internal/app/apperr"
	"github.com/sifan077/LinkShelf/internal/app/model"
	"github.com/sifan077/LinkShelf/internal/app/repository"
	"github.com/sifan077/LinkShelf/internal/linkurl"
)

// Validation messages returned to API callers.
const (
	MsgURLRequired  = "URL is required"
	MsgURLInvalid   = "Please enter a valid URL"
	MsgTitleTooLong = "Title cannot exceed 200 characters"
	MsgTagTooLong   = "Tag cannot exceed 50 characters"
)

// ErrInvalidLinkID is wrapped with apperr.InvalidID when an id is not a UUID.
var ErrInvalidLinkID = errors.New("invalid link id")

// LinkService defines behaviour-level operations on links.
type LinkService interface {
	ListLinks(ctx context.Context) ([]model.Link, error)
	ListFavourites(ctx context.Context) ([]model.Link, error)
	CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error)
	UpdateLink(ctx context.Context, id string, input UpdateLinkInput) (*model.Link, error)
	DeleteLink(ctx context.Context, id string) error
	SetFavourite(ctx context.Context, id string, favourite bool) (*model.Link, error)
	RecordClick(ctx context.Context, id string) (*model.Link, error)
}

type linkService struct {
	repo repository.LinkRepository
}

// NewLinkService returns a service implementation backed by the given repository.
func NewLinkService(repo repository.LinkRepository) LinkService {
	return &linkService{repo: repo}
}

// CreateLinkInput captures data required to create a link.
type CreateLinkInput struct {
	URL   string
	Title string
	Tags  []string
}

// UpdateLinkInput replaces the editable fields of a link. A nil URL keeps the
// stored url; Title and Tags are always overwritten, so leaving them empty
// clears them.
type UpdateLinkInput struct {
	URL   *string
	Title string
	Tags  []string
}

func (s *linkService) ListLinks(ctx context.Context) ([]model.Link, error) {
	links, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *linkService) ListFavourites(ctx context.Context) ([]model.Link, error) {
	links, err := s.repo.ListFavourites(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favourites: %w", err)
	}
	return links, nil
}

func (s *linkService) CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error) {
	const op = "create link"

	link := &model.Link{
		URL:   linkurl.Normalize(input.URL),
		Title: strings.TrimSpace(input.Title),
		Tags:  CleanTags(input.Tags),
	}
	if err := validate(op, link, true); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return link, nil
}

func (s *linkService) UpdateLink(ctx context.Context, id string, input UpdateLinkInput) (*model.Link, error) {
	const op = "update link"

	linkID, err := parseID(op, id)
	if err != nil {
		return nil, err
	}

	link := &model.Link{
		ID:    linkID,
		Title: strings.TrimSpace(input.Title),
		Tags:  CleanTags(input.Tags),
	}
	checkURL := input.URL != nil
	if checkURL {
		link.URL = linkurl.Normalize(*input.URL)
	}
	if err := validate(op, link, checkURL); err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, link); err != nil {
		return nil, wrapStoreErr(op, err)
	}
	return link, nil
}

func (s *linkService) DeleteLink(ctx context.Context, id string) error {
	const op = "delete link"

	linkID, err := parseID(op, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, linkID); err != nil {
		return wrapStoreErr(op, err)
	}
	return nil
}

func (s *linkService) SetFavourite(ctx context.Context, id string, favourite bool) (*model.Link, error) {
	const op = "set favourite"

	linkID, err := parseID(op, id)
	if err != nil {
		return nil, err
	}
	link, err := s.repo.SetFavourite(ctx, linkID, favourite)
	if err != nil {
		return nil, wrapStoreErr(op, err)
	}
	return link, nil
}

func (s *linkService) RecordClick(ctx context.Context, id string) (*model.Link, error) {
	const op = "record click"

	linkID, err := parseID(op, id)
	if err != nil {
		return nil, err
	}
	link, err := s.repo.IncrementClicks(ctx, linkID, 1)
	if err != nil {
		return nil, wrapStoreErr(op, err)
	}
	return link, nil
}

// CleanTags trims every tag and drops the blank ones. Order and duplicates are kept.
func CleanTags(tags []string) []string {
	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			cleaned = append(cleaned, tag)
		}
	}
	return cleaned
}

// validate expects already normalized fields.
func validate(op string, link *model.Link, checkURL bool) error {
	var details []string

	if checkURL {
		switch {
		case link.URL == "":
			details = append(details, MsgURLRequired)
		case !linkurl.Valid(link.URL):
			details = append(details, MsgURLInvalid)
		}
	}
	if utf8.RuneCountInString(link.Title) > model.MaxTitleLength {
		details = append(details, MsgTitleTooLong)
	}
	for _, tag := range link.Tags {
		if utf8.RuneCountInString(tag) > model.MaxTagLength {
			details = append(details, MsgTagTooLong)
			break
		}
	}

	if len(details) > 0 {
		return apperr.Invalid(op, details...)
	}
	return nil
}

func parseID(op, id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", apperr.E(op, apperr.InvalidID, fmt.Errorf("%w %q", ErrInvalidLinkID, id))
	}
	return parsed.String(), nil
}

func wrapStoreErr(op string, err error) error {
	if errors.Is(err, repository.ErrLinkNotFound) {
		return apperr.E(op, apperr.NotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
