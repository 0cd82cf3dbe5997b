package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sifan077/LinkShelf/internal/linkurl"
)

var (
	// ErrURLRequired is returned by Share when the url is blank; no request is sent.
	ErrURLRequired = errors.New("url is required")
	// ErrLinkNotCached is returned when an id is in neither cache.
	ErrLinkNotCached = errors.New("link not loaded")
	// ErrNoOpener is returned by Open when the store was built without an Opener.
	ErrNoOpener = errors.New("no opener configured")
)

// Opener hands a url to whatever displays it (a browser, a terminal printer).
type Opener interface {
	Open(url string) error
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }

// Store holds the client's view of the shelf: all links, favourite links,
// whether the first load is still pending, and the selected view.
// Mutations refresh both caches on success only.
//
// A Store is not safe for concurrent use.
type Store struct {
	api    LinkAPI
	notify Notifier
	opener Opener

	links      []Link
	favourites []Link
	loading    bool
	view       View
}

// NewStore builds an empty store. Loading reports true until the first Refresh.
func NewStore(api LinkAPI, notify Notifier, opener Opener) *Store {
	if notify == nil {
		notify = &RecordingNotifier{}
	}
	return &Store{
		api:     api,
		notify:  notify,
		opener:  opener,
		loading: true,
		view:    ViewHome,
	}
}

func (s *Store) Links() []Link      { return s.links }
func (s *Store) Favourites() []Link { return s.favourites }
func (s *Store) Loading() bool      { return s.loading }
func (s *Store) View() View         { return s.view }

// Navigate selects the view for a menu id and returns it.
func (s *Store) Navigate(id string) View {
	s.view = ParseView(id)
	return s.view
}

// Find looks an id up in the cached links, then in the cached favourites.
func (s *Store) Find(id string) (Link, bool) {
	for _, cache := range [][]Link{s.links, s.favourites} {
		for _, link := range cache {
			if link.ID == id {
				return link, true
			}
		}
	}
	return Link{}, false
}

// Refresh refetches both caches. Each cache is replaced only when its own
// fetch succeeds; loading ends after the first attempt either way.
func (s *Store) Refresh(ctx context.Context) error {
	var errs []error

	links, err := s.api.ListLinks(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("fetch links: %w", err))
	} else {
		s.links = links
	}
	s.loading = false

	favourites, err := s.api.ListFavourites(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("fetch favourites: %w", err))
	} else {
		s.favourites = favourites
	}

	return errors.Join(errs...)
}

// Share creates a link from the share form.
func (s *Store) Share(ctx context.Context, input LinkInput) (*Link, error) {
	if strings.TrimSpace(input.URL) == "" {
		s.notify.Error(MsgEnterURL)
		return nil, ErrURLRequired
	}

	link, err := s.api.CreateLink(ctx, input)
	if err != nil {
		s.notify.Error(MsgShareFailed)
		return nil, err
	}
	return link, s.succeeded(ctx, MsgShared)
}

// Edit replaces url, title and tags of a link.
func (s *Store) Edit(ctx context.Context, id string, input LinkInput) (*Link, error) {
	link, err := s.api.UpdateLink(ctx, id, input)
	if err != nil {
		s.notify.Error(MsgUpdateFailed)
		return nil, err
	}
	return link, s.succeeded(ctx, MsgUpdated)
}

// EditTags adds and removes tags on a cached link and sends the result as a
// full update, keeping its url and title.
func (s *Store) EditTags(ctx context.Context, id string, add, remove []string) (*Link, error) {
	current, ok := s.Find(id)
	if !ok {
		s.notify.Error(MsgUpdateFailed)
		return nil, fmt.Errorf("%w: %s", ErrLinkNotCached, id)
	}

	tags := append([]string(nil), current.Tags...)
	for _, tag := range remove {
		tags = RemoveTag(tags, tag)
	}
	for _, tag := range add {
		tags = AddTag(tags, tag)
	}

	return s.Edit(ctx, id, LinkInput{
		URL:   current.URL,
		Title: current.Title,
		Tags:  tags,
	})
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteLink(ctx, id); err != nil {
		s.notify.Error(MsgDeleteFailed)
		return err
	}
	return s.succeeded(ctx, MsgDeleted)
}

func (s *Store) AddFavourite(ctx context.Context, id string) (*Link, error) {
	link, err := s.api.AddToFavourites(ctx, id)
	if err != nil {
		s.notify.Error(MsgFavouriteAddFailed)
		return nil, err
	}
	return link, s.succeeded(ctx, MsgFavouriteAdded)
}

func (s *Store) RemoveFavourite(ctx context.Context, id string) (*Link, error) {
	link, err := s.api.RemoveFromFavourites(ctx, id)
	if err != nil {
		s.notify.Error(MsgFavouriteRemoveFail)
		return nil, err
	}
	return link, s.succeeded(ctx, MsgFavouriteRemoved)
}

// Open hands the cached link's url, with a scheme, to the opener and then
// records a click.
func (s *Store) Open(ctx context.Context, id string) (*Link, error) {
	current, ok := s.Find(id)
	if !ok {
		s.notify.Error(MsgOpenFailed)
		return nil, fmt.Errorf("%w: %s", ErrLinkNotCached, id)
	}
	if s.opener == nil {
		s.notify.Error(MsgOpenFailed)
		return nil, ErrNoOpener
	}

	if err := s.opener.Open(linkurl.Normalize(current.URL)); err != nil {
		s.notify.Error(MsgOpenFailed)
		return nil, fmt.Errorf("open %s: %w", current.URL, err)
	}

	link, err := s.api.RecordClick(ctx, id)
	if err != nil {
		s.notify.Error(MsgClickFailed)
		return nil, fmt.Errorf("record click: %w", err)
	}
	return link, s.Refresh(ctx)
}

func (s *Store) succeeded(ctx context.Context, msg string) error {
	s.notify.Success(msg)
	if err := s.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}
