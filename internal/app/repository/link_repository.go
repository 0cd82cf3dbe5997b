package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sifan077/LinkShelf/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that no link matches the requested id.
	ErrLinkNotFound = errors.New("link not found")
)

// LinkRepository defines the data access contract for links.
type LinkRepository interface {
	Create(ctx context.Context, link *model.Link) error
	GetByID(ctx context.Context, id string) (*model.Link, error)
	List(ctx context.Context) ([]model.Link, error)
	ListFavourites(ctx context.Context) ([]model.Link, error)
	Replace(ctx context.Context, link *model.Link) error
	Delete(ctx context.Context, id string) error
	SetFavourite(ctx context.Context, id string, favourite bool) (*model.Link, error)
	IncrementClicks(ctx context.Context, id string, delta int64) (*model.Link, error)
}

type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository returns a GORM-backed LinkRepository.
func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

const newestFirst = "created_at DESC, id DESC"

// Create assigns a time ordered id when the caller left it empty.
func (r *linkRepository) Create(ctx context.Context, link *model.Link) error {
	if link.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate link id: %w", err)
		}
		link.ID = id.String()
	}
	if link.Tags == nil {
		link.Tags = []string{}
	}

	return r.db.WithContext(ctx).Create(link).Error
}

func (r *linkRepository) GetByID(ctx context.Context, id string) (*model.Link, error) {
	var link model.Link
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *linkRepository) List(ctx context.Context) ([]model.Link, error) {
	result := []model.Link{}
	if err := r.db.WithContext(ctx).
		Order(newestFirst).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *linkRepository) ListFavourites(ctx context.Context) ([]model.Link, error) {
	result := []model.Link{}
	if err := r.db.WithContext(ctx).
		Where("is_favourite = ?", true).
		Order(newestFirst).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Replace overwrites title and tags of the stored link, and its url unless
// link.URL is empty, then reloads the stored row into link.
func (r *linkRepository) Replace(ctx context.Context, link *model.Link) error {
	tags := link.Tags
	if tags == nil {
		tags = []string{}
	}

	columns := []string{"title", "tags"}
	if link.URL != "" {
		columns = append(columns, "url")
	}

	result := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", link.ID).
		Select(columns).
		Updates(&model.Link{
			URL:   link.URL,
			Title: link.Title,
			Tags:  tags,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}

	return r.db.WithContext(ctx).Where("id = ?", link.ID).First(link).Error
}

func (r *linkRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Link{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func (r *linkRepository) SetFavourite(ctx context.Context, id string, favourite bool) (*model.Link, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", id).
		Update("is_favourite", favourite)

	return r.reload(ctx, id, result)
}

// IncrementClicks bumps click_count inside the UPDATE statement so concurrent
// callers never overwrite each other's increments.
func (r *linkRepository) IncrementClicks(ctx context.Context, id string, delta int64) (*model.Link, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Link{}).
		Where("id = ?", id).
		Update("click_count", gorm.Expr("click_count + ?", delta))

	return r.reload(ctx, id, result)
}

func (r *linkRepository) reload(ctx context.Context, id string, result *gorm.DB) (*model.Link, error) {
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrLinkNotFound
	}
	return r.GetByID(ctx, id)
}
