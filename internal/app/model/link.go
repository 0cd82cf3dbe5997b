package model

import "time"

// Link is a bookmarked URL with its user supplied metadata and click counter.
type Link struct {
	ID          string    `db:"id" gorm:"primaryKey;size:36"`
	URL         string    `db:"url" gorm:"type:text;not null"`
	Title       string    `db:"title" gorm:"size:200;not null"`
	Tags        []string  `db:"tags" gorm:"serializer:json;type:jsonb"`
	IsFavourite bool      `db:"is_favourite" gorm:"not null;default:false;index"`
	ClickCount  int64     `db:"click_count" gorm:"not null;default:0"`
	CreatedAt   time.Time `db:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time `db:"updated_at" gorm:"autoUpdateTime"`
}

// Limits enforced on user supplied fields.
const (
	MaxTitleLength = 200
	MaxTagLength   = 50
)
