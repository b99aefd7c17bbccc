package models

import (
	"time"
)

// Post represents a blog post. Only posts with IsDraft == false are
// readable through the public query paths.
type Post struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Slug       string    `json:"slug" db:"slug"`
	Summary    string    `json:"summary" db:"summary"`
	Content    string    `json:"content" db:"content"`
	IsDraft    bool      `json:"is_draft" db:"is_draft"`
	AuthorID   int64     `json:"author_id" db:"author_id"`
	CategoryID *int64    `json:"category_id" db:"category_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	// Populated by the store on reads.
	Author   User      `json:"author" db:"-"`
	Category *Category `json:"category" db:"-"`
	Tags     []Tag     `json:"tags" db:"-"`
}

// PostFilter narrows the published post list. It has no visibility field;
// drafts are excluded before any of these apply.
type PostFilter struct {
	CategoryIDs []int64
	TagIDs      []int64 // match posts carrying ANY of these tags
	SearchTerms []string
}

// MaxTitleLength and friends mirror the column sizes of the posts table.
const (
	MaxTitleLength   = 200
	MaxSlugLength    = 200
	MaxSummaryLength = 300
	MaxNameLength    = 100
)
