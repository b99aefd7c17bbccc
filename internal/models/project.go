package models

import (
	"time"
)

// ProjectStatus is the lifecycle state shown next to a project
type ProjectStatus string

const (
	ProjectStatusDeveloping ProjectStatus = "developing"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnline     ProjectStatus = "online"
	ProjectStatusOffline    ProjectStatus = "offline"
)

var projectStatusLabels = map[ProjectStatus]string{
	ProjectStatusDeveloping: "开发中",
	ProjectStatusCompleted:  "已完成",
	ProjectStatusOnline:     "已上线",
	ProjectStatusOffline:    "暂时下线",
}

// Valid reports whether s is one of the known statuses
func (s ProjectStatus) Valid() bool {
	_, ok := projectStatusLabels[s]
	return ok
}

// Label returns the human-readable label, or the raw value if unknown
func (s ProjectStatus) Label() string {
	if label, ok := projectStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// TechStack is a technology a project is built with
type TechStack struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	IconURL     string `json:"icon_url" db:"icon_url"`
	OfficialURL string `json:"official_url" db:"official_url"`
	Color       string `json:"color" db:"color"`
}

// Project represents a portfolio entry. Only published projects are
// readable through the public query paths.
type Project struct {
	ID          int64         `json:"id" db:"id"`
	Title       string        `json:"title" db:"title"`
	Slug        string        `json:"slug" db:"slug"`
	Description string        `json:"description" db:"description"`
	Content     string        `json:"content" db:"content"`
	CoverImage  string        `json:"cover_image" db:"cover_image"` // path relative to the media root, "" when absent
	GithubURL   string        `json:"github_url" db:"github_url"`
	DemoURL     string        `json:"demo_url" db:"demo_url"`
	Status      ProjectStatus `json:"status" db:"status"`
	IsFeatured  bool          `json:"is_featured" db:"is_featured"`
	IsPublished bool          `json:"is_published" db:"is_published"`
	SortOrder   int           `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	// Populated by the store on reads.
	TechStack []TechStack `json:"tech_stack" db:"-"`
}

// ProjectFilter narrows the published project list
type ProjectFilter struct {
	FeaturedOnly bool
}
