package models

// ImportResource names a resource the content importer understands
type ImportResource string

const (
	ImportUsers      ImportResource = "users"
	ImportCategories ImportResource = "categories"
	ImportTags       ImportResource = "tags"
	ImportPosts      ImportResource = "posts"
	ImportTechStacks ImportResource = "tech_stacks"
	ImportProjects   ImportResource = "projects"
)

// ValidImportResources defines allowed import resources, in dependency order
var ValidImportResources = []ImportResource{
	ImportUsers, ImportCategories, ImportTags, ImportPosts, ImportTechStacks, ImportProjects,
}

// UserNDJSON represents a user record from NDJSON import
type UserNDJSON struct {
	Username string `json:"username" validate:"required,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// CategoryNDJSON represents a category record from NDJSON import
type CategoryNDJSON struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

// TagNDJSON represents a tag record from NDJSON import
type TagNDJSON struct {
	Name string `json:"name" validate:"required,max=100"`
}

// PostNDJSON represents a post record from NDJSON import. Author, category
// and tags reference existing rows by username / name.
type PostNDJSON struct {
	Title    string   `json:"title" validate:"required,max=200"`
	Slug     string   `json:"slug" validate:"omitempty,max=200,unicode_slug"`
	Summary  string   `json:"summary" validate:"max=300"`
	Content  string   `json:"content" validate:"required"`
	IsDraft  *bool    `json:"is_draft"`
	Author   string   `json:"author" validate:"required"`
	Category string   `json:"category"`
	Tags     []string `json:"tags" validate:"dive,required"`
}

// TechStackNDJSON represents a tech stack record from NDJSON import
type TechStackNDJSON struct {
	Name        string `json:"name" validate:"required,max=100"`
	IconURL     string `json:"icon_url" validate:"omitempty,url"`
	OfficialURL string `json:"official_url" validate:"omitempty,url"`
	Color       string `json:"color" validate:"omitempty,hexcolor,max=7"`
}

// ProjectNDJSON represents a project record from NDJSON import
type ProjectNDJSON struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Slug        string   `json:"slug" validate:"omitempty,max=200,unicode_slug"`
	Description string   `json:"description" validate:"required"`
	Content     string   `json:"content"`
	CoverImage  string   `json:"cover_image" validate:"max=100"`
	GithubURL   string   `json:"github_url" validate:"omitempty,url"`
	DemoURL     string   `json:"demo_url" validate:"omitempty,url"`
	TechStack   []string `json:"tech_stack" validate:"dive,required"`
	Status      string   `json:"status" validate:"omitempty,project_status"`
	IsFeatured  bool     `json:"is_featured"`
	IsPublished *bool    `json:"is_published"`
	SortOrder   int      `json:"sort_order"`
}

// ImportResult summarises one import run
type ImportResult struct {
	Resource  ImportResource    `json:"resource"`
	Total     int               `json:"total"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    []ValidationError `json:"errors,omitempty"`
}
