package projection

import (
	"net/url"
	"strings"

	"github.com/myblog-api/internal/models"
)

var CategoryFields = []Field[models.Category]{
	{"id", func(c models.Category, _ Context) any { return c.ID }},
	{"name", func(c models.Category, _ Context) any { return c.Name }},
	{"description", func(c models.Category, _ Context) any { return c.Description }},
}

var TagFields = []Field[models.Tag]{
	{"id", func(t models.Tag, _ Context) any { return t.ID }},
	{"name", func(t models.Tag, _ Context) any { return t.Name }},
}

var AuthorFields = []Field[models.User]{
	{"username", func(u models.User, _ Context) any { return u.Username }},
}

var TechStackFields = []Field[models.TechStack]{
	{"id", func(s models.TechStack, _ Context) any { return s.ID }},
	{"name", func(s models.TechStack, _ Context) any { return s.Name }},
	{"icon_url", func(s models.TechStack, _ Context) any { return s.IconURL }},
	{"official_url", func(s models.TechStack, _ Context) any { return s.OfficialURL }},
	{"color", func(s models.TechStack, _ Context) any { return s.Color }},
}

// post fields shared by the list and detail shapes
var (
	postID       = Field[models.Post]{"id", func(p models.Post, _ Context) any { return p.ID }}
	postTitle    = Field[models.Post]{"title", func(p models.Post, _ Context) any { return p.Title }}
	postSlug     = Field[models.Post]{"slug", func(p models.Post, _ Context) any { return p.Slug }}
	postSummary  = Field[models.Post]{"summary", func(p models.Post, _ Context) any { return p.Summary }}
	postContent  = Field[models.Post]{"content", func(p models.Post, _ Context) any { return p.Content }}
	postCreated  = Field[models.Post]{"created_at", func(p models.Post, _ Context) any { return Timestamp(p.CreatedAt) }}
	postUpdated  = Field[models.Post]{"updated_at", func(p models.Post, _ Context) any { return Timestamp(p.UpdatedAt) }}
	postAuthor   = Field[models.Post]{"author", func(p models.Post, ctx Context) any { return Render(AuthorFields, p.Author, ctx) }}
	postCategory = Field[models.Post]{"category", func(p models.Post, ctx Context) any {
		if p.Category == nil {
			return nil
		}
		return Render(CategoryFields, *p.Category, ctx)
	}}
	postTags = Field[models.Post]{"tags", func(p models.Post, ctx Context) any { return RenderAll(TagFields, p.Tags, ctx) }}
)

// PostList omits content, updated_at and is_draft
var PostList = []Field[models.Post]{
	postID, postTitle, postSlug, postSummary, postCreated, postAuthor, postCategory, postTags,
}

// PostDetail adds content and updated_at; is_draft is never exposed
var PostDetail = []Field[models.Post]{
	postID, postTitle, postAuthor, postSlug, postSummary, postContent, postCreated, postUpdated, postCategory, postTags,
}

var (
	projectID          = Field[models.Project]{"id", func(p models.Project, _ Context) any { return p.ID }}
	projectTitle       = Field[models.Project]{"title", func(p models.Project, _ Context) any { return p.Title }}
	projectSlug        = Field[models.Project]{"slug", func(p models.Project, _ Context) any { return p.Slug }}
	projectDescription = Field[models.Project]{"description", func(p models.Project, _ Context) any { return p.Description }}
	projectContent     = Field[models.Project]{"content", func(p models.Project, _ Context) any { return p.Content }}
	projectCover       = Field[models.Project]{"cover_image_url", func(p models.Project, ctx Context) any {
		if p.CoverImage == "" {
			return nil
		}
		return MediaURL(p.CoverImage, ctx)
	}}
	projectGithub    = Field[models.Project]{"github_url", func(p models.Project, _ Context) any { return p.GithubURL }}
	projectDemo      = Field[models.Project]{"demo_url", func(p models.Project, _ Context) any { return p.DemoURL }}
	projectTechStack = Field[models.Project]{"tech_stack", func(p models.Project, ctx Context) any {
		return RenderAll(TechStackFields, p.TechStack, ctx)
	}}
	projectStatus        = Field[models.Project]{"status", func(p models.Project, _ Context) any { return string(p.Status) }}
	projectStatusDisplay = Field[models.Project]{"status_display", func(p models.Project, _ Context) any { return p.Status.Label() }}
	projectFeatured      = Field[models.Project]{"is_featured", func(p models.Project, _ Context) any { return p.IsFeatured }}
	projectCreated       = Field[models.Project]{"created_at", func(p models.Project, _ Context) any { return Timestamp(p.CreatedAt) }}
	projectUpdated       = Field[models.Project]{"updated_at", func(p models.Project, _ Context) any { return Timestamp(p.UpdatedAt) }}
)

// ProjectList omits content
var ProjectList = []Field[models.Project]{
	projectID, projectTitle, projectSlug, projectDescription, projectCover, projectGithub, projectDemo,
	projectTechStack, projectStatus, projectStatusDisplay, projectFeatured, projectCreated, projectUpdated,
}

// ProjectDetail adds content after description
var ProjectDetail = []Field[models.Project]{
	projectID, projectTitle, projectSlug, projectDescription, projectContent, projectCover, projectGithub, projectDemo,
	projectTechStack, projectStatus, projectStatusDisplay, projectFeatured, projectCreated, projectUpdated,
}

// MediaURL resolves a stored file path against the media prefix. The result
// is absolute when the request host is known, otherwise a root-relative path.
func MediaURL(path string, ctx Context) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}

	prefix := ctx.MediaURL
	if prefix == "" {
		prefix = "/media/"
	}
	u := strings.TrimSuffix(prefix, "/") + "/" + strings.Join(segments, "/")

	if isAbsolute(u) || ctx.Host == "" {
		return u
	}
	scheme := ctx.Scheme
	if scheme == "" {
		scheme = "http"
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return scheme + "://" + ctx.Host + u
}

func isAbsolute(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") || strings.HasPrefix(u, "//")
}
