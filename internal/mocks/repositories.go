package mocks

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/repository"
	"github.com/samber/lo"
)

// Verify interface compliance
var (
	_ repository.UserRepository      = (*MockUserRepository)(nil)
	_ repository.CategoryRepository  = (*MockCategoryRepository)(nil)
	_ repository.TagRepository       = (*MockTagRepository)(nil)
	_ repository.PostRepository      = (*MockPostRepository)(nil)
	_ repository.TechStackRepository = (*MockTechStackRepository)(nil)
	_ repository.ProjectRepository   = (*MockProjectRepository)(nil)
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	InsertError error
	nextID      int64
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[string]*models.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if _, ok := m.Users[user.Username]; ok {
		return fmt.Errorf("user username %q: %w", user.Username, models.ErrDuplicateName)
	}
	m.nextID++
	user.ID = m.nextID
	stored := *user
	m.Users[user.Username] = &stored
	return nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.Users[username], nil
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	Categories []models.Category
	Err        error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{}
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := lo.Find(m.Categories, func(c models.Category) bool { return c.Name == category.Name }); ok {
		return fmt.Errorf("category name %q: %w", category.Name, models.ErrDuplicateName)
	}
	category.ID = int64(len(m.Categories) + 1)
	m.Categories = append(m.Categories, *category)
	return nil
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Category{}, m.Categories...), nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	c, ok := lo.Find(m.Categories, func(c models.Category) bool { return c.ID == id })
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *MockCategoryRepository) GetByName(ctx context.Context, name string) (*models.Category, error) {
	c, ok := lo.Find(m.Categories, func(c models.Category) bool { return c.Name == name })
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// MockTagRepository is a mock implementation of TagRepository
type MockTagRepository struct {
	Tags []models.Tag
	Err  error
}

func NewMockTagRepository() *MockTagRepository {
	return &MockTagRepository{}
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := lo.Find(m.Tags, func(t models.Tag) bool { return t.Name == tag.Name }); ok {
		return fmt.Errorf("tag name %q: %w", tag.Name, models.ErrDuplicateName)
	}
	tag.ID = int64(len(m.Tags) + 1)
	m.Tags = append(m.Tags, *tag)
	return nil
}

func (m *MockTagRepository) List(ctx context.Context) ([]models.Tag, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Tag{}, m.Tags...), nil
}

func (m *MockTagRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	t, ok := lo.Find(m.Tags, func(t models.Tag) bool { return t.ID == id })
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *MockTagRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	t, ok := lo.Find(m.Tags, func(t models.Tag) bool { return t.Name == name })
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// MockPostRepository is a mock implementation of PostRepository. It keeps
// the same visibility and ordering rules as the real store so service and
// handler tests can rely on them.
type MockPostRepository struct {
	Posts       []models.Post
	TagLinks    map[int64][]int64
	Err         error
	LastFilter  models.PostFilter
	ListCalls   int
	ExistsError error
}

func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{TagLinks: make(map[int64][]int64)}
}

// Add stores a fully populated post as-is
func (m *MockPostRepository) Add(post models.Post) {
	if post.ID == 0 {
		post.ID = int64(len(m.Posts) + 1)
	}
	m.Posts = append(m.Posts, post)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post, tagIDs []int64) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := lo.Find(m.Posts, func(p models.Post) bool { return p.Slug == post.Slug }); ok {
		return fmt.Errorf("post slug %q: %w", post.Slug, models.ErrDuplicateSlug)
	}
	post.ID = int64(len(m.Posts) + 1)
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.UpdatedAt = post.CreatedAt
	m.Posts = append(m.Posts, *post)
	m.TagLinks[post.ID] = tagIDs
	return nil
}

func (m *MockPostRepository) SetDraft(ctx context.Context, id int64, draft bool) error {
	for i := range m.Posts {
		if m.Posts[i].ID == id {
			m.Posts[i].IsDraft = draft
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *MockPostRepository) ListPublished(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	m.ListCalls++
	m.LastFilter = filter
	if m.Err != nil {
		return nil, m.Err
	}

	out := lo.Filter(m.Posts, func(p models.Post, _ int) bool {
		if p.IsDraft {
			return false
		}
		if len(filter.CategoryIDs) > 0 && (p.CategoryID == nil || !lo.Contains(filter.CategoryIDs, *p.CategoryID)) {
			return false
		}
		if len(filter.TagIDs) > 0 && !lo.SomeBy(p.Tags, func(t models.Tag) bool { return lo.Contains(filter.TagIDs, t.ID) }) {
			return false
		}
		for _, term := range filter.SearchTerms {
			term = strings.ToLower(term)
			fields := []string{p.Title, p.Summary, p.Content, p.Author.Username}
			if !lo.SomeBy(fields, func(f string) bool { return strings.Contains(strings.ToLower(f), term) }) {
				return false
			}
		}
		return true
	})

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MockPostRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := lo.Find(m.Posts, func(p models.Post) bool { return p.Slug == slug && !p.IsDraft })
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MockPostRepository) Exists(ctx context.Context) (bool, error) {
	if m.ExistsError != nil {
		return false, m.ExistsError
	}
	return len(m.Posts) > 0, nil
}

func (m *MockPostRepository) Count(ctx context.Context) (int, error) {
	return len(m.Posts), nil
}

// MockTechStackRepository is a mock implementation of TechStackRepository
type MockTechStackRepository struct {
	Stacks []models.TechStack
	Err    error
}

func NewMockTechStackRepository() *MockTechStackRepository {
	return &MockTechStackRepository{}
}

func (m *MockTechStackRepository) Create(ctx context.Context, stack *models.TechStack) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := lo.Find(m.Stacks, func(s models.TechStack) bool { return s.Name == stack.Name }); ok {
		return fmt.Errorf("tech stack name %q: %w", stack.Name, models.ErrDuplicateName)
	}
	stack.ID = int64(len(m.Stacks) + 1)
	m.Stacks = append(m.Stacks, *stack)
	return nil
}

func (m *MockTechStackRepository) List(ctx context.Context) ([]models.TechStack, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := append([]models.TechStack{}, m.Stacks...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockTechStackRepository) GetByName(ctx context.Context, name string) (*models.TechStack, error) {
	s, ok := lo.Find(m.Stacks, func(s models.TechStack) bool { return s.Name == name })
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	Projects   []models.Project
	StackLinks map[int64][]int64
	Err        error
	LastFilter models.ProjectFilter
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{StackLinks: make(map[int64][]int64)}
}

// Add stores a fully populated project as-is
func (m *MockProjectRepository) Add(project models.Project) {
	if project.ID == 0 {
		project.ID = int64(len(m.Projects) + 1)
	}
	m.Projects = append(m.Projects, project)
}

func (m *MockProjectRepository) Create(ctx context.Context, project *models.Project, techStackIDs []int64) error {
	if m.Err != nil {
		return m.Err
	}
	if _, ok := lo.Find(m.Projects, func(p models.Project) bool { return p.Slug == project.Slug }); ok {
		return fmt.Errorf("project slug %q: %w", project.Slug, models.ErrDuplicateSlug)
	}
	project.ID = int64(len(m.Projects) + 1)
	m.Projects = append(m.Projects, *project)
	m.StackLinks[project.ID] = techStackIDs
	return nil
}

func (m *MockProjectRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	for i := range m.Projects {
		if m.Projects[i].ID == id {
			m.Projects[i].IsPublished = published
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *MockProjectRepository) ListPublished(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	m.LastFilter = filter
	if m.Err != nil {
		return nil, m.Err
	}

	out := lo.Filter(m.Projects, func(p models.Project, _ int) bool {
		return p.IsPublished && (!filter.FeaturedOnly || p.IsFeatured)
	})
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.IsFeatured != b.IsFeatured:
			return a.IsFeatured
		case a.SortOrder != b.SortOrder:
			return a.SortOrder > b.SortOrder
		case !a.CreatedAt.Equal(b.CreatedAt):
			return a.CreatedAt.After(b.CreatedAt)
		default:
			return a.ID > b.ID
		}
	})
	return out, nil
}

func (m *MockProjectRepository) GetPublishedBySlug(ctx context.Context, slug string) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := lo.Find(m.Projects, func(p models.Project) bool { return p.Slug == slug && p.IsPublished })
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// NewMockRepositories bundles fresh mocks into a Repositories value
func NewMockRepositories() (*repository.Repositories, *MockSet) {
	set := &MockSet{
		User:      NewMockUserRepository(),
		Category:  NewMockCategoryRepository(),
		Tag:       NewMockTagRepository(),
		Post:      NewMockPostRepository(),
		TechStack: NewMockTechStackRepository(),
		Project:   NewMockProjectRepository(),
	}
	return &repository.Repositories{
		User:      set.User,
		Category:  set.Category,
		Tag:       set.Tag,
		Post:      set.Post,
		TechStack: set.TechStack,
		Project:   set.Project,
	}, set
}

// MockSet gives tests typed access to the mocks behind a Repositories value
type MockSet struct {
	User      *MockUserRepository
	Category  *MockCategoryRepository
	Tag       *MockTagRepository
	Post      *MockPostRepository
	TechStack *MockTechStackRepository
	Project   *MockProjectRepository
}

// MockPinger is a database handle whose health check result is fixed
type MockPinger struct {
	Err error
}

func (m *MockPinger) HealthCheck(ctx context.Context) error {
	return m.Err
}
