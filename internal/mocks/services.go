package mocks

import (
	"context"
	"io"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/service"
)

// Verify interface compliance
var (
	_ service.PostQueryService    = (*MockPostQueryService)(nil)
	_ service.TaxonomyService     = (*MockTaxonomyService)(nil)
	_ service.ProjectQueryService = (*MockProjectQueryService)(nil)
	_ service.HealthService       = (*MockHealthService)(nil)
	_ service.ImportService       = (*MockImportService)(nil)
)

// MockPostQueryService is a mock implementation of PostQueryService
type MockPostQueryService struct {
	ListFunc   func(ctx context.Context, params service.PostListParams) ([]models.Post, error)
	GetFunc    func(ctx context.Context, slug string) (*models.Post, error)
	ListParams []service.PostListParams
}

func (m *MockPostQueryService) ListPosts(ctx context.Context, params service.PostListParams) ([]models.Post, error) {
	m.ListParams = append(m.ListParams, params)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return []models.Post{}, nil
}

func (m *MockPostQueryService) GetPost(ctx context.Context, slug string) (*models.Post, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, slug)
	}
	return nil, models.ErrNotFound
}

// MockTaxonomyService is a mock implementation of TaxonomyService
type MockTaxonomyService struct {
	Categories []models.Category
	Tags       []models.Tag
	Err        error
}

func (m *MockTaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Category{}, m.Categories...), nil
}

func (m *MockTaxonomyService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MockTaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]models.Tag{}, m.Tags...), nil
}

func (m *MockTaxonomyService) GetTag(ctx context.Context, id int64) (*models.Tag, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, t := range m.Tags {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

// MockProjectQueryService is a mock implementation of ProjectQueryService
type MockProjectQueryService struct {
	ListFunc   func(ctx context.Context, params service.ProjectListParams) ([]models.Project, error)
	GetFunc    func(ctx context.Context, slug string) (*models.Project, error)
	TechStacks []models.TechStack
	ListParams []service.ProjectListParams
}

func (m *MockProjectQueryService) ListProjects(ctx context.Context, params service.ProjectListParams) ([]models.Project, error) {
	m.ListParams = append(m.ListParams, params)
	if m.ListFunc != nil {
		return m.ListFunc(ctx, params)
	}
	return []models.Project{}, nil
}

func (m *MockProjectQueryService) GetProject(ctx context.Context, slug string) (*models.Project, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, slug)
	}
	return nil, models.ErrNotFound
}

func (m *MockProjectQueryService) ListTechStacks(ctx context.Context) ([]models.TechStack, error) {
	return append([]models.TechStack{}, m.TechStacks...), nil
}

// MockHealthService is a mock implementation of HealthService
type MockHealthService struct {
	Status service.HealthStatus
	Calls  int
}

func (m *MockHealthService) Check(ctx context.Context) service.HealthStatus {
	m.Calls++
	return m.Status
}

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	ImportFunc func(ctx context.Context, resource models.ImportResource, r io.Reader) (*models.ImportResult, error)
	Resources  []models.ImportResource
}

func (m *MockImportService) Import(ctx context.Context, resource models.ImportResource, r io.Reader) (*models.ImportResult, error) {
	m.Resources = append(m.Resources, resource)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, resource, r)
	}
	return &models.ImportResult{Resource: resource}, nil
}
