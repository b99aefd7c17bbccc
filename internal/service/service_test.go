package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/myblog-api/internal/mocks"
	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/service"
	"github.com/rs/zerolog"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func newTestServices() (*service.Services, *mocks.MockSet, *mocks.MockPinger) {
	repos, set := mocks.NewMockRepositories()
	pinger := &mocks.MockPinger{}
	return service.NewServices(repos, pinger, zerolog.Nop()), set, pinger
}

func postSlugs(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Slug)
	}
	return out
}

func seedPosts(set *mocks.MockSet) {
	rust := models.Tag{ID: 1, Name: "rust"}
	golang := models.Tag{ID: 2, Name: "golang"}
	set.Post.Add(models.Post{
		ID: 1, Title: "Intro to Rust", Slug: "intro-to-rust", Content: "ownership",
		Author: models.User{Username: "jayden"}, CategoryID: int64Ptr(10),
		Tags: []models.Tag{rust}, CreatedAt: t0,
	})
	set.Post.Add(models.Post{
		ID: 2, Title: "Go channels", Slug: "go-channels", Summary: "select and friends",
		Author: models.User{Username: "lin"}, CategoryID: int64Ptr(11),
		Tags: []models.Tag{golang}, CreatedAt: t0.Add(time.Hour),
	})
	set.Post.Add(models.Post{
		ID: 3, Title: "Unfinished", Slug: "unfinished", IsDraft: true,
		Author: models.User{Username: "jayden"}, CreatedAt: t0.Add(2 * time.Hour),
	})
	set.Post.Add(models.Post{
		ID: 4, Title: "Rust and Go", Slug: "rust-and-go",
		Author: models.User{Username: "lin"}, CategoryID: int64Ptr(10),
		Tags: []models.Tag{rust, golang}, CreatedAt: t0.Add(3 * time.Hour),
	})
}

func TestPostQueryService_ListPosts(t *testing.T) {
	svcs, set, _ := newTestServices()
	seedPosts(set)
	ctx := context.Background()

	tests := []struct {
		name   string
		params service.PostListParams
		want   []string
	}{
		{"all published newest first", service.PostListParams{}, []string{"rust-and-go", "go-channels", "intro-to-rust"}},
		{"search is case insensitive", service.PostListParams{Search: "RUST"}, []string{"rust-and-go", "intro-to-rust"}},
		{"search matches author", service.PostListParams{Search: "jayden"}, []string{"intro-to-rust"}},
		{"search excludes", service.PostListParams{Search: "golang"}, []string{}},
		{"search terms are ANDed", service.PostListParams{Search: "rust, go"}, []string{"rust-and-go"}},
		{"category filter", service.PostListParams{Category: []string{"11"}}, []string{"go-channels"}},
		{"tags match any", service.PostListParams{Tags: []string{"1", "2"}}, []string{"rust-and-go", "go-channels", "intro-to-rust"}},
		{"empty values are ignored", service.PostListParams{Category: []string{""}, Tags: []string{" "}}, []string{"rust-and-go", "go-channels", "intro-to-rust"}},
		{"malformed category gives nothing", service.PostListParams{Category: []string{"abc"}}, []string{}},
		{"malformed tag gives nothing", service.PostListParams{Tags: []string{"1", "x"}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := svcs.Posts.ListPosts(ctx, tt.params)
			if err != nil {
				t.Fatalf("ListPosts failed: %v", err)
			}
			if posts == nil {
				t.Fatal("Expected a non-nil slice")
			}
			if got := postSlugs(posts); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPostQueryService_MalformedFilterSkipsStore(t *testing.T) {
	svcs, set, _ := newTestServices()

	if _, err := svcs.Posts.ListPosts(context.Background(), service.PostListParams{Category: []string{"1.5"}}); err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if set.Post.ListCalls != 0 {
		t.Errorf("Expected no store call, got %d", set.Post.ListCalls)
	}
}

func TestPostQueryService_PassesParsedFilter(t *testing.T) {
	svcs, set, _ := newTestServices()

	_, err := svcs.Posts.ListPosts(context.Background(), service.PostListParams{
		Search:   "  hello,world  ",
		Category: []string{"3"},
		Tags:     []string{"4", "5"},
	})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}

	want := models.PostFilter{
		CategoryIDs: []int64{3},
		TagIDs:      []int64{4, 5},
		SearchTerms: []string{"hello", "world"},
	}
	if !reflect.DeepEqual(set.Post.LastFilter, want) {
		t.Errorf("Expected filter %+v, got %+v", want, set.Post.LastFilter)
	}
}

func TestPostQueryService_GetPost(t *testing.T) {
	svcs, set, _ := newTestServices()
	seedPosts(set)
	ctx := context.Background()

	post, err := svcs.Posts.GetPost(ctx, "intro-to-rust")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if post.Title != "Intro to Rust" {
		t.Errorf("Expected Intro to Rust, got %s", post.Title)
	}

	for _, slug := range []string{"unfinished", "missing", "bad slug!", ""} {
		if _, err := svcs.Posts.GetPost(ctx, slug); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("GetPost(%q): expected ErrNotFound, got %v", slug, err)
		}
	}
}

func TestPostQueryService_StoreError(t *testing.T) {
	svcs, set, _ := newTestServices()
	boom := errors.New("connection reset")
	set.Post.Err = boom

	if _, err := svcs.Posts.ListPosts(context.Background(), service.PostListParams{}); !errors.Is(err, boom) {
		t.Errorf("Expected store error, got %v", err)
	}
	if _, err := svcs.Posts.GetPost(context.Background(), "x"); !errors.Is(err, boom) {
		t.Errorf("Expected store error, got %v", err)
	}
}

func TestSearchTerms(t *testing.T) {
	tests := map[string][]string{
		"":                 {},
		"go":               {"go"},
		"  go   rust ":     {"go", "rust"},
		"go,rust":          {"go", "rust"},
		"go,\trust\n,,c++": {"go", "rust", "c++"},
		"你好 世界":            {"你好", "世界"},
	}
	for in, want := range tests {
		got := service.SearchTerms(in)
		if len(got) == 0 && len(want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("SearchTerms(%q): expected %v, got %v", in, want, got)
		}
	}
}

func TestTaxonomyService(t *testing.T) {
	svcs, set, _ := newTestServices()
	ctx := context.Background()

	set.Category.Categories = []models.Category{{ID: 1, Name: "Go"}, {ID: 2, Name: "Web"}}
	set.Tag.Tags = []models.Tag{{ID: 1, Name: "db"}}

	categories, err := svcs.Taxonomy.ListCategories(ctx)
	if err != nil || len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d (%v)", len(categories), err)
	}

	category, err := svcs.Taxonomy.GetCategory(ctx, 2)
	if err != nil {
		t.Fatalf("GetCategory failed: %v", err)
	}
	if category.Name != "Web" {
		t.Errorf("Expected Web, got %s", category.Name)
	}
	if _, err := svcs.Taxonomy.GetCategory(ctx, 99); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	tags, err := svcs.Taxonomy.ListTags(ctx)
	if err != nil || len(tags) != 1 {
		t.Fatalf("Expected 1 tag, got %d (%v)", len(tags), err)
	}
	if _, err := svcs.Taxonomy.GetTag(ctx, 1); err != nil {
		t.Errorf("GetTag failed: %v", err)
	}
	if _, err := svcs.Taxonomy.GetTag(ctx, 2); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func seedProjects(set *mocks.MockSet) {
	set.Project.Add(models.Project{ID: 1, Slug: "plain", IsPublished: true, CreatedAt: t0})
	set.Project.Add(models.Project{ID: 2, Slug: "featured", IsPublished: true, IsFeatured: true, CreatedAt: t0})
	set.Project.Add(models.Project{ID: 3, Slug: "high", IsPublished: true, SortOrder: 9, CreatedAt: t0})
	set.Project.Add(models.Project{ID: 4, Slug: "hidden", IsFeatured: true, CreatedAt: t0})
}

func TestProjectQueryService_ListProjects(t *testing.T) {
	svcs, set, _ := newTestServices()
	seedProjects(set)
	ctx := context.Background()

	tests := []struct {
		featured string
		want     []string
	}{
		{"", []string{"featured", "high", "plain"}},
		{"true", []string{"featured"}},
		{"True", []string{"featured"}},
		{"false", []string{"featured", "high", "plain"}},
		{"notabool", []string{"featured", "high", "plain"}},
		{"1", []string{"featured", "high", "plain"}},
	}

	for _, tt := range tests {
		projects, err := svcs.Projects.ListProjects(ctx, service.ProjectListParams{Featured: tt.featured})
		if err != nil {
			t.Fatalf("ListProjects failed: %v", err)
		}
		got := make([]string, 0, len(projects))
		for _, p := range projects {
			got = append(got, p.Slug)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("featured=%q: expected %v, got %v", tt.featured, tt.want, got)
		}
	}
}

func TestProjectQueryService_GetProject(t *testing.T) {
	svcs, set, _ := newTestServices()
	seedProjects(set)
	ctx := context.Background()

	project, err := svcs.Projects.GetProject(ctx, "high")
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if project.SortOrder != 9 {
		t.Errorf("Expected sort order 9, got %d", project.SortOrder)
	}

	if _, err := svcs.Projects.GetProject(ctx, "hidden"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unpublished project, got %v", err)
	}
}

func TestProjectQueryService_ListTechStacks(t *testing.T) {
	svcs, set, _ := newTestServices()
	set.TechStack.Stacks = []models.TechStack{{ID: 1, Name: "React"}, {ID: 2, Name: "Go"}}

	stacks, err := svcs.Projects.ListTechStacks(context.Background())
	if err != nil {
		t.Fatalf("ListTechStacks failed: %v", err)
	}
	if len(stacks) != 2 || stacks[0].Name != "Go" {
		t.Errorf("Expected stacks ordered by name, got %+v", stacks)
	}
}

func TestHealthService_Check(t *testing.T) {
	svcs, set, pinger := newTestServices()
	ctx := context.Background()

	if status := svcs.Health.Check(ctx); !status.OK || status.Detail != "" {
		t.Errorf("Expected healthy status, got %+v", status)
	}

	set.Post.ExistsError = errors.New("relation \"posts\" does not exist")
	status := svcs.Health.Check(ctx)
	if status.OK {
		t.Error("Expected failed status when the query fails")
	}
	if status.Detail != "relation \"posts\" does not exist" {
		t.Errorf("Unexpected detail %q", status.Detail)
	}

	set.Post.ExistsError = nil
	pinger.Err = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	status = svcs.Health.Check(ctx)
	if status.OK {
		t.Error("Expected failed status when the ping fails")
	}
	if status.Detail != pinger.Err.Error() {
		t.Errorf("Unexpected detail %q", status.Detail)
	}
}
