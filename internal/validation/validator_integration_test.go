package validation

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/myblog-api/internal/models"
	"github.com/myblog-api/internal/slug"
)

func testdataPath(t *testing.T, filename string) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(currentFile)))
	path := filepath.Join(projectRoot, "testdata", "seed", filename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("testdata file not found: %s", path)
	}
	return path
}

func eachLine(t *testing.T, filename string, fn func(line int, raw []byte)) {
	t.Helper()
	file, err := os.Open(testdataPath(t, filename))
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		fn(line, scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestSeedData_Valid(t *testing.T) {
	v := NewValidator()

	check := func(file string, line int, errs []models.ValidationError) {
		if len(errs) > 0 {
			t.Errorf("%s:%d: unexpected errors %+v", file, line, errs)
		}
	}

	eachLine(t, "users.ndjson", func(line int, raw []byte) {
		var rec models.UserNDJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("users.ndjson:%d: %v", line, err)
		}
		check("users.ndjson", line, v.ValidateUser(&rec))
		v.Remember(models.ImportUsers, rec.Username)
	})

	eachLine(t, "categories.ndjson", func(line int, raw []byte) {
		var rec models.CategoryNDJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("categories.ndjson:%d: %v", line, err)
		}
		check("categories.ndjson", line, v.ValidateCategory(&rec))
		v.Remember(models.ImportCategories, rec.Name)
	})

	eachLine(t, "tags.ndjson", func(line int, raw []byte) {
		var rec models.TagNDJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("tags.ndjson:%d: %v", line, err)
		}
		check("tags.ndjson", line, v.ValidateTag(&rec))
		v.Remember(models.ImportTags, rec.Name)
	})

	eachLine(t, "posts.ndjson", func(line int, raw []byte) {
		var rec models.PostNDJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("posts.ndjson:%d: %v", line, err)
		}
		s := rec.Slug
		if s == "" {
			s = slug.Generate(rec.Title)
		}
		check("posts.ndjson", line, v.ValidatePost(&rec, s))
		v.Remember(models.ImportPosts, s)
	})

	eachLine(t, "tech_stacks.ndjson", func(line int, raw []byte) {
		var rec models.TechStackNDJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("tech_stacks.ndjson:%d: %v", line, err)
		}
		check("tech_stacks.ndjson", line, v.ValidateTechStack(&rec))
		v.Remember(models.ImportTechStacks, rec.Name)
	})

	eachLine(t, "projects.ndjson", func(line int, raw []byte) {
		var rec models.ProjectNDJSON
		if err := json.Unmarshal(raw, &rec); err != nil {
			t.Fatalf("projects.ndjson:%d: %v", line, err)
		}
		s := rec.Slug
		if s == "" {
			s = slug.Generate(rec.Title)
		}
		check("projects.ndjson", line, v.ValidateProject(&rec, s))
		v.Remember(models.ImportProjects, s)
	})
}
