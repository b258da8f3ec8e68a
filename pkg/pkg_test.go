package pkg

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "kmap" {
		t.Errorf("Expected Name to be %q, got %q", "kmap", Name)
	}
}

func TestVersion(t *testing.T) {
	// Tests run in the package directory, next to the embedded file.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
		return a.Name == "ardnew" && a.Email == "andrew@ardnew.com"
	}) {
		t.Errorf("Expected Author to contain ardnew, got %v", Author)
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefix(t *testing.T) {
	// The test binary is named pkg.test, which maps to Name.
	if got := Prefix(); got != Name {
		t.Errorf("Expected Prefix %q, got %q", Name, got)
	}

	if got := EnvPrefix(); got != "KMAP" {
		t.Errorf("Expected EnvPrefix %q, got %q", "KMAP", got)
	}
}

func TestDirs(t *testing.T) {
	for name, dir := range map[string]string{
		"config": ConfigDir(),
		"cache":  CacheDir(),
	} {
		if filepath.Base(dir) != Prefix() {
			t.Errorf("%s dir %q does not end with %q", name, dir, Prefix())
		}
	}
}
