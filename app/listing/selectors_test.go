package listing

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSelectors(t *testing.T) {
	sel := DefaultSelectors()

	if len(sel.Title) == 0 {
		t.Error("Expected title selectors in embedded profile")
	}
	if sel.Title[0] != `[data-testid="title"]` {
		t.Errorf("Expected data-testid title selector first, got '%s'", sel.Title[0])
	}
	if len(sel.Price) == 0 || len(sel.KeyFacts) == 0 || len(sel.Gallery) == 0 {
		t.Error("Expected non-empty price, key fact and gallery selector lists")
	}
	if sel.MetaImage != `meta[property="og:image"]` {
		t.Errorf("Expected og:image meta selector, got '%s'", sel.MetaImage)
	}
}

func TestLoadSelectors(t *testing.T) {
	sel, err := LoadSelectors("")
	if err != nil {
		t.Fatalf("Expected embedded fallback for empty path, got error: %v", err)
	}
	if len(sel.Title) == 0 {
		t.Error("Expected embedded profile for empty path")
	}

	if _, err := LoadSelectors("/nonexistent/selectors.yml"); err == nil {
		t.Error("Expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "selectors.yml")
	if err := os.WriteFile(path, []byte("title:\n  - 'h1'\n"), 0644); err != nil {
		t.Fatalf("Failed to write selectors file: %v", err)
	}
	if _, err := LoadSelectors(path); err == nil {
		t.Error("Expected validation error for incomplete profile")
	}

	if err := os.WriteFile(path, defaultSelectorsYAML, 0644); err != nil {
		t.Fatalf("Failed to write selectors file: %v", err)
	}
	sel, err = LoadSelectors(path)
	if err != nil {
		t.Fatalf("Expected valid profile to load, got error: %v", err)
	}
	if len(sel.Description) == 0 {
		t.Error("Expected description selectors from file")
	}
}
