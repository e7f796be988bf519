package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-view-cache/store"
)

func TestCompareWithGoldenCreatesMissingFile(t *testing.T) {
	goldenFile := filepath.Join(t.TempDir(), "nested", "names.golden")

	CompareWithGoldenJSON(t, goldenFile, []string{"Apple", "Carrot"})

	data, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("failed to read created golden file: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected golden file content")
	}

	// second comparison hits the existing file
	CompareWithGoldenJSON(t, goldenFile, []string{"Apple", "Carrot"})
}

func TestNewLoaderUnderstandsConditionsOrderAndMasters(t *testing.T) {
	parent := NewItem("Root")
	children := []Item{
		{ID: "c2", Name: "Zed", ParentID: parent.ID, Status: 1},
		{ID: "c1", Name: "Amy", ParentID: parent.ID},
	}
	loader := NewLoader(append([]Item{parent}, children...)...)
	ctx := context.Background()

	got, err := loader.Load(ctx, store.Descriptor{Condition: "status=1"})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if names := Names(got); len(names) != 1 || names[0] != "Zed" {
		t.Errorf("unexpected condition result %v", names)
	}

	got, err = loader.Load(ctx, store.Descriptor{Master: parent, OrderBy: "name"})
	if err != nil {
		t.Fatalf("master load failed: %v", err)
	}
	if names := Names(got); len(names) != 2 || names[0] != "Amy" || names[1] != "Zed" {
		t.Errorf("unexpected master result %v", names)
	}
}
