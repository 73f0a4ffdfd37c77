package session

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if store.Path() != dir {
		t.Errorf("Path() = %q, want %q", store.Path(), dir)
	}

	got, err := store.Get(ctx, "missing")
	if err != nil || got != nil {
		t.Errorf("Get(missing) = %v, %v, want nil, nil", got, err)
	}

	for _, id := range []string{"b", "a"} {
		if err := store.Set(ctx, &Saved{ID: id, Logo: "logo.svg", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
			t.Fatalf("Set(%s) error = %v", id, err)
		}
	}
	ids, err := store.List(ctx)
	if err != nil || !slices.Equal(ids, []string{"a", "b"}) {
		t.Errorf("List() = %v, %v", ids, err)
	}

	got, err = store.Get(ctx, "a")
	if err != nil || got == nil || got.Logo != "logo.svg" {
		t.Errorf("Get(a) = %+v, %v", got, err)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete() of missing session error = %v", err)
	}
	if got, _ := store.Get(ctx, "a"); got != nil {
		t.Error("deleted session still readable")
	}
}

func TestFileStoreExpiry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, _ := NewFileStore(dir)

	store.Set(ctx, &Saved{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)})
	store.Set(ctx, &Saved{ID: "new", ExpiresAt: time.Now().Add(time.Hour)})

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "old.json")); !os.IsNotExist(err) {
		t.Error("expired session file should be removed")
	}
	if got, _ := store.Get(ctx, "new"); got == nil {
		t.Error("live session should survive cleanup")
	}
}

func TestFileStorePathTraversal(t *testing.T) {
	store, _ := NewFileStore(t.TempDir())
	path := store.sessionPath("../../etc/passwd")
	if filepath.Dir(path) != store.Path() {
		t.Errorf("sessionPath escaped the store: %s", path)
	}
}
