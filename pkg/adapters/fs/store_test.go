package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/graft/pkg/adapters/fs"
)

func newTestStore(t *testing.T) (*fs.Store, string) {
	t.Helper()
	dir := t.TempDir()
	return fs.NewStore(fs.Config{Dir: dir}), dir
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.TODO()

	if err := store.Save(ctx, "projects/alpha.json", sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "projects", "alpha.json")); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}

	n, err := store.Load(ctx, "projects/alpha.json")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertSnapshot(t, n)
}

func TestStore_DefaultExtension(t *testing.T) {
	store, dir := newTestStore(t)
	ctx := context.TODO()

	if err := store.Save(ctx, "alpha", sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "alpha.json")); err != nil {
		t.Fatalf("default extension not applied: %v", err)
	}
	if _, err := store.Load(ctx, "alpha"); err != nil {
		t.Fatalf("Load without extension failed: %v", err)
	}
}

func TestStore_YAMLByExtension(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.TODO()

	if err := store.Save(ctx, "alpha.yaml", sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	n, err := store.Load(ctx, "alpha.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertSnapshot(t, n)
}

func TestStore_RejectsUnknownExtension(t *testing.T) {
	store, _ := newTestStore(t)

	if err := store.Save(context.TODO(), "alpha.csv", sampleSnapshot()); err == nil {
		t.Fatal("unknown extension should be rejected")
	}
}

func TestStore_RejectsEscapingIDs(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Load(context.TODO(), "../outside.json"); err == nil {
		t.Fatal("IDs escaping the store directory should be rejected")
	}
	if err := store.Save(context.TODO(), "", sampleSnapshot()); err == nil {
		t.Fatal("empty IDs should be rejected")
	}
}

func TestStore_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	store, dir := newTestStore(t)

	if err := store.Save(context.TODO(), "alpha.json", sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), fs.TempFilePrefix) {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestStore_State(t *testing.T) {
	store, dir := newTestStore(t)

	if err := store.Save(context.TODO(), "alpha.json", sampleSnapshot()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Load(context.TODO(), "alpha.json"); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	state, ok := store.State().(fs.StoreState)
	if !ok {
		t.Fatalf("unexpected state type %T", store.State())
	}
	if state.Dir != dir || state.Saves != 1 || state.Loads != 1 {
		t.Errorf("unexpected state: %+v", state)
	}
	if state.DefaultExt != ".json" {
		t.Errorf("unexpected default ext %q", state.DefaultExt)
	}
	if len(state.Serializers) == 0 {
		t.Error("serializers should be listed")
	}
	if store.ComponentType() != "snapshot-store" {
		t.Errorf("unexpected component type %q", store.ComponentType())
	}
}
