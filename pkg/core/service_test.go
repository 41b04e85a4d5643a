package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/core"
)

// MockStore implements core.SnapshotStore in memory.
// It deliberately does NOT implement core.Watchable to test the fallback.
type MockStore struct {
	snapshots map[string]*core.Node
}

func NewMockStore() *MockStore {
	return &MockStore{snapshots: make(map[string]*core.Node)}
}

func (m *MockStore) Load(ctx context.Context, id string) (*core.Node, error) {
	n, ok := m.snapshots[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return n, nil
}

func (m *MockStore) Save(ctx context.Context, id string, n *core.Node) error {
	m.snapshots[id] = n
	return nil
}

func newServiceFixture(t *testing.T) (*core.Service, *MockStore, *memory.Graph) {
	t.Helper()

	g := memory.New("Root", "")
	projects, err := g.Root().Children().Create("Projects", "")
	if err != nil {
		t.Fatalf("Create(Projects) failed: %v", err)
	}
	alpha, err := projects.Children().Create("Alpha", "Project")
	if err != nil {
		t.Fatalf("Create(Alpha) failed: %v", err)
	}
	title := "Alpha"
	alpha.Attributes().Set("Title", &title, time.Now())

	store := NewMockStore()
	return core.NewService(g, store, nil), store, g
}

func TestService_ExportImportRoundTrip(t *testing.T) {
	svc, store, _ := newServiceFixture(t)
	ctx := context.TODO()

	err := svc.ExportToStore(ctx, "Root:Projects", "projects", core.ExportOptions{IncludeChildren: true})
	if err != nil {
		t.Fatalf("ExportToStore failed: %v", err)
	}
	if _, ok := store.snapshots["projects"]; !ok {
		t.Fatal("snapshot was not saved")
	}

	// A fresh graph accepts the snapshot.
	other := memory.New("Root", "")
	if _, err := other.Root().Children().Create("Projects", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	otherSvc := core.NewService(other, store, nil)
	if err := otherSvc.ImportFromStore(ctx, "", "projects", core.ImportOptions{Strategy: core.StrategyMerge}); err != nil {
		t.Fatalf("ImportFromStore failed: %v", err)
	}

	alpha, ok := other.Lookup("Root:Projects:Alpha")
	if !ok {
		t.Fatal("imported child missing")
	}
	attr, _ := alpha.Attributes().Get("Title")
	if attr.Value == nil || *attr.Value != "Alpha" {
		t.Errorf("imported attribute mismatch: %+v", attr)
	}
}

func TestService_ExportUnknownTopic(t *testing.T) {
	svc, _, _ := newServiceFixture(t)

	_, err := svc.Export(context.TODO(), "Root:Nowhere", core.ExportOptions{})
	if !errors.Is(err, core.ErrTopicNotFound) {
		t.Fatalf("expected ErrTopicNotFound, got %v", err)
	}
}

func TestService_NoStore(t *testing.T) {
	g := memory.New("Root", "")
	svc := core.NewService(g, nil, nil)
	ctx := context.TODO()

	if err := svc.ExportToStore(ctx, "Root", "x", core.ExportOptions{}); !errors.Is(err, core.ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
	if err := svc.ImportFromStore(ctx, "Root", "x", core.ImportOptions{}); !errors.Is(err, core.ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
	if _, err := svc.Watch(ctx, ""); !errors.Is(err, core.ErrNoStore) {
		t.Errorf("expected ErrNoStore, got %v", err)
	}
}

func TestService_WatchRequiresWatchableStore(t *testing.T) {
	svc, _, _ := newServiceFixture(t)

	if _, err := svc.Watch(context.TODO(), ""); err == nil {
		t.Fatal("expected an error for a non-watchable store")
	}
}

func TestService_StateCounts(t *testing.T) {
	svc, _, _ := newServiceFixture(t)
	ctx := context.TODO()

	if _, err := svc.Export(ctx, "Root:Projects", core.ExportOptions{}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	n := core.NewNode("Projects", "Root:Projects", "")
	if err := svc.Import(ctx, "", n, core.ImportOptions{}); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	state, ok := svc.State().(core.ServiceState)
	if !ok {
		t.Fatalf("unexpected state type %T", svc.State())
	}
	if state.RootKey != "Root" {
		t.Errorf("unexpected root key %q", state.RootKey)
	}
	if state.Exports != 1 || state.Imports != 1 {
		t.Errorf("unexpected counters: %+v", state)
	}
	if state.LastImport == nil {
		t.Error("LastImport should be recorded")
	}
}
