package memory_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/graft/pkg/adapters/memory"
)

func TestDocument_SaveLoadRoundTrip(t *testing.T) {
	g := memory.New("Root", "")
	projects, _ := g.Root().Children().Create("Projects", "")
	alpha, _ := projects.Children().Create("Alpha", "Project")
	beta, _ := projects.Children().Create("Beta", "Project")

	title := "Alpha project"
	stamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	alpha.Attributes().Set("Title", &title, stamp)
	alpha.Attributes().Set("Cleared", nil, stamp)
	alpha.Relationships().Add("SeeAlso", beta)
	alpha.References().Set("DerivedTopic", beta, stamp)

	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := memory.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	topic, ok := loaded.Lookup("Root:Projects:Alpha")
	if !ok {
		t.Fatal("Alpha missing after reload")
	}
	if topic.ContentType() != "Project" {
		t.Errorf("content type lost: %q", topic.ContentType())
	}

	attr, _ := topic.Attributes().Get("Title")
	if attr.Value == nil || *attr.Value != title || !attr.LastModified.Equal(stamp) {
		t.Errorf("attribute mismatch: %+v", attr)
	}
	cleared, ok := topic.Attributes().Get("Cleared")
	if !ok || cleared.Value != nil {
		t.Errorf("null attribute should survive the round trip: %+v", cleared)
	}

	targets := topic.Relationships().Targets("SeeAlso")
	if len(targets) != 1 || targets[0].UniqueKey() != "Root:Projects:Beta" {
		t.Errorf("relationship mismatch: %v", targets)
	}
	ref, _ := topic.References().Get("DerivedTopic")
	if ref.Value == nil || *ref.Value != "Root:Projects:Beta" {
		t.Errorf("reference mismatch: %+v", ref)
	}

	// A freshly loaded graph is clean.
	if topic.Attributes().Dirty() {
		t.Error("attribute stores should be clean after load")
	}
}

func TestDocument_LoadForwardReferences(t *testing.T) {
	// B appears after A in document order but is referenced by A.
	doc := `key: Root
children:
  - key: A
    relationships:
      - key: seeAlso
        values: ["Root:B"]
    references:
      - key: derivedTopic
        value: "Root:B"
  - key: B
`
	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	g, err := memory.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	a, ok := g.Lookup("Root:A")
	if !ok {
		t.Fatal("A missing")
	}
	if targets := a.Relationships().Targets("seeAlso"); len(targets) != 1 {
		t.Errorf("forward relationship should resolve, got %v", targets)
	}
	ref, ok := a.References().Get("derivedTopic")
	if !ok || ref.Value == nil || *ref.Value != "Root:B" {
		t.Errorf("forward reference should resolve, got %+v", ref)
	}
}

func TestDocument_LoadRejectsMissingRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := os.WriteFile(path, []byte("children: []\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := memory.Load(path); err == nil {
		t.Fatal("a document without a root key should fail to load")
	}
}

func TestDocument_LoadDropsUnresolvedAssociations(t *testing.T) {
	doc := `key: Root
children:
  - key: A
    relationships:
      - key: seeAlso
        values: ["Root:Nowhere"]
`
	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	g, err := memory.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	a, _ := g.Lookup("Root:A")
	if targets := a.Relationships().Targets("seeAlso"); len(targets) != 0 {
		t.Errorf("unresolved targets should be dropped, got %v", targets)
	}
}
