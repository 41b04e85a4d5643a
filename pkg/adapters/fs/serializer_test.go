package fs_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aretw0/graft/pkg/adapters/fs"
	"github.com/aretw0/graft/pkg/core"
)

func sampleSnapshot() *core.Node {
	title := "Alpha"
	derived := "Root:Projects:Beta"
	stamp := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	n := core.NewNode("Alpha", "Root:Projects:Alpha", "Project")
	n.Attributes = append(n.Attributes, core.Attribute{Key: "Title", Value: &title, LastModified: stamp})
	n.Relationships = append(n.Relationships, core.Relationship{
		Key:    "SeeAlso",
		Values: []string{"Root:Projects:Beta"},
	})
	n.References = append(n.References, core.Reference{Key: "DerivedTopic", Value: &derived, LastModified: stamp})
	n.Children = append(n.Children, core.NewNode("Notes", "Root:Projects:Alpha:Notes", ""))
	return n
}

func roundTrip(t *testing.T, s fs.Serializer) *core.Node {
	t.Helper()
	data, err := s.Serialize(sampleSnapshot())
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	n, err := s.Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return n
}

func assertSnapshot(t *testing.T, n *core.Node) {
	t.Helper()
	if n.UniqueKey != "Root:Projects:Alpha" || n.ContentType != "Project" {
		t.Errorf("identity mismatch: %q %q", n.UniqueKey, n.ContentType)
	}
	attr, ok := n.Attribute("Title")
	if !ok || attr.Value == nil || *attr.Value != "Alpha" {
		t.Errorf("attribute mismatch: %+v", attr)
	}
	rel, ok := n.Relationship("SeeAlso")
	if !ok || len(rel.Values) != 1 || rel.Values[0] != "Root:Projects:Beta" {
		t.Errorf("relationship mismatch: %+v", rel)
	}
	ref, ok := n.Reference("DerivedTopic")
	if !ok || ref.Value == nil || *ref.Value != "Root:Projects:Beta" {
		t.Errorf("reference mismatch: %+v", ref)
	}
	if len(n.Children) != 1 || n.Children[0].Key != "Notes" {
		t.Errorf("children mismatch: %+v", n.Children)
	}
	// Empty collections on the child deserialize as empty, not nil.
	child := n.Children[0]
	if child.Attributes == nil || child.Relationships == nil || child.References == nil || child.Children == nil {
		t.Error("child collections should be initialized")
	}
}

func TestJSONSerializer_RoundTrip(t *testing.T) {
	assertSnapshot(t, roundTrip(t, &fs.JSONSerializer{}))
}

func TestYAMLSerializer_RoundTrip(t *testing.T) {
	assertSnapshot(t, roundTrip(t, &fs.YAMLSerializer{}))
}

func TestJSONSerializer_LegacyRelationshipValues(t *testing.T) {
	legacy := `{
		"Key": "Alpha",
		"UniqueKey": "Root:Alpha",
		"Relationships": [
			{"Key": "SeeAlso", "Relationships": ["Root:Beta"]}
		]
	}`

	n, err := (&fs.JSONSerializer{}).Parse(strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	rel, ok := n.Relationship("SeeAlso")
	if !ok || len(rel.Values) != 1 || rel.Values[0] != "Root:Beta" {
		t.Errorf("legacy relationship values not migrated: %+v", rel)
	}

	// Writers emit the current shape and it round-trips without the alias.
	data, err := (&fs.JSONSerializer{}).Serialize(n)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if !strings.Contains(string(data), `"Values"`) {
		t.Error("serialized output should carry the Values field")
	}
	again, err := (&fs.JSONSerializer{}).Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Parse of serialized output failed: %v", err)
	}
	rel, _ = again.Relationship("SeeAlso")
	if len(rel.Values) != 1 || rel.Values[0] != "Root:Beta" {
		t.Errorf("round trip lost relationship values: %+v", rel)
	}
}

func TestJSONSerializer_LegacyDerivedTopicKey(t *testing.T) {
	legacy := `{
		"Key": "Alpha",
		"UniqueKey": "Root:Alpha",
		"DerivedTopicKey": "Root:Beta"
	}`

	n, err := (&fs.JSONSerializer{}).Parse(strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ref, ok := n.Reference(core.DerivedTopicKey)
	if !ok || ref.Value == nil || *ref.Value != "Root:Beta" {
		t.Errorf("legacy derived key not migrated: %+v", ref)
	}

	data, err := (&fs.JSONSerializer{}).Serialize(n)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if strings.Contains(string(data), "DerivedTopicKey") {
		t.Error("serialized output should not carry the legacy field")
	}
}

func TestJSONSerializer_LegacyDerivedDoesNotShadowReference(t *testing.T) {
	legacy := `{
		"Key": "Alpha",
		"UniqueKey": "Root:Alpha",
		"DerivedTopicKey": "Root:Old",
		"References": [
			{"Key": "DerivedTopic", "Value": "Root:New"}
		]
	}`

	n, err := (&fs.JSONSerializer{}).Parse(strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	ref, _ := n.Reference(core.DerivedTopicKey)
	if ref.Value == nil || *ref.Value != "Root:New" {
		t.Errorf("an explicit reference must win over the legacy field: %+v", ref)
	}
}

func TestSerializer_RejectsEmptySnapshot(t *testing.T) {
	if _, err := (&fs.JSONSerializer{}).Parse(strings.NewReader(`{}`)); err == nil {
		t.Error("a snapshot without a key should be rejected")
	}
	if _, err := (&fs.YAMLSerializer{}).Parse(strings.NewReader(`{}`)); err == nil {
		t.Error("a snapshot without a key should be rejected")
	}
	if _, err := (&fs.JSONSerializer{}).Parse(strings.NewReader(`not json`)); err == nil {
		t.Error("invalid json should be rejected")
	}
}
