package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/graft/pkg/core"
)

// topicDoc is the YAML shape of one topic in a graph document. Graph
// documents are the CLI's working copy of a live graph; they are not the
// interchange snapshot format (see pkg/adapters/fs for that).
type topicDoc struct {
	Key           string            `yaml:"key"`
	ContentType   string            `yaml:"contentType,omitempty"`
	Attributes    []attributeDoc    `yaml:"attributes,omitempty"`
	Relationships []relationshipDoc `yaml:"relationships,omitempty"`
	References    []referenceDoc    `yaml:"references,omitempty"`
	Children      []*topicDoc       `yaml:"children,omitempty"`
}

type attributeDoc struct {
	Key          string    `yaml:"key"`
	Value        *string   `yaml:"value"`
	LastModified time.Time `yaml:"lastModified,omitempty"`
}

type relationshipDoc struct {
	Key    string   `yaml:"key"`
	Values []string `yaml:"values"`
}

type referenceDoc struct {
	Key          string    `yaml:"key"`
	Value        *string   `yaml:"value"`
	LastModified time.Time `yaml:"lastModified,omitempty"`
}

// Load reads a YAML graph document and materializes it as a live graph.
//
// Loading is two-phase for the same reason importing is: the document may
// relate a topic to a sibling that appears later in the file. Phase one
// builds the whole tree, phase two wires relationships and references.
// Association targets that do not resolve are dropped.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph document: %w", err)
	}

	var doc topicDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid graph document %s: %w", path, err)
	}
	if doc.Key == "" {
		return nil, fmt.Errorf("graph document %s has no root key", path)
	}

	g := New(doc.Key, doc.ContentType)
	if err := buildTree(g.root, &doc); err != nil {
		return nil, err
	}
	wireAssociations(g.root, &doc)
	resetDirty(g.root)
	return g, nil
}

func buildTree(t *Topic, doc *topicDoc) error {
	for _, attr := range doc.Attributes {
		t.attrs.Set(attr.Key, attr.Value, attr.LastModified)
	}
	for _, childDoc := range doc.Children {
		child, err := t.Children().Create(childDoc.Key, childDoc.ContentType)
		if err != nil {
			return fmt.Errorf("under %q: %w", t.UniqueKey(), err)
		}
		if err := buildTree(child.(*Topic), childDoc); err != nil {
			return err
		}
	}
	return nil
}

func wireAssociations(t *Topic, doc *topicDoc) {
	for _, rel := range doc.Relationships {
		for _, targetKey := range rel.Values {
			if target, ok := t.graph.Lookup(targetKey); ok {
				t.Relationships().Add(rel.Key, target)
			}
		}
	}
	for _, ref := range doc.References {
		if ref.Value == nil {
			t.References().Set(ref.Key, nil, ref.LastModified)
			continue
		}
		if target, ok := t.graph.Lookup(*ref.Value); ok {
			t.References().Set(ref.Key, target, ref.LastModified)
		}
	}
	for i, childDoc := range doc.Children {
		if i < len(t.children) {
			wireAssociations(t.children[i], childDoc)
		}
	}
}

func resetDirty(t *Topic) {
	t.attrs.ResetDirty()
	for _, child := range t.children {
		resetDirty(child)
	}
}

// Save writes the graph back to a YAML document. The write goes through a
// temp file and rename so a crash cannot leave a truncated working copy.
func (g *Graph) Save(path string) error {
	doc := buildDoc(g.root)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to serialize graph document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "graft-graph-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write graph document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	resetDirty(g.root)
	return nil
}

func buildDoc(t *Topic) *topicDoc {
	doc := &topicDoc{Key: t.key, ContentType: t.contentType}

	for _, key := range t.attrs.Keys() {
		attr, _ := t.attrs.Get(key)
		doc.Attributes = append(doc.Attributes, attributeDoc{
			Key:          attr.Key,
			Value:        attr.Value,
			LastModified: attr.LastModified,
		})
	}

	rels := t.Relationships()
	for _, name := range rels.Names() {
		rel := relationshipDoc{Key: name}
		for _, target := range rels.Targets(name) {
			rel.Values = append(rel.Values, target.UniqueKey())
		}
		doc.Relationships = append(doc.Relationships, rel)
	}

	refs := t.References()
	for _, key := range refs.Keys() {
		ref, _ := refs.Get(key)
		doc.References = append(doc.References, referenceDoc{
			Key:          ref.Key,
			Value:        ref.Value,
			LastModified: ref.LastModified,
		})
	}

	for _, child := range t.children {
		doc.Children = append(doc.Children, buildDoc(child))
	}
	return doc
}

var _ core.Graph = (*Graph)(nil)
var _ core.Topic = (*Topic)(nil)
