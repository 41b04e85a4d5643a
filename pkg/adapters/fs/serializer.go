package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/graft/pkg/core"
)

// Serializer defines how to read and write a snapshot file format.
type Serializer interface {
	// Parse reads a snapshot from r.
	Parse(r io.Reader) (*core.Node, error)
	// Serialize converts the snapshot to bytes.
	Serialize(n *core.Node) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by file
// extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": &JSONSerializer{},
		".yaml": &YAMLSerializer{},
		".yml":  &YAMLSerializer{},
	}
}

// nodeDoc is the wire shape of a snapshot node. It exists separately from
// core.Node to absorb two historical format quirks on read:
//
//   - relationship targets may appear under "Relationships" instead of
//     "Values" inside a relationship entry
//   - a derived-topic pointer may appear as a top-level "DerivedTopicKey"
//     string instead of a DerivedTopic reference
//
// Writers always emit the current shape.
type nodeDoc struct {
	Key           string            `json:"Key" yaml:"key"`
	UniqueKey     string            `json:"UniqueKey" yaml:"uniqueKey"`
	ContentType   string            `json:"ContentType" yaml:"contentType"`
	Attributes    []attributeDoc    `json:"Attributes" yaml:"attributes"`
	Relationships []relationshipDoc `json:"Relationships" yaml:"relationships"`
	References    []referenceDoc    `json:"References" yaml:"references"`
	Children      []*nodeDoc        `json:"Children" yaml:"children"`

	LegacyDerived *string `json:"DerivedTopicKey,omitempty" yaml:"derivedTopicKey,omitempty"`
}

type attributeDoc struct {
	Key          string    `json:"Key" yaml:"key"`
	Value        *string   `json:"Value" yaml:"value"`
	LastModified time.Time `json:"LastModified" yaml:"lastModified"`
}

type relationshipDoc struct {
	Key    string   `json:"Key" yaml:"key"`
	Values []string `json:"Values" yaml:"values"`

	LegacyValues []string `json:"Relationships,omitempty" yaml:"relationships,omitempty"`
}

type referenceDoc struct {
	Key          string    `json:"Key" yaml:"key"`
	Value        *string   `json:"Value" yaml:"value"`
	LastModified time.Time `json:"LastModified" yaml:"lastModified"`
}

func (d *nodeDoc) toNode() *core.Node {
	n := core.NewNode(d.Key, d.UniqueKey, d.ContentType)

	for _, a := range d.Attributes {
		n.Attributes = append(n.Attributes, core.Attribute(a))
	}
	for _, r := range d.Relationships {
		values := r.Values
		if len(values) == 0 {
			values = r.LegacyValues
		}
		if values == nil {
			values = []string{}
		}
		n.Relationships = append(n.Relationships, core.Relationship{Key: r.Key, Values: values})
	}
	for _, r := range d.References {
		n.References = append(n.References, core.Reference(r))
	}
	if d.LegacyDerived != nil {
		if _, ok := n.Reference(core.DerivedTopicKey); !ok {
			n.References = append(n.References, core.Reference{
				Key:   core.DerivedTopicKey,
				Value: d.LegacyDerived,
			})
		}
	}
	for _, c := range d.Children {
		n.Children = append(n.Children, c.toNode())
	}
	return n
}

func fromNode(n *core.Node) *nodeDoc {
	d := &nodeDoc{
		Key:           n.Key,
		UniqueKey:     n.UniqueKey,
		ContentType:   n.ContentType,
		Attributes:    []attributeDoc{},
		Relationships: []relationshipDoc{},
		References:    []referenceDoc{},
		Children:      []*nodeDoc{},
	}
	for _, a := range n.Attributes {
		d.Attributes = append(d.Attributes, attributeDoc(a))
	}
	for _, r := range n.Relationships {
		values := r.Values
		if values == nil {
			values = []string{}
		}
		d.Relationships = append(d.Relationships, relationshipDoc{Key: r.Key, Values: values})
	}
	for _, r := range n.References {
		d.References = append(d.References, referenceDoc(r))
	}
	for _, c := range n.Children {
		d.Children = append(d.Children, fromNode(c))
	}
	return d
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON snapshot files.
type JSONSerializer struct{}

func (s *JSONSerializer) Parse(r io.Reader) (*core.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc nodeDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid json snapshot: %w", err)
	}
	if doc.Key == "" && doc.UniqueKey == "" {
		return nil, fmt.Errorf("json snapshot has no key")
	}
	return doc.toNode(), nil
}

func (s *JSONSerializer) Serialize(n *core.Node) ([]byte, error) {
	return json.MarshalIndent(fromNode(n), "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML snapshot files.
type YAMLSerializer struct{}

func (s *YAMLSerializer) Parse(r io.Reader) (*core.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc nodeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid yaml snapshot: %w", err)
	}
	if doc.Key == "" && doc.UniqueKey == "" {
		return nil, fmt.Errorf("yaml snapshot has no key")
	}
	return doc.toNode(), nil
}

func (s *YAMLSerializer) Serialize(n *core.Node) ([]byte, error) {
	return yaml.Marshal(fromNode(n))
}
