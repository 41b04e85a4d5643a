// Package core contains the domain model and the export and import engines.
// Node is the central entity: one element of an interchange snapshot produced
// by an export and consumed by an import.
package core

import (
	"strings"
	"time"
)

// KeySeparator joins topic keys into a unique key path (e.g. "Root:Section:Page").
const KeySeparator = ":"

// Well-known names shared by the exporter, the importer and the wire codecs.
const (
	// ContentTypeTopicList marks a topic that exists purely to group
	// otherwise-hidden child topics ("nested topics"). List containers are
	// exported transparently even when child export was not requested.
	ContentTypeTopicList = "TopicList"

	// IdentifierSuffix is the naming convention for legacy implicit pointer
	// attributes (e.g. "RelatedTopicId").
	IdentifierSuffix = "Id"

	// DerivedTopicKey is the well-known reference key recording which topic
	// this one was derived from.
	DerivedTopicKey = "DerivedTopic"

	// LegacyDerivedTopicAttr is the historical attribute name that aliases
	// to the DerivedTopic reference on import.
	LegacyDerivedTopicAttr = "BasedOnTopicId"

	// AttrLastModified and AttrLastModifiedBy carry edit provenance. They
	// are exempt from the general attribute merge rule and governed by
	// StampStrategy instead.
	AttrLastModified   = "LastModified"
	AttrLastModifiedBy = "LastModifiedBy"

	// SystemActor is the sentinel author recorded by StampSystem.
	SystemActor = "System"
)

// reservedAttributes are structural fields some graph engines mirror into
// attribute storage. They are never exported and never deleted on import.
var reservedAttributes = map[string]bool{
	"key":         true,
	"parentid":    true,
	"contenttype": true,
	"topicid":     true,
}

// IsReservedAttribute reports whether key names a structural field rather
// than user data. Matching is case-insensitive.
func IsReservedAttribute(key string) bool {
	return reservedAttributes[strings.ToLower(key)]
}

// Attribute is one scalar field with an edit timestamp used for conflict
// resolution. A nil Value represents an explicit null.
type Attribute struct {
	Key          string    `json:"Key" yaml:"key"`
	Value        *string   `json:"Value" yaml:"value"`
	LastModified time.Time `json:"LastModified" yaml:"lastModified"`
}

// Reference is a single named pointer to another topic, identified by its
// unique key. A nil Value clears the reference on import.
type Reference struct {
	Key          string    `json:"Key" yaml:"key"`
	Value        *string   `json:"Value" yaml:"value"`
	LastModified time.Time `json:"LastModified" yaml:"lastModified"`
}

// Relationship is a named, unordered set of pointers to other topics. The
// whole set is atomic for merge purposes; there is no per-entry timestamp.
type Relationship struct {
	Key    string   `json:"Key" yaml:"key"`
	Values []string `json:"Values" yaml:"values"`
}

// Node is one element of an interchange snapshot. Nodes are created fresh by
// each export call and carry no back-references to the live graph.
type Node struct {
	Key           string         `json:"Key" yaml:"key"`
	UniqueKey     string         `json:"UniqueKey" yaml:"uniqueKey"`
	ContentType   string         `json:"ContentType" yaml:"contentType"`
	Attributes    []Attribute    `json:"Attributes" yaml:"attributes"`
	Relationships []Relationship `json:"Relationships" yaml:"relationships"`
	References    []Reference    `json:"References" yaml:"references"`
	Children      []*Node        `json:"Children" yaml:"children"`
}

// NewNode creates an empty interchange node with initialized collections, so
// that serialization always emits empty arrays rather than nulls.
func NewNode(key, uniqueKey, contentType string) *Node {
	return &Node{
		Key:           key,
		UniqueKey:     uniqueKey,
		ContentType:   contentType,
		Attributes:    []Attribute{},
		Relationships: []Relationship{},
		References:    []Reference{},
		Children:      []*Node{},
	}
}

// Attribute returns the attribute with the given key, matched
// case-insensitively.
func (n *Node) Attribute(key string) (Attribute, bool) {
	for _, a := range n.Attributes {
		if strings.EqualFold(a.Key, key) {
			return a, true
		}
	}
	return Attribute{}, false
}

// Reference returns the reference with the given key, matched
// case-insensitively.
func (n *Node) Reference(key string) (Reference, bool) {
	for _, r := range n.References {
		if strings.EqualFold(r.Key, key) {
			return r, true
		}
	}
	return Reference{}, false
}

// Relationship returns the relationship with the given name, matched
// case-insensitively.
func (n *Node) Relationship(name string) (Relationship, bool) {
	for _, r := range n.Relationships {
		if strings.EqualFold(r.Key, name) {
			return r, true
		}
	}
	return Relationship{}, false
}

// Child returns the direct child with the given key, matched
// case-insensitively.
func (n *Node) Child(key string) (*Node, bool) {
	for _, c := range n.Children {
		if strings.EqualFold(c.Key, key) {
			return c, true
		}
	}
	return nil, false
}

// EventType represents the type of change observed on a snapshot store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a stored snapshot.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle event contract).
func (e Event) String() string {
	return string(e.Type) + " " + e.ID
}
