package memory

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/graft/pkg/core"
)

// Topic implements core.Topic.
type Topic struct {
	graph       *Graph
	id          int64
	parent      *Topic
	key         string
	contentType string

	attrs    *attributeStore
	rels     map[string][]int64
	refs     map[string]core.Reference
	children []*Topic
}

// ID implements core.Topic.
func (t *Topic) ID() int64 { return t.id }

// Key implements core.Topic.
func (t *Topic) Key() string { return t.key }

// UniqueKey implements core.Topic. It is always the concatenation of the
// ancestors' keys, never stored, so renames cannot leave it stale.
func (t *Topic) UniqueKey() string {
	if t.parent == nil {
		return t.key
	}
	return t.parent.UniqueKey() + core.KeySeparator + t.key
}

// ContentType implements core.Topic.
func (t *Topic) ContentType() string { return t.contentType }

// SetContentType implements core.Topic.
func (t *Topic) SetContentType(contentType string) { t.contentType = contentType }

// Graph implements core.Topic.
func (t *Topic) Graph() core.Graph { return t.graph }

// Attributes implements core.Topic.
func (t *Topic) Attributes() core.AttributeStore { return t.attrs }

// Relationships implements core.Topic.
func (t *Topic) Relationships() core.RelationshipStore { return relationshipStore{t} }

// References implements core.Topic.
func (t *Topic) References() core.ReferenceStore { return referenceStore{t} }

// Children implements core.Topic.
func (t *Topic) Children() core.ChildList { return childList{t} }

// --- Attribute store ---

type attributeStore struct {
	values map[string]core.Attribute // lowercased key -> record with original key
	dirty  bool
}

func newAttributeStore() *attributeStore {
	return &attributeStore{values: make(map[string]core.Attribute)}
}

func (s *attributeStore) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for _, attr := range s.values {
		keys = append(keys, attr.Key)
	}
	sort.Strings(keys)
	return keys
}

func (s *attributeStore) Get(key string) (core.Attribute, bool) {
	attr, ok := s.values[strings.ToLower(key)]
	return attr, ok
}

func (s *attributeStore) Set(key string, value *string, modified time.Time) {
	if value != nil {
		v := *value
		value = &v
	}
	s.values[strings.ToLower(key)] = core.Attribute{Key: key, Value: value, LastModified: modified}
	s.dirty = true
}

func (s *attributeStore) Remove(key string) {
	lower := strings.ToLower(key)
	if _, ok := s.values[lower]; !ok {
		return
	}
	delete(s.values, lower)
	s.dirty = true
}

func (s *attributeStore) Dirty() bool { return s.dirty }

func (s *attributeStore) ResetDirty() { s.dirty = false }

// --- Relationship store ---

type relationshipStore struct{ t *Topic }

func (s relationshipStore) Names() []string {
	names := make([]string, 0, len(s.t.rels))
	for name := range s.t.rels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s relationshipStore) Targets(name string) []core.Topic {
	ids := s.t.rels[name]
	targets := make([]core.Topic, 0, len(ids))
	for _, id := range ids {
		if target, ok := s.t.graph.nodes[id]; ok {
			targets = append(targets, target)
		}
	}
	return targets
}

func (s relationshipStore) Add(name string, target core.Topic) {
	mt, ok := target.(*Topic)
	if !ok || mt.graph != s.t.graph {
		return
	}
	for _, id := range s.t.rels[name] {
		if id == mt.id {
			return
		}
	}
	s.t.rels[name] = append(s.t.rels[name], mt.id)
}

func (s relationshipStore) Clear(name string) {
	delete(s.t.rels, name)
}

// --- Reference store ---

type referenceStore struct{ t *Topic }

func (s referenceStore) Keys() []string {
	keys := make([]string, 0, len(s.t.refs))
	for _, ref := range s.t.refs {
		keys = append(keys, ref.Key)
	}
	sort.Strings(keys)
	return keys
}

func (s referenceStore) Get(key string) (core.Reference, bool) {
	ref, ok := s.t.refs[strings.ToLower(key)]
	return ref, ok
}

func (s referenceStore) Set(key string, target core.Topic, modified time.Time) {
	ref := core.Reference{Key: key, LastModified: modified}
	if target != nil {
		uniqueKey := target.UniqueKey()
		ref.Value = &uniqueKey
	}
	s.t.refs[strings.ToLower(key)] = ref
}

func (s referenceStore) Remove(key string) {
	delete(s.t.refs, strings.ToLower(key))
}

// --- Child list ---

type childList struct{ t *Topic }

func (s childList) All() []core.Topic {
	children := make([]core.Topic, len(s.t.children))
	for i, child := range s.t.children {
		children[i] = child
	}
	return children
}

func (s childList) Get(key string) (core.Topic, bool) {
	for _, child := range s.t.children {
		if strings.EqualFold(child.key, key) {
			return child, true
		}
	}
	return nil, false
}

func (s childList) Create(key, contentType string) (core.Topic, error) {
	if key == "" {
		return nil, fmt.Errorf("topic key cannot be empty")
	}
	if strings.Contains(key, core.KeySeparator) {
		return nil, fmt.Errorf("topic key %q cannot contain %q", key, core.KeySeparator)
	}
	if _, exists := s.Get(key); exists {
		return nil, fmt.Errorf("child %q already exists under %q", key, s.t.UniqueKey())
	}
	child := s.t.graph.newTopic(s.t, key, contentType)
	s.t.children = append(s.t.children, child)
	return child, nil
}

func (s childList) Remove(key string) {
	for i, child := range s.t.children {
		if strings.EqualFold(child.key, key) {
			s.t.children = append(s.t.children[:i], s.t.children[i+1:]...)
			s.t.graph.detach(child)
			return
		}
	}
}
