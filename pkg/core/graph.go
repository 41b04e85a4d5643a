package core

import (
	"context"
	"time"
)

// Graph is the live content graph the engine exports from and imports into.
// The engine consumes this contract but does not own the storage behind it;
// see pkg/adapters/memory for the reference implementation.
//
// Implementations are not required to be safe for concurrent mutation.
// Callers must serialize imports and exports against the same graph.
type Graph interface {
	// Root returns the root topic of the graph.
	Root() Topic

	// Lookup resolves a unique key anywhere in the graph. Matching is
	// case-insensitive.
	Lookup(uniqueKey string) (Topic, bool)

	// LookupID resolves a topic by its internal numeric identifier. Used by
	// legacy pointer translation during export.
	LookupID(id int64) (Topic, bool)
}

// Topic is one live node of the content graph.
type Topic interface {
	// ID is the graph-internal numeric identifier.
	ID() int64

	// Key is the local identifier, unique among siblings.
	Key() string

	// UniqueKey is the colon-delimited path from the root.
	UniqueKey() string

	ContentType() string
	SetContentType(contentType string)

	// Graph returns the graph this topic belongs to.
	Graph() Graph

	Attributes() AttributeStore
	Relationships() RelationshipStore
	References() ReferenceStore
	Children() ChildList
}

// AttributeStore is keyed scalar storage with per-attribute timestamps and a
// dirty flag. Key matching is case-insensitive.
type AttributeStore interface {
	Keys() []string
	Get(key string) (Attribute, bool)
	Set(key string, value *string, modified time.Time)
	Remove(key string)

	// Dirty reports whether attributes changed since the last ResetDirty.
	Dirty() bool
	ResetDirty()
}

// RelationshipStore is named one-to-many pointer storage.
type RelationshipStore interface {
	Names() []string
	Targets(name string) []Topic
	Add(name string, target Topic)
	Clear(name string)
}

// ReferenceStore is keyed one-to-one pointer storage with timestamps.
type ReferenceStore interface {
	Keys() []string
	Get(key string) (Reference, bool)

	// Set points the reference at target. A nil target clears the value but
	// keeps the entry and its timestamp.
	Set(key string, target Topic, modified time.Time)
	Remove(key string)
}

// ChildList is an ordered child collection supporting lookup by key and lazy
// creation.
type ChildList interface {
	All() []Topic
	Get(key string) (Topic, bool)
	Create(key, contentType string) (Topic, error)
	Remove(key string)
}

// SnapshotStore persists interchange snapshots outside the live graph.
// Adhering to this interface keeps the engine independent of the storage
// mechanism (filesystem, object store, in-memory fixtures).
type SnapshotStore interface {
	// Load reads the snapshot with the given ID.
	Load(ctx context.Context, id string) (*Node, error)

	// Save persists a snapshot under the given ID.
	Save(ctx context.Context, id string, n *Node) error
}

// Watchable is implemented by snapshot stores that can observe changes.
type Watchable interface {
	// Watch emits an event for every snapshot matching pattern that changes
	// until ctx is cancelled.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
