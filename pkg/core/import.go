package core

import (
	"fmt"
	"strings"
	"time"
)

// Import merges an interchange snapshot onto a live topic.
//
// The merge runs in two passes. Pass one walks the snapshot depth-first,
// applying attributes, relationships, references and children it can resolve
// immediately and staging every association whose target does not exist yet
// (forward references, or cycles between topics created by the same call).
// Pass two runs once after the whole subtree has been materialized and
// resolves the staged associations against the complete graph.
//
// A unique-key mismatch at any level aborts the call with
// ErrUniqueKeyMismatch. There is no rollback: mutations applied before the
// failure stay in the graph.
func Import(t Topic, n *Node, opts ImportOptions) error {
	im := &importer{graph: t.Graph(), cfg: opts.resolve()}
	if err := im.applyLocal(t, n); err != nil {
		return err
	}
	im.resolveDeferred()
	return nil
}

type deferredKind int

const (
	deferredRelationship deferredKind = iota
	deferredReference
)

// deferredAssociation is a staged pointer whose target was not resolvable
// during pass one.
type deferredAssociation struct {
	kind     deferredKind
	owner    Topic
	key      string
	target   string
	modified time.Time
}

type importer struct {
	graph    Graph
	cfg      importConfig
	deferred []deferredAssociation
}

func (im *importer) applyLocal(t Topic, n *Node) error {
	if !strings.EqualFold(t.UniqueKey(), n.UniqueKey) {
		return fmt.Errorf("importing %q onto %q: %w", n.UniqueKey, t.UniqueKey(), ErrUniqueKeyMismatch)
	}

	if n.ContentType != "" && !strings.EqualFold(t.ContentType(), n.ContentType) && im.cfg.overwriteContentType {
		t.SetContentType(n.ContentType)
	}

	// Legacy implicit pointers are promoted to references before any
	// attribute merging runs.
	attrs, refs := im.promoteLegacy(n)

	im.mergeAttributes(t, attrs)
	im.mergeRelationships(t, n.Relationships)
	im.mergeReferences(t, refs)
	return im.mergeChildren(t, n.Children)
}

// promoteLegacy splits the incoming attributes into plain attributes and
// promoted references. An attribute qualifies when its key follows the
// identifier-suffix convention and its value is a unique key rooted in this
// graph; everything else passes through unchanged.
func (im *importer) promoteLegacy(n *Node) ([]Attribute, []Reference) {
	attrs := make([]Attribute, 0, len(n.Attributes))
	refs := append([]Reference(nil), n.References...)
	for _, attr := range n.Attributes {
		if LegacyImportPointer(im.graph, attr.Key, attr.Value) {
			refs = append(refs, Reference{
				Key:          LegacyReferenceKey(attr.Key),
				Value:        attr.Value,
				LastModified: attr.LastModified,
			})
			continue
		}
		attrs = append(attrs, attr)
	}
	return attrs, refs
}

func (im *importer) mergeAttributes(t Topic, attrs []Attribute) {
	store := t.Attributes()
	changed := false

	if im.cfg.deleteAttributes {
		incoming := make(map[string]bool, len(attrs))
		for _, attr := range attrs {
			incoming[strings.ToLower(attr.Key)] = true
		}
		for _, key := range store.Keys() {
			// Structural fields and the provenance pair survive deletion;
			// the pair is governed by the stamp strategy below.
			if IsReservedAttribute(key) || isStampAttribute(key) {
				continue
			}
			if !incoming[strings.ToLower(key)] {
				store.Remove(key)
				changed = true
			}
		}
	}

	for _, attr := range attrs {
		if isStampAttribute(attr.Key) {
			continue
		}
		existing, ok := store.Get(attr.Key)
		if !im.cfg.strategy.Apply(ok && existing.Value != nil, existing.LastModified, attr.LastModified) {
			continue
		}
		store.Set(attr.Key, attr.Value, attr.LastModified)
		changed = true
	}

	// The stamp pair only moves when this call actually changed the topic.
	if changed {
		im.applyStamp(t, attrs)
	}
}

// applyStamp applies the LastModified/LastModifiedBy strategy after an
// attribute merge that changed the topic, then backfills whichever of the
// two fields is still unset.
func (im *importer) applyStamp(t Topic, incoming []Attribute) {
	store := t.Attributes()
	now := time.Now()

	switch im.cfg.stamp {
	case StampTargetValue:
		// Keep whatever the live topic already records.
	case StampCurrent:
		im.setStamp(store, im.cfg.actor, now)
	case StampSystem:
		im.setStamp(store, SystemActor, now)
	case StampInherit:
		for _, attr := range incoming {
			if !isStampAttribute(attr.Key) {
				continue
			}
			existing, ok := store.Get(attr.Key)
			if im.cfg.strategy.Apply(ok && existing.Value != nil, existing.LastModified, attr.LastModified) {
				store.Set(attr.Key, attr.Value, attr.LastModified)
			}
		}
	}

	if !stampSet(store, AttrLastModified) {
		value := now.UTC().Format(time.RFC3339)
		store.Set(AttrLastModified, &value, now)
	}
	if !stampSet(store, AttrLastModifiedBy) {
		actor := im.cfg.actor
		store.Set(AttrLastModifiedBy, &actor, now)
	}
}

func (im *importer) setStamp(store AttributeStore, actor string, now time.Time) {
	value := now.UTC().Format(time.RFC3339)
	store.Set(AttrLastModified, &value, now)
	store.Set(AttrLastModifiedBy, &actor, now)
}

func (im *importer) mergeRelationships(t Topic, rels []Relationship) {
	store := t.Relationships()

	if im.cfg.deleteRelationships {
		for _, name := range store.Names() {
			store.Clear(name)
		}
	}

	for _, rel := range rels {
		for _, targetKey := range rel.Values {
			// Resolution runs against the graph as it currently stands; a
			// target created later in this same import resolves in pass two.
			if target, ok := im.graph.Lookup(targetKey); ok {
				store.Add(rel.Key, target)
				continue
			}
			im.deferred = append(im.deferred, deferredAssociation{
				kind:   deferredRelationship,
				owner:  t,
				key:    rel.Key,
				target: targetKey,
			})
		}
	}
}

func (im *importer) mergeReferences(t Topic, refs []Reference) {
	store := t.References()

	if im.cfg.deleteReferences {
		incoming := make(map[string]bool, len(refs))
		for _, ref := range refs {
			incoming[strings.ToLower(ref.Key)] = true
		}
		for _, key := range store.Keys() {
			if !incoming[strings.ToLower(key)] {
				store.Remove(key)
			}
		}
	}

	for _, ref := range refs {
		existing, ok := store.Get(ref.Key)
		if !im.cfg.strategy.Apply(ok && existing.Value != nil, existing.LastModified, ref.LastModified) {
			continue
		}
		if ref.Value == nil {
			// A null target is valid and clears the reference immediately.
			store.Set(ref.Key, nil, ref.LastModified)
			continue
		}
		if target, ok := im.graph.Lookup(*ref.Value); ok {
			store.Set(ref.Key, target, ref.LastModified)
			continue
		}
		im.deferred = append(im.deferred, deferredAssociation{
			kind:     deferredReference,
			owner:    t,
			key:      ref.Key,
			target:   *ref.Value,
			modified: ref.LastModified,
		})
	}
}

func (im *importer) mergeChildren(t Topic, children []*Node) error {
	list := t.Children()

	// List containers group records that are invisible elsewhere, so their
	// children are pruned under a separate policy from ordinary topics.
	deletePolicy := im.cfg.deleteChildren
	if strings.EqualFold(t.ContentType(), ContentTypeTopicList) {
		deletePolicy = im.cfg.deleteNestedTopics
	}
	if deletePolicy {
		incoming := make(map[string]bool, len(children))
		for _, child := range children {
			incoming[strings.ToLower(child.Key)] = true
		}
		for _, child := range list.All() {
			if !incoming[strings.ToLower(child.Key())] {
				list.Remove(child.Key())
			}
		}
	}

	for _, childNode := range children {
		child, ok := list.Get(childNode.Key)
		if !ok {
			created, err := list.Create(childNode.Key, childNode.ContentType)
			if err != nil {
				return fmt.Errorf("failed to create child %q under %q: %w", childNode.Key, t.UniqueKey(), err)
			}
			child = created
		}
		if err := im.applyLocal(child, childNode); err != nil {
			return err
		}
	}
	return nil
}

// resolveDeferred re-resolves every staged association against the now
// complete graph. Targets that still do not resolve are dropped; partial
// import is preferred over total failure, at the cost of silent data loss
// on malformed input.
func (im *importer) resolveDeferred() {
	for _, d := range im.deferred {
		target, ok := im.graph.Lookup(d.target)
		if !ok {
			if im.cfg.logger != nil {
				im.cfg.logger.Debug("dropping unresolved association",
					"owner", d.owner.UniqueKey(), "key", d.key, "target", d.target)
			}
			continue
		}
		switch d.kind {
		case deferredRelationship:
			d.owner.Relationships().Add(d.key, target)
		case deferredReference:
			d.owner.References().Set(d.key, target, d.modified)
		}
	}
	im.deferred = nil
}

func isStampAttribute(key string) bool {
	return strings.EqualFold(key, AttrLastModified) || strings.EqualFold(key, AttrLastModifiedBy)
}

func stampSet(store AttributeStore, key string) bool {
	attr, ok := store.Get(key)
	return ok && attr.Value != nil && *attr.Value != ""
}
