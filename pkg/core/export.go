package core

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Export walks a live topic and produces an interchange snapshot of it.
//
// Workflow:
//  1. Copy identity (key, unique key, content type).
//  2. Export attributes, filtering reserved names and exclusion globs and
//     rewriting legacy implicit pointers into references.
//  3. Export references and relationships whose targets are in scope.
//  4. Recurse into children per the child-inclusion policy.
//
// The export scope is t's unique key and is not recomputed on recursive
// calls, so association targets anywhere under the original topic stay in
// scope.
func Export(t Topic, opts ExportOptions) *Node {
	e := &exporter{graph: t.Graph(), scope: t.UniqueKey(), cfg: opts.resolve()}
	return e.export(t)
}

type exporter struct {
	graph Graph
	scope string
	cfg   exportConfig
}

func (e *exporter) export(t Topic) *Node {
	n := NewNode(t.Key(), t.UniqueKey(), t.ContentType())

	e.exportAttributes(t, n)
	e.exportReferences(t, n)
	e.exportRelationships(t, n)

	for _, child := range t.Children().All() {
		if e.includeChild(t, child) {
			n.Children = append(n.Children, e.export(child))
		}
	}
	return n
}

func (e *exporter) exportAttributes(t Topic, n *Node) {
	attrs := t.Attributes()
	for _, key := range attrs.Keys() {
		if IsReservedAttribute(key) || e.excluded(key) {
			continue
		}
		attr, ok := attrs.Get(key)
		if !ok {
			continue
		}
		if e.cfg.translateLegacy {
			if id, isPointer := LegacyPointer(key, attr.Value); isPointer {
				e.exportLegacyPointer(n, key, id, attr)
				continue
			}
		}
		if attr.Value == nil || *attr.Value == "" {
			continue
		}
		value := *attr.Value
		n.Attributes = append(n.Attributes, Attribute{
			Key:          attr.Key,
			Value:        &value,
			LastModified: attr.LastModified,
		})
	}
}

// exportLegacyPointer rewrites an implicit pointer attribute into a
// reference on its target's unique key. Pointers that do not resolve, or
// whose target is out of scope, are dropped from the snapshot.
func (e *exporter) exportLegacyPointer(n *Node, key string, id int64, attr Attribute) {
	target, ok := e.graph.LookupID(id)
	if !ok {
		if e.cfg.logger != nil {
			e.cfg.logger.Debug("dropping unresolved legacy pointer", "key", key, "id", id)
		}
		return
	}
	uniqueKey := target.UniqueKey()
	if !e.inScope(uniqueKey) {
		return
	}
	n.References = append(n.References, Reference{
		Key:          LegacyReferenceKey(key),
		Value:        &uniqueKey,
		LastModified: attr.LastModified,
	})
}

func (e *exporter) exportReferences(t Topic, n *Node) {
	refs := t.References()
	for _, key := range refs.Keys() {
		ref, ok := refs.Get(key)
		if !ok || ref.Value == nil || !e.inScope(*ref.Value) {
			continue
		}
		value := *ref.Value
		n.References = append(n.References, Reference{
			Key:          ref.Key,
			Value:        &value,
			LastModified: ref.LastModified,
		})
	}
}

func (e *exporter) exportRelationships(t Topic, n *Node) {
	rels := t.Relationships()
	for _, name := range rels.Names() {
		rel := Relationship{Key: name}
		for _, target := range rels.Targets(name) {
			if e.inScope(target.UniqueKey()) {
				rel.Values = append(rel.Values, target.UniqueKey())
			}
		}
		// A set whose every target fell out of scope is omitted entirely.
		if len(rel.Values) > 0 {
			n.Relationships = append(n.Relationships, rel)
		}
	}
}

// includeChild implements the asymmetric child-inclusion rule: full
// recursive export when requested, and list containers stay transparent so
// their otherwise-invisible child records survive a shallow export.
func (e *exporter) includeChild(parent, child Topic) bool {
	if e.cfg.includeChildren {
		return true
	}
	if strings.EqualFold(parent.ContentType(), ContentTypeTopicList) {
		return true
	}
	return e.cfg.includeNested && strings.EqualFold(child.ContentType(), ContentTypeTopicList)
}

func (e *exporter) inScope(uniqueKey string) bool {
	if e.cfg.includeExternal {
		_, ok := e.graph.Lookup(uniqueKey)
		return ok
	}
	return InScope(e.scope, uniqueKey)
}

func (e *exporter) excluded(key string) bool {
	for _, pattern := range e.cfg.exclude {
		// Invalid patterns are ignored rather than failing the export.
		if ok, err := doublestar.Match(pattern, key); err == nil && ok {
			return true
		}
	}
	return false
}
