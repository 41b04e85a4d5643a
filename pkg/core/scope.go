package core

import (
	"strconv"
	"strings"
)

// InScope reports whether a target's unique key falls inside an export
// scope. The scope is the unique key of the topic the export was originally
// invoked on; it is a plain case-insensitive prefix check, matching the
// behavior of the graph engines this format interoperates with.
func InScope(scope, uniqueKey string) bool {
	if len(uniqueKey) < len(scope) {
		return false
	}
	return strings.EqualFold(uniqueKey[:len(scope)], scope)
}

// LegacyPointer classifies an attribute as a legacy implicit pointer: the
// key ends in the identifier suffix and the value parses as the graph's
// internal numeric identifier. It returns the parsed identifier.
//
// This is a best-effort naming convention, not a type guarantee. An
// unrelated attribute whose key happens to end in "Id" and whose value
// happens to be numeric will be misclassified. Keep this function isolated
// so its accuracy can be tested on its own.
func LegacyPointer(key string, value *string) (int64, bool) {
	if !hasIdentifierSuffix(key) || value == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(*value), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// LegacyImportPointer reports whether an incoming attribute should be
// promoted into a reference before attribute merging: it follows the legacy
// pointer naming convention and its value already looks like a unique key
// rooted in the target graph.
func LegacyImportPointer(g Graph, key string, value *string) bool {
	if !hasIdentifierSuffix(key) || value == nil {
		return false
	}
	root := g.Root().UniqueKey()
	v := *value
	if strings.EqualFold(v, root) {
		return true
	}
	prefix := root + KeySeparator
	return len(v) >= len(prefix) && strings.EqualFold(v[:len(prefix)], prefix)
}

// LegacyReferenceKey derives the reference key for a promoted legacy
// pointer attribute: the identifier suffix is stripped, and the historical
// BasedOnTopicId name maps to the well-known DerivedTopic reference.
func LegacyReferenceKey(attrKey string) string {
	if strings.EqualFold(attrKey, LegacyDerivedTopicAttr) {
		return DerivedTopicKey
	}
	return strings.TrimSuffix(attrKey, IdentifierSuffix)
}

func hasIdentifierSuffix(key string) bool {
	return len(key) > len(IdentifierSuffix) &&
		strings.HasSuffix(key, IdentifierSuffix) &&
		!IsReservedAttribute(key)
}
