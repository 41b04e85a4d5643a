package fs

import (
	"sort"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Dir           string   `json:"dir"`
	DefaultExt    string   `json:"default_ext"`
	Serializers   []string `json:"serializers"`
	Loads         int      `json:"loads"`
	Saves         int      `json:"saves"`
	WatcherActive bool     `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	serializers := make([]string, 0, len(s.serializers))
	for ext := range s.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	return StoreState{
		Dir:           s.Dir,
		DefaultExt:    s.config.DefaultExt,
		Serializers:   serializers,
		Loads:         s.loads,
		Saves:         s.saves,
		WatcherActive: s.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "snapshot-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
