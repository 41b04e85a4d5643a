package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RootKey    string     `json:"root_key"`
	StoreType  string     `json:"store_type"`
	Exports    int        `json:"exports"`
	Imports    int        `json:"imports"`
	LastImport *time.Time `json:"last_import,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storeType := "none"
	if s.store != nil {
		storeType = "store"
		if comp, ok := s.store.(introspection.Component); ok {
			storeType = comp.ComponentType()
		}
	}

	rootKey := ""
	if s.graph != nil && s.graph.Root() != nil {
		rootKey = s.graph.Root().UniqueKey()
	}

	return ServiceState{
		RootKey:    rootKey,
		StoreType:  storeType,
		Exports:    s.exports,
		Imports:    s.imports,
		LastImport: s.lastImport,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
