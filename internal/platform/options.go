// Package platform wires adapters to the domain service. It is the only
// place that knows about concrete adapter types; the public facade re-exports
// its options without leaking them.
package platform

import (
	"log/slog"

	"github.com/aretw0/graft/pkg/core"
)

// options holds the internal configuration assembled by the facade.
type options struct {
	graph       core.Graph
	store       core.SnapshotStore
	storeDir    string
	defaultExt  string
	logger      *slog.Logger
	serializers map[string]any
	watcherErr  func(error)
}

// Option defines a functional option for configuring the service.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		serializers: make(map[string]any),
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithGraph injects a live graph, skipping the graph document load.
func WithGraph(g core.Graph) Option {
	return func(o *options) {
		o.graph = g
	}
}

// WithStore injects a custom snapshot store (e.g. a mock or a remote
// adapter). If provided, WithStoreDir is ignored.
func WithStore(store core.SnapshotStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithStoreDir backs the service with a filesystem snapshot store rooted at
// the given directory.
func WithStoreDir(dir string) Option {
	return func(o *options) {
		o.storeDir = dir
	}
}

// WithDefaultExt sets the extension (and thus format) used for snapshot IDs
// that carry none. Defaults to ".json".
func WithDefaultExt(ext string) Option {
	return func(o *options) {
		o.defaultExt = ext
	}
}

// WithSerializer registers a custom snapshot serializer for an extension.
// The value must implement the adapter's Serializer interface (e.g.
// fs.Serializer). Using 'any' keeps the facade free of adapter imports;
// validation happens at wiring time.
func WithSerializer(ext string, s any) Option {
	return func(o *options) {
		o.serializers[ext] = s
	}
}

// WithWatcherErrorHandler registers a callback for errors occurring during
// the watch loop, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.watcherErr = fn
	}
}
