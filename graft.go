package graft

import (
	"log/slog"

	"github.com/aretw0/graft/internal/platform"
	"github.com/aretw0/graft/pkg/adapters/memory"
	"github.com/aretw0/graft/pkg/core"
)

// --- Types ---

// Node is a public alias for the interchange snapshot node.
type Node = core.Node

// Service is a public alias for the domain service.
type Service = core.Service

// ExportOptions is a public alias for the export options.
type ExportOptions = core.ExportOptions

// ImportOptions is a public alias for the import options.
type ImportOptions = core.ImportOptions

// --- Merge strategies ---

// Strategy is a public alias for the merge strategy.
type Strategy = core.Strategy

const (
	StrategyAdd       = core.StrategyAdd
	StrategyMerge     = core.StrategyMerge
	StrategyOverwrite = core.StrategyOverwrite
	StrategyReplace   = core.StrategyReplace
)

// ParseStrategy parses a strategy name (e.g. "merge").
func ParseStrategy(name string) (Strategy, error) {
	return core.ParseStrategy(name)
}

// StampStrategy is a public alias for the provenance stamp strategy.
type StampStrategy = core.StampStrategy

const (
	StampInherit     = core.StampInherit
	StampTargetValue = core.StampTargetValue
	StampCurrent     = core.StampCurrent
	StampSystem      = core.StampSystem
)

// ParseStampStrategy parses a stamp strategy name (e.g. "current").
func ParseStampStrategy(name string) (StampStrategy, error) {
	return core.ParseStampStrategy(name)
}

// Bool is a convenience for the tri-state option fields.
func Bool(v bool) *bool {
	return core.Bool(v)
}

// --- Configuration ---

// Option defines a functional option for configuring the service.
type Option = platform.Option

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithGraph injects a live graph, skipping the graph document load.
func WithGraph(g core.Graph) Option {
	return platform.WithGraph(g)
}

// WithStore allows injecting a custom snapshot store.
func WithStore(store core.SnapshotStore) Option {
	return platform.WithStore(store)
}

// WithStoreDir backs the service with a filesystem snapshot store.
func WithStoreDir(dir string) Option {
	return platform.WithStoreDir(dir)
}

// WithDefaultExt sets the snapshot format used when an ID has no extension.
func WithDefaultExt(ext string) Option {
	return platform.WithDefaultExt(ext)
}

// WithSerializer registers a custom snapshot serializer for an extension.
func WithSerializer(ext string, s any) Option {
	return platform.WithSerializer(ext, s)
}

// WithWatcherErrorHandler registers a callback for watch loop errors.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a Service around the graph document at graphPath.
func New(graphPath string, opts ...Option) (*core.Service, error) {
	return platform.New(graphPath, opts...)
}

// Load reads a graph document into a live in-memory graph without building a
// service around it.
func Load(graphPath string) (core.Graph, error) {
	return memory.Load(graphPath)
}
