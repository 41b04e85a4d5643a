package core

import "log/slog"

// Bool is a convenience helper for the optional boolean overrides on
// ImportOptions and ExportOptions.
func Bool(v bool) *bool { return &v }

// ExportOptions configures a single export call. The zero value exports one
// topic without children, without external associations, with legacy pointer
// translation enabled.
type ExportOptions struct {
	// IncludeChildren exports the whole subtree. Implies IncludeNested.
	IncludeChildren bool

	// IncludeNested exports children of list-container topics even when
	// IncludeChildren is off, so lists stay transparent.
	IncludeNested bool

	// IncludeExternal keeps association targets whose unique keys fall
	// outside the exported subtree. Default false.
	IncludeExternal bool

	// TranslateLegacy rewrites legacy implicit pointer attributes into
	// references. Defaults to true when nil.
	TranslateLegacy *bool

	// ExcludeAttributes holds doublestar glob patterns matched against
	// attribute keys; matching attributes are omitted from the export.
	ExcludeAttributes []string

	// Logger receives debug output. May be nil.
	Logger *slog.Logger
}

// exportConfig is the defaulting table of ExportOptions resolved once at the
// start of an export call, never re-evaluated per node.
type exportConfig struct {
	includeChildren bool
	includeNested   bool
	includeExternal bool
	translateLegacy bool
	exclude         []string
	logger          *slog.Logger
}

func (o ExportOptions) resolve() exportConfig {
	cfg := exportConfig{
		includeChildren: o.IncludeChildren,
		includeNested:   o.IncludeNested || o.IncludeChildren,
		includeExternal: o.IncludeExternal,
		translateLegacy: true,
		exclude:         o.ExcludeAttributes,
		logger:          o.Logger,
	}
	if o.TranslateLegacy != nil {
		cfg.translateLegacy = *o.TranslateLegacy
	}
	return cfg
}

// ImportOptions configures a single import call. The zero value is a plain
// StrategyAdd import: nothing existing is overwritten or deleted.
type ImportOptions struct {
	Strategy Strategy

	// Per-category overrides for deleting live records the snapshot does
	// not mention. Each defaults to Strategy.DeletesUnmatched() when nil.
	DeleteAttributes    *bool
	DeleteRelationships *bool
	DeleteReferences    *bool

	// DeleteChildren governs unmatched children of ordinary topics;
	// DeleteNestedTopics governs unmatched children of list containers.
	DeleteChildren     *bool
	DeleteNestedTopics *bool

	// OverwriteContentType defaults to Strategy.OverwritesContentType()
	// when nil.
	OverwriteContentType *bool

	// Stamp governs the LastModified/LastModifiedBy pair.
	Stamp StampStrategy

	// Actor is recorded by StampCurrent and as the backfill author.
	// Defaults to SystemActor.
	Actor string

	// Logger receives debug output, including dropped associations. May be
	// nil.
	Logger *slog.Logger
}

// importConfig is the defaulting table of ImportOptions resolved once at the
// start of an import call.
type importConfig struct {
	strategy             Strategy
	deleteAttributes     bool
	deleteRelationships  bool
	deleteReferences     bool
	deleteChildren       bool
	deleteNestedTopics   bool
	overwriteContentType bool
	stamp                StampStrategy
	actor                string
	logger               *slog.Logger
}

func (o ImportOptions) resolve() importConfig {
	del := func(override *bool) bool {
		if override != nil {
			return *override
		}
		return o.Strategy.DeletesUnmatched()
	}
	cfg := importConfig{
		strategy:             o.Strategy,
		deleteAttributes:     del(o.DeleteAttributes),
		deleteRelationships:  del(o.DeleteRelationships),
		deleteReferences:     del(o.DeleteReferences),
		deleteChildren:       del(o.DeleteChildren),
		deleteNestedTopics:   del(o.DeleteNestedTopics),
		overwriteContentType: o.Strategy.OverwritesContentType(),
		stamp:                o.Stamp,
		actor:                o.Actor,
		logger:               o.Logger,
	}
	if o.OverwriteContentType != nil {
		cfg.overwriteContentType = *o.OverwriteContentType
	}
	if cfg.actor == "" {
		cfg.actor = SystemActor
	}
	return cfg
}
