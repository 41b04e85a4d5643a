package core

import (
	"fmt"
	"strings"
	"time"
)

// Strategy is the caller-selected conflict-resolution policy governing an
// import. Strategies are ordered from least to most destructive; each one
// implies defaults for unmatched-record deletion and content-type overwrite,
// all individually overridable through ImportOptions.
type Strategy int

const (
	// StrategyAdd only fills gaps: records that already exist on the live
	// topic are never touched, regardless of timestamps.
	StrategyAdd Strategy = iota

	// StrategyMerge overwrites a record only when the incoming timestamp is
	// strictly newer than the existing one.
	StrategyMerge

	// StrategyOverwrite always applies incoming records but keeps existing
	// records the snapshot does not mention.
	StrategyOverwrite

	// StrategyReplace applies incoming records and deletes unmatched
	// existing ones, making the live topic mirror the snapshot.
	StrategyReplace
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case StrategyAdd:
		return "add"
	case StrategyMerge:
		return "merge"
	case StrategyOverwrite:
		return "overwrite"
	case StrategyReplace:
		return "replace"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a user-supplied name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "add":
		return StrategyAdd, nil
	case "merge":
		return StrategyMerge, nil
	case "overwrite":
		return StrategyOverwrite, nil
	case "replace":
		return StrategyReplace, nil
	default:
		return StrategyAdd, fmt.Errorf("unknown strategy %q (want add, merge, overwrite or replace)", name)
	}
}

// Apply decides whether an incoming record should be written over the
// existing state. hasExisting must be true only when a matching record with
// a present value exists on the live topic.
func (s Strategy) Apply(hasExisting bool, existing, incoming time.Time) bool {
	switch s {
	case StrategyAdd:
		return !hasExisting
	case StrategyMerge:
		// Equal timestamps keep the existing value.
		return !hasExisting || incoming.After(existing)
	default:
		return true
	}
}

// DeletesUnmatched is the per-category default for removing live records the
// snapshot does not mention.
func (s Strategy) DeletesUnmatched() bool {
	return s == StrategyReplace
}

// OverwritesContentType is the default for replacing a topic's content type
// on mismatch. Changing the schema tag changes which fields are valid
// downstream, so only the destructive strategies do it by default.
func (s Strategy) OverwritesContentType() bool {
	return s == StrategyOverwrite || s == StrategyReplace
}

// StampStrategy governs the LastModified/LastModifiedBy attribute pair
// independently of the general merge rule. Edit-provenance metadata should
// not silently inherit a remote system's notion of "now" or "who".
type StampStrategy int

const (
	// StampInherit falls back to the general attribute rule.
	StampInherit StampStrategy = iota

	// StampTargetValue never overwrites the live pair.
	StampTargetValue

	// StampCurrent records the acting actor and the current time.
	StampCurrent

	// StampSystem records the sentinel system actor and the current time.
	StampSystem
)

// String implements fmt.Stringer.
func (s StampStrategy) String() string {
	switch s {
	case StampInherit:
		return "inherit"
	case StampTargetValue:
		return "target-value"
	case StampCurrent:
		return "current"
	case StampSystem:
		return "system"
	default:
		return fmt.Sprintf("stamp(%d)", int(s))
	}
}

// ParseStampStrategy converts a user-supplied name into a StampStrategy.
func ParseStampStrategy(name string) (StampStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "inherit", "":
		return StampInherit, nil
	case "target-value", "targetvalue", "target":
		return StampTargetValue, nil
	case "current":
		return StampCurrent, nil
	case "system":
		return StampSystem, nil
	default:
		return StampInherit, fmt.Errorf("unknown stamp strategy %q (want inherit, target-value, current or system)", name)
	}
}
