// Package optimize applies declarative rewrite-rule profiles to normalized
// SVG markup to reduce its size while bounding the risk of visual regression.
// Optimization is strictly best-effort: any failure discards the attempt and
// the caller keeps the normalizer's output.
package optimize

import "strings"

// Profile is a fixed rule table. Profiles are data, not behavior: each flag
// enables one independent rewrite rule, which keeps the tables auditable and
// each rule testable on its own.
type Profile struct {
	Name string
	// Precision is the number of fractional digits kept in geometry values.
	Precision int
	// StripMetadata removes the doctype, XML processing instructions,
	// comments, <metadata> elements, and editor-namespace data.
	StripMetadata bool
	// NormalizeWhitespace collapses runs of whitespace in attribute values.
	NormalizeWhitespace bool
	// CanonicalColors rewrites named colors to hex, folds 6-digit hex to
	// shorthand, and resolves currentColor to an explicit value.
	CanonicalColors bool
	// SimplifyPaths collapses redundant repeated path commands.
	SimplifyPaths bool
	// MergeTransforms merges consecutive same-type transform functions.
	// Different types are never fused into one matrix: fused matrices are
	// handled inconsistently by target renderers.
	MergeTransforms bool
	// DropDimensions removes root width/height when they merely repeat the
	// viewBox. The viewBox itself is always kept.
	DropDimensions bool
}

// The three supported profiles.
var (
	// Conservative performs only non-destructive cleanup. Used when the
	// markup contains constructs where geometry rewriting risks drift.
	Conservative = Profile{
		Name:                "conservative",
		Precision:           3,
		StripMetadata:       true,
		NormalizeWhitespace: true,
	}

	// Compatible is the default profile.
	Compatible = Profile{
		Name:                "compatible",
		Precision:           2,
		StripMetadata:       true,
		NormalizeWhitespace: true,
		CanonicalColors:     true,
		SimplifyPaths:       true,
		MergeTransforms:     true,
	}

	// Aggressive trades further size for precision.
	Aggressive = Profile{
		Name:                "aggressive",
		Precision:           1,
		StripMetadata:       true,
		NormalizeWhitespace: true,
		CanonicalColors:     true,
		SimplifyPaths:       true,
		MergeTransforms:     true,
		DropDimensions:      true,
	}
)

// Select chooses the profile for a document. Markup containing a clipPath
// reference or a <style> block selects compatible; everything else defaults
// to conservative. Empty or unrecognizable input defaults to compatible.
// Selection never errors.
func Select(markup string) Profile {
	if strings.TrimSpace(markup) == "" || !strings.Contains(markup, "<svg") {
		return Compatible
	}
	if strings.Contains(markup, "clip-path") ||
		strings.Contains(markup, "<clipPath") ||
		strings.Contains(markup, "<style") {
		return Compatible
	}
	return Conservative
}

// ByName returns the named profile, defaulting to compatible for unknown
// names.
func ByName(name string) Profile {
	switch name {
	case "conservative":
		return Conservative
	case "aggressive":
		return Aggressive
	default:
		return Compatible
	}
}
