package analyzer

import "go/types"

// DefaultMarker is the directive that marks a type for registration. Its
// optional arguments name contracts as a bare name in the declaring package
// ("Animal"), a package name imported by the declaring file ("api.Codec"),
// or a full import path ("example.com/plugins/api.Codec").
const DefaultMarker = "spi:provide"

// AnalyzeOptions controls analysis behavior.
type AnalyzeOptions struct {
	// Patterns are go/packages patterns, relative to the analyzed directory.
	Patterns []string
	// Marker is the directive name, without the leading "//".
	Marker        string
	IncludeStdlib bool
}

// interfaceDef is a candidate contract: a named, non-empty interface, or one
// instantiation of a generic interface (ID is then the erased origin).
type interfaceDef struct {
	ID    string
	Iface *types.Interface
}

// Marked is a type carrying the registration directive.
type Marked struct {
	ID        string
	Contracts []string
	Named     *types.Named
	Pos       string
}
