// Package viz owns the structural contract every generated artifact must
// satisfy, plus the deterministic sanitizer, validator and fallback chart
// that enforce it without any backend involvement.
package viz

// Contract fixes the structural requirements of an artifact: the entry
// point the render surface invokes, the pinned D3 major version, and the
// primitive calls that prove the artifact actually uses the library.
type Contract struct {
	EntryPoint     string
	EntryArity     int
	LibraryVersion int
	RequiredCalls  []string
	AllowedGlobals []string
}

// DefaultContract returns the contract with the given entry-point name.
// An empty name falls back to drawChart.
func DefaultContract(entryPoint string) Contract {
	if entryPoint == "" {
		entryPoint = "drawChart"
	}
	return Contract{
		EntryPoint:     entryPoint,
		EntryArity:     1,
		LibraryVersion: 7,
		RequiredCalls: []string{
			"d3.select(",
			"d3.scaleLinear(",
			"d3.scaleBand(",
			"d3.scaleOrdinal(",
			"d3.axisBottom(",
			"d3.axisLeft(",
		},
		AllowedGlobals: []string{"d3", "data", "document"},
	}
}
