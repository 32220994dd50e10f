package models

// ArtifactState tracks how an artifact reached its current form.
type ArtifactState string

const (
	// ArtifactUnvalidated is raw generator output before validation.
	ArtifactUnvalidated ArtifactState = "unvalidated"
	// ArtifactValid passed validation on the first attempt.
	ArtifactValid ArtifactState = "valid"
	// ArtifactRepaired passed validation after one or more refinement attempts.
	ArtifactRepaired ArtifactState = "repaired"
	// ArtifactFallback is the deterministic schema-only chart.
	ArtifactFallback ArtifactState = "fallback"
)

// Artifact is a piece of visualization source code tagged with how far it
// got through the pipeline. The code text itself is opaque to the core.
type Artifact struct {
	Code  string        `json:"code"`
	State ArtifactState `json:"state"`
}

// GenerationRequest bundles everything the prompt composer needs for one
// backend call.
type GenerationRequest struct {
	Schema        Schema
	Sample        []Row
	Instruction   string
	PriorArtifact string
	RepairNotes   []string
}

// Description is a short human-readable label for history entries and
// error reporting.
func (r GenerationRequest) Description() string {
	switch {
	case len(r.RepairNotes) > 0:
		return "repair: " + firstLine(r.RepairNotes[0])
	case r.Instruction != "":
		return firstLine(r.Instruction)
	default:
		return "initial visualization"
	}
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
