// Package prompt builds generation requests for the backend. Composition
// is a pure function of its inputs so the sample bounding and framing are
// directly testable.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"chartchat/internal/models"
	"chartchat/internal/viz"
)

// SystemRole is the fixed role framing sent with every request.
const SystemRole = "You are a D3.js expert. Generate D3.js code for data visualization based on the given requirements. Return code only, no prose."

// Request is one composed backend request.
type Request struct {
	System string
	User   string
}

// Composer turns a GenerationRequest into prompt text under a fixed
// contract and sample bounds.
type Composer struct {
	Contract     viz.Contract
	SampleCap    int
	SampleDetail int
}

func NewComposer(contract viz.Contract, sampleCap, sampleDetail int) Composer {
	if sampleCap < 1 {
		sampleCap = 1
	}
	if sampleDetail < 0 {
		sampleDetail = 0
	}
	if sampleDetail > sampleCap {
		sampleDetail = sampleCap
	}
	return Composer{Contract: contract, SampleCap: sampleCap, SampleDetail: sampleDetail}
}

// Compose assembles the full user prompt: technical contract, schema
// description, bounded sample, task framing. Repair notes take precedence
// over the modify-in-place framing.
func (c Composer) Compose(req models.GenerationRequest) Request {
	var b strings.Builder

	b.WriteString("Create a D3.js visualization for the tabular data described below.\n\n")
	c.writeContract(&b)
	c.writeSchema(&b, req.Schema)
	c.writeSample(&b, req.Sample)
	b.WriteString(`Requirements:
1. Add clear and informative labels for axes and the chart title.
2. Implement basic interactivity (tooltips on hover) to show detailed information.
3. Ensure the chart fits within an 800x500 pixel area.
4. Handle potential null or undefined values gracefully.
5. Include grid lines and appropriate scales for better readability.
`)

	switch {
	case len(req.RepairNotes) > 0:
		c.writeRepair(&b, req)
	case req.Instruction != "":
		c.writeModify(&b, req)
	}

	return Request{System: SystemRole, User: b.String()}
}

func (c Composer) writeContract(b *strings.Builder) {
	fmt.Fprintf(b, "Technical contract (mandatory):\n")
	fmt.Fprintf(b, "- Define exactly one entry point: function %s(data) { ... }. The runtime calls it with the full dataset as an array of objects.\n", c.Contract.EntryPoint)
	fmt.Fprintf(b, "- Target D3.js version %d only; do not use APIs removed in v%d.\n", c.Contract.LibraryVersion, c.Contract.LibraryVersion)
	fmt.Fprintf(b, "- Only these globals are available: %s. Render into the element with id \"visualization\".\n\n", strings.Join(c.Contract.AllowedGlobals, ", "))
}

func (c Composer) writeSchema(b *strings.Builder, schema models.Schema) {
	b.WriteString("Schema:\n")
	for _, col := range schema {
		fmt.Fprintf(b, "%s: %s\n", col.Name, col.Type)
	}
	b.WriteString("\n")
}

// writeSample bounds the echoed data: at most SampleCap records are
// considered, of which the first SampleDetail are shown in full detail.
func (c Composer) writeSample(b *strings.Builder, sample []models.Row) {
	if len(sample) > c.SampleCap {
		sample = sample[:c.SampleCap]
	}
	detail := sample
	if len(detail) > c.SampleDetail {
		detail = detail[:c.SampleDetail]
	}
	fmt.Fprintf(b, "Data sample (%d of %d sampled records shown):\n", len(detail), len(sample))
	encoded, err := json.MarshalIndent(detail, "", "  ")
	if err != nil {
		// Rows are plain JSON-decoded maps; this only fires on exotic values.
		encoded = []byte("[]")
	}
	b.Write(encoded)
	b.WriteString("\n\n")
}

func (c Composer) writeModify(b *strings.Builder, req models.GenerationRequest) {
	b.WriteString("\nModify the current visualization code in place according to this request. Do not make any changes that were not requested; keep everything else exactly as it is.\n\n")
	fmt.Fprintf(b, "Request: %s\n\nCurrent code:\n%s\n", req.Instruction, req.PriorArtifact)
}

func (c Composer) writeRepair(b *strings.Builder, req models.GenerationRequest) {
	b.WriteString("\nThe previous attempt failed validation. Fix the problems listed below and return the corrected code in full. Do not change anything unrelated to the problems.\n\nProblems:\n")
	for _, note := range req.RepairNotes {
		fmt.Fprintf(b, "- %s\n", note)
	}
	if req.Instruction != "" {
		fmt.Fprintf(b, "\nOriginal request: %s\n", req.Instruction)
	}
	fmt.Fprintf(b, "\nPrevious code:\n%s\n", req.PriorArtifact)
}
