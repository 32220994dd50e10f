// Package render prepares what the external render surface consumes: the
// validated artifact source plus a JSON-serializable data payload. It
// never executes anything; sandboxing belongs to the surface.
package render

import (
	"encoding/json"
	"fmt"

	"chartchat/internal/models"
)

// Payload is the unit handed to the render surface.
type Payload struct {
	Code string       `json:"code"`
	Data []models.Row `json:"data"`
}

// NewPayload pairs an artifact with the rows it should be invoked with.
func NewPayload(artifact models.Artifact, data []models.Row) Payload {
	return Payload{Code: artifact.Code, Data: data}
}

// MarshalJSON-friendly by construction; Encode is a convenience for callers
// streaming the payload out.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}

// HostDocument builds a self-contained HTML page that loads D3, defines
// the artifact and invokes the entry point with the payload data. Useful
// for previewing an artifact in a browser; production surfaces bring
// their own sandbox.
func HostDocument(p Payload, entryPoint string) (string, error) {
	if entryPoint == "" {
		entryPoint = "drawChart"
	}
	data, err := json.Marshal(p.Data)
	if err != nil {
		return "", fmt.Errorf("marshal payload data: %w", err)
	}
	doc := `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>ChartChat</title></head>
<body>
<div id="visualization"></div>
<script src="https://d3js.org/d3.v7.min.js"></script>
<script>
` + p.Code + `
const __data = ` + string(data) + `;
function __run() {
  try {
    ` + entryPoint + `(__data);
  } catch (error) {
    console.error('Error in chart code:', error);
    document.getElementById('visualization').innerHTML = '<p style="color: red;">Error rendering visualization. Check console for details.</p>';
  }
}
if (document.readyState === 'complete') { __run(); } else { document.addEventListener('DOMContentLoaded', __run); }
</script>
</body>
</html>
`
	return doc, nil
}
