package viz

import (
	"strings"
	"testing"

	"chartchat/internal/utils"
)

const validChart = `function drawChart(data) {
  const x = d3.scaleBand().domain(data.map(d => d.name)).range([0, 100]);
  d3.select("#visualization").append("svg");
}`

func TestValidateAcceptsWellFormedArtifact(t *testing.T) {
	result := Validate(validChart, DefaultContract("drawChart"))
	utils.Equal(t, result.OK, true)
	utils.Equal(t, len(result.Reasons), 0)
}

func TestValidateRejectsMissingEntryPoint(t *testing.T) {
	code := "function renderChart(data) {\n  d3.select(\"#visualization\");\n}"

	result := Validate(code, DefaultContract("drawChart"))

	utils.Equal(t, result.OK, false)
	utils.Equal(t, len(result.Reasons), 1)
	utils.Equal(t, strings.Contains(result.Reasons[0], "missing entry point"), true)
}

func TestValidateRejectsWrongArity(t *testing.T) {
	code := "function drawChart(data, options) {\n  d3.select(\"#visualization\");\n}"

	result := Validate(code, DefaultContract("drawChart"))

	utils.Equal(t, result.OK, false)
	utils.Equal(t, strings.Contains(result.Reasons[0], "exactly 1 parameter"), true)
}

func TestValidateRejectsZeroParameters(t *testing.T) {
	code := "function drawChart() {\n  d3.select(\"#visualization\");\n}"

	result := Validate(code, DefaultContract("drawChart"))

	utils.Equal(t, result.OK, false)
	utils.Equal(t, strings.Contains(result.Reasons[0], "found 0"), true)
}

func TestValidateRequiresLibraryUsage(t *testing.T) {
	code := "function drawChart(data) {\n  document.getElementById(\"visualization\").innerHTML = \"hi\";\n}"

	result := Validate(code, DefaultContract("drawChart"))

	utils.Equal(t, result.OK, false)
	utils.Equal(t, strings.Contains(result.Reasons[0], "no D3 primitive call"), true)
}

func TestValidateRejectsUnbalancedDelimiters(t *testing.T) {
	code := "function drawChart(data) {\n  d3.select(\"#visualization\"\n}"

	result := Validate(code, DefaultContract("drawChart"))

	utils.Equal(t, result.OK, false)
	utils.Equal(t, strings.Contains(result.Reasons[0], "unbalanced parentheses"), true)
}

// The checks are ordered and short-circuit: an artifact failing everything
// reports only the entry-point problem.
func TestValidateReportsFirstFailureOnly(t *testing.T) {
	code := "not code at all {"

	result := Validate(code, DefaultContract("drawChart"))

	utils.Equal(t, result.OK, false)
	utils.Equal(t, len(result.Reasons), 1)
	utils.Equal(t, strings.Contains(result.Reasons[0], "missing entry point"), true)
}

func TestValidateHonorsCustomEntryPoint(t *testing.T) {
	contract := DefaultContract("renderViz")
	code := "function renderViz(data) {\n  d3.axisLeft(y);\n}"

	utils.Equal(t, Validate(code, contract).OK, true)
	utils.Equal(t, Validate(validChart, contract).OK, false)
}
