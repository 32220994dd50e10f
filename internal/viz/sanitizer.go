package viz

import (
	"strings"
)

// substitutions normalizes deprecated or unsupported D3 calls to their v7
// equivalents. Replacement strings must never contain their own pattern,
// otherwise Sanitize stops being idempotent.
var substitutions = [][2]string{
	{"d3.event", "d3.pointer(event)"},
	{"d3.mouse(", "d3.pointer("},
	{"d3.scale.ordinal(", "d3.scaleOrdinal("},
	{"d3.scale.linear(", "d3.scaleLinear("},
	{"d3.scale.band(", "d3.scaleBand("},
}

const colorScaleDecl = "const color = d3.scaleOrdinal(d3.schemeCategory10);"

// Sanitize applies the deterministic cleanup every raw response goes
// through before validation: fence stripping, prose stripping, call
// normalization, missing-helper injection, entry-point wrapping and brace
// balancing. It is idempotent and best-effort; it never guarantees the
// result validates.
func Sanitize(code string, contract Contract) string {
	code = stripFences(code)
	code = stripLeadingProse(code)
	code = applySubstitutions(code)
	code = injectColorScale(code)
	code = ensureEntryPoint(code, contract)
	code = closeDanglingBraces(code)
	return strings.TrimSpace(code)
}

// stripFences removes markdown code-fence delimiter lines. Content between
// fences is kept as-is.
func stripFences(code string) string {
	if !strings.Contains(code, "```") {
		return code
	}
	lines := strings.Split(code, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// stripLeadingProse drops explanatory lines preceding the first line that
// looks like code. Anything after the first code line is left alone.
func stripLeadingProse(code string) string {
	lines := strings.Split(code, "\n")
	start := 0
	for start < len(lines) {
		line := strings.TrimSpace(lines[start])
		if line == "" || looksLikeCode(line) {
			if line != "" {
				break
			}
			start++
			continue
		}
		start++
	}
	if start >= len(lines) {
		return code
	}
	return strings.Join(lines[start:], "\n")
}

var codePrefixes = []string{
	"const ", "let ", "var ", "function ", "async ", "return ",
	"d3.", "//", "/*", "import ", "if ", "for ", "(", "{", "}",
}

func looksLikeCode(line string) bool {
	for _, p := range codePrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return strings.ContainsAny(line, ";={")
}

func applySubstitutions(code string) string {
	for _, sub := range substitutions {
		code = strings.ReplaceAll(code, sub[0], sub[1])
	}
	return code
}

// injectColorScale prepends a default ordinal color scale when the code
// calls color(...) without ever declaring one. Detection is by usage
// pattern only.
func injectColorScale(code string) string {
	if !strings.Contains(code, "color(") {
		return code
	}
	for _, decl := range []string{"const color", "let color", "var color", "function color"} {
		if strings.Contains(code, decl) {
			return code
		}
	}
	return colorScaleDecl + "\n" + code
}

// ensureEntryPoint wraps the body in the contract's entry-point function
// when no matching signature is present.
func ensureEntryPoint(code string, contract Contract) string {
	if strings.Contains(code, "function "+contract.EntryPoint+"(") {
		return code
	}
	if strings.Contains(code, contract.EntryPoint+" = ") {
		return code
	}
	return "function " + contract.EntryPoint + "(data) {\n" + code + "\n}"
}

// closeDanglingBraces appends closing braces when the response was
// truncated mid-block. It never removes anything.
func closeDanglingBraces(code string) string {
	open := strings.Count(code, "{")
	closed := strings.Count(code, "}")
	for open > closed {
		code += "\n}"
		closed++
	}
	return code
}
