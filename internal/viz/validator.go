package viz

import (
	"fmt"
	"strings"
)

// Result reports the outcome of validation. Reasons are phrased so they
// can be fed back verbatim into a repair prompt.
type Result struct {
	OK      bool
	Reasons []string
}

func failure(reason string) Result {
	return Result{Reasons: []string{reason}}
}

// Validate runs the ordered structural checks against the contract:
// entry-point signature, proof of real library usage, balanced delimiters.
// It short-circuits on the first failure and performs no repair.
func Validate(code string, contract Contract) Result {
	if reason := checkEntryPoint(code, contract); reason != "" {
		return failure(reason)
	}
	if reason := checkRequiredCalls(code, contract); reason != "" {
		return failure(reason)
	}
	if reason := checkBalancedDelimiters(code); reason != "" {
		return failure(reason)
	}
	return Result{OK: true}
}

// checkEntryPoint requires the exact function name with the contract's
// parameter arity.
func checkEntryPoint(code string, contract Contract) string {
	sig := "function " + contract.EntryPoint + "("
	idx := strings.Index(code, sig)
	if idx < 0 {
		return fmt.Sprintf("missing entry point: define function %s(data)", contract.EntryPoint)
	}
	rest := code[idx+len(sig):]
	end := strings.Index(rest, ")")
	if end < 0 {
		return fmt.Sprintf("entry point %s has an unterminated parameter list", contract.EntryPoint)
	}
	params := strings.TrimSpace(rest[:end])
	arity := 0
	if params != "" {
		arity = strings.Count(params, ",") + 1
	}
	if arity != contract.EntryArity {
		return fmt.Sprintf("entry point %s must take exactly %d parameter(s), found %d",
			contract.EntryPoint, contract.EntryArity, arity)
	}
	return ""
}

// checkRequiredCalls requires at least one whitelisted primitive so the
// artifact demonstrably uses the target library.
func checkRequiredCalls(code string, contract Contract) string {
	for _, call := range contract.RequiredCalls {
		if strings.Contains(code, call) {
			return ""
		}
	}
	return fmt.Sprintf("no D3 primitive call found; use at least one of: %s",
		strings.Join(contract.RequiredCalls, " "))
}

// checkBalancedDelimiters compares open/close counts for (), {} and [].
// Counting is not string-aware; that is the accepted tradeoff of a
// structural validator.
func checkBalancedDelimiters(code string) string {
	pairs := []struct {
		open, close string
		label       string
	}{
		{"(", ")", "parentheses"},
		{"{", "}", "braces"},
		{"[", "]", "brackets"},
	}
	for _, p := range pairs {
		if o, c := strings.Count(code, p.open), strings.Count(code, p.close); o != c {
			return fmt.Sprintf("unbalanced %s: %d open vs %d close", p.label, o, c)
		}
	}
	return ""
}
