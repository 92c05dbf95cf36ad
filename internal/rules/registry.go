// Package rules holds the built-in style policies.
//
// Every policy is stateless. Thresholds and indentation width come from the
// lint.Context of the file being analyzed.
package rules

import "cstyle/internal/lint"

// Builtin returns one instance of every built-in policy in dispatch order.
func Builtin() []lint.Policy {
	return []lint.Policy{
		BracePlacement{},
		Indentation{},
		ParametersOnNewline{},
		ParenWhitespace{},
		PrivateFieldNaming{},
	}
}
