package vars

import "fmt"

// MalformedExpressionError reports a path string that does not parse:
// empty input, missing Scope.Key prefix, or an unterminated bracket.
type MalformedExpressionError struct {
	Expr   string
	Reason string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression %q: %s", e.Expr, e.Reason)
}

// VariableNotFoundError is returned from ResolveVariables under the
// ThrowError policy when a placeholder references an absent base variable.
type VariableNotFoundError struct {
	Variable string
}

func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable not found: ${%s}", e.Variable)
}
