package conditions

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/saranshbhandari/TaskManagerUtil/vars"
)

// EvalExpression evaluates a boolean expr-lang expression against the
// store's base variables. Variable names use the flat underscore form:
// "Task1.ResponseCode" is referenced as Task1_ResponseCode. Dots in the
// expression outside string literals are rewritten the same way.
func EvalExpression(store *vars.Store, expression string) (bool, error) {
	env := make(map[string]any)
	for name, value := range store.Snapshot() {
		env[FormatKey(name)] = value
	}

	// null as alias for nil (JSON/YAML compatibility)
	env["null"] = nil

	// defined() distinguishes a missing variable from one holding nil.
	definedFn := expr.Function(
		"defined",
		func(params ...any) (any, error) {
			name, ok := params[0].(string)
			if !ok {
				return false, fmt.Errorf("defined() expects string argument, got %T", params[0])
			}
			_, exists := env[FormatKey(name)]
			return exists, nil
		},
		new(func(string) bool),
	)

	// NOTE: expr.Env must come before AllowUndefinedVariables for it to work
	program, err := expr.Compile(FormatExpression(expression), []expr.Option{
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		definedFn,
	}...)
	if err != nil {
		return false, fmt.Errorf("compiling condition %q: %w", expression, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("evaluating condition %q: %w", expression, err)
	}

	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("condition %q evaluated to %T, expected boolean", expression, result)
	}
	return b, nil
}

// FormatKey maps a base-variable name to its expression identifier.
func FormatKey(key string) string {
	return strings.ReplaceAll(key, ".", "_")
}

// FormatExpression rewrites dotted variable references to underscore form,
// leaving string literals, optional chaining (?.), lambda accessors (#.)
// and numeric literals untouched.
func FormatExpression(e string) string {
	result := []rune(e)
	inDoubleQuote := false
	inBacktick := false
	escapeNext := false

	for i, r := range result {
		if escapeNext {
			escapeNext = false
			continue
		}

		if inDoubleQuote && r == '\\' {
			escapeNext = true
			continue
		}

		if r == '"' && !inBacktick {
			inDoubleQuote = !inDoubleQuote
			continue
		}
		if r == '`' && !inDoubleQuote {
			inBacktick = !inBacktick
			continue
		}

		if inDoubleQuote || inBacktick {
			continue
		}

		if r == '.' {
			if i > 0 && (result[i-1] == '?' || result[i-1] == '#') {
				continue
			}
			if i > 0 && i < len(result)-1 && isDigit(result[i-1]) && isDigit(result[i+1]) {
				continue
			}
			result[i] = '_'
		}
	}
	return string(result)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
