// Package conditions evaluates IF-task conditions against a variable store.
// A condition set is groups of comparisons joined by AND/OR, both between
// groups and within a group. Operands are variable expressions or literals;
// they are resolved through the store before comparison.
package conditions

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/saranshbhandari/TaskManagerUtil/vars"
)

// Settings is the condition configuration attached to a task. When
// Expression is set it is evaluated with expr-lang and the group machinery
// is ignored; otherwise Groups are combined with BetweenGroupsOperator.
type Settings struct {
	Expression            string  `yaml:"expression,omitempty" json:"expression,omitempty"`
	BetweenGroupsOperator string  `yaml:"betweenGroupsOperator" json:"betweenGroupsOperator"`
	Groups                []Group `yaml:"groups" json:"groups"`
}

type Group struct {
	ID            string      `yaml:"id" json:"id"`
	GroupOperator string      `yaml:"groupOperator" json:"groupOperator"`
	Conditions    []Condition `yaml:"conditions" json:"conditions"`
}

// Condition compares FirstValue against SecondValue with Operator. Supported
// operators: equals, notequal, isnull, isnotnull, isemptystring,
// isnotemptystring. Unknown operators evaluate to false.
type Condition struct {
	FirstValue  string `yaml:"firstValue" json:"firstValue"`
	Operator    string `yaml:"operator" json:"operator"`
	SecondValue string `yaml:"secondValue,omitempty" json:"secondValue,omitempty"`
}

// Evaluate resolves and evaluates the condition set. An empty set is true.
func (s *Settings) Evaluate(store *vars.Store) (bool, error) {
	if s == nil {
		return true, nil
	}
	if s.Expression != "" {
		return EvalExpression(store, s.Expression)
	}
	if len(s.Groups) == 0 {
		return true, nil
	}

	and := strings.EqualFold(s.BetweenGroupsOperator, "AND")
	result := and
	for _, g := range s.Groups {
		groupResult, err := g.evaluate(store)
		if err != nil {
			return false, err
		}
		if and {
			result = result && groupResult
		} else {
			result = result || groupResult
		}
	}
	return result, nil
}

func (g Group) evaluate(store *vars.Store) (bool, error) {
	if len(g.Conditions) == 0 {
		return true, nil
	}

	and := strings.EqualFold(g.GroupOperator, "AND")
	result := and
	for _, c := range g.Conditions {
		condResult, err := c.evaluate(store)
		if err != nil {
			return false, err
		}
		if and {
			result = result && condResult
		} else {
			result = result || condResult
		}
	}
	return result, nil
}

func (c Condition) evaluate(store *vars.Store) (bool, error) {
	left, err := resolveOperand(store, c.FirstValue)
	if err != nil {
		return false, err
	}
	right, err := resolveOperand(store, c.SecondValue)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(c.Operator) {
	case "equals":
		return equalsCheck(left, right), nil
	case "notequal":
		return !equalsCheck(left, right), nil
	case "isnull":
		return left == nil, nil
	case "isnotnull":
		return left != nil, nil
	case "isemptystring":
		return left == nil || vars.Stringify(left) == "", nil
	case "isnotemptystring":
		return left != nil && vars.Stringify(left) != "", nil
	default:
		return false, nil
	}
}

// singlePlaceholder matches operands that are exactly one ${...} reference.
var singlePlaceholder = regexp.MustCompile(`^\$\{[^{}]+\}$`)

// resolveOperand turns a raw operand into a comparable value. An operand
// that is exactly one placeholder resolves to the typed value (nil when the
// variable is absent, which is what isnull checks); anything else is
// interpolated to a string.
func resolveOperand(store *vars.Store, raw string) (any, error) {
	t := strings.TrimSpace(raw)
	if t == "" {
		return nil, nil
	}
	if singlePlaceholder.MatchString(t) {
		return store.GetValue(t)
	}
	return store.ResolveVariables(raw)
}

// equalsCheck compares numerically when both sides parse as numbers,
// otherwise by textual equality.
func equalsCheck(left, right any) bool {
	if left == nil && right == nil {
		return true
	}
	if left == nil || right == nil {
		return false
	}
	ls, rs := vars.Stringify(left), vars.Stringify(right)
	lf, lerr := strconv.ParseFloat(ls, 64)
	rf, rerr := strconv.ParseFloat(rs, 64)
	if lerr == nil && rerr == nil {
		return lf == rf
	}
	return ls == rs
}
