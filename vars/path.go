package vars

import (
	"strconv"
	"strings"
)

// Segment is one drill-down step of a path expression: either a named key
// or a positional index. Bracket contents that are all digits become an
// index, anything else becomes a key.
type Segment struct {
	key   string
	index int
	isIdx bool
}

func KeySegment(k string) Segment   { return Segment{key: k} }
func IndexSegment(i int) Segment    { return Segment{index: i, isIdx: true} }
func (s Segment) IsIndex() bool     { return s.isIdx }
func (s Segment) IsKey() bool       { return !s.isIdx }
func (s Segment) Index() int        { return s.index }
func (s Segment) Key() string       { return s.key }

func (s Segment) String() string {
	if s.isIdx {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.key
}

// Path is a parsed variable expression. The store physically holds only the
// (Scope, BaseKey) pair; Segments are evaluated lazily at read time.
type Path struct {
	Scope    string
	BaseKey  string
	Segments []Segment
}

// BaseName returns the canonical "Scope.BaseKey" form used as the store key.
func (p Path) BaseName() string {
	return p.Scope + "." + p.BaseKey
}

// ParsePath parses expressions like:
//
//	${Task1.ResponseBody[0].key1}
//	Task1.ResponseHeader[TestHeader]
//	${Task1.ResultSet[0][Name]}
//	${Task1.ResponseXml[//root/items/item/name]}
//
// A surrounding ${...} wrapper is optional. The first two tokens must both
// be identifier-shaped keys (scope and base key); everything after them is
// the drill-down sequence.
func ParsePath(expr string) (Path, error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return Path{}, &MalformedExpressionError{Expr: expr, Reason: "empty expression"}
	}
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		s = s[2 : len(s)-1]
	}

	tokens, err := tokenize(expr, s)
	if err != nil {
		return Path{}, err
	}

	if len(tokens) < 2 || !tokens[0].IsKey() || !tokens[1].IsKey() {
		return Path{}, &MalformedExpressionError{Expr: expr, Reason: "expression must start with Scope.Key"}
	}

	return Path{
		Scope:    tokens[0].Key(),
		BaseKey:  tokens[1].Key(),
		Segments: tokens[2:],
	}, nil
}

// tokenize splits the inner expression into segments, respecting brackets.
// '.' outside brackets ends the current key; '[' opens a bracket segment
// whose content is captured verbatim until the first ']'. Nested brackets
// are not supported.
func tokenize(orig, s string) ([]Segment, error) {
	var out []Segment
	var buf strings.Builder
	inBracket := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inBracket {
			switch c {
			case '.':
				if buf.Len() > 0 {
					out = append(out, KeySegment(buf.String()))
					buf.Reset()
				}
			case '[':
				if buf.Len() > 0 {
					out = append(out, KeySegment(buf.String()))
					buf.Reset()
				}
				inBracket = true
			default:
				buf.WriteByte(c)
			}
		} else {
			if c == ']' {
				out = append(out, classifyBracket(buf.String()))
				buf.Reset()
				inBracket = false
			} else {
				buf.WriteByte(c)
			}
		}
	}

	if inBracket {
		return nil, &MalformedExpressionError{Expr: orig, Reason: "unterminated bracket"}
	}
	if buf.Len() > 0 {
		out = append(out, KeySegment(buf.String()))
	}
	return out, nil
}

// classifyBracket turns trimmed bracket content into an index segment when it
// is all ASCII digits, otherwise a key segment. This is what distinguishes
// [0] from [Name] and from raw XPath like [//root/items/item/name].
func classifyBracket(raw string) Segment {
	t := strings.TrimSpace(raw)
	if n, ok := parseDigits(t); ok {
		return IndexSegment(n)
	}
	return KeySegment(t)
}

func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
