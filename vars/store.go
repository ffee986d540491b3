package vars

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

// MissingVariablePolicy controls what happens when an interpolation
// placeholder references a base variable that is absent from the store.
type MissingVariablePolicy int

const (
	// KeepAsIs leaves the unresolved "${...}" text unchanged.
	KeepAsIs MissingVariablePolicy = iota
	// ReplaceWithEmpty substitutes the empty string.
	ReplaceWithEmpty
	// ThrowError aborts the whole interpolation with a *VariableNotFoundError.
	ThrowError
)

func (p MissingVariablePolicy) String() string {
	switch p {
	case KeepAsIs:
		return "keep_as_is"
	case ReplaceWithEmpty:
		return "replace_with_empty"
	case ThrowError:
		return "throw_error"
	default:
		return "unknown"
	}
}

// placeholderPattern matches ${...} occurrences. Braces are forbidden inside
// the placeholder so adjacent placeholders stay unambiguous.
var placeholderPattern = regexp.MustCompile(`\$\{([^{}]+)\}`)

// Store is a thread-safe variable store scoped like ${Scope.Key}. It holds
// only base variables; drill-down segments such as [0] or .key are evaluated
// lazily at read time and never persisted.
//
// Any number of readers and writers may operate concurrently; each base
// variable's value reference is swapped atomically under the lock, so a
// lookup observes either a complete prior insert or a complete removal.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
	policy MissingVariablePolicy
}

func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

func NewStoreWithPolicy(policy MissingVariablePolicy) *Store {
	return &Store{values: make(map[string]any), policy: policy}
}

// SetMissingVariablePolicy changes the policy for subsequently started
// resolutions. Resolutions already scanning their placeholders keep the
// policy they started with.
func (s *Store) SetMissingVariablePolicy(policy MissingVariablePolicy) {
	s.mu.Lock()
	s.policy = policy
	s.mu.Unlock()
}

func (s *Store) MissingVariablePolicy() MissingVariablePolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// Add stores a value under its full name, e.g. "${Task1.ResponseBody}" or
// "Task1.ResponseBody". Any drill-down segments in the name are discarded:
// the value is stored against the base variable only. Overwrites any
// existing value, last write wins.
func (s *Store) Add(name string, value any) error {
	p, err := ParsePath(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[p.BaseName()] = value
	s.mu.Unlock()
	return nil
}

// AddIn stores a value under an explicit (scope, key) pair.
func (s *Store) AddIn(scope, key string, value any) error {
	return s.Add("${"+strings.TrimSpace(scope)+"."+strings.TrimSpace(key)+"}", value)
}

// AddAll inserts a batch of variables. Each entry is applied independently:
// a malformed key skips that entry and the remaining entries are still
// applied. The joined per-entry errors are returned.
func (s *Store) AddAll(variables map[string]any) error {
	var errs []error
	for name, value := range variables {
		if err := s.Add(name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Remove deletes a base variable. Drill-down segments in the name are
// ignored, only the base variable is removed.
func (s *Store) Remove(name string) error {
	p, err := ParsePath(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.values, p.BaseName())
	s.mu.Unlock()
	return nil
}

// Clear removes all variables.
func (s *Store) Clear() {
	s.mu.Lock()
	s.values = make(map[string]any)
	s.mu.Unlock()
}

// Len reports the number of base variables currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Snapshot returns a copy of the base-variable map keyed by "Scope.BaseKey".
// The copy is detached: later inserts or removals do not affect it.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Store) lookupBase(p Path) (any, bool) {
	s.mu.RLock()
	v, ok := s.values[p.BaseName()]
	s.mu.RUnlock()
	return v, ok
}

// GetValue resolves an expression to its value, e.g.
//
//	store.GetValue("${Task1.ResponseHeader[TestHeader]}")
//	store.GetValue("Task1.ResponseBody[0].key1")
//
// A missing base variable or a drill-down step that lands nowhere both
// return nil without error; the missing-variable policy applies only to
// ResolveVariables. The only error returned is a malformed expression.
func (s *Store) GetValue(expression string) (any, error) {
	p, err := ParsePath(expression)
	if err != nil {
		return nil, err
	}
	base, ok := s.lookupBase(p)
	if !ok {
		return nil, nil
	}
	return drill(base, p.Segments), nil
}

// ResolveVariables interpolates all ${...} placeholders in the input using
// the configured missing-variable policy. Placeholders are substituted
// left to right in a single pass; under ThrowError the first absent base
// variable aborts the whole call and no partial output is returned.
//
// A base variable that exists but whose drill-down resolves to nothing is
// not a missing variable: it is substituted with the empty string under
// every policy.
func (s *Store) ResolveVariables(input string) (string, error) {
	if input == "" {
		return input, nil
	}

	policy := s.MissingVariablePolicy()

	matches := placeholderPattern.FindAllStringSubmatchIndex(input, -1)
	if len(matches) == 0 {
		return input, nil
	}

	var b []byte
	last := 0
	for _, m := range matches {
		b = append(b, input[last:m[0]]...)
		last = m[1]

		full := input[m[0]:m[1]]
		inner := input[m[2]:m[3]]

		p, err := ParsePath(inner)
		if err != nil {
			return "", err
		}

		base, ok := s.lookupBase(p)
		if !ok {
			switch policy {
			case ThrowError:
				return "", &VariableNotFoundError{Variable: p.BaseName()}
			case ReplaceWithEmpty:
				continue
			default:
				b = append(b, full...)
				continue
			}
		}

		b = append(b, Stringify(drill(base, p.Segments))...)
	}
	b = append(b, input[last:]...)
	return string(b), nil
}
