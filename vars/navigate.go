package vars

import (
	"reflect"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/antchfx/xmlquery"
)

// drill walks a base value through the drill-down segments, dispatching on
// the runtime shape of the current value at every step. Heterogeneous
// nesting (JSON containing a list containing a map) is expected, so the
// shape check is fresh per step.
//
// Navigation failures — wrong-shape access, out-of-range index, absent
// member, XPath error — are not faults: they resolve to nil and stop the
// walk. drill never returns an error.
func drill(base any, segments []Segment) any {
	current := base
	for _, seg := range segments {
		if current == nil {
			return nil
		}

		switch v := current.(type) {
		case *gabs.Container:
			current = navigateJSON(v, seg)
		case map[string]any:
			current = navigateStringMap(v, seg)
		case []any:
			current = navigateSlice(v, seg)
		case *xmlquery.Node:
			// XML resolves the rest of the path in one XPath evaluation;
			// remaining segments are not consumed.
			return navigateXML(v, seg)
		default:
			current = navigateReflect(current, seg)
		}
	}
	return finalize(current)
}

// navigateJSON steps into a gabs JSON tree. Index segments address array
// elements (out of range is missing, not an error); key segments look up a
// child by exact name and fall back to a dotted-path lookup so bracket keys
// like [some.key] still resolve.
func navigateJSON(node *gabs.Container, seg Segment) any {
	if node == nil {
		return nil
	}
	if seg.IsIndex() {
		arr, ok := node.Data().([]any)
		if !ok {
			return nil
		}
		i := seg.Index()
		if i < 0 || i >= len(arr) {
			return nil
		}
		return gabs.Wrap(arr[i])
	}
	key := seg.Key()
	if child := node.Search(key); child != nil {
		return child
	}
	if strings.Contains(key, ".") {
		if child := node.Path(key); child != nil {
			return child
		}
	}
	return nil
}

func navigateStringMap(m map[string]any, seg Segment) any {
	if seg.IsIndex() {
		// maps have no positional order contract
		return nil
	}
	return m[seg.Key()]
}

func navigateSlice(list []any, seg Segment) any {
	if !seg.IsIndex() {
		return nil
	}
	i := seg.Index()
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}

// navigateReflect handles every remaining shape: typed maps and slices,
// arrays, and structured objects reachable through accessors or exported
// fields. The probe order for a key K is GetK(), IsK(), K(), then the field
// K (or its exported capitalization); the first successful probe wins. An
// index segment probes Get(i) then At(i). All failing probes yield nil.
func navigateReflect(value any, seg Segment) any {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}

	switch rv.Kind() {
	case reflect.Map:
		return reflectMapLookup(rv, seg)
	case reflect.Slice, reflect.Array:
		if !seg.IsIndex() {
			return nil
		}
		i := seg.Index()
		if i < 0 || i >= rv.Len() {
			return nil
		}
		return valueInterface(rv.Index(i))
	}

	if seg.IsIndex() {
		return probeIndexMethod(reflect.ValueOf(value), seg.Index())
	}
	return probeMember(reflect.ValueOf(value), rv, seg.Key())
}

func reflectMapLookup(rv reflect.Value, seg Segment) any {
	if seg.IsIndex() {
		return nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		return nil
	}
	v := rv.MapIndex(reflect.ValueOf(seg.Key()).Convert(rv.Type().Key()))
	if !v.IsValid() {
		return nil
	}
	return valueInterface(v)
}

// probeIndexMethod looks for a single-int-argument accessor, Get(i) or
// At(i), on the original (possibly pointer) value.
func probeIndexMethod(rv reflect.Value, index int) any {
	for _, name := range []string{"Get", "At"} {
		m := rv.MethodByName(name)
		if !m.IsValid() {
			continue
		}
		t := m.Type()
		if t.NumIn() != 1 || t.In(0).Kind() != reflect.Int || t.NumOut() < 1 {
			continue
		}
		out := m.Call([]reflect.Value{reflect.ValueOf(index)})
		return valueInterface(out[0])
	}
	return nil
}

// probeMember resolves a key segment against a structured object: accessor
// methods first, then exported fields. Method probes run against the
// original value so pointer-receiver methods are found too.
func probeMember(orig, elem reflect.Value, key string) any {
	capKey := capitalize(key)
	for _, name := range []string{"Get" + capKey, "Is" + capKey, capKey} {
		m := orig.MethodByName(name)
		if !m.IsValid() && elem.CanAddr() {
			m = elem.Addr().MethodByName(name)
		}
		if !m.IsValid() {
			continue
		}
		t := m.Type()
		if t.NumIn() != 0 || t.NumOut() < 1 {
			continue
		}
		out := m.Call(nil)
		return valueInterface(out[0])
	}

	if elem.Kind() != reflect.Struct {
		return nil
	}
	for _, name := range []string{key, capKey} {
		f := elem.FieldByName(name)
		if f.IsValid() && f.CanInterface() {
			return valueInterface(f)
		}
	}
	return nil
}

// finalize unwraps a terminal gabs container holding a scalar leaf so
// interpolation yields the bare value (v1, not "v1"). Structured leaves
// stay wrapped and stringify to compact JSON.
func finalize(v any) any {
	c, ok := v.(*gabs.Container)
	if !ok {
		return v
	}
	if c == nil {
		return nil
	}
	switch data := c.Data().(type) {
	case map[string]any, []any:
		return c
	default:
		return data
	}
}

func valueInterface(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	i := v.Interface()
	if i == nil {
		return nil
	}
	return i
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
