package vars

import (
	"testing"
)

func TestDrill_MapShapeLaws(t *testing.T) {
	m := map[string]any{"name": "abc", "nested": map[string]any{"inner": 42}}

	if v := drill(m, []Segment{KeySegment("name")}); v != "abc" {
		t.Errorf("key lookup got %v, want abc", v)
	}
	if v := drill(m, []Segment{KeySegment("absent")}); v != nil {
		t.Errorf("absent key got %v, want nil", v)
	}
	// index segments never apply to maps
	if v := drill(m, []Segment{IndexSegment(0)}); v != nil {
		t.Errorf("index on map got %v, want nil", v)
	}
	if v := drill(m, []Segment{KeySegment("nested"), KeySegment("inner")}); v != 42 {
		t.Errorf("nested lookup got %v, want 42", v)
	}
}

func TestDrill_ListShapeLaws(t *testing.T) {
	list := []any{"a", "b", "c"}

	if v := drill(list, []Segment{IndexSegment(1)}); v != "b" {
		t.Errorf("index got %v, want b", v)
	}
	if v := drill(list, []Segment{IndexSegment(3)}); v != nil {
		t.Errorf("out-of-range got %v, want nil", v)
	}
	if v := drill(list, []Segment{IndexSegment(-1)}); v != nil {
		t.Errorf("negative index got %v, want nil", v)
	}
	// lists have no named members
	if v := drill(list, []Segment{KeySegment("name")}); v != nil {
		t.Errorf("key on list got %v, want nil", v)
	}
}

func TestDrill_TypedSliceAndArray(t *testing.T) {
	if v := drill([]string{"x", "y"}, []Segment{IndexSegment(1)}); v != "y" {
		t.Errorf("typed slice got %v, want y", v)
	}
	if v := drill([2]int{10, 20}, []Segment{IndexSegment(0)}); v != 10 {
		t.Errorf("array got %v, want 10", v)
	}
	if v := drill([]string{"x"}, []Segment{IndexSegment(5)}); v != nil {
		t.Errorf("typed slice out-of-range got %v, want nil", v)
	}
}

func TestDrill_TypedMap(t *testing.T) {
	m := map[string]string{"TestHeader": "ABC123"}
	if v := drill(m, []Segment{KeySegment("TestHeader")}); v != "ABC123" {
		t.Errorf("got %v, want ABC123", v)
	}
	if v := drill(m, []Segment{KeySegment("Other")}); v != nil {
		t.Errorf("absent got %v, want nil", v)
	}
}

func TestDrill_HeterogeneousNesting(t *testing.T) {
	body, err := ParseJSON(`{"rows":[{"cells":["first","second"]}]}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	value := map[string]any{"payload": body}

	segs := []Segment{
		KeySegment("payload"),
		KeySegment("rows"),
		IndexSegment(0),
		KeySegment("cells"),
		IndexSegment(1),
	}
	if v := drill(value, segs); v != "second" {
		t.Errorf("got %v, want second", v)
	}
}

type responseObject struct {
	Status  string
	Private string
	flag    bool
}

func (r responseObject) GetCode() int  { return 201 }
func (r responseObject) IsReady() bool { return true }
func (r responseObject) Label() string { return "lbl" }

type indexedObject struct{ items []string }

func (o indexedObject) Get(i int) string {
	if i < 0 || i >= len(o.items) {
		return ""
	}
	return o.items[i]
}

func TestDrill_StructuredObjectProbes(t *testing.T) {
	obj := responseObject{Status: "OK", Private: "p", flag: true}

	tests := []struct {
		name     string
		segment  Segment
		expected any
	}{
		{name: "getter method", segment: KeySegment("code"), expected: 201},
		{name: "is method", segment: KeySegment("ready"), expected: true},
		{name: "plain accessor", segment: KeySegment("label"), expected: "lbl"},
		{name: "exported field", segment: KeySegment("status"), expected: "OK"},
		{name: "exact field name", segment: KeySegment("Status"), expected: "OK"},
		{name: "unexported field is unreachable", segment: KeySegment("flag"), expected: nil},
		{name: "no such member", segment: KeySegment("missing"), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v := drill(obj, []Segment{tt.segment}); v != tt.expected {
				t.Errorf("got %v, want %v", v, tt.expected)
			}
		})
	}

	// pointer to struct works the same way
	if v := drill(&obj, []Segment{KeySegment("status")}); v != "OK" {
		t.Errorf("pointer got %v, want OK", v)
	}
}

func TestDrill_StructuredObjectIndexProbe(t *testing.T) {
	obj := indexedObject{items: []string{"a", "b"}}

	if v := drill(obj, []Segment{IndexSegment(1)}); v != "b" {
		t.Errorf("Get(i) probe got %v, want b", v)
	}
	// objects without an int accessor yield nil
	if v := drill(responseObject{}, []Segment{IndexSegment(0)}); v != nil {
		t.Errorf("no index accessor got %v, want nil", v)
	}
}

func TestDrill_NilStopsWalk(t *testing.T) {
	m := map[string]any{"a": nil}
	segs := []Segment{KeySegment("a"), KeySegment("b"), IndexSegment(3)}
	if v := drill(m, segs); v != nil {
		t.Errorf("got %v, want nil", v)
	}
	if v := drill(nil, segs); v != nil {
		t.Errorf("nil base got %v, want nil", v)
	}
}

func TestDrill_ScalarWithRemainingSegments(t *testing.T) {
	if v := drill("scalar", []Segment{KeySegment("anything")}); v != nil {
		t.Errorf("got %v, want nil", v)
	}
	if v := drill(12.5, []Segment{IndexSegment(0)}); v != nil {
		t.Errorf("got %v, want nil", v)
	}
}

func TestDrill_XMLStopsConsumingSegments(t *testing.T) {
	doc, err := ParseXML("<root><items><item><name>A</name></item><item><name>B</name></item></items></root>")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// trailing segments after the XPath are ignored
	segs := []Segment{KeySegment("//root/items/item/name"), KeySegment("ignored")}
	v := drill(doc, segs)
	list, ok := v.([]string)
	if !ok || len(list) != 2 {
		t.Fatalf("got %v (%T), want two names", v, v)
	}

	// plain tag name becomes a wildcard descendant search
	one := drill(doc, []Segment{KeySegment("name")})
	if l, ok := one.([]string); !ok || len(l) != 2 {
		t.Errorf("tag search got %v, want both names", one)
	}

	// single match collapses to its text content
	single, _ := ParseXML("<root><name>only</name></root>")
	if v := drill(single, []Segment{KeySegment("name")}); v != "only" {
		t.Errorf("single match got %v, want only", v)
	}

	// malformed xpath is swallowed
	if v := drill(doc, []Segment{KeySegment("//root[")}); v != nil {
		t.Errorf("bad xpath got %v, want nil", v)
	}

	// index segments are not meaningful on a document
	if v := drill(doc, []Segment{IndexSegment(0)}); v != nil {
		t.Errorf("index on xml got %v, want nil", v)
	}
}

func TestDrill_JSONKeyFallbackPath(t *testing.T) {
	body, err := ParseJSON(`{"a":{"b":"deep"},"plain":"top"}`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	// bracket key containing dots falls back to a path lookup
	if v := drill(body, []Segment{KeySegment("a.b")}); v != "deep" {
		t.Errorf("dotted bracket key got %v, want deep", v)
	}
	if v := drill(body, []Segment{KeySegment("plain")}); v != "top" {
		t.Errorf("got %v, want top", v)
	}
	if v := drill(body, []Segment{KeySegment("nope")}); v != nil {
		t.Errorf("absent got %v, want nil", v)
	}
}
