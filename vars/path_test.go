package vars

import (
	"errors"
	"testing"
)

func TestParsePath_Basic(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		scope    string
		baseKey  string
		segments []Segment
	}{
		{
			name:    "bare scope and key",
			expr:    "Task1.ResponseBody",
			scope:   "Task1",
			baseKey: "ResponseBody",
		},
		{
			name:    "wrapped scope and key",
			expr:    "${Task1.ResponseBody}",
			scope:   "Task1",
			baseKey: "ResponseBody",
		},
		{
			name:     "index then dotted key",
			expr:     "${Task1.ResponseBody[0].key1}",
			scope:    "Task1",
			baseKey:  "ResponseBody",
			segments: []Segment{IndexSegment(0), KeySegment("key1")},
		},
		{
			name:     "bracket key",
			expr:     "Task1.ResponseHeader[TestHeader]",
			scope:    "Task1",
			baseKey:  "ResponseHeader",
			segments: []Segment{KeySegment("TestHeader")},
		},
		{
			name:     "adjacent brackets",
			expr:     "${Task1.ResultSet[0][Name]}",
			scope:    "Task1",
			baseKey:  "ResultSet",
			segments: []Segment{IndexSegment(0), KeySegment("Name")},
		},
		{
			name:     "xpath bracket content",
			expr:     "${Task1.ResponseXml[//root/items/item/name]}",
			scope:    "Task1",
			baseKey:  "ResponseXml",
			segments: []Segment{KeySegment("//root/items/item/name")},
		},
		{
			name:     "bracket content is trimmed",
			expr:     "Task1.ResultSet[ 2 ]",
			scope:    "Task1",
			baseKey:  "ResultSet",
			segments: []Segment{IndexSegment(2)},
		},
		{
			name:     "surrounding whitespace",
			expr:     "  Task1.ResponseBody  ",
			scope:    "Task1",
			baseKey:  "ResponseBody",
			segments: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePath(tt.expr)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Scope != tt.scope {
				t.Errorf("scope = %q, want %q", p.Scope, tt.scope)
			}
			if p.BaseKey != tt.baseKey {
				t.Errorf("baseKey = %q, want %q", p.BaseKey, tt.baseKey)
			}
			if len(p.Segments) != len(tt.segments) {
				t.Fatalf("segments = %v, want %v", p.Segments, tt.segments)
			}
			for i, seg := range p.Segments {
				if seg != tt.segments[i] {
					t.Errorf("segment %d = %v, want %v", i, seg, tt.segments[i])
				}
			}
		})
	}
}

func TestParsePath_Malformed(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: ""},
		{name: "whitespace only", expr: "   "},
		{name: "single token", expr: "Task1"},
		{name: "wrapped single token", expr: "${Task1}"},
		{name: "index as first token", expr: "[0].ResponseBody"},
		{name: "index as second token", expr: "Task1[0]"},
		{name: "unterminated bracket", expr: "Task1.ResponseBody[0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.expr)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var malformed *MalformedExpressionError
			if !errors.As(err, &malformed) {
				t.Errorf("error type = %T, want *MalformedExpressionError", err)
			}
		})
	}
}

func TestParsePath_NonDigitBracketIsKey(t *testing.T) {
	p, err := ParsePath("Task1.Data[1a]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Segments) != 1 || !p.Segments[0].IsKey() || p.Segments[0].Key() != "1a" {
		t.Errorf("segments = %v, want key segment 1a", p.Segments)
	}
}

func TestPath_BaseName(t *testing.T) {
	p, err := ParsePath("${Task1.ResponseBody[0].key1}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BaseName() != "Task1.ResponseBody" {
		t.Errorf("BaseName() = %q, want Task1.ResponseBody", p.BaseName())
	}
}
