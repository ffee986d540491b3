package vars

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/Jeffail/gabs/v2"
	"github.com/antchfx/xmlquery"
)

// xmlDocumentMarker is substituted for XML documents during interpolation;
// a DOM tree has no meaningful inline text form.
const xmlDocumentMarker = "[XML Document]"

// Stringify converts a resolved value to its textual form for
// interpolation. Nil becomes the empty string, structured values become
// compact JSON, XML documents become an opaque marker, and scalars use
// their natural representation.
func Stringify(value any) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case *gabs.Container:
		if v == nil || v.Data() == nil {
			return ""
		}
		return v.String()
	case *xmlquery.Node:
		return xmlDocumentMarker
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		if b, err := json.Marshal(value); err == nil {
			return string(b)
		}
	}

	return fmt.Sprintf("%v", value)
}
