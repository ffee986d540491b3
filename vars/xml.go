package vars

import (
	"strings"

	"github.com/antchfx/xmlquery"
)

// ParseXML parses an XML string into a document node suitable for storing.
func ParseXML(xml string) (*xmlquery.Node, error) {
	return xmlquery.Parse(strings.NewReader(xml))
}

// navigateXML resolves a segment against an XML document.
//
// When the segment's key looks like an XPath expression (starts with /, //
// or .//), it is evaluated directly against the document — this is the
// escape hatch behind ${Task1.Xml[//root/items/item/name]}. A plain tag
// name falls back to a wildcard descendant search (//tagname). Index
// segments are not meaningful on a document and resolve to nil.
//
// Zero matches yield nil, exactly one match yields its text content, and
// multiple matches yield an ordered list of each match's text content.
// Evaluation errors are swallowed and treated as nil.
func navigateXML(doc *xmlquery.Node, seg Segment) any {
	if doc == nil || !seg.IsKey() {
		return nil
	}

	xpath := seg.Key()
	if !looksLikeXPath(xpath) {
		xpath = "//" + xpath
	}

	nodes, err := xmlquery.QueryAll(doc, xpath)
	if err != nil || len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		return nodes[0].InnerText()
	}

	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, n.InnerText())
	}
	return texts
}

// looksLikeXPath recognizes the /, // and .// query forms.
func looksLikeXPath(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, ".//")
}
