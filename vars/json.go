package vars

import "github.com/Jeffail/gabs/v2"

// ParseJSON parses a JSON string into a navigable tree suitable for
// storing. The returned container supports both object-key and array-index
// drill-down.
func ParseJSON(json string) (*gabs.Container, error) {
	return gabs.ParseJSON([]byte(json))
}
