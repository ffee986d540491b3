package runtime

import "github.com/saranshbhandari/TaskManagerUtil/vars"

// ToStringValueMap flattens a map of variables to their textual forms for
// string-only consumers, using the same stringification interpolation uses:
// structured values render as compact JSON, nil as the empty string.
func ToStringValueMap(m map[string]any) map[string]string {
	result := make(map[string]string, len(m))
	for key, value := range m {
		result[key] = vars.Stringify(value)
	}
	return result
}
