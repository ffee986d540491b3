package runtime

import "github.com/saranshbhandari/TaskManagerUtil/conditions"

// Workflow is an ordered list of task specs executed against one store.
type Workflow struct {
	ID         string         `yaml:"id"`
	Properties map[string]any `yaml:"properties"`
	Tasks      []TaskSpec     `yaml:"tasks"`
}

// TaskSpec describes one task instance. Scope is the namespace its outputs
// are published under ("Task1" by convention); Condition, when present,
// gates execution.
type TaskSpec struct {
	Scope     string               `yaml:"scope"`
	Type      string               `yaml:"type"`
	Condition *conditions.Settings `yaml:"condition,omitempty"`
	Settings  map[string]any       `yaml:"settings"`
}
