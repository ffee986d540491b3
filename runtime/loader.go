package runtime

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadWorkflow reads a workflow definition from a YAML file.
func LoadWorkflow(path string) (*Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workflow %s: %w", path, err)
	}

	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing workflow %s: %w", path, err)
	}

	for i, spec := range w.Tasks {
		if spec.Scope == "" {
			return nil, fmt.Errorf("workflow %s: task %d has no scope", path, i)
		}
		if spec.Type == "" {
			return nil, fmt.Errorf("workflow %s: task %s has no type", path, spec.Scope)
		}
	}

	return &w, nil
}
