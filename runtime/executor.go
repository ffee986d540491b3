package runtime

import (
	"fmt"
	"log/slog"
)

// Executor runs a workflow's tasks sequentially against the execution's
// variable store. It handles condition gating and output publishing,
// delegating actual work to the registered Task implementations.
type Executor struct {
	l         *slog.Logger
	container *Container
}

func NewExecutor(l *slog.Logger, container *Container) *Executor {
	return &Executor{l: l, container: container}
}

func (x *Executor) ExecuteTasks(e *Execution, w *Workflow) error {
	for _, spec := range w.Tasks {
		if spec.Condition != nil {
			met, err := spec.Condition.Evaluate(e.Vars)
			if err != nil {
				return fmt.Errorf("evaluating condition for %s: %w", spec.Scope, err)
			}
			if !met {
				x.l.InfoContext(e, fmt.Sprintf("Skipping task: %s", spec.Scope))
				continue
			}
		}

		task := x.container.GetTask(spec.Type)
		if task == nil {
			return fmt.Errorf("unknown task type %q for %s", spec.Type, spec.Scope)
		}

		x.l.InfoContext(e, fmt.Sprintf("Executing task: %s", spec.Scope), "type", spec.Type)
		outputs, err := task.Execute(e, spec.Settings)
		if err != nil {
			return fmt.Errorf("executing task %s: %w", spec.Scope, err)
		}

		for key, value := range outputs {
			if err := e.Vars.AddIn(spec.Scope, key, value); err != nil {
				return fmt.Errorf("publishing %s.%s: %w", spec.Scope, key, err)
			}
		}
	}
	return nil
}
