package runtime

// Task is one unit of work in a workflow: a stored-procedure call, an HTTP
// request, a file read. Execute receives the execution and the task's raw
// settings, performs its work, and returns output values to be published
// into the variable store under the task's scope.
type Task interface {
	Execute(e *Execution, settings map[string]any) (map[string]any, error)
}
