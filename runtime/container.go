package runtime

// Container holds the registered task implementations by type name
// (e.g. "http", "storedproc", "filereader").
type Container struct {
	tasks map[string]Task
}

func NewContainer() *Container {
	return &Container{tasks: make(map[string]Task)}
}

func (c *Container) SetTask(name string, task Task) {
	c.tasks[name] = task
}

func (c *Container) GetTask(name string) Task {
	return c.tasks[name]
}
