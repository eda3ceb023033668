package model

// Container is a Docker container the profiler can attach to
type Container struct {
	ID     string
	Name   string
	Image  string
	State  string
	Status string
}

// Running reports whether the container is running
func (c Container) Running() bool {
	return c.State == "running"
}

// Label is the text shown in the container picker
func (c Container) Label() string {
	return c.Name + " (" + c.Image + ")"
}
