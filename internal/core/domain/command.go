package domain

// Command is an external process invocation.
type Command struct {
	Name string
	Args []string
	// Env holds variables added on top of the process environment.
	Env map[string]string
	Dir string
}

// Argv returns the full argument vector including the program name.
func (c *Command) Argv() []string {
	return append([]string{c.Name}, c.Args...)
}
