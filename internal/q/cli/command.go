// Package cli is a small command-tree framework: commands with typed flags, positional-arg validation, generated help, and exit codes.
package cli

// RunFunc is a command handler.
type RunFunc func(c *Context) error

// ArgsFunc validates positional args. It should return a UsageError for user-facing usage mistakes.
type ArgsFunc func(args []string) error

// Command defines one CLI command in a command tree.
type Command struct {
	// Name is the token used to invoke this command (e.g. "list" in "docstub list").
	Name string

	// Aliases are additional tokens that invoke this command.
	Aliases []string

	Short   string
	Long    string
	Example string

	// ArgsUsage describes positional args in the usage line (ex: "<path>..."). If empty and Run is set, "[args]" is shown.
	ArgsUsage string

	Args ArgsFunc // optional
	Run  RunFunc  // optional

	parent          *Command
	children        []*Command
	localFlags      *FlagSet
	persistentFlags *FlagSet
}

// AddCommand adds child commands under c.
func (c *Command) AddCommand(children ...*Command) {
	for _, child := range children {
		if child == nil {
			panic("cli: AddCommand called with nil child")
		}
		if child.parent != nil {
			panic("cli: AddCommand called with a child already attached to a parent")
		}
		if child.Name == "" {
			panic("cli: AddCommand called with a child with empty Name")
		}
		c.children = append(c.children, child)
		child.parent = c
	}
}

// Commands returns the direct children of c.
func (c *Command) Commands() []*Command {
	return append([]*Command(nil), c.children...)
}

// Flags returns c's local flags.
func (c *Command) Flags() *FlagSet {
	if c.localFlags == nil {
		c.localFlags = newFlagSet()
	}
	return c.localFlags
}

// PersistentFlags returns flags inherited by c and its descendants.
func (c *Command) PersistentFlags() *FlagSet {
	if c.persistentFlags == nil {
		c.persistentFlags = newFlagSet()
	}
	return c.persistentFlags
}

func (c *Command) childByToken(token string) *Command {
	for _, child := range c.children {
		if child.Name == token {
			return child
		}
		for _, alias := range child.Aliases {
			if alias == token {
				return child
			}
		}
	}
	return nil
}

// pathFromRoot returns the commands from the root down to c.
func (c *Command) pathFromRoot() []*Command {
	var path []*Command
	for cur := c; cur != nil; cur = cur.parent {
		path = append([]*Command{cur}, path...)
	}
	return path
}
