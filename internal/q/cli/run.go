package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type Options struct {
	// Args is the argv excluding the program name (typically os.Args[1:]).
	Args []string

	// In/Out/Err override standard I/O. If nil, the process's standard streams are used.
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Context is passed to a command handler.
//
// Positional args are in Args. Flag values are read via variables bound at command construction time (e.g. fs.Bool(...)).
type Context struct {
	context.Context

	Command *Command
	Args    []string

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes a command tree as a CLI program and returns a process exit code:
//   - 0 on success or when help was requested with -h/--help.
//   - 2 for usage errors, which are printed followed by the command's help.
//   - the ExitCode of an ExitCoder returned by the handler.
//   - 1 for any other handler error.
func Run(ctx context.Context, root *Command, opts Options) int {
	if root == nil {
		panic("cli: Run called with nil root")
	}
	if root.Name == "" {
		panic("cli: Run called with root.Name empty")
	}

	in, out, errOut := opts.In, opts.Out, opts.Err
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	selected, args, err := parseArgv(root, opts.Args)
	if errors.Is(err, errHelpRequested) {
		writeHelp(out, selected)
		return 0
	}
	if err != nil {
		printUsageError(selected, err, errOut)
		return 2
	}

	if selected.Run == nil {
		if len(args) == 0 {
			printUsageError(selected, Usagef("missing required subcommand"), errOut)
		} else {
			printUsageError(selected, Usagef("unknown subcommand: %s", args[0]), errOut)
		}
		return 2
	}

	if selected.Args != nil {
		if err := selected.Args(args); err != nil {
			return exitCodeFor(selected, err, errOut, 2)
		}
	}

	c := &Context{
		Context: ctx,
		Command: selected,
		Args:    args,
		In:      in,
		Out:     out,
		Err:     errOut,
	}
	if err := selected.Run(c); err != nil {
		return exitCodeFor(selected, err, errOut, 1)
	}
	return 0
}

var errHelpRequested = errors.New("help requested")

// parseArgv selects the command named by leading non-flag tokens and parses flags anywhere in argv. Tokens after "--" are positional.
func parseArgv(root *Command, argv []string) (*Command, []string, error) {
	selected := root
	selecting := true
	var positional []string

	for i := 0; i < len(argv); i++ {
		token := argv[i]

		if token == "--" {
			positional = append(positional, argv[i+1:]...)
			break
		}
		if token == "-h" || token == "--help" {
			return selected, nil, errHelpRequested
		}

		if strings.HasPrefix(token, "-") && token != "-" {
			var next *string
			if i+1 < len(argv) {
				next = &argv[i+1]
			}
			consumed, err := parseFlagToken(selected.activeFlags(), token, next)
			if err != nil {
				return selected, nil, err
			}
			if consumed {
				i++
			}
			continue
		}

		if selecting {
			if child := selected.childByToken(token); child != nil {
				selected = child
				continue
			}
			selecting = false
		}
		positional = append(positional, token)
	}
	return selected, positional, nil
}

// parseFlagToken handles --name, --name=value, -n, -n=value, and -name (a single-dash long flag).
func parseFlagToken(active activeFlags, token string, next *string) (bool, error) {
	body := strings.TrimPrefix(token, "-")
	long := strings.HasPrefix(body, "-")
	body = strings.TrimPrefix(body, "-")

	name, value, hasValue := strings.Cut(body, "=")
	var valuePtr *string
	if hasValue {
		valuePtr = &value
	}

	var def *flagDef
	if !long && len([]rune(name)) == 1 {
		def = active.byShort[[]rune(name)[0]]
	} else if name != "" {
		def = active.byLong[name]
	}
	return active.set(token, def, valuePtr, next)
}

func exitCodeFor(cmd *Command, err error, errOut io.Writer, fallback int) int {
	code := fallback
	var ec ExitCoder
	if errors.As(err, &ec) {
		code = ec.ExitCode()
	}
	switch {
	case code == 0:
		return 0
	case code == 2:
		printUsageError(cmd, err, errOut)
	default:
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(errOut, msg)
		}
	}
	return code
}

func printUsageError(cmd *Command, err error, errOut io.Writer) {
	msg := err.Error()
	var ue UsageError
	if errors.As(err, &ue) {
		msg = ue.Message
	}
	if msg != "" {
		fmt.Fprintln(errOut, msg)
		fmt.Fprintln(errOut)
	}
	writeHelp(errOut, cmd)
}
