// Package cli implements the docstub command line: the root command that inserts doc comment templates, plus list, config and version.
package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	qcli "github.com/codalotl/docstub/internal/q/cli"
)

// Version is the docstub version. It is a var (not a const) so build tooling can override it (for example via `-ldflags "-X .../internal/cli.Version=1.2.3"`).
var Version = "0.3.0"

// In/Out/Err override standard I/O. If nil, defaults are used. Overriding is useful for testing.
type RunOptions struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run runs the CLI with args (typically you'd use os.Args).
//
// It returns a recommended exit code (0, 1, or 2) and an error, if any:
//   - 0 -> err == nil
//   - 1 -> err != nil, but the structure of args is sound (flags are correct, etc).
//   - 2 -> err != nil, args parse error or misuse of flags, etc.
//
// Note that in cases of errors, Run has already displayed an error message to opts.Err || Stderr. Callers may use os.Exit with the exit code.
func Run(args []string, opts *RunOptions) (int, error) {
	return RunContext(context.Background(), args, opts)
}

// RunContext is Run with a caller-supplied context; canceling ctx stops processing between edits.
func RunContext(ctx context.Context, args []string, opts *RunOptions) (int, error) {
	argv := args
	if len(argv) > 0 {
		argv = argv[1:]
	}

	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	var errW io.Writer = os.Stderr
	if opts != nil {
		if opts.In != nil {
			in = opts.In
		}
		if opts.Out != nil {
			out = opts.Out
		}
		if opts.Err != nil {
			errW = opts.Err
		}
	}

	// internal/q/cli returns only an exit code, so stderr is teed to produce a non-nil error when exitCode != 0.
	var stderrBuf bytes.Buffer
	exitCode := qcli.Run(ctx, newRootCommand(), qcli.Options{
		Args: argv,
		In:   in,
		Out:  out,
		Err:  io.MultiWriter(errW, &stderrBuf),
	})
	if exitCode == 0 {
		return 0, nil
	}

	msg := strings.TrimSpace(stderrBuf.String())
	if msg == "" {
		msg = "command failed"
	}
	return exitCode, errors.New(msg)
}
