package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/codalotl/docstub/internal/buffer"
	"github.com/codalotl/docstub/internal/detectlang"
	"github.com/codalotl/docstub/internal/docstub"
	qcli "github.com/codalotl/docstub/internal/q/cli"
	"github.com/codalotl/docstub/internal/q/uni"
)

// listNameWidth is the display width at which declaration signatures are truncated by `docstub list`.
const listNameWidth = 40

type configState struct {
	once sync.Once
	cfg  Config
	err  error
}

func (s *configState) get(explicitPath string) (Config, error) {
	s.once.Do(func() {
		s.cfg, s.err = loadConfig(explicitPath)
	})
	return s.cfg, s.err
}

// globalFlags are the root's persistent flags. They override configuration values when given.
type globalFlags struct {
	set *qcli.FlagSet

	config  *string
	lang    *string
	color   *string
	context *int
	exclude *[]string
}

func newRootCommand() *qcli.Command {
	cfgState := &configState{}

	root := &qcli.Command{
		Name:      "docstub",
		Short:     "Insert doc comment templates above undocumented Python and JavaScript declarations.",
		ArgsUsage: "<path>...",
		Long: strings.Join([]string{
			"Each path is a file or a directory (walked recursively). Python files get triple-quoted",
			"docstrings with :param and :return: lines; JavaScript and TypeScript files get /** */ blocks",
			"with @param and @returns tags. Declarations that already have a doc comment are left alone.",
		}, "\n"),
		Example: "docstub app.py\ndocstub -n src/ | less -R\ndocstub --lang py scripts/build",
		Args: func(args []string) error {
			if len(args) == 0 {
				return qcli.UsageError{Message: "no file to process"}
			}
			return nil
		},
	}

	pf := root.PersistentFlags()
	gf := &globalFlags{
		set:     pf,
		config:  pf.String("config", 0, "", "Load this YAML config file on top of the user and project config."),
		lang:    pf.String("lang", 0, "", "Process named files as this language (py, js, ts, md) instead of detecting it from the extension."),
		color:   pf.String("color", 0, "", "Color diffs: auto, always or never (overrides config color)."),
		context: pf.Int("context", 0, 0, "Lines of context in diffs (overrides config context)."),
		exclude: pf.Strings("exclude", 'x', nil, "Skip paths ending with this when walking directories (repeatable; added to config exclude)."),
	}

	withConfig := func(next func(c *qcli.Context, cfg Config) error) qcli.RunFunc {
		return func(c *qcli.Context) error {
			cfg, err := cfgState.get(*gf.config)
			if err != nil {
				return qcli.ExitError{Code: 1, Err: err}
			}
			cfg, err = gf.apply(cfg)
			if err != nil {
				return err
			}
			return next(c, cfg)
		}
	}

	dryRun := root.Flags().Bool("dry-run", 'n', false, "Print a unified diff of the changes instead of writing files.")
	root.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		return runGenerate(c, cfg, gf, *dryRun)
	})

	listCmd := &qcli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Short:     "List recognized declarations and whether they are documented.",
		ArgsUsage: "<path>...",
		Args:      qcli.MinimumArgs(1),
	}
	listMissing := listCmd.Flags().Bool("missing", 0, false, "Only list declarations without a doc comment.")
	listCheck := listCmd.Flags().Bool("check", 0, false, "Exit with status 1 if any declaration is missing a doc comment.")
	listCmd.Run = withConfig(func(c *qcli.Context, cfg Config) error {
		return runList(c, cfg, gf, *listMissing, *listCheck)
	})

	configCmd := &qcli.Command{
		Name:  "config",
		Short: "Print the effective configuration as YAML.",
		Args:  qcli.NoArgs,
		Run: withConfig(func(c *qcli.Context, cfg Config) error {
			return writeConfigYAML(c.Out, cfg)
		}),
	}

	versionCmd := &qcli.Command{
		Name:  "version",
		Short: "Print docstub version.",
		Args:  qcli.NoArgs,
		Run: func(c *qcli.Context) error {
			_, err := fmt.Fprintln(c.Out, Version)
			return err
		},
	}

	root.AddCommand(listCmd, configCmd, versionCmd)
	return root
}

// apply overrides cfg with flags given on the command line and revalidates it.
func (gf *globalFlags) apply(cfg Config) (Config, error) {
	if gf.set.Changed("color") {
		cfg.Color = strings.ToLower(strings.TrimSpace(*gf.color))
		if err := validateConfig(cfg); err != nil {
			return cfg, qcli.Usagef("invalid value for --color: %q", *gf.color)
		}
	}
	if gf.set.Changed("context") {
		if *gf.context < 0 {
			return cfg, qcli.Usagef("invalid value for --context: must be >= 0")
		}
		cfg.Context = *gf.context
	}
	if len(*gf.exclude) > 0 {
		cfg.Exclude = append(append([]string(nil), cfg.Exclude...), *gf.exclude...)
	}
	return cfg, nil
}

// forcedLang returns the --lang value, or LangUnknown if it was not given.
func (gf *globalFlags) forcedLang() (detectlang.Lang, error) {
	if strings.TrimSpace(*gf.lang) == "" {
		return detectlang.LangUnknown, nil
	}
	lang, err := detectlang.ParseLang(*gf.lang)
	if err != nil {
		return detectlang.LangUnknown, qcli.Usagef("invalid value for --lang: %q", *gf.lang)
	}
	return lang, nil
}

func runGenerate(c *qcli.Context, cfg Config, gf *globalFlags, dryRun bool) error {
	forced, err := gf.forcedLang()
	if err != nil {
		return err
	}

	targets, errs := collectTargets(c.Args, cfg, forced)
	failed := len(errs)
	for _, err := range errs {
		fmt.Fprintln(c.Err, err)
	}
	if len(targets) == 0 && failed == 0 {
		return qcli.UsageError{Message: "no file to process"}
	}

	opts := processOptions{dryRun: dryRun, color: cfg.useColor(c.Out), context: cfg.Context, diffOut: c.Out}

	// With --dry-run stdout carries only diffs.
	summaryOut := c.Out
	if dryRun {
		summaryOut = c.Err
	}

	for _, t := range targets {
		res, err := processFile(c.Context, t, opts)
		if err != nil {
			if ctxErr := c.Context.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return qcli.ExitError{Code: 1, Err: fmt.Errorf("%s: %w", t.path, err)}
			}
			fmt.Fprintf(c.Err, "%s: %v\n", t.path, err)
			failed++
			continue
		}
		fmt.Fprintln(summaryOut, summary(t.path, res, dryRun))
		for _, f := range res.Failed {
			fmt.Fprintf(c.Err, "%s: %v\n", t.path, f)
		}
		if len(res.Failed) > 0 {
			failed++
		}
	}

	if failed > 0 {
		return qcli.ExitError{Code: 1, Err: fmt.Errorf("docstub: %d path(s) had errors", failed)}
	}
	return nil
}

func runList(c *qcli.Context, cfg Config, gf *globalFlags, onlyMissing, check bool) error {
	forced, err := gf.forcedLang()
	if err != nil {
		return err
	}

	targets, errs := collectTargets(c.Args, cfg, forced)
	failed := len(errs)
	for _, err := range errs {
		fmt.Fprintln(c.Err, err)
	}

	var rows [][]string
	missing := 0
	for _, t := range targets {
		candidates, err := planFile(t)
		if err != nil {
			fmt.Fprintf(c.Err, "%s: %v\n", t.path, err)
			failed++
			continue
		}
		for _, cand := range candidates {
			status := "documented"
			if !cand.Documented {
				status = "missing"
				missing++
			} else if onlyMissing {
				continue
			}
			rows = append(rows, []string{
				fmt.Sprintf("%s:%d", filepath.ToSlash(t.path), cand.Line+1),
				cand.Decl.Kind.String(),
				uni.Truncate(signature(cand.Decl), listNameWidth, "…"),
				status,
			})
		}
	}
	if err := writeTable(c.Out, rows); err != nil {
		return err
	}

	switch {
	case failed > 0:
		return qcli.ExitError{Code: 1, Err: fmt.Errorf("docstub: %d path(s) had errors", failed)}
	case check && missing > 0:
		return qcli.ExitError{Code: 1, Err: fmt.Errorf("docstub: %d declaration(s) missing a doc comment", missing)}
	}
	return nil
}

// planFile loads t and plans it without editing.
func planFile(t target) ([]docstub.Candidate, error) {
	buf, err := buffer.Load(t.path)
	if err != nil {
		return nil, err
	}
	regions, err := regionsFor(buf, t.lang)
	if err != nil {
		return nil, err
	}
	return docstub.Plan(buf, regions...)
}

// signature renders d as "name(p1, p2)" for functions and "name" for classes.
func signature(d docstub.Declaration) string {
	if d.Kind == docstub.KindClass {
		return d.Name
	}
	return d.Name + "(" + strings.Join(d.Parameters, ", ") + ")"
}

// writeTable writes rows with columns separated by two spaces and padded to the widest cell by display width. The last column is not padded.
func writeTable(w io.Writer, rows [][]string) error {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], uni.TextWidth(cell))
		}
	}
	for _, row := range rows {
		var b strings.Builder
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(row)-1 {
				b.WriteString(cell)
			} else {
				b.WriteString(uni.PadRight(cell, widths[i]))
			}
		}
		b.WriteString("\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}
