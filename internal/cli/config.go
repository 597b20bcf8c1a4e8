package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/codalotl/docstub/internal/detectlang"
	"github.com/codalotl/docstub/internal/q/cascade"
)

const (
	projectConfigName = ".docstub.yaml"

	envColor   = "DOCSTUB_COLOR"
	envContext = "DOCSTUB_CONTEXT"
)

// Config is docstub's configuration loaded from a cascade of sources: defaults, ~/.docstub/config.yaml, the nearest .docstub.yaml, an explicit --config file, and
// finally the environment. Command-line flags are applied on top by the commands.
type Config struct {
	// Exclude lists path suffixes skipped while walking directories (ex: "node_modules", "vendor", ".venv").
	Exclude []string `yaml:"exclude"`

	// Extensions adds extension to language mappings (ex: ".pyw: py").
	Extensions map[string]string `yaml:"extensions,omitempty"`

	// Color controls diff coloring: "auto", "always" or "never".
	Color           string             `yaml:"color"`
	ColorProvidence cascade.Providence `yaml:"-"`

	// Context is the number of unchanged lines shown around each change in a diff.
	Context           int                `yaml:"context"`
	ContextProvidence cascade.Providence `yaml:"-"`

	// Markdown enables processing of fenced code blocks in Markdown files.
	Markdown bool `yaml:"markdown"`
}

func defaultConfig() map[string]any {
	return map[string]any{
		"exclude":  []string{".git", "node_modules", "__pycache__", ".venv"},
		"color":    "auto",
		"context":  3,
		"markdown": true,
	}
}

// loadConfig loads the configuration. explicitPath, if non-empty, names a YAML file that must exist; it takes precedence over the other files.
func loadConfig(explicitPath string) (Config, error) {
	loader := cascade.New().
		WithDefaults(defaultConfig()).
		WithYAMLFile(cascade.InUserConfigDirectory(filepath.Join(".docstub", "config.yaml"))).
		WithNearestYAMLFile(projectConfigName, "")

	if explicitPath != "" {
		if _, err := os.Stat(cascade.ExpandPath(explicitPath)); err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		loader = loader.WithYAMLFile(explicitPath)
	}

	loader = loader.WithEnv(map[string]string{
		"color":   envColor,
		"context": envContext,
	})

	var cfg Config
	if err := loader.StrictlyLoad(&cfg); err != nil {
		return Config{}, fmt.Errorf("load configuration: %w", err)
	}
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid configuration: color must be auto, always or never (got %q from %s)", cfg.Color, cfg.ColorProvidence)
	}
	if cfg.Context < 0 {
		return fmt.Errorf("invalid configuration: context must be >= 0 (got %d from %s)", cfg.Context, cfg.ContextProvidence)
	}
	for ext, lang := range cfg.Extensions {
		if detectlang.NormalizeExt(ext) == "" {
			return fmt.Errorf("invalid configuration: extensions: empty extension")
		}
		if _, err := detectlang.ParseLang(lang); err != nil {
			return fmt.Errorf("invalid configuration: extensions: %s: %w", ext, err)
		}
	}
	return nil
}

// extraLangs converts Extensions to the form detectlang.ForPath takes. validateConfig has already checked every value.
func (cfg Config) extraLangs() map[string]detectlang.Lang {
	if len(cfg.Extensions) == 0 {
		return nil
	}
	out := make(map[string]detectlang.Lang, len(cfg.Extensions))
	for ext, name := range cfg.Extensions {
		lang, err := detectlang.ParseLang(name)
		if err != nil {
			continue
		}
		out[ext] = lang
	}
	return out
}

// useColor resolves Color against w: "auto" colors only when w is a terminal.
func (cfg Config) useColor(w io.Writer) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func writeConfigYAML(w io.Writer, cfg Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
