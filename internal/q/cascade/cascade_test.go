package cascade

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCascadeBasics(t *testing.T) {
	type Config struct {
		SpecialName string `yaml:"name"`
		Port        int
		Debug       bool
		GasRatio    float64 `cascade:"ratio"`
		Tags        []string
		Thresholds  []int
		TimeoutSecs int
	}

	path := writeFile(t, filepath.Join(t.TempDir(), "config.yaml"), `
name: fromyaml
port: 8080
debug: true
ratio: 2.5
tags: [y1, y2]
thresholds:
  - 3
  - 4
`)
	t.Setenv("ENV_NAME", "fromenv")
	t.Setenv("ENV_PORT", "9090")
	t.Setenv("ENV_DEBUG", "false")

	var cfg Config
	err := New().
		WithDefaults(map[string]any{
			"name":        "default",
			"port":        80,
			"ratio":       1.5,
			"tags":        []string{"a", "b"},
			"thresholds":  []int{1, 2},
			"timeoutsecs": 30,
		}).
		WithYAMLFile(path).
		WithEnv(map[string]string{
			"name":  "ENV_NAME",
			"port":  "ENV_PORT",
			"debug": "ENV_DEBUG",
			"ratio": "ENV_RATIO_UNSET",
		}).
		StrictlyLoad(&cfg)
	require.NoError(t, err)

	assert.Equal(t, "fromenv", cfg.SpecialName)
	assert.Equal(t, 9090, cfg.Port)
	assert.False(t, cfg.Debug)
	assert.InDelta(t, 2.5, cfg.GasRatio, 1e-9)
	assert.Equal(t, []string{"y1", "y2"}, cfg.Tags)
	assert.Equal(t, []int{3, 4}, cfg.Thresholds)
	assert.Equal(t, 30, cfg.TimeoutSecs)
}

func TestMapFieldsMergeAcrossSources(t *testing.T) {
	type Config struct {
		Extensions map[string]string
	}

	dir := t.TempDir()
	global := writeFile(t, filepath.Join(dir, "global.yaml"), "extensions:\n  .pyw: py\n  .gs: js\n")
	project := writeFile(t, filepath.Join(dir, "project.yaml"), "Extensions:\n  .gs: ts\n  .PYX: py\n")

	var cfg Config
	err := New().
		WithDefaults(map[string]any{"extensions": map[string]string{".es6": "js"}}).
		WithYAMLFile(global).
		WithYAMLFile(project).
		StrictlyLoad(&cfg)
	require.NoError(t, err)

	// Keys with dots are not treated as nesting inside files; map keys are lowercased.
	assert.Equal(t, map[string]string{".es6": "js", ".pyw": "py", ".gs": "ts", ".pyx": "py"}, cfg.Extensions)
}

func TestProvidence(t *testing.T) {
	type C struct {
		Port            int
		PortProvidence  Providence `yaml:"-"`
		Name            string
		NameProvidence  *Providence
		Color           string
		ColorProvidence Providence
		Unset           string
		UnsetProvidence Providence
	}

	path := writeFile(t, filepath.Join(t.TempDir(), "cfg.yaml"), "port: 8080\nname: fromyaml\n")
	t.Setenv("ENV_PORT", "9090")

	var cfg C
	err := New().
		WithDefaults(map[string]any{"port": 80, "name": "def", "color": "auto"}).
		WithYAMLFile(path).
		WithEnv(map[string]string{"port": "ENV_PORT"}).
		StrictlyLoad(&cfg)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, Providence{SourceType: "env"}, cfg.PortProvidence)

	require.NotNil(t, cfg.NameProvidence)
	assert.Equal(t, "yaml_file", cfg.NameProvidence.SourceType)
	assert.Equal(t, ExpandPath(path), cfg.NameProvidence.SourceIdentifier)
	assert.Equal(t, "yaml_file "+ExpandPath(path), cfg.NameProvidence.String())

	assert.True(t, cfg.ColorProvidence.Default())
	assert.Equal(t, "default", cfg.ColorProvidence.String())

	assert.False(t, cfg.UnsetProvidence.IsSet())
}

func TestNestedAndRequired(t *testing.T) {
	type Server struct {
		Host string `cascade:",required"`
		Port int
	}
	type Config struct {
		Server Server
	}

	t.Run("dotted defaults and env", func(t *testing.T) {
		t.Setenv("APP_PORT", "7000")
		var cfg Config
		err := New().
			WithDefaults(map[string]any{"server.host": "localhost", "server.port": 80}).
			WithEnv(map[string]string{"server.port": "APP_PORT"}).
			StrictlyLoad(&cfg)
		require.NoError(t, err)
		assert.Equal(t, Server{Host: "localhost", Port: 7000}, cfg.Server)
	})

	t.Run("nested yaml", func(t *testing.T) {
		path := writeFile(t, filepath.Join(t.TempDir(), "c.yaml"), "server:\n  host: example.com\n")
		var cfg Config
		require.NoError(t, New().WithYAMLFile(path).StrictlyLoad(&cfg))
		assert.Equal(t, "example.com", cfg.Server.Host)
	})

	t.Run("missing required", func(t *testing.T) {
		var cfg Config
		err := New().WithDefaults(map[string]any{"server.port": 1}).StrictlyLoad(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required key: server.host")
	})
}

func TestStrictlyLoadErrors(t *testing.T) {
	type Config struct {
		Port    int
		Enabled bool
	}
	dir := t.TempDir()

	tcs := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "bad yaml", content: "port: [1,\n", wantErr: "parse yaml"},
		{name: "not a mapping", content: "- 1\n- 2\n", wantErr: "top-level YAML must be a mapping"},
		{name: "bad int", content: "port: eighty\n", wantErr: "port: cannot parse int"},
		{name: "bad bool", content: "enabled: maybe\n", wantErr: "enabled: cannot parse bool"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, filepath.Join(dir, tc.name+".yaml"), tc.content)
			var cfg Config
			err := New().WithYAMLFile(path).StrictlyLoad(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "YAML File: "+path)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("bad destination", func(t *testing.T) {
		assert.Error(t, New().StrictlyLoad(nil))
		var cfg Config
		assert.Error(t, New().StrictlyLoad(cfg))
		n := 3
		assert.Error(t, New().StrictlyLoad(&n))
	})
}

func TestStrictlyLoadIgnoresMissingAndEmpty(t *testing.T) {
	type Config struct {
		Port int
	}
	dir := t.TempDir()
	empty := writeFile(t, filepath.Join(dir, "empty.yaml"), "  \n")
	comments := writeFile(t, filepath.Join(dir, "comments.yaml"), "# nothing here\n")

	var cfg Config
	err := New().
		WithDefaults(map[string]any{"port": 1}).
		WithYAMLFile(filepath.Join(dir, "missing.yaml")).
		WithYAMLFile(empty).
		WithYAMLFile(comments).
		StrictlyLoad(&cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Port)
}

func TestWithNearestYAMLFile(t *testing.T) {
	type Config struct {
		Level string
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".app.yaml"), "level: root\n")
	writeFile(t, filepath.Join(root, "a", ".app.yaml"), "\n") // empty files are passed over
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	file := writeFile(t, filepath.Join(deep, "main.py"), "")

	assert.Equal(t, filepath.Join(root, ".app.yaml"), FindNearest(".app.yaml", deep))
	assert.Equal(t, filepath.Join(root, ".app.yaml"), FindNearest(".app.yaml", file))
	assert.Equal(t, "", FindNearest(".nope.yaml", deep))

	var cfg Config
	require.NoError(t, New().WithNearestYAMLFile(".app.yaml", deep).StrictlyLoad(&cfg))
	assert.Equal(t, "root", cfg.Level)

	assert.Panics(t, func() { New().WithNearestYAMLFile(filepath.Join(root, ".app.yaml"), deep) })
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, ".docstub", "config.yaml"), ExpandPath("~/.docstub/config.yaml"))
	assert.Equal(t, filepath.Join(home, ".docstub", "config.yaml"), InUserConfigDirectory(filepath.Join(".docstub", "config.yaml")))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "rel", "x.yaml"), ExpandPath("rel/x.yaml"))
}
