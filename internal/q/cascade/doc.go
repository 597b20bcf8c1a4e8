// Package cascade loads layered configuration into Go structs from multiple sources with predictable precedence.
//
// A Loader builds a prioritized cascade of sources and writes into a destination struct. Register sources from lowest to highest priority using the With* methods,
// then call StrictlyLoad. The zero value of Loader is ready to use; New exists for fluent chaining.
//
// Sources
//   - Defaults from a map[string]any whose keys may use dot-notation to denote nesting.
//   - YAML files read at load time. WithYAMLFile registers a specific path. WithNearestYAMLFile searches upward from a starting path for the first readable, non-empty
//     file with a given relative name.
//   - Environment variables mapped to configuration keys via WithEnv. Missing or empty variables are ignored.
//
// Keys are matched case-insensitively against struct fields, using the cascade tag name, then the yaml tag name, then the field name. In YAML files, nesting comes
// from the document structure and keys are taken literally, so map keys such as ".pyi" are safe. Unknown keys are ignored. Values are coerced when reasonable (strings
// to numbers and bools, numbers to strings). Map fields with string keys merge across sources key by key; every other field is replaced by the higher-priority source.
//
// A field named XProvidence of type Providence (or *Providence) records which source last set field X.
//
// Fields tagged cascade:",required" must be set by some source. StrictlyLoad fails fast on a source that cannot be parsed or a value that cannot be coerced. Missing
// sources and empty files are not errors.
//
//	type Config struct {
//	    Host string `cascade:"required"`
//	    Port int
//	}
//
//	var cfg Config
//	err := New().
//	    WithDefaults(map[string]any{"host": "localhost", "port": 8080}).
//	    WithNearestYAMLFile(".app.yaml", "").
//	    WithEnv(map[string]string{"host": "APP_HOST", "port": "APP_PORT"}).
//	    StrictlyLoad(&cfg)
package cascade
