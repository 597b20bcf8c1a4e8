package cascade

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// source is a configuration source that can supply key/value data to the loader in a normalized map form.
type source interface {
	// Name returns a human-readable label for the source, used in error messages.
	Name() string

	// Providence identifies the source to XProvidence fields.
	Providence() Providence

	// ToMap returns a normalized map: keys are lower cased; values are nil, scalars (ONLY int, float64, bool, string), []any of normalized values, or normalized
	// nested map[string]any.
	ToMap() (map[string]any, error)
}

// sourceMap adapts a Go map into a source. Keys may use dot-notation to create nested objects.
type sourceMap struct {
	m map[string]any
}

// sourceYAMLFile is a single YAML file read at load time. Empty or whitespace-only files contribute no values.
type sourceYAMLFile struct {
	path string // expanded with ExpandPath at load time
}

// sourceEnv maps configuration keys ("." allowed for nesting) to environment variable names.
type sourceEnv struct {
	keyToEnv map[string]string
}

func (s *sourceMap) Name() string { return "Defaults" }

func (s *sourceMap) Providence() Providence { return Providence{SourceType: "default"} }

func (s *sourceMap) ToMap() (map[string]any, error) {
	out := map[string]any{}
	for k, v := range s.m {
		nv, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("key '%s': %w", k, err)
		}
		if err := setDotted(out, k, nv); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *sourceYAMLFile) Name() string { return "YAML File: " + s.path }

func (s *sourceYAMLFile) Providence() Providence {
	return Providence{SourceType: "yaml_file", SourceIdentifier: ExpandPath(s.path)}
}

func (s *sourceYAMLFile) ToMap() (map[string]any, error) {
	data, err := os.ReadFile(ExpandPath(s.path))
	if err != nil {
		return nil, fmt.Errorf("read yaml file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return map[string]any{}, nil
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		// A document holding only comments.
		return map[string]any{}, nil
	}
	nv, err := normalizeValue(raw)
	if err != nil {
		return nil, err
	}
	obj, ok := nv.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("top-level YAML must be a mapping")
	}
	return obj, nil
}

func (s *sourceEnv) Name() string { return "ENV" }

func (s *sourceEnv) Providence() Providence { return Providence{SourceType: "env"} }

func (s *sourceEnv) ToMap() (map[string]any, error) {
	out := map[string]any{}
	for key, envVar := range s.keyToEnv {
		if envVar == "" {
			continue
		}
		// An empty variable is treated as unset so it cannot blank out a file setting.
		val := os.Getenv(envVar)
		if val == "" {
			continue
		}
		if err := setDotted(out, key, val); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// setDotted stores value in obj under a dot-separated key, creating nested maps as needed. It is an error to set a key twice or to nest below a non-object.
func setDotted(obj map[string]any, key string, value any) error {
	parts := strings.Split(strings.ToLower(key), ".")
	for _, p := range parts[:len(parts)-1] {
		child, exists := obj[p]
		if !exists {
			m := map[string]any{}
			obj[p] = m
			obj = m
			continue
		}
		m, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("key conflict at '%s': '%s' is not an object", key, p)
		}
		obj = m
	}

	leaf := parts[len(parts)-1]
	if existing, exists := obj[leaf]; exists {
		em, eok := existing.(map[string]any)
		vm, vok := value.(map[string]any)
		if !eok || !vok {
			return fmt.Errorf("key conflict: key '%s' was already set", key)
		}
		for k, v := range vm {
			if err := setDotted(em, k, v); err != nil {
				return err
			}
		}
		return nil
	}
	obj[leaf] = value
	return nil
}

// normalizeValue converts decoded YAML or Go default values into the normalized forms described on source.ToMap.
func normalizeValue(v any) (any, error) {
	switch vv := v.(type) {
	case nil, string, bool, int, float64:
		return vv, nil
	case map[string]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("key '%s': %w", k, err)
			}
			out[strings.ToLower(k)] = ne
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("key '%v': %w", k, err)
			}
			out[strings.ToLower(fmt.Sprint(k))] = ne
		}
		return out, nil
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			ne, err := normalizeValue(e)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = ne
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), nil
	case reflect.Float32:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			ne, err := normalizeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = ne
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			ne, err := normalizeValue(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("key '%s': %w", iter.Key().String(), err)
			}
			out[strings.ToLower(iter.Key().String())] = ne
		}
		return out, nil
	}
	return nil, fmt.Errorf("type %T is not allowed", v)
}
