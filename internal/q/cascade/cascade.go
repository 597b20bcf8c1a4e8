package cascade

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
)

// Loader builds a prioritized cascade of configuration sources and applies them to a destination struct. Register sources in call order from lowest to highest
// priority using the With* methods, then call StrictlyLoad.
type Loader struct {
	sources []source // low to high priority
}

// Providence records which source set a field.
type Providence struct {
	SourceType       string // ex: "default", "env", "yaml_file"
	SourceIdentifier string // ex: "/path/to/config.yaml". "" for sources without identifiers (defaults, env).
}

func (p Providence) IsSet() bool {
	return p.SourceType != ""
}

func (p Providence) Default() bool {
	return p.SourceType == "default"
}

// String returns the source type, followed by the identifier if there is one (ex: "yaml_file /home/u/.docstub/config.yaml").
func (p Providence) String() string {
	if p.SourceIdentifier == "" {
		return p.SourceType
	}
	return p.SourceType + " " + p.SourceIdentifier
}

// New returns a new Loader. It is equivalent to &Loader{} and exists to support fluent chaining.
func New() *Loader {
	return &Loader{}
}

// WithDefaults registers m as a source of default values. Keys may use dot-notation and are matched case-insensitively. A nil map contributes no values.
func (c *Loader) WithDefaults(m map[string]any) *Loader {
	c.sources = append(c.sources, &sourceMap{m: m})
	return c
}

// WithYAMLFile registers a YAML file as the next-highest-priority source. path is expanded with ExpandPath. The file is not read at call time; I/O and parse errors
// surface from StrictlyLoad, except that a missing or unreadable file is skipped.
func (c *Loader) WithYAMLFile(path string) *Loader {
	c.sources = append(c.sources, &sourceYAMLFile{path: path})
	return c
}

// WithNearestYAMLFile searches upward from startingAbsolutePath (or, if empty, from the current working directory) for the first readable, non-empty file named
// fileName and registers it as the next-highest-priority source. fileName must be relative; it panics if fileName is absolute. If startingAbsolutePath is a file,
// its directory is used. If no file is found, the loader is unchanged.
func (c *Loader) WithNearestYAMLFile(fileName string, startingAbsolutePath string) *Loader {
	if path := FindNearest(fileName, startingAbsolutePath); path != "" {
		c.sources = append(c.sources, &sourceYAMLFile{path: path})
	}
	return c
}

// FindNearest returns the path of the first readable, non-empty file named fileName in startingAbsolutePath or one of its ancestors, or "" if there is none. See
// WithNearestYAMLFile.
func FindNearest(fileName string, startingAbsolutePath string) string {
	if filepath.IsAbs(fileName) {
		panic("fileName shouldn't be absolute")
	}

	start := startingAbsolutePath
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		start = wd
	}
	if fi, err := os.Stat(start); err == nil && !fi.IsDir() {
		start = filepath.Dir(start)
	}

	for dir := start; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, fileName)
		if data, err := os.ReadFile(candidate); err == nil && strings.TrimSpace(string(data)) != "" {
			return candidate
		}
		if filepath.Dir(dir) == dir {
			return ""
		}
	}
}

// WithEnv registers an environment-variable-backed source. m maps a configuration key (dots denote nesting) to an environment variable name. Missing and empty
// variables are ignored; present values are strings.
func (c *Loader) WithEnv(m map[string]string) *Loader {
	c.sources = append(c.sources, &sourceEnv{keyToEnv: m})
	return c
}

// StrictlyLoad loads configuration from c's sources into dest, from low to high priority. dest must be a non-nil pointer to a struct.
//
// StrictlyLoad returns an error when a readable source cannot be parsed or supplies a value that cannot be coerced to the field type, and when a required field was
// not set by any source. It fails fast: later sources cannot "fix" bad values. Errors from individual sources include the source's name.
func (c *Loader) StrictlyLoad(dest any) error {
	if dest == nil {
		return fmt.Errorf("dest must be a non-nil pointer to struct")
	}
	destVal := reflect.ValueOf(dest)
	if destVal.Kind() != reflect.Ptr || destVal.IsNil() {
		return fmt.Errorf("dest must be a non-nil pointer to struct")
	}
	structVal := destVal.Elem()
	if structVal.Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct, got %s", structVal.Kind())
	}

	present := map[string]bool{}
	for _, src := range c.sources {
		m, err := src.ToMap()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				continue
			}
			return fmt.Errorf("%s: %w", src.Name(), err)
		}
		if err := applyMapToStruct(structVal, m, "", present, src.Providence()); err != nil {
			return fmt.Errorf("%s: %w", src.Name(), err)
		}
	}

	return validateRequiredFields(structVal, "", present)
}

// fieldKey returns the lowercased key for f: the cascade tag name, else the yaml tag name, else the field name. A cascade name of "-" skips the field; yaml:"-" only
// disables yaml naming.
func fieldKey(f reflect.StructField) string {
	for _, tagName := range []string{"cascade", "yaml"} {
		tag := f.Tag.Get(tagName)
		if tag == "" {
			continue
		}
		name := strings.TrimSpace(strings.Split(tag, ",")[0])
		if name == "-" && tagName == "cascade" {
			return "-"
		}
		if name != "" && name != "-" {
			return strings.ToLower(name)
		}
	}
	return strings.ToLower(f.Name)
}

func isRequired(f reflect.StructField) bool {
	parts := strings.Split(f.Tag.Get("cascade"), ",")
	for _, p := range parts[1:] {
		if strings.TrimSpace(p) == "required" {
			return true
		}
	}
	return false
}

var providenceType = reflect.TypeOf(Providence{})

// applyMapToStruct writes values from m into structVal, recursing into nested objects. basePath prefixes paths recorded in present and used in errors.
func applyMapToStruct(structVal reflect.Value, m map[string]any, basePath string, present map[string]bool, prov Providence) error {
	structType := structVal.Type()

	fieldIndex := map[string]int{}
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		if !structVal.Field(i).CanSet() {
			continue
		}
		key := fieldKey(f)
		if key == "-" {
			continue
		}
		if prev, exists := fieldIndex[key]; exists {
			return fmt.Errorf("struct contains case-insensitive field key collision for %q: %s and %s", key, structType.Field(prev).Name, f.Name)
		}
		fieldIndex[key] = i
	}

	for key, raw := range m {
		idx, ok := fieldIndex[key]
		if !ok {
			continue
		}
		path := key
		if basePath != "" {
			path = basePath + "." + key
		}
		if err := setFieldValue(structVal.Field(idx), raw, path, present, prov); err != nil {
			return err
		}
		present[path] = true

		if pi, ok := fieldIndex[strings.ToLower(structType.Field(idx).Name+"Providence")]; ok {
			setProvidence(structVal.Field(pi), prov)
		}
	}
	return nil
}

func setProvidence(pf reflect.Value, prov Providence) {
	switch {
	case pf.Type() == providenceType:
		pf.Set(reflect.ValueOf(prov))
	case pf.Kind() == reflect.Ptr && pf.Type().Elem() == providenceType:
		p := prov
		pf.Set(reflect.ValueOf(&p))
	}
}

// setFieldValue assigns raw to fVal, allocating pointers and coercing scalars. Struct fields take objects; slices take lists (replacing the old slice); maps with
// string keys take objects and are merged key by key into any existing map.
func setFieldValue(fVal reflect.Value, raw any, path string, present map[string]bool, prov Providence) error {
	if fVal.Kind() == reflect.Ptr {
		if raw == nil {
			fVal.Set(reflect.Zero(fVal.Type()))
			return nil
		}
		if fVal.IsNil() {
			fVal.Set(reflect.New(fVal.Type().Elem()))
		}
		return setFieldValue(fVal.Elem(), raw, path, present, prov)
	}

	switch fVal.Kind() {
	case reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object for struct field", path)
		}
		return applyMapToStruct(fVal, obj, path, present, prov)

	case reflect.Slice:
		if raw == nil {
			fVal.Set(reflect.Zero(fVal.Type()))
			return nil
		}
		list, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("%s: cannot coerce %T to list", path, raw)
		}
		slice := reflect.MakeSlice(fVal.Type(), len(list), len(list))
		for i, e := range list {
			if err := setFieldValue(slice.Index(i), e, fmt.Sprintf("%s[%d]", path, i), present, prov); err != nil {
				return err
			}
		}
		fVal.Set(slice)
		return nil

	case reflect.Map:
		if fVal.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%s: map keys must be strings", path)
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: cannot coerce %T to map", path, raw)
		}
		if fVal.IsNil() {
			fVal.Set(reflect.MakeMapWithSize(fVal.Type(), len(obj)))
		}
		for k, e := range obj {
			ev := reflect.New(fVal.Type().Elem()).Elem()
			if err := setFieldValue(ev, e, path+"."+k, present, prov); err != nil {
				return err
			}
			fVal.SetMapIndex(reflect.ValueOf(k).Convert(fVal.Type().Key()), ev)
		}
		return nil

	default:
		if raw == nil {
			fVal.Set(reflect.Zero(fVal.Type()))
			return nil
		}
		return setScalar(fVal, raw, path)
	}
}

// setScalar coerces raw into a string, bool, int, or float field. Strings parse into bools and numbers (whitespace trimmed); numbers and bools format into strings;
// floats truncate toward zero into ints.
func setScalar(fVal reflect.Value, raw any, path string) error {
	switch fVal.Kind() {
	case reflect.String:
		switch v := raw.(type) {
		case string:
			fVal.SetString(v)
		case int:
			fVal.SetString(strconv.Itoa(v))
		case float64:
			fVal.SetString(strconv.FormatFloat(v, 'f', -1, 64))
		case bool:
			fVal.SetString(strconv.FormatBool(v))
		default:
			return fmt.Errorf("%s: cannot coerce %T to string", path, raw)
		}

	case reflect.Bool:
		switch v := raw.(type) {
		case bool:
			fVal.SetBool(v)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return fmt.Errorf("%s: cannot parse bool from %q", path, v)
			}
			fVal.SetBool(b)
		default:
			return fmt.Errorf("%s: cannot coerce %T to bool", path, raw)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch v := raw.(type) {
		case int:
			fVal.SetInt(int64(v))
		case float64:
			fVal.SetInt(int64(v))
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return fmt.Errorf("%s: cannot parse int from %q", path, v)
			}
			fVal.SetInt(n)
		default:
			return fmt.Errorf("%s: cannot coerce %T to int", path, raw)
		}

	case reflect.Float32, reflect.Float64:
		switch v := raw.(type) {
		case float64:
			fVal.SetFloat(v)
		case int:
			fVal.SetFloat(float64(v))
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s: cannot parse float from %q", path, v)
			}
			fVal.SetFloat(f)
		default:
			return fmt.Errorf("%s: cannot coerce %T to float", path, raw)
		}

	default:
		return fmt.Errorf("%s: unsupported field kind %s", path, fVal.Kind())
	}
	return nil
}

// validateRequiredFields returns an error naming the first field tagged cascade:",required" whose path is not in present. It recurses into nested structs.
func validateRequiredFields(structVal reflect.Value, basePath string, present map[string]bool) error {
	structType := structVal.Type()
	for i := 0; i < structType.NumField(); i++ {
		f := structType.Field(i)
		key := fieldKey(f)
		if key == "-" || f.Type == providenceType {
			continue
		}
		path := key
		if basePath != "" {
			path = basePath + "." + key
		}
		if isRequired(f) && !present[path] {
			return fmt.Errorf("missing required key: %s", path)
		}

		fv := structVal.Field(i)
		if fv.Kind() == reflect.Ptr && !fv.IsNil() {
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Struct {
			if err := validateRequiredFields(fv, path, present); err != nil {
				return err
			}
		}
	}
	return nil
}
