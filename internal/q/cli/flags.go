package cli

import (
	"fmt"
	"sort"
	"strconv"
)

type flagKind uint8

const (
	flagBool flagKind = iota + 1
	flagString
	flagInt
	flagStrings
)

func (k flagKind) String() string {
	switch k {
	case flagBool:
		return "bool"
	case flagString:
		return "string"
	case flagInt:
		return "int"
	case flagStrings:
		return "string"
	}
	return "unknown"
}

// FlagSet is a typed flag registry for a command.
type FlagSet struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

type flagDef struct {
	name      string
	shorthand rune
	usage     string
	kind      flagKind
	changed   bool

	boolPtr    *bool
	stringPtr  *string
	intPtr     *int
	stringsPtr *[]string
}

func newFlagSet() *FlagSet {
	return &FlagSet{
		byLong:  map[string]*flagDef{},
		byShort: map[rune]*flagDef{},
	}
}

// Bool defines a boolean flag. A bare --name sets it to true; --name=false sets it explicitly. It never consumes the following token.
func (fs *FlagSet) Bool(name string, shorthand rune, def bool, usage string) *bool {
	ptr := new(bool)
	*ptr = def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagBool, boolPtr: ptr})
	return ptr
}

func (fs *FlagSet) String(name string, shorthand rune, def string, usage string) *string {
	ptr := new(string)
	*ptr = def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagString, stringPtr: ptr})
	return ptr
}

func (fs *FlagSet) Int(name string, shorthand rune, def int, usage string) *int {
	ptr := new(int)
	*ptr = def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagInt, intPtr: ptr})
	return ptr
}

// Strings defines a repeatable flag. Each occurrence appends one value; the first occurrence replaces def.
func (fs *FlagSet) Strings(name string, shorthand rune, def []string, usage string) *[]string {
	ptr := new([]string)
	*ptr = append([]string(nil), def...)
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagStrings, stringsPtr: ptr})
	return ptr
}

// Changed reports whether the named flag was set on the command line.
func (fs *FlagSet) Changed(name string) bool {
	def := fs.byLong[name]
	return def != nil && def.changed
}

func (fs *FlagSet) add(def *flagDef) {
	if def.name == "" {
		panic("cli: flag name must be non-empty")
	}
	if _, ok := fs.byLong[def.name]; ok {
		panic("cli: duplicate flag: --" + def.name)
	}
	fs.byLong[def.name] = def
	if def.shorthand != 0 {
		if _, ok := fs.byShort[def.shorthand]; ok {
			panic(fmt.Sprintf("cli: duplicate shorthand flag: -%c", def.shorthand))
		}
		fs.byShort[def.shorthand] = def
	}
}

type activeFlags struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

// activeFlags collects the persistent flags of c's ancestors (and c) plus c's local flags.
func (c *Command) activeFlags() activeFlags {
	a := activeFlags{byLong: map[string]*flagDef{}, byShort: map[rune]*flagDef{}}
	for _, cmd := range c.pathFromRoot() {
		if cmd.persistentFlags != nil {
			for _, def := range cmd.persistentFlags.byLong {
				a.add(def)
			}
		}
	}
	if c.localFlags != nil {
		for _, def := range c.localFlags.byLong {
			a.add(def)
		}
	}
	return a
}

func (a activeFlags) add(def *flagDef) {
	if existing, ok := a.byLong[def.name]; ok && existing != def {
		panic("cli: flag name conflict across command path: --" + def.name)
	}
	a.byLong[def.name] = def
	if def.shorthand != 0 {
		if existing, ok := a.byShort[def.shorthand]; ok && existing != def {
			panic(fmt.Sprintf("cli: shorthand conflict across command path: -%c", def.shorthand))
		}
		a.byShort[def.shorthand] = def
	}
}

// sorted returns the active flags ordered by long name.
func (a activeFlags) sorted() []*flagDef {
	defs := make([]*flagDef, 0, len(a.byLong))
	for _, def := range a.byLong {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].name < defs[j].name })
	return defs
}

// set applies one flag occurrence. value is nil when the token carried no "=value". It reports whether next was consumed.
func (a activeFlags) set(token string, def *flagDef, value *string, next *string) (bool, error) {
	if def == nil {
		return false, Usagef("unknown flag: %s", token)
	}

	consumed := false
	var raw string
	switch {
	case value != nil:
		raw = *value
	case def.kind == flagBool:
		raw = "true"
	case next == nil || *next == "--":
		return false, Usagef("flag needs a value: %s", token)
	default:
		raw = *next
		consumed = true
	}

	if err := def.setValue(raw); err != nil {
		return false, Usagef("invalid value for %s: %v", def.display(), err)
	}
	return consumed, nil
}

func (def *flagDef) setValue(raw string) error {
	switch def.kind {
	case flagBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*def.boolPtr = v
	case flagString:
		*def.stringPtr = raw
	case flagInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*def.intPtr = v
	case flagStrings:
		if !def.changed {
			*def.stringsPtr = nil
		}
		*def.stringsPtr = append(*def.stringsPtr, raw)
	default:
		return fmt.Errorf("unknown flag kind")
	}
	def.changed = true
	return nil
}

func (def *flagDef) display() string {
	if def.shorthand != 0 {
		return fmt.Sprintf("-%c/--%s", def.shorthand, def.name)
	}
	return "--" + def.name
}
