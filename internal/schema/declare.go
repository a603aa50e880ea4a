package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Declaration describes a schema in configuration files
type Declaration struct {
	Name    string             `mapstructure:"name" yaml:"name"`
	Extends string             `mapstructure:"extends" yaml:"extends,omitempty"`
	Fields  []FieldDeclaration `mapstructure:"fields" yaml:"fields"`
}

// FieldDeclaration describes a field in configuration files
type FieldDeclaration struct {
	Name      string `mapstructure:"name" yaml:"name"`
	Column    string `mapstructure:"column" yaml:"column,omitempty"`
	Type      string `mapstructure:"type" yaml:"type"`
	Default   any    `mapstructure:"default" yaml:"default,omitempty"`
	Transient bool   `mapstructure:"transient" yaml:"transient,omitempty"`
	NoSelect  bool   `mapstructure:"no_select" yaml:"no_select,omitempty"`
}

// Build converts the declaration into a field descriptor
func (d FieldDeclaration) Build() (*Field, error) {
	t, err := ParseValueType(d.Type)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", d.Name, err)
	}

	opts := []FieldOption{WithColumn(d.Column), WithDefault(d.Default)}
	if d.Transient {
		opts = append(opts, Transient())
	}
	if d.NoSelect {
		opts = append(opts, NoSelect())
	}
	return NewField(d.Name, t, opts...), nil
}

// Declare resolves and registers declared schemas. Parents are resolved
// before their children regardless of declaration order; a parent may also be
// a schema that is already registered. Nothing is registered unless every
// declaration resolves.
func (r *Registry) Declare(decls []Declaration) error {
	byName := make(map[string]Declaration, len(decls))
	for _, d := range decls {
		if _, dup := byName[d.Name]; dup {
			return fmt.Errorf("schema %s is declared more than once", d.Name)
		}
		if r.Exists(d.Name) {
			return fmt.Errorf("schema %s is already registered", d.Name)
		}
		byName[d.Name] = d
	}

	order, err := declarationOrder(byName, r.Exists)
	if err != nil {
		return err
	}

	resolved := make([]*Schema, 0, len(order))
	byResolved := make(map[string]*Schema, len(order))
	for _, name := range order {
		d := byName[name]

		fields := make([]*Field, 0, len(d.Fields))
		for _, fd := range d.Fields {
			f, err := fd.Build()
			if err != nil {
				return fmt.Errorf("schema %s: %w", d.Name, err)
			}
			fields = append(fields, f)
		}

		var s *Schema
		if d.Extends == "" {
			s, err = Define(d.Name, fields...)
		} else {
			parent, ok := byResolved[d.Extends]
			if !ok {
				parent, _ = r.Get(d.Extends)
			}
			s, err = parent.Extend(d.Name, fields...)
		}
		if err != nil {
			return err
		}
		resolved = append(resolved, s)
		byResolved[name] = s
	}

	return r.registerAll(resolved)
}

// registerAll registers every schema or none of them
func (r *Registry) registerAll(schemas []*Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range schemas {
		if _, exists := r.schemas[s.name]; exists {
			return fmt.Errorf("schema %s is already registered", s.name)
		}
	}
	for _, s := range schemas {
		r.schemas[s.name] = s
	}
	return nil
}

// declarationOrder sorts declarations so every parent precedes its children
func declarationOrder(decls map[string]Declaration, registered func(string) bool) ([]string, error) {
	pending := make(map[string]int, len(decls))
	children := make(map[string][]string)

	for name, d := range decls {
		switch {
		case d.Extends == "":
			pending[name] = 0
		case d.Extends == name:
			return nil, fmt.Errorf("schema %s extends itself", name)
		case registered(d.Extends):
			pending[name] = 0
		default:
			if _, ok := decls[d.Extends]; !ok {
				return nil, fmt.Errorf("schema %s extends unknown schema %s", name, d.Extends)
			}
			pending[name] = 1
			children[d.Extends] = append(children[d.Extends], name)
		}
	}

	queue := make([]string, 0)
	for name, degree := range pending {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	result := make([]string, 0, len(decls))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		result = append(result, name)

		next := children[name]
		sort.Strings(next)
		for _, child := range next {
			pending[child]--
			if pending[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if len(result) != len(decls) {
		var cyclic []string
		for name, degree := range pending {
			if degree > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return nil, fmt.Errorf("circular inheritance detected: %s", strings.Join(cyclic, ", "))
	}

	return result, nil
}
