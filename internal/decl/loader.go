package decl

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"invmap-generator/internal/typeexpr"
)

// Schema file shape. Field types and parameter binders are compact
// type-syntax strings parsed by the typeexpr package.
type schemaFile struct {
	Types    []typeDeclYAML   `yaml:"types"`
	Aliases  []aliasDeclYAML  `yaml:"aliases"`
	Families []familyDeclYAML `yaml:"families"`
}

type typeDeclYAML struct {
	Name         string            `yaml:"name"`
	Params       []string          `yaml:"params"`
	Derive       []string          `yaml:"derive"`
	Constructors []constructorYAML `yaml:"constructors"`
}

type constructorYAML struct {
	Name   string      `yaml:"name"`
	Fields []fieldYAML `yaml:"fields"`
}

// fieldYAML accepts either a bare type string or a {name, type} record
// field mapping.
type fieldYAML struct {
	Name string
	Type string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *fieldYAML) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Name = ""

		return node.Decode(&f.Type)
	}

	var record struct {
		Name string `yaml:"name"`
		Type string `yaml:"type"`
	}

	if err := node.Decode(&record); err != nil {
		return err
	}

	if record.Type == "" {
		return fmt.Errorf("field %q has no type", record.Name)
	}

	f.Name = record.Name
	f.Type = record.Type

	return nil
}

type aliasDeclYAML struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params"`
	Type   string   `yaml:"type"`
}

type familyDeclYAML struct {
	Name      string         `yaml:"name"`
	Instances []instanceYAML `yaml:"instances"`
}

type instanceYAML struct {
	Params       []string          `yaml:"params"`
	Args         []string          `yaml:"args"`
	Derive       []string          `yaml:"derive"`
	Constructors []constructorYAML `yaml:"constructors"`
}

// LoadFile loads and validates a declaration schema from path.
func LoadFile(path string) (*DeclSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading schema %s", path)
	}

	set, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "schema %s", path)
	}

	return set, nil
}

// Parse parses and validates YAML schema data into a DeclSet.
func Parse(data []byte) (*DeclSet, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing schema YAML: %w", err)
	}

	set := NewDeclSet()
	seen := map[string]string{}

	claim := func(name, what string) error {
		if name == "" {
			return fmt.Errorf("%s with empty name", what)
		}

		if prev, dup := seen[name]; dup {
			return fmt.Errorf("%s %q already declared as %s", what, name, prev)
		}

		seen[name] = what

		return nil
	}

	for _, raw := range file.Types {
		if err := claim(raw.Name, "type"); err != nil {
			return nil, err
		}

		t, requests, err := buildType(raw)
		if err != nil {
			return nil, err
		}

		set.AddType(t)
		set.Requests = append(set.Requests, requests...)
	}

	for _, raw := range file.Aliases {
		if err := claim(raw.Name, "alias"); err != nil {
			return nil, err
		}

		alias, err := buildAlias(raw)
		if err != nil {
			return nil, err
		}

		set.AddAlias(raw.Name, alias)
	}

	for _, raw := range file.Families {
		if err := claim(raw.Name, "family"); err != nil {
			return nil, err
		}

		fam, requests, err := buildFamily(raw)
		if err != nil {
			return nil, err
		}

		set.AddFamily(fam)
		set.Requests = append(set.Requests, requests...)
	}

	return set, nil
}

func buildType(raw typeDeclYAML) (*TypeDecl, []Request, error) {
	binders, err := parseBinders(raw.Name, raw.Params)
	if err != nil {
		return nil, nil, err
	}

	cons, err := buildConstructors(raw.Name, raw.Constructors)
	if err != nil {
		return nil, nil, err
	}

	if len(cons) == 0 {
		return nil, nil, fmt.Errorf("type %s declares no constructors", raw.Name)
	}

	requests, err := parseDeriveList(raw.Name, -1, raw.Derive)
	if err != nil {
		return nil, nil, err
	}

	return &TypeDecl{Name: raw.Name, Binders: binders, Constructors: cons}, requests, nil
}

func buildAlias(raw aliasDeclYAML) (typeexpr.Alias, error) {
	if raw.Type == "" {
		return typeexpr.Alias{}, fmt.Errorf("alias %s has no right-hand side", raw.Name)
	}

	rhs, err := typeexpr.Parse(raw.Type)
	if err != nil {
		return typeexpr.Alias{}, fmt.Errorf("alias %s: %w", raw.Name, err)
	}

	params := make([]string, 0, len(raw.Params))

	for _, p := range raw.Params {
		b, err := typeexpr.ParseBinder(p)
		if err != nil {
			return typeexpr.Alias{}, fmt.Errorf("alias %s: %w", raw.Name, err)
		}

		params = append(params, b.Name)
	}

	return typeexpr.Alias{Params: params, RHS: rhs}, nil
}

func buildFamily(raw familyDeclYAML) (*FamilyDecl, []Request, error) {
	if len(raw.Instances) == 0 {
		return nil, nil, fmt.Errorf("family %s declares no instances", raw.Name)
	}

	fam := &FamilyDecl{Name: raw.Name}

	var requests []Request

	for i, rawInst := range raw.Instances {
		binders, err := parseBinders(raw.Name, rawInst.Params)
		if err != nil {
			return nil, nil, err
		}

		if len(rawInst.Args) == 0 {
			return nil, nil, fmt.Errorf("family %s instance %d has no head arguments", raw.Name, i)
		}

		args := make([]typeexpr.Expr, 0, len(rawInst.Args))

		for _, src := range rawInst.Args {
			arg, err := typeexpr.Parse(src)
			if err != nil {
				return nil, nil, fmt.Errorf("family %s instance %d: %w", raw.Name, i, err)
			}

			args = append(args, arg)
		}

		cons, err := buildConstructors(raw.Name, rawInst.Constructors)
		if err != nil {
			return nil, nil, err
		}

		if len(cons) == 0 {
			return nil, nil, fmt.Errorf("family %s instance %d declares no constructors", raw.Name, i)
		}

		instRequests, err := parseDeriveList(raw.Name, i, rawInst.Derive)
		if err != nil {
			return nil, nil, err
		}

		fam.Instances = append(fam.Instances, FamilyInstance{
			Binders:      binders,
			Args:         args,
			Constructors: cons,
		})
		requests = append(requests, instRequests...)
	}

	return fam, requests, nil
}

func buildConstructors(owner string, raws []constructorYAML) ([]ConstructorSpec, error) {
	cons := make([]ConstructorSpec, 0, len(raws))
	names := map[string]bool{}

	for _, raw := range raws {
		if raw.Name == "" {
			return nil, fmt.Errorf("type %s has a constructor with no name", owner)
		}

		if names[raw.Name] {
			return nil, fmt.Errorf("type %s declares constructor %s twice", owner, raw.Name)
		}

		names[raw.Name] = true

		spec := ConstructorSpec{Name: raw.Name}

		for i, f := range raw.Fields {
			t, err := typeexpr.Parse(f.Type)
			if err != nil {
				return nil, fmt.Errorf("type %s, constructor %s, field #%d: %w",
					owner, raw.Name, i+1, err)
			}

			spec.Fields = append(spec.Fields, t)
			spec.FieldNames = append(spec.FieldNames, f.Name)
		}

		cons = append(cons, spec)
	}

	return cons, nil
}

func parseBinders(owner string, params []string) ([]typeexpr.Binder, error) {
	binders := make([]typeexpr.Binder, 0, len(params))
	names := map[string]bool{}

	for _, p := range params {
		b, err := typeexpr.ParseBinder(p)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", owner, err)
		}

		if names[b.Name] {
			return nil, fmt.Errorf("type %s declares parameter %s twice", owner, b.Name)
		}

		names[b.Name] = true
		binders = append(binders, b)
	}

	return binders, nil
}

func parseDeriveList(typeName string, instance int, ops []string) ([]Request, error) {
	requests := make([]Request, 0, len(ops))

	for _, op := range ops {
		arity, err := OpArity(op)
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", typeName, err)
		}

		requests = append(requests, Request{Type: typeName, Instance: instance, Arity: arity})
	}

	return requests, nil
}

// OpArity maps an operation name from a derive list to its arity.
func OpArity(op string) (int, error) {
	switch op {
	case "invmap":
		return 1, nil
	case "invmap2":
		return 2, nil
	default:
		return 0, fmt.Errorf("unknown derive operation %q (want invmap or invmap2)", op)
	}
}
