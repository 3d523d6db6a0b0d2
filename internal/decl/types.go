// Package decl provides the declaration environment the derivation
// queries: named data types with their variable binders and
// constructors, type aliases, and data-family instances.
//
// The environment is a read-only snapshot loaded from a YAML schema
// file; derivation never mutates it.
package decl

import (
	"invmap-generator/internal/typeexpr"
)

// ConstructorSpec describes one constructor of a data type: its name
// and ordered field types. Record field names, when declared, are kept
// for reporting only; derivation works purely positionally.
type ConstructorSpec struct {
	Name       string
	Fields     []typeexpr.Expr
	FieldNames []string
}

// Arity returns the number of fields.
func (c ConstructorSpec) Arity() int { return len(c.Fields) }

// TypeDecl is a named data type declaration.
type TypeDecl struct {
	Name         string
	Binders      []typeexpr.Binder
	Constructors []ConstructorSpec
}

// FamilyInstance is one instance of a data family: the instantiated
// head arguments (expressions over the instance binders) and the
// constructors declared for that instance.
type FamilyInstance struct {
	Binders      []typeexpr.Binder
	Args         []typeexpr.Expr
	Constructors []ConstructorSpec
}

// FamilyDecl is a data family with its declared instances.
type FamilyDecl struct {
	Name      string
	Instances []FamilyInstance
}

// Env is the read-only view of the ambient declaration environment.
// It is the sole external dependency of a derivation.
type Env interface {
	// LookupType returns the data type declared under name.
	LookupType(name string) (*TypeDecl, bool)
	// LookupAlias returns the alias declared under name.
	LookupAlias(name string) (typeexpr.Alias, bool)
	// LookupFamily returns the data family declared under name.
	LookupFamily(name string) (*FamilyDecl, bool)
	// IsTypeFamily reports whether name refers to a data family.
	IsTypeFamily(name string) bool
}

// Request asks for one derivation: an operation arity (1 or 2) applied
// to a named type, or to one instance of a named family.
type Request struct {
	// Type is the data type or family name.
	Type string
	// Instance is the family instance ordinal, or -1 for a plain type.
	Instance int
	// Arity is the operation arity, 1 (invmap) or 2 (invmap2).
	Arity int
}

// DeclSet is the concrete Env built by the schema loader.
type DeclSet struct {
	types    map[string]*TypeDecl
	aliases  map[string]typeexpr.Alias
	families map[string]*FamilyDecl

	// typeOrder preserves schema declaration order for deterministic
	// multi-type generation.
	typeOrder   []string
	familyOrder []string

	// Requests are the derivations the schema itself asks for via
	// per-declaration derive lists, in declaration order.
	Requests []Request
}

// NewDeclSet returns an empty declaration set.
func NewDeclSet() *DeclSet {
	return &DeclSet{
		types:    map[string]*TypeDecl{},
		aliases:  map[string]typeexpr.Alias{},
		families: map[string]*FamilyDecl{},
	}
}

// LookupType implements Env.
func (s *DeclSet) LookupType(name string) (*TypeDecl, bool) {
	t, ok := s.types[name]
	return t, ok
}

// LookupAlias implements Env.
func (s *DeclSet) LookupAlias(name string) (typeexpr.Alias, bool) {
	a, ok := s.aliases[name]
	return a, ok
}

// LookupFamily implements Env.
func (s *DeclSet) LookupFamily(name string) (*FamilyDecl, bool) {
	f, ok := s.families[name]
	return f, ok
}

// IsTypeFamily implements Env.
func (s *DeclSet) IsTypeFamily(name string) bool {
	_, ok := s.families[name]
	return ok
}

// TypeNames returns declared data type names in schema order.
func (s *DeclSet) TypeNames() []string {
	return s.typeOrder
}

// FamilyNames returns declared family names in schema order.
func (s *DeclSet) FamilyNames() []string {
	return s.familyOrder
}

// AddType registers a data type declaration.
func (s *DeclSet) AddType(t *TypeDecl) {
	s.types[t.Name] = t
	s.typeOrder = append(s.typeOrder, t.Name)
}

// AddAlias registers a type alias.
func (s *DeclSet) AddAlias(name string, a typeexpr.Alias) {
	s.aliases[name] = a
}

// AddFamily registers a data family.
func (s *DeclSet) AddFamily(f *FamilyDecl) {
	s.families[f.Name] = f
	s.familyOrder = append(s.familyOrder, f.Name)
}
