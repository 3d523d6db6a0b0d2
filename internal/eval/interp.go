package eval

import (
	"fmt"

	"github.com/pkg/errors"

	"invmap-generator/internal/codegen"
	"invmap-generator/internal/decl"
)

type opKey struct {
	typeName string
	op       string
}

// Interp evaluates generated definitions. Derived definitions are
// registered per type and operation so the mapping builtins can
// dispatch on the runtime constructor of their container argument.
type Interp struct {
	defs    map[opKey]*codegen.Definition
	conType map[string]string
}

// New returns an empty interpreter.
func New() *Interp {
	return &Interp{
		defs:    map[opKey]*codegen.Definition{},
		conType: map[string]string{},
	}
}

// RegisterConstructors associates constructor names with their owning
// type, so constructor references in definitions build tagged values.
func (in *Interp) RegisterConstructors(typeName string, constructors ...string) {
	for _, c := range constructors {
		in.conType[c] = typeName
	}
}

// RegisterDefinition makes a derived definition dispatchable for the
// given type under its operation name.
func (in *Interp) RegisterDefinition(typeName string, def *codegen.Definition) {
	in.defs[opKey{typeName: typeName, op: def.Op}] = def
}

// LoadSchema registers every constructor of every declaration in the
// set. Family instance constructors dispatch under the family name.
func (in *Interp) LoadSchema(set *decl.DeclSet) {
	for _, name := range set.TypeNames() {
		td, _ := set.LookupType(name)
		for _, con := range td.Constructors {
			in.conType[con.Name] = name
		}
	}

	for _, name := range set.FamilyNames() {
		fam, _ := set.LookupFamily(name)
		for _, inst := range fam.Instances {
			for _, con := range inst.Constructors {
				in.conType[con.Name] = name
			}
		}
	}
}

// Con builds a constructor value tagged with its registered owner.
func (in *Interp) Con(name string, args ...Value) Value {
	return ConValue{TypeName: in.conType[name], Con: name, Args: args}
}

// Call applies a definition to the given arguments (the mappers
// followed by the container value).
func (in *Interp) Call(def *codegen.Definition, args ...Value) (Value, error) {
	if len(args) != len(def.Params) {
		return nil, errors.Errorf("%s takes %d arguments, got %d",
			def.Name, len(def.Params), len(args))
	}

	env := &scope{vars: map[string]Value{}}
	for i, p := range def.Params {
		env.vars[p] = args[i]
	}

	v, err := in.eval(def.Body, env)

	return v, errors.Wrapf(err, "evaluating %s", def.Name)
}

// scope is a lexical environment frame.
type scope struct {
	parent *scope
	vars   map[string]Value
}

func (s *scope) lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}

	return nil, false
}

func (s *scope) child(params []string, args []Value) *scope {
	vars := make(map[string]Value, len(params))
	for i, p := range params {
		vars[p] = args[i]
	}

	return &scope{parent: s, vars: vars}
}

func (in *Interp) eval(e codegen.Expr, env *scope) (Value, error) {
	switch node := e.(type) {
	case codegen.Var:
		if v, ok := env.lookup(node.Name); ok {
			return v, nil
		}

		switch node.Name {
		case "invmap":
			return in.builtin("invmap", 1), nil
		case "invmap2":
			return in.builtin("invmap2", 2), nil
		}

		return nil, errors.Errorf("unbound variable %s", node.Name)

	case codegen.Con:
		return ConValue{TypeName: in.conType[node.Name], Con: node.Name}, nil

	case codegen.Retag:
		// Parameterization is erased at runtime; retag is the identity.
		return Func(func(v Value) (Value, error) { return v, nil }), nil

	case codegen.Lambda:
		return in.closure(node, env), nil

	case codegen.Apply:
		fn, err := in.eval(node.Fn, env)
		if err != nil {
			return nil, err
		}

		for _, argExpr := range node.Args {
			arg, err := in.eval(argExpr, env)
			if err != nil {
				return nil, err
			}

			fn, err = apply(fn, arg)
			if err != nil {
				return nil, err
			}
		}

		return fn, nil

	case codegen.Case:
		return in.evalCase(node, env)

	default:
		return nil, errors.Errorf("unexpected expression node %T", e)
	}
}

// closure builds the curried function value of a multi-parameter
// lambda.
func (in *Interp) closure(node codegen.Lambda, env *scope) Value {
	var collect func(bound []Value) Value

	collect = func(bound []Value) Value {
		return FuncValue{Fn: func(arg Value) (Value, error) {
			next := append(append([]Value(nil), bound...), arg)
			if len(next) < len(node.Params) {
				return collect(next), nil
			}

			return in.eval(node.Body, env.child(node.Params, next))
		}}
	}

	return collect(nil)
}

func (in *Interp) evalCase(node codegen.Case, env *scope) (Value, error) {
	scrutinee, err := in.eval(node.Scrutinee, env)
	if err != nil {
		return nil, err
	}

	cv, ok := scrutinee.(ConValue)
	if !ok {
		return nil, errors.Errorf("case scrutinee is not a constructor value: %s", scrutinee)
	}

	for _, alt := range node.Alts {
		if alt.Con != cv.Con {
			continue
		}

		if len(alt.Binders) != len(cv.Args) {
			return nil, errors.Errorf("constructor %s has %d fields, pattern binds %d",
				cv.Con, len(cv.Args), len(alt.Binders))
		}

		inner := &scope{parent: env, vars: map[string]Value{}}
		for i, b := range alt.Binders {
			if b == "_" {
				continue
			}

			inner.vars[b] = cv.Args[i]
		}

		return in.eval(alt.Body, inner)
	}

	return nil, errors.Errorf("no case alternative matches constructor %s", cv.Con)
}

// apply applies a function or partially applied constructor value to
// one argument.
func apply(fn, arg Value) (Value, error) {
	switch f := fn.(type) {
	case FuncValue:
		return f.Fn(arg)
	case ConValue:
		args := append(append([]Value(nil), f.Args...), arg)
		return ConValue{TypeName: f.TypeName, Con: f.Con, Args: args}, nil
	default:
		return nil, fmt.Errorf("cannot apply non-function value %s", fn)
	}
}

// builtin returns the curried mapping builtin of the given arity: it
// collects the mapper pairs and the container, then dispatches to the
// derived definition registered for the container's type.
func (in *Interp) builtin(op string, arity int) Value {
	total := 2*arity + 1

	var collect func(bound []Value) Value

	collect = func(bound []Value) Value {
		return FuncValue{Fn: func(arg Value) (Value, error) {
			next := append(append([]Value(nil), bound...), arg)
			if len(next) < total {
				return collect(next), nil
			}

			container, ok := next[total-1].(ConValue)
			if !ok {
				return nil, errors.Errorf("%s applied to non-constructor value %s", op, next[total-1])
			}

			def, registered := in.defs[opKey{typeName: container.TypeName, op: op}]
			if !registered {
				return nil, errors.Errorf("no derived %s registered for type %s", op, container.TypeName)
			}

			return in.Call(def, next...)
		}}
	}

	return collect(nil)
}
