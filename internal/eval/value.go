// Package eval is a small interpreter for the generated definitions.
// It executes the synthesized expression trees directly against runtime
// values, which lets round-trip properties of a derivation be checked
// without a compiler for the output language.
package eval

import (
	"fmt"
	"strings"
)

// Value is a runtime value.
type Value interface {
	valueNode()
	String() string
}

// ConValue is a saturated or partially applied data constructor.
// TypeName names the owning declaration and drives dispatch of the
// mapping builtins.
type ConValue struct {
	TypeName string
	Con      string
	Args     []Value
}

// PrimValue wraps an opaque host value. The interpreter never inspects
// it; mappers supplied by the caller do.
type PrimValue struct {
	V any
}

// FuncValue is a unary function value. Multi-parameter lambdas evaluate
// to nested FuncValues.
type FuncValue struct {
	Fn func(Value) (Value, error)
}

func (ConValue) valueNode()  {}
func (PrimValue) valueNode() {}
func (FuncValue) valueNode() {}

func (v ConValue) String() string {
	if len(v.Args) == 0 {
		return v.Con
	}

	parts := make([]string, 0, len(v.Args)+1)
	parts = append(parts, v.Con)

	for _, a := range v.Args {
		s := a.String()
		if c, ok := a.(ConValue); ok && len(c.Args) > 0 {
			s = "(" + s + ")"
		}

		parts = append(parts, s)
	}

	return strings.Join(parts, " ")
}

func (v PrimValue) String() string { return fmt.Sprintf("%v", v.V) }

func (FuncValue) String() string { return "<function>" }

// Prim wraps a host value.
func Prim(v any) Value { return PrimValue{V: v} }

// Func wraps a host function.
func Func(fn func(Value) (Value, error)) Value { return FuncValue{Fn: fn} }

// PrimFunc lifts a total host function over wrapped primitives. It
// fails at call time when the argument is not a PrimValue.
func PrimFunc(fn func(any) any) Value {
	return FuncValue{Fn: func(arg Value) (Value, error) {
		p, ok := arg.(PrimValue)
		if !ok {
			return nil, fmt.Errorf("expected primitive value, got %s", arg)
		}

		return PrimValue{V: fn(p.V)}, nil
	}}
}

// Equal reports deep structural equality of two values. Function values
// are never equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case PrimValue:
		bv, ok := b.(PrimValue)
		return ok && av.V == bv.V
	case ConValue:
		bv, ok := b.(ConValue)
		if !ok || av.Con != bv.Con || av.TypeName != bv.TypeName || len(av.Args) != len(bv.Args) {
			return false
		}

		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}

		return true
	default:
		return false
	}
}
