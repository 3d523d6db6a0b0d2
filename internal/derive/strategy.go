package derive

import (
	"invmap-generator/internal/codegen"
)

//go:generate go tool stringer -type=StrategyKind -output=strategykind_string.go

// StrategyKind tags how a single constructor field is transformed.
// The set is closed: the resolver switches exhaustively over it, and an
// unhandled field shape fails the derivation rather than falling
// through.
type StrategyKind int

const (
	_ StrategyKind = iota // skip zero value, use it as a default (invalid) value for StrategyKind

	// StrategyIdentity - the field mentions no active variable and is
	// passed through unchanged.
	StrategyIdentity
	// StrategyDirectMap - the field type is exactly an active variable;
	// its mapper applies directly.
	StrategyDirectMap
	// StrategyRecursiveMap - the field is a type-constructor application
	// with active variables in mappable trailing positions; the mapping
	// operation recurses with composed mapper pairs.
	StrategyRecursiveMap
	// StrategyFunctionMap - the field is a function type; mappers apply
	// by conjugation, backward on domains and forward on the range.
	StrategyFunctionMap
)

// FieldStrategy is the resolved transformation for one field. Computed
// per field and consumed immediately by the synthesizer.
type FieldStrategy struct {
	Kind StrategyKind
	// Pair is set for StrategyDirectMap.
	Pair MapperPair
	// Transform is the composed transformer expression for
	// StrategyRecursiveMap and StrategyFunctionMap.
	Transform codegen.Expr
}

// TransformExpr returns the expression to apply to the bound field
// value, or nil when the field passes through unchanged.
func (s FieldStrategy) TransformExpr() codegen.Expr {
	switch s.Kind {
	case StrategyIdentity:
		return nil
	case StrategyDirectMap:
		return codegen.Var{Name: s.Pair.Forward}
	case StrategyRecursiveMap, StrategyFunctionMap:
		return s.Transform
	default:
		return nil
	}
}
