// Package kindcheck classifies the kinds of type parameters for
// derivation. The derived operations transform element values, so every
// active parameter must end up at kind star; parameters declared with a
// kind variable are forced there by reconciliation.
package kindcheck

import (
	"invmap-generator/internal/typeexpr"
)

// StatusKind is the tri-state outcome of classifying a parameter.
type StatusKind int

const (
	// KindStar - the parameter is definitely of kind star.
	KindStar StatusKind = iota
	// NotKindStar - the parameter definitely has some other kind.
	NotKindStar
	// IsKindVar - the parameter's kind is exactly a kind variable,
	// recorded in Status.Var.
	IsKindVar
)

// String returns a human-readable status name.
func (k StatusKind) String() string {
	switch k {
	case KindStar:
		return "star"
	case NotKindStar:
		return "not-star"
	case IsKindVar:
		return "kind-variable"
	default:
		return "unknown"
	}
}

// Status is the classification of one parameter. Var is set only for
// IsKindVar.
type Status struct {
	Kind StatusKind
	Var  string
}

// ClassifyBinder classifies a declared type parameter. An unannotated
// binder defaults to star.
func ClassifyBinder(b typeexpr.Binder) Status {
	if b.Kind == nil {
		return Status{Kind: KindStar}
	}

	return classifyKind(b.Kind)
}

// ClassifyExpr classifies a type expression by its outermost kind
// evidence: a bare variable defaults to star, an annotation is taken at
// face value, anything else is not star.
func ClassifyExpr(t typeexpr.Expr) Status {
	switch e := t.(type) {
	case typeexpr.Var:
		return Status{Kind: KindStar}
	case typeexpr.Sig:
		return classifyKind(e.Kind)
	default:
		return Status{Kind: NotKindStar}
	}
}

func classifyKind(k typeexpr.Kind) Status {
	switch kk := k.(type) {
	case typeexpr.Star:
		return Status{Kind: KindStar}
	case typeexpr.KindVar:
		return Status{Kind: IsKindVar, Var: kk.Name}
	default:
		return Status{Kind: NotKindStar}
	}
}

// Reconcile collects every kind variable across the given statuses and
// produces the substitution forcing each one to star. The active
// parameters of a derived operation hold element values, so a
// polymorphic kind on one of them can only mean star.
func Reconcile(statuses []Status) map[string]typeexpr.Kind {
	subst := map[string]typeexpr.Kind{}

	for _, s := range statuses {
		if s.Kind == IsKindVar {
			subst[s.Var] = typeexpr.Star{}
		}
	}

	return subst
}

// ArrowChain tests whether k is exactly a chain of arity arrows whose
// components all resolve to star or to a kind variable, returning the
// kind variables encountered. A nil kind is treated as polymorphic and
// accepted with no variables.
func ArrowChain(arity int, k typeexpr.Kind) ([]string, bool) {
	if k == nil {
		return nil, true
	}

	var vars []string

	for i := 0; i < arity; i++ {
		arrow, ok := k.(typeexpr.KindArrow)
		if !ok {
			return nil, false
		}

		if !starOrVar(arrow.Dom, &vars) {
			return nil, false
		}

		k = arrow.Cod
	}

	if !starOrVar(k, &vars) {
		return nil, false
	}

	return vars, true
}

func starOrVar(k typeexpr.Kind, vars *[]string) bool {
	switch kk := k.(type) {
	case typeexpr.Star:
		return true
	case typeexpr.KindVar:
		*vars = append(*vars, kk.Name)
		return true
	default:
		return false
	}
}
