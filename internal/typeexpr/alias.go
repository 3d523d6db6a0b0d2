package typeexpr

import "fmt"

// Alias is the right-hand side of a type synonym together with its
// declared parameters.
type Alias struct {
	Params []string
	RHS    Expr
}

// Arity returns the number of declared alias parameters.
func (a Alias) Arity() int { return len(a.Params) }

// AliasResolver is the slice of the declaration environment that alias
// expansion needs.
type AliasResolver interface {
	// LookupAlias returns the alias declared under name, if any.
	LookupAlias(name string) (Alias, bool)
}

// maxAliasDepth bounds expansion so cyclic synonym declarations fail
// instead of looping.
const maxAliasDepth = 64

// ExpandAliases rewrites every alias application in t until none
// remain. Partially applied aliases are handled by splitting the
// argument list at the alias arity, substituting, and re-applying the
// leftover arguments. An alias applied to fewer arguments than it
// declares cannot be expanded and fails.
func ExpandAliases(res AliasResolver, t Expr) (Expr, error) {
	return expandAliases(res, t, 0)
}

func expandAliases(res AliasResolver, t Expr, depth int) (Expr, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("alias expansion exceeded depth %d (cyclic synonym?)", maxAliasDepth)
	}

	switch e := t.(type) {
	case Var:
		return e, nil

	case Con:
		if alias, ok := res.LookupAlias(e.Name); ok {
			if alias.Arity() > 0 {
				return nil, underApplied(e.Name, alias.Arity(), 0)
			}

			return expandAliases(res, alias.RHS, depth+1)
		}

		return e, nil

	case App:
		head, args := UncurryApp(e)

		con, isCon := head.(Con)
		if isCon {
			if alias, ok := res.LookupAlias(con.Name); ok {
				if len(args) < alias.Arity() {
					return nil, underApplied(con.Name, alias.Arity(), len(args))
				}

				subst := make(map[string]Expr, alias.Arity())
				for i, p := range alias.Params {
					subst[p] = args[i]
				}

				expanded := CurryApp(Substitute(subst, alias.RHS), args[alias.Arity():]...)

				return expandAliases(res, expanded, depth+1)
			}
		}

		expandedHead, err := expandAliases(res, head, depth+1)
		if err != nil {
			return nil, err
		}

		out := expandedHead
		for _, arg := range args {
			expandedArg, err := expandAliases(res, arg, depth+1)
			if err != nil {
				return nil, err
			}

			out = App{Fn: out, Arg: expandedArg}
		}

		return out, nil

	case Sig:
		body, err := expandAliases(res, e.Body, depth+1)
		if err != nil {
			return nil, err
		}

		return Sig{Body: body, Kind: e.Kind}, nil

	case Forall:
		body, err := expandAliases(res, e.Body, depth+1)
		if err != nil {
			return nil, err
		}

		return Forall{Binders: e.Binders, Body: body}, nil

	default:
		return t, nil
	}
}

func underApplied(name string, want, got int) error {
	return fmt.Errorf("alias %s expects %d type arguments, applied to %d", name, want, got)
}
