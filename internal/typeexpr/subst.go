package typeexpr

// Substitute replaces every free occurrence of the mapped variables in
// t with their replacement expressions. Quantified variables shadow the
// mapping, so capture is respected. Kind annotations pass through
// unchanged; kind-level substitution is a separate concern
// (SubstituteKinds).
func Substitute(m map[string]Expr, t Expr) Expr {
	if len(m) == 0 {
		return t
	}

	switch e := t.(type) {
	case Var:
		if repl, ok := m[e.Name]; ok {
			return repl
		}

		return e
	case Con:
		return e
	case App:
		return App{Fn: Substitute(m, e.Fn), Arg: Substitute(m, e.Arg)}
	case Sig:
		return Sig{Body: Substitute(m, e.Body), Kind: e.Kind}
	case Forall:
		inner := m
		cloned := false

		for _, b := range e.Binders {
			if _, shadowed := inner[b.Name]; shadowed {
				if !cloned {
					inner = cloneExprMap(m)
					cloned = true
				}

				delete(inner, b.Name)
			}
		}

		return Forall{Binders: e.Binders, Body: Substitute(inner, e.Body)}
	default:
		return t
	}
}

func cloneExprMap(m map[string]Expr) map[string]Expr {
	out := make(map[string]Expr, len(m))
	for k, v := range m {
		out[k] = v
	}

	return out
}

// SubstituteKinds replaces kind variables throughout a kind expression.
func SubstituteKinds(m map[string]Kind, k Kind) Kind {
	if len(m) == 0 || k == nil {
		return k
	}

	switch kk := k.(type) {
	case KindVar:
		if repl, ok := m[kk.Name]; ok {
			return repl
		}

		return kk
	case KindArrow:
		return KindArrow{Dom: SubstituteKinds(m, kk.Dom), Cod: SubstituteKinds(m, kk.Cod)}
	default:
		return k
	}
}

// SubstituteKindsExpr applies a kind substitution to every kind
// annotation inside a type expression, leaving the type structure
// untouched.
func SubstituteKindsExpr(m map[string]Kind, t Expr) Expr {
	if len(m) == 0 {
		return t
	}

	switch e := t.(type) {
	case Var, Con:
		return t
	case App:
		return App{Fn: SubstituteKindsExpr(m, e.Fn), Arg: SubstituteKindsExpr(m, e.Arg)}
	case Sig:
		return Sig{Body: SubstituteKindsExpr(m, e.Body), Kind: SubstituteKinds(m, e.Kind)}
	case Forall:
		binders := make([]Binder, len(e.Binders))
		for i, b := range e.Binders {
			binders[i] = Binder{Name: b.Name, Kind: SubstituteKinds(m, b.Kind)}
		}

		return Forall{Binders: binders, Body: SubstituteKindsExpr(m, e.Body)}
	default:
		return t
	}
}
