package derive

import (
	"invmap-generator/internal/codegen"
	"invmap-generator/internal/common"
	"invmap-generator/internal/decl"
	"invmap-generator/internal/diagnostic"
	"invmap-generator/internal/kindcheck"
	"invmap-generator/internal/typeexpr"
)

// Resolver computes the transformation strategy for constructor fields
// of one derivation. It is built per request and carries the mapper
// table, the declared parameter kinds, and the fresh-name supply.
type Resolver struct {
	env    decl.Env
	table  *MapperTable
	active map[string]bool

	// binderKinds holds the declared kind of every parameter in scope,
	// as written. A parameter absent from the map has no kind evidence
	// and is treated permissively.
	binderKinds map[string]typeexpr.Kind
	// forcedVars are the kind variables reconciliation forced to star.
	forcedVars map[string]bool
	kindSubst  map[string]typeexpr.Kind

	names    *nameSupply
	typeName string
}

// NewResolver builds a resolver over the given environment. binders are
// all parameters in scope for the declaration, kindSubst the
// star-forcing substitution produced by kind reconciliation.
func NewResolver(env decl.Env, table *MapperTable, binders []typeexpr.Binder,
	kindSubst map[string]typeexpr.Kind, names *nameSupply, typeName string,
) *Resolver {
	kinds := make(map[string]typeexpr.Kind, len(binders))
	for _, b := range binders {
		kinds[b.Name] = b.Kind
	}

	forced := make(map[string]bool, len(kindSubst))
	for v := range kindSubst {
		forced[v] = true
	}

	return &Resolver{
		env:         env,
		table:       table,
		active:      table.ActiveSet(),
		binderKinds: kinds,
		forcedVars:  forced,
		kindSubst:   kindSubst,
		names:       names,
		typeName:    typeName,
	}
}

// Resolve computes the field strategy for one constructor field.
// Aliases are expanded first, so a synonym never changes the outcome.
func (r *Resolver) Resolve(field typeexpr.Expr) (FieldStrategy, *diagnostic.DerivationError) {
	expanded, err := typeexpr.ExpandAliases(r.env, field)
	if err != nil {
		return FieldStrategy{}, diagnostic.Errorf(diagnostic.UnsupportedFieldShape, r.typeName,
			"field type %s: %v", field, err)
	}

	expanded = typeexpr.SubstituteKindsExpr(r.kindSubst, expanded)

	if !typeexpr.Mentions(expanded, r.active) {
		return FieldStrategy{Kind: StrategyIdentity}, nil
	}

	if name, ok := typeexpr.IsBareVar(expanded); ok {
		if pair, active := r.table.Lookup(name); active {
			return FieldStrategy{Kind: StrategyDirectMap, Pair: pair}, nil
		}
	}

	transform, derr := r.mapper(expanded, dirForward)
	if derr != nil {
		return FieldStrategy{}, derr
	}

	kind := StrategyRecursiveMap
	if _, _, isArrow := typeexpr.SplitArrow(expanded); isArrow {
		kind = StrategyFunctionMap
	}

	return FieldStrategy{Kind: kind, Transform: transform}, nil
}

// mapper builds the transformer expression for a type that mentions at
// least one active variable. dir selects which half of each mapper pair
// applies at this position; it flips under every function domain.
func (r *Resolver) mapper(t typeexpr.Expr, dir direction) (codegen.Expr, *diagnostic.DerivationError) {
	t = typeexpr.Peel(t)

	if name, ok := typeexpr.IsBareVar(t); ok {
		if pair, active := r.table.Lookup(name); active {
			if dir == dirBackward {
				pair = pair.Swap()
			}

			return codegen.Var{Name: pair.Forward}, nil
		}

		return codegen.IdentityLambda(r.names.next("v")), nil
	}

	if _, ok := t.(typeexpr.Forall); ok {
		return nil, diagnostic.Errorf(diagnostic.UnsupportedFieldShape, r.typeName,
			"active type variable occurs under a quantifier in %s", t)
	}

	if dom, cod, ok := typeexpr.SplitArrow(t); ok {
		return r.functionMapper(dom, cod, dir)
	}

	return r.applicationMapper(t, dir)
}

// functionMapper conjugates a function value: backward mappers feed the
// domains, the forward mapper follows the result.
func (r *Resolver) functionMapper(dom, cod typeexpr.Expr, dir direction) (codegen.Expr, *diagnostic.DerivationError) {
	// Flatten the full arrow chain so multi-argument functions wrap in
	// one closure instead of one per arrow.
	comps := []typeexpr.Expr{dom}
	res := cod

	for {
		d, c, ok := typeexpr.SplitArrow(res)
		if !ok {
			break
		}

		comps = append(comps, d)
		res = c
	}

	fnVar := r.names.next("h")
	params := make([]string, len(comps))
	args := make([]codegen.Expr, len(comps))

	for i, comp := range comps {
		params[i] = r.names.next("x")
		args[i] = codegen.Var{Name: params[i]}

		if typeexpr.Mentions(comp, r.active) {
			back, derr := r.mapper(comp, dir.flip())
			if derr != nil {
				return nil, derr
			}

			args[i] = codegen.ApplyTo(back, args[i])
		}
	}

	body := codegen.ApplyTo(codegen.Var{Name: fnVar}, args...)

	if typeexpr.Mentions(res, r.active) {
		fwd, derr := r.mapper(res, dir)
		if derr != nil {
			return nil, derr
		}

		body = codegen.ApplyTo(fwd, body)
	}

	return codegen.Lambda{
		Params: []string{fnVar},
		Body:   codegen.Lambda{Params: params, Body: body},
	}, nil
}

// applicationMapper recurses through a type-constructor application.
// Only the trailing two argument positions are mappable: the last via
// the unary operation, the last two via the binary one.
func (r *Resolver) applicationMapper(t typeexpr.Expr, dir direction) (codegen.Expr, *diagnostic.DerivationError) {
	head, args := typeexpr.UncurryApp(t)
	head = typeexpr.Peel(head)

	if derr := r.checkHead(head, len(args)); derr != nil {
		return nil, derr
	}

	n := len(args)
	if n == 0 {
		return nil, diagnostic.Errorf(diagnostic.UnsupportedFieldShape, r.typeName,
			"active type variable occurs only inside a kind annotation of %s", t)
	}

	for i := 0; i < n-2; i++ {
		if typeexpr.Mentions(args[i], r.active) {
			return nil, diagnostic.Errorf(diagnostic.UnsupportedFieldShape, r.typeName,
				"active type variable occurs in argument %d of %s, before the mappable trailing positions",
				i+1, t)
		}
	}

	if n >= 2 && typeexpr.Mentions(args[n-2], r.active) {
		first, derr := r.argumentPair(args[n-2], dir)
		if derr != nil {
			return nil, derr
		}

		second, derr := r.argumentPair(args[n-1], dir)
		if derr != nil {
			return nil, derr
		}

		return codegen.Apply{
			Fn:   codegen.Var{Name: "invmap2"},
			Args: append(first, second...),
		}, nil
	}

	last, _ := common.Last(args)

	pair, derr := r.argumentPair(last, dir)
	if derr != nil {
		return nil, derr
	}

	return codegen.Apply{Fn: codegen.Var{Name: "invmap"}, Args: pair}, nil
}

// argumentPair builds the forward/backward transformer pair for one
// mapped argument position, in the order the recursive call expects.
func (r *Resolver) argumentPair(arg typeexpr.Expr, dir direction) ([]codegen.Expr, *diagnostic.DerivationError) {
	if !typeexpr.Mentions(arg, r.active) {
		id := codegen.IdentityLambda(r.names.next("v"))
		return []codegen.Expr{id, id}, nil
	}

	fwd, derr := r.mapper(arg, dir)
	if derr != nil {
		return nil, derr
	}

	back, derr := r.mapper(arg, dir.flip())
	if derr != nil {
		return nil, derr
	}

	return []codegen.Expr{fwd, back}, nil
}

// checkHead validates the head of an application the recursion passes
// through.
func (r *Resolver) checkHead(head typeexpr.Expr, argc int) *diagnostic.DerivationError {
	switch h := head.(type) {
	case typeexpr.Var:
		if r.active[h.Name] {
			return diagnostic.Errorf(diagnostic.UnsupportedFieldShape, r.typeName,
				"active type variable %s applied as a type constructor", h.Name)
		}

		return r.checkHeadVarKind(h.Name, argc)

	case typeexpr.Con:
		if r.env.IsTypeFamily(h.Name) {
			return diagnostic.Errorf(diagnostic.UnsupportedFieldShape, r.typeName,
				"data family %s applied in a field position", h.Name)
		}

		// Undeclared constructors stay permissive; a declared type cannot
		// take more arguments than it has parameters.
		if td, declared := r.env.LookupType(h.Name); declared && argc > len(td.Binders) {
			return diagnostic.Errorf(diagnostic.ArityMismatch, r.typeName,
				"%s declares %d parameters but is applied to %d arguments",
				h.Name, len(td.Binders), argc)
		}

		return nil

	default:
		return diagnostic.Errorf(diagnostic.UnsupportedFieldShape, r.typeName,
			"unmappable application head %s", head)
	}
}

// checkHeadVarKind validates an inactive parameter used as an
// application head against its declared kind. Parameters without kind
// evidence pass.
func (r *Resolver) checkHeadVarKind(name string, argc int) *diagnostic.DerivationError {
	declared, known := r.binderKinds[name]
	if !known || declared == nil {
		return nil
	}

	if kv, isVar := declared.(typeexpr.KindVar); isVar && r.forcedVars[kv.Name] && argc > 0 {
		return diagnostic.Errorf(diagnostic.KindVariableUnresolved, r.typeName,
			"kind variable %s was resolved to * but parameter %s is applied to %d arguments",
			kv.Name, name, argc)
	}

	resolved := typeexpr.SubstituteKinds(r.kindSubst, declared)
	if _, ok := kindcheck.ArrowChain(argc, resolved); !ok {
		return diagnostic.Errorf(diagnostic.ArityMismatch, r.typeName,
			"parameter %s of kind %s cannot be applied to %d arguments here",
			name, resolved, argc)
	}

	return nil
}
