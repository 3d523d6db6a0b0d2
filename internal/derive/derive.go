// Package derive implements the invariant-mapping derivation: given a
// declaration environment and a request (type or family instance plus
// operation arity), it resolves a transformation strategy per
// constructor field and synthesizes the derived definition.
package derive

import (
	"strconv"
	"strings"

	"invmap-generator/internal/codegen"
	"invmap-generator/internal/decl"
	"invmap-generator/internal/diagnostic"
	"invmap-generator/internal/kindcheck"
	"invmap-generator/internal/typeexpr"
)

// opName returns the operation name for an arity.
func opName(arity int) string {
	if arity == 2 {
		return "invmap2"
	}

	return "invmap"
}

// mapperNames are the conventional mapper parameter names, one pair per
// active variable. Field and closure binders come from the fresh-name
// supply and cannot collide with them.
var mapperNames = [][2]string{{"f", "g"}, {"h", "i"}}

// DeriveRequest dispatches a schema derive request.
func DeriveRequest(env decl.Env, req decl.Request) (*codegen.Definition, *diagnostic.DerivationError) {
	if req.Instance >= 0 {
		return DeriveInstance(env, req.Type, req.Instance, req.Arity)
	}

	return Derive(env, req.Type, req.Arity)
}

// Derive derives the operation of the given arity for a named data
// type: the trailing arity parameters become the active variables.
func Derive(env decl.Env, typeName string, arity int) (*codegen.Definition, *diagnostic.DerivationError) {
	if derr := checkArity(typeName, arity); derr != nil {
		return nil, derr
	}

	td, ok := env.LookupType(typeName)
	if !ok {
		if env.IsTypeFamily(typeName) {
			return nil, diagnostic.Errorf(diagnostic.DeclarationNotFound, typeName,
				"%s is a data family; derive one of its instances", typeName)
		}

		return nil, diagnostic.Errorf(diagnostic.DeclarationNotFound, typeName,
			"no data type declared under this name")
	}

	if len(td.Binders) < arity {
		return nil, diagnostic.Errorf(diagnostic.ArityMismatch, typeName,
			"type has %d parameters, %s needs %d", len(td.Binders), opName(arity), arity)
	}

	split := len(td.Binders) - arity
	inactive := td.Binders[:split]

	headArgs := make([]string, 0, split)
	for _, b := range inactive {
		headArgs = append(headArgs, b.Name)
	}

	return deriveCore(env, coreInput{
		arity:        arity,
		defName:      typeName,
		headCon:      typeName,
		headArgs:     headArgs,
		binders:      td.Binders,
		active:       td.Binders[split:],
		constructors: td.Constructors,
	})
}

// DeriveInstance derives the operation for one instance of a data
// family, identified by its zero-based declaration ordinal. The
// instance head is eta-reduced first.
func DeriveInstance(env decl.Env, family string, index, arity int) (*codegen.Definition, *diagnostic.DerivationError) {
	if derr := checkArity(family, arity); derr != nil {
		return nil, derr
	}

	fam, ok := env.LookupFamily(family)
	if !ok {
		return nil, diagnostic.Errorf(diagnostic.DeclarationNotFound, family,
			"no data family declared under this name")
	}

	if index < 0 || index >= len(fam.Instances) {
		return nil, diagnostic.Errorf(diagnostic.DeclarationNotFound, family,
			"family declares %d instances, requested instance #%d", len(fam.Instances), index+1)
	}

	inst := fam.Instances[index]

	active, prefix, derr := EtaReduce(family, inst, arity)
	if derr != nil {
		return nil, derr
	}

	headArgs := make([]string, 0, len(prefix))
	for _, arg := range prefix {
		headArgs = append(headArgs, renderHeadArg(arg))
	}

	return deriveCore(env, coreInput{
		arity:        arity,
		defName:      family + strconv.Itoa(index+1),
		headCon:      family,
		headArgs:     headArgs,
		binders:      inst.Binders,
		active:       active,
		constructors: inst.Constructors,
	})
}

// coreInput is the shared derivation input after the type/instance
// dispatch has resolved binders and head shape.
type coreInput struct {
	arity int
	// defName suffixes the emitted definition name, e.g. "Pair" for
	// invmapPair or "Rep2" for the second Rep instance.
	defName string
	// headCon is the head constructor, used for the retag type argument.
	headCon string
	// headArgs are the rendered inactive head arguments.
	headArgs []string
	// binders are all parameters in scope; active the trailing arity
	// ones holding element values.
	binders      []typeexpr.Binder
	active       []typeexpr.Binder
	constructors []decl.ConstructorSpec
}

func deriveCore(env decl.Env, in coreInput) (*codegen.Definition, *diagnostic.DerivationError) {
	statuses := make([]kindcheck.Status, 0, len(in.active))

	for _, b := range in.active {
		status := kindcheck.ClassifyBinder(b)
		if status.Kind == kindcheck.NotKindStar {
			return nil, diagnostic.Errorf(diagnostic.ArityMismatch, in.headCon,
				"active parameter %s has kind %s, want *", b.Name, b.Kind)
		}

		statuses = append(statuses, status)
	}

	kindSubst := kindcheck.Reconcile(statuses)

	activeNames := make([]string, 0, len(in.active))
	pairs := make([]MapperPair, 0, len(in.active))

	for i, b := range in.active {
		activeNames = append(activeNames, b.Name)
		pairs = append(pairs, MapperPair{
			Forward:  mapperNames[i][0],
			Backward: mapperNames[i][1],
		})
	}

	table, err := NewMapperTable(activeNames, pairs)
	if err != nil {
		return nil, diagnostic.Errorf(diagnostic.InvalidEtaReduction, in.headCon, "%v", err)
	}

	names := newNameSupply()
	resolver := NewResolver(env, table, in.binders, kindSubst, names, in.headCon)

	alts := make([]codegen.Alternative, 0, len(in.constructors))

	for _, con := range in.constructors {
		alt := codegen.Alternative{Constructor: con.Name, Retag: true}

		for i, field := range con.Fields {
			strategy, derr := resolver.Resolve(field)
			if derr != nil {
				return nil, derr.At(con.Name, i+1)
			}

			if strategy.Kind != StrategyIdentity {
				alt.Retag = false
			}

			alt.FieldVars = append(alt.FieldVars, names.next("x"))
			alt.Transforms = append(alt.Transforms, strategy.TransformExpr())
		}

		alts = append(alts, alt)
	}

	op := opName(in.arity)

	params := make([]string, 0, 2*in.arity+1)
	for _, p := range pairs {
		params = append(params, p.Forward, p.Backward)
	}

	params = append(params, "x")

	return &codegen.Definition{
		Name:      op + in.defName,
		Op:        op,
		TypeName:  strings.TrimSpace(in.headCon + " " + strings.Join(in.headArgs, " ")),
		Signature: signature(in.headCon, in.headArgs, activeNames),
		Params:    params,
		Body:      codegen.SynthesizeBody(in.headCon, "x", alts),
	}, nil
}

func checkArity(typeName string, arity int) *diagnostic.DerivationError {
	if arity != 1 && arity != 2 {
		return diagnostic.Errorf(diagnostic.ArityMismatch, typeName,
			"unsupported operation arity %d (want 1 or 2)", arity)
	}

	return nil
}

// signature renders the human-readable type of the derived definition,
// priming each active variable at the target side.
func signature(headCon string, headArgs, active []string) string {
	var sb strings.Builder

	for _, a := range active {
		sb.WriteString("(")
		sb.WriteString(a)
		sb.WriteString(" -> ")
		sb.WriteString(a)
		sb.WriteString("') -> (")
		sb.WriteString(a)
		sb.WriteString("' -> ")
		sb.WriteString(a)
		sb.WriteString(") -> ")
	}

	src := append([]string{headCon}, headArgs...)
	tgt := append([]string(nil), src...)

	for _, a := range active {
		src = append(src, a)
		tgt = append(tgt, a+"'")
	}

	sb.WriteString(strings.Join(src, " "))
	sb.WriteString(" -> ")
	sb.WriteString(strings.Join(tgt, " "))

	return sb.String()
}

// renderHeadArg renders one retained instance head argument for
// signatures and file naming, parenthesizing applications.
func renderHeadArg(arg typeexpr.Expr) string {
	switch typeexpr.Peel(arg).(type) {
	case typeexpr.App, typeexpr.Forall:
		return "(" + arg.String() + ")"
	default:
		return arg.String()
	}
}

// DeriveAll runs every derive request recorded in the schema, in
// declaration order. Failed requests are collected as diagnostics and
// do not stop the remaining ones.
func DeriveAll(set *decl.DeclSet) ([]*codegen.Definition, diagnostic.Diagnostics) {
	var (
		defs  []*codegen.Definition
		diags diagnostic.Diagnostics
	)

	for _, req := range set.Requests {
		def, derr := DeriveRequest(set, req)
		if derr != nil {
			diags.AddError(derr)

			continue
		}

		defs = append(defs, def)
	}

	return defs, diags
}
