// Package typeexpr defines the type-expression and kind-expression
// trees the derivation works on, together with the structural queries
// the resolver needs.
//
// Key types:
//   - Expr: closed sum of variable/constructor references, applications,
//     universal quantifiers, and kind-annotated wrappers
//   - Kind: closed sum of star, kind arrows, and kind variables
//   - Binder: a declared type variable with an optional kind signature
//
// Expressions are immutable; every query builds fresh values.
package typeexpr

import (
	"strings"

	"invmap-generator/internal/common"
)

// ArrowName is the constructor name of the builtin function arrow.
// An arrow type a -> b is represented as App(App(Con{ArrowName}, a), b),
// which keeps the left-spine invariant: unwinding any application chain
// terminates in a constructor or variable reference.
const ArrowName = "->"

// ListName is the constructor name of the builtin list type.
const ListName = "[]"

// Expr is a type expression node.
type Expr interface {
	exprNode()
	// Equal reports structural equality, ignoring nothing: kind
	// annotations and binder order are significant.
	Equal(Expr) bool
	String() string
}

// Var is a reference to a type variable.
type Var struct {
	Name string
}

// Con is a reference to a named type constructor (including the
// builtin "->" and "[]" constructors).
type Con struct {
	Name string
}

// App applies a type expression to a single argument. Multi-argument
// application is a left-nested chain of Apps.
type App struct {
	Fn  Expr
	Arg Expr
}

// Forall wraps a body in a universal quantifier.
type Forall struct {
	Binders []Binder
	Body    Expr
}

// Sig attaches an explicit kind signature to an expression.
type Sig struct {
	Body Expr
	Kind Kind
}

func (Var) exprNode()    {}
func (Con) exprNode()    {}
func (App) exprNode()    {}
func (Forall) exprNode() {}
func (Sig) exprNode()    {}

func (v Var) Equal(other Expr) bool {
	o, ok := other.(Var)
	return ok && o.Name == v.Name
}

func (c Con) Equal(other Expr) bool {
	o, ok := other.(Con)
	return ok && o.Name == c.Name
}

func (a App) Equal(other Expr) bool {
	o, ok := other.(App)
	return ok && a.Fn.Equal(o.Fn) && a.Arg.Equal(o.Arg)
}

func (f Forall) Equal(other Expr) bool {
	o, ok := other.(Forall)
	if !ok || len(o.Binders) != len(f.Binders) {
		return false
	}

	for i := range f.Binders {
		if !f.Binders[i].Equal(o.Binders[i]) {
			return false
		}
	}

	return f.Body.Equal(o.Body)
}

func (s Sig) Equal(other Expr) bool {
	o, ok := other.(Sig)
	return ok && s.Body.Equal(o.Body) && s.Kind.Equal(o.Kind)
}

// Kind is a kind expression node.
type Kind interface {
	kindNode()
	Equal(Kind) bool
	String() string
}

// Star is the kind of ordinary (value-inhabited) types.
type Star struct{}

// KindArrow is a kind-level function arrow.
type KindArrow struct {
	Dom Kind
	Cod Kind
}

// KindVar is a kind variable.
type KindVar struct {
	Name string
}

func (Star) kindNode()      {}
func (KindArrow) kindNode() {}
func (KindVar) kindNode()   {}

func (Star) Equal(other Kind) bool {
	_, ok := other.(Star)
	return ok
}

func (a KindArrow) Equal(other Kind) bool {
	o, ok := other.(KindArrow)
	return ok && a.Dom.Equal(o.Dom) && a.Cod.Equal(o.Cod)
}

func (v KindVar) Equal(other Kind) bool {
	o, ok := other.(KindVar)
	return ok && o.Name == v.Name
}

func (Star) String() string { return "*" }

func (a KindArrow) String() string {
	dom := a.Dom.String()
	if _, nested := a.Dom.(KindArrow); nested {
		dom = "(" + dom + ")"
	}

	return dom + " -> " + a.Cod.String()
}

func (v KindVar) String() string { return v.Name }

// Binder is a declared type variable, optionally kind-annotated.
// A nil Kind defaults to star at use sites.
type Binder struct {
	Name string
	Kind Kind
}

// Equal reports whether two binders have the same name and signature.
func (b Binder) Equal(other Binder) bool {
	if b.Name != other.Name {
		return false
	}

	if b.Kind == nil || other.Kind == nil {
		return b.Kind == nil && other.Kind == nil
	}

	return b.Kind.Equal(other.Kind)
}

func (b Binder) String() string {
	if b.Kind == nil {
		return b.Name
	}

	return "(" + b.Name + " :: " + b.Kind.String() + ")"
}

// Arrow builds the function type dom -> cod.
func Arrow(dom, cod Expr) Expr {
	return App{Fn: App{Fn: Con{Name: ArrowName}, Arg: dom}, Arg: cod}
}

// CurryApp applies head to args left to right.
func CurryApp(head Expr, args ...Expr) Expr {
	t := head
	for _, a := range args {
		t = App{Fn: t, Arg: a}
	}

	return t
}

// UncurryApp unwinds a left-nested application chain into its head and
// argument list. A non-application expression is its own head.
func UncurryApp(t Expr) (Expr, []Expr) {
	var args []Expr

	for {
		app, ok := t.(App)
		if !ok {
			// Arguments were accumulated innermost-first.
			return t, common.Reversed(args)
		}

		args = append(args, app.Arg)
		t = app.Fn
	}
}

// SplitArrow splits a function type into its domain and codomain.
// Kind annotations on the arrow spine are peeled first.
func SplitArrow(t Expr) (dom, cod Expr, ok bool) {
	head, args := UncurryApp(Peel(t))
	if con, isCon := head.(Con); isCon && con.Name == ArrowName && len(args) == 2 {
		return args[0], args[1], true
	}

	return nil, nil, false
}

// UncurryFunc unwinds a chain of quantifiers and arrows into the peeled
// binders and a flat component list whose last element is the result
// type. A non-function type yields a single component.
func UncurryFunc(t Expr) ([]Binder, []Expr) {
	var binders []Binder

	for {
		if fa, ok := Peel(t).(Forall); ok {
			binders = append(binders, fa.Binders...)
			t = fa.Body

			continue
		}

		break
	}

	var comps []Expr

	for {
		dom, cod, ok := SplitArrow(t)
		if !ok {
			comps = append(comps, t)
			return binders, comps
		}

		comps = append(comps, dom)
		t = cod
	}
}

// Peel strips kind-signature wrappers from the outside of t.
func Peel(t Expr) Expr {
	for {
		sig, ok := t.(Sig)
		if !ok {
			return t
		}

		t = sig.Body
	}
}

// IsBareVar reports whether t, after peeling kind annotations, is a
// plain variable reference, and returns its name.
func IsBareVar(t Expr) (string, bool) {
	if v, ok := Peel(t).(Var); ok {
		return v.Name, true
	}

	return "", false
}

// FreeVars collects every variable reference in t in a left-to-right
// traversal, with duplicates, including variables that only occur
// inside kind annotations.
func FreeVars(t Expr) []string {
	var names []string

	collectFree(t, map[string]bool{}, &names)

	return names
}

func collectFree(t Expr, bound map[string]bool, out *[]string) {
	switch e := t.(type) {
	case Var:
		if !bound[e.Name] {
			*out = append(*out, e.Name)
		}
	case Con:
		// No variables.
	case App:
		collectFree(e.Fn, bound, out)
		collectFree(e.Arg, bound, out)
	case Sig:
		collectFree(e.Body, bound, out)
		collectKindVars(e.Kind, out)
	case Forall:
		inner := map[string]bool{}
		for name := range bound {
			inner[name] = true
		}

		for _, b := range e.Binders {
			if b.Kind != nil {
				collectKindVars(b.Kind, out)
			}

			inner[b.Name] = true
		}

		collectFree(e.Body, inner, out)
	}
}

func collectKindVars(k Kind, out *[]string) {
	switch kk := k.(type) {
	case KindVar:
		*out = append(*out, kk.Name)
	case KindArrow:
		collectKindVars(kk.Dom, out)
		collectKindVars(kk.Cod, out)
	case Star:
	}
}

// Mentions reports whether any of the given variable names occurs free
// in t.
func Mentions(t Expr, names map[string]bool) bool {
	for _, v := range FreeVars(t) {
		if names[v] {
			return true
		}
	}

	return false
}

func (v Var) String() string { return v.Name }

func (c Con) String() string {
	if c.Name == ArrowName {
		return "(->)"
	}

	return c.Name
}

func (a App) String() string {
	if dom, cod, ok := SplitArrow(a); ok {
		return parenArrowDom(dom) + " -> " + cod.String()
	}

	head, args := UncurryApp(a)
	if con, ok := head.(Con); ok && con.Name == ListName && len(args) == 1 {
		return "[" + args[0].String() + "]"
	}

	parts := []string{head.String()}
	for _, arg := range args {
		parts = append(parts, parenAtom(arg))
	}

	return strings.Join(parts, " ")
}

func (f Forall) String() string {
	parts := make([]string, 0, len(f.Binders))
	for _, b := range f.Binders {
		parts = append(parts, b.String())
	}

	return "forall " + strings.Join(parts, " ") + ". " + f.Body.String()
}

func (s Sig) String() string {
	return "(" + s.Body.String() + " :: " + s.Kind.String() + ")"
}

// parenAtom parenthesizes an expression used in argument position.
func parenAtom(t Expr) string {
	switch e := t.(type) {
	case App:
		head, args := UncurryApp(e)
		if con, ok := head.(Con); ok && con.Name == ListName && len(args) == 1 {
			return e.String()
		}

		return "(" + e.String() + ")"
	case Forall:
		return "(" + e.String() + ")"
	default:
		return t.String()
	}
}

// parenArrowDom parenthesizes arrows and quantifiers appearing as a
// function domain. Application binds tighter than the arrow, so bare
// applications stay unwrapped.
func parenArrowDom(t Expr) string {
	if _, _, ok := SplitArrow(t); ok {
		return "(" + t.String() + ")"
	}

	if _, ok := t.(Forall); ok {
		return "(" + t.String() + ")"
	}

	return t.String()
}
