// Package codegen synthesizes and renders the derived function
// definitions.
//
// The synthesizer assembles a case-analysis expression (one alternative
// per constructor) from per-field transformers; nested recursion is
// modeled as composed closure expressions, so arbitrary nesting depth
// stays uniform. The renderer pretty-prints the expression tree to the
// declaration language's surface syntax, and a text/template wraps the
// definitions into generated files.
package codegen

import "strings"

// Expr is an output-language expression node.
type Expr interface {
	irNode()
}

// Var references a bound variable (mapper parameter, field binder, or
// a builtin operation name such as "invmap").
type Var struct {
	Name string
}

// Con references a data constructor.
type Con struct {
	Name string
}

// Apply applies a function expression to one or more arguments.
type Apply struct {
	Fn   Expr
	Args []Expr
}

// Lambda abstracts over one or more parameters.
type Lambda struct {
	Params []string
	Body   Expr
}

// Case analyses a scrutinee with one alternative per constructor.
type Case struct {
	Scrutinee Expr
	Alts      []Alt
}

// Alt is one case alternative: positional destructuring of a
// constructor followed by a reconstruction body.
type Alt struct {
	Con     string
	Binders []string
	Body    Expr
}

// Retag is the type-restricted constant helper applied to constructors
// that mention no active variable: it ignores the mappers and rebuilds
// the value at the target parameterization. The explicit type argument
// pins the result type so it cannot be inferred at the source
// parameterization.
type Retag struct {
	TypeName string
}

func (Var) irNode()    {}
func (Con) irNode()    {}
func (Apply) irNode()  {}
func (Lambda) irNode() {}
func (Case) irNode()   {}
func (Retag) irNode()  {}

// IdentityLambda returns \v -> v with the given binder name.
func IdentityLambda(binder string) Expr {
	return Lambda{Params: []string{binder}, Body: Var{Name: binder}}
}

// ApplyTo builds Apply(fn, args...), flattening when fn is itself an
// application so rendered output reads as a single call.
func ApplyTo(fn Expr, args ...Expr) Expr {
	if inner, ok := fn.(Apply); ok {
		combined := make([]Expr, 0, len(inner.Args)+len(args))
		combined = append(combined, inner.Args...)
		combined = append(combined, args...)

		return Apply{Fn: inner.Fn, Args: combined}
	}

	return Apply{Fn: fn, Args: args}
}

// Definition is one derived operation ready for rendering.
type Definition struct {
	// Name is the emitted definition name, e.g. "invmapPair".
	Name string
	// Op is the operation being derived: "invmap" or "invmap2".
	Op string
	// TypeName names the type (or family instance) derived for.
	TypeName string
	// Signature is a human-readable type of the definition, emitted as
	// a leading comment.
	Signature string
	// Params are the lambda parameters: mapper names first, then the
	// scrutinee value.
	Params []string
	// Body is the case analysis (or a direct expression for
	// single-constructor shortcuts).
	Body Expr
}

// Alternative is the synthesizer input for one constructor: a
// transformer per field (nil = pass through unchanged), or Retag for a
// constructor whose fields mention no active variable.
type Alternative struct {
	Constructor string
	FieldVars   []string
	// Transforms is parallel to FieldVars; a nil entry passes the bound
	// field through unchanged.
	Transforms []Expr
	// Retag marks a constructor with no actively-typed fields; the whole
	// alternative becomes a type-restricted identity on the scrutinee.
	Retag bool
}

// SynthesizeBody builds the case-analysis body for a derivation: each
// alternative destructures its constructor by position, applies the
// per-field transformers, and reconstructs the constructor application.
func SynthesizeBody(typeName, valueVar string, alts []Alternative) Expr {
	out := Case{Scrutinee: Var{Name: valueVar}}

	for _, alt := range alts {
		if alt.Retag {
			binders := make([]string, len(alt.FieldVars))
			for i := range binders {
				binders[i] = "_"
			}

			out.Alts = append(out.Alts, Alt{
				Con:     alt.Constructor,
				Binders: binders,
				Body:    ApplyTo(Retag{TypeName: typeName}, Var{Name: valueVar}),
			})

			continue
		}

		body := Expr(Con{Name: alt.Constructor})

		for i, v := range alt.FieldVars {
			var field Expr = Var{Name: v}
			if alt.Transforms[i] != nil {
				field = ApplyTo(alt.Transforms[i], field)
			}

			body = ApplyTo(body, field)
		}

		out.Alts = append(out.Alts, Alt{
			Con:     alt.Constructor,
			Binders: alt.FieldVars,
			Body:    body,
		})
	}

	return out
}

// Render pretty-prints a definition.
func Render(def *Definition) string {
	var sb strings.Builder

	sb.WriteString(def.Name)
	sb.WriteString(" =\n")
	sb.WriteString(indentStr)
	sb.WriteString("\\")
	sb.WriteString(strings.Join(def.Params, " "))
	sb.WriteString(" ->\n")
	renderExpr(&sb, def.Body, 2, false)
	sb.WriteString("\n")

	return sb.String()
}

const indentStr = "  "

func indent(sb *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString(indentStr)
	}
}

// renderExpr writes e at the given indent depth. Only Case forces a
// multi-line layout; everything else renders inline.
func renderExpr(sb *strings.Builder, e Expr, depth int, argPos bool) {
	if c, ok := e.(Case); ok {
		indent(sb, depth)
		sb.WriteString("case ")
		sb.WriteString(renderInline(c.Scrutinee, false))
		sb.WriteString(" of")

		for _, alt := range c.Alts {
			sb.WriteString("\n")
			indent(sb, depth+1)
			sb.WriteString(alt.Con)

			for _, b := range alt.Binders {
				sb.WriteString(" ")
				sb.WriteString(b)
			}

			sb.WriteString(" -> ")
			sb.WriteString(renderInline(alt.Body, false))
		}

		return
	}

	indent(sb, depth)
	sb.WriteString(renderInline(e, argPos))
}

// headNeedsParens reports whether an application head must be
// parenthesized. Flattening keeps nested applications out of head
// position, so in practice only binding forms need it.
func headNeedsParens(e Expr) bool {
	switch e.(type) {
	case Lambda, Case, Apply:
		return true
	default:
		return false
	}
}

// renderInline renders an expression on one line. argPos requests
// parentheses around non-atomic expressions used in argument position.
func renderInline(e Expr, argPos bool) string {
	switch node := e.(type) {
	case Var:
		return node.Name
	case Con:
		return node.Name
	case Retag:
		s := "retag @" + node.TypeName
		if argPos {
			return "(" + s + ")"
		}

		return s
	case Lambda:
		s := "\\" + strings.Join(node.Params, " ") + " -> " + renderInline(node.Body, false)
		if argPos {
			return "(" + s + ")"
		}

		return s
	case Apply:
		parts := []string{renderInline(node.Fn, headNeedsParens(node.Fn))}
		for _, arg := range node.Args {
			parts = append(parts, renderInline(arg, true))
		}

		s := strings.Join(parts, " ")
		if argPos {
			return "(" + s + ")"
		}

		return s
	case Case:
		// Inline case only occurs nested under a lambda body; keep it
		// single-line with explicit alternatives.
		parts := make([]string, 0, len(node.Alts))
		for _, alt := range node.Alts {
			head := alt.Con
			if len(alt.Binders) > 0 {
				head += " " + strings.Join(alt.Binders, " ")
			}

			parts = append(parts, head+" -> "+renderInline(alt.Body, false))
		}

		s := "case " + renderInline(node.Scrutinee, false) + " of { " +
			strings.Join(parts, "; ") + " }"
		if argPos {
			return "(" + s + ")"
		}

		return s
	default:
		return ""
	}
}
