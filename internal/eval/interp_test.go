package eval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invmap-generator/internal/codegen"
	"invmap-generator/internal/decl"
	"invmap-generator/internal/derive"
)

const evalSchema = `
types:
  - name: List
    params: [a]
    derive: [invmap]
    constructors:
      - name: Nil
      - name: Cons
        fields: [a, "List a"]
  - name: Box
    params: [a]
    derive: [invmap]
    constructors:
      - name: MkBox
        fields: ["List (List a)"]
  - name: Fn
    params: [a]
    derive: [invmap]
    constructors:
      - name: MkFn
        fields: ["a -> a"]
  - name: Two
    params: [a, b]
    derive: [invmap2]
    constructors:
      - name: MkTwo
        fields: [a, b]
  - name: Tagged
    params: [t, a]
    derive: [invmap]
    constructors:
      - name: NoTag
        fields: [t]
      - name: MkTag
        fields: [t, a]
`

// setupInterp derives everything the schema asks for and registers the
// results for dispatch.
func setupInterp(t *testing.T) (*Interp, map[string]*codegen.Definition) {
	t.Helper()

	set, err := decl.Parse([]byte(evalSchema))
	require.NoError(t, err)

	in := New()
	in.LoadSchema(set)

	defs, diags := derive.DeriveAll(set)
	require.False(t, diags.HasErrors(), "%v", diags.Error())

	byName := make(map[string]*codegen.Definition, len(defs))

	for _, def := range defs {
		byName[def.Name] = def
		in.RegisterDefinition(strings.Fields(def.TypeName)[0], def)
	}

	return in, byName
}

func inc() Value { return PrimFunc(func(v any) any { return v.(int) + 1 }) }
func dec() Value { return PrimFunc(func(v any) any { return v.(int) - 1 }) }

func list(in *Interp, xs ...int) Value {
	out := in.Con("Nil")
	for i := len(xs) - 1; i >= 0; i-- {
		out = in.Con("Cons", Prim(xs[i]), out)
	}

	return out
}

func TestInvmapList(t *testing.T) {
	in, defs := setupInterp(t)

	got, err := in.Call(defs["invmapList"], inc(), dec(), list(in, 1, 2, 3))
	require.NoError(t, err)
	assert.True(t, Equal(list(in, 2, 3, 4), got), "got %s", got)
}

func TestInvmapListRoundTrip(t *testing.T) {
	in, defs := setupInterp(t)

	original := list(in, 5, 6)

	mapped, err := in.Call(defs["invmapList"], inc(), dec(), original)
	require.NoError(t, err)

	back, err := in.Call(defs["invmapList"], dec(), inc(), mapped)
	require.NoError(t, err)
	assert.True(t, Equal(original, back), "got %s", back)
}

func TestInvmapEmptyListRetags(t *testing.T) {
	in, defs := setupInterp(t)

	got, err := in.Call(defs["invmapList"], inc(), dec(), in.Con("Nil"))
	require.NoError(t, err)
	assert.True(t, Equal(in.Con("Nil"), got), "got %s", got)
}

func TestInvmapNestedContainers(t *testing.T) {
	in, defs := setupInterp(t)

	inner := list(in, 1, 2)
	boxed := in.Con("MkBox", in.Con("Cons", inner, in.Con("Nil")))

	got, err := in.Call(defs["invmapBox"], inc(), dec(), boxed)
	require.NoError(t, err)

	expected := in.Con("MkBox", in.Con("Cons", list(in, 2, 3), in.Con("Nil")))
	assert.True(t, Equal(expected, got), "got %s", got)
}

func TestInvmapFunctionFieldConjugates(t *testing.T) {
	in, defs := setupInterp(t)

	double := PrimFunc(func(v any) any { return v.(int) * 2 })
	wrapped := in.Con("MkFn", double)

	got, err := in.Call(defs["invmapFn"], inc(), dec(), wrapped)
	require.NoError(t, err)

	cv, ok := got.(ConValue)
	require.True(t, ok)
	require.Len(t, cv.Args, 1)

	fn, ok := cv.Args[0].(FuncValue)
	require.True(t, ok)

	// The mapped function is inc . double . dec: (5-1)*2+1 = 9.
	result, err := fn.Fn(Prim(5))
	require.NoError(t, err)
	assert.True(t, Equal(Prim(9), result), "got %s", result)
}

func TestInvmap2MapsBothVariables(t *testing.T) {
	in, defs := setupInterp(t)

	addTen := PrimFunc(func(v any) any { return v.(int) + 10 })
	subTen := PrimFunc(func(v any) any { return v.(int) - 10 })

	got, err := in.Call(defs["invmap2Two"],
		inc(), dec(), addTen, subTen,
		in.Con("MkTwo", Prim(1), Prim(2)))
	require.NoError(t, err)
	assert.True(t, Equal(in.Con("MkTwo", Prim(2), Prim(12)), got), "got %s", got)
}

func TestInvmapInactiveFieldsUntouched(t *testing.T) {
	in, defs := setupInterp(t)

	got, err := in.Call(defs["invmapTagged"], inc(), dec(), in.Con("NoTag", Prim(7)))
	require.NoError(t, err)
	assert.True(t, Equal(in.Con("NoTag", Prim(7)), got), "got %s", got)

	got, err = in.Call(defs["invmapTagged"], inc(), dec(), in.Con("MkTag", Prim(7), Prim(1)))
	require.NoError(t, err)
	assert.True(t, Equal(in.Con("MkTag", Prim(7), Prim(2)), got), "got %s", got)
}

func TestCallArgumentCount(t *testing.T) {
	in, defs := setupInterp(t)

	_, err := in.Call(defs["invmapList"], inc(), dec())
	assert.ErrorContains(t, err, "arguments")
}

func TestUnregisteredDispatchFails(t *testing.T) {
	in, defs := setupInterp(t)

	// Drop the List registration so Box's recursive call cannot
	// dispatch.
	fresh := New()
	fresh.conType = in.conType
	fresh.RegisterDefinition("Box", defs["invmapBox"])

	boxed := fresh.Con("MkBox", fresh.Con("Cons", fresh.Con("Nil"), fresh.Con("Nil")))

	_, err := fresh.Call(defs["invmapBox"], inc(), dec(), boxed)
	assert.ErrorContains(t, err, "no derived invmap")
}

func TestValueString(t *testing.T) {
	in, _ := setupInterp(t)

	assert.Equal(t, "Cons 1 (Cons 2 Nil)", list(in, 1, 2).String())
	assert.Equal(t, "Nil", in.Con("Nil").String())
	assert.Equal(t, "<function>", inc().String())
}

func TestEqual(t *testing.T) {
	in, _ := setupInterp(t)

	assert.True(t, Equal(Prim(1), Prim(1)))
	assert.False(t, Equal(Prim(1), Prim(2)))
	assert.False(t, Equal(Prim(1), in.Con("Nil")))
	assert.False(t, Equal(inc(), inc()))
	assert.False(t, Equal(list(in, 1), list(in, 1, 2)))
}
