package typeexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) Expr {
	t.Helper()

	parsed, err := Parse(src)
	require.NoError(t, err)

	return parsed
}

func TestFreeVars(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a", []string{"a"}},
		{"Int", nil},
		{"Either a b", []string{"a", "b"}},
		{"a -> a", []string{"a", "a"}},
		{"forall a. a -> b", []string{"b"}},
		{"forall a. Either a b -> a", []string{"b"}},
		{"(a :: k)", []string{"a", "k"}},
		{"forall (f :: k). f a", []string{"k", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FreeVars(mustParse(t, tt.input)))
		})
	}
}

func TestMentions(t *testing.T) {
	active := map[string]bool{"a": true}

	assert.True(t, Mentions(mustParse(t, "Maybe a"), active))
	assert.True(t, Mentions(mustParse(t, "b -> a"), active))
	assert.False(t, Mentions(mustParse(t, "Maybe b"), active))
	assert.False(t, Mentions(mustParse(t, "forall a. a"), active))
}

func TestUncurryFunc(t *testing.T) {
	binders, comps := UncurryFunc(mustParse(t, "forall c. a -> b -> c"))

	require.Len(t, binders, 1)
	assert.Equal(t, "c", binders[0].Name)

	require.Len(t, comps, 3)
	assert.Equal(t, Var{Name: "a"}, comps[0])
	assert.Equal(t, Var{Name: "b"}, comps[1])
	assert.Equal(t, Var{Name: "c"}, comps[2])
}

func TestUncurryFuncNonFunction(t *testing.T) {
	binders, comps := UncurryFunc(mustParse(t, "Maybe a"))

	assert.Empty(t, binders)
	require.Len(t, comps, 1)
	assert.True(t, comps[0].Equal(mustParse(t, "Maybe a")))
}

func TestSubstitute(t *testing.T) {
	m := map[string]Expr{"a": Con{Name: "Int"}}

	tests := []struct {
		input    string
		expected string
	}{
		{"a", "Int"},
		{"Maybe a", "Maybe Int"},
		{"a -> a", "Int -> Int"},
		{"b", "b"},
		// A quantifier over the substituted name shadows it.
		{"forall a. a -> b", "forall a. a -> b"},
		{"Either a (forall a. a)", "Either Int (forall a. a)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Substitute(m, mustParse(t, tt.input))
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestSubstituteKindsExpr(t *testing.T) {
	m := map[string]Kind{"k": Star{}}

	got := SubstituteKindsExpr(m, mustParse(t, "forall (f :: k -> k). f (a :: k)"))
	assert.Equal(t, "forall (f :: * -> *). f (a :: *)", got.String())
}

func TestEqualIsStructural(t *testing.T) {
	assert.True(t, mustParse(t, "Maybe (a -> b)").Equal(mustParse(t, "Maybe ((a -> b))")))
	assert.False(t, mustParse(t, "a").Equal(mustParse(t, "(a :: *)")))
	assert.False(t, mustParse(t, "Maybe a").Equal(mustParse(t, "Maybe b")))
}

type aliasEnv map[string]Alias

func (e aliasEnv) LookupAlias(name string) (Alias, bool) {
	a, ok := e[name]
	return a, ok
}

func TestExpandAliases(t *testing.T) {
	env := aliasEnv{
		"IntMap": {Params: []string{"v"}, RHS: mustParse(t, "Map Int v")},
		"Name":   {Params: nil, RHS: mustParse(t, "String")},
		"Pipe":   {Params: []string{"a", "b"}, RHS: mustParse(t, "a -> IntMap b")},
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"IntMap a", "Map Int a"},
		{"Name", "String"},
		{"Maybe (IntMap a)", "Maybe (Map Int a)"},
		{"Pipe a b", "a -> Map Int b"},
		{"Unknown a", "Unknown a"},
		// Over-application re-applies the leftover arguments.
		{"Name a", "String a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ExpandAliases(env, mustParse(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestExpandAliasesUnderApplied(t *testing.T) {
	env := aliasEnv{"IntMap": {Params: []string{"v"}, RHS: mustParse(t, "Map Int v")}}

	_, err := ExpandAliases(env, mustParse(t, "IntMap"))
	assert.ErrorContains(t, err, "IntMap")
}

func TestExpandAliasesCyclic(t *testing.T) {
	env := aliasEnv{"Loop": {Params: nil, RHS: Con{Name: "Loop"}}}

	_, err := ExpandAliases(env, Con{Name: "Loop"})
	assert.ErrorContains(t, err, "depth")
}
