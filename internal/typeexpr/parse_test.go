package typeexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"a", "a"},
		{"Int", "Int"},
		{"Maybe a", "Maybe a"},
		{"Either a b", "Either a b"},
		{"Maybe (Either a b)", "Maybe (Either a b)"},
		{"[a]", "[a]"},
		{"[Maybe a]", "[Maybe a]"},
		{"[]", "[]"},
		{"(->)", "(->)"},
		{"a -> b", "a -> b"},
		{"a -> b -> c", "a -> b -> c"},
		{"(a -> b) -> c", "(a -> b) -> c"},
		{"Maybe a -> [b]", "Maybe a -> [b]"},
		{"f a", "f a"},
		{"t (Maybe a) b", "t (Maybe a) b"},

		// Redundant parentheses normalize away.
		{"(a)", "a"},
		{"((Maybe a))", "Maybe a"},
		{"Maybe ((a))", "Maybe a"},

		// Kind signatures.
		{"(a :: *)", "(a :: *)"},
		{"(f :: * -> *)", "(f :: * -> *)"},
		{"(f :: (* -> *) -> *)", "(f :: (* -> *) -> *)"},
		{"(f :: k)", "(f :: k)"},

		// Quantifiers.
		{"forall a. a -> b", "forall a. a -> b"},
		{"forall a b. Either a b", "forall a b. Either a b"},
		{"forall (f :: * -> *) a. f a", "forall (f :: * -> *) a. f a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed.String())
		})
	}
}

func TestParseStructure(t *testing.T) {
	parsed, err := Parse("Either a b")
	require.NoError(t, err)

	head, args := UncurryApp(parsed)
	assert.Equal(t, Con{Name: "Either"}, head)
	require.Len(t, args, 2)
	assert.Equal(t, Var{Name: "a"}, args[0])
	assert.Equal(t, Var{Name: "b"}, args[1])
}

func TestParseArrowIsRightAssociative(t *testing.T) {
	parsed, err := Parse("a -> b -> c")
	require.NoError(t, err)

	dom, cod, ok := SplitArrow(parsed)
	require.True(t, ok)
	assert.Equal(t, Var{Name: "a"}, dom)

	dom2, cod2, ok := SplitArrow(cod)
	require.True(t, ok)
	assert.Equal(t, Var{Name: "b"}, dom2)
	assert.Equal(t, Var{Name: "c"}, cod2)
}

func TestParseListIsConApplication(t *testing.T) {
	parsed, err := Parse("[a]")
	require.NoError(t, err)

	head, args := UncurryApp(parsed)
	assert.Equal(t, Con{Name: ListName}, head)
	require.Len(t, args, 1)
	assert.Equal(t, Var{Name: "a"}, args[0])
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"(a",
		"[a",
		"a ->",
		"-> a",
		"forall . a",
		"forall A. a",
		"a )",
		"(a :: %)",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestParseBinder(t *testing.T) {
	tests := []struct {
		input    string
		expected Binder
	}{
		{"a", Binder{Name: "a"}},
		{"elem'", Binder{Name: "elem'"}},
		{"f :: * -> *", Binder{Name: "f", Kind: KindArrow{Dom: Star{}, Cod: Star{}}}},
		{"(f :: * -> *)", Binder{Name: "f", Kind: KindArrow{Dom: Star{}, Cod: Star{}}}},
		{"a :: k", Binder{Name: "a", Kind: KindVar{Name: "k"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			b, err := ParseBinder(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(b), "got %s", b)
		})
	}
}

func TestParseBinderErrors(t *testing.T) {
	for _, input := range []string{"", "Upper", "a ::", "a :: Type"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseBinder(input)
			assert.Error(t, err)
		})
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("* -> (* -> *) -> k")
	require.NoError(t, err)
	assert.Equal(t, "* -> (* -> *) -> k", k.String())
}
