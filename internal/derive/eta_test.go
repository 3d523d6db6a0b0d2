package derive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invmap-generator/internal/codegen"
	"invmap-generator/internal/diagnostic"
)

func TestDeriveInstance(t *testing.T) {
	set := parseSchema(t, `
families:
  - name: Rep
    instances:
      - params: [a]
        args: [Int, a]
        constructors:
          - name: MkRepInt
            fields: [a, "[a]"]
      - params: [a, b]
        args: [Char, a, b]
        constructors:
          - name: MkRepChar
            fields: [a, b]
`)

	def, derr := DeriveInstance(set, "Rep", 0, 1)
	require.Nil(t, derr)

	assert.Equal(t, "invmapRep1", def.Name)
	assert.Equal(t, "Rep Int", def.TypeName)
	assert.Equal(t, "(a -> a') -> (a' -> a) -> Rep Int a -> Rep Int a'", def.Signature)
	assert.Equal(t, `invmapRep1 =
  \f g x ->
    case x of
      MkRepInt x1 x2 -> MkRepInt (f x1) (invmap f g x2)
`, codegen.Render(def))

	def, derr = DeriveInstance(set, "Rep", 1, 2)
	require.Nil(t, derr)

	assert.Equal(t, "invmap2Rep2", def.Name)
	assert.Equal(t, "Rep Char", def.TypeName)
	assert.Equal(t,
		"(a -> a') -> (a' -> a) -> (b -> b') -> (b' -> b) -> Rep Char a b -> Rep Char a' b'",
		def.Signature)
}

func TestDeriveInstanceAppliedPrefixParenthesized(t *testing.T) {
	set := parseSchema(t, `
families:
  - name: Rep
    instances:
      - params: [a]
        args: ["Maybe Int", a]
        constructors:
          - name: MkRepMaybe
            fields: [a]
`)

	def, derr := DeriveInstance(set, "Rep", 0, 1)
	require.Nil(t, derr)
	assert.Equal(t, "Rep (Maybe Int)", def.TypeName)
	assert.Equal(t, "(a -> a') -> (a' -> a) -> Rep (Maybe Int) a -> Rep (Maybe Int) a'", def.Signature)
}

// An eta-reduced instance derives the same mapping as a plain type with
// the same constructors; only the head naming differs.
func TestDeriveInstanceMatchesPlainDerivation(t *testing.T) {
	set := parseSchema(t, `
types:
  - name: RepInt
    params: [a]
    constructors:
      - name: MkRepInt
        fields: [a, "[a]"]
families:
  - name: Rep
    instances:
      - params: [a]
        args: [Int, a]
        constructors:
          - name: MkRepInt
            fields: [a, "[a]"]
`)

	instDef, derr := DeriveInstance(set, "Rep", 0, 1)
	require.Nil(t, derr)

	plainDef, derr := Derive(set, "RepInt", 1)
	require.Nil(t, derr)

	assert.Equal(t, plainDef.Op, instDef.Op)
	assert.Equal(t, plainDef.Params, instDef.Params)

	instBody, ok := instDef.Body.(codegen.Case)
	require.True(t, ok)

	plainBody, ok := plainDef.Body.(codegen.Case)
	require.True(t, ok)

	require.Len(t, instBody.Alts, len(plainBody.Alts))

	for i := range plainBody.Alts {
		assert.Equal(t, plainBody.Alts[i], instBody.Alts[i])
	}
}

func TestDeriveInstanceErrors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		index  int
		arity  int
		code   diagnostic.Code
	}{
		{
			name: "instance ordinal out of range",
			schema: `
families:
  - name: Rep
    instances:
      - params: [a]
        args: [Int, a]
        constructors: [{name: Mk, fields: [a]}]
`,
			index: 3,
			arity: 1,
			code:  diagnostic.DeclarationNotFound,
		},
		{
			name: "too few head arguments",
			schema: `
families:
  - name: Rep
    instances:
      - params: [a]
        args: [a]
        constructors: [{name: Mk, fields: [a]}]
`,
			index: 0,
			arity: 2,
			code:  diagnostic.ArityMismatch,
		},
		{
			name: "trailing argument is not a bare variable",
			schema: `
families:
  - name: Rep
    instances:
      - params: [a]
        args: [Int, "Maybe a"]
        constructors: [{name: Mk, fields: [a]}]
`,
			index: 0,
			arity: 1,
			code:  diagnostic.InvalidEtaReduction,
		},
		{
			name: "trailing variables repeat",
			schema: `
families:
  - name: Rep
    instances:
      - params: [a]
        args: [a, a]
        constructors: [{name: Mk, fields: [a]}]
`,
			index: 0,
			arity: 2,
			code:  diagnostic.InvalidEtaReduction,
		},
		{
			name: "trailing variable occurs in the prefix",
			schema: `
families:
  - name: Rep
    instances:
      - params: [a]
        args: ["Maybe a", a]
        constructors: [{name: Mk, fields: [a]}]
`,
			index: 0,
			arity: 1,
			code:  diagnostic.InvalidEtaReduction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := parseSchema(t, tt.schema)

			_, derr := DeriveInstance(set, "Rep", tt.index, tt.arity)
			require.NotNil(t, derr)
			assert.Equal(t, tt.code, derr.Code, "got %s", derr)
		})
	}
}

func TestDeriveInstanceUnknownFamily(t *testing.T) {
	set := parseSchema(t, `
types:
  - name: Pair
    params: [a]
    constructors: [{name: MkPair, fields: [a]}]
`)

	_, derr := DeriveInstance(set, "Nope", 0, 1)
	require.NotNil(t, derr)
	assert.Equal(t, diagnostic.DeclarationNotFound, derr.Code)
}

func TestDeriveRequestDispatch(t *testing.T) {
	set := parseSchema(t, `
types:
  - name: Pair
    params: [a]
    derive: [invmap]
    constructors: [{name: MkPair, fields: [a]}]
families:
  - name: Rep
    instances:
      - params: [a]
        args: [Int, a]
        derive: [invmap]
        constructors: [{name: MkRepInt, fields: [a]}]
`)

	require.Len(t, set.Requests, 2)

	def, derr := DeriveRequest(set, set.Requests[0])
	require.Nil(t, derr)
	assert.Equal(t, "invmapPair", def.Name)

	def, derr = DeriveRequest(set, set.Requests[1])
	require.Nil(t, derr)
	assert.Equal(t, "invmapRep1", def.Name)
}
