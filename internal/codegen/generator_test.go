package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDefinition() *Definition {
	return &Definition{
		Name:      "invmapPair",
		Op:        "invmap",
		TypeName:  "Pair",
		Signature: "(a -> a') -> (a' -> a) -> Pair a -> Pair a'",
		Params:    []string{"f", "g", "x"},
		Body: SynthesizeBody("Pair", "x", []Alternative{
			{Constructor: "MkPair", FieldVars: []string{"x1"}, Transforms: []Expr{Var{Name: "f"}}},
		}),
	}
}

func TestGenerateWithHeaderAndComment(t *testing.T) {
	config := DefaultGeneratorConfig()
	config.SchemaName = "demo.yaml"

	files, err := NewGenerator(config).Generate([]*Definition{sampleDefinition()})
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, "pair_invmap.ivm", files[0].Filename)
	assert.Equal(t, `-- Code generated by invmap-generator. DO NOT EDIT.
-- source schema: demo.yaml

-- invmapPair : (a -> a') -> (a' -> a) -> Pair a -> Pair a'
invmapPair =
  \f g x ->
    case x of
      MkPair x1 -> MkPair (f x1)
`, string(files[0].Content))
}

func TestGenerateWithoutComments(t *testing.T) {
	config := GeneratorConfig{GenerateComments: false}

	files, err := NewGenerator(config).Generate([]*Definition{sampleDefinition()})
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.Equal(t, `-- Code generated by invmap-generator. DO NOT EDIT.

invmapPair =
  \f g x ->
    case x of
      MkPair x1 -> MkPair (f x1)
`, string(files[0].Content))
}

func TestGenerateFilenames(t *testing.T) {
	tests := []struct {
		typeName string
		op       string
		expected string
	}{
		{"Pair", "invmap", "pair_invmap.ivm"},
		{"Two", "invmap2", "two_invmap2.ivm"},
		{"Rep Int", "invmap", "rep_int_invmap.ivm"},
		{"Rep (Maybe Int)", "invmap", "rep__maybe_int__invmap.ivm"},
	}

	gen := NewGenerator(DefaultGeneratorConfig())

	for _, tt := range tests {
		t.Run(tt.typeName+" "+tt.op, func(t *testing.T) {
			def := sampleDefinition()
			def.TypeName = tt.typeName
			def.Op = tt.op

			assert.Equal(t, tt.expected, gen.filename(def))
		})
	}
}

func TestGeneratorWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generated", "nested")

	files := []GeneratedFile{
		{Filename: "pair_invmap.ivm", Content: []byte("one\n")},
		{Filename: "list_invmap.ivm", Content: []byte("two\n")},
	}

	require.NoError(t, NewGenerator(DefaultGeneratorConfig()).Write(files, dir))

	content, err := os.ReadFile(filepath.Join(dir, "pair_invmap.ivm"))
	require.NoError(t, err)
	assert.Equal(t, "one\n", string(content))

	content, err = os.ReadFile(filepath.Join(dir, "list_invmap.ivm"))
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(content))
}
