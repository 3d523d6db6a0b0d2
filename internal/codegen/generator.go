package codegen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// GeneratorConfig holds configuration for output assembly.
type GeneratorConfig struct {
	// SchemaName is recorded in the generated file header.
	SchemaName string
	// GenerateComments emits the signature comment above each
	// definition.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{GenerateComments: true}
}

// GeneratedFile represents one generated output file.
type GeneratedFile struct {
	// Filename is the file name (e.g. "pair_invmap.ivm").
	Filename string
	// Content is the rendered source text.
	Content []byte
}

// Generator renders derived definitions into output files.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{config: config}
}

type templateData struct {
	SchemaName  string
	Definitions []renderedDefinition
}

type renderedDefinition struct {
	Comment string
	Text    string
}

var fileTemplate = template.Must(template.New("derived").Parse(
	`-- Code generated by invmap-generator. DO NOT EDIT.
{{if .SchemaName}}-- source schema: {{.SchemaName}}
{{end}}
{{- range .Definitions}}
{{if .Comment}}-- {{.Comment}}
{{end}}{{.Text}}
{{- end}}`))

// Generate renders one file per derived definition.
func (g *Generator) Generate(defs []*Definition) ([]GeneratedFile, error) {
	files := make([]GeneratedFile, 0, len(defs))

	for _, def := range defs {
		file, err := g.generateOne(def)
		if err != nil {
			return nil, fmt.Errorf("generating %s: %w", def.Name, err)
		}

		files = append(files, *file)
	}

	return files, nil
}

func (g *Generator) generateOne(def *Definition) (*GeneratedFile, error) {
	data := templateData{SchemaName: g.config.SchemaName}

	rendered := renderedDefinition{Text: Render(def)}
	if g.config.GenerateComments && def.Signature != "" {
		rendered.Comment = def.Name + " : " + def.Signature
	}

	data.Definitions = append(data.Definitions, rendered)

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	return &GeneratedFile{
		Filename: g.filename(def),
		Content:  buf.Bytes(),
	}, nil
}

// Write places the generated files under dir, creating it as needed.
func (g *Generator) Write(files []GeneratedFile, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file.Filename), file.Content, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", file.Filename, err)
		}
	}

	return nil
}

func (g *Generator) filename(def *Definition) string {
	base := strings.ToLower(def.TypeName)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, base)

	return base + "_" + def.Op + ".ivm"
}
