// Package golang renders an ir.Spec as Go type declarations and an
// operation table.
package golang

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/ir"
)

//go:embed templates/*.gotmpl
var templatesFS embed.FS

// GoGenerator implements the Generator interface for Go
type GoGenerator struct{}

// NewGoGenerator creates a new Go generator
func NewGoGenerator() *GoGenerator {
	return &GoGenerator{}
}

// GetType returns the generator type identifier
func (g *GoGenerator) GetType() string {
	return "go"
}

// Generate renders types.go and operations.go for client.
func (g *GoGenerator) Generate(client config.Client, spec *ir.Spec) ([]ir.File, error) {
	funcMap := sprig.TxtFuncMap()
	funcMap["declaration"] = declaration
	funcMap["formatGoComment"] = formatGoComment
	funcMap["returnKind"] = returnKind

	data := map[string]any{
		"Client":  client,
		"Package": sanitizePackageName(client.PackageName),
		"Spec":    spec,
	}

	var files []ir.File
	for _, f := range []struct{ template, path string }{
		{"types.go.gotmpl", "types.go"},
		{"operations.go.gotmpl", "operations.go"},
	} {
		content, err := render(f.template, funcMap, data)
		if err != nil {
			return nil, err
		}
		files = append(files, ir.File{Path: f.path, Content: content})
	}
	return files, nil
}

// render executes an embedded template and gofmts the result
func render(templateName string, funcMap template.FuncMap, data map[string]any) ([]byte, error) {
	tmplContent, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcMap).Parse(string(tmplContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", templateName, err)
	}
	return out, nil
}
