// Package typescript renders an ir.Spec as TypeScript declarations and
// request builders.
package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/ir"
)

//go:embed templates/*.gotmpl
var templatesFS embed.FS

// TypeScriptGenerator implements the Generator interface for TypeScript
type TypeScriptGenerator struct{}

// NewTypeScriptGenerator creates a new TypeScript generator
func NewTypeScriptGenerator() *TypeScriptGenerator {
	return &TypeScriptGenerator{}
}

// GetType returns the generator type identifier
func (g *TypeScriptGenerator) GetType() string {
	return "typescript"
}

// Generate renders types.ts and endpoints.ts for client.
func (g *TypeScriptGenerator) Generate(client config.Client, spec *ir.Spec) ([]ir.File, error) {
	by, err := ir.ParseGroupBy(client.SplitBy)
	if err != nil {
		return nil, err
	}

	funcMap := sprig.TxtFuncMap()
	funcMap["declaration"] = declaration
	funcMap["quote"] = quote

	baseURL := client.DefaultBaseURL
	if baseURL == "" && len(spec.Servers) > 0 {
		baseURL = spec.Servers[0].URL
	}
	data := map[string]any{
		"Client":  client,
		"Spec":    spec,
		"BaseURL": baseURL,
		"Streams": streamEvents(spec),
		"Groups":  buildGroups(spec, by),
	}

	var files []ir.File
	for _, f := range []struct{ template, path string }{
		{"types.ts.gotmpl", "types.ts"},
		{"endpoints.ts.gotmpl", "endpoints.ts"},
	} {
		content, err := render(f.template, funcMap, data)
		if err != nil {
			return nil, err
		}
		files = append(files, ir.File{Path: f.path, Content: content})
	}
	return files, nil
}

// render executes an embedded template
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
	return buf.Bytes(), nil
}
