package cli

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/generator"
	"github.com/blimu-dev/specir/pkg/ir"
)

// InspectParams holds the parsed flags of the inspect command.
type InspectParams struct {
	Input   string
	Naming  string
	Aliases []string
	Format  string
	Logger  *slog.Logger
}

// Summary is what inspect reports about a compiled document.
type Summary struct {
	Title      string              `yaml:"title"`
	Version    string              `yaml:"version"`
	Schemas    []SchemaSummary     `yaml:"schemas"`
	Operations []OperationSummary  `yaml:"operations"`
	Modules    map[string][]string `yaml:"modules"`
}

// SchemaSummary describes one named schema.
type SchemaSummary struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

// OperationSummary describes one operation.
type OperationSummary struct {
	Name   string `yaml:"name"`
	Method string `yaml:"method"`
	Path   string `yaml:"path"`
	Return string `yaml:"return"`
}

// RunInspect compiles the document at p.Input and writes a summary to w.
func RunInspect(w io.Writer, p InspectParams) error {
	cfg := &config.Config{Spec: p.Input, Naming: config.Naming{Strategy: p.Naming}}
	if err := config.ParseAliases(p.Aliases, &cfg.Naming.Aliases); err != nil {
		return err
	}
	spec, err := generator.NewService(generator.WithLogger(p.Logger)).BuildSpec(cfg)
	if err != nil {
		return err
	}
	summary := Summarize(spec)

	switch p.Format {
	case "", "text":
		return summary.writeText(w)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown inspect format %q", p.Format)
	}
}

// Summarize reduces spec to names, kinds and return kinds.
func Summarize(spec *ir.Spec) Summary {
	s := Summary{
		Title:   spec.Info.Title,
		Version: spec.Info.Version,
		Modules: map[string][]string{},
	}
	for _, schema := range spec.Schemas {
		s.Schemas = append(s.Schemas, SchemaSummary{Name: schema.SchemaName().Pascal, Kind: schemaKind(schema)})
	}
	for _, op := range spec.Operations {
		s.Operations = append(s.Operations, OperationSummary{
			Name:   op.Name.Camel,
			Method: string(op.Method),
			Path:   op.Path,
			Return: returnKind(op.Return),
		})
	}
	for _, m := range spec.Modules {
		names := make([]string, len(m.Operations))
		for i, idx := range m.Operations {
			names[i] = spec.Operations[idx].Name.Camel
		}
		s.Modules[m.Name.Original] = names
	}
	return s
}

func (s Summary) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s %s\n", s.Title, s.Version)
	fmt.Fprintf(tw, "\nschemas: %d\n", len(s.Schemas))
	for _, schema := range s.Schemas {
		fmt.Fprintf(tw, "  %s\t%s\n", schema.Name, schema.Kind)
	}
	fmt.Fprintf(tw, "\noperations: %d\n", len(s.Operations))
	for _, op := range s.Operations {
		fmt.Fprintf(tw, "  %s\t%s %s\t%s\n", op.Name, op.Method, op.Path, op.Return)
	}
	fmt.Fprintf(tw, "\nmodules: %d\n", len(s.Modules))
	for _, name := range slices.Sorted(maps.Keys(s.Modules)) {
		fmt.Fprintf(tw, "  %s\t%d\n", name, len(s.Modules[name]))
	}
	return tw.Flush()
}

func schemaKind(s ir.Schema) string {
	switch s.(type) {
	case *ir.ObjectSchema:
		return "object"
	case *ir.EnumSchema:
		return "enum"
	case *ir.AliasSchema:
		return "alias"
	case *ir.UnionSchema:
		return "union"
	default:
		return "unknown"
	}
}

func returnKind(r ir.ReturnType) string {
	switch v := r.(type) {
	case ir.StandardReturn:
		return "standard"
	case ir.SseReturn:
		if v.AlsoHasJSON {
			return "sse+json"
		}
		return "sse"
	default:
		return "void"
	}
}
