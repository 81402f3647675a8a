// Package specir compiles OpenAPI 3.x documents into a language-neutral
// intermediate representation and generates clients from it.
//
// Quick Start:
//
//	import "github.com/blimu-dev/specir"
//
//	spec, err := specir.Compile("./openapi.yaml", specir.CompileOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, op := range spec.Operations {
//		fmt.Println(op.Method, op.Path, op.Name.Camel)
//	}
//
// For code generation, see the generator package.
package specir

import (
	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/generator"
	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/openapi"
	"github.com/blimu-dev/specir/pkg/transform"
)

// LoadDocument reads and parses the OpenAPI document at a file path or
// http(s) URL.
func LoadDocument(input string) (*openapi.Document, error) {
	return openapi.LoadDocument(input)
}

// Transform compiles a parsed document into an IR spec.
func Transform(doc *openapi.Document, opts transform.Options) (*ir.Spec, error) {
	return transform.Transform(doc, opts)
}

// CompileOptions controls how Compile names operations.
type CompileOptions struct {
	// Naming is use_operation_id (the default) or use_route_based.
	Naming string
	// Aliases are "from=to" operation name overrides, applied in order.
	Aliases []string
}

// Compile loads the document at input and transforms it.
//
// Example:
//
//	spec, err := specir.Compile("https://api.example.com/openapi.yaml", specir.CompileOptions{
//		Naming:  "use_route_based",
//		Aliases: []string{"listPets=allPets"},
//	})
func Compile(input string, opts CompileOptions) (*ir.Spec, error) {
	cfg := &config.Config{Spec: input, Naming: config.Naming{Strategy: opts.Naming}}
	if err := config.ParseAliases(opts.Aliases, &cfg.Naming.Aliases); err != nil {
		return nil, err
	}
	return generator.NewService().BuildSpec(cfg)
}

// ValidateSpec validates an OpenAPI specification file.
// This is useful for checking if a spec is valid before compiling it.
func ValidateSpec(specPath string) error {
	return generator.ValidateSpec(specPath)
}

// GenerateTypeScriptSDK generates types.ts and endpoints.ts for the document
// with minimal configuration.
func GenerateTypeScriptSDK(spec, outDir, packageName, clientName string) error {
	return generator.GenerateTypeScript(spec, outDir, packageName, clientName)
}

// GenerateGoSDK generates types.go and operations.go for the document with
// minimal configuration. packageName may be a module path, its last element
// names the package.
func GenerateGoSDK(spec, outDir, packageName, clientName string) error {
	return generator.GenerateGo(spec, outDir, packageName, clientName)
}

// GenerateSDK generates a client with full configuration options.
//
// Example:
//
//	err := specir.GenerateSDK(specir.GenerateSDKOptions{
//		Spec:        "./openapi.yaml",
//		Type:        "typescript",
//		OutDir:      "./my-sdk",
//		PackageName: "my-api-client",
//		Name:        "MyAPIClient",
//		IncludeTags: []string{"users", "orders"},
//		ExcludeTags: []string{"internal"},
//	})
func GenerateSDK(opts GenerateSDKOptions) error {
	return generator.GenerateClient(generator.GenerateClientOptions(opts))
}

// GenerateFromConfig generates clients from a YAML configuration file.
// Optionally, you can specify a single client name to generate only that client.
func GenerateFromConfig(configPath string, singleClient ...string) error {
	return generator.GenerateFromConfig(configPath, singleClient...)
}

// GenerateSDKOptions contains options for client generation
type GenerateSDKOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleClient generates only the named client from config (optional)
	SingleClient string

	// Fallback options when no config file is provided
	Spec        string   // OpenAPI spec file or URL
	Type        string   // Generator type (typescript or go)
	OutDir      string   // Output directory
	PackageName string   // Package name for the generated code
	Name        string   // Client name
	SplitBy     string   // tag, operation or route
	IncludeTags []string // Regex patterns for tags to include
	ExcludeTags []string // Regex patterns for tags to exclude
	Naming      string   // use_operation_id or use_route_based
	Aliases     []string // Operation name overrides as from=to
}
