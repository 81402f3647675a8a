package generator

import (
	"path/filepath"

	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/openapi"
)

// GenerateClient is a convenience function for generating with minimal configuration
func GenerateClient(opts GenerateClientOptions) error {
	return NewService().Generate(GenerateOptions{
		ConfigPath:   opts.ConfigPath,
		SingleClient: opts.SingleClient,
		Fallback: FallbackOptions{
			Spec:        opts.Spec,
			Type:        opts.Type,
			OutDir:      opts.OutDir,
			PackageName: opts.PackageName,
			Name:        opts.Name,
			SplitBy:     opts.SplitBy,
			IncludeTags: opts.IncludeTags,
			ExcludeTags: opts.ExcludeTags,
			Naming:      opts.Naming,
			Aliases:     opts.Aliases,
		},
	})
}

// GenerateClientOptions contains options for the convenience GenerateClient function
type GenerateClientOptions struct {
	// ConfigPath is the path to the configuration file (optional)
	ConfigPath string

	// SingleClient generates only the named client from config (optional)
	SingleClient string

	// Fallback options when no config file is provided
	Spec        string   // OpenAPI spec file or URL
	Type        string   // Generator type (e.g., "typescript")
	OutDir      string   // Output directory
	PackageName string   // Package name for the generated code
	Name        string   // Client name
	SplitBy     string   // tag, operation or route
	IncludeTags []string // Regex patterns for tags to include
	ExcludeTags []string // Regex patterns for tags to exclude
	Naming      string   // use_operation_id or use_route_based
	Aliases     []string // Operation name overrides as from=to
}

// GenerateTypeScript is a convenience function specifically for TypeScript generation
func GenerateTypeScript(spec, outDir, packageName, clientName string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	return GenerateClient(GenerateClientOptions{
		Spec:        spec,
		Type:        "typescript",
		OutDir:      absOutDir,
		PackageName: packageName,
		Name:        clientName,
	})
}

// GenerateGo is a convenience function specifically for Go generation
func GenerateGo(spec, outDir, packageName, clientName string) error {
	absOutDir, err := filepath.Abs(outDir)
	if err != nil {
		return err
	}

	return GenerateClient(GenerateClientOptions{
		Spec:        spec,
		Type:        "go",
		OutDir:      absOutDir,
		PackageName: packageName,
		Name:        clientName,
	})
}

// GenerateFromConfig is a convenience function for generating from a config file
func GenerateFromConfig(configPath string, singleClient ...string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	onlyClient := ""
	if len(singleClient) > 0 {
		onlyClient = singleClient[0]
	}
	return NewService().GenerateFromConfig(cfg, onlyClient)
}

// ValidateSpec validates an OpenAPI specification
func ValidateSpec(specPath string) error {
	return openapi.ValidateDocument(specPath)
}
