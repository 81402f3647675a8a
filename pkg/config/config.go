// Package config loads the specir.yaml file that drives generation.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/specir/pkg/ordered"
)

// ErrInvalid is returned when a configuration does not match its schema.
var ErrInvalid = errors.New("invalid configuration")

//go:embed schema.json
var schemaJSON []byte

// Config represents the complete configuration for IR generation
type Config struct {
	Spec    string   `yaml:"spec"`
	Name    string   `yaml:"name"`
	Naming  Naming   `yaml:"naming"`
	Clients []Client `yaml:"clients"`
}

// Naming controls how operation names are derived.
type Naming struct {
	// Strategy is use_operation_id (default) or use_route_based.
	Strategy string `yaml:"strategy"`
	// Aliases maps a derived operation name to an override, in file order.
	Aliases ordered.Map[string] `yaml:"aliases"`
}

// Client represents configuration for a single generated client
type Client struct {
	Type        string `yaml:"type"`
	OutDir      string `yaml:"outDir"`
	PackageName string `yaml:"packageName"`
	Name        string `yaml:"name"`
	// SplitBy selects how endpoints are grouped: tag, operation or route.
	SplitBy string `yaml:"splitBy"`
	// IncludeTags and ExcludeTags are regular expressions matched against
	// operation tags. Exclusion wins.
	IncludeTags []string `yaml:"includeTags"`
	ExcludeTags []string `yaml:"excludeTags"`
	// PreCommand is an optional command to run before generation starts.
	// Uses Docker Compose array format: ["goimports", "-w", "."]
	// The command will be executed in the output directory.
	PreCommand []string `yaml:"preCommand"`
	// PostCommand is an optional command to run after generation completes.
	// The command will be executed in the output directory.
	PostCommand []string `yaml:"postCommand"`
	// DefaultBaseURL is the base URL generated code falls back to
	DefaultBaseURL string `yaml:"defaultBaseURL"`
	// ExcludeFiles is a list of file paths (relative to outDir) that should not be generated
	// Example: ["package.json", "src/client.ts"]
	ExcludeFiles []string `yaml:"exclude"`
}

// ShouldExcludeFile checks if a file path should be excluded based on the ExcludeFiles list.
// targetPath should be an absolute path, and the comparison is done relative to OutDir.
func (c *Client) ShouldExcludeFile(targetPath string) bool {
	if len(c.ExcludeFiles) == 0 {
		return false
	}

	relPath, err := filepath.Rel(c.OutDir, targetPath)
	if err != nil {
		// not under OutDir
		return false
	}
	relPath = filepath.ToSlash(relPath)
	if relPath == "." {
		relPath = ""
	}

	for _, pattern := range c.ExcludeFiles {
		pattern = strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		if relPath == pattern {
			return true
		}
		// "src/" excludes everything below src
		if pattern != "" && strings.HasPrefix(relPath, pattern+"/") {
			return true
		}
	}
	return false
}

// Load reads, validates and decodes a configuration file. Relative spec and
// outDir paths are made absolute; http(s) specs are kept as they are.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse validates data against the configuration schema and decodes it.
func Parse(data []byte) (*Config, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize checks required fields and absolutizes local paths. It is used
// for configurations assembled from flags as well as for loaded files.
func (cfg *Config) Normalize() error {
	if cfg.Spec == "" {
		return fmt.Errorf("%w: spec is required", ErrInvalid)
	}
	for i := range cfg.Clients {
		c := &cfg.Clients[i]
		if c.Type == "" || c.OutDir == "" || c.PackageName == "" || c.Name == "" {
			return fmt.Errorf("%w: clients[%d] missing required fields (type, outDir, packageName, name)", ErrInvalid, i)
		}
		if !filepath.IsAbs(c.OutDir) {
			abs, _ := filepath.Abs(c.OutDir)
			c.OutDir = abs
		}
	}
	if !isURL(cfg.Spec) && !filepath.IsAbs(cfg.Spec) {
		abs, _ := filepath.Abs(cfg.Spec)
		cfg.Spec = abs
	}
	return nil
}

// Validate checks YAML data against the embedded configuration schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrInvalid)
	}
	// the validator expects JSON values
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("specir.schema.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("specir.schema.json")
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// ParseAliases adds "from=to" pairs to aliases in order.
func ParseAliases(pairs []string, aliases *ordered.Map[string]) error {
	for _, pair := range pairs {
		from, to, ok := strings.Cut(pair, "=")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return fmt.Errorf("%w: invalid alias %q, want from=to", ErrInvalid, pair)
		}
		aliases.Set(from, to)
	}
	return nil
}
