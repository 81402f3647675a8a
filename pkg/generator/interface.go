// Package generator turns an ir.Spec into files for each configured client.
package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/generator/golang"
	"github.com/blimu-dev/specir/pkg/generator/typescript"
	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/openapi"
	"github.com/blimu-dev/specir/pkg/transform"
)

// ErrStale is returned in check mode when generated output differs from
// what is on disk.
var ErrStale = errors.New("generated files are out of date")

// Generator defines the interface for code generators
type Generator interface {
	// Generate renders the files for client from spec. It must not touch the
	// filesystem; the Service writes the result.
	Generate(client config.Client, spec *ir.Spec) ([]ir.File, error)
	// GetType returns the type identifier for this generator (e.g., "typescript")
	GetType() string
}

// Registry manages available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		generators: make(map[string]Generator),
	}
}

// Register adds a generator to the registry
func (r *Registry) Register(gen Generator) {
	r.generators[gen.GetType()] = gen
}

// Get retrieves a generator by type
func (r *Registry) Get(genType string) (Generator, bool) {
	gen, exists := r.generators[genType]
	return gen, exists
}

// GetAvailableTypes returns all registered generator types, sorted
func (r *Registry) GetAvailableTypes() []string {
	types := make([]string, 0, len(r.generators))
	for t := range r.generators {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// GenerateOptions contains options for generation
type GenerateOptions struct {
	ConfigPath   string
	SingleClient string
	Fallback     FallbackOptions
}

// FallbackOptions contains fallback options when no config file is provided
type FallbackOptions struct {
	Spec        string
	Type        string
	OutDir      string
	PackageName string
	Name        string
	SplitBy     string
	IncludeTags []string
	ExcludeTags []string
	Naming      string
	// Aliases are "from=to" pairs, applied in order.
	Aliases []string
}

// Config turns the fallback options into a single-client configuration.
func (f FallbackOptions) Config() (*config.Config, error) {
	if f.Spec == "" || f.Type == "" || f.OutDir == "" || f.PackageName == "" || f.Name == "" {
		return nil, fmt.Errorf("either config path or all fallback options must be provided")
	}
	cfg := &config.Config{
		Spec:   f.Spec,
		Naming: config.Naming{Strategy: f.Naming},
		Clients: []config.Client{
			{
				Type:        f.Type,
				OutDir:      f.OutDir,
				PackageName: f.PackageName,
				Name:        f.Name,
				SplitBy:     f.SplitBy,
				IncludeTags: f.IncludeTags,
				ExcludeTags: f.ExcludeTags,
			},
		},
	}
	if err := config.ParseAliases(f.Aliases, &cfg.Naming.Aliases); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCheck makes the Service compare output with the files on disk instead
// of writing it. Commands are not run in check mode.
func WithCheck(check bool) Option {
	return func(s *Service) { s.check = check }
}

// WithRegistry replaces the default generators.
func WithRegistry(registry *Registry) Option {
	return func(s *Service) { s.registry = registry }
}

// Service provides high-level generation functionality
type Service struct {
	registry *Registry
	logger   *slog.Logger
	check    bool
}

// NewService creates a new generator service with default generators
func NewService(opts ...Option) *Service {
	registry := NewRegistry()
	registry.Register(typescript.NewTypeScriptGenerator())
	registry.Register(golang.NewGoGenerator())
	s := &Service{registry: registry, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// GetRegistry returns the generator registry
func (s *Service) GetRegistry() *Registry {
	return s.registry
}

// Generate generates clients based on the provided options
func (s *Service) Generate(opts GenerateOptions) error {
	var cfg *config.Config
	var err error

	if opts.ConfigPath == "" {
		cfg, err = opts.Fallback.Config()
	} else {
		cfg, err = config.Load(opts.ConfigPath)
	}
	if err != nil {
		return err
	}
	return s.GenerateFromConfig(cfg, opts.SingleClient)
}

// BuildSpec loads the document named by cfg and compiles it with the
// configured naming options.
func (s *Service) BuildSpec(cfg *config.Config) (*ir.Spec, error) {
	doc, err := openapi.LoadDocument(cfg.Spec)
	if err != nil {
		return nil, err
	}
	strategy, err := transform.ParseNamingStrategy(cfg.Naming.Strategy)
	if err != nil {
		return nil, err
	}
	return transform.Transform(doc, transform.Options{
		Naming:  strategy,
		Aliases: cfg.Naming.Aliases,
		Logger:  s.logger,
	})
}

// GenerateFromConfig generates every client of cfg, or only the one named
// onlyClient when it is not empty.
func (s *Service) GenerateFromConfig(cfg *config.Config, onlyClient string) error {
	spec, err := s.BuildSpec(cfg)
	if err != nil {
		return err
	}

	var stale []string
	found := false
	for _, client := range cfg.Clients {
		if onlyClient != "" && client.Name != onlyClient {
			continue
		}
		found = true

		files, err := s.generateClient(client, spec)
		if err != nil {
			return fmt.Errorf("generate %s: %w", client.Name, err)
		}
		stale = append(stale, files...)
	}
	if onlyClient != "" && !found {
		return fmt.Errorf("no client named %q in config", onlyClient)
	}
	if len(stale) > 0 {
		return fmt.Errorf("%w: %s", ErrStale, strings.Join(stale, ", "))
	}
	return nil
}

// generateClient runs one client and returns the files that are stale in
// check mode.
func (s *Service) generateClient(client config.Client, spec *ir.Spec) ([]string, error) {
	gen, exists := s.registry.Get(client.Type)
	if !exists {
		return nil, fmt.Errorf("unsupported client type: %s", client.Type)
	}
	logger := s.logger.With("client", client.Name, "type", client.Type)

	if !s.check {
		// the output directory must exist before pre-commands run in it
		if err := os.MkdirAll(client.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := s.executeCommand(client.PreCommand, client.OutDir, "pre-command"); err != nil {
			return nil, err
		}
	}

	filtered, err := FilterSpec(spec, client)
	if err != nil {
		return nil, err
	}
	logger.Debug("filtered spec",
		"operations", len(filtered.Operations),
		"schemas", len(filtered.Schemas))

	files, err := gen.Generate(client, filtered)
	if err != nil {
		return nil, err
	}

	var stale []string
	for _, f := range files {
		path := filepath.Join(client.OutDir, filepath.FromSlash(f.Path))
		if client.ShouldExcludeFile(path) {
			logger.Debug("skipping excluded file", "path", f.Path)
			continue
		}
		wrote, err := writeFile(path, f.Content, s.check)
		switch {
		case errors.Is(err, errStaleFile):
			stale = append(stale, path)
		case err != nil:
			return nil, err
		case wrote:
			logger.Info("wrote file", "path", path)
		default:
			logger.Debug("file unchanged", "path", path)
		}
	}

	if !s.check {
		if err := s.executeCommand(client.PostCommand, client.OutDir, "post-command"); err != nil {
			return nil, err
		}
	}
	return stale, nil
}

// executeCommand executes a single command in Docker Compose array format
func (s *Service) executeCommand(command []string, workDir, commandLabel string) error {
	if len(command) == 0 {
		return nil
	}

	cmd := exec.Command(command[0], command[1:]...)
	cmd.Dir = workDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmdDescription := strings.Join(command, " ")
	s.logger.Debug("running command", "label", commandLabel, "command", cmdDescription, "dir", workDir)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s (%s) failed: %w", commandLabel, cmdDescription, err)
	}
	return nil
}
