// Package cli implements the specir commands.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/blimu-dev/specir/pkg/generator"
	"github.com/blimu-dev/specir/pkg/openapi"
)

// RunGenerateParams holds the parsed flags of the generate command.
type RunGenerateParams struct {
	ConfigPath   string
	SingleClient string
	Fallback     generator.FallbackOptions
	Check        bool
	Logger       *slog.Logger
}

// RunGenerate generates every configured client, or the single client
// described by the fallback flags when no config file is given.
func RunGenerate(p RunGenerateParams) error {
	if p.ConfigPath == "" && p.Fallback.Spec == "" {
		return errors.New("either --config or all of --input, --type, --out, --package-name, --client-name must be provided")
	}
	svc := generator.NewService(generator.WithLogger(p.Logger), generator.WithCheck(p.Check))
	err := svc.Generate(generator.GenerateOptions{
		ConfigPath:   p.ConfigPath,
		SingleClient: p.SingleClient,
		Fallback:     p.Fallback,
	})
	if errors.Is(err, generator.ErrStale) {
		return fmt.Errorf("%w (rerun without --check to update)", err)
	}
	return err
}

// RunValidate validates the document at input.
func RunValidate(input string, logger *slog.Logger) error {
	if err := openapi.ValidateDocument(input); err != nil {
		return err
	}
	if logger != nil {
		logger.Info("document is valid", "input", input)
	}
	return nil
}
