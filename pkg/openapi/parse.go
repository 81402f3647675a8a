package openapi

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML or JSON OpenAPI 3.x document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if doc.OpenAPI == "" {
		return nil, fmt.Errorf("%w: openapi", ErrMissingField)
	}
	if !strings.HasPrefix(doc.OpenAPI, "3.") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, doc.OpenAPI)
	}
	return &doc, nil
}
