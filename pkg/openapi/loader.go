// Package openapi holds the OpenAPI 3.x document model together with its
// parser, loader, validator and reference resolver.
package openapi

import (
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
)

// ReadSource reads raw document bytes from a local file path or an HTTP(S) URL.
func ReadSource(input string) ([]byte, error) {
	if u, ok := httpURL(input); ok {
		return openapi3.ReadFromHTTP(http.DefaultClient)(openapi3.NewLoader(), u)
	}
	return os.ReadFile(input)
}

// LoadDocument reads and parses a document from a file path or an HTTP(S) URL.
func LoadDocument(input string) (*Document, error) {
	data, err := ReadSource(input)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return doc, nil
}

// ValidateDocument validates the document at input with kin-openapi.
func ValidateDocument(input string) error {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	var (
		doc *openapi3.T
		err error
	)
	if u, ok := httpURL(input); ok {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(input)
	}
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}

// ValidateData validates raw document bytes with kin-openapi.
func ValidateData(data []byte) error {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return err
	}
	return doc.Validate(loader.Context)
}

func httpURL(input string) (*url.URL, bool) {
	u, err := url.Parse(input)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, false
	}
	return u, true
}
