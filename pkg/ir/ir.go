// Package ir defines the intermediate representation produced from an
// OpenAPI document. Generators only ever see an ir.Spec.
package ir

import "github.com/blimu-dev/specir/pkg/naming"

// Spec represents the complete intermediate representation of an OpenAPI document
type Spec struct {
	Info    Info
	Servers []Server
	Tags    []Tag
	// Schemas holds every named declaration in declaration order, followed by
	// declarations created for promoted inline objects.
	Schemas    []Schema
	Operations []Operation
	// Modules groups operation indices by tag, sorted by name.
	Modules         []Module
	SecuritySchemes []SecurityScheme
}

// Info carries the document title, description and version
type Info struct {
	Title       string
	Description string
	Version     string
}

// Server represents a base URL the API is served from
type Server struct {
	URL         string
	Description string
}

// Tag represents a document-level tag declaration
type Tag struct {
	Name        string
	Description string
}

// Method is an upper-case HTTP method.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
	MethodTrace   Method = "TRACE"
)

// Operation represents a single API operation (endpoint + method)
type Operation struct {
	Name        naming.Name
	Method      Method
	Path        string
	Summary     string
	Description string
	Tags        []string
	Parameters  []Parameter
	RequestBody *RequestBody
	Return      ReturnType
	Deprecated  bool
	// Security lists the requirements that apply, one of which must be met.
	Security []SecurityRequirement
}

// ParamLocation is where a parameter travels on the wire.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InCookie ParamLocation = "cookie"
)

// Parameter represents an operation parameter. Name.Original is the wire name.
type Parameter struct {
	Name        naming.Name
	Location    ParamLocation
	Type        Type
	Required    bool
	Description string
	Deprecated  bool
}

// RequestBody represents the request body of an operation
type RequestBody struct {
	Type        Type
	Required    bool
	ContentType string
	Description string
	// Encoding holds per-field content types of multipart bodies.
	Encoding []FieldEncoding
}

// FieldEncoding is the content type of one multipart field
type FieldEncoding struct {
	Field       string
	ContentType string
}

// Response is a response payload and its description
type Response struct {
	Type        Type
	Description string
}

// Module is a named group of operations, holding indices into Spec.Operations
type Module struct {
	Name       naming.Name
	Operations []int
}

// SecurityScheme represents a declared security scheme
type SecurityScheme struct {
	Key              string
	Type             string
	Description      string
	Scheme           string
	In               string
	Name             string
	BearerFormat     string
	OpenIDConnectURL string
}

// SecurityRequirement maps scheme keys to required scopes
type SecurityRequirement map[string][]string

// File is a generated output file. Path is slash separated and relative to
// the output directory of the client it was generated for.
type File struct {
	Path    string
	Content []byte
}
