package openapi

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/specir/pkg/ordered"
)

// Document is an OpenAPI 3.x document. Maps keep declaration order.
type Document struct {
	OpenAPI    string                 `yaml:"openapi"`
	Info       Info                   `yaml:"info"`
	Servers    []Server               `yaml:"servers,omitempty"`
	Paths      ordered.Map[*PathItem] `yaml:"paths,omitempty"`
	Components Components             `yaml:"components,omitempty"`
	Tags       []Tag                  `yaml:"tags,omitempty"`
	Security   []SecurityRequirement  `yaml:"security,omitempty"`
}

type Info struct {
	Title          string   `yaml:"title"`
	Description    string   `yaml:"description,omitempty"`
	Version        string   `yaml:"version"`
	TermsOfService string   `yaml:"termsOfService,omitempty"`
	Contact        *Contact `yaml:"contact,omitempty"`
	License        *License `yaml:"license,omitempty"`
}

type Contact struct {
	Name  string `yaml:"name,omitempty"`
	URL   string `yaml:"url,omitempty"`
	Email string `yaml:"email,omitempty"`
}

type License struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url,omitempty"`
}

type Server struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description,omitempty"`
}

type Tag struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// SecurityRequirement maps a security scheme name to its required scopes.
type SecurityRequirement map[string][]string

type Components struct {
	Schemas         ordered.Map[*Schema]         `yaml:"schemas,omitempty"`
	Responses       ordered.Map[*Response]       `yaml:"responses,omitempty"`
	Parameters      ordered.Map[*Parameter]      `yaml:"parameters,omitempty"`
	RequestBodies   ordered.Map[*RequestBody]    `yaml:"requestBodies,omitempty"`
	SecuritySchemes ordered.Map[*SecurityScheme] `yaml:"securitySchemes,omitempty"`
}

type SecurityScheme struct {
	Type             string `yaml:"type"`
	Description      string `yaml:"description,omitempty"`
	Name             string `yaml:"name,omitempty"`
	In               string `yaml:"in,omitempty"`
	Scheme           string `yaml:"scheme,omitempty"`
	BearerFormat     string `yaml:"bearerFormat,omitempty"`
	OpenIDConnectURL string `yaml:"openIdConnectUrl,omitempty"`
}

// PathItem holds the operations available on a single path.
type PathItem struct {
	Summary     string       `yaml:"summary,omitempty"`
	Description string       `yaml:"description,omitempty"`
	Parameters  []*Parameter `yaml:"parameters,omitempty"`
	Get         *Operation   `yaml:"get,omitempty"`
	Put         *Operation   `yaml:"put,omitempty"`
	Post        *Operation   `yaml:"post,omitempty"`
	Delete      *Operation   `yaml:"delete,omitempty"`
	Options     *Operation   `yaml:"options,omitempty"`
	Head        *Operation   `yaml:"head,omitempty"`
	Patch       *Operation   `yaml:"patch,omitempty"`
	Trace       *Operation   `yaml:"trace,omitempty"`
}

// MethodOperation pairs an upper-case HTTP method with its operation.
type MethodOperation struct {
	Method    string
	Operation *Operation
}

// Operations returns the operations defined on p in a fixed method order:
// GET, POST, PUT, DELETE, PATCH, OPTIONS, HEAD, TRACE.
func (p *PathItem) Operations() []MethodOperation {
	if p == nil {
		return nil
	}
	all := []MethodOperation{
		{"GET", p.Get},
		{"POST", p.Post},
		{"PUT", p.Put},
		{"DELETE", p.Delete},
		{"PATCH", p.Patch},
		{"OPTIONS", p.Options},
		{"HEAD", p.Head},
		{"TRACE", p.Trace},
	}
	out := all[:0]
	for _, mo := range all {
		if mo.Operation != nil {
			out = append(out, mo)
		}
	}
	return out
}

type Operation struct {
	OperationID string                 `yaml:"operationId,omitempty"`
	Summary     string                 `yaml:"summary,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Tags        []string               `yaml:"tags,omitempty"`
	Parameters  []*Parameter           `yaml:"parameters,omitempty"`
	RequestBody *RequestBody           `yaml:"requestBody,omitempty"`
	Responses   ordered.Map[*Response] `yaml:"responses,omitempty"`
	Deprecated  bool                   `yaml:"deprecated,omitempty"`
	// Security is nil when the operation inherits the document requirements
	// and empty when it explicitly opts out.
	Security *[]SecurityRequirement `yaml:"security,omitempty"`
}

type Parameter struct {
	Ref         string                  `yaml:"$ref,omitempty"`
	Name        string                  `yaml:"name"`
	In          string                  `yaml:"in"`
	Description string                  `yaml:"description,omitempty"`
	Required    bool                    `yaml:"required,omitempty"`
	Deprecated  bool                    `yaml:"deprecated,omitempty"`
	Schema      *Schema                 `yaml:"schema,omitempty"`
	Content     ordered.Map[*MediaType] `yaml:"content,omitempty"`
	Style       string                  `yaml:"style,omitempty"`
	Explode     *bool                   `yaml:"explode,omitempty"`
	Example     any                     `yaml:"example,omitempty"`
}

type RequestBody struct {
	Ref         string                  `yaml:"$ref,omitempty"`
	Description string                  `yaml:"description,omitempty"`
	Required    bool                    `yaml:"required,omitempty"`
	Content     ordered.Map[*MediaType] `yaml:"content,omitempty"`
}

type Response struct {
	Ref         string                  `yaml:"$ref,omitempty"`
	Description string                  `yaml:"description,omitempty"`
	Content     ordered.Map[*MediaType] `yaml:"content,omitempty"`
}

// MediaType describes one content type of a body. ItemSchema describes a
// single event of a streamed body such as text/event-stream.
type MediaType struct {
	Schema     *Schema                `yaml:"schema,omitempty"`
	ItemSchema *Schema                `yaml:"itemSchema,omitempty"`
	Encoding   ordered.Map[*Encoding] `yaml:"encoding,omitempty"`
	Example    any                    `yaml:"example,omitempty"`
	Examples   ordered.Map[any]       `yaml:"examples,omitempty"`
}

// Encoding describes how a single multipart field is serialized.
type Encoding struct {
	ContentType string `yaml:"contentType,omitempty"`
	Style       string `yaml:"style,omitempty"`
	Explode     *bool  `yaml:"explode,omitempty"`
}

// Schema is a JSON-Schema-like schema node.
//
// A node with a non-empty Ref is a reference and its other fields are
// ignored. After Resolve, Ref is only set on references that were left
// unexpanded to break a cycle, and Origin names the component an expanded
// node was copied from.
type Schema struct {
	Ref    string  `yaml:"$ref,omitempty"`
	Type   TypeSet `yaml:"type,omitempty"`
	Format string  `yaml:"format,omitempty"`

	Title       string `yaml:"title,omitempty"`
	Description string `yaml:"description,omitempty"`
	Default     any    `yaml:"default,omitempty"`
	Example     any    `yaml:"example,omitempty"`
	Nullable    bool   `yaml:"nullable,omitempty"`
	Deprecated  bool   `yaml:"deprecated,omitempty"`
	ReadOnly    bool   `yaml:"readOnly,omitempty"`
	WriteOnly   bool   `yaml:"writeOnly,omitempty"`

	Properties           ordered.Map[*Schema]  `yaml:"properties,omitempty"`
	Required             []string              `yaml:"required,omitempty"`
	AdditionalProperties *AdditionalProperties `yaml:"additionalProperties,omitempty"`
	Items                *Schema               `yaml:"items,omitempty"`

	AllOf         []*Schema      `yaml:"allOf,omitempty"`
	OneOf         []*Schema      `yaml:"oneOf,omitempty"`
	AnyOf         []*Schema      `yaml:"anyOf,omitempty"`
	Discriminator *Discriminator `yaml:"discriminator,omitempty"`

	Enum     []any `yaml:"enum,omitempty"`
	Const    any   `yaml:"const,omitempty"`
	HasConst bool  `yaml:"-"`

	Minimum          *float64 `yaml:"minimum,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty"`
	ExclusiveMinimum any      `yaml:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum any      `yaml:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `yaml:"multipleOf,omitempty"`
	MinLength        *int     `yaml:"minLength,omitempty"`
	MaxLength        *int     `yaml:"maxLength,omitempty"`
	Pattern          string   `yaml:"pattern,omitempty"`
	MinItems         *int     `yaml:"minItems,omitempty"`
	MaxItems         *int     `yaml:"maxItems,omitempty"`
	UniqueItems      bool     `yaml:"uniqueItems,omitempty"`

	Origin string `yaml:"-"`
}

// UnmarshalYAML decodes a schema node. Boolean schemas decode to an empty
// schema, and the presence of "const" is recorded even when its value is null.
func (s *Schema) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!bool" {
		*s = Schema{}
		return nil
	}
	type plain Schema
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}
	if node.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == "const" {
				s.HasConst = true
			}
		}
	}
	return nil
}

// IsRef reports whether s is an unexpanded reference.
func (s *Schema) IsRef() bool {
	return s != nil && s.Ref != ""
}

// IsNamed reports whether s stands for a named component schema, either as
// an unexpanded reference or as an expanded copy of one.
func (s *Schema) IsNamed() bool {
	return s != nil && (s.Ref != "" || s.Origin != "")
}

// TypeSet is the value of "type": a single type name or a list of them.
type TypeSet []string

func (t *TypeSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*t = TypeSet{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("line %d: type must be a string or a list of strings", node.Line)
	}
}

// Includes reports whether name is one of the types.
func (t TypeSet) Includes(name string) bool {
	for _, v := range t {
		if v == name {
			return true
		}
	}
	return false
}

// AdditionalProperties is either a boolean or a schema.
type AdditionalProperties struct {
	Allowed bool
	Schema  *Schema
}

func (a *AdditionalProperties) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!bool" {
		return node.Decode(&a.Allowed)
	}
	var s Schema
	if err := node.Decode(&s); err != nil {
		return err
	}
	a.Allowed = true
	a.Schema = &s
	return nil
}

// Discriminator names the property that selects a union member. Mapping
// values are schema references or bare schema names.
type Discriminator struct {
	PropertyName string              `yaml:"propertyName"`
	Mapping      ordered.Map[string] `yaml:"mapping,omitempty"`
}
