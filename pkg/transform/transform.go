// Package transform compiles a parsed OpenAPI document into an ir.Spec.
//
// The pipeline runs in a fixed order: references are resolved, component
// schemas become declarations, path items become operations, operations are
// grouped into modules and finally inline objects are promoted to named
// schemas. Every step works on in-memory data only.
package transform

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
	"github.com/blimu-dev/specir/pkg/openapi"
	"github.com/blimu-dev/specir/pkg/ordered"
)

// NamingStrategy selects how operation names are derived.
type NamingStrategy int

const (
	// UseOperationID names operations after their operationId and falls
	// back to the route when it is missing.
	UseOperationID NamingStrategy = iota
	// UseRouteBased always names operations after method and path.
	UseRouteBased
)

func (s NamingStrategy) String() string {
	switch s {
	case UseRouteBased:
		return "use_route_based"
	default:
		return "use_operation_id"
	}
}

// ParseNamingStrategy accepts the config spelling of a strategy. The empty
// string selects UseOperationID.
func ParseNamingStrategy(s string) (NamingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "use_operation_id", "operation_id", "operationid":
		return UseOperationID, nil
	case "use_route_based", "route_based", "route":
		return UseRouteBased, nil
	default:
		return UseOperationID, fmt.Errorf("unknown naming strategy %q", s)
	}
}

// Options configure Transform.
type Options struct {
	Naming NamingStrategy
	// Aliases maps a derived operation name to the name to use instead.
	Aliases ordered.Map[string]
	Logger  *slog.Logger
}

// Transform builds the IR for doc. doc is not modified. Any failure aborts
// the whole transform and is returned as an *Error.
func Transform(doc *openapi.Document, opts Options) (*ir.Spec, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	resolved, err := openapi.Resolve(doc, logger)
	if err != nil {
		return nil, &Error{Phase: PhaseResolve, Err: err}
	}
	logger.Debug("resolved references",
		"schemas", resolved.Components.Schemas.Len(),
		"paths", resolved.Paths.Len())

	spec := &ir.Spec{}
	for name, s := range resolved.Components.Schemas.All() {
		schema, err := SchemaOf(name, s)
		if err != nil {
			return nil, &Error{Phase: PhaseSchemas, Err: err}
		}
		spec.Schemas = append(spec.Schemas, schema)
	}
	logger.Debug("converted schemas", "count", len(spec.Schemas))

	for path, item := range resolved.Paths.All() {
		for _, mo := range item.Operations() {
			op, err := buildOperation(resolved, path, item, mo, &opts)
			if err != nil {
				return nil, &Error{Phase: PhaseOperations, Err: err}
			}
			spec.Operations = append(spec.Operations, op)
		}
	}
	logger.Debug("converted operations", "count", len(spec.Operations))

	spec.Modules = ir.BuildModules(spec.Operations)

	spec.Info = ir.Info{
		Title:       resolved.Info.Title,
		Description: resolved.Info.Description,
		Version:     resolved.Info.Version,
	}
	for _, s := range resolved.Servers {
		spec.Servers = append(spec.Servers, ir.Server{URL: s.URL, Description: s.Description})
	}
	for _, t := range resolved.Tags {
		spec.Tags = append(spec.Tags, ir.Tag{Name: t.Name, Description: t.Description})
	}
	for key, ss := range resolved.Components.SecuritySchemes.All() {
		spec.SecuritySchemes = append(spec.SecuritySchemes, ir.SecurityScheme{
			Key:              key,
			Type:             ss.Type,
			Description:      ss.Description,
			Scheme:           ss.Scheme,
			In:               ss.In,
			Name:             ss.Name,
			BearerFormat:     ss.BearerFormat,
			OpenIDConnectURL: ss.OpenIDConnectURL,
		})
	}

	before := len(spec.Schemas)
	Promote(spec, logger)
	logger.Debug("promoted inline objects", "count", len(spec.Schemas)-before)

	return spec, nil
}

func buildOperation(doc *openapi.Document, path string, item *openapi.PathItem, mo openapi.MethodOperation, opts *Options) (ir.Operation, error) {
	src := mo.Operation
	name := operationName(mo.Method, path, src.OperationID, opts)

	op := ir.Operation{
		Name:        naming.Normalize(name),
		Method:      ir.Method(mo.Method),
		Path:        path,
		Summary:     src.Summary,
		Description: src.Description,
		Tags:        append([]string(nil), src.Tags...),
		Deprecated:  src.Deprecated,
	}
	if op.Summary == "" {
		op.Summary = item.Summary
	}
	if op.Description == "" {
		op.Description = item.Description
	}

	for _, p := range mergeParameters(item.Parameters, src.Parameters) {
		param, err := buildParameter(p)
		if err != nil {
			return ir.Operation{}, fmt.Errorf("%s %s: %w", mo.Method, path, err)
		}
		op.Parameters = append(op.Parameters, param)
	}
	op.RequestBody = buildRequestBody(src.RequestBody)
	op.Return = DetectReturn(name, &src.Responses)

	security := doc.Security
	if src.Security != nil {
		security = *src.Security
	}
	for _, req := range security {
		out := make(ir.SecurityRequirement, len(req))
		for k, scopes := range req {
			out[k] = append([]string{}, scopes...)
		}
		op.Security = append(op.Security, out)
	}
	return op, nil
}

// operationName picks the raw operation name and applies the alias table.
func operationName(method, path, operationID string, opts *Options) string {
	name := operationID
	if opts.Naming == UseRouteBased || name == "" {
		name = naming.RouteToName(method, path)
	}
	if alias, ok := opts.Aliases.Get(name); ok && alias != "" {
		return alias
	}
	return name
}

// mergeParameters concatenates path-level and operation-level parameters.
// An operation parameter with the same name and location replaces the
// path-level one in place.
func mergeParameters(pathLevel, opLevel []*openapi.Parameter) []*openapi.Parameter {
	out := make([]*openapi.Parameter, 0, len(pathLevel)+len(opLevel))
	index := make(map[[2]string]int, len(pathLevel)+len(opLevel))
	for _, list := range [][]*openapi.Parameter{pathLevel, opLevel} {
		for _, p := range list {
			if p == nil {
				continue
			}
			key := [2]string{p.Name, p.In}
			if i, ok := index[key]; ok {
				out[i] = p
				continue
			}
			index[key] = len(out)
			out = append(out, p)
		}
	}
	return out
}

func buildParameter(p *openapi.Parameter) (ir.Parameter, error) {
	loc := ir.ParamLocation(strings.ToLower(p.In))
	switch loc {
	case ir.InPath, ir.InQuery, ir.InHeader, ir.InCookie:
	default:
		return ir.Parameter{}, fmt.Errorf("parameter %q: unsupported location %q", p.Name, p.In)
	}

	schema := p.Schema
	if schema == nil {
		if _, mt, ok := p.Content.First(); ok && mt != nil {
			schema = mt.Schema
		}
	}
	return ir.Parameter{
		Name:        naming.Normalize(p.Name),
		Location:    loc,
		Type:        TypeOf(schema),
		Required:    p.Required || loc == ir.InPath,
		Description: p.Description,
		Deprecated:  p.Deprecated,
	}, nil
}

// buildRequestBody prefers application/json and otherwise takes the first
// declared content type. A body without content yields nil.
func buildRequestBody(b *openapi.RequestBody) *ir.RequestBody {
	if b == nil || b.Content.Len() == 0 {
		return nil
	}
	contentType, mt, _ := b.Content.First()
	for ct, m := range b.Content.All() {
		if sameMedia(ct, mediaJSON) {
			contentType, mt = ct, m
			break
		}
	}

	body := &ir.RequestBody{
		Type:        TypeOf(schemaOf(mt)),
		Required:    b.Required,
		ContentType: contentType,
		Description: b.Description,
	}
	if mt != nil {
		for field, enc := range mt.Encoding.All() {
			if enc == nil || enc.ContentType == "" {
				continue
			}
			body.Encoding = append(body.Encoding, ir.FieldEncoding{Field: field, ContentType: enc.ContentType})
		}
	}
	return body
}
