package openapi

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/blimu-dev/specir/pkg/ordered"
)

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")
var pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")

// ParseRef splits a local component reference of the form
// "#/components/<section>/<name>" into its section and name.
func ParseRef(ref string) (section, name string, err error) {
	rest, ok := strings.CutPrefix(ref, "#/components/")
	if !ok {
		return "", "", ErrInvalidRefFormat
	}
	section, name, ok = strings.Cut(rest, "/")
	if !ok || section == "" || name == "" || strings.Contains(name, "/") {
		return "", "", ErrInvalidRefFormat
	}
	return section, pointerUnescaper.Replace(name), nil
}

// ComponentRef builds the reference to a named component.
func ComponentRef(section, name string) string {
	return "#/components/" + section + "/" + pointerEscaper.Replace(name)
}

func pointer(base string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(t))
	}
	return b.String()
}

// Resolve returns a copy of doc in which every $ref is replaced by the node
// it points at, recursively. doc is not modified.
//
// A schema reference met again while it is still being expanded is left in
// place as an unexpanded reference, so cyclic schemas terminate. Each
// component is expanded once and the expansion is shared by every later
// reference to it. Expanded schema nodes record the component they came
// from in Origin. Cycles among parameters, request bodies or responses
// cannot be represented and fail with ErrCircularRef.
func Resolve(doc *Document, logger *slog.Logger) (*Document, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &resolver{
		doc:      doc,
		logger:   logger,
		visiting: make(map[string]bool),
		cache:    make(map[string]*Schema),
	}
	return r.document()
}

type resolver struct {
	doc      *Document
	logger   *slog.Logger
	visiting map[string]bool
	// a cut inside a cached expansion is a by-name ref, valid wherever the
	// expansion is reused
	cache map[string]*Schema
}

func (r *resolver) document() (*Document, error) {
	in := r.doc
	out := &Document{
		OpenAPI:  in.OpenAPI,
		Info:     in.Info,
		Servers:  append([]Server(nil), in.Servers...),
		Tags:     append([]Tag(nil), in.Tags...),
		Security: append([]SecurityRequirement(nil), in.Security...),
	}

	for path, item := range in.Paths.All() {
		resolved, err := r.pathItem(item, pointer("#/paths", path))
		if err != nil {
			return nil, err
		}
		out.Paths.Set(path, resolved)
	}

	for name, s := range in.Components.Schemas.All() {
		ref := ComponentRef("schemas", name)
		r.visiting[ref] = true
		resolved, err := r.schema(s, ref)
		delete(r.visiting, ref)
		if err != nil {
			return nil, err
		}
		out.Components.Schemas.Set(name, resolved)
	}
	for name, p := range in.Components.Parameters.All() {
		ref := ComponentRef("parameters", name)
		r.visiting[ref] = true
		resolved, err := r.parameter(p, ref)
		delete(r.visiting, ref)
		if err != nil {
			return nil, err
		}
		out.Components.Parameters.Set(name, resolved)
	}
	for name, b := range in.Components.RequestBodies.All() {
		ref := ComponentRef("requestBodies", name)
		r.visiting[ref] = true
		resolved, err := r.requestBody(b, ref)
		delete(r.visiting, ref)
		if err != nil {
			return nil, err
		}
		out.Components.RequestBodies.Set(name, resolved)
	}
	for name, resp := range in.Components.Responses.All() {
		ref := ComponentRef("responses", name)
		r.visiting[ref] = true
		resolved, err := r.response(resp, ref)
		delete(r.visiting, ref)
		if err != nil {
			return nil, err
		}
		out.Components.Responses.Set(name, resolved)
	}
	for name, ss := range in.Components.SecuritySchemes.All() {
		if ss == nil {
			continue
		}
		c := *ss
		out.Components.SecuritySchemes.Set(name, &c)
	}
	return out, nil
}

func (r *resolver) pathItem(item *PathItem, loc string) (*PathItem, error) {
	if item == nil {
		return nil, nil
	}
	out := *item
	var err error
	if out.Parameters, err = r.parameters(item.Parameters, loc+"/parameters"); err != nil {
		return nil, err
	}
	ops := []struct {
		method string
		in     *Operation
		out    **Operation
	}{
		{"get", item.Get, &out.Get},
		{"put", item.Put, &out.Put},
		{"post", item.Post, &out.Post},
		{"delete", item.Delete, &out.Delete},
		{"options", item.Options, &out.Options},
		{"head", item.Head, &out.Head},
		{"patch", item.Patch, &out.Patch},
		{"trace", item.Trace, &out.Trace},
	}
	for _, o := range ops {
		if *o.out, err = r.operation(o.in, loc+"/"+o.method); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

func (r *resolver) operation(op *Operation, loc string) (*Operation, error) {
	if op == nil {
		return nil, nil
	}
	out := *op
	out.Tags = append([]string(nil), op.Tags...)
	var err error
	if out.Parameters, err = r.parameters(op.Parameters, loc+"/parameters"); err != nil {
		return nil, err
	}
	if out.RequestBody, err = r.requestBody(op.RequestBody, loc+"/requestBody"); err != nil {
		return nil, err
	}
	out.Responses = ordered.Map[*Response]{}
	for code, resp := range op.Responses.All() {
		resolved, err := r.response(resp, pointer(loc+"/responses", code))
		if err != nil {
			return nil, err
		}
		out.Responses.Set(code, resolved)
	}
	return &out, nil
}

func (r *resolver) parameters(list []*Parameter, loc string) ([]*Parameter, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]*Parameter, len(list))
	for i, p := range list {
		resolved, err := r.parameter(p, pointer(loc, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func (r *resolver) parameter(p *Parameter, loc string) (*Parameter, error) {
	if p == nil {
		return nil, nil
	}
	if p.Ref != "" {
		return resolveComponent(r, p.Ref, "parameters", loc, &r.doc.Components.Parameters, r.parameter)
	}
	out := *p
	var err error
	if out.Schema, err = r.schema(p.Schema, loc+"/schema"); err != nil {
		return nil, err
	}
	if out.Content, err = r.content(p.Content, loc+"/content"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *resolver) requestBody(b *RequestBody, loc string) (*RequestBody, error) {
	if b == nil {
		return nil, nil
	}
	if b.Ref != "" {
		return resolveComponent(r, b.Ref, "requestBodies", loc, &r.doc.Components.RequestBodies, r.requestBody)
	}
	out := *b
	var err error
	if out.Content, err = r.content(b.Content, loc+"/content"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *resolver) response(resp *Response, loc string) (*Response, error) {
	if resp == nil {
		return nil, nil
	}
	if resp.Ref != "" {
		return resolveComponent(r, resp.Ref, "responses", loc, &r.doc.Components.Responses, r.response)
	}
	out := *resp
	var err error
	if out.Content, err = r.content(resp.Content, loc+"/content"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *resolver) content(content ordered.Map[*MediaType], loc string) (ordered.Map[*MediaType], error) {
	var out ordered.Map[*MediaType]
	for ct, mt := range content.All() {
		if mt == nil {
			out.Set(ct, nil)
			continue
		}
		mtLoc := pointer(loc, ct)
		c := *mt
		var err error
		if c.Schema, err = r.schema(mt.Schema, mtLoc+"/schema"); err != nil {
			return out, err
		}
		if c.ItemSchema, err = r.schema(mt.ItemSchema, mtLoc+"/itemSchema"); err != nil {
			return out, err
		}
		out.Set(ct, &c)
	}
	return out, nil
}

func (r *resolver) schema(s *Schema, loc string) (*Schema, error) {
	if s == nil {
		return nil, nil
	}
	if s.Ref != "" {
		return r.schemaRef(s.Ref, loc)
	}

	out := *s
	var err error
	if s.Properties.Len() > 0 {
		props := ordered.New[*Schema](s.Properties.Len())
		for name, prop := range s.Properties.All() {
			resolved, err := r.schema(prop, pointer(loc+"/properties", name))
			if err != nil {
				return nil, err
			}
			props.Set(name, resolved)
		}
		out.Properties = *props
	}
	if out.Items, err = r.schema(s.Items, loc+"/items"); err != nil {
		return nil, err
	}
	if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
		ap := *s.AdditionalProperties
		if ap.Schema, err = r.schema(s.AdditionalProperties.Schema, loc+"/additionalProperties"); err != nil {
			return nil, err
		}
		out.AdditionalProperties = &ap
	}
	if out.AllOf, err = r.schemaList(s.AllOf, loc+"/allOf"); err != nil {
		return nil, err
	}
	if out.OneOf, err = r.schemaList(s.OneOf, loc+"/oneOf"); err != nil {
		return nil, err
	}
	if out.AnyOf, err = r.schemaList(s.AnyOf, loc+"/anyOf"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *resolver) schemaList(list []*Schema, loc string) ([]*Schema, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]*Schema, len(list))
	for i, s := range list {
		resolved, err := r.schema(s, pointer(loc, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func (r *resolver) schemaRef(ref, loc string) (*Schema, error) {
	section, name, err := ParseRef(ref)
	if err != nil {
		return nil, &ResolveError{Kind: ErrInvalidRefFormat, Ref: ref, Location: loc}
	}
	if section != "schemas" {
		return nil, &ResolveError{Kind: ErrRefTargetNotFound, Ref: ref, Location: loc}
	}
	if r.visiting[ref] {
		r.logger.Debug("leaving cyclic $ref unexpanded", "ref", ref, "at", loc)
		return &Schema{Ref: ref}, nil
	}
	if cached, ok := r.cache[ref]; ok {
		return cached, nil
	}
	target, ok := r.doc.Components.Schemas.Get(name)
	if !ok || target == nil {
		return nil, &ResolveError{Kind: ErrRefTargetNotFound, Ref: ref, Location: loc}
	}

	r.visiting[ref] = true
	resolved, err := r.schema(target, ref)
	delete(r.visiting, ref)
	if err != nil {
		return nil, err
	}
	// resolved may be shared with another cached ref
	named := *resolved
	named.Origin = name
	r.cache[ref] = &named
	return &named, nil
}

func resolveComponent[T any](r *resolver, ref, section, loc string, components *ordered.Map[*T], resolve func(*T, string) (*T, error)) (*T, error) {
	sec, name, err := ParseRef(ref)
	if err != nil {
		return nil, &ResolveError{Kind: ErrInvalidRefFormat, Ref: ref, Location: loc}
	}
	if sec != section {
		return nil, &ResolveError{Kind: ErrRefTargetNotFound, Ref: ref, Location: loc}
	}
	if r.visiting[ref] {
		return nil, &ResolveError{Kind: ErrCircularRef, Ref: ref, Location: loc}
	}
	target, ok := components.Get(name)
	if !ok || target == nil {
		return nil, &ResolveError{Kind: ErrRefTargetNotFound, Ref: ref, Location: loc}
	}
	r.visiting[ref] = true
	defer delete(r.visiting, ref)
	return resolve(target, ref)
}
