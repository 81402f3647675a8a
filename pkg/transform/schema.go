package transform

import (
	"fmt"
	"slices"
	"strings"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
	"github.com/blimu-dev/specir/pkg/openapi"
)

// TypeOf converts a resolved schema node into a structural type. It never
// fails: anything it cannot classify becomes ir.AnyType.
//
// Nodes standing for a named component become an ir.RefType. Otherwise the
// first matching rule wins: oneOf/anyOf, allOf, enum, const, type, and
// finally the implicit object or array shapes.
func TypeOf(s *openapi.Schema) ir.Type {
	if s == nil {
		return ir.AnyType{}
	}
	if s.IsNamed() {
		name, err := refName(s)
		if err != nil {
			return ir.AnyType{}
		}
		return ir.RefType{Name: name}
	}

	switch {
	case len(s.OneOf) > 0:
		return ir.UnionType{Variants: typesOf(s.OneOf)}
	case len(s.AnyOf) > 0:
		return ir.UnionType{Variants: typesOf(s.AnyOf)}
	case len(s.AllOf) > 0:
		return allOfType(s)
	}
	if t, ok := enumType(s); ok {
		return t
	}
	if s.HasConst {
		if v, ok := s.Const.(string); ok {
			return ir.StringLiteralType{Value: v}
		}
		return ir.StringType{}
	}
	if len(s.Type) > 0 {
		return typeSetType(s)
	}
	if s.Properties.Len() > 0 {
		return objectType(s)
	}
	if s.Items != nil {
		return ir.ArrayType{Items: TypeOf(s.Items)}
	}
	if ap := s.AdditionalProperties; ap != nil && ap.Schema != nil {
		return ir.MapType{Values: TypeOf(ap.Schema)}
	}
	return ir.AnyType{}
}

// SchemaOf converts a resolved component schema into a named declaration.
func SchemaOf(name string, s *openapi.Schema) (ir.Schema, error) {
	n := naming.Normalize(name)
	if s == nil {
		return &ir.AliasSchema{Name: n, Target: ir.AnyType{}}, nil
	}
	if s.IsNamed() {
		target, err := refName(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaConversion, name, err)
		}
		return &ir.AliasSchema{Name: n, Target: ir.RefType{Name: target}}, nil
	}

	desc := s.Description
	switch {
	case len(s.OneOf) > 0:
		d, err := discriminatorOf(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrSchemaConversion, name, err)
		}
		return &ir.UnionSchema{Name: n, Description: desc, Variants: typesOf(s.OneOf), Discriminator: d}, nil
	case len(s.AnyOf) > 0:
		// anyOf members may overlap, so a discriminator would be unsound
		return &ir.UnionSchema{Name: n, Description: desc, Variants: typesOf(s.AnyOf)}, nil
	case len(s.AllOf) > 0:
		if flattenable(s.AllOf) {
			return &ir.ObjectSchema{
				Name:                 n,
				Description:          desc,
				Fields:               fieldsOf(flatProps(s)),
				AdditionalProperties: flatAdditional(s),
			}, nil
		}
		return &ir.AliasSchema{Name: n, Description: desc, Target: allOfType(s)}, nil
	}

	if len(s.Enum) > 0 {
		if values, _, ok := enumStrings(s.Enum); ok && len(values) > 1 {
			return &ir.EnumSchema{Name: n, Description: desc, Variants: values}, nil
		}
		return &ir.AliasSchema{Name: n, Description: desc, Target: TypeOf(s)}, nil
	}
	if isObject(s) {
		return &ir.ObjectSchema{
			Name:                 n,
			Description:          desc,
			Fields:               fieldsOf(ownProps(s)),
			AdditionalProperties: additionalType(s.AdditionalProperties),
		}, nil
	}
	return &ir.AliasSchema{Name: n, Description: desc, Target: TypeOf(s)}, nil
}

// componentName returns the raw component name a named node stands for.
func componentName(s *openapi.Schema) (string, error) {
	if s.Origin != "" {
		return s.Origin, nil
	}
	_, name, err := openapi.ParseRef(s.Ref)
	return name, err
}

func refName(s *openapi.Schema) (string, error) {
	name, err := componentName(s)
	if err != nil {
		return "", err
	}
	return naming.Normalize(name).Pascal, nil
}

func typesOf(list []*openapi.Schema) []ir.Type {
	out := make([]ir.Type, len(list))
	for i, s := range list {
		out[i] = TypeOf(s)
	}
	return out
}

func isObject(s *openapi.Schema) bool {
	if s.HasConst || len(s.Enum) > 0 || s.Nullable {
		return false
	}
	if s.Properties.Len() == 0 {
		return false
	}
	return len(s.Type) == 0 || (len(s.Type) == 1 && s.Type[0] == "object")
}

func objectType(s *openapi.Schema) ir.Type {
	if s.Properties.Len() > 0 {
		return ir.ObjectType{Fields: inlineFields(ownProps(s))}
	}
	if ap := s.AdditionalProperties; ap != nil {
		if ap.Schema != nil {
			return ir.MapType{Values: TypeOf(ap.Schema)}
		}
		if ap.Allowed {
			return ir.MapType{Values: ir.AnyType{}}
		}
	}
	return ir.AnyType{}
}

func additionalType(ap *openapi.AdditionalProperties) ir.Type {
	switch {
	case ap == nil:
		return nil
	case ap.Schema != nil:
		return TypeOf(ap.Schema)
	case ap.Allowed:
		return ir.AnyType{}
	default:
		return nil
	}
}

func typeSetType(s *openapi.Schema) ir.Type {
	hasNull := s.Nullable
	var nonNull []string
	for _, t := range s.Type {
		if t == "null" {
			hasNull = true
			continue
		}
		if !slices.Contains(nonNull, t) {
			nonNull = append(nonNull, t)
		}
	}

	switch len(nonNull) {
	case 0:
		return ir.NullType{}
	case 1:
		base := singleType(nonNull[0], s)
		if hasNull {
			return unionOf(base, ir.NullType{})
		}
		return base
	default:
		variants := make([]ir.Type, 0, len(nonNull)+1)
		for _, t := range nonNull {
			variants = append(variants, singleType(t, s))
		}
		if hasNull {
			variants = append(variants, ir.NullType{})
		}
		return unionOf(variants...)
	}
}

func singleType(t string, s *openapi.Schema) ir.Type {
	switch t {
	case "string":
		switch s.Format {
		case "date", "date-time":
			return ir.DateTimeType{}
		case "binary", "byte":
			return ir.BinaryType{}
		}
		return ir.StringType{}
	case "integer":
		return ir.IntegerType{}
	case "number":
		return ir.NumberType{}
	case "boolean":
		return ir.BooleanType{}
	case "null":
		return ir.NullType{}
	case "array":
		if s.Items == nil {
			return ir.ArrayType{Items: ir.AnyType{}}
		}
		return ir.ArrayType{Items: TypeOf(s.Items)}
	case "object":
		return objectType(s)
	default:
		return ir.AnyType{}
	}
}

// unionOf builds a union, flattening nested unions.
func unionOf(types ...ir.Type) ir.Type {
	var variants []ir.Type
	for _, t := range types {
		if u, ok := t.(ir.UnionType); ok {
			variants = append(variants, u.Variants...)
			continue
		}
		variants = append(variants, t)
	}
	return ir.UnionType{Variants: variants}
}

// enumStrings returns the distinct string values of an enum in order.
// ok is false when the enum holds anything other than strings and nulls.
func enumStrings(values []any) (strs []string, hasNull, ok bool) {
	for _, v := range values {
		switch s := v.(type) {
		case nil:
			hasNull = true
		case string:
			if !slices.Contains(strs, s) {
				strs = append(strs, s)
			}
		default:
			return nil, false, false
		}
	}
	return strs, hasNull, true
}

func enumType(s *openapi.Schema) (ir.Type, bool) {
	if len(s.Enum) == 0 {
		return nil, false
	}
	values, hasNull, ok := enumStrings(s.Enum)
	if !ok {
		return nil, false
	}
	variants := make([]ir.Type, 0, len(values)+1)
	for _, v := range values {
		variants = append(variants, ir.StringLiteralType{Value: v})
	}
	if hasNull {
		variants = append(variants, ir.NullType{})
	}
	if len(variants) == 1 {
		return variants[0], true
	}
	return ir.UnionType{Variants: variants}, true
}

func allOfType(s *openapi.Schema) ir.Type {
	if flattenable(s.AllOf) {
		return ir.ObjectType{Fields: inlineFields(flatProps(s))}
	}
	parts := typesOf(s.AllOf)
	if s.Properties.Len() > 0 {
		parts = append(parts, ir.ObjectType{Fields: inlineFields(ownProps(s))})
	}
	return ir.IntersectionType{Parts: parts}
}

// flattenable reports whether allOf members can be merged into one object:
// none of them is a reference and each is itself object-shaped.
func flattenable(members []*openapi.Schema) bool {
	for _, m := range members {
		if m == nil {
			continue
		}
		if m.IsNamed() || !objectShaped(m) {
			return false
		}
	}
	return true
}

func objectShaped(m *openapi.Schema) bool {
	if len(m.OneOf) > 0 || len(m.AnyOf) > 0 || len(m.Enum) > 0 || m.HasConst || m.Items != nil {
		return false
	}
	if len(m.Type) > 1 || (len(m.Type) == 1 && m.Type[0] != "object") {
		return false
	}
	return len(m.AllOf) == 0 || flattenable(m.AllOf)
}

type prop struct {
	name     string
	schema   *openapi.Schema
	required bool
}

func ownProps(s *openapi.Schema) []prop {
	out := make([]prop, 0, s.Properties.Len())
	for name, p := range s.Properties.All() {
		out = append(out, prop{name: name, schema: p, required: slices.Contains(s.Required, name)})
	}
	return out
}

// flatProps merges the properties of an inline allOf: composed members
// first, own properties last. A later property with the same name replaces
// the earlier one in place.
func flatProps(s *openapi.Schema) []prop {
	var out []prop
	index := map[string]int{}
	add := func(p prop) {
		if i, ok := index[p.name]; ok {
			out[i] = p
			return
		}
		index[p.name] = len(out)
		out = append(out, p)
	}
	for _, m := range s.AllOf {
		if m == nil {
			continue
		}
		for _, p := range flatProps(m) {
			add(p)
		}
	}
	for _, p := range ownProps(s) {
		add(p)
	}
	// required on the composing schema also covers inherited properties
	for i := range out {
		if slices.Contains(s.Required, out[i].name) {
			out[i].required = true
		}
	}
	return out
}

func flatAdditional(s *openapi.Schema) ir.Type {
	t := additionalType(s.AdditionalProperties)
	if t != nil {
		return t
	}
	for i := len(s.AllOf) - 1; i >= 0; i-- {
		if m := s.AllOf[i]; m != nil {
			if t := flatAdditional(m); t != nil {
				return t
			}
		}
	}
	return nil
}

func inlineFields(props []prop) []ir.InlineField {
	out := make([]ir.InlineField, len(props))
	for i, p := range props {
		out[i] = ir.InlineField{Name: p.name, Type: TypeOf(p.schema), Required: p.required}
	}
	return out
}

func fieldsOf(props []prop) []ir.Field {
	out := make([]ir.Field, len(props))
	for i, p := range props {
		f := ir.Field{Name: naming.Normalize(p.name), Type: TypeOf(p.schema), Required: p.required}
		// an expanded reference carries the target's annotations, not the field's
		if p.schema != nil && !p.schema.IsNamed() {
			f.Description = p.schema.Description
			f.ReadOnly = p.schema.ReadOnly
			f.WriteOnly = p.schema.WriteOnly
		}
		out[i] = f
	}
	return out
}

// discriminatorOf builds the discriminator of a oneOf schema. Without an
// explicit mapping, every referenced variant is mapped from the value its
// discriminator property is pinned to, or from its component name.
func discriminatorOf(s *openapi.Schema) (*ir.Discriminator, error) {
	d := s.Discriminator
	if d == nil || d.PropertyName == "" {
		return nil, nil
	}
	out := &ir.Discriminator{PropertyName: d.PropertyName}
	if d.Mapping.Len() > 0 {
		for value, target := range d.Mapping.All() {
			out.Mapping = append(out.Mapping, ir.DiscriminatorMapping{Value: value, Schema: mappingTarget(target)})
		}
		return out, nil
	}
	for _, v := range s.OneOf {
		if !v.IsNamed() {
			continue
		}
		name, err := componentName(v)
		if err != nil {
			return nil, err
		}
		out.Mapping = append(out.Mapping, ir.DiscriminatorMapping{
			Value:  pinnedValue(v, d.PropertyName, name),
			Schema: naming.Normalize(name).Pascal,
		})
	}
	return out, nil
}

func mappingTarget(target string) string {
	if strings.HasPrefix(target, "#") {
		if _, name, err := openapi.ParseRef(target); err == nil {
			return naming.Normalize(name).Pascal
		}
		target = target[strings.LastIndex(target, "/")+1:]
	}
	return naming.Normalize(target).Pascal
}

// pinnedValue returns the single string the variant allows for property, or
// fallback when the variant does not pin it.
func pinnedValue(v *openapi.Schema, property, fallback string) string {
	p, ok := v.Properties.Get(property)
	if !ok || p == nil || p.IsNamed() {
		return fallback
	}
	if s, ok := p.Const.(string); ok && p.HasConst {
		return s
	}
	if values, _, ok := enumStrings(p.Enum); ok && len(values) == 1 {
		return values[0]
	}
	return fallback
}
