package ir

import (
	"fmt"
	"strings"
)

// Lookup indexes the schemas of s by PascalCase name.
func (s *Spec) Lookup() map[string]Schema {
	out := make(map[string]Schema, len(s.Schemas))
	for _, sc := range s.Schemas {
		out[sc.SchemaName().Pascal] = sc
	}
	return out
}

// Walk calls fn for t and then for every type nested inside it, depth first.
// Returning false from fn skips the children of that type.
func Walk(t Type, fn func(Type) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch v := t.(type) {
	case ArrayType:
		Walk(v.Items, fn)
	case MapType:
		Walk(v.Values, fn)
	case ObjectType:
		for _, f := range v.Fields {
			Walk(f.Type, fn)
		}
	case UnionType:
		for _, variant := range v.Variants {
			Walk(variant, fn)
		}
	case IntersectionType:
		for _, p := range v.Parts {
			Walk(p, fn)
		}
	}
}

// TypeRefs returns the schema names referenced anywhere inside t, in order
// of appearance and without duplicates.
func TypeRefs(types ...Type) []string {
	var out []string
	seen := map[string]bool{}
	for _, t := range types {
		Walk(t, func(t Type) bool {
			if r, ok := t.(RefType); ok && !seen[r.Name] {
				seen[r.Name] = true
				out = append(out, r.Name)
			}
			return true
		})
	}
	return out
}

// SchemaTypes returns the types a schema declaration is built from.
func SchemaTypes(s Schema) []Type {
	switch v := s.(type) {
	case *ObjectSchema:
		out := make([]Type, 0, len(v.Fields)+1)
		for _, f := range v.Fields {
			out = append(out, f.Type)
		}
		if v.AdditionalProperties != nil {
			out = append(out, v.AdditionalProperties)
		}
		return out
	case *AliasSchema:
		return []Type{v.Target}
	case *UnionSchema:
		return v.Variants
	default:
		return nil
	}
}

// OperationTypes returns every type an operation mentions.
func OperationTypes(op *Operation) []Type {
	var out []Type
	for _, p := range op.Parameters {
		out = append(out, p.Type)
	}
	if op.RequestBody != nil {
		out = append(out, op.RequestBody.Type)
	}
	switch r := op.Return.(type) {
	case StandardReturn:
		out = append(out, r.Response.Type)
	case SseReturn:
		out = append(out, r.EventType)
		out = append(out, r.Variants...)
		if r.JSONResponse != nil {
			out = append(out, r.JSONResponse.Type)
		}
	}
	return out
}

// Reachable returns the names of all schemas transitively referenced by ops.
func (s *Spec) Reachable(ops []Operation) map[string]bool {
	lookup := s.Lookup()
	seen := map[string]bool{}
	var queue []string
	for i := range ops {
		queue = append(queue, TypeRefs(OperationTypes(&ops[i])...)...)
	}
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if seen[name] {
			continue
		}
		seen[name] = true
		if sc, ok := lookup[name]; ok {
			queue = append(queue, TypeRefs(SchemaTypes(sc)...)...)
		}
	}
	return seen
}

// Describe renders t in a compact, language-neutral notation such as
// "Array<Ref(Pet)>" or "Union<String | Null>".
func Describe(t Type) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case StringType:
		return "String"
	case StringLiteralType:
		return fmt.Sprintf("%q", v.Value)
	case NumberType:
		return "Number"
	case IntegerType:
		return "Integer"
	case BooleanType:
		return "Boolean"
	case NullType:
		return "Null"
	case AnyType:
		return "Any"
	case VoidType:
		return "Void"
	case DateTimeType:
		return "DateTime"
	case BinaryType:
		return "Binary"
	case ArrayType:
		return "Array<" + Describe(v.Items) + ">"
	case MapType:
		return "Map<" + Describe(v.Values) + ">"
	case ObjectType:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			opt := "?"
			if f.Required {
				opt = ""
			}
			parts[i] = f.Name + opt + ": " + Describe(f.Type)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case RefType:
		return "Ref(" + v.Name + ")"
	case UnionType:
		return "Union<" + describeList(v.Variants, " | ") + ">"
	case IntersectionType:
		return "Intersection<" + describeList(v.Parts, " & ") + ">"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func describeList(types []Type, sep string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = Describe(t)
	}
	return strings.Join(parts, sep)
}
