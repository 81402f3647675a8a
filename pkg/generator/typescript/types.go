package typescript

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blimu-dev/specir/pkg/ir"
)

// tsType renders t as a TypeScript type. Schema references are prefixed with
// ns, which is empty inside types.ts.
func tsType(t ir.Type, ns string) string {
	switch v := t.(type) {
	case ir.StringType, ir.DateTimeType:
		return "string"
	case ir.StringLiteralType:
		return quote(v.Value)
	case ir.NumberType, ir.IntegerType:
		return "number"
	case ir.BooleanType:
		return "boolean"
	case ir.NullType:
		return "null"
	case ir.VoidType:
		return "void"
	case ir.BinaryType:
		return "Blob"
	case ir.ArrayType:
		return "Array<" + tsType(v.Items, ns) + ">"
	case ir.MapType:
		return "Record<string, " + tsType(v.Values, ns) + ">"
	case ir.ObjectType:
		if len(v.Fields) == 0 {
			return "Record<string, unknown>"
		}
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = propName(f.Name) + optional(f.Required) + ": " + tsType(f.Type, ns)
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	case ir.RefType:
		return ns + v.Name
	case ir.UnionType:
		if len(v.Variants) == 0 {
			return "never"
		}
		return joinTypes(v.Variants, " | ", ns)
	case ir.IntersectionType:
		if len(v.Parts) == 0 {
			return "unknown"
		}
		return joinTypes(v.Parts, " & ", ns)
	default:
		return "unknown"
	}
}

func joinTypes(types []ir.Type, sep, ns string) string {
	parts := make([]string, len(types))
	for i, t := range types {
		s := tsType(t, ns)
		// keep "A & (B | C)" unambiguous
		if strings.Contains(s, " | ") || strings.Contains(s, " & ") {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

// declaration renders a named schema for types.ts.
func declaration(s ir.Schema) string {
	var b strings.Builder
	switch v := s.(type) {
	case *ir.ObjectSchema:
		writeDoc(&b, "", v.Description)
		if len(v.Fields) == 0 && v.AdditionalProperties != nil {
			fmt.Fprintf(&b, "export type %s = Record<string, %s>;", v.Name.Pascal, tsType(v.AdditionalProperties, ""))
			break
		}
		fmt.Fprintf(&b, "export interface %s {\n", v.Name.Pascal)
		for _, f := range v.Fields {
			writeDoc(&b, "  ", f.Description)
			readonly := ""
			if f.ReadOnly {
				readonly = "readonly "
			}
			fmt.Fprintf(&b, "  %s%s%s: %s;\n", readonly, propName(f.Name.Original), optional(f.Required), tsType(f.Type, ""))
		}
		if v.AdditionalProperties != nil {
			// an index signature must admit every declared field
			b.WriteString("  [key: string]: unknown;\n")
		}
		b.WriteString("}")
	case *ir.EnumSchema:
		writeDoc(&b, "", v.Description)
		values := make([]string, len(v.Variants))
		for i, value := range v.Variants {
			values[i] = quote(value)
		}
		fmt.Fprintf(&b, "export type %s = %s;", v.Name.Pascal, strings.Join(values, " | "))
	case *ir.AliasSchema:
		writeDoc(&b, "", v.Description)
		fmt.Fprintf(&b, "export type %s = %s;", v.Name.Pascal, tsType(v.Target, ""))
	case *ir.UnionSchema:
		doc := v.Description
		if d := v.Discriminator; d != nil {
			doc = strings.TrimSpace(doc + "\n\nDiscriminated by `" + d.PropertyName + "`.")
		}
		writeDoc(&b, "", doc)
		fmt.Fprintf(&b, "export type %s = %s;", v.Name.Pascal, tsType(ir.UnionType{Variants: v.Variants}, ""))
	}
	return b.String()
}

// streamEvent is an event union shared by streaming endpoints.
type streamEvent struct {
	Name string
	Type string
}

// streamEvents collects the named event unions of SSE operations, once per
// name.
func streamEvents(spec *ir.Spec) []streamEvent {
	var out []streamEvent
	seen := map[string]bool{}
	for _, op := range spec.Operations {
		sse, ok := op.Return.(ir.SseReturn)
		if !ok || sse.EventTypeName == "" || seen[sse.EventTypeName] {
			continue
		}
		seen[sse.EventTypeName] = true
		out = append(out, streamEvent{Name: sse.EventTypeName, Type: tsType(ir.UnionType{Variants: sse.Variants}, "")})
	}
	return out
}

func writeDoc(b *strings.Builder, indent, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	doc = strings.ReplaceAll(doc, "*/", "*\\/")
	lines := strings.Split(doc, "\n")
	if len(lines) == 1 {
		fmt.Fprintf(b, "%s/** %s */\n", indent, lines[0])
		return
	}
	fmt.Fprintf(b, "%s/**\n", indent)
	for _, l := range lines {
		fmt.Fprintf(b, "%s * %s\n", indent, strings.TrimRight(l, " "))
	}
	fmt.Fprintf(b, "%s */\n", indent)
}

func optional(required bool) string {
	if required {
		return ""
	}
	return "?"
}

func quote(s string) string {
	out, _ := json.Marshal(s)
	return string(out)
}

// propName quotes TypeScript property names that contain special characters
func propName(name string) string {
	needsQuoting := name == ""
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '_' || char == '$') {
			needsQuoting = true
			break
		}
	}
	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		needsQuoting = true
	}
	if needsQuoting {
		return quote(name)
	}
	return name
}
