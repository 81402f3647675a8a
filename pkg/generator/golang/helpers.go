package golang

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
)

// goType converts an IR type to a Go type expression
func goType(t ir.Type) string {
	switch v := t.(type) {
	case ir.StringType, ir.StringLiteralType, ir.DateTimeType:
		return "string"
	case ir.NumberType:
		return "float64"
	case ir.IntegerType:
		return "int64"
	case ir.BooleanType:
		return "bool"
	case ir.BinaryType:
		return "[]byte"
	case ir.ArrayType:
		return "[]" + goType(v.Items)
	case ir.MapType:
		return "map[string]" + goType(v.Values)
	case ir.ObjectType:
		if len(v.Fields) == 0 {
			return "map[string]any"
		}
		var b strings.Builder
		b.WriteString("struct {\n")
		for _, f := range v.Fields {
			n := naming.Normalize(f.Name)
			fmt.Fprintf(&b, "%s %s %s\n", exported(n.Pascal), fieldType(f.Type, f.Required), jsonTag(f.Name, f.Required))
		}
		b.WriteString("}")
		return b.String()
	case ir.RefType:
		return v.Name
	case ir.UnionType:
		// T | null is the only union Go can spell
		if base, ok := nullable(v); ok {
			return "*" + goType(base)
		}
		return "any"
	default:
		return "any"
	}
}

// fieldType points optional references so that recursive schemas stay
// representable.
func fieldType(t ir.Type, required bool) string {
	if ref, ok := t.(ir.RefType); ok && !required {
		return "*" + ref.Name
	}
	return goType(t)
}

func nullable(u ir.UnionType) (ir.Type, bool) {
	if len(u.Variants) != 2 {
		return nil, false
	}
	for i, v := range u.Variants {
		if _, ok := v.(ir.NullType); ok {
			other := u.Variants[1-i]
			if _, isNull := other.(ir.NullType); !isNull {
				return other, true
			}
		}
	}
	return nil, false
}

func jsonTag(name string, required bool) string {
	if required {
		return fmt.Sprintf("`json:%s`", strconv.Quote(name))
	}
	return fmt.Sprintf("`json:%s`", strconv.Quote(name+",omitempty"))
}

// declaration renders a named schema as Go source.
func declaration(s ir.Schema) string {
	var b strings.Builder
	name := s.SchemaName().Pascal
	switch v := s.(type) {
	case *ir.ObjectSchema:
		doc := v.Description
		if v.AdditionalProperties != nil {
			doc = strings.TrimSpace(doc + "\n\nUndeclared keys (" + ir.Describe(v.AdditionalProperties) + ") are accepted on decode and dropped.")
		}
		writeComment(&b, doc)
		fmt.Fprintf(&b, "type %s struct {\n", name)
		for _, f := range v.Fields {
			if c := formatGoComment(f.Description); c != "" {
				b.WriteString(c + "\n")
			}
			fmt.Fprintf(&b, "%s %s %s\n", exported(f.Name.Pascal), fieldType(f.Type, f.Required), jsonTag(f.Name.Original, f.Required))
		}
		b.WriteString("}")
	case *ir.EnumSchema:
		writeComment(&b, v.Description)
		fmt.Fprintf(&b, "type %s string\n\nconst (\n", name)
		for _, value := range v.Variants {
			fmt.Fprintf(&b, "%s%s %s = %s\n", name, constSuffix(value), name, strconv.Quote(value))
		}
		b.WriteString(")")
	case *ir.AliasSchema:
		writeComment(&b, v.Description)
		fmt.Fprintf(&b, "type %s = %s", name, goType(v.Target))
	case *ir.UnionSchema:
		doc := v.Description
		variants := make([]string, len(v.Variants))
		for i, t := range v.Variants {
			variants[i] = ir.Describe(t)
		}
		doc = strings.TrimSpace(doc + "\n\nOne of: " + strings.Join(variants, ", ") + ".")
		if d := v.Discriminator; d != nil {
			doc += "\nDiscriminated by " + strconv.Quote(d.PropertyName) + "."
		}
		writeComment(&b, doc)
		fmt.Fprintf(&b, "type %s any", name)
	}
	return b.String()
}

func writeComment(b *strings.Builder, doc string) {
	if doc == "" {
		return
	}
	b.WriteString(formatGoComment(doc))
	b.WriteString("\n")
}

// exported makes a Pascal-cased name usable as an exported Go identifier.
func exported(pascal string) string {
	if pascal == "" || !unicode.IsUpper([]rune(pascal)[0]) {
		return "X" + pascal
	}
	return pascal
}

// constSuffix is the part of an enum constant name after the type name.
func constSuffix(value string) string {
	pascal := naming.Normalize(value).Pascal
	if pascal == "" {
		return "Empty"
	}
	if unicode.IsDigit([]rune(pascal)[0]) {
		return "V" + pascal
	}
	return pascal
}

// returnKind names the shape of an operation result.
func returnKind(r ir.ReturnType) string {
	switch v := r.(type) {
	case ir.SseReturn:
		if v.AlsoHasJSON {
			return "ReturnStreamOrJSON"
		}
		return "ReturnStream"
	case ir.StandardReturn:
		return "ReturnJSON"
	default:
		return "ReturnNone"
	}
}

// formatGoComment formats a string as a proper Go comment, handling multiline descriptions
func formatGoComment(s string) string {
	if s == "" {
		return ""
	}

	lines := strings.Split(s, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			result = append(result, "//")
		} else {
			result = append(result, "// "+line)
		}
	}
	return strings.Join(result, "\n")
}

var invalidPackageChars = regexp.MustCompile(`[^a-z0-9_]`)

// sanitizePackageName ensures the package name is valid for Go
func sanitizePackageName(name string) string {
	// keep the last element of a module path
	parts := strings.Split(name, "/")
	if len(parts) > 0 {
		name = parts[len(parts)-1]
	}

	name = strings.ToLower(name)
	name = invalidPackageChars.ReplaceAllString(name, "")

	if len(name) > 0 && name[0] >= '0' && name[0] <= '9' {
		name = "pkg" + name
	}
	if name == "" {
		name = "client"
	}
	return name
}
