package golang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/specir/pkg/config"
	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
)

func sampleSpec() *ir.Spec {
	return &ir.Spec{
		Info: ir.Info{Title: "Pets", Version: "1.0"},
		Schemas: []ir.Schema{
			&ir.ObjectSchema{
				Name:        naming.Normalize("Pet"),
				Description: "A pet in the store.",
				Fields: []ir.Field{
					{Name: naming.Normalize("id"), Type: ir.IntegerType{}, Required: true},
					{Name: naming.Normalize("nick_name"), Type: ir.UnionType{Variants: []ir.Type{ir.StringType{}, ir.NullType{}}}},
					{Name: naming.Normalize("labels"), Type: ir.MapType{Values: ir.StringType{}}, Description: "Free form labels."},
				},
			},
			&ir.EnumSchema{Name: naming.Normalize("Status"), Variants: []string{"available", "sold-out", "1st"}},
			&ir.AliasSchema{Name: naming.Normalize("PetList"), Target: ir.ArrayType{Items: ir.RefType{Name: "Pet"}}},
			&ir.UnionSchema{
				Name:          naming.Normalize("Event"),
				Variants:      []ir.Type{ir.RefType{Name: "Pet"}, ir.RefType{Name: "Status"}},
				Discriminator: &ir.Discriminator{PropertyName: "type"},
			},
		},
		Operations: []ir.Operation{
			{
				Name:   naming.Normalize("listPets"),
				Method: ir.MethodGet,
				Path:   "/pets",
				Tags:   []string{"pets"},
				Return: ir.StandardReturn{Response: ir.Response{Type: ir.RefType{Name: "PetList"}}},
			},
			{
				Name:   naming.Normalize("watchPets"),
				Method: ir.MethodGet,
				Path:   "/pets/events",
				Return: ir.SseReturn{EventType: ir.RefType{Name: "Event"}},
			},
			{
				Name:   naming.Normalize("deletePet"),
				Method: ir.MethodDelete,
				Path:   "/pets/{id}",
				Return: ir.VoidReturn{},
			},
		},
	}
}

func TestGenerate(t *testing.T) {
	g := NewGoGenerator()
	assert.Equal(t, "go", g.GetType())

	files, err := g.Generate(config.Client{PackageName: "github.com/acme/pet-client"}, sampleSpec())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "types.go", files[0].Path)
	assert.Equal(t, "operations.go", files[1].Path)

	types := string(files[0].Content)
	assert.Contains(t, types, "// Code generated by specir. DO NOT EDIT.")
	assert.Contains(t, types, "package petclient")
	assert.Contains(t, types, "// A pet in the store.\ntype Pet struct {")
	assert.Contains(t, types, "`json:\"id\"`")
	assert.Regexp(t, `NickName\s+\*string\s+`+"`json:\"nick_name,omitempty\"`", types)
	assert.Contains(t, types, "// Free form labels.")
	assert.Contains(t, types, "type Status string")
	assert.Regexp(t, `StatusSoldOut\s+Status = "sold-out"`, types)
	assert.Regexp(t, `StatusV1st\s+Status = "1st"`, types)
	assert.Contains(t, types, "type PetList = []Pet")
	assert.Contains(t, types, "type Event any")
	assert.Contains(t, types, `// Discriminated by "type".`)

	ops := string(files[1].Content)
	assert.Contains(t, ops, "package petclient")
	assert.Regexp(t, `Name:\s+"ListPets",`, ops)
	assert.Regexp(t, `Path:\s+"/pets/\{id\}",`, ops)
	assert.Regexp(t, `Tags:\s+\[\]string\{"pets"\},`, ops)
	assert.Regexp(t, `Return:\s+ReturnStream,`, ops)
	assert.Regexp(t, `Return:\s+ReturnNone,`, ops)
}

func TestGoType(t *testing.T) {
	tests := []struct {
		name string
		in   ir.Type
		want string
	}{
		{"string", ir.StringType{}, "string"},
		{"literal", ir.StringLiteralType{Value: "x"}, "string"},
		{"date time", ir.DateTimeType{}, "string"},
		{"number", ir.NumberType{}, "float64"},
		{"integer", ir.IntegerType{}, "int64"},
		{"boolean", ir.BooleanType{}, "bool"},
		{"binary", ir.BinaryType{}, "[]byte"},
		{"array", ir.ArrayType{Items: ir.RefType{Name: "Pet"}}, "[]Pet"},
		{"map", ir.MapType{Values: ir.IntegerType{}}, "map[string]int64"},
		{"empty object", ir.ObjectType{}, "map[string]any"},
		{"nullable", ir.UnionType{Variants: []ir.Type{ir.NullType{}, ir.BooleanType{}}}, "*bool"},
		{"union", ir.UnionType{Variants: []ir.Type{ir.StringType{}, ir.IntegerType{}}}, "any"},
		{"intersection", ir.IntersectionType{Parts: []ir.Type{ir.RefType{Name: "A"}}}, "any"},
		{"any", ir.AnyType{}, "any"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, goType(tt.in))
		})
	}

	inline := goType(ir.ObjectType{Fields: []ir.InlineField{{Name: "url", Type: ir.StringType{}, Required: true}}})
	assert.Equal(t, "struct {\nUrl string `json:\"url\"`\n}", inline)
}

func TestSanitizePackageName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"client", "client"},
		{"github.com/acme/pet-client", "petclient"},
		{"My_SDK", "my_sdk"},
		{"2fa", "pkg2fa"},
		{"", "client"},
		{"---", "client"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizePackageName(tt.in), tt.in)
	}
}

func TestFormatGoComment(t *testing.T) {
	assert.Equal(t, "", formatGoComment(""))
	assert.Equal(t, "// one line", formatGoComment("one line"))
	assert.Equal(t, "// first\n//\n// third", formatGoComment("first\n\n  third  "))
}

func TestDeclarationAdditionalProperties(t *testing.T) {
	got := declaration(&ir.ObjectSchema{
		Name:                 naming.Normalize("Labels"),
		Description:          "Labelled thing.",
		Fields:               []ir.Field{{Name: naming.Normalize("id"), Type: ir.StringType{}, Required: true}},
		AdditionalProperties: ir.StringType{},
	})
	assert.NotContains(t, got, "AdditionalProperties")
	assert.Contains(t, got, "// Labelled thing.\n//\n// Undeclared keys (String) are accepted on decode and dropped.\ntype Labels struct {")
	assert.Contains(t, got, "Id string `json:\"id\"`")
}
