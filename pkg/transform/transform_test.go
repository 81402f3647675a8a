package transform

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/openapi"
)

func loadFixture(t *testing.T, name string) *openapi.Document {
	t.Helper()
	doc, err := openapi.LoadDocument("testdata/" + name)
	require.NoError(t, err)
	return doc
}

func compile(t *testing.T, name string, opts Options) *ir.Spec {
	t.Helper()
	spec, err := Transform(loadFixture(t, name), opts)
	require.NoError(t, err)
	return spec
}

func operationNamed(t *testing.T, spec *ir.Spec, name string) ir.Operation {
	t.Helper()
	for _, op := range spec.Operations {
		if op.Name.Original == name {
			return op
		}
	}
	t.Fatalf("no operation %q", name)
	return ir.Operation{}
}

func schemaNames(spec *ir.Spec) []string {
	out := make([]string, len(spec.Schemas))
	for i, s := range spec.Schemas {
		out[i] = s.SchemaName().Pascal
	}
	return out
}

func TestTransformPetstore(t *testing.T) {
	spec := compile(t, "petstore.yaml", Options{})

	assert.Equal(t, ir.Info{Title: "Petstore", Description: "A sample pet store", Version: "1.0.0"}, spec.Info)
	assert.Equal(t, []ir.Server{{URL: "https://petstore.example.com/v1", Description: "production"}}, spec.Servers)
	assert.Len(t, spec.Tags, 2)
	require.Len(t, spec.SecuritySchemes, 1)
	assert.Equal(t, "X-API-Key", spec.SecuritySchemes[0].Name)

	assert.Equal(t, []string{
		"Pet", "NewPet", "Category", "PetOwner", "Node",
		"PetOwner2", "UploadPhotoResponse", "UploadPhotoBody",
	}, schemaNames(spec))

	names := make([]string, len(spec.Operations))
	for i, op := range spec.Operations {
		names[i] = op.Name.Original
	}
	assert.Equal(t, []string{"listPets", "createPet", "getPet", "deletePet", "uploadPhoto"}, names)
}

func TestTransformSchemas(t *testing.T) {
	spec := compile(t, "petstore.yaml", Options{})
	lookup := spec.Lookup()

	pet := lookup["Pet"].(*ir.ObjectSchema)
	assert.Equal(t, "A pet in the store", pet.Description)
	got := map[string]string{}
	for _, f := range pet.Fields {
		got[f.Name.Original] = ir.Describe(f.Type)
	}
	assert.Equal(t, map[string]string{
		"id":       "Integer",
		"name":     "String",
		"tag":      "Union<String | Null>",
		"born":     "DateTime",
		"owner":    "Ref(PetOwner2)",
		"labels":   "Map<String>",
		"category": "Ref(Category)",
	}, got)
	assert.True(t, pet.Fields[0].ReadOnly)
	assert.True(t, pet.Fields[0].Required)

	assert.Equal(t, []string{"dog", "cat", "bird"}, lookup["Category"].(*ir.EnumSchema).Variants)
	assert.Len(t, lookup["NewPet"].(*ir.ObjectSchema).Fields, 3)
	assert.Len(t, lookup["PetOwner2"].(*ir.ObjectSchema).Fields, 2)
}

func TestTransformCycle(t *testing.T) {
	spec := compile(t, "petstore.yaml", Options{})

	count := 0
	for _, s := range spec.Schemas {
		if s.SchemaName().Pascal == "Node" {
			count++
		}
	}
	require.Equal(t, 1, count)

	node := spec.Lookup()["Node"].(*ir.ObjectSchema)
	require.Len(t, node.Fields, 2)
	assert.Equal(t, ir.ArrayType{Items: ir.RefType{Name: "Node"}}, node.Fields[1].Type)
}

func TestTransformMutuallyReferencingSchemas(t *testing.T) {
	const n = 12
	var b strings.Builder
	b.WriteString("openapi: 3.0.0\ninfo: {title: t, version: \"1\"}\ncomponents:\n  schemas:\n")
	for i := range n {
		fmt.Fprintf(&b, "    S%d:\n      type: object\n      properties:\n", i)
		for j := range n {
			if j != i {
				fmt.Fprintf(&b, "        s%d: { $ref: \"#/components/schemas/S%d\" }\n", j, j)
			}
		}
	}
	doc, err := openapi.Parse([]byte(b.String()))
	require.NoError(t, err)

	start := time.Now()
	spec, err := Transform(doc, Options{})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	require.Len(t, spec.Schemas, n)
	for _, s := range spec.Schemas {
		obj := s.(*ir.ObjectSchema)
		require.Len(t, obj.Fields, n-1)
		for _, f := range obj.Fields {
			assert.Equal(t, ir.RefType{Name: "S" + strings.TrimPrefix(f.Name.Original, "s")}, f.Type)
		}
	}
}

func TestTransformOperations(t *testing.T) {
	spec := compile(t, "petstore.yaml", Options{})

	list := operationNamed(t, spec, "listPets")
	assert.Equal(t, ir.MethodGet, list.Method)
	assert.Equal(t, "List all pets", list.Summary)
	require.Len(t, list.Parameters, 2)
	assert.Equal(t, ir.InQuery, list.Parameters[0].Location)
	assert.False(t, list.Parameters[0].Required)
	assert.Equal(t, `Union<"available" | "sold">`, ir.Describe(list.Parameters[1].Type))
	assert.Equal(t, "Array<Ref(Pet)>", ir.Describe(list.Return.(ir.StandardReturn).Response.Type))
	assert.Equal(t, []ir.SecurityRequirement{{"apiKey": {}}}, list.Security)

	create := operationNamed(t, spec, "createPet")
	require.NotNil(t, create.RequestBody)
	assert.True(t, create.RequestBody.Required)
	assert.Equal(t, "application/json", create.RequestBody.ContentType)
	assert.Equal(t, ir.RefType{Name: "NewPet"}, create.RequestBody.Type)

	get := operationNamed(t, spec, "getPet")
	assert.Equal(t, "/pets/{petId}", get.Path)
	require.Len(t, get.Parameters, 1)
	assert.Equal(t, "petId", get.Parameters[0].Name.Original)
	assert.True(t, get.Parameters[0].Required)
	assert.Equal(t, ir.RefType{Name: "Pet"}, get.Return.(ir.StandardReturn).Response.Type)

	del := operationNamed(t, spec, "deletePet")
	assert.Equal(t, ir.VoidReturn{}, del.Return)
	assert.Empty(t, del.Security)

	upload := operationNamed(t, spec, "uploadPhoto")
	require.Len(t, upload.Parameters, 2)
	// the operation-level petId replaces the path-level one in place
	assert.Equal(t, "overridden", upload.Parameters[0].Description)
	assert.Equal(t, ir.StringType{}, upload.Parameters[0].Type)
	assert.True(t, upload.Parameters[0].Required)
	assert.Equal(t, ir.InHeader, upload.Parameters[1].Location)
	assert.Equal(t, "XTrace", upload.Parameters[1].Name.Pascal)

	require.NotNil(t, upload.RequestBody)
	assert.Equal(t, "multipart/form-data", upload.RequestBody.ContentType)
	assert.Equal(t, ir.RefType{Name: "UploadPhotoBody"}, upload.RequestBody.Type)
	assert.Equal(t, []ir.FieldEncoding{{Field: "file", ContentType: "image/png"}}, upload.RequestBody.Encoding)
	assert.Equal(t, ir.RefType{Name: "UploadPhotoResponse"}, upload.Return.(ir.StandardReturn).Response.Type)
}

func TestTransformModules(t *testing.T) {
	spec := compile(t, "petstore.yaml", Options{})

	require.Len(t, spec.Modules, 3)
	assert.Equal(t, "default", spec.Modules[0].Name.Original)
	assert.Equal(t, []int{4}, spec.Modules[0].Operations)
	assert.Equal(t, "pets", spec.Modules[1].Name.Original)
	assert.Equal(t, []int{0, 1, 2, 3}, spec.Modules[1].Operations)
	assert.Equal(t, "store", spec.Modules[2].Name.Original)
	assert.Equal(t, []int{2}, spec.Modules[2].Operations)
}

func TestTransformNaming(t *testing.T) {
	opts := Options{Naming: UseRouteBased}
	opts.Aliases.Set("listPets", "allPets")
	opts.Aliases.Set("deletePet", "removePet")
	spec := compile(t, "petstore.yaml", opts)

	names := make([]string, len(spec.Operations))
	for i, op := range spec.Operations {
		names[i] = op.Name.Camel
	}
	assert.Equal(t, []string{"allPets", "createPets", "getPet", "removePet", "updatePetsPhoto"}, names)

	// aliases are matched against the operationId under the default strategy
	opts = Options{}
	opts.Aliases.Set("uploadPhoto", "setPhoto")
	spec = compile(t, "petstore.yaml", opts)
	assert.Equal(t, "SetPhoto", spec.Operations[4].Name.Pascal)
	assert.Equal(t, "SetPhotoBody", spec.Operations[4].RequestBody.Type.(ir.RefType).Name)
}

func TestTransformDiscriminatedUnions(t *testing.T) {
	spec := compile(t, "anthropic.yaml", Options{})
	lookup := spec.Lookup()

	block := lookup["ContentBlock"].(*ir.UnionSchema)
	assert.Equal(t, []ir.Type{ir.RefType{Name: "TextBlock"}, ir.RefType{Name: "ImageBlock"}}, block.Variants)
	require.NotNil(t, block.Discriminator)
	assert.Equal(t, []ir.DiscriminatorMapping{
		{Value: "text", Schema: "TextBlock"},
		{Value: "image", Schema: "ImageBlock"},
	}, block.Discriminator.Mapping)

	mapped := lookup["ContentBlockMapped"].(*ir.UnionSchema)
	assert.Len(t, mapped.Discriminator.Mapping, 2)
	assert.Equal(t, "txt", mapped.Discriminator.Mapping[0].Value)

	tool := lookup["ToolResultContent"].(*ir.UnionSchema)
	assert.Len(t, tool.Variants, 2)
	assert.Nil(t, tool.Discriminator)

	cited := lookup["CitedTextBlock"].(*ir.AliasSchema)
	assert.Equal(t,
		"Intersection<Ref(TextBlock) & Ref(CitedTextBlockPart2) & Ref(CitedTextBlockPart3)>",
		ir.Describe(cited.Target))

	text := lookup["TextBlock"].(*ir.ObjectSchema)
	assert.Equal(t, ir.StringLiteralType{Value: "text"}, text.Fields[0].Type)

	resp := lookup["MessageResponse"].(*ir.ObjectSchema)
	assert.True(t, resp.Fields[0].ReadOnly)
	assert.Equal(t, "Union<String | Null>", ir.Describe(resp.Fields[2].Type))

	req := lookup["MessageRequest"].(*ir.ObjectSchema)
	assert.Equal(t, ir.MapType{Values: ir.AnyType{}}, req.Fields[2].Type)

	assert.Equal(t, []string{"user", "assistant"}, lookup["Role"].(*ir.EnumSchema).Variants)
	assert.Equal(t, ir.RefType{Name: "ImageBlockSource"}, lookup["ImageBlock"].(*ir.ObjectSchema).Fields[1].Type)
}

func TestTransformDualEndpoint(t *testing.T) {
	spec := compile(t, "anthropic.yaml", Options{})

	op := operationNamed(t, spec, "createMessage")
	sse, ok := op.Return.(ir.SseReturn)
	require.True(t, ok, "got %T", op.Return)
	assert.Len(t, sse.Variants, 2)
	assert.True(t, sse.AlsoHasJSON)
	require.NotNil(t, sse.JSONResponse)
	assert.Equal(t, ir.RefType{Name: "MessageResponse"}, sse.JSONResponse.Type)
	assert.Equal(t, "CreateMessageStreamEvent", sse.EventTypeName)

	models := operationNamed(t, spec, "listModels")
	assert.Equal(t, ir.RefType{Name: "ListModelsResponse"}, models.Return.(ir.StandardReturn).Response.Type)
	data := spec.Lookup()["ListModelsResponse"].(*ir.ObjectSchema).Fields[0]
	assert.Equal(t, ir.ArrayType{Items: ir.RefType{Name: "ListModelsResponseDataItem"}}, data.Type)

	model := operationNamed(t, spec, "getModel")
	assert.True(t, model.Parameters[0].Required)
	assert.Equal(t, ir.AnyType{}, model.Return.(ir.StandardReturn).Response.Type)
}

func TestTransformDeterministic(t *testing.T) {
	for _, fixture := range []string{"petstore.yaml", "anthropic.yaml"} {
		t.Run(fixture, func(t *testing.T) {
			first := compile(t, fixture, Options{})
			for range 5 {
				assert.Equal(t, first, compile(t, fixture, Options{}))
			}
		})
	}
}

func TestTransformIdempotentPromotion(t *testing.T) {
	spec := compile(t, "anthropic.yaml", Options{})
	count := len(spec.Schemas)
	again := compile(t, "anthropic.yaml", Options{})

	Promote(again, nil)
	assert.Len(t, again.Schemas, count)
	assert.Equal(t, spec, again)
}

func TestTransformResolveError(t *testing.T) {
	doc, err := openapi.Parse([]byte(`
openapi: 3.0.0
info: {title: Broken, version: "1"}
paths:
  /things:
    get:
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                $ref: "#/components/schemas/Missing"
`))
	require.NoError(t, err)

	_, err = Transform(doc, Options{})
	require.Error(t, err)

	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, PhaseResolve, terr.Phase)

	var rerr *openapi.ResolveError
	require.True(t, errors.As(err, &rerr))
	assert.Equal(t, "#/components/schemas/Missing", rerr.Ref)
	assert.ErrorIs(t, err, openapi.ErrRefTargetNotFound)
}

func TestTransformBadParameterLocation(t *testing.T) {
	doc, err := openapi.Parse([]byte(`
openapi: 3.0.0
info: {title: Broken, version: "1"}
paths:
  /things:
    get:
      parameters:
        - name: x
          in: body
      responses: {}
`))
	require.NoError(t, err)

	_, err = Transform(doc, Options{})
	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, PhaseOperations, terr.Phase)
}

func TestTransformPathParametersRequired(t *testing.T) {
	doc, err := openapi.Parse([]byte(`
openapi: 3.0.0
info: {title: Things, version: "1"}
paths:
  /things/{id}:
    get:
      parameters:
        - name: id
          in: path
          schema: {type: string}
        - name: verbose
          in: query
          schema: {type: boolean}
      responses: {}
`))
	require.NoError(t, err)

	spec, err := Transform(doc, Options{})
	require.NoError(t, err)
	params := spec.Operations[0].Parameters
	require.Len(t, params, 2)
	assert.True(t, params[0].Required)
	assert.False(t, params[1].Required)
}

func TestParseNamingStrategy(t *testing.T) {
	s, err := ParseNamingStrategy("")
	require.NoError(t, err)
	assert.Equal(t, UseOperationID, s)

	s, err = ParseNamingStrategy("use_route_based")
	require.NoError(t, err)
	assert.Equal(t, UseRouteBased, s)
	assert.Equal(t, "use_route_based", s.String())

	_, err = ParseNamingStrategy("random")
	assert.Error(t, err)
}
