package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
)

func petSpec() *ir.Spec {
	return &ir.Spec{
		Schemas: []ir.Schema{
			&ir.ObjectSchema{
				Name: naming.Normalize("Pet"),
				Fields: []ir.Field{
					{Name: naming.Normalize("id"), Type: ir.IntegerType{}, Required: true},
					{Name: naming.Normalize("owner"), Type: ir.ObjectType{Fields: []ir.InlineField{
						{Name: "name", Type: ir.StringType{}, Required: true},
						{Name: "age", Type: ir.NumberType{}},
					}}},
					{Name: naming.Normalize("meta"), Type: ir.ObjectType{}},
				},
			},
		},
	}
}

func TestPromoteField(t *testing.T) {
	spec := petSpec()
	Promote(spec, nil)

	require.Len(t, spec.Schemas, 2)
	pet := spec.Schemas[0].(*ir.ObjectSchema)
	assert.Equal(t, ir.RefType{Name: "PetOwner"}, pet.Fields[1].Type)
	// empty objects stay opaque
	assert.Equal(t, ir.ObjectType{}, pet.Fields[2].Type)

	owner, ok := spec.Lookup()["PetOwner"].(*ir.ObjectSchema)
	require.True(t, ok)
	require.Len(t, owner.Fields, 2)
	assert.Equal(t, "name", owner.Fields[0].Name.Original)
	assert.True(t, owner.Fields[0].Required)
	assert.False(t, owner.Fields[1].Required)
}

func TestPromoteCollision(t *testing.T) {
	spec := petSpec()
	spec.Schemas = append(spec.Schemas, &ir.ObjectSchema{
		Name:   naming.Normalize("PetOwner"),
		Fields: []ir.Field{{Name: naming.Normalize("email"), Type: ir.StringType{}}},
	})
	Promote(spec, nil)

	require.Len(t, spec.Schemas, 3)
	assert.Equal(t, ir.RefType{Name: "PetOwner2"}, spec.Schemas[0].(*ir.ObjectSchema).Fields[1].Type)
	assert.Equal(t, "PetOwner2", spec.Schemas[2].SchemaName().Pascal)
}

func TestPromoteIdempotent(t *testing.T) {
	spec := petSpec()
	Promote(spec, nil)
	before := len(spec.Schemas)
	snapshot := make([]ir.Schema, before)
	for i, s := range spec.Schemas {
		c := *s.(*ir.ObjectSchema)
		c.Fields = append([]ir.Field(nil), c.Fields...)
		snapshot[i] = &c
	}

	Promote(spec, nil)
	assert.Len(t, spec.Schemas, before)
	assert.Equal(t, snapshot, spec.Schemas)
}

func TestPromoteNestedContexts(t *testing.T) {
	inner := ir.ObjectType{Fields: []ir.InlineField{{Name: "id", Type: ir.StringType{}}}}
	spec := &ir.Spec{
		Operations: []ir.Operation{{
			Name: naming.Normalize("listItems"),
			Parameters: []ir.Parameter{
				{Name: naming.Normalize("filter"), Location: ir.InQuery, Type: inner},
			},
			RequestBody: &ir.RequestBody{Type: ir.MapType{Values: inner}},
			Return: ir.StandardReturn{Response: ir.Response{Type: ir.ObjectType{Fields: []ir.InlineField{
				{Name: "data", Type: ir.ArrayType{Items: inner}},
				{Name: "next", Type: ir.UnionType{Variants: []ir.Type{inner, ir.NullType{}}}},
			}}}},
		}},
	}
	Promote(spec, nil)

	var names []string
	for _, s := range spec.Schemas {
		names = append(names, s.SchemaName().Pascal)
	}
	assert.Equal(t, []string{
		"ListItemsResponse",
		"ListItemsResponseDataItem",
		"ListItemsResponseNextVariant1",
		"ListItemsBodyValue",
		"ListItemsFilter",
	}, names)

	op := spec.Operations[0]
	assert.Equal(t, ir.RefType{Name: "ListItemsResponse"}, op.Return.(ir.StandardReturn).Response.Type)
	assert.Equal(t, ir.MapType{Values: ir.RefType{Name: "ListItemsBodyValue"}}, op.RequestBody.Type)
	assert.Equal(t, ir.RefType{Name: "ListItemsFilter"}, op.Parameters[0].Type)
}

func TestPromoteSSEVariants(t *testing.T) {
	event := ir.ObjectType{Fields: []ir.InlineField{{Name: "type", Type: ir.StringLiteralType{Value: "ping"}}}}
	spec := &ir.Spec{
		Operations: []ir.Operation{{
			Name: naming.Normalize("stream"),
			Return: ir.SseReturn{
				Variants:      []ir.Type{event, ir.RefType{Name: "Done"}},
				EventType:     ir.UnionType{Variants: []ir.Type{event, ir.RefType{Name: "Done"}}},
				EventTypeName: "StreamStreamEvent",
			},
		}},
	}
	Promote(spec, nil)

	sse := spec.Operations[0].Return.(ir.SseReturn)
	assert.Equal(t, []ir.Type{ir.RefType{Name: "StreamEventVariant1"}, ir.RefType{Name: "Done"}}, sse.Variants)
	assert.Equal(t, ir.UnionType{Variants: sse.Variants}, sse.EventType)
	assert.Len(t, spec.Schemas, 1)
}
