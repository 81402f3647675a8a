package ir

import "github.com/blimu-dev/specir/pkg/naming"

// Schema is a named top-level declaration. It is a closed set: every
// implementation lives in this file.
type Schema interface {
	SchemaName() naming.Name
	irSchema()
}

// ObjectSchema declares a named object.
type ObjectSchema struct {
	Name        naming.Name
	Description string
	Fields      []Field
	// AdditionalProperties is the value type of undeclared keys, nil when
	// undeclared keys are not allowed.
	AdditionalProperties Type
}

// Field represents a field of a named object. Name.Original is the wire name.
type Field struct {
	Name        naming.Name
	Type        Type
	Required    bool
	Description string
	ReadOnly    bool
	WriteOnly   bool
}

// EnumSchema declares a named set of string values.
type EnumSchema struct {
	Name        naming.Name
	Description string
	Variants    []string
}

// AliasSchema gives a name to an arbitrary type.
type AliasSchema struct {
	Name        naming.Name
	Description string
	Target      Type
}

// UnionSchema declares a named union, optionally discriminated.
type UnionSchema struct {
	Name          naming.Name
	Description   string
	Variants      []Type
	Discriminator *Discriminator
}

// Discriminator names the property whose value selects a union variant.
type Discriminator struct {
	PropertyName string
	Mapping      []DiscriminatorMapping
}

// DiscriminatorMapping maps one property value to a schema name.
type DiscriminatorMapping struct {
	Value  string
	Schema string
}

func (s *ObjectSchema) SchemaName() naming.Name { return s.Name }
func (s *EnumSchema) SchemaName() naming.Name   { return s.Name }
func (s *AliasSchema) SchemaName() naming.Name  { return s.Name }
func (s *UnionSchema) SchemaName() naming.Name  { return s.Name }

func (*ObjectSchema) irSchema() {}
func (*EnumSchema) irSchema()   {}
func (*AliasSchema) irSchema()  {}
func (*UnionSchema) irSchema()  {}
