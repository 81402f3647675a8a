package ir

// Type is a structural, unnamed type. It is a closed set: every
// implementation lives in this file.
type Type interface {
	irType()
}

type (
	StringType   struct{}
	NumberType   struct{}
	IntegerType  struct{}
	BooleanType  struct{}
	NullType     struct{}
	AnyType      struct{}
	VoidType     struct{}
	DateTimeType struct{}
	BinaryType   struct{}
)

// StringLiteralType is a string that can only hold Value.
type StringLiteralType struct {
	Value string
}

// ArrayType is a list of Items.
type ArrayType struct {
	Items Type
}

// MapType is a string-keyed map of Values.
type MapType struct {
	Values Type
}

// ObjectType is an anonymous object. An ObjectType without fields stands for
// an opaque object.
type ObjectType struct {
	Fields []InlineField
}

// InlineField is a field of an anonymous object. Name is the wire name.
type InlineField struct {
	Name     string
	Type     Type
	Required bool
}

// RefType points at a named schema by its PascalCase name. It is a lookup
// key, not an ownership edge, and may point at the schema containing it.
type RefType struct {
	Name string
}

// UnionType is a value of exactly one of Variants.
type UnionType struct {
	Variants []Type
}

// IntersectionType is a value of all Parts at once.
type IntersectionType struct {
	Parts []Type
}

func (StringType) irType()        {}
func (StringLiteralType) irType() {}
func (NumberType) irType()        {}
func (IntegerType) irType()       {}
func (BooleanType) irType()       {}
func (NullType) irType()          {}
func (AnyType) irType()           {}
func (VoidType) irType()          {}
func (DateTimeType) irType()      {}
func (BinaryType) irType()        {}
func (ArrayType) irType()         {}
func (MapType) irType()           {}
func (ObjectType) irType()        {}
func (RefType) irType()           {}
func (UnionType) irType()         {}
func (IntersectionType) irType()  {}

// ReturnType classifies what an operation returns.
type ReturnType interface {
	returnType()
}

// StandardReturn is a single response payload.
type StandardReturn struct {
	Response Response
}

// SseReturn is a text/event-stream response. When the event schema is a
// oneOf, Variants holds its members and EventTypeName the name generators
// should declare the shared union under. AlsoHasJSON marks endpoints that
// can answer with a single JSON document as well, described by JSONResponse.
type SseReturn struct {
	EventType     Type
	Variants      []Type
	EventTypeName string
	AlsoHasJSON   bool
	JSONResponse  *Response
}

// VoidReturn is an operation without a response body.
type VoidReturn struct{}

func (StandardReturn) returnType() {}
func (SseReturn) returnType()      {}
func (VoidReturn) returnType()     {}
