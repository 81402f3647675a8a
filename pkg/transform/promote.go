package transform

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
)

// Promote replaces every inline object that has at least one field with a
// reference to a new object schema appended to spec.Schemas. Names derive
// from where the object was found, such as PetOwner for the owner field of
// Pet, and get a numeric suffix on collision. Empty inline objects are left
// alone. Running Promote on its own output changes nothing.
func Promote(spec *ir.Spec, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	p := &promoter{spec: spec, used: make(map[string]bool, len(spec.Schemas)), logger: logger}
	p.run()
}

type promoter struct {
	spec   *ir.Spec
	used   map[string]bool
	logger *slog.Logger
}

func (p *promoter) run() {
	for _, s := range p.spec.Schemas {
		p.used[s.SchemaName().Pascal] = true
	}

	// schemas appended below are promoted as they are created
	n := len(p.spec.Schemas)
	for i := 0; i < n; i++ {
		switch s := p.spec.Schemas[i].(type) {
		case *ir.ObjectSchema:
			for j := range s.Fields {
				f := &s.Fields[j]
				f.Type = p.promote(f.Type, s.Name.Pascal+f.Name.Pascal)
			}
			if s.AdditionalProperties != nil {
				s.AdditionalProperties = p.promote(s.AdditionalProperties, s.Name.Pascal+"Value")
			}
		case *ir.AliasSchema:
			s.Target = p.promote(s.Target, s.Name.Pascal)
		case *ir.UnionSchema:
			for j := range s.Variants {
				s.Variants[j] = p.promote(s.Variants[j], fmt.Sprintf("%sVariant%d", s.Name.Pascal, j+1))
			}
		}
	}

	for i := range p.spec.Operations {
		p.operation(&p.spec.Operations[i])
	}
}

func (p *promoter) operation(op *ir.Operation) {
	name := op.Name.Pascal
	switch r := op.Return.(type) {
	case ir.StandardReturn:
		r.Response.Type = p.promote(r.Response.Type, name+"Response")
		op.Return = r
	case ir.SseReturn:
		if len(r.Variants) > 0 {
			variants := make([]ir.Type, len(r.Variants))
			for j, v := range r.Variants {
				variants[j] = p.promote(v, fmt.Sprintf("%sEventVariant%d", name, j+1))
			}
			r.Variants = variants
			r.EventType = ir.UnionType{Variants: slices.Clone(variants)}
		} else {
			r.EventType = p.promote(r.EventType, name+"Event")
		}
		if r.JSONResponse != nil {
			resp := *r.JSONResponse
			resp.Type = p.promote(resp.Type, name+"Response")
			r.JSONResponse = &resp
		}
		op.Return = r
	}
	if op.RequestBody != nil {
		op.RequestBody.Type = p.promote(op.RequestBody.Type, name+"Body")
	}
	for j := range op.Parameters {
		param := &op.Parameters[j]
		param.Type = p.promote(param.Type, name+param.Name.Pascal)
	}
}

func (p *promoter) promote(t ir.Type, context string) ir.Type {
	switch v := t.(type) {
	case ir.ObjectType:
		if len(v.Fields) == 0 {
			return v
		}
		name := p.uniqueName(naming.Normalize(context).Pascal)
		obj := &ir.ObjectSchema{Name: generatedName(name), Fields: make([]ir.Field, len(v.Fields))}
		p.spec.Schemas = append(p.spec.Schemas, obj)
		p.logger.Debug("promoted inline object", "schema", name)
		for i, f := range v.Fields {
			fn := naming.Normalize(f.Name)
			obj.Fields[i] = ir.Field{Name: fn, Type: p.promote(f.Type, name+fn.Pascal), Required: f.Required}
		}
		return ir.RefType{Name: name}
	case ir.ArrayType:
		return ir.ArrayType{Items: p.promote(v.Items, context+"Item")}
	case ir.MapType:
		return ir.MapType{Values: p.promote(v.Values, context+"Value")}
	case ir.UnionType:
		variants := make([]ir.Type, len(v.Variants))
		for i, variant := range v.Variants {
			variants[i] = p.promote(variant, fmt.Sprintf("%sVariant%d", context, i+1))
		}
		return ir.UnionType{Variants: variants}
	case ir.IntersectionType:
		parts := make([]ir.Type, len(v.Parts))
		for i, part := range v.Parts {
			parts[i] = p.promote(part, fmt.Sprintf("%sPart%d", context, i+1))
		}
		return ir.IntersectionType{Parts: parts}
	default:
		return t
	}
}

func (p *promoter) uniqueName(base string) string {
	name := base
	for i := 2; p.used[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	p.used[name] = true
	return name
}

// generatedName wraps a name that is already PascalCase, keeping it as the
// lookup key even when re-normalizing would split it differently.
func generatedName(pascal string) naming.Name {
	n := naming.Normalize(pascal)
	n.Pascal = pascal
	return n
}
