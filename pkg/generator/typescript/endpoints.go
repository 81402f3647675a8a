package typescript

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
)

// typesNS is the namespace endpoints.ts imports types.ts under.
const typesNS = "T."

// group is a rendered endpoint group of endpoints.ts.
type group struct {
	Const     string
	Endpoints []endpoint
}

// endpoint is one request builder of endpoints.ts.
type endpoint struct {
	Name        string
	Doc         string
	Deprecated  bool
	Args        string
	Response    string
	Method      string
	Path        string
	Fields      []string
	Stream      bool
	ContentType string
}

type arg struct {
	decl     string
	required bool
}

func buildGroups(spec *ir.Spec, by ir.GroupBy) []group {
	var out []group
	for _, g := range ir.GroupOperations(spec, by) {
		grp := group{Const: groupConst(g.Name)}
		for _, i := range g.Operations {
			grp.Endpoints = append(grp.Endpoints, buildEndpoints(&spec.Operations[i])...)
		}
		out = append(out, grp)
	}
	return out
}

func groupConst(n naming.Name) string {
	return n.Camel + "Endpoints"
}

// buildEndpoints returns the request builders of op. A dual endpoint yields
// a JSON builder plus a Stream suffixed one.
func buildEndpoints(op *ir.Operation) []endpoint {
	base := endpoint{
		Name:       op.Name.Camel,
		Doc:        op.Summary,
		Deprecated: op.Deprecated,
		Method:     string(op.Method),
		Path:       pathTemplate(op),
	}
	if base.Doc == "" {
		base.Doc = op.Description
	}
	args, fields := requestArgs(op)
	base.Args = strings.Join(args, ", ")
	base.Fields = fields
	if op.RequestBody != nil {
		base.ContentType = op.RequestBody.ContentType
	}

	switch r := op.Return.(type) {
	case ir.StandardReturn:
		base.Response = tsType(r.Response.Type, typesNS)
	case ir.SseReturn:
		event := tsType(r.EventType, typesNS)
		if r.EventTypeName != "" {
			event = typesNS + r.EventTypeName
		}
		stream := base
		stream.Response = event
		stream.Stream = true
		if !r.AlsoHasJSON {
			return []endpoint{stream}
		}
		stream.Name += "Stream"
		json := base
		json.Response = "unknown"
		if r.JSONResponse != nil {
			json.Response = tsType(r.JSONResponse.Type, typesNS)
		}
		return []endpoint{json, stream}
	default:
		base.Response = "void"
	}
	return []endpoint{base}
}

// requestArgs returns the TypeScript parameter list of a request builder,
// required parameters first, and the object literal fields it fills in.
func requestArgs(op *ir.Operation) ([]string, []string) {
	var args []arg
	var fields []string
	for _, p := range pathParams(op) {
		args = append(args, arg{decl: p.Name.Camel + ": " + tsType(p.Type, typesNS), required: true})
	}
	if b := op.RequestBody; b != nil {
		args = append(args, arg{decl: "body" + optional(b.Required) + ": " + tsType(b.Type, typesNS), required: b.Required})
		fields = append(fields, "body")
	}
	for _, loc := range []struct {
		in   ir.ParamLocation
		name string
	}{{ir.InQuery, "query"}, {ir.InHeader, "headers"}, {ir.InCookie, "cookies"}} {
		var props []string
		required := false
		for _, p := range op.Parameters {
			if p.Location != loc.in {
				continue
			}
			props = append(props, propName(p.Name.Original)+optional(p.Required)+": "+tsType(p.Type, typesNS))
			required = required || p.Required
		}
		if len(props) == 0 {
			continue
		}
		args = append(args, arg{decl: loc.name + optional(required) + ": { " + strings.Join(props, "; ") + " }", required: required})
		fields = append(fields, loc.name)
	}

	sort.SliceStable(args, func(i, j int) bool { return args[i].required && !args[j].required })
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.decl
	}
	return out, fields
}

// pathParams returns the path parameters of op in the order they appear in
// the path template.
func pathParams(op *ir.Operation) []ir.Parameter {
	var out []ir.Parameter
	for _, name := range templateNames(op.Path) {
		for _, p := range op.Parameters {
			if p.Location == ir.InPath && p.Name.Original == name {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func templateNames(path string) []string {
	var out []string
	for {
		start := strings.IndexByte(path, '{')
		if start < 0 {
			return out
		}
		end := strings.IndexByte(path[start:], '}')
		if end < 0 {
			return out
		}
		out = append(out, path[start+1:start+end])
		path = path[start+end+1:]
	}
}

// pathTemplate converts /foo/{id} to the template literal `/foo/${encodeURIComponent(id)}`.
func pathTemplate(op *ir.Operation) string {
	byName := map[string]string{}
	for _, p := range op.Parameters {
		if p.Location == ir.InPath {
			byName[p.Name.Original] = p.Name.Camel
		}
	}
	var b strings.Builder
	b.WriteByte('`')
	path := op.Path
	for {
		start := strings.IndexByte(path, '{')
		end := strings.IndexByte(path, '}')
		if start < 0 || end < start {
			b.WriteString(path)
			break
		}
		b.WriteString(path[:start])
		name := path[start+1 : end]
		if v, ok := byName[name]; ok {
			fmt.Fprintf(&b, "${encodeURIComponent(String(%s))}", v)
		} else {
			b.WriteString(path[start : end+1])
		}
		path = path[end+1:]
	}
	b.WriteByte('`')
	return b.String()
}
