package transform

import (
	"slices"
	"strings"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/naming"
	"github.com/blimu-dev/specir/pkg/openapi"
	"github.com/blimu-dev/specir/pkg/ordered"
)

const (
	mediaJSON = "application/json"
	mediaSSE  = "text/event-stream"
)

// successCodes is the lookup order for the response that defines an
// operation's return type.
var successCodes = []string{"200", "201", "2XX", "2xx", "default"}

// DetectReturn classifies the responses of the operation called operation.
// A text/event-stream success response yields an ir.SseReturn, which also
// carries the JSON payload when the response offers both. Otherwise the JSON
// media type, or failing that the first declared one, yields an
// ir.StandardReturn. No success response or no content yields ir.VoidReturn.
func DetectReturn(operation string, responses *ordered.Map[*openapi.Response]) ir.ReturnType {
	resp := successResponse(responses)
	if resp == nil || resp.Content.Len() == 0 {
		return ir.VoidReturn{}
	}

	sse, hasSSE := mediaType(resp, mediaSSE)
	json, hasJSON := mediaType(resp, mediaJSON)

	if hasSSE {
		out := ir.SseReturn{AlsoHasJSON: hasJSON, EventType: ir.AnyType{}}
		switch {
		case sse == nil:
		case sse.ItemSchema != nil:
			item := sse.ItemSchema
			if len(item.OneOf) > 0 && !item.IsNamed() {
				out.Variants = typesOf(item.OneOf)
				out.EventType = ir.UnionType{Variants: slices.Clone(out.Variants)}
				out.EventTypeName = naming.Normalize(operation).Pascal + "StreamEvent"
			} else {
				out.EventType = TypeOf(item)
			}
		case sse.Schema != nil:
			out.EventType = TypeOf(sse.Schema)
		}
		if hasJSON {
			out.JSONResponse = &ir.Response{Type: TypeOf(schemaOf(json)), Description: resp.Description}
		}
		return out
	}

	if hasJSON {
		return ir.StandardReturn{Response: ir.Response{Type: TypeOf(schemaOf(json)), Description: resp.Description}}
	}
	_, first, _ := resp.Content.First()
	return ir.StandardReturn{Response: ir.Response{Type: TypeOf(schemaOf(first)), Description: resp.Description}}
}

func successResponse(responses *ordered.Map[*openapi.Response]) *openapi.Response {
	for _, code := range successCodes {
		if resp, ok := responses.Get(code); ok && resp != nil {
			return resp
		}
	}
	return nil
}

// mediaType finds the content entry whose type, ignoring parameters such as
// charset, equals want.
func mediaType(resp *openapi.Response, want string) (*openapi.MediaType, bool) {
	return findMedia(&resp.Content, want)
}

func findMedia(content *ordered.Map[*openapi.MediaType], want string) (*openapi.MediaType, bool) {
	for ct, mt := range content.All() {
		if sameMedia(ct, want) {
			return mt, true
		}
	}
	return nil, false
}

func sameMedia(contentType, want string) bool {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.EqualFold(strings.TrimSpace(base), want)
}

func schemaOf(mt *openapi.MediaType) *openapi.Schema {
	if mt == nil {
		return nil
	}
	return mt.Schema
}
