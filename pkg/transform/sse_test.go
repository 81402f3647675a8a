package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/blimu-dev/specir/pkg/ir"
	"github.com/blimu-dev/specir/pkg/openapi"
	"github.com/blimu-dev/specir/pkg/ordered"
)

func responsesFrom(t *testing.T, src string) *ordered.Map[*openapi.Response] {
	t.Helper()
	var m ordered.Map[*openapi.Response]
	require.NoError(t, yaml.Unmarshal([]byte(src), &m))
	return &m
}

func TestDetectReturnVoid(t *testing.T) {
	assert.Equal(t, ir.VoidReturn{}, DetectReturn("x", nil))
	assert.Equal(t, ir.VoidReturn{}, DetectReturn("x", responsesFrom(t, `
"204":
  description: No content
"404":
  description: Missing
  content:
    application/json:
      schema: {type: string}
`)))
	assert.Equal(t, ir.VoidReturn{}, DetectReturn("x", responsesFrom(t, `
"200":
  description: OK
`)))
}

func TestDetectReturnStandard(t *testing.T) {
	got := DetectReturn("getThing", responsesFrom(t, `
"201":
  description: Created
  content:
    text/plain:
      schema: {type: string}
    application/json:
      schema: {type: integer}
"200":
  description: OK
  content:
    text/plain:
      schema: {type: boolean}
`))
	// 200 is looked up before 201
	assert.Equal(t, ir.StandardReturn{Response: ir.Response{Type: ir.BooleanType{}, Description: "OK"}}, got)

	got = DetectReturn("getThing", responsesFrom(t, `
2XX:
  description: Any success
  content:
    Application/JSON; charset=utf-8:
      schema: {type: integer}
default:
  description: Fallback
  content:
    application/json:
      schema: {type: string}
`))
	assert.Equal(t, ir.StandardReturn{Response: ir.Response{Type: ir.IntegerType{}, Description: "Any success"}}, got)
}

func TestDetectReturnSSE(t *testing.T) {
	got := DetectReturn("createMessage", responsesFrom(t, `
"200":
  description: Message
  content:
    application/json:
      schema:
        $ref: "#/components/schemas/Message"
    text/event-stream:
      schema: {type: string}
      itemSchema:
        oneOf:
          - $ref: "#/components/schemas/Start"
          - $ref: "#/components/schemas/Stop"
`))
	sse, ok := got.(ir.SseReturn)
	require.True(t, ok, "got %T", got)
	assert.Len(t, sse.Variants, 2)
	assert.True(t, sse.AlsoHasJSON)
	require.NotNil(t, sse.JSONResponse)
	assert.Equal(t, ir.RefType{Name: "Message"}, sse.JSONResponse.Type)
	assert.Equal(t, "Message", sse.JSONResponse.Description)
	assert.Equal(t, "CreateMessageStreamEvent", sse.EventTypeName)
	assert.Equal(t, "Union<Ref(Start) | Ref(Stop)>", ir.Describe(sse.EventType))
}

func TestDetectReturnSSESchemaOnly(t *testing.T) {
	got := DetectReturn("tail", responsesFrom(t, `
"200":
  description: Log lines
  content:
    text/event-stream:
      schema:
        $ref: "#/components/schemas/LogLine"
`))
	assert.Equal(t, ir.SseReturn{EventType: ir.RefType{Name: "LogLine"}}, got)

	got = DetectReturn("tail", responsesFrom(t, `
"200":
  description: Raw
  content:
    text/event-stream: {}
`))
	assert.Equal(t, ir.SseReturn{EventType: ir.AnyType{}}, got)
}
