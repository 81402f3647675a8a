package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw    string
		expect Name
	}{
		{"listModels", Name{"listModels", "ListModels", "listModels", "list_models", "LIST_MODELS"}},
		{"pet-store", Name{"pet-store", "PetStore", "petStore", "pet_store", "PET_STORE"}},
		{"3dModel", Name{"3dModel", "3dModel", "3dModel", "3d_model", "3D_MODEL"}},
		{"application/json", Name{"application/json", "ApplicationJson", "applicationJson", "application_json", "APPLICATION_JSON"}},
		{"!!!", Name{"!!!", "Unnamed", "unnamed", "unnamed", "UNNAMED"}},
		{"", Name{"", "Unnamed", "unnamed", "unnamed", "UNNAMED"}},
		{"日本", Name{"日本", "Unnamed", "unnamed", "unnamed", "UNNAMED"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expect, Normalize(tt.raw))
		})
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	for _, raw := range []string{"listModels", "X-Rate-Limit", "user_id", "créditos"} {
		assert.Equal(t, Normalize(raw), Normalize(raw))
	}
}

func TestNameEqual(t *testing.T) {
	a := Normalize("user_id")
	b := Normalize("userId")
	assert.Equal(t, a.Camel, b.Camel)
	assert.False(t, a.Equal(b), "equality is by original string")
	assert.True(t, a.Equal(Normalize("user_id")))
	assert.Equal(t, "user_id", a.String())
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"listModels", "listModels"},
		{"3dModel", "_3dModel"},
		{"pet-store", "pet_store"},
		{"a--b", "a_b"},
		{"-leading", "leading"},
		{"trailing-", "trailing"},
		{"-3d", "3d"},
		{"", Unnamed},
		{"/", Unnamed},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Sanitize(tt.raw), "Sanitize(%q)", tt.raw)
	}
}

func TestRouteToName(t *testing.T) {
	tests := []struct {
		method   string
		path     string
		expected string
	}{
		{"GET", "/users", "listUsers"},
		{"GET", "/users/{userId}", "getUser"},
		{"PUT", "/users/{userId}", "updateUser"},
		{"POST", "/users", "createUsers"},
		{"DELETE", "/users/{userId}", "deleteUser"},
		{"PATCH", "/users/{userId}", "patchUser"},
		{"POST", "/users/{userId}/messages", "createUsersMessages"},
		{"GET", "/users/{id}/messages/{mid}", "getUsersMessage"},
		{"GET", "/categories/{id}", "getCategory"},
		{"GET", "/addresses/{id}", "getAddress"},
		{"GET", "/boxes/{id}", "getBox"},
		{"GET", "/access/{id}", "getAccess"},
		{"GET", "/user-profiles/{id}", "getUserProfile"},
		{"get", "/health", "listHealth"},
		{"OPTIONS", "/users", "optionsUsers"},
		{"HEAD", "/users", "headUsers"},
		{"TRACE", "/", "trace"},
		{"PURGE", "/cache", "purgeCache"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, RouteToName(tt.method, tt.path))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"users":      "user",
		"categories": "category",
		"ies":        "ie",
		"statuses":   "status",
		"boxes":      "box",
		"quizzes":    "quizz",
		"class":      "class",
		"s":          "s",
		"data":       "data",
	}
	for in, want := range tests {
		assert.Equal(t, want, Singularize(in), "Singularize(%q)", in)
	}
}
