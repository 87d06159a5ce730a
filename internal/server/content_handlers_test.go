package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listContent(t *testing.T, env *testEnv, token string) []any {
	t.Helper()
	status, body := env.do(t, http.MethodGet, "/api/v1/content", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	data, ok := body["data"].([]any)
	require.True(t, ok, "data must be an array: %v", body)
	return data
}

func TestContentRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			status, body := env.do(t, method, "/api/v1/content", "", fiber.Map{})
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Missing or invalid token", body["message"])
			assert.Equal(t, "Sign In", body["redirect"])

			status, body = env.do(t, method, "/api/v1/content", "not-a-jwt", fiber.Map{})
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, "Invalid token", body["message"])
		})
	}
}

func TestCreateContent(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup(t, "alice")

	tests := []struct {
		name           string
		body           fiber.Map
		expectedStatus int
	}{
		{
			name: "Success",
			body: fiber.Map{
				"type":  "link",
				"link":  "https://example.com",
				"title": "Example",
				"tags":  []string{"go", "go", "web"},
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Type",
			body:           fiber.Map{"link": "https://example.com", "title": "Example"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Link",
			body:           fiber.Map{"type": "link", "link": "example", "title": "Example"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Title Too Long",
			body:           fiber.Map{"type": "link", "link": "https://example.com", "title": strings.Repeat("x", 101)},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/api/v1/content", token, tt.body)
			assert.Equal(t, tt.expectedStatus, status, body)
			if status == http.StatusOK {
				assert.Equal(t, "Data added successfully!", body["message"])
			}
		})
	}

	data := listContent(t, env, token)
	require.Len(t, data, 1, "only the valid item is stored")
	item := data[0].(map[string]any)
	assert.Equal(t, "Example", item["title"])
	assert.Equal(t, []any{"go", "web"}, item["tags"])
	assert.NotZero(t, item["_id"])
	assert.NotZero(t, item["user"])
}

func TestListContent_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t, nil)
	token := env.signup(t, "alice")

	assert.Empty(t, listContent(t, env, token))
}

func TestDeleteContent(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bobby")

	status, _ := env.do(t, http.MethodPost, "/api/v1/content", alice, fiber.Map{
		"type": "link", "link": "https://example.com", "title": "Example",
	})
	require.Equal(t, http.StatusOK, status)
	id := listContent(t, env, alice)[0].(map[string]any)["_id"]

	// Someone else's item: success, nothing removed.
	status, body := env.do(t, http.MethodDelete, "/api/v1/content", bob, fiber.Map{"_id": id})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Data removed successfully", body["message"])
	assert.Equal(t, false, body["deleted"])
	assert.Len(t, listContent(t, env, alice), 1)

	status, body = env.do(t, http.MethodDelete, "/api/v1/content", alice, fiber.Map{"_id": 424242})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["deleted"])

	status, body = env.do(t, http.MethodDelete, "/api/v1/content", alice, fiber.Map{})
	assert.Equal(t, http.StatusBadRequest, status, body)

	status, body = env.do(t, http.MethodDelete, "/api/v1/content", alice, fiber.Map{"_id": id})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["deleted"])
	assert.Empty(t, listContent(t, env, alice))
}

func TestContentIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t, nil)
	alice := env.signup(t, "alice")
	bob := env.signup(t, "bobby")

	status, _ := env.do(t, http.MethodPost, "/api/v1/content", alice, fiber.Map{
		"type": "link", "link": "https://example.com", "title": "Example",
	})
	require.Equal(t, http.StatusOK, status)

	assert.Len(t, listContent(t, env, alice), 1)
	assert.Empty(t, listContent(t, env, bob))
}
