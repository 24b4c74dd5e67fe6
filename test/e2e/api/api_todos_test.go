package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestTodoCRUDFlow walks create, read, update, and delete for one owner.
func TestTodoCRUDFlow(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	token := signupAndSignin(t, baseURL, "alice@example.com")

	// Create with explicit fields
	var created map[string]any
	resp := doJSON(t, http.MethodPost, baseURL+"/api/v1/todos", token, map[string]any{
		"title":       "write report",
		"description": "quarterly numbers",
		"priority":    "high",
		"due_date":    "2026-09-01T12:00:00Z",
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "write report", created["title"])
	require.Equal(t, "high", created["priority"])
	require.Equal(t, false, created["is_completed"])
	id := created["id"].(string)

	// Read it back
	var got map[string]any
	resp = doJSON(t, http.MethodGet, baseURL+"/api/v1/todos/"+id, token, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "quarterly numbers", got["description"])

	// Partial update: completion toggles, everything else survives
	var updated map[string]any
	resp = doJSON(t, http.MethodPatch, baseURL+"/api/v1/todos/"+id, token,
		map[string]any{"is_completed": true}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, true, updated["is_completed"])
	require.Equal(t, "write report", updated["title"])
	require.Equal(t, "high", updated["priority"])
	require.NotNil(t, updated["due_date"])

	// Explicit null clears the due date
	resp = doJSON(t, http.MethodPatch, baseURL+"/api/v1/todos/"+id, token,
		map[string]any{"due_date": nil}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Nil(t, updated["due_date"])

	// Delete, then the id is gone
	resp = doJSON(t, http.MethodDelete, baseURL+"/api/v1/todos/"+id, token, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, baseURL+"/api/v1/todos/"+id, token, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// TestTodoOwnershipIsolation verifies one user's todos are invisible to
// another, answering 404 rather than 403.
func TestTodoOwnershipIsolation(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	aliceToken := signupAndSignin(t, baseURL, "alice@example.com")
	bobToken := signupAndSignin(t, baseURL, "bob@example.com")

	id := createTodo(t, baseURL, aliceToken, "alice's secret")

	var body map[string]any
	resp := doJSON(t, http.MethodGet, baseURL+"/api/v1/todos/"+id, bobToken, nil, &body)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assertErrorBody(t, resp, body, "not_found")

	resp = doJSON(t, http.MethodPatch, baseURL+"/api/v1/todos/"+id, bobToken,
		map[string]any{"title": "hijack"}, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, baseURL+"/api/v1/todos/"+id, bobToken, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Bob's list stays empty, Alice's todo survives untouched
	var list map[string]any
	resp = doJSON(t, http.MethodGet, baseURL+"/api/v1/todos", bobToken, nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, list["items"])

	var alices map[string]any
	resp = doJSON(t, http.MethodGet, baseURL+"/api/v1/todos/"+id, aliceToken, nil, &alices)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice's secret", alices["title"])
}

// TestTodoListPagination verifies skip/limit paging and the total count.
func TestTodoListPagination(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	token := signupAndSignin(t, baseURL, "alice@example.com")

	for i := range 7 {
		createTodo(t, baseURL, token, fmt.Sprintf("task %d", i))
	}

	var page map[string]any
	resp := doJSON(t, http.MethodGet, baseURL+"/api/v1/todos?skip=0&limit=5", token, nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, page["items"], 5)
	require.EqualValues(t, 7, page["total"])

	resp = doJSON(t, http.MethodGet, baseURL+"/api/v1/todos?skip=5&limit=5", token, nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, page["items"], 2)

	// Oldest first
	items := page["items"].([]any)
	first := items[0].(map[string]any)
	require.Equal(t, "task 5", first["title"])
}

// TestTodoValidation verifies field limits surface as 422.
func TestTodoValidation(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	token := signupAndSignin(t, baseURL, "alice@example.com")

	var body map[string]any
	resp := doJSON(t, http.MethodPost, baseURL+"/api/v1/todos", token,
		map[string]any{"title": ""}, &body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assertErrorBody(t, resp, body, "validation_failed")

	resp = doJSON(t, http.MethodPost, baseURL+"/api/v1/todos", token,
		map[string]any{"title": "x", "priority": "urgent"}, &body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

// TestTodosRequireToken verifies the todo surface rejects anonymous
// requests.
func TestTodosRequireToken(t *testing.T) {
	baseURL, cleanup := setupTodoContainer(t)
	defer cleanup()

	resp := doJSON(t, http.MethodGet, baseURL+"/api/v1/todos", "", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Contains(t, resp.Header.Get("WWW-Authenticate"), "Bearer")

	resp = doJSON(t, http.MethodPost, baseURL+"/api/v1/todos", "",
		map[string]any{"title": "nope"}, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
