package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCreateUserHandler ensures member registration validates and defaults the role.
func TestCreateUserHandler(t *testing.T) {
	env := newTestEnv()

	t.Run("should pass: empty role defaults to regular user", func(t *testing.T) {
		payload := `{"name":"Charlie"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		env.api.CreateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(data, &resultMap))

		userMap, ok := resultMap["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "Charlie", userMap["name"])
		assert.Equal(t, RoleUser, userMap["role"])
		assert.NotEmpty(t, userMap["id"])
		borrowed, ok := userMap["borrowedBooks"].([]interface{})
		assert.True(t, ok)
		assert.Empty(t, borrowed)
	})

	t.Run("should pass: explicit admin role", func(t *testing.T) {
		payload := `{"name":"Root", "role":"Admin"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		env.api.CreateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(data, &resultMap))
		userMap, ok := resultMap["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, RoleAdmin, userMap["role"])
	})

	t.Run("should fail: missing name", func(t *testing.T) {
		payload := `{"role":"User"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		env.api.CreateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		expected := `{"requestid":"", "status":400, "message":"failed to create the user", "data":"name is required"}`
		assert.JSONEq(t, expected, string(data))
	})

	t.Run("should fail: unknown role", func(t *testing.T) {
		payload := `{"name":"Eve", "role":"Root"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/users", bytes.NewBufferString(payload))
		w := httptest.NewRecorder()
		env.api.CreateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		expected := `{"requestid":"", "status":400, "message":"failed to create the user", "data":"role must be either Admin or User"}`
		assert.JSONEq(t, expected, string(data))
	})
}

// TestGetUsersHandlers ensures members listing and lookup behave as expected.
func TestGetUsersHandlers(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:1", "Alice", RoleAdmin)
	env.seedUser("u:2", "Bob", RoleUser)

	t.Run("should pass: list all members with total", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		w := httptest.NewRecorder()
		env.api.GetAllUsers(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(data, &resultMap))
		assert.Equal(t, float64(2), resultMap["total"])
	})

	t.Run("should pass: fetch one member", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/users/u:1", nil), "id", "u:1")
		w := httptest.NewRecorder()
		env.api.GetOneUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("should fail: missing member", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/users/u:404", nil), "id", "u:404")
		w := httptest.NewRecorder()
		env.api.GetOneUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(data, &resultMap))
		assert.Equal(t, "user does not exist", resultMap["message"])
	})
}

// TestUpdateUserHandler ensures profile updates are admin gated and only
// overlay the profile fields.
func TestUpdateUserHandler(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:admin", "Alice", RoleAdmin)
	env.seedUser("u:member", "Bob", RoleUser, "b:1")

	t.Run("should fail: non admin acting user", func(t *testing.T) {
		payload := `{"userId":"u:member", "user":{"name":"Bobby"}}`
		req := withURLParams(httptest.NewRequest(http.MethodPatch, "/v1/users/u:member", bytes.NewBufferString(payload)), "id", "u:member")
		w := httptest.NewRecorder()
		env.api.UpdateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("should pass: overlay name and keep borrowed list", func(t *testing.T) {
		payload := `{"userId":"u:admin", "user":{"name":"Bobby"}}`
		req := withURLParams(httptest.NewRequest(http.MethodPatch, "/v1/users/u:member", bytes.NewBufferString(payload)), "id", "u:member")
		w := httptest.NewRecorder()
		env.api.UpdateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		member, err := env.users.GetOne(context.Background(), "u:member")
		assert.NoError(t, err)
		assert.Equal(t, "Bobby", member.Name)
		assert.Equal(t, RoleUser, member.Role)
		assert.Equal(t, []string{"b:1"}, member.BorrowedBooks)
	})

	t.Run("should fail: unknown role value", func(t *testing.T) {
		payload := `{"userId":"u:admin", "user":{"role":"SuperAdmin"}}`
		req := withURLParams(httptest.NewRequest(http.MethodPatch, "/v1/users/u:member", bytes.NewBufferString(payload)), "id", "u:member")
		w := httptest.NewRecorder()
		env.api.UpdateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("should fail: missing target member", func(t *testing.T) {
		payload := `{"userId":"u:admin", "user":{"name":"Nobody"}}`
		req := withURLParams(httptest.NewRequest(http.MethodPatch, "/v1/users/u:404", bytes.NewBufferString(payload)), "id", "u:404")
		w := httptest.NewRecorder()
		env.api.UpdateUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

// TestDeleteOneUserHandler ensures member removal is admin gated and releases
// every book the member still holds.
func TestDeleteOneUserHandler(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:admin", "Alice", RoleAdmin)
	env.seedUser("u:member", "Bob", RoleUser, "b:1", "b:2")
	env.seedBook("b:1", "First", false, "u:member")
	env.seedBook("b:2", "Second", false, "u:member")

	t.Run("should fail: non admin acting user", func(t *testing.T) {
		payload := `{"userId":"u:member"}`
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/v1/users/u:member", bytes.NewBufferString(payload)), "id", "u:member")
		w := httptest.NewRecorder()
		env.api.DeleteOneUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("should pass: delete releases all held books", func(t *testing.T) {
		payload := `{"userId":"u:admin"}`
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/v1/users/u:member", bytes.NewBufferString(payload)), "id", "u:member")
		w := httptest.NewRecorder()
		env.api.DeleteOneUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		_, err := env.users.GetOne(context.Background(), "u:member")
		assert.Equal(t, ErrUserNotFound, err)

		for _, id := range []string{"b:1", "b:2"} {
			book, err := env.books.GetOne(context.Background(), id)
			assert.NoError(t, err)
			assert.True(t, book.IsAvailable)
			assert.Empty(t, book.BorrowedBy)
		}
	})

	t.Run("should fail: missing member", func(t *testing.T) {
		payload := `{"userId":"u:admin"}`
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/v1/users/u:404", bytes.NewBufferString(payload)), "id", "u:404")
		w := httptest.NewRecorder()
		env.api.DeleteOneUser(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
