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

// TestStatusHandler ensures api handler can provides its status.
func TestStatusHandler(t *testing.T) {
	env := newTestEnv()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	env.api.Status(w, req)
	res := w.Result()
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	m := make(map[string]interface{})
	err = json.Unmarshal(data, &m)
	assert.NoError(t, err)

	_, ok := m["requestid"]
	assert.True(t, ok)

	v, ok := m["status"]
	assert.True(t, ok)
	assert.Equal(t, "up & running since 0 mins", v)

	v, ok = m["message"]
	assert.True(t, ok)
	assert.Equal(t, v, "Hello. Library management api is available. Enjoy :)")
}

// TestCreateBookHandler ensures book creation is admin gated and validated.
//
//nolint:funlen
func TestCreateBookHandler(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:admin", "Alice", RoleAdmin)
	env.seedUser("u:member", "Bob", RoleUser)

	t.Run("should pass: acting admin with valid payload", func(t *testing.T) {
		payload, err := json.Marshal(AdminBookRequest{
			UserID: "u:admin",
			Book: Book{
				Title:           "The Go Programming Language",
				Author:          "Alan Donovan",
				Genre:           "Technical",
				PublicationDate: "2015",
			},
		})
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/books/admin/add", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		env.api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))

		resultMap := make(map[string]interface{})
		err = json.Unmarshal(data, &resultMap)
		assert.NoError(t, err)

		v, ok := resultMap["message"]
		assert.True(t, ok)
		assert.Equal(t, "Book created successfully.", v)

		bookMap, ok := resultMap["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "The Go Programming Language", bookMap["title"])
		assert.Equal(t, "Alan Donovan", bookMap["author"])
		assert.Equal(t, "Technical", bookMap["genre"])
		assert.Equal(t, "2015", bookMap["publicationDate"])
		assert.Equal(t, true, bookMap["isAvailable"])
		assert.NotEmpty(t, bookMap["id"])
		assert.NotEmpty(t, bookMap["createdAt"])
		assert.NotEmpty(t, bookMap["updatedAt"])

		// the record exists in the catalog.
		id, _ := bookMap["id"].(string)
		_, err = env.books.GetOne(context.Background(), id)
		assert.NoError(t, err)
	})

	t.Run("should fail: acting user without admin role", func(t *testing.T) {
		payload, err := json.Marshal(AdminBookRequest{
			UserID: "u:member",
			Book: Book{
				Title:           "Forbidden Book",
				Author:          "Nobody",
				Genre:           "Drama",
				PublicationDate: "1999",
			},
		})
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/books/admin/add", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		env.api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		expected := `{"requestid":"", "status":403, "message":"Unauthorized", "data":{}}`
		assert.JSONEq(t, expected, string(data))

		// the catalog is left unchanged.
		books, err := env.books.GetAll(context.Background())
		assert.NoError(t, err)
		for _, b := range books {
			assert.NotEqual(t, "Forbidden Book", b.Title)
		}
	})

	t.Run("should fail: unknown acting user", func(t *testing.T) {
		payload, err := json.Marshal(AdminBookRequest{
			UserID: "u:ghost",
			Book:   Book{Title: "x", Author: "y", Genre: "z", PublicationDate: "2000"},
		})
		assert.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/v1/books/admin/add", bytes.NewBuffer(payload))
		w := httptest.NewRecorder()
		env.api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("should fail: required field in payload", func(t *testing.T) {
		testCases := []struct {
			name     string
			payload  string
			expected string
		}{
			{
				"missing title",
				`{"userId":"u:admin", "book":{"author":"Alan Donovan", "genre":"Technical", "publicationDate":"2015"}}`,
				`{"requestid":"", "status":400, "message":"failed to create the book", "data":"title is required"}`,
			},
			{
				"missing author",
				`{"userId":"u:admin", "book":{"title":"Some title", "genre":"Technical", "publicationDate":"2015"}}`,
				`{"requestid":"", "status":400, "message":"failed to create the book", "data":"author is required"}`,
			},
			{
				"missing genre",
				`{"userId":"u:admin", "book":{"title":"Some title", "author":"Alan Donovan", "publicationDate":"2015"}}`,
				`{"requestid":"", "status":400, "message":"failed to create the book", "data":"genre is required"}`,
			},
			{
				"missing publication date",
				`{"userId":"u:admin", "book":{"title":"Some title", "author":"Alan Donovan", "genre":"Technical"}}`,
				`{"requestid":"", "status":400, "message":"failed to create the book", "data":"publicationDate is required"}`,
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodPost, "/v1/books/admin/add", bytes.NewBufferString(tc.payload))
				w := httptest.NewRecorder()
				env.api.CreateBook(w, req)
				res := w.Result()
				defer res.Body.Close()
				assert.Equal(t, http.StatusBadRequest, res.StatusCode)
				data, err := io.ReadAll(res.Body)
				assert.NoError(t, err)
				assert.JSONEq(t, tc.expected, string(data))
			})
		}
	})

	t.Run("should fail: invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/books/admin/add", bytes.NewBufferString(`{"userId":1}`))
		w := httptest.NewRecorder()
		env.api.CreateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

// TestGetOneBookHandler ensures fetching one book maps errors correctly.
func TestGetOneBookHandler(t *testing.T) {
	env := newTestEnv()
	env.seedBook("b:1", "Dune", true, "")

	t.Run("should pass: existing book", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/books/b:1", nil), "id", "b:1")
		w := httptest.NewRecorder()
		env.api.GetOneBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		resultMap := make(map[string]interface{})
		require.NoError(t, json.Unmarshal(data, &resultMap))
		bookMap, ok := resultMap["data"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, "Dune", bookMap["title"])
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		req := withURLParams(httptest.NewRequest(http.MethodGet, "/v1/books/b:missing", nil), "id", "b:missing")
		w := httptest.NewRecorder()
		env.api.GetOneBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

// TestUpdateBookHandler ensures catalog updates only overlay catalog fields.
func TestUpdateBookHandler(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:admin", "Alice", RoleAdmin)
	env.seedUser("u:member", "Bob", RoleUser)
	env.seedBook("b:1", "Old Title", false, "u:member")

	t.Run("should pass: overlay title only", func(t *testing.T) {
		payload := `{"userId":"u:admin", "book":{"title":"New Title"}}`
		req := withURLParams(httptest.NewRequest(http.MethodPut, "/v1/books/admin/update/b:1", bytes.NewBufferString(payload)), "id", "b:1")
		w := httptest.NewRecorder()
		env.api.UpdateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		book, err := env.books.GetOne(context.Background(), "b:1")
		assert.NoError(t, err)
		assert.Equal(t, "New Title", book.Title)
		assert.Equal(t, "Jane Doe", book.Author)
		// lending state remains untouched.
		assert.False(t, book.IsAvailable)
		assert.Equal(t, "u:member", book.BorrowedBy)
	})

	t.Run("should fail: non admin acting user", func(t *testing.T) {
		payload := `{"userId":"u:member", "book":{"title":"Hacked"}}`
		req := withURLParams(httptest.NewRequest(http.MethodPut, "/v1/books/admin/update/b:1", bytes.NewBufferString(payload)), "id", "b:1")
		w := httptest.NewRecorder()
		env.api.UpdateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		payload := `{"userId":"u:admin", "book":{"title":"New"}}`
		req := withURLParams(httptest.NewRequest(http.MethodPut, "/v1/books/admin/update/b:404", bytes.NewBufferString(payload)), "id", "b:404")
		w := httptest.NewRecorder()
		env.api.UpdateBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

// TestDeleteOneBookHandler ensures deletion is gated and cascades on the borrower.
func TestDeleteOneBookHandler(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:admin", "Alice", RoleAdmin)
	env.seedUser("u:member", "Bob", RoleUser, "b:1")
	env.seedBook("b:1", "Borrowed Book", false, "u:member")

	t.Run("should fail: non admin acting user", func(t *testing.T) {
		payload := `{"userId":"u:member"}`
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/v1/books/admin/delete/b:1", bytes.NewBufferString(payload)), "id", "b:1")
		w := httptest.NewRecorder()
		env.api.DeleteOneBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusForbidden, res.StatusCode)
	})

	t.Run("should pass: delete removes the borrower reference", func(t *testing.T) {
		payload := `{"userId":"u:admin"}`
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/v1/books/admin/delete/b:1", bytes.NewBufferString(payload)), "id", "b:1")
		w := httptest.NewRecorder()
		env.api.DeleteOneBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)

		_, err := env.books.GetOne(context.Background(), "b:1")
		assert.Equal(t, ErrBookNotFound, err)
		member, err := env.users.GetOne(context.Background(), "u:member")
		assert.NoError(t, err)
		assert.NotContains(t, member.BorrowedBooks, "b:1")
	})

	t.Run("should fail: missing book", func(t *testing.T) {
		payload := `{"userId":"u:admin"}`
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/v1/books/admin/delete/b:404", bytes.NewBufferString(payload)), "id", "b:404")
		w := httptest.NewRecorder()
		env.api.DeleteOneBook(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

// TestAddBookReviewHandler ensures reviews are validated and appended in order.
func TestAddBookReviewHandler(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:first", "Alice", RoleUser)
	env.seedUser("u:second", "Bob", RoleUser)
	env.seedBook("b:1", "Reviewed Book", true, "")

	t.Run("should pass: reviews preserve submission order", func(t *testing.T) {
		for i, tc := range []struct {
			userID string
			rating int
			text   string
		}{
			{"u:first", 5, "great read"},
			{"u:second", 2, "not my thing"},
		} {
			payload, err := json.Marshal(ReviewRequest{UserID: tc.userID, Rating: tc.rating, Text: tc.text})
			require.NoError(t, err)
			req := withURLParams(httptest.NewRequest(http.MethodPost, "/v1/books/review/b:1", bytes.NewBuffer(payload)), "id", "b:1")
			w := httptest.NewRecorder()
			env.api.AddBookReview(w, req)
			res := w.Result()
			res.Body.Close()
			require.Equal(t, http.StatusOK, res.StatusCode, "review %d", i)
		}

		book, err := env.books.GetOne(context.Background(), "b:1")
		require.NoError(t, err)
		require.Len(t, book.Reviews, 2)
		assert.Equal(t, "u:first", book.Reviews[0].Reviewer)
		assert.Equal(t, 5, book.Reviews[0].Rating)
		assert.Equal(t, "u:second", book.Reviews[1].Reviewer)
		assert.Equal(t, 2, book.Reviews[1].Rating)
	})

	t.Run("should pass: reads resolve the reviewer name", func(t *testing.T) {
		book, err := env.bookSvc.GetOne(context.Background(), "b:1")
		require.NoError(t, err)
		require.Len(t, book.Reviews, 2)
		assert.Equal(t, "Alice", book.Reviews[0].ReviewerName)
		assert.Equal(t, "Bob", book.Reviews[1].ReviewerName)
	})

	t.Run("should fail: rating out of range", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			payload, err := json.Marshal(ReviewRequest{UserID: "u:first", Rating: rating})
			require.NoError(t, err)
			req := withURLParams(httptest.NewRequest(http.MethodPost, "/v1/books/review/b:1", bytes.NewBuffer(payload)), "id", "b:1")
			w := httptest.NewRecorder()
			env.api.AddBookReview(w, req)
			res := w.Result()
			res.Body.Close()
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		}
		book, err := env.books.GetOne(context.Background(), "b:1")
		require.NoError(t, err)
		assert.Len(t, book.Reviews, 2)
	})

	t.Run("should fail: unknown reviewer", func(t *testing.T) {
		payload := `{"userId":"u:ghost", "rating":3}`
		req := withURLParams(httptest.NewRequest(http.MethodPost, "/v1/books/review/b:1", bytes.NewBufferString(payload)), "id", "b:1")
		w := httptest.NewRecorder()
		env.api.AddBookReview(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		data, err := io.ReadAll(res.Body)
		assert.NoError(t, err)
		expected := `{"requestid":"", "status":400, "message":"reviewer does not exist", "data":{}}`
		assert.JSONEq(t, expected, string(data))
	})

	t.Run("should fail: unknown book", func(t *testing.T) {
		payload := `{"userId":"u:first", "rating":3}`
		req := withURLParams(httptest.NewRequest(http.MethodPost, "/v1/books/review/b:404", bytes.NewBufferString(payload)), "id", "b:404")
		w := httptest.NewRecorder()
		env.api.AddBookReview(w, req)
		res := w.Result()
		defer res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}
