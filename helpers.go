package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

const (
	BookIDPrefix         string     = "b"
	UserIDPrefix         string     = "u"
	EventIDPrefix        string     = "e"
	RequestIDPrefix      string     = "r"
	ContextRequestID     ContextKey = "request.id"
	ContextRequestNumber ContextKey = "request.number"
)

type (
	ContextKey        string
	missingFieldError string
	invalidFieldError string
)

func (m missingFieldError) Error() string {
	return string(m) + " is required"
}

func (i invalidFieldError) Error() string {
	return string(i)
}

// GetValueFromContext returns the value of a given key in the context
// if this key is not available, it returns an empty string.
func GetValueFromContext(ctx context.Context, contextKey ContextKey) string {
	if val := ctx.Value(contextKey); val != nil {
		return val.(string)
	}
	return ""
}

// GetRequestNumberFromContext returns the request number set in
// the context. if not previously set then it returns 0.
func GetRequestNumberFromContext(ctx context.Context) uint64 {
	if val := ctx.Value(ContextRequestNumber); val != nil {
		return val.(uint64)
	}
	return 0
}

// AdminBookRequest is the payload of admin-gated book creation and update
// requests. UserID identifies the acting user to check against the admin role.
type AdminBookRequest struct {
	UserID string `json:"userId"`
	Book   Book   `json:"book"`
}

// AdminActionRequest is the payload of admin-gated requests carrying no
// entity data, like book deletion.
type AdminActionRequest struct {
	UserID string `json:"userId"`
}

// ReviewRequest is the payload of a review submission.
type ReviewRequest struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

// UpdateUserRequest is the payload of an admin-gated user profile update.
type UpdateUserRequest struct {
	UserID string `json:"userId"`
	User   User   `json:"user"`
}

// DecodeRequestBody is a helper function to read the json content of any request.
func DecodeRequestBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("invalid request body")
	}
	return json.NewDecoder(r.Body).Decode(v)
}

// ValidateCreateBookRequestBody is a helper function to check if the content of a book creation request is valid.
func ValidateCreateBookRequestBody(book *Book) error {
	if len(book.Title) == 0 {
		return missingFieldError("title")
	}

	if len(book.Author) == 0 {
		return missingFieldError("author")
	}

	if len(book.Genre) == 0 {
		return missingFieldError("genre")
	}

	if len(book.PublicationDate) == 0 {
		return missingFieldError("publicationDate")
	}

	return nil
}

// ValidateCreateUserRequestBody is a helper function to check if the content of a user creation request is valid.
// An empty role defaults to the regular user role.
func ValidateCreateUserRequestBody(user *User) error {
	if len(user.Name) == 0 {
		return missingFieldError("name")
	}

	if len(user.Role) == 0 {
		user.Role = RoleUser
	}

	if user.Role != RoleAdmin && user.Role != RoleUser {
		return invalidFieldError("role must be either Admin or User")
	}

	return nil
}

// ValidateReviewRequestBody is a helper function to check if the content of a review submission is valid.
// The rating range is enforced here at the boundary, not left to the storage layer.
func ValidateReviewRequestBody(review *ReviewRequest) error {
	if len(review.UserID) == 0 {
		return missingFieldError("userId")
	}

	if review.Rating < 1 || review.Rating > 5 {
		return invalidFieldError("rating must be between 1 and 5")
	}

	return nil
}
