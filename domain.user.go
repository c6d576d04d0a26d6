package main

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

// Roles a user can hold. Only admins may mutate the catalog.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// User represents a member of the library. BorrowedBooks holds the ids
// of the books the user currently has out, in borrow order. The lending
// workflow is the only writer of that list.
type User struct {
	ID            string   `json:"id"`
	Name          string   `json:"name" binding:"required"`
	Role          string   `json:"role"`
	BorrowedBooks []string `json:"borrowedBooks"`
	CreatedAt     string   `json:"createdAt"`
	UpdatedAt     string   `json:"updatedAt"`
}

// UserStorage defines possible operations on user entity.
type UserStorage interface {
	Add(ctx context.Context, id string, user User) error
	GetOne(ctx context.Context, id string) (User, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, user User) (User, error)
	GetAll(ctx context.Context) ([]User, error)
}
