package main

import (
	"context"
	"errors"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrBookNotAvailable = errors.New("book is not available for borrowing")
)

// Review represents a reader review embedded into a book record.
// Reviews are append-only: once submitted they are never edited and
// only disappear with the parent book. ReviewerName is not persisted,
// it is resolved against the user store when books are fetched.
type Review struct {
	Reviewer     string `json:"reviewer"`
	ReviewerName string `json:"reviewerName,omitempty"`
	Text         string `json:"text"`
	Rating       int    `json:"rating"`
}

// Book represents a book entity of the catalog.
type Book struct {
	ID              string   `json:"id"`
	Title           string   `json:"title" binding:"required"`
	Author          string   `json:"author" binding:"required"`
	Genre           string   `json:"genre" binding:"required"`
	PublicationDate string   `json:"publicationDate" binding:"required"`
	IsAvailable     bool     `json:"isAvailable"`
	BorrowedBy      string   `json:"borrowedBy,omitempty"`
	Reviews         []Review `json:"reviews"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

// BookStorage defines possible operations on book entity.
type BookStorage interface {
	Add(ctx context.Context, id string, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	Delete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, book Book) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
}
