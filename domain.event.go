package main

import "context"

// Kinds of events emitted by the catalog, membership and lending workflows.
const (
	EventBookCreated  = "book.created"
	EventBookUpdated  = "book.updated"
	EventBookDeleted  = "book.deleted"
	EventBookReviewed = "book.reviewed"
	EventBookBorrowed = "book.borrowed"
	EventBookReturned = "book.returned"
	EventUserCreated  = "user.created"
	EventUserUpdated  = "user.updated"
	EventUserDeleted  = "user.deleted"
)

// Event records a single mutation performed on the stores. Events are
// pushed onto the queue on the write path and archived asynchronously,
// so a slow archive never blocks a client request.
type Event struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	BookID     string `json:"bookId,omitempty"`
	UserID     string `json:"userId,omitempty"`
	OccurredAt string `json:"occurredAt"`
}

// EventArchive defines possible operations on the mutation audit trail.
type EventArchive interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}
