package main

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type LendingServiceProvider interface {
	Borrow(ctx context.Context, userID, bookID string) (User, error)
	Return(ctx context.Context, userID, bookID string) (User, error)
}

// LendingService owns the borrow and return workflows. Each workflow is a
// two-document write (user list then book flags) serialized per book id so
// two concurrent borrows of the same copy cannot both succeed.
type LendingService struct {
	logger *zap.Logger
	config *Config
	clock  Clocker
	ids    UIDHandler
	books  BookStorage
	users  UserStorage
	locks  *LockTable
	queue  Queuer
}

func NewLendingService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, books BookStorage, users UserStorage, locks *LockTable, queue Queuer) LendingServiceProvider {
	return &LendingService{
		logger: logger,
		config: config,
		clock:  clock,
		ids:    ids,
		books:  books,
		users:  users,
		locks:  locks,
		queue:  queue,
	}
}

func (ls *LendingService) emit(ctx context.Context, kind, bookID, userID string) {
	event := Event{
		ID:         ls.ids.Generate(EventIDPrefix),
		Kind:       kind,
		BookID:     bookID,
		UserID:     userID,
		OccurredAt: ls.clock.Now().UTC().String(),
	}
	if err := ls.queue.Push(ctx, EventsQueue, event); err != nil {
		ls.logger.Error("service: failed to push event to queue", zap.String("event.kind", kind), zap.Error(err))
	}
}

// Borrow hands the book over to the user. It fails with ErrBookNotAvailable
// when the copy is already out, no matter who holds it.
func (ls *LendingService) Borrow(ctx context.Context, userID, bookID string) (User, error) {
	unlock := ls.locks.Lock(bookID)
	defer unlock()

	book, err := ls.books.GetOne(ctx, bookID)
	if err != nil {
		return User{}, err
	}
	if !book.IsAvailable {
		return User{}, ErrBookNotAvailable
	}

	user, err := ls.users.GetOne(ctx, userID)
	if err != nil {
		return user, err
	}

	now := ls.clock.Now().UTC().String()
	user.BorrowedBooks = append(user.BorrowedBooks, bookID)
	user.UpdatedAt = now
	updated, err := ls.users.Update(ctx, userID, user)
	if err != nil {
		return updated, err
	}

	book.IsAvailable = false
	book.BorrowedBy = userID
	book.UpdatedAt = now
	if _, err = ls.books.Update(ctx, bookID, book); err != nil {
		return updated, fmt.Errorf("failed to flag book %s as borrowed: %w", bookID, err)
	}

	ls.emit(ctx, EventBookBorrowed, bookID, userID)
	return updated, nil
}

// Return puts the book back on the shelf. Any user id frees the copy, and
// removing a book absent from the user's list is a no-op, so replaying a
// return cannot fail.
func (ls *LendingService) Return(ctx context.Context, userID, bookID string) (User, error) {
	unlock := ls.locks.Lock(bookID)
	defer unlock()

	book, err := ls.books.GetOne(ctx, bookID)
	if err != nil {
		return User{}, err
	}

	user, err := ls.users.GetOne(ctx, userID)
	if err != nil {
		return user, err
	}

	now := ls.clock.Now().UTC().String()
	user.BorrowedBooks = lo.Without(user.BorrowedBooks, bookID)
	user.UpdatedAt = now
	updated, err := ls.users.Update(ctx, userID, user)
	if err != nil {
		return updated, err
	}

	book.IsAvailable = true
	book.BorrowedBy = ""
	book.UpdatedAt = now
	if _, err = ls.books.Update(ctx, bookID, book); err != nil {
		return updated, fmt.Errorf("failed to flag book %s as available: %w", bookID, err)
	}

	ls.emit(ctx, EventBookReturned, bookID, userID)
	return updated, nil
}
