package main

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type BookServiceProvider interface {
	Add(ctx context.Context, id string, book Book) error
	GetOne(ctx context.Context, id string) (Book, error)
	GetAll(ctx context.Context) ([]Book, error)
	Update(ctx context.Context, id string, book Book) (Book, error)
	Delete(ctx context.Context, id string) error
	AddReview(ctx context.Context, bookID string, review Review) (Book, error)
}

type BookService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	storage BookStorage
	users   UserStorage
	locks   *LockTable
	queue   Queuer
}

func NewBookService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage BookStorage, users UserStorage, locks *LockTable, queue Queuer) BookServiceProvider {
	return &BookService{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		storage: storage,
		users:   users,
		locks:   locks,
		queue:   queue,
	}
}

// emit pushes a mutation event onto the queue. A queue failure is logged
// and swallowed: the audit trail is best effort and never fails a request.
func (bs *BookService) emit(ctx context.Context, kind, bookID, userID string) {
	event := Event{
		ID:         bs.ids.Generate(EventIDPrefix),
		Kind:       kind,
		BookID:     bookID,
		UserID:     userID,
		OccurredAt: bs.clock.Now().UTC().String(),
	}
	if err := bs.queue.Push(ctx, EventsQueue, event); err != nil {
		bs.logger.Error("service: failed to push event to queue", zap.String("event.kind", kind), zap.Error(err))
	}
}

func (bs *BookService) Add(ctx context.Context, id string, book Book) error {
	if err := bs.storage.Add(ctx, id, book); err != nil {
		return err
	}
	bs.emit(ctx, EventBookCreated, id, "")
	return nil
}

func (bs *BookService) GetOne(ctx context.Context, id string) (Book, error) {
	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return book, err
	}
	return bs.resolveReviewers(ctx, []Book{book})[0], nil
}

func (bs *BookService) GetAll(ctx context.Context) ([]Book, error) {
	books, err := bs.storage.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return bs.resolveReviewers(ctx, books), nil
}

// Update overlays the catalog fields of an existing book. Availability and
// borrower are owned by the lending workflow and never touched here. The
// read-merge-write runs under the book lock to not race with that workflow.
func (bs *BookService) Update(ctx context.Context, id string, book Book) (Book, error) {
	unlock := bs.locks.Lock(id)
	defer unlock()

	existing, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return existing, err
	}

	if len(book.Title) != 0 {
		existing.Title = book.Title
	}
	if len(book.Author) != 0 {
		existing.Author = book.Author
	}
	if len(book.Genre) != 0 {
		existing.Genre = book.Genre
	}
	if len(book.PublicationDate) != 0 {
		existing.PublicationDate = book.PublicationDate
	}
	existing.UpdatedAt = bs.clock.Now().UTC().String()

	updated, err := bs.storage.Update(ctx, id, existing)
	if err != nil {
		return updated, err
	}
	bs.emit(ctx, EventBookUpdated, id, "")
	return updated, nil
}

// Delete removes a book. When the book is currently out, its id is pulled
// from the borrower's list first so no dangling reference survives.
func (bs *BookService) Delete(ctx context.Context, id string) error {
	unlock := bs.locks.Lock(id)
	defer unlock()

	book, err := bs.storage.GetOne(ctx, id)
	if err != nil {
		return err
	}

	if len(book.BorrowedBy) != 0 {
		borrower, err := bs.users.GetOne(ctx, book.BorrowedBy)
		if err == nil {
			borrower.BorrowedBooks = lo.Without(borrower.BorrowedBooks, id)
			borrower.UpdatedAt = bs.clock.Now().UTC().String()
			if _, err = bs.users.Update(ctx, borrower.ID, borrower); err != nil {
				return err
			}
		} else if err != ErrUserNotFound {
			return err
		}
	}

	if err := bs.storage.Delete(ctx, id); err != nil {
		return err
	}
	bs.emit(ctx, EventBookDeleted, id, book.BorrowedBy)
	return nil
}

// AddReview appends a review to the book's review list. The reviewer must
// resolve to an existing user. The append runs under the book lock since
// it is a read-modify-write of the whole document.
func (bs *BookService) AddReview(ctx context.Context, bookID string, review Review) (Book, error) {
	if _, err := bs.users.GetOne(ctx, review.Reviewer); err != nil {
		return Book{}, err
	}

	unlock := bs.locks.Lock(bookID)
	defer unlock()

	book, err := bs.storage.GetOne(ctx, bookID)
	if err != nil {
		return book, err
	}

	review.ReviewerName = "" // resolved on reads only, never persisted.
	book.Reviews = append(book.Reviews, review)
	book.UpdatedAt = bs.clock.Now().UTC().String()

	updated, err := bs.storage.Update(ctx, bookID, book)
	if err != nil {
		return updated, err
	}
	bs.emit(ctx, EventBookReviewed, bookID, review.Reviewer)
	return updated, nil
}

// resolveReviewers joins the reviews' reviewer ids against the user store
// and fills in their display names. A user store failure or a reviewer id
// pointing to a deleted user leaves the name empty rather than failing the read.
func (bs *BookService) resolveReviewers(ctx context.Context, books []Book) []Book {
	users, err := bs.users.GetAll(ctx)
	if err != nil {
		bs.logger.Error("service: failed to resolve reviewers names", zap.Error(err))
		return books
	}
	names := lo.Associate(users, func(u User) (string, string) { return u.ID, u.Name })
	return lo.Map(books, func(book Book, _ int) Book {
		book.Reviews = lo.Map(book.Reviews, func(review Review, _ int) Review {
			review.ReviewerName = names[review.Reviewer]
			return review
		})
		return book
	})
}
