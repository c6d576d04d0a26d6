package main

import (
	"context"

	"go.uber.org/zap"
)

type UserServiceProvider interface {
	Add(ctx context.Context, id string, user User) error
	GetOne(ctx context.Context, id string) (User, error)
	GetAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, user User) (User, error)
	Delete(ctx context.Context, id string) error
}

type UserService struct {
	logger  *zap.Logger
	config  *Config
	clock   Clocker
	ids     UIDHandler
	storage UserStorage
	books   BookStorage
	locks   *LockTable
	queue   Queuer
}

func NewUserService(logger *zap.Logger, config *Config, clock Clocker, ids UIDHandler, storage UserStorage, books BookStorage, locks *LockTable, queue Queuer) UserServiceProvider {
	return &UserService{
		logger:  logger,
		config:  config,
		clock:   clock,
		ids:     ids,
		storage: storage,
		books:   books,
		locks:   locks,
		queue:   queue,
	}
}

func (us *UserService) emit(ctx context.Context, kind, userID string) {
	event := Event{
		ID:         us.ids.Generate(EventIDPrefix),
		Kind:       kind,
		UserID:     userID,
		OccurredAt: us.clock.Now().UTC().String(),
	}
	if err := us.queue.Push(ctx, EventsQueue, event); err != nil {
		us.logger.Error("service: failed to push event to queue", zap.String("event.kind", kind), zap.Error(err))
	}
}

func (us *UserService) Add(ctx context.Context, id string, user User) error {
	if err := us.storage.Add(ctx, id, user); err != nil {
		return err
	}
	us.emit(ctx, EventUserCreated, id)
	return nil
}

func (us *UserService) GetOne(ctx context.Context, id string) (User, error) {
	return us.storage.GetOne(ctx, id)
}

func (us *UserService) GetAll(ctx context.Context) ([]User, error) {
	return us.storage.GetAll(ctx)
}

// Update overlays the profile fields of an existing user. The borrowed
// list is owned by the lending workflow and never touched here.
func (us *UserService) Update(ctx context.Context, id string, user User) (User, error) {
	existing, err := us.storage.GetOne(ctx, id)
	if err != nil {
		return existing, err
	}

	if len(user.Name) != 0 {
		existing.Name = user.Name
	}
	if len(user.Role) != 0 {
		existing.Role = user.Role
	}
	existing.UpdatedAt = us.clock.Now().UTC().String()

	updated, err := us.storage.Update(ctx, id, existing)
	if err != nil {
		return updated, err
	}
	us.emit(ctx, EventUserUpdated, id)
	return updated, nil
}

// Delete removes a user. Every book the user still holds is released
// first so the catalog never keeps a borrower pointing at a dead record.
func (us *UserService) Delete(ctx context.Context, id string) error {
	user, err := us.storage.GetOne(ctx, id)
	if err != nil {
		return err
	}

	for _, bookID := range user.BorrowedBooks {
		if err := us.release(ctx, bookID); err != nil {
			return err
		}
	}

	if err := us.storage.Delete(ctx, id); err != nil {
		return err
	}
	us.emit(ctx, EventUserDeleted, id)
	return nil
}

// release marks a single book available again under its lock.
func (us *UserService) release(ctx context.Context, bookID string) error {
	unlock := us.locks.Lock(bookID)
	defer unlock()

	book, err := us.books.GetOne(ctx, bookID)
	if err == ErrBookNotFound {
		// dangling reference, nothing to release.
		return nil
	}
	if err != nil {
		return err
	}

	book.IsAvailable = true
	book.BorrowedBy = ""
	book.UpdatedAt = us.clock.Now().UTC().String()
	_, err = us.books.Update(ctx, bookID, book)
	return err
}
