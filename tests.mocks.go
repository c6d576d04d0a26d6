package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

type MockBookStorage struct {
	AddFunc    func(ctx context.Context, id string, book Book) error
	GetOneFunc func(ctx context.Context, id string) (Book, error)
	DeleteFunc func(ctx context.Context, id string) error
	UpdateFunc func(ctx context.Context, id string, book Book) (Book, error)
	GetAllFunc func(ctx context.Context) ([]Book, error)
}

// Add mocks the behavior of book creation by the repository.
func (m *MockBookStorage) Add(ctx context.Context, id string, book Book) error {
	return m.AddFunc(ctx, id, book)
}

// GetOne mocks the behavior of retrieving a book by the repository.
func (m *MockBookStorage) GetOne(ctx context.Context, id string) (Book, error) {
	return m.GetOneFunc(ctx, id)
}

// Delete mocks the behavior of deleting a book by the repository.
func (m *MockBookStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// Update mocks the behavior of updating a book by the repository.
func (m *MockBookStorage) Update(ctx context.Context, id string, book Book) (Book, error) {
	return m.UpdateFunc(ctx, id, book)
}

// GetAll mocks the behavior of retrieving all books by the repository.
func (m *MockBookStorage) GetAll(ctx context.Context) ([]Book, error) {
	return m.GetAllFunc(ctx)
}

type MockUserStorage struct {
	AddFunc    func(ctx context.Context, id string, user User) error
	GetOneFunc func(ctx context.Context, id string) (User, error)
	DeleteFunc func(ctx context.Context, id string) error
	UpdateFunc func(ctx context.Context, id string, user User) (User, error)
	GetAllFunc func(ctx context.Context) ([]User, error)
}

// Add mocks the behavior of user creation by the repository.
func (m *MockUserStorage) Add(ctx context.Context, id string, user User) error {
	return m.AddFunc(ctx, id, user)
}

// GetOne mocks the behavior of retrieving a user by the repository.
func (m *MockUserStorage) GetOne(ctx context.Context, id string) (User, error) {
	return m.GetOneFunc(ctx, id)
}

// Delete mocks the behavior of deleting a user by the repository.
func (m *MockUserStorage) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

// Update mocks the behavior of updating a user by the repository.
func (m *MockUserStorage) Update(ctx context.Context, id string, user User) (User, error) {
	return m.UpdateFunc(ctx, id, user)
}

// GetAll mocks the behavior of retrieving all users by the repository.
func (m *MockUserStorage) GetAll(ctx context.Context) ([]User, error) {
	return m.GetAllFunc(ctx)
}

// memBookStorage is a concurrency safe in-memory book storage used by
// service and router level tests so workflows run against real state.
type memBookStorage struct {
	mu    sync.RWMutex
	books map[string]Book
}

func newMemBookStorage() *memBookStorage {
	return &memBookStorage{books: make(map[string]Book)}
}

func (m *memBookStorage) Add(_ context.Context, id string, book Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[id] = book
	return nil
}

func (m *memBookStorage) GetOne(_ context.Context, id string) (Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	book, ok := m.books[id]
	if !ok {
		return Book{}, ErrBookNotFound
	}
	return book, nil
}

func (m *memBookStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return ErrBookNotFound
	}
	delete(m.books, id)
	return nil
}

func (m *memBookStorage) Update(_ context.Context, id string, book Book) (Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[id]; !ok {
		return Book{}, ErrBookNotFound
	}
	m.books[id] = book
	return book, nil
}

func (m *memBookStorage) GetAll(_ context.Context) ([]Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Values(m.books), nil
}

// memUserStorage is the user flavor of the in-memory storage.
type memUserStorage struct {
	mu    sync.RWMutex
	users map[string]User
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{users: make(map[string]User)}
}

func (m *memUserStorage) Add(_ context.Context, id string, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id] = user
	return nil
}

func (m *memUserStorage) GetOne(_ context.Context, id string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUserStorage) Update(_ context.Context, id string, user User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return User{}, ErrUserNotFound
	}
	m.users[id] = user
	return user, nil
}

func (m *memUserStorage) GetAll(_ context.Context) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Values(m.users), nil
}

// recordQueue collects pushed events so tests can assert the audit trail.
type recordQueue struct {
	mu     sync.Mutex
	events []Event
}

func newRecordQueue() *recordQueue {
	return &recordQueue{}
}

func (q *recordQueue) Push(_ context.Context, _ string, event Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, event)
	return nil
}

func (q *recordQueue) Pop(ctx context.Context, _ ...string) (string, Event, error) {
	<-ctx.Done()
	return "", Event{}, ctx.Err()
}

func (q *recordQueue) Events() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Event, len(q.events))
	copy(out, q.events)
	return out
}

// MockQueuer implements a fake Queuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, event Event) error
	PopFunc  func(ctx context.Context, qids ...string) (string, Event, error)
}

func (m *MockQueuer) Push(ctx context.Context, qid string, event Event) error {
	return m.PushFunc(ctx, qid, event)
}

func (m *MockQueuer) Pop(ctx context.Context, qids ...string) (string, Event, error) {
	return m.PopFunc(ctx, qids...)
}

// MockEventArchive implements a fake EventArchive.
type MockEventArchive struct {
	AppendFunc func(ctx context.Context, event Event) error
	ListFunc   func(ctx context.Context) ([]Event, error)
}

func (m *MockEventArchive) Append(ctx context.Context, event Event) error {
	return m.AppendFunc(ctx, event)
}

func (m *MockEventArchive) List(ctx context.Context) ([]Event, error) {
	return m.ListFunc(ctx)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
// equals to `2023-07-02 00:00:00 +0000 UTC` in String format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// NewTicker satisfies the TickerClocker interface on the mocked clock.
func (mck *MockClocker) NewTicker(d time.Duration) *time.Ticker {
	return time.NewTicker(d)
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}

// testEnv bundles the full wiring of services over in-memory storages.
type testEnv struct {
	books   *memBookStorage
	users   *memUserStorage
	queue   *recordQueue
	locks   *LockTable
	clock   *MockClocker
	bookSvc BookServiceProvider
	userSvc UserServiceProvider
	lendSvc LendingServiceProvider
	api     *APIHandler
}

// newTestEnv wires real services and api handler over in-memory storages.
func newTestEnv() *testEnv {
	logger := zap.NewNop()
	books := newMemBookStorage()
	users := newMemUserStorage()
	queue := newRecordQueue()
	locks := NewLockTable()
	clock := NewMockClocker()
	ids := NewIDsHandler()

	bookSvc := NewBookService(logger, nil, clock, ids, books, users, locks, queue)
	userSvc := NewUserService(logger, nil, clock, ids, users, books, locks, queue)
	lendSvc := NewLendingService(logger, nil, clock, ids, books, users, locks, queue)
	auth := NewRoleAuthorizer(logger, users)
	metrics := NewMetrics()

	api := NewAPIHandler(
		logger,
		&Config{OpsEndpointsEnable: true},
		&Statistics{started: clock.Now()},
		clock,
		ids,
		bookSvc,
		userSvc,
		lendSvc,
		auth,
		&MockEventArchive{
			ListFunc: func(ctx context.Context) ([]Event, error) { return []Event{}, nil },
		},
		metrics,
	)

	return &testEnv{
		books:   books,
		users:   users,
		queue:   queue,
		locks:   locks,
		clock:   clock,
		bookSvc: bookSvc,
		userSvc: userSvc,
		lendSvc: lendSvc,
		api:     api,
	}
}

// withURLParams injects chi route params into the request context so
// handlers can be invoked directly without going through the router.
func withURLParams(r *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// seedUser inserts a user record directly into the in-memory storage.
func (env *testEnv) seedUser(id, name, role string, borrowed ...string) User {
	user := User{
		ID:            id,
		Name:          name,
		Role:          role,
		BorrowedBooks: append([]string{}, borrowed...),
		CreatedAt:     env.clock.Now().UTC().String(),
		UpdatedAt:     env.clock.Now().UTC().String(),
	}
	_ = env.users.Add(context.Background(), id, user)
	return user
}

// seedBook inserts a book record directly into the in-memory storage.
func (env *testEnv) seedBook(id, title string, available bool, borrowedBy string) Book {
	book := Book{
		ID:              id,
		Title:           title,
		Author:          "Jane Doe",
		Genre:           "Fiction",
		PublicationDate: "2001",
		IsAvailable:     available,
		BorrowedBy:      borrowedBy,
		Reviews:         []Review{},
		CreatedAt:       env.clock.Now().UTC().String(),
		UpdatedAt:       env.clock.Now().UTC().String(),
	}
	_ = env.books.Add(context.Background(), id, book)
	return book
}
