package main

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBorrowService ensures a successful borrow updates both records and
// emits the matching event.
func TestBorrowService(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:alice", "Alice", RoleUser)
	env.seedBook("b:1", "Single Copy", true, "")

	user, err := env.lendSvc.Borrow(context.Background(), "u:alice", "b:1")
	require.NoError(t, err)
	assert.Contains(t, user.BorrowedBooks, "b:1")

	book, err := env.books.GetOne(context.Background(), "b:1")
	require.NoError(t, err)
	assert.False(t, book.IsAvailable)
	assert.Equal(t, "u:alice", book.BorrowedBy)

	events := env.queue.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventBookBorrowed, events[0].Kind)
	assert.Equal(t, "b:1", events[0].BookID)
	assert.Equal(t, "u:alice", events[0].UserID)
}

// TestBorrowUnavailableService ensures borrowing a copy already out fails
// and leaves both records unchanged.
func TestBorrowUnavailableService(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:alice", "Alice", RoleUser, "b:1")
	env.seedUser("u:bob", "Bob", RoleUser)
	env.seedBook("b:1", "Single Copy", false, "u:alice")

	_, err := env.lendSvc.Borrow(context.Background(), "u:bob", "b:1")
	assert.Equal(t, ErrBookNotAvailable, err)

	book, err := env.books.GetOne(context.Background(), "b:1")
	require.NoError(t, err)
	assert.Equal(t, "u:alice", book.BorrowedBy)
	bob, err := env.users.GetOne(context.Background(), "u:bob")
	require.NoError(t, err)
	assert.Empty(t, bob.BorrowedBooks)
	assert.Empty(t, env.queue.Events())
}

// TestReturnService ensures a return frees the copy whoever sends it back
// and that removing an absent membership is a no-op.
func TestReturnService(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:alice", "Alice", RoleUser, "b:1")
	env.seedUser("u:bob", "Bob", RoleUser)
	env.seedBook("b:1", "Single Copy", false, "u:alice")

	// bob returns a copy alice holds: the copy is freed anyway and
	// bob's empty membership list stays empty.
	bob, err := env.lendSvc.Return(context.Background(), "u:bob", "b:1")
	require.NoError(t, err)
	assert.Empty(t, bob.BorrowedBooks)

	book, err := env.books.GetOne(context.Background(), "b:1")
	require.NoError(t, err)
	assert.True(t, book.IsAvailable)
	assert.Empty(t, book.BorrowedBy)

	events := env.queue.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventBookReturned, events[0].Kind)
}

// TestConcurrentBorrows ensures the per book serialization lets exactly one
// of many concurrent borrowers win the copy.
func TestConcurrentBorrows(t *testing.T) {
	env := newTestEnv()
	env.seedBook("b:1", "Single Copy", true, "")
	const borrowers = 16
	for i := 0; i < borrowers; i++ {
		env.seedUser("u:"+string(rune('a'+i)), "User", RoleUser)
	}

	var wg sync.WaitGroup
	results := make(chan error, borrowers)
	for i := 0; i < borrowers; i++ {
		wg.Add(1)
		go func(userID string) {
			defer wg.Done()
			_, err := env.lendSvc.Borrow(context.Background(), userID, "b:1")
			results <- err
		}("u:" + string(rune('a'+i)))
	}
	wg.Wait()
	close(results)

	var wins, rejections int
	for err := range results {
		switch err {
		case nil:
			wins++
		case ErrBookNotAvailable:
			rejections++
		default:
			t.Fatalf("unexpected borrow error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, borrowers-1, rejections)

	// the single winner is the recorded borrower.
	book, err := env.books.GetOne(context.Background(), "b:1")
	require.NoError(t, err)
	assert.False(t, book.IsAvailable)
	winner, err := env.users.GetOne(context.Background(), book.BorrowedBy)
	require.NoError(t, err)
	assert.Contains(t, winner.BorrowedBooks, "b:1")
}

// TestDeleteUserService ensures removing a member releases every held copy.
func TestDeleteUserService(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:alice", "Alice", RoleUser, "b:1", "b:2")
	env.seedBook("b:1", "First", false, "u:alice")
	env.seedBook("b:2", "Second", false, "u:alice")

	err := env.userSvc.Delete(context.Background(), "u:alice")
	require.NoError(t, err)

	for _, id := range []string{"b:1", "b:2"} {
		book, err := env.books.GetOne(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, book.IsAvailable)
		assert.Empty(t, book.BorrowedBy)
	}

	kinds := lo.Map(env.queue.Events(), func(e Event, _ int) string { return e.Kind })
	assert.Contains(t, kinds, EventUserDeleted)
}

// TestDeleteBookService ensures removing a borrowed copy pulls its id from
// the borrower list.
func TestDeleteBookService(t *testing.T) {
	env := newTestEnv()
	env.seedUser("u:alice", "Alice", RoleUser, "b:1", "b:2")
	env.seedBook("b:1", "First", false, "u:alice")

	err := env.bookSvc.Delete(context.Background(), "b:1")
	require.NoError(t, err)

	alice, err := env.users.GetOne(context.Background(), "u:alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"b:2"}, alice.BorrowedBooks)
}

// TestUpdateBookService ensures only non empty catalog fields are overlaid.
func TestUpdateBookService(t *testing.T) {
	env := newTestEnv()
	env.seedBook("b:1", "Old Title", false, "u:alice")

	updated, err := env.bookSvc.Update(context.Background(), "b:1", Book{Genre: "Sci-Fi"})
	require.NoError(t, err)
	assert.Equal(t, "Old Title", updated.Title)
	assert.Equal(t, "Sci-Fi", updated.Genre)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "u:alice", updated.BorrowedBy)
}
