package activity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
)

type failingList struct{ err error }

func (f failingList) push(string, []byte, int) error       { return f.err }
func (f failingList) recent(string, int) ([]string, error) { return nil, f.err }
func (f failingList) close() error                         { return nil }

func TestLog_keepsNewestWithinLimit(t *testing.T) {
	l := NewMemory(3)

	for _, route := range []string{"/books", "/books/1", "/books/2", "/books/3"} {
		require.NoError(t, l.Record("alice", models.UserRequest{Method: "GET", Route: route}))
	}
	require.NoError(t, l.Record("bob", models.UserRequest{Method: "POST", Route: "/books"}))

	ops, err := l.Recent("alice")
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequest{
		{Method: "GET", Route: "/books/3"},
		{Method: "GET", Route: "/books/2"},
		{Method: "GET", Route: "/books/1"},
	}, ops)

	ops, err = l.Recent("bob")
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequest{{Method: "POST", Route: "/books"}}, ops)
}

func TestLog_unknownUser(t *testing.T) {
	l := NewMemory(3)

	ops, err := l.Recent("nobody")
	require.NoError(t, err)
	assert.NotNil(t, ops)
	assert.Empty(t, ops)
}

func TestLog_skipsMalformedEntries(t *testing.T) {
	store := &memoryList{lists: map[string][]string{
		"alice": {`{"method":"GET","route":"/books"}`, `not json`},
	}}
	l := newLog(store, 5)

	ops, err := l.Recent("alice")
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequest{{Method: "GET", Route: "/books"}}, ops)
}

func TestLog_storeErrors(t *testing.T) {
	boom := errors.New("connection refused")
	l := newLog(failingList{err: boom}, 3)

	err := l.Record("alice", models.UserRequest{Method: "GET", Route: "/books"})
	assert.ErrorIs(t, err, boom)

	_, err = l.Recent("alice")
	assert.ErrorIs(t, err, boom)
}

func TestNewLog_limitAtLeastOne(t *testing.T) {
	l := NewMemory(0)
	require.NoError(t, l.Record("alice", models.UserRequest{Method: "GET", Route: "/a"}))
	require.NoError(t, l.Record("alice", models.UserRequest{Method: "GET", Route: "/b"}))

	ops, err := l.Recent("alice")
	require.NoError(t, err)
	assert.Equal(t, []models.UserRequest{{Method: "GET", Route: "/b"}}, ops)
}
