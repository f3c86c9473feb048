package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
	storerrros "github.com/azaliaz/bookshelf/book-service/internal/storage/errors"
)

func strPtr(s string) *string { return &s }

func TestMemStorage_scenario(t *testing.T) {
	ctx := context.Background()
	ms := New()

	a, err := ms.Create(ctx, models.NewBook{Title: "A"})
	require.NoError(t, err)
	assert.Equal(t, models.Book{ID: 1, Title: "A"}, a)

	b, err := ms.Create(ctx, models.NewBook{Title: "B", Author: strPtr("X")})
	require.NoError(t, err)
	assert.Equal(t, models.Book{ID: 2, Title: "B", Author: strPtr("X")}, b)

	all, err := ms.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Book{a, b}, all)

	removed, err := ms.Remove(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.Book{ID: 1, Title: "A"}, removed)

	all, err = ms.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Book{b}, all)

	c, err := ms.Create(ctx, models.NewBook{Title: "C"})
	require.NoError(t, err)
	assert.Equal(t, models.Book{ID: 3, Title: "C"}, c)
}

func TestMemStorage_idsNeverReused(t *testing.T) {
	ctx := context.Background()
	ms := New()

	var last int64
	for i := 0; i < 20; i++ {
		book, err := ms.Create(ctx, models.NewBook{Title: "t"})
		require.NoError(t, err)
		assert.Greater(t, book.ID, last)
		last = book.ID
		if i%2 == 0 {
			_, err = ms.Remove(ctx, book.ID)
			require.NoError(t, err)
		}
	}
	assert.Equal(t, int64(20), last)
}

func TestMemStorage_findAll(t *testing.T) {
	ctx := context.Background()
	ms := New()

	t.Run("empty store", func(t *testing.T) {
		books, err := ms.FindAll(ctx)
		require.NoError(t, err)
		assert.NotNil(t, books)
		assert.Empty(t, books)
	})

	t.Run("creation order", func(t *testing.T) {
		titles := []string{"one", "two", "three", "four"}
		for _, title := range titles {
			_, err := ms.Create(ctx, models.NewBook{Title: title})
			require.NoError(t, err)
		}
		books, err := ms.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, books, len(titles))
		for i, book := range books {
			assert.Equal(t, titles[i], book.Title)
			assert.Equal(t, int64(i+1), book.ID)
		}
	})

	t.Run("snapshot is not a live view", func(t *testing.T) {
		books, err := ms.FindAll(ctx)
		require.NoError(t, err)
		books[0].Title = "changed"
		_, err = ms.Create(ctx, models.NewBook{Title: "five"})
		require.NoError(t, err)

		fresh, err := ms.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "one", fresh[0].Title)
		assert.Len(t, books, 4)
		assert.Len(t, fresh, 5)
	})
}

func TestMemStorage_findOne(t *testing.T) {
	ctx := context.Background()
	ms := New()

	created, err := ms.Create(ctx, models.NewBook{Title: "Dune", Author: strPtr("Herbert")})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		book, err := ms.FindOne(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, book)
	})

	t.Run("returned book does not alias storage", func(t *testing.T) {
		book, err := ms.FindOne(ctx, created.ID)
		require.NoError(t, err)
		*book.Author = "someone else"

		again, err := ms.FindOne(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Herbert", *again.Author)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := ms.FindOne(ctx, 42)
		require.ErrorIs(t, err, storerrros.ErrBookNotFound)
		assert.Equal(t, "Book not found", err.Error())
	})
}

func TestMemStorage_update(t *testing.T) {
	ctx := context.Background()
	ms := New()

	created, err := ms.Create(ctx, models.NewBook{Title: "Old", Author: strPtr("Writer")})
	require.NoError(t, err)

	t.Run("title only", func(t *testing.T) {
		book, err := ms.Update(ctx, created.ID, models.BookPatch{Title: strPtr("X")})
		require.NoError(t, err)
		assert.Equal(t, models.Book{ID: created.ID, Title: "X", Author: strPtr("Writer")}, book)

		stored, err := ms.FindOne(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, book, stored)
	})

	t.Run("author only", func(t *testing.T) {
		book, err := ms.Update(ctx, created.ID, models.BookPatch{Author: strPtr("Other")})
		require.NoError(t, err)
		assert.Equal(t, models.Book{ID: created.ID, Title: "X", Author: strPtr("Other")}, book)
	})

	t.Run("empty patch", func(t *testing.T) {
		book, err := ms.Update(ctx, created.ID, models.BookPatch{})
		require.NoError(t, err)
		assert.Equal(t, models.Book{ID: created.ID, Title: "X", Author: strPtr("Other")}, book)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := ms.Update(ctx, 99, models.BookPatch{Title: strPtr("X")})
		require.ErrorIs(t, err, storerrros.ErrBookNotFound)
	})
}

func TestMemStorage_remove(t *testing.T) {
	ctx := context.Background()
	ms := New()

	for _, title := range []string{"a", "b", "c"} {
		_, err := ms.Create(ctx, models.NewBook{Title: title})
		require.NoError(t, err)
	}

	removed, err := ms.Remove(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.Book{ID: 2, Title: "b"}, removed)

	_, err = ms.FindOne(ctx, 2)
	require.ErrorIs(t, err, storerrros.ErrBookNotFound)

	_, err = ms.Remove(ctx, 2)
	require.ErrorIs(t, err, storerrros.ErrBookNotFound)

	books, err := ms.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Book{{ID: 1, Title: "a"}, {ID: 3, Title: "c"}}, books)
}

func TestMemStorage_concurrentCreate(t *testing.T) {
	ctx := context.Background()
	ms := New()

	const workers = 50
	ids := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			book, err := ms.Create(ctx, models.NewBook{Title: "concurrent"})
			assert.NoError(t, err)
			ids <- book.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}
