package storage

import (
	"context"
	"sync"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
	"github.com/azaliaz/bookshelf/book-service/internal/logger"
	storerrros "github.com/azaliaz/bookshelf/book-service/internal/storage/errors"
)

// MemStorage keeps books in insertion order and hands out ids from a
// sequence that never goes back, so removed ids are not reused.
type MemStorage struct {
	mu    sync.Mutex
	books []models.Book
	seq   int64
}

func New() *MemStorage {
	return &MemStorage{
		books: make([]models.Book, 0),
		seq:   1,
	}
}

func (ms *MemStorage) Create(_ context.Context, nb models.NewBook) (models.Book, error) {
	log := logger.Get()
	ms.mu.Lock()
	defer ms.mu.Unlock()

	book := models.Book{
		ID:    ms.seq,
		Title: nb.Title,
	}
	if nb.Author != nil {
		author := *nb.Author
		book.Author = &author
	}
	ms.seq++
	ms.books = append(ms.books, book)
	log.Debug().Int64("id", book.ID).Msg("book created")
	return book.Clone(), nil
}

func (ms *MemStorage) FindAll(_ context.Context) ([]models.Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	books := make([]models.Book, 0, len(ms.books))
	for _, book := range ms.books {
		books = append(books, book.Clone())
	}
	return books, nil
}

func (ms *MemStorage) FindOne(_ context.Context, id int64) (models.Book, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	i := ms.indexOf(id)
	if i == -1 {
		return models.Book{}, storerrros.ErrBookNotFound
	}
	return ms.books[i].Clone(), nil
}

func (ms *MemStorage) Update(_ context.Context, id int64, patch models.BookPatch) (models.Book, error) {
	log := logger.Get()
	ms.mu.Lock()
	defer ms.mu.Unlock()

	i := ms.indexOf(id)
	if i == -1 {
		log.Warn().Int64("id", id).Msg("book not found")
		return models.Book{}, storerrros.ErrBookNotFound
	}
	updated := patch.Apply(ms.books[i])
	updated.ID = id
	ms.books[i] = updated
	return updated.Clone(), nil
}

func (ms *MemStorage) Remove(_ context.Context, id int64) (models.Book, error) {
	log := logger.Get()
	ms.mu.Lock()
	defer ms.mu.Unlock()

	i := ms.indexOf(id)
	if i == -1 {
		log.Warn().Int64("id", id).Msg("book not found")
		return models.Book{}, storerrros.ErrBookNotFound
	}
	removed := ms.books[i]
	ms.books = append(ms.books[:i], ms.books[i+1:]...)
	log.Info().Int64("id", id).Msg("book deleted successfully")
	return removed, nil
}

func (ms *MemStorage) Close() error {
	return nil
}

// indexOf must be called with mu held.
func (ms *MemStorage) indexOf(id int64) int {
	for i, book := range ms.books {
		if book.ID == id {
			return i
		}
	}
	return -1
}
