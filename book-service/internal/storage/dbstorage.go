package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/azaliaz/bookshelf/book-service/internal/domain/consts"
	"github.com/azaliaz/bookshelf/book-service/internal/domain/models"
	"github.com/azaliaz/bookshelf/book-service/internal/logger"
	storerrros "github.com/azaliaz/bookshelf/book-service/internal/storage/errors"
)

const bookColumns = `id, title, author`

type DBStorage struct {
	pool *pgxpool.Pool
}

func NewDB(ctx context.Context, addr string) (*DBStorage, error) {
	config, err := pgxpool.ParseConfig(addr)
	if err != nil {
		return nil, err
	}
	config.MaxConns = 20
	config.MinConns = 2
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, consts.DBCtxTimeout)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &DBStorage{pool: pool}, nil
}

func (dbs *DBStorage) Create(ctx context.Context, nb models.NewBook) (models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(ctx, consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx,
		`INSERT INTO books (title, author) VALUES ($1, $2) RETURNING `+bookColumns,
		nb.Title, nb.Author)
	book, err := scanBook(row)
	if err != nil {
		log.Error().Err(err).Msg("save book failed")
		return models.Book{}, mapError(err)
	}
	return book, nil
}

func (dbs *DBStorage) FindAll(ctx context.Context) ([]models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(ctx, consts.DBCtxTimeout)
	defer cancel()

	rows, err := dbs.pool.Query(ctx, `SELECT `+bookColumns+` FROM books ORDER BY id`)
	if err != nil {
		log.Error().Err(err).Msg("failed get all books from db")
		return nil, err
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			log.Error().Err(err).Msg("failed to scan data from db")
			return nil, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		log.Error().Err(err).Msg("failed to read rows from db")
		return nil, err
	}
	return books, nil
}

func (dbs *DBStorage) FindOne(ctx context.Context, id int64) (models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id)
	book, err := scanBook(row)
	if err != nil {
		return models.Book{}, mapError(err)
	}
	return book, nil
}

func (dbs *DBStorage) Update(ctx context.Context, id int64, patch models.BookPatch) (models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(ctx, consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx,
		`UPDATE books
		    SET title = COALESCE($2::text, title),
		        author = COALESCE($3::text, author)
		  WHERE id = $1
		RETURNING `+bookColumns,
		id, patch.Title, patch.Author)
	book, err := scanBook(row)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Error().Err(err).Int64("id", id).Msg("update book failed")
		}
		return models.Book{}, mapError(err)
	}
	return book, nil
}

func (dbs *DBStorage) Remove(ctx context.Context, id int64) (models.Book, error) {
	log := logger.Get()
	ctx, cancel := context.WithTimeout(ctx, consts.DBCtxTimeout)
	defer cancel()

	row := dbs.pool.QueryRow(ctx, `DELETE FROM books WHERE id = $1 RETURNING `+bookColumns, id)
	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn().Int64("id", id).Msg("book not found")
		} else {
			log.Error().Err(err).Msg("failed to delete book")
		}
		return models.Book{}, mapError(err)
	}
	log.Info().Int64("id", id).Msg("book deleted successfully")
	return book, nil
}

func (dbs *DBStorage) Close() error {
	dbs.pool.Close()
	return nil
}

func scanBook(row pgx.Row) (models.Book, error) {
	var book models.Book
	if err := row.Scan(&book.ID, &book.Title, &book.Author); err != nil {
		return models.Book{}, err
	}
	return book, nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storerrros.ErrBookNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return fmt.Errorf("%w: %s", storerrros.ErrInvalidBook, pgErr.ConstraintName)
		}
	}
	return err
}

func Migrations(dbDsn string, migrationsPath string) error {
	log := logger.Get()
	migratePath := fmt.Sprintf("file://%s", migrationsPath)
	m, err := migrate.New(migratePath, dbDsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("no migrations apply")
			return nil
		}
		return err
	}
	log.Info().Msg("all migrations apply")
	return nil
}
