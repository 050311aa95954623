package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/priyansh/aletheia/internal/types"
)

// SaveBook inserts a book on the given shelf and returns its ID. Duplicate
// titles on the same shelf update the existing record instead.
func (db *DB) SaveBook(ctx context.Context, shelf string, book types.Book) (uuid.UUID, error) {
	book.Normalize()

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO books (shelf, title, author, genres, themes, year, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (shelf, title) DO UPDATE SET
		     author = $3, genres = $4, themes = $5, year = $6, description = $7
		 RETURNING id`,
		shelf, book.Title, book.Author, book.Genres, book.Themes,
		nullIfZero(book.Year), nullIfEmpty(book.Description),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save book %q: %w", book.Title, err)
	}
	return id, nil
}

// SaveBooks inserts a batch of books on the given shelf
func (db *DB) SaveBooks(ctx context.Context, shelf string, books []types.Book) error {
	for _, book := range books {
		if _, err := db.SaveBook(ctx, shelf, book); err != nil {
			return err
		}
	}
	return nil
}

// ListBooks retrieves all books on a shelf, oldest first
func (db *DB) ListBooks(ctx context.Context, shelf string) ([]types.Book, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, author, genres, themes, year, description
		 FROM books WHERE shelf = $1 ORDER BY created_at ASC`,
		shelf,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []types.Book
	for rows.Next() {
		var book types.Book
		var year *int
		var description *string
		if err := rows.Scan(&book.Title, &book.Author, &book.Genres, &book.Themes, &year, &description); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		if year != nil {
			book.Year = *year
		}
		if description != nil {
			book.Description = *description
		}
		book.Normalize()
		books = append(books, book)
	}
	return books, nil
}

// GetBook retrieves a single book by shelf and title. Returns nil without
// error when no book matches.
func (db *DB) GetBook(ctx context.Context, shelf, title string) (*StoredBook, error) {
	var stored StoredBook
	var year *int
	var description *string

	err := db.pool.QueryRow(ctx,
		`SELECT id, shelf, title, author, genres, themes, year, description, created_at
		 FROM books WHERE shelf = $1 AND title = $2`,
		shelf, title,
	).Scan(&stored.ID, &stored.Shelf, &stored.Book.Title, &stored.Book.Author,
		&stored.Book.Genres, &stored.Book.Themes, &year, &description, &stored.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if year != nil {
		stored.Book.Year = *year
	}
	if description != nil {
		stored.Book.Description = *description
	}
	stored.Book.Normalize()
	return &stored, nil
}

// MoveBook moves a book from one shelf to another, typically from unread to
// read once it is finished
func (db *DB) MoveBook(ctx context.Context, title, fromShelf, toShelf string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE books SET shelf = $1 WHERE shelf = $2 AND title = $3`,
		toShelf, fromShelf, title,
	)
	if err != nil {
		return fmt.Errorf("failed to move book %q: %w", title, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("book not found on shelf %s: %s", fromShelf, title)
	}
	return nil
}

// DeleteBook removes a book from a shelf
func (db *DB) DeleteBook(ctx context.Context, shelf, title string) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM books WHERE shelf = $1 AND title = $2`,
		shelf, title,
	)
	if err != nil {
		return fmt.Errorf("failed to delete book %q: %w", title, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("book not found on shelf %s: %s", shelf, title)
	}
	return nil
}

func nullIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
