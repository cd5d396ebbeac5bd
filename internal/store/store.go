// Package store abstracts the hosted relational store behind an injectable
// interface so the fetch path can be exercised against fakes.
package store

import (
	"context"

	"github.com/mrlokans/bookworm/internal/entities"
)

// Reader covers the read side of the store: a cheap existence probe followed
// by the full joined projection. Probe and query are separate calls on
// purpose; a probe failure short-circuits the detail query.
type Reader interface {
	ProbeBooks(ctx context.Context) (int64, error)
	QueryBooks(ctx context.Context) ([]entities.Book, error)
	ProbeAuthors(ctx context.Context) (int64, error)
	QueryAuthors(ctx context.Context) ([]entities.Author, error)

	// ReviewerIDs lists distinct user ids seen in books_read. Used only as a
	// best-effort pool for synthetic review generation.
	ReviewerIDs(ctx context.Context) ([]string, error)
}

// Writer covers the review write path.
type Writer interface {
	BookExists(ctx context.Context, isbn string) (bool, error)
	InsertBookStub(ctx context.Context, isbn, name string) error
	UpsertReview(ctx context.Context, review entities.Review) error
}

// Store combines both sides; the gorm implementation satisfies it.
type Store interface {
	Reader
	Writer
}
