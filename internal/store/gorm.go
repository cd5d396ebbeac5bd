package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookworm/internal/entities"
)

// GormStore implements Store on a gorm database. Query methods preload the
// same nested projection the front end requests: books with author
// associations and reviews, authors with book associations.
type GormStore struct {
	db  *gorm.DB
	log *zap.Logger
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB, log *zap.Logger) *GormStore {
	return &GormStore{db: db, log: log}
}

func (s *GormStore) ProbeBooks(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("probe book table: %w", err)
	}
	return count, nil
}

func (s *GormStore) QueryBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := s.db.WithContext(ctx).
		Preload("AuthorBooks.Author").
		Preload("Reviews").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	return books, nil
}

func (s *GormStore) ProbeAuthors(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&entities.Author{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("probe author table: %w", err)
	}
	return count, nil
}

func (s *GormStore) QueryAuthors(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := s.db.WithContext(ctx).
		Preload("AuthorBooks.Book").
		Find(&authors).Error
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	return authors, nil
}

func (s *GormStore) ReviewerIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&entities.Review{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list reviewer ids: %w", err)
	}
	return ids, nil
}

func (s *GormStore) BookExists(ctx context.Context, isbn string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entities.Book{}).
		Where("isbn = ?", isbn).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check book %s: %w", isbn, err)
	}
	return count > 0, nil
}

// InsertBookStub creates a minimal book row so a review's foreign key can be
// satisfied when the target book has not been catalogued yet.
func (s *GormStore) InsertBookStub(ctx context.Context, isbn, name string) error {
	book := entities.Book{ISBN: isbn, Name: name}
	if err := s.db.WithContext(ctx).Create(&book).Error; err != nil {
		return fmt.Errorf("insert book stub %s: %w", isbn, err)
	}
	s.log.Info("created placeholder book row", zap.String("isbn", isbn))
	return nil
}

// UpsertReview inserts or replaces the review keyed by (book_isbn, user_id),
// so a user re-rating a book overwrites their previous review.
func (s *GormStore) UpsertReview(ctx context.Context, review entities.Review) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "book_isbn"}, {Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(&review).Error
	if err != nil {
		return fmt.Errorf("upsert review for %s: %w", review.BookISBN, err)
	}
	return nil
}
