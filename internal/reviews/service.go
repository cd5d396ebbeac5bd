// Package reviews implements the review and rating write path. Unlike the
// read path it is fail-closed: errors propagate to the user as actionable
// messages and nothing is substituted or retried behind their back.
package reviews

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/bookworm/internal/entities"
	"github.com/mrlokans/bookworm/internal/store"
)

var (
	ErrSignInRequired   = errors.New("please sign in to leave a review")
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrMissingISBN      = errors.New("book isbn is required")
	ErrBookCreateFailed = errors.New("unable to create book record")
	ErrReviewSaveFailed = errors.New("unable to save review")
)

type Service struct {
	store store.Writer
	log   *zap.Logger
}

func NewService(s store.Writer, log *zap.Logger) *Service {
	return &Service{store: s, log: log}
}

// SubmitReview stores a star rating with a comment for a book, keyed by
// (book_isbn, user_id) so resubmitting replaces the user's earlier review.
// If the book row does not exist yet, a placeholder row is created first so
// the review's foreign key can be satisfied; failure there aborts before the
// review write and is reported separately from a failed review write.
func (s *Service) SubmitReview(ctx context.Context, userID, isbn string, rating int, comment string) error {
	if err := s.validate(userID, isbn, rating); err != nil {
		return err
	}

	if err := s.ensureBook(ctx, isbn); err != nil {
		return err
	}

	review := entities.Review{
		BookISBN: isbn,
		UserID:   userID,
		Rating:   &rating,
	}
	if comment != "" {
		review.Comment = &comment
	}

	if err := s.store.UpsertReview(ctx, review); err != nil {
		s.log.Warn("review upsert failed",
			zap.String("isbn", isbn),
			zap.String("user_id", userID),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrReviewSaveFailed, err)
	}

	s.log.Info("review submitted", zap.String("isbn", isbn), zap.Int("rating", rating))
	return nil
}

// SubmitRating stores a bare star rating with no comment.
func (s *Service) SubmitRating(ctx context.Context, userID, isbn string, rating int) error {
	return s.SubmitReview(ctx, userID, isbn, rating, "")
}

func (s *Service) validate(userID, isbn string, rating int) error {
	if userID == "" {
		return ErrSignInRequired
	}
	if isbn == "" {
		return ErrMissingISBN
	}
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

func (s *Service) ensureBook(ctx context.Context, isbn string) error {
	exists, err := s.store.BookExists(ctx, isbn)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBookCreateFailed, err)
	}
	if exists {
		return nil
	}
	if err := s.store.InsertBookStub(ctx, isbn, "Unknown Title"); err != nil {
		return fmt.Errorf("%w: %v", ErrBookCreateFailed, err)
	}
	return nil
}
