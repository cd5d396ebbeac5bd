package catalog

import (
	"math"

	"github.com/mrlokans/bookworm/internal/entities"
)

// Defaults substituted for absent fields. Every field has one, so mapping
// never fails on well-typed input.
const (
	UnknownAuthor  = "Unknown Author"
	UnknownISBN    = "Unknown ISBN"
	UnknownTitle   = "Unknown Title"
	DefaultGenre   = "Uncategorized"
	DefaultSummary = "No summary available."
	DefaultComment = "No comment provided."
	NoContact      = "No contact details"
)

// placeholderCovers is the fixed palette used when a book has no image URL.
// The palette index is derived from the ISBN, so the same ISBN always maps to
// the same cover, across runs and across the sample catalog.
var placeholderCovers = []string{
	"https://images.unsplash.com/photo-1543002588-bfa74002ed7e",
	"https://images.unsplash.com/photo-1544947950-fa07a98d237f",
	"https://images.unsplash.com/photo-1541963463532-d68292c34b19",
	"https://images.unsplash.com/photo-1546521343-4eb2c01aa44b",
	"https://images.unsplash.com/photo-1512820790803-83ca734da794",
	"https://images.unsplash.com/photo-1524578271613-d550eacf6090",
}

// PlaceholderCover picks a stable placeholder cover for an ISBN by summing
// its byte values modulo the palette size.
func PlaceholderCover(isbn string) string {
	sum := 0
	for _, b := range []byte(isbn) {
		sum += int(b)
	}
	return placeholderCovers[sum%len(placeholderCovers)]
}

// MapBook flattens one raw book row into a BookRecord. Pure and
// deterministic: no I/O, no randomness, defaults for every absent field.
func MapBook(book entities.Book) BookRecord {
	record := BookRecord{
		ISBN:    book.ISBN,
		Title:   book.Name,
		Author:  joinAuthorNames(book.AuthorBooks),
		Genre:   stringOr(book.Genre, DefaultGenre),
		Summary: stringOr(book.Summary, DefaultSummary),
		Reviews: mapReviews(book.Reviews),
	}

	if book.ImageURL != nil && *book.ImageURL != "" {
		record.ImageURL = *book.ImageURL
	} else {
		record.ImageURL = PlaceholderCover(book.ISBN)
	}

	record.Rating = aggregateRating(book.Reviews, book.Rating)

	for _, ab := range book.AuthorBooks {
		if ab.Author != nil {
			record.AuthorDetails = &AuthorDetails{
				ID:             ab.Author.ID,
				Name:           ab.Author.Name,
				ContactDetails: stringOr(ab.Author.ContactDetails, NoContact),
			}
			break
		}
	}

	return record
}

// MapAuthor flattens one raw author row into an AuthorRecord, reducing book
// associations to weak {isbn, title} references with per-pair defaults.
func MapAuthor(author entities.Author) AuthorRecord {
	books := make([]BookRef, 0, len(author.AuthorBooks))
	for _, ab := range author.AuthorBooks {
		ref := BookRef{ISBN: UnknownISBN, Title: UnknownTitle}
		if ab.Book != nil {
			if ab.Book.ISBN != "" {
				ref.ISBN = ab.Book.ISBN
			}
			if ab.Book.Name != "" {
				ref.Title = ab.Book.Name
			}
		}
		books = append(books, ref)
	}

	return AuthorRecord{
		ID:             author.ID,
		Name:           author.Name,
		ContactDetails: stringOr(author.ContactDetails, NoContact),
		Books:          books,
	}
}

// joinAuthorNames collects names of resolvable authors in association order.
func joinAuthorNames(associations []entities.AuthorBook) string {
	display := ""
	for _, ab := range associations {
		if ab.Author == nil || ab.Author.Name == "" {
			continue
		}
		if display != "" {
			display += ", "
		}
		display += ab.Author.Name
	}
	if display == "" {
		return UnknownAuthor
	}
	return display
}

func mapReviews(reviews []entities.Review) []ReviewRecord {
	mapped := make([]ReviewRecord, 0, len(reviews))
	for _, r := range reviews {
		record := ReviewRecord{
			UserID:  r.UserID,
			Comment: stringOr(r.Comment, DefaultComment),
		}
		if r.Rating != nil {
			record.Rating = *r.Rating
		}
		mapped = append(mapped, record)
	}
	return mapped
}

// aggregateRating averages the rated reviews, rounded to one decimal place.
// With no rated reviews the row's own stored rating applies; an unrated book
// without reviews aggregates to 0.
func aggregateRating(reviews []entities.Review, stored *float64) float64 {
	sum, count := 0, 0
	for _, r := range reviews {
		if r.Rating != nil {
			sum += *r.Rating
			count++
		}
	}
	if count > 0 {
		return math.Round(float64(sum)/float64(count)*10) / 10
	}
	if stored != nil {
		return *stored
	}
	return 0
}

func stringOr(value *string, fallback string) string {
	if value != nil && *value != "" {
		return *value
	}
	return fallback
}
