package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookworm/internal/entities"
)

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestMapBookNoAuthors(t *testing.T) {
	record := MapBook(entities.Book{ISBN: "123", Name: "Orphan"})
	assert.Equal(t, UnknownAuthor, record.Author)
}

func TestMapBookJoinsAuthorNamesInOrder(t *testing.T) {
	book := entities.Book{
		ISBN: "123",
		Name: "Good Omens",
		AuthorBooks: []entities.AuthorBook{
			{Author: &entities.Author{ID: 1, Name: "Terry Pratchett"}},
			{Author: nil}, // unresolved association is skipped, not an error
			{Author: &entities.Author{ID: 2, Name: "Neil Gaiman"}},
		},
	}

	record := MapBook(book)
	assert.Equal(t, "Terry Pratchett, Neil Gaiman", record.Author)
	require.NotNil(t, record.AuthorDetails)
	assert.Equal(t, "Terry Pratchett", record.AuthorDetails.Name)
	assert.Equal(t, NoContact, record.AuthorDetails.ContactDetails)
}

func TestMapBookRatingAggregateIgnoresStoredRating(t *testing.T) {
	book := entities.Book{
		ISBN:   "123",
		Name:   "Rated",
		Rating: floatPtr(1.0), // must lose to the review mean
		Reviews: []entities.Review{
			{UserID: "u1", Rating: intPtr(4)},
			{UserID: "u2", Rating: nil}, // unrated review excluded
			{UserID: "u3", Rating: intPtr(5)},
		},
	}

	record := MapBook(book)
	assert.Equal(t, 4.5, record.Rating)
}

func TestMapBookRatingFallsBackToStoredThenZero(t *testing.T) {
	stored := MapBook(entities.Book{ISBN: "a", Name: "A", Rating: floatPtr(3.7)})
	assert.Equal(t, 3.7, stored.Rating)

	unrated := MapBook(entities.Book{ISBN: "b", Name: "B"})
	assert.Equal(t, 0.0, unrated.Rating)
}

func TestMapBookRoundsToOneDecimal(t *testing.T) {
	book := entities.Book{
		ISBN: "123",
		Name: "Thirds",
		Reviews: []entities.Review{
			{UserID: "u1", Rating: intPtr(5)},
			{UserID: "u2", Rating: intPtr(4)},
			{UserID: "u3", Rating: intPtr(4)},
		},
	}
	// 13/3 = 4.333... rounds to 4.3
	assert.Equal(t, 4.3, MapBook(book).Rating)
}

func TestMapBookDefaults(t *testing.T) {
	record := MapBook(entities.Book{ISBN: "123", Name: "Bare"})
	assert.Equal(t, DefaultGenre, record.Genre)
	assert.Equal(t, DefaultSummary, record.Summary)
	assert.NotEmpty(t, record.ImageURL)
	assert.NotNil(t, record.Reviews)
	assert.Empty(t, record.Reviews)
}

func TestMapBookReviewCommentDefault(t *testing.T) {
	book := entities.Book{
		ISBN: "123",
		Name: "Quiet",
		Reviews: []entities.Review{
			{UserID: "u1", Rating: intPtr(4)},
			{UserID: "u2", Rating: intPtr(5), Comment: strPtr("Loved it.")},
		},
	}

	record := MapBook(book)
	require.Len(t, record.Reviews, 2)
	assert.Equal(t, DefaultComment, record.Reviews[0].Comment)
	assert.Equal(t, "Loved it.", record.Reviews[1].Comment)
}

func TestPlaceholderCoverIsStable(t *testing.T) {
	first := PlaceholderCover("9780451524935")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PlaceholderCover("9780451524935"))
	}

	// Used both for mapping and the sample catalog, so it must match what the
	// mapper picks for the same ISBN.
	record := MapBook(entities.Book{ISBN: "9780451524935", Name: "1984"})
	assert.Equal(t, first, record.ImageURL)
}

func TestMapBookExplicitImageURLWins(t *testing.T) {
	book := entities.Book{ISBN: "123", Name: "Pictured", ImageURL: strPtr("https://example.com/cover.jpg")}
	assert.Equal(t, "https://example.com/cover.jpg", MapBook(book).ImageURL)
}

// Mirrors the raw row {isbn:"X", name:"Y", rating:null, author_book:[],
// books_read:[{rating:4,user_id:"u1"},{rating:2,user_id:"u2"}]}.
func TestMapBookEndToEndRow(t *testing.T) {
	book := entities.Book{
		ISBN: "X",
		Name: "Y",
		Reviews: []entities.Review{
			{UserID: "u1", Rating: intPtr(4)},
			{UserID: "u2", Rating: intPtr(2)},
		},
	}

	record := MapBook(book)
	assert.Equal(t, "Y", record.Title)
	assert.Equal(t, UnknownAuthor, record.Author)
	assert.Equal(t, 3.0, record.Rating)
	require.Len(t, record.Reviews, 2)
	assert.Equal(t, 4, record.Reviews[0].Rating)
	assert.Equal(t, 2, record.Reviews[1].Rating)
}

func TestMapAuthorFlattensBookRefs(t *testing.T) {
	author := entities.Author{
		ID:             1,
		Name:           "Jane Austen",
		ContactDetails: strPtr("jane.austen@example.com"),
		AuthorBooks: []entities.AuthorBook{
			{Book: &entities.Book{ISBN: "9780141439518", Name: "Pride and Prejudice"}},
			{Book: nil},
			{Book: &entities.Book{ISBN: "9780141439662"}},
		},
	}

	record := MapAuthor(author)
	assert.Equal(t, "jane.austen@example.com", record.ContactDetails)
	require.Len(t, record.Books, 3)
	assert.Equal(t, BookRef{ISBN: "9780141439518", Title: "Pride and Prejudice"}, record.Books[0])
	assert.Equal(t, BookRef{ISBN: UnknownISBN, Title: UnknownTitle}, record.Books[1])
	assert.Equal(t, BookRef{ISBN: "9780141439662", Title: UnknownTitle}, record.Books[2])
}

func TestMapAuthorDefaults(t *testing.T) {
	record := MapAuthor(entities.Author{ID: 2, Name: "Recluse"})
	assert.Equal(t, NoContact, record.ContactDetails)
	assert.NotNil(t, record.Books)
	assert.Empty(t, record.Books)
}
