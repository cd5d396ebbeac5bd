package catalog

import (
	"math"
	"math/rand"
)

// Curated substitute data shown whenever the live store is unreachable or
// empty. The records are hand-picked so the catalog still looks plausible in
// degraded mode.

var sampleBooks = []BookRecord{
	{
		ISBN:     "9780141439518",
		Title:    "Pride and Prejudice",
		Author:   "Jane Austen",
		Rating:   4.7,
		Genre:    "Classic",
		ImageURL: "https://images.unsplash.com/photo-1544947950-fa07a98d237f?q=80&w=1000",
		Summary:  "Pride and Prejudice follows the turbulent relationship between Elizabeth Bennet, the daughter of a country gentleman, and Fitzwilliam Darcy, a rich aristocratic landowner.",
		Reviews: []ReviewRecord{
			{Rating: 5, UserID: "demo-1", Comment: "A timeless classic that never fails to charm."},
		},
	},
	{
		ISBN:     "9780061120084",
		Title:    "To Kill a Mockingbird",
		Author:   "Harper Lee",
		Rating:   4.8,
		Genre:    "Fiction",
		ImageURL: "https://images.unsplash.com/photo-1541963463532-d68292c34b19?q=80&w=1000",
		Summary:  "To Kill a Mockingbird is a novel by Harper Lee published in 1960. It was immediately successful, winning the Pulitzer Prize, and has become a classic of modern American literature.",
		Reviews: []ReviewRecord{
			{Rating: 5, UserID: "demo-2", Comment: "Profound and moving exploration of racial injustice."},
		},
	},
	{
		ISBN:     "9780451524935",
		Title:    "1984",
		Author:   "George Orwell",
		Rating:   4.7,
		Genre:    "Fiction",
		ImageURL: "https://images.unsplash.com/photo-1543002588-bfa74002ed7e",
		Summary:  "1984 is a dystopian novel set in a totalitarian society ruled by the Party, which employs the Thought Police to persecute individuality and independent thinking.",
		Reviews: []ReviewRecord{
			{Rating: 5, UserID: "demo-3", Comment: "Chillingly prescient."},
		},
	},
	{
		ISBN:     "9780307474278",
		Title:    "The Da Vinci Code",
		Author:   "Dan Brown",
		Rating:   4.5,
		Genre:    "Thriller",
		ImageURL: "https://images.unsplash.com/photo-1546521343-4eb2c01aa44b",
		Summary:  "While in Paris, Harvard symbologist Robert Langdon is awakened by a phone call in the dead of the night and finds himself pulled into a battle between secret societies.",
		Reviews: []ReviewRecord{
			{Rating: 4, UserID: "demo-4", Comment: "A page turner from start to finish."},
		},
	},
}

var sampleAuthors = []AuthorRecord{
	{
		ID:             1,
		Name:           "Jane Austen",
		ContactDetails: "jane.austen@example.com",
		Books: []BookRef{
			{ISBN: "9780141439518", Title: "Pride and Prejudice"},
			{ISBN: "9780141439662", Title: "Emma"},
		},
	},
	{
		ID:             2,
		Name:           "Harper Lee",
		ContactDetails: "harper.lee@example.com",
		Books: []BookRef{
			{ISBN: "9780061120084", Title: "To Kill a Mockingbird"},
		},
	},
	{
		ID:             3,
		Name:           "George Orwell",
		ContactDetails: "george.orwell@example.com",
		Books: []BookRef{
			{ISBN: "9780451524935", Title: "1984"},
			{ISBN: "9780452284241", Title: "Animal Farm"},
		},
	},
}

var syntheticComments = []string{
	"Couldn't put it down.",
	"A wonderful read, highly recommended.",
	"One of my favourites this year.",
	"Beautifully written.",
	"Worth every page.",
}

// SampleBooks returns a fresh copy of the curated book set. Callers own the
// returned slices; the curated data itself never mutates.
func SampleBooks() []BookRecord {
	books := make([]BookRecord, len(sampleBooks))
	for i, b := range sampleBooks {
		books[i] = b
		books[i].Reviews = append([]ReviewRecord(nil), b.Reviews...)
	}
	return books
}

// SampleAuthors returns a fresh copy of the curated author set.
func SampleAuthors() []AuthorRecord {
	authors := make([]AuthorRecord, len(sampleAuthors))
	for i, a := range sampleAuthors {
		authors[i] = a
		authors[i].Books = append([]BookRef(nil), a.Books...)
	}
	return authors
}

// SampleBooksWithSyntheticReviews attaches 1-3 generated reviews per book,
// drawing user ids from the given pool, and recomputes each aggregate as the
// mean of the generated ratings. With an empty pool it degrades to the plain
// sample set. The random source is injected so tests can pin it down.
func SampleBooksWithSyntheticReviews(userIDs []string, rng *rand.Rand) []BookRecord {
	books := SampleBooks()
	if len(userIDs) == 0 {
		return books
	}

	for i := range books {
		count := 1 + rng.Intn(3)
		reviews := make([]ReviewRecord, 0, count)
		sum := 0
		for j := 0; j < count; j++ {
			rating := 3 + rng.Intn(3)
			sum += rating
			reviews = append(reviews, ReviewRecord{
				Rating:  rating,
				UserID:  userIDs[rng.Intn(len(userIDs))],
				Comment: syntheticComments[rng.Intn(len(syntheticComments))],
			})
		}
		books[i].Reviews = reviews
		books[i].Rating = math.Round(float64(sum)/float64(count)*10) / 10
	}
	return books
}
