package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filterFixture() []BookRecord {
	return []BookRecord{
		{ISBN: "1", Title: "1984", Author: "George Orwell", Genre: "Fiction"},
		{ISBN: "2", Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Classic"},
		{ISBN: "3", Title: "Animal Farm", Author: "George Orwell", Genre: "Fiction"},
		{ISBN: "4", Title: "The Da Vinci Code", Author: "Dan Brown", Genre: "Thriller"},
	}
}

func TestFilterEmptyStateReturnsAllInOrder(t *testing.T) {
	records := filterFixture()
	assert.Equal(t, records, Filter(records, FilterState{}))
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	matches := Filter(filterFixture(), FilterState{SearchTerm: "ORWELL"})
	require.Len(t, matches, 2)
	assert.Equal(t, "1984", matches[0].Title)
	assert.Equal(t, "Animal Farm", matches[1].Title)
}

func TestFilterSearchMatchesTitleSubstring(t *testing.T) {
	matches := Filter(filterFixture(), FilterState{SearchTerm: "da vinci"})
	require.Len(t, matches, 1)
	assert.Equal(t, "4", matches[0].ISBN)
}

func TestFilterGenreExactCaseInsensitive(t *testing.T) {
	matches := Filter(filterFixture(), FilterState{Genre: "fiction"})
	require.Len(t, matches, 2)

	// Substring genres do not match.
	assert.Empty(t, Filter(filterFixture(), FilterState{Genre: "fic"}))
}

func TestFilterCombinesSearchAndGenre(t *testing.T) {
	matches := Filter(filterFixture(), FilterState{SearchTerm: "orwell", Genre: "Classic"})
	assert.Empty(t, matches)

	matches = Filter(filterFixture(), FilterState{SearchTerm: "animal", Genre: "Fiction"})
	require.Len(t, matches, 1)
	assert.Equal(t, "Animal Farm", matches[0].Title)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := filterFixture()
	Filter(records, FilterState{SearchTerm: "orwell"})
	assert.Equal(t, filterFixture(), records)
}

func TestDistinctGenresFirstSeenOrder(t *testing.T) {
	records := filterFixture()
	records = append(records, BookRecord{ISBN: "5", Title: "Untagged"})

	assert.Equal(t, []string{"Fiction", "Classic", "Thriller"}, DistinctGenres(records))
}
