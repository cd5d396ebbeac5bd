package catalog

import "strings"

// FilterState is the transient search/genre narrowing owned by the browse
// view and passed in by value.
type FilterState struct {
	SearchTerm string `form:"search" json:"search"`
	Genre      string `form:"genre" json:"genre"`
}

// Filter returns the records matching the state: a case-insensitive substring
// match of the search term against title or author display, and an exact
// case-insensitive genre match. Empty criteria match everything. The input is
// never mutated and relative order is preserved.
func Filter(records []BookRecord, state FilterState) []BookRecord {
	search := strings.ToLower(state.SearchTerm)
	genre := strings.ToLower(state.Genre)

	filtered := make([]BookRecord, 0, len(records))
	for _, record := range records {
		matchesSearch := search == "" ||
			strings.Contains(strings.ToLower(record.Title), search) ||
			strings.Contains(strings.ToLower(record.Author), search)

		matchesGenre := genre == "" || strings.ToLower(record.Genre) == genre

		if matchesSearch && matchesGenre {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// DistinctGenres lists the genres present in the records in first-seen order,
// skipping empty values. Used to populate the genre filter dropdown.
func DistinctGenres(records []BookRecord) []string {
	seen := make(map[string]bool, len(records))
	genres := make([]string, 0)
	for _, record := range records {
		if record.Genre == "" || seen[record.Genre] {
			continue
		}
		seen[record.Genre] = true
		genres = append(genres, record.Genre)
	}
	return genres
}
