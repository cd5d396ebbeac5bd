// Package catalog holds the data-fetching core of the service: mapping raw
// store rows into flat view records, a curated fallback data set, the
// fail-open fetch orchestration, the retry/refresh policy, and the filter
// predicates the browse views narrow with.
package catalog

// BookRecord is the flat, display-ready projection of one book row with its
// joined authors and reviews.
type BookRecord struct {
	ISBN          string         `json:"isbn"`
	Title         string         `json:"title"`
	Author        string         `json:"author"`
	Rating        float64        `json:"rating"`
	Genre         string         `json:"genre"`
	ImageURL      string         `json:"imageUrl"`
	Summary       string         `json:"summary"`
	AuthorDetails *AuthorDetails `json:"authorDetails,omitempty"`
	Reviews       []ReviewRecord `json:"reviews"`
}

// AuthorDetails is the read-only projection of the first resolved author on a
// book card's flip side.
type AuthorDetails struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	ContactDetails string `json:"contact_details"`
}

type ReviewRecord struct {
	Rating  int    `json:"rating"`
	UserID  string `json:"user_id"`
	Comment string `json:"comment"`
}

// AuthorRecord is the flat projection of one author row with its book
// associations reduced to weak {isbn, title} references.
type AuthorRecord struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	ContactDetails string    `json:"contactDetails"`
	Books          []BookRef `json:"books"`
}

type BookRef struct {
	ISBN  string `json:"isbn"`
	Title string `json:"title"`
}

// Source reports where a fetch result came from. Fallback results are shown
// in a degraded mode so an outage is never silently masked as live data.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)
