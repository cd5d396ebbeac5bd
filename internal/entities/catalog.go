package entities

// The catalog schema mirrors the hosted store: book is keyed by ISBN, authors
// are linked through the author_book join table, and reviews live in
// books_read keyed by (book_isbn, user_id).

type Book struct {
	ISBN     string   `gorm:"primaryKey;size:20;column:isbn" json:"isbn"`
	Name     string   `gorm:"size:512" json:"name"`
	Summary  *string  `gorm:"size:4096" json:"summary,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Genre    *string  `gorm:"size:100" json:"genre,omitempty"`
	ImageURL *string  `gorm:"size:2048;column:image_url" json:"image_url,omitempty"`

	AuthorBooks []AuthorBook `gorm:"foreignKey:BookISBN;references:ISBN" json:"author_book,omitempty"`
	Reviews     []Review     `gorm:"foreignKey:BookISBN;references:ISBN" json:"books_read,omitempty"`
}

func (Book) TableName() string { return "book" }

type Author struct {
	ID             int     `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"index;size:256" json:"name"`
	ContactDetails *string `gorm:"size:512;column:contact_details" json:"contact_details,omitempty"`

	AuthorBooks []AuthorBook `gorm:"foreignKey:AuthorID;references:ID" json:"author_book,omitempty"`
}

func (Author) TableName() string { return "author" }

// AuthorBook is the many-to-many join between authors and books. Rows may
// reference an author or book that cannot be resolved; the mapper substitutes
// defaults rather than failing.
type AuthorBook struct {
	AuthorID int    `gorm:"primaryKey;column:author_id" json:"author_id"`
	BookISBN string `gorm:"primaryKey;size:20;column:book_isbn" json:"book_isbn"`

	Author *Author `gorm:"foreignKey:AuthorID;references:ID" json:"author,omitempty"`
	Book   *Book   `gorm:"foreignKey:BookISBN;references:ISBN" json:"book,omitempty"`
}

func (AuthorBook) TableName() string { return "author_book" }

// Review is a row of books_read. Rating and comment are nullable; a review
// without a rating is excluded from aggregate computation.
type Review struct {
	BookISBN string  `gorm:"primaryKey;size:20;column:book_isbn" json:"book_isbn"`
	UserID   string  `gorm:"primaryKey;size:64;column:user_id" json:"user_id"`
	Rating   *int    `json:"rating,omitempty"`
	Comment  *string `gorm:"size:2048" json:"comment,omitempty"`
}

func (Review) TableName() string { return "books_read" }
