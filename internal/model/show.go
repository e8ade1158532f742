package model

// Genre is the category a show is listed under.  The backend accepts
// a fixed set of values.
type Genre string

const (
	GenreComedy  Genre = "Comedy"
	GenreDrama   Genre = "Drama"
	GenreMusical Genre = "Musical"
	GenreTragedy Genre = "Tragedy"
	GenreOpera   Genre = "Opera"
)

// Genres lists every genre in the order the browse screen offers them.
var Genres = []Genre{GenreComedy, GenreDrama, GenreMusical, GenreTragedy, GenreOpera}

// Valid reports whether g is one of Genres.
func (g Genre) Valid() bool {
	for _, known := range Genres {
		if g == known {
			return true
		}
	}
	return false
}

// Show represents a scheduled performance as returned by the backend.
// The client never mutates a Show once fetched.
//
// Fields:
//  ID          – backend identifier.
//  Title       – display title.
//  Description – free text.
//  Date        – start date-time.
//  Duration    – running time in minutes.
//  Genre       – one of Genres.
//  Price       – per-seat price.
//  ImageURL    – optional poster reference.
type Show struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Date        DateTime `json:"date"`
	Duration    int      `json:"duration"`
	Genre       Genre    `json:"genre"`
	Price       Money    `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}
