// Package favorites persists a user's favorite-movie list to a flat CSV file.
//
// The file is the only state. Every mutating call loads the whole file,
// mutates the list in memory and rewrites the file through a temp file and
// rename, so a failed write never truncates committed data. A Store
// serializes its own callers with a mutex; separate processes sharing one
// file are not coordinated and the last writer wins.
package favorites

import (
	"errors"
	"strconv"
	"time"
)

// DefaultPath is the backing file used when no path is configured.
const DefaultPath = "favorite_movies_simple.csv"

// DateLayout is the added_date column format (local time, second precision).
const DateLayout = "2006-01-02 15:04:05"

// Header is the fixed column set of the backing file, in order.
var Header = []string{"id", "title", "genre", "added_date"}

var (
	// ErrStoreIO wraps any failure reading or writing the backing file,
	// other than the file not existing yet.
	ErrStoreIO = errors.New("favorites store I/O failed")

	// ErrEmptyTitle is returned when a favorite is added without a title.
	ErrEmptyTitle = errors.New("movie title is required")
)

// Entry is one saved movie.
type Entry struct {
	// ID is assigned by the store. Zero means the persisted id was missing
	// or not a number.
	ID int

	Title string
	Genre string

	// AddedAt is set once when the entry is created.
	AddedAt time.Time

	// rawID and rawAdded keep unparseable column values so they are written
	// back exactly as read.
	rawID    string
	rawAdded string
}

// IDString renders the id as stored in the file, or N/A when there is none.
func (e Entry) IDString() string {
	if e.ID > 0 {
		return strconv.Itoa(e.ID)
	}
	if e.rawID != "" {
		return e.rawID
	}
	return "N/A"
}

// AddedString renders added_date the way it is stored in the file.
func (e Entry) AddedString() string {
	if e.AddedAt.IsZero() {
		return e.rawAdded
	}
	return e.AddedAt.Format(DateLayout)
}

// nextID returns one more than the highest valid id, or 1 when there is none.
func nextID(entries []Entry) int {
	maxID := 0
	for _, e := range entries {
		if e.ID > maxID {
			maxID = e.ID
		}
	}
	return maxID + 1
}
