package favorites

import (
	"fmt"
	"strings"
)

const (
	emptyMessage       = "No movies in favorites list yet."
	emptyDeleteMessage = "No movies in favorites list to delete."
)

func duplicateMessage(title string) string {
	return fmt.Sprintf("Movie '%s' is already in favorites!", title)
}

func addedMessage(title string, total int) string {
	return fmt.Sprintf("Added '%s' to favorites! Total: %d movies", title, total)
}

func notFoundMessage(identifier string) string {
	return fmt.Sprintf("Movie with identifier '%s' not found in favorites.", identifier)
}

func deletedMessage(e Entry, remaining int) string {
	return fmt.Sprintf("Deleted movie '%s' (ID: %s) from favorites! Remaining: %d movies", e.Title, e.IDString(), remaining)
}

func formatAll(entries []Entry) string {
	if len(entries) == 0 {
		return emptyMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FAVORITE MOVIES LIST (%d movies):\n\n", len(entries))
	for _, e := range entries {
		genre := ""
		if e.Genre != "" {
			genre = " | Genre: " + e.Genre
		}
		fmt.Fprintf(&b, "ID: %s - %s%s\n", e.IDString(), e.Title, genre)
		fmt.Fprintf(&b, "   Added: %s\n\n", e.AddedString())
	}
	return b.String()
}

func formatGenre(genre string, matched []Entry) string {
	if len(matched) == 0 {
		return fmt.Sprintf("No '%s' movies found in favorites.", genre)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FAVORITE %s MOVIES (%d movies):\n\n", strings.ToUpper(genre), len(matched))
	for _, e := range matched {
		fmt.Fprintf(&b, "ID: %s - %s\n", e.IDString(), e.Title)
		fmt.Fprintf(&b, "   Added: %s\n\n", e.AddedString())
	}
	return b.String()
}
