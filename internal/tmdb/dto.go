package tmdb

// Genre is one entry of a TMDb genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreListResponse struct {
	Genres []Genre `json:"genres"`
}

// Title is a movie or TV show returned by discover and search endpoints.
// Movies carry Title and ReleaseDate; shows carry Name and FirstAirDate.
type Title struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
}

// DisplayName returns the movie title or the show name.
func (t Title) DisplayName() string {
	if t.Title != "" {
		return t.Title
	}
	return t.Name
}

type pagedResponse struct {
	Page         int     `json:"page"`
	Results      []Title `json:"results"`
	TotalResults int     `json:"total_results"`
}

type errorResponse struct {
	StatusMessage string `json:"status_message"`
	StatusCode    int    `json:"status_code"`
}

// Year returns the release or first air year, if known.
func (t Title) Year() string {
	date := t.ReleaseDate
	if date == "" {
		date = t.FirstAirDate
	}
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}
