package prompt

// RecommendTemplate asks for a recommendation shaped by format, subject,
// genre and free-form extra requirements.
func RecommendTemplate() *Template {
	return &Template{
		Name:        "Recommend_Movies",
		Description: "Recommend a title given format, subject, genre and custom information",
		Text: `system:

You have vast knowledge of everything and can recommend anything provided you are given the following criteria, the subject, genre, format and any other custom information.

user:
Please recommend a {{$format}} with the subject {{$subject}} and {{$genre}}.
Include the following custom information: {{$custom}}`,
		InputVariables: []InputVariable{
			{Name: "format", Description: "The format to recommend", Required: true},
			{Name: "subject", Description: "The subject to recommend", Required: true},
			{Name: "genre", Description: "The genre to recommend", Required: true},
			{Name: "custom", Description: "Any custom information to enhance the recommendation", Required: true},
		},
		Execution: ExecutionSettings{MaxTokens: 2000, Temperature: 0.7},
	}
}

// SeenMoviesTemplate recommends new titles from a comma-separated list of
// movies the user has already watched.
func SeenMoviesTemplate() *Template {
	return &Template{
		Name:        "Recommend_Movies",
		Description: "Recommend movies the user has not seen yet",
		Text: `You are a movie recommender. The user has already seen these movies:
{{$input}}

Recommend five movies they have not seen that match their taste. For each, give the title, release year and one sentence on why it fits.`,
		InputVariables: []InputVariable{
			{Name: "input", Description: "Comma-separated list of movies already seen", Required: true},
		},
		Execution: ExecutionSettings{MaxTokens: 2000, Temperature: 0.7},
	}
}

// ChatTemplate drives the favorites assistant.
func ChatTemplate() *Template {
	return &Template{
		Name:        "Chat",
		Description: "Movie recommendation and favorites management assistant with TMDB integration and CSV storage",
		Text: `You are a comprehensive movie recommendation and favorites management assistant. You can:

**Movie Discovery Features:**
1. Find top movies by genre using TMDB database
2. Get movie genre information
3. Search for specific movies and get details
4. Provide movie recommendations

**Favorites Management Features:**
1. Add movies to personal favorites list (saved to CSV file)
2. View all favorite movies
3. Get favorites filtered by specific genre
4. Remove movies from favorites by ID or title

**Interaction Guidelines:**
- When users ask for movie recommendations, use TMDB to find top movies
- Always offer to add recommended movies to their favorites
- Help users manage their personal movie collection
- Provide detailed movie information when available

Conversation so far:
{{$history}}

{{$user_input}}`,
		InputVariables: []InputVariable{
			{Name: "user_input", Description: "The user input", Required: true},
			{Name: "history", Description: "The history of the conversation"},
		},
		Execution: ExecutionSettings{MaxTokens: 2000, Temperature: 0.7, TopP: 0.8},
	}
}
