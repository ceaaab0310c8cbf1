package persona

// Persona describes a simulated chat partner profile. The catalog is static
// and read-only at runtime; sessions select a persona but never mutate one.
type Persona struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Style  string   `json:"style"`
	Topics []string `json:"topics"`
}

// Seed provides the default persona catalog.
func Seed() []Persona {
	return []Persona{
		{
			ID:     "friendly",
			Name:   "Friendly AI",
			Style:  "Friendly and helpful, uses lots of emojis",
			Topics: []string{"technology", "hobbies", "weather", "movies", "games"},
		},
		{
			ID:     "professional",
			Name:   "Professional AI",
			Style:  "Formal and professional, uses technical language",
			Topics: []string{"business", "science", "news", "education", "career"},
		},
		{
			ID:     "creative",
			Name:   "Creative AI",
			Style:  "Creative and artistic, uses metaphors and descriptive language",
			Topics: []string{"art", "music", "literature", "creative writing", "imagination"},
		},
		{
			ID:     "casual",
			Name:   "Casual AI",
			Style:  "Casual and conversational, uses slang and abbreviations",
			Topics: []string{"daily life", "social media", "entertainment", "food", "trends"},
		},
	}
}
