package ai

import "math/rand/v2"

// fallbackReplies keeps a session moving when the model call fails. Generic
// enough to pass as a reply to almost anything.
var fallbackReplies = []string{
	"lol yeah",
	"idk maybe?",
	"that's cool tbh",
	"haha fr",
	"omg same",
	"ya i get that",
	"nah not rly",
	"wait srsly??",
	"lmaooo",
	"yea no i agree",
	"hmm idk bout that",
	"kinda tired tbh",
	"whatchu up to",
	"ya but like why tho",
	"ngl thats weird",
	"meh whatever",
}

// FallbackReply picks a canned informal reply uniformly at random.
func FallbackReply() string {
	return fallbackReplies[rand.IntN(len(fallbackReplies))]
}

// IsFallbackReply reports whether text belongs to the canned catalog.
func IsFallbackReply(text string) bool {
	for _, phrase := range fallbackReplies {
		if phrase == text {
			return true
		}
	}
	return false
}
