package game

// Side tags a turn by who produced it, from the local player's point of view.
type Side string

const (
	SideLocal    Side = "local"
	SideOpponent Side = "opponent"
)

// Turn is one appended chat message. Immutable once appended; Seq is the
// strictly increasing position within the session's log.
type Turn struct {
	Side Side   `json:"side"`
	Text string `json:"text"`
	Seq  int    `json:"seq"`
}
