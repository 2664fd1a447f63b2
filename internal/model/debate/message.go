package debate

// Message is one transcript entry. Text is immutable once created; ordering
// is owned by the transcript log.
type Message struct {
	ID       string `json:"id"`
	AuthorID string `json:"authorId"`
	Text     string `json:"text"`
}
