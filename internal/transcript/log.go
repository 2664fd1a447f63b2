package transcript

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

// Log is the append-only message history of one debate session. Storage is
// most-recent-first, matching how the transcript is displayed; consumers
// needing creation order use Chronological.
type Log struct {
	mu       sync.RWMutex
	messages []debate.Message // newest first
}

// NewLog returns an empty transcript.
func NewLog() *Log {
	return &Log{messages: make([]debate.Message, 0, 16)}
}

// Append records a new message and returns it with its assigned id.
func (l *Log) Append(authorID, text string) debate.Message {
	msg := debate.Message{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Text:     text,
	}

	l.mu.Lock()
	l.messages = append([]debate.Message{msg}, l.messages...)
	l.mu.Unlock()

	return msg
}

// Messages returns a most-recent-first copy of the transcript.
func (l *Log) Messages() []debate.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]debate.Message, len(l.messages))
	copy(copied, l.messages)
	return copied
}

// Chronological returns the transcript in creation order, oldest first.
func (l *Log) Chronological() []debate.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ordered := make([]debate.Message, len(l.messages))
	for i, msg := range l.messages {
		ordered[len(l.messages)-1-i] = msg
	}
	return ordered
}

// Len reports the number of recorded messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Export renders the transcript as a plain-text document: the topic header
// followed by chronological "<name>:\n<text>\n" blocks. Authors that no
// longer resolve against the roster are rendered as "Unknown".
func (l *Log) Export(topic string, roster []debate.Participant) string {
	names := make(map[string]string, len(roster))
	for _, p := range roster {
		names[p.ID] = p.Name
	}

	blocks := make([]string, 0, l.Len())
	for _, msg := range l.Chronological() {
		name, ok := names[msg.AuthorID]
		if !ok {
			name = "Unknown"
		}
		blocks = append(blocks, name+":\n"+msg.Text+"\n")
	}

	var b strings.Builder
	b.WriteString("Debate Topic: ")
	b.WriteString(topic)
	b.WriteString("\n\n====================\n\n")
	b.WriteString(strings.Join(blocks, "\n---\n\n"))
	return b.String()
}
