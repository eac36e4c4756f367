package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Session is one recording window: the utterances accepted between a start
// trigger and the next stop trigger, in capture order.
type Session struct {
	ID        string
	StartedAt time.Time
	buffer    []string
}

func newSession() *Session {
	return &Session{ID: uuid.NewString(), StartedAt: time.Now()}
}

func (s *Session) Append(text string) {
	s.buffer = append(s.buffer, text)
}

func (s *Session) Len() int { return len(s.buffer) }

// Utterances returns a copy of the buffered utterances.
func (s *Session) Utterances() []string {
	out := make([]string, len(s.buffer))
	copy(out, s.buffer)
	return out
}

// Transcript joins the buffered utterances with single spaces.
func (s *Session) Transcript() string {
	return strings.Join(s.buffer, " ")
}
