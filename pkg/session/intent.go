package session

import "strings"

// Intent is the closed set of meanings an utterance can carry.
type Intent int

const (
	IntentPlain Intent = iota
	IntentStart
	IntentStop
)

func (i Intent) String() string {
	switch i {
	case IntentStart:
		return "START"
	case IntentStop:
		return "STOP"
	default:
		return "PLAIN"
	}
}

// Default trigger phrases, matched as substrings of the lowercased utterance.
const (
	DefaultStartTrigger = "start my friend"
	DefaultStopTrigger  = "finish my friend"
)

// Classifier maps raw recognized text to an intent. Detection is substring
// containment on the lowercased text, independent of the state machine.
//
// The start check runs first and wins: an utterance carrying both phrases is
// a start and the stop never fires within it.
type Classifier struct {
	start string
	stop  string
}

func NewClassifier(start, stop string) Classifier {
	if strings.TrimSpace(start) == "" {
		start = DefaultStartTrigger
	}
	if strings.TrimSpace(stop) == "" {
		stop = DefaultStopTrigger
	}
	return Classifier{
		start: strings.ToLower(strings.TrimSpace(start)),
		stop:  strings.ToLower(strings.TrimSpace(stop)),
	}
}

func (c Classifier) StartTrigger() string { return c.start }
func (c Classifier) StopTrigger() string  { return c.stop }

func (c Classifier) Classify(text string) Intent {
	low := strings.ToLower(text)
	if strings.Contains(low, c.start) {
		return IntentStart
	}
	if strings.Contains(low, c.stop) {
		return IntentStop
	}
	return IntentPlain
}
