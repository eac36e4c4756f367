package session

import "strings"

// State is the controller's recording state.
type State int

const (
	StateIdle State = iota
	StateRecording
)

func (s State) String() string {
	if s == StateRecording {
		return "RECORDING"
	}
	return "IDLE"
}

// Result describes what one utterance did to the controller.
type Result struct {
	Intent Intent
	// Started is set on an IDLE -> RECORDING transition.
	Started bool
	// Stopped is set when a stop trigger closed an active session; Transcript
	// then carries the joined buffer.
	Stopped    bool
	Transcript string
	// StoppedIdle is set when the stop trigger arrived with no active session.
	StoppedIdle bool
	// Buffered is set when the utterance was appended to the session buffer.
	Buffered bool
	// Exit is set whenever the stop trigger fired, active session or not.
	Exit bool
}

// Controller owns the recording state and the session buffer. It is driven
// from a single goroutine; one Handle call per captured utterance.
type Controller struct {
	classifier Classifier
	state      State
	sess       *Session
}

func NewController(classifier Classifier) *Controller {
	return &Controller{classifier: classifier}
}

func (c *Controller) State() State { return c.state }

// Session returns the active session, or nil while idle.
func (c *Controller) Session() *Session { return c.sess }

// Handle folds one recognized utterance into the state machine.
//
// Start while recording is a no-op: repeating the phrase mid-session keeps
// the buffer. Stop always exits, recording or not. Plain text is buffered
// only while recording; while idle it is discarded.
func (c *Controller) Handle(text string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}
	}

	switch intent := c.classifier.Classify(text); intent {
	case IntentStart:
		res := Result{Intent: intent}
		if c.state == StateIdle {
			c.sess = newSession()
			c.state = StateRecording
			res.Started = true
		}
		return res

	case IntentStop:
		res := Result{Intent: intent, Exit: true}
		if c.state == StateRecording {
			res.Stopped = true
			res.Transcript = c.sess.Transcript()
			c.sess = nil
			c.state = StateIdle
		} else {
			res.StoppedIdle = true
		}
		return res

	default:
		res := Result{Intent: IntentPlain}
		if c.state == StateRecording {
			c.sess.Append(text)
			res.Buffered = true
		}
		return res
	}
}
