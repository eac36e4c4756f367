package session

import "testing"

func newTestController() *Controller {
	return NewController(NewClassifier("", ""))
}

func TestClassifier(t *testing.T) {
	c := NewClassifier("", "")
	cases := []struct {
		text string
		want Intent
	}{
		{"start my friend", IntentStart},
		{"hey START MY FRIEND please", IntentStart},
		{"finish my friend", IntentStop},
		{"ok FINISH my Friend now", IntentStop},
		{"hello world", IntentPlain},
		{"", IntentPlain},
		// Start is checked first, so an utterance carrying both is a start.
		{"start my friend finish my friend", IntentStart},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.text); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestClassifierCustomTriggers(t *testing.T) {
	c := NewClassifier("Mulai Catat", "selesai catat")
	if c.Classify("tolong MULAI CATAT ya") != IntentStart {
		t.Fatalf("custom start trigger not detected")
	}
	if c.Classify("selesai catat") != IntentStop {
		t.Fatalf("custom stop trigger not detected")
	}
}

func TestStartIsIdempotent(t *testing.T) {
	c := newTestController()
	res := c.Handle("start my friend")
	if !res.Started || c.State() != StateRecording {
		t.Fatalf("expected transition to RECORDING")
	}
	c.Handle("hello")
	sess := c.Session()

	res = c.Handle("please start my friend again")
	if res.Started || res.Exit {
		t.Fatalf("repeated start must be a no-op, got %+v", res)
	}
	if c.Session() != sess {
		t.Fatalf("repeated start must not reset the session")
	}
	if got := c.Session().Len(); got != 1 {
		t.Fatalf("buffer changed on repeated start: %d entries", got)
	}
}

func TestNoBufferingWhileIdle(t *testing.T) {
	c := newTestController()
	for _, text := range []string{"hello", "world", "not recording"} {
		res := c.Handle(text)
		if res.Buffered {
			t.Fatalf("utterance %q buffered while idle", text)
		}
	}
	if c.Session() != nil {
		t.Fatalf("no session expected while idle")
	}
}

func TestTranscriptPreservesOrder(t *testing.T) {
	c := newTestController()
	c.Handle("start my friend")
	inputs := []string{"one", "two", "three", "four"}
	for _, in := range inputs {
		if res := c.Handle(in); !res.Buffered {
			t.Fatalf("expected %q buffered", in)
		}
	}
	res := c.Handle("finish my friend")
	if !res.Stopped || !res.Exit {
		t.Fatalf("expected stop to close the session, got %+v", res)
	}
	if res.Transcript != "one two three four" {
		t.Fatalf("transcript order broken: %q", res.Transcript)
	}
	if c.State() != StateIdle || c.Session() != nil {
		t.Fatalf("controller must return to idle after stop")
	}
}

func TestStopAlwaysExits(t *testing.T) {
	idle := newTestController()
	if res := idle.Handle("finish my friend"); !res.Exit || !res.StoppedIdle {
		t.Fatalf("idle stop must exit with not-active indication, got %+v", res)
	}

	recording := newTestController()
	recording.Handle("start my friend")
	if res := recording.Handle("finish my friend"); !res.Exit || !res.Stopped {
		t.Fatalf("recording stop must exit, got %+v", res)
	}
}

func TestTriggerPhrasesNeverBuffered(t *testing.T) {
	c := newTestController()
	c.Handle("start my friend")
	c.Handle("keep this")
	// A trigger inside a longer utterance classifies as the trigger and is
	// excluded from the buffer.
	if res := c.Handle("and now start my friend once more"); res.Buffered {
		t.Fatalf("trigger-bearing utterance must not be buffered")
	}
	res := c.Handle("finish my friend")
	if res.Transcript != "keep this" {
		t.Fatalf("unexpected transcript %q", res.Transcript)
	}
}

func TestWhitespaceOnlyUtteranceIgnored(t *testing.T) {
	c := newTestController()
	c.Handle("start my friend")
	if res := c.Handle("   "); res.Buffered || res.Exit {
		t.Fatalf("blank utterance must be ignored, got %+v", res)
	}
	if got := c.Session().Len(); got != 0 {
		t.Fatalf("buffer mutated by blank utterance")
	}
}

func TestScenarioTranscript(t *testing.T) {
	c := newTestController()
	inputs := []string{"start my friend", "hello world", "this is a test", "finish my friend"}
	var last Result
	for _, in := range inputs {
		last = c.Handle(in)
	}
	if !last.Exit {
		t.Fatalf("expected exit after final stop")
	}
	if last.Transcript != "hello world this is a test" {
		t.Fatalf("unexpected transcript %q", last.Transcript)
	}
}

func TestSessionIdentity(t *testing.T) {
	c := newTestController()
	c.Handle("start my friend")
	first := c.Session().ID
	if first == "" {
		t.Fatalf("session needs an id")
	}
	c.Handle("finish my friend")
	c.Handle("start my friend")
	if c.Session().ID == first {
		t.Fatalf("new session must get a fresh id")
	}
	if c.Session().Len() != 0 {
		t.Fatalf("new session must start with an empty buffer")
	}
}
