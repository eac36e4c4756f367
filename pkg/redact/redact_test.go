package redact

import "testing"

func TestTextRedactsWhenEnabled(t *testing.T) {
	SetEnabled(true)
	defer SetEnabled(false)

	in := "call me at +62 812 3456 7890 or mail a.b@example.com"
	out := Text(in)
	if out == in {
		t.Fatalf("expected redaction")
	}
	if got := Text("no pii here"); got != "no pii here" {
		t.Fatalf("plain text must pass through, got %q", got)
	}
}

func TestTextPassThroughWhenDisabled(t *testing.T) {
	SetEnabled(false)
	in := "mail a.b@example.com"
	if got := Text(in); got != in {
		t.Fatalf("disabled redaction must not alter text")
	}
}
