package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonServiceUnavailable)
	if Reason(err) != ReasonServiceUnavailable {
		t.Fatalf("expected reason %s, got %s", ReasonServiceUnavailable, Reason(err))
	}
	if !HasReason(err, ReasonServiceUnavailable) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonListenTimeout)
	second := Wrap(first, ReasonDeviceFailure)
	if Reason(second) != ReasonListenTimeout {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestNewCarriesReason(t *testing.T) {
	err := New("no usable audio", ReasonUnintelligible)
	if Reason(err) != ReasonUnintelligible {
		t.Fatalf("expected unintelligible, got %s", Reason(err))
	}
	if err.Error() != "no usable audio" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
