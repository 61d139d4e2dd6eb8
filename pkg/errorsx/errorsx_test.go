package errorsx

import "testing"

func TestWrapAndReason(t *testing.T) {
	err := Wrap(assertErr{}, ReasonTransportDial)
	if Reason(err) != ReasonTransportDial {
		t.Fatalf("expected reason %s, got %s", ReasonTransportDial, Reason(err))
	}
	if !HasReason(err, ReasonTransportDial) {
		t.Fatalf("expected HasReason true")
	}
}

func TestWrapPreservesExistingReason(t *testing.T) {
	first := Wrap(assertErr{}, ReasonNotConnected)
	second := Wrap(first, ReasonTransportSend)
	if Reason(second) != ReasonNotConnected {
		t.Fatalf("expected reason preserved, got %s", Reason(second))
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, ReasonDecode) != nil {
		t.Fatalf("expected nil passthrough")
	}
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
