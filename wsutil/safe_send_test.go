package wsutil

import "testing"

func TestSafeSend(t *testing.T) {
	ch := make(chan []byte, 1)

	if !SafeSend(ch, []byte("a")) {
		t.Error("expected first send to succeed")
	}
	if SafeSend(ch, []byte("b")) {
		t.Error("expected send on full channel to be dropped")
	}
	if got := string(<-ch); got != "a" {
		t.Errorf("expected %q, got %q", "a", got)
	}

	close(ch)
	if SafeSend(ch, []byte("c")) {
		t.Error("expected send on closed channel to report false")
	}
}
