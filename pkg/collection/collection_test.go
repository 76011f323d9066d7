package collection

import "testing"

func TestFIFOQueueOrdering(t *testing.T) {
	q := NewFIFOQueue[string]()
	q.Enqueue("a")
	q.Enqueue("b")
	q.Enqueue("c")

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.Dequeue()
		if !ok || got != want {
			t.Fatalf("got %q,%v want %q", got, ok, want)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected empty queue")
	}
}

func TestSetDedup(t *testing.T) {
	s := NewSet[string]()
	s.Add("x")
	s.Add("x")
	if s.Len() != 1 {
		t.Fatalf("expected 1 element, got %d", s.Len())
	}
	if !s.Contains("x") {
		t.Fatal("expected set to contain x")
	}
	s.Remove("x")
	if s.Contains("x") {
		t.Fatal("expected x removed")
	}
}
