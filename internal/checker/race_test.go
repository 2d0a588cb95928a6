package checker

import (
	"context"
	"sync"
	"testing"

	"pwned/internal/digest"
)

// gatedLookup blocks each call until its hash is released.
type gatedLookup struct {
	mu      sync.Mutex
	started chan string
	gates   map[string]chan struct{}
	counts  map[string]int
}

func newGatedLookup(counts map[string]int) *gatedLookup {
	g := &gatedLookup{
		started: make(chan string, len(counts)),
		gates:   make(map[string]chan struct{}),
		counts:  counts,
	}
	for hash := range counts {
		g.gates[hash] = make(chan struct{})
	}
	return g
}

func (g *gatedLookup) CheckHash(ctx context.Context, hash string) (CheckResponse, error) {
	g.started <- hash
	select {
	case <-g.gates[hash]:
	case <-ctx.Done():
		return CheckResponse{}, &TransportError{Err: ctx.Err()}
	}
	return CheckResponse{Found: true, Count: g.counts[hash]}, nil
}

func (g *gatedLookup) release(hash string) { close(g.gates[hash]) }

func TestLastResolvedResponseWins(t *testing.T) {
	first, second := digest.SHA1Hex("first"), digest.SHA1Hex("second")
	g := newGatedLookup(map[string]int{first: 1, second: 2})
	c := New(digest.SHA1{}, g)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Check(context.Background(), "first")
	}()
	<-g.started
	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		c.Check(context.Background(), "second")
	}()
	<-g.started

	g.release(second)
	<-secondDone
	g.release(first)
	wg.Wait()

	st := c.Store().State()
	if st.Message != "⚠️ Warning: This password has been found in 1 data breaches!" {
		t.Fatalf("expected the later-resolving first submission to win, got %q", st.Message)
	}
}

func TestSupersedePriorDropsStaleResult(t *testing.T) {
	first, second := digest.SHA1Hex("first"), digest.SHA1Hex("second")
	g := newGatedLookup(map[string]int{first: 1, second: 2})
	c := New(digest.SHA1{}, g, WithPolicy(SupersedePrior))

	firstDone := make(chan State, 1)
	go func() { firstDone <- c.Check(context.Background(), "first") }()
	<-g.started

	secondDone := make(chan State, 1)
	go func() { secondDone <- c.Check(context.Background(), "second") }()
	<-g.started

	stale := <-firstDone
	if stale.Severity != SeverityError {
		t.Fatalf("expected cancelled first lookup, got %+v", stale)
	}
	if got := c.Store().State().Phase; got != PhaseLoading {
		t.Fatalf("stale result must not clear the newer loading state, got %s", got)
	}

	g.release(second)
	<-secondDone
	st := c.Store().State()
	if st.Message != "⚠️ Warning: This password has been found in 2 data breaches!" {
		t.Fatalf("expected second submission displayed, got %q", st.Message)
	}
}
