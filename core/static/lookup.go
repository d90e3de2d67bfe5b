package static

import (
	"context"
	"sync"
)

// lookupGroup serializes resolutions of the same path.
//
// Each in-flight path owns a reference-counted lookupCall. The group mutex
// guards only the map and the counters; it is never held across a
// filesystem call. The entry is removed when its last requester leaves, so
// the map size is bounded by concurrent demand.
type lookupGroup struct {
	mu    sync.Mutex
	calls map[string]*lookupCall
}

type lookupCall struct {
	token chan struct{} // 1-slot semaphore; holding it means owning the path
	refs  int

	// resolved counts successful resolutions and is guarded by the group
	// mutex. verdict holds the latest of them and is guarded by token.
	resolved uint64
	verdict  Verdict
}

func newLookupGroup() *lookupGroup {
	return &lookupGroup{calls: make(map[string]*lookupCall)}
}

// do runs fn for key unless a resolution of the same key finished while this
// requester was queued, in which case that verdict is returned with shared
// set. A verdict is never handed to a requester that arrived after it was
// produced, and failures are not reused. Waiting honors ctx; the token is
// released on every exit path.
func (g *lookupGroup) do(ctx context.Context, key string, fn func() (Verdict, error)) (v Verdict, shared bool, err error) {
	c, seen := g.acquire(key)
	defer g.release(key, c)

	select {
	case c.token <- struct{}{}:
	case <-ctx.Done():
		return Verdict{}, false, ctx.Err()
	}
	defer func() { <-c.token }()

	if g.resolvedSince(c, seen) {
		return c.verdict, true, nil
	}

	v, err = fn()
	if err != nil {
		return Verdict{}, false, err
	}
	c.verdict = v

	g.mu.Lock()
	c.resolved++
	g.mu.Unlock()
	return v, false, nil
}

// acquire references the call for key and reports how many resolutions it
// had completed when the requester joined.
func (g *lookupGroup) acquire(key string) (*lookupCall, uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c, ok := g.calls[key]
	if !ok {
		c = &lookupCall{token: make(chan struct{}, 1)}
		g.calls[key] = c
	}
	c.refs++
	return c, c.resolved
}

func (g *lookupGroup) resolvedSince(c *lookupCall, seen uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return c.resolved > seen
}

func (g *lookupGroup) release(key string, c *lookupCall) {
	g.mu.Lock()
	defer g.mu.Unlock()

	c.refs--
	if c.refs == 0 {
		delete(g.calls, key)
	}
}

// size returns the number of paths currently tracked.
func (g *lookupGroup) size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// waiters returns the number of requesters referencing key.
func (g *lookupGroup) waiters(key string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if c, ok := g.calls[key]; ok {
		return c.refs
	}
	return 0
}
