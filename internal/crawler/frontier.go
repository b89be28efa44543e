package crawler

import "sync"

// claimSet is the shared visited-URL set of one site-run. Insertion has
// check-and-set semantics: Claim returns true only for the first caller
// to add a URL, so every URL is processed by exactly one crawl task no
// matter how many siblings discover it.
type claimSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func newClaimSet() *claimSet {
	return &claimSet{seen: make(map[string]struct{})}
}

// Claim records the URL and reports whether this call was the first to
// do so.
func (c *claimSet) Claim(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[url]; ok {
		return false
	}
	c.seen[url] = struct{}{}
	return true
}

// frontier is the work queue shared by the workers of one site-run.
//
// Design decision: An explicit queue instead of recursive task
// spawning. The crawl is a fan-out tree, and literal recursion would
// grow the call stack with site depth; a queue plus the claimSet gives
// the same exactly-once traversal with bounded stacks.
//
// Termination: the queue tracks in-flight items so that Next can tell
// "momentarily empty" (a worker may still discover links) from "crawl
// finished" (empty and nothing in flight).
type frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []string
	inflight int
	closed   bool
}

func newFrontier() *frontier {
	f := &frontier{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Push enqueues a URL. Pushes after Close are dropped: once the run is
// being torn down, queued-but-unstarted work is discarded.
func (f *frontier) Push(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.queue = append(f.queue, url)
	f.cond.Signal()
}

// Next blocks until a URL is available and returns it, counting it as
// in flight until the worker calls Done. It returns false when the
// crawl is finished or the frontier was closed.
func (f *frontier) Next() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		if f.closed {
			return "", false
		}
		if len(f.queue) > 0 {
			url := f.queue[0]
			f.queue = f.queue[1:]
			f.inflight++
			return url, true
		}
		if f.inflight == 0 {
			// Nothing queued and nobody working: the crawl is done.
			// Wake the remaining workers so they can exit too.
			f.cond.Broadcast()
			return "", false
		}
		f.cond.Wait()
	}
}

// Done marks one previously returned URL as processed.
func (f *frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inflight--
	f.cond.Broadcast()
}

// Close discards queued work and wakes all blocked workers. Used on
// cancellation and on fatal site-run errors.
func (f *frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.queue = nil
	f.cond.Broadcast()
}
