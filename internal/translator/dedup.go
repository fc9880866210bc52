package translator

import "sync"

// pendingResult is the shared outcome of one in-flight resolution.
// Waiters block on done; value and err are immutable once done closes.
type pendingResult struct {
	done  chan struct{}
	value string
	err   error
}

// pendingMap collapses concurrent identical requests: at most one
// resolution runs per key at any instant. The check-then-register step
// is a single critical section, so a second caller arriving between
// check and registration joins the first instead of duplicating work.
type pendingMap struct {
	mu      sync.Mutex
	entries map[string]*pendingResult
}

func newPendingMap() *pendingMap {
	return &pendingMap{entries: make(map[string]*pendingResult)}
}

// getOrCreate returns the pending entry for key. created is true when
// this caller registered the entry and therefore owns the resolution;
// it must call settle exactly once.
func (p *pendingMap) getOrCreate(key string) (pr *pendingResult, created bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.entries[key]; ok {
		return existing, false
	}
	pr = &pendingResult{done: make(chan struct{})}
	p.entries[key] = pr
	return pr, true
}

// settle records the outcome and removes the entry. Removal happens on
// success and failure alike: a failed attempt must be retried from
// scratch by the next request, never cached as a negative result.
func (p *pendingMap) settle(key string, pr *pendingResult, value string, err error) {
	p.mu.Lock()
	delete(p.entries, key)
	p.mu.Unlock()

	pr.value = value
	pr.err = err
	close(pr.done)
}

// size reports the number of in-flight keys.
func (p *pendingMap) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
