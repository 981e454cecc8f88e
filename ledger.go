package vkboot

import (
	"github.com/cockroachdb/errors"
)

// CleanupFunc releases one owned resource.
type CleanupFunc func(resource interface{}) error

// CleanupEntry pairs a teardown callback with the resource it owns.
type CleanupEntry struct {
	Name     string
	Callback CleanupFunc
	Resource interface{}
}

// Ledger records acquired resources so they can be released in the reverse
// order of acquisition. It has a fixed capacity chosen up front.
type Ledger struct {
	entries  []CleanupEntry
	running  bool
	finished bool
}

// NewLedger allocates a ledger able to hold capacity entries.
func NewLedger(capacity int) (*Ledger, error) {
	if capacity <= 0 {
		return nil, precondition("ledger capacity must be positive, got %d", capacity)
	}
	return &Ledger{entries: make([]CleanupEntry, 0, capacity)}, nil
}

// Len returns the number of entries still owned by the ledger.
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Cap returns the fixed capacity of the ledger.
func (l *Ledger) Cap() int {
	return cap(l.entries)
}

// Add appends an entry. It fails once the ledger is full, while it is
// running, or after it has been cleaned up.
func (l *Ledger) Add(name string, callback CleanupFunc, resource interface{}) error {
	if l == nil {
		return precondition("cleanup of %q registered without a ledger", name)
	}
	if l.finished {
		return precondition("cleanup of %q registered after ledger teardown", name)
	}
	if l.running {
		return precondition("cleanup of %q registered during ledger teardown", name)
	}
	if callback == nil {
		return precondition("cleanup of %q has no callback", name)
	}
	if len(l.entries) == cap(l.entries) {
		return errors.Mark(errors.Newf("ledger full (%d entries), cannot register %q", cap(l.entries), name), ErrAllocation)
	}
	l.entries = append(l.entries, CleanupEntry{Name: name, Callback: callback, Resource: resource})
	return nil
}

// Cleanup invokes every entry from last added to first added, each exactly
// once. A failing callback does not stop the teardown; all failures are
// combined into the returned error. The ledger is unusable afterwards.
func (l *Ledger) Cleanup() error {
	if l == nil {
		return nil
	}
	if l.finished || l.running {
		return precondition("ledger cleaned up twice")
	}
	l.running = true
	var result error
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		l.entries[i] = CleanupEntry{}
		l.entries = l.entries[:i]
		logger.Debug("cleanup", "entry", e.Name)
		if err := runCleanup(e); err != nil {
			logger.Warn("cleanup failed", "entry", e.Name, "error", err)
			result = errors.CombineErrors(result, errors.Wrapf(err, "cleanup %s", e.Name))
		}
	}
	l.entries = nil
	l.running = false
	l.finished = true
	return result
}

func runCleanup(e CleanupEntry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("panic: %v", r)
		}
	}()
	return e.Callback(e.Resource)
}
