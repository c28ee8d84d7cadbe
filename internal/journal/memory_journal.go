package journal

import "sync"

// MemoryJournal keeps calls in process memory.
type MemoryJournal struct {
	mu    sync.RWMutex
	calls []Call
	last  map[string]Call
}

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{last: make(map[string]Call)}
}

func (j *MemoryJournal) Append(call Call) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.calls = append(j.calls, call)
	j.last[call.Method] = call
	return nil
}

func (j *MemoryJournal) Calls() ([]Call, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	out := make([]Call, len(j.calls))
	copy(out, j.calls)
	return out, nil
}

func (j *MemoryJournal) LastCall(method string) (Call, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	call, ok := j.last[method]
	return call, ok
}

// Close is a no-op for the memory journal.
func (j *MemoryJournal) Close() error {
	return nil
}
