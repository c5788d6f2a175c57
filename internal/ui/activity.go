package ui

import "sync"

// activity counts downloads started from this window. A slot is reserved
// before the task is queued and bound to the task ID afterwards; the task
// may finish before bind is called.
type activity struct {
	mu      sync.Mutex
	active  int
	tracked map[string]bool
	early   map[string]bool
}

func newActivity() *activity {
	return &activity{tracked: make(map[string]bool), early: make(map[string]bool)}
}

// reserve claims a slot and returns the new active count.
func (a *activity) reserve() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active++
	return a.active
}

// release gives back a slot whose task was never queued.
func (a *activity) release() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active > 0 {
		a.active--
	}
	return a.active
}

// bind attaches a reserved slot to id. finished is true when the task
// already reported its end, in which case the slot is released here.
func (a *activity) bind(id string) (remaining int, finished bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.early[id] {
		delete(a.early, id)
		if a.active > 0 {
			a.active--
		}
		return a.active, true
	}
	a.tracked[id] = true
	return a.active, false
}

// finish releases the slot of id. ok is false for tasks this window is not
// tracking, or that already finished.
func (a *activity) finish(id string) (remaining int, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.tracked[id] {
		a.early[id] = true
		return a.active, false
	}
	delete(a.tracked, id)
	if a.active > 0 {
		a.active--
	}
	return a.active, true
}

// count returns the number of active downloads.
func (a *activity) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}
