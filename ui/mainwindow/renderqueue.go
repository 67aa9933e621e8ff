package mainwindow

import "sync"

// renderQueue serializes render work. At most one render runs at a time; a
// request arriving while one is in flight marks the queue dirty, and the
// worker loops until no request arrived during its last run. The trailing
// request of a slider drag therefore always produces a final render.
type renderQueue struct {
	render func()

	mu      sync.Mutex
	running bool
	dirty   bool
}

func newRenderQueue(render func()) *renderQueue {
	return &renderQueue{render: render}
}

// request schedules a render. Safe to call from any goroutine.
func (q *renderQueue) request() {
	q.mu.Lock()
	if q.running {
		q.dirty = true
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	go func() {
		for {
			q.render()

			q.mu.Lock()
			if !q.dirty {
				q.running = false
				q.mu.Unlock()
				return
			}
			q.dirty = false
			q.mu.Unlock()
		}
	}()
}
