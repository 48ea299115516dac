package scanner

import "sync"

// Task is one directory waiting to be listed.
type Task struct {
	// Path is the directory path, built by joining names onto the root.
	Path string

	// Depth is the nesting level below the root; the root is 0.
	Depth int
}

// queue is the shared work list of a single scan.
//
// The task list, the in-flight count and the done flag are only read or
// written while holding mu. A scan is finished exactly when the list is
// empty and nothing is in flight; that condition is evaluated only by the
// worker that just decremented inFlight, inside the same critical section,
// so done is set once and never lost between a check and a wait.
type queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	tasks    []Task
	inFlight int
	done     bool
}

// newQueue returns a queue seeded with the root task.
func newQueue(root Task) *queue {
	q := &queue{tasks: []Task{root}}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a task and wakes one waiting worker.
func (q *queue) push(t Task) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
	q.cond.Signal()
}

// take blocks until a task is available or the scan is done.
// It returns false once done is set; the caller must then exit.
// A returned task counts as in flight until finish is called.
func (q *queue) take() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.tasks) == 0 && !q.done {
		q.cond.Wait()
	}
	if q.done {
		return Task{}, false
	}

	t := q.tasks[0]
	q.tasks[0] = Task{}
	q.tasks = q.tasks[1:]
	q.inFlight++
	return t, true
}

// finish marks one taken task as fully processed. If that leaves no queued
// and no in-flight work, the scan is done and every waiter is released.
func (q *queue) finish() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.inFlight > 0 {
		q.inFlight--
	}
	if len(q.tasks) == 0 && q.inFlight == 0 && !q.done {
		q.done = true
		q.cond.Broadcast()
	}
}
