package scheduler

import (
	"sync"
	"time"
)

// Task - one deferred action. It either runs once or is cancelled.
type Task struct {
	fn      func()
	release func()
	done    chan struct{}

	mu       sync.Mutex
	timer    *time.Timer
	finished bool
}

// Done is closed once the task has run or been cancelled.
func (that *Task) Done() <-chan struct{} {
	return that.done
}

// Cancel discards the task if it has not started. It reports whether it did.
func (that *Task) Cancel() bool {
	return that.finish(false)
}

func (that *Task) run() bool {
	return that.finish(true)
}

func (that *Task) arm(delay time.Duration) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.finished {
		return
	}

	that.timer = time.AfterFunc(delay, func() { that.run() })
}

func (that *Task) finish(execute bool) bool {
	that.mu.Lock()
	if that.finished {
		that.mu.Unlock()
		return false
	}
	that.finished = true
	timer := that.timer
	that.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}

	if that.release != nil {
		that.release()
	}

	defer close(that.done)

	if execute {
		that.fn()
	}

	return true
}

// Scheduler - keyed one-shot delays; a key has at most one pending task.
type Scheduler struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*Task
}

// New - a zero delay runs tasks synchronously inside Schedule.
func New(delay time.Duration) *Scheduler {
	return &Scheduler{
		delay:   delay,
		pending: make(map[string]*Task),
	}
}

func (that *Scheduler) Delay() time.Duration {
	return that.delay
}

// Schedule registers fn under key, cancelling whatever was pending there.
func (that *Scheduler) Schedule(key string, fn func()) *Task {
	task := &Task{fn: fn, done: make(chan struct{})}
	task.release = func() { that.forget(key, task) }

	that.mu.Lock()
	previous := that.pending[key]
	that.pending[key] = task
	that.mu.Unlock()

	if previous != nil {
		previous.Cancel()
	}

	if that.delay <= 0 {
		task.run()
		return task
	}

	task.arm(that.delay)

	return task
}

// Cancel drops the pending task under key.
func (that *Scheduler) Cancel(key string) bool {
	task, ok := that.lookup(key)
	if !ok {
		return false
	}

	return task.Cancel()
}

// FastForward runs the pending task under key now instead of waiting.
func (that *Scheduler) FastForward(key string) bool {
	task, ok := that.lookup(key)
	if !ok {
		return false
	}

	return task.run()
}

func (that *Scheduler) Pending(key string) bool {
	_, ok := that.lookup(key)
	return ok
}

// Stop cancels every pending task.
func (that *Scheduler) Stop() {
	that.mu.Lock()
	tasks := make([]*Task, 0, len(that.pending))
	for _, task := range that.pending {
		tasks = append(tasks, task)
	}
	that.mu.Unlock()

	for _, task := range tasks {
		task.Cancel()
	}
}

func (that *Scheduler) lookup(key string) (*Task, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	task, ok := that.pending[key]
	return task, ok
}

func (that *Scheduler) forget(key string, task *Task) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.pending[key] == task {
		delete(that.pending, key)
	}
}
