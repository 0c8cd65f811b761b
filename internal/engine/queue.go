package engine

import (
	"sync"

	"github.com/Kamand-Bioengineering-Group/mirage-sub001/internal/process"
)

// commandType distinguishes control command kinds.
type commandType int

const (
	cmdPlay commandType = iota + 1
	cmdPause
	cmdStop
	cmdSetSpeed
	cmdSpawn
)

// command is a control message for the engine loop. External callers never
// mutate engine state directly; they enqueue commands that the single-writer
// loop drains between steps.
type command struct {
	typ     commandType
	speed   int
	proc    process.Process
	spawned chan error
}

// commandQueue is a thread-safe FIFO for control commands.
//
// The queue uses a buffered signal channel so the engine loop can wait for
// commands while paused without spinning, and still honor context
// cancellation.
type commandQueue struct {
	mu       sync.Mutex
	commands []command
	closed   bool
	signal   chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		commands: make([]command, 0, 8),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a command. Returns false if the queue is closed.
// Thread-safe: may be called from any goroutine.
func (q *commandQueue) Enqueue(c command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.commands = append(q.commands, c)

	// Non-blocking signal; buffer of 1 coalesces bursts.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue pops the front command without blocking.
func (q *commandQueue) TryDequeue() (command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.commands) == 0 {
		return command{}, false
	}
	c := q.commands[0]
	// Nil out the slot so the queue does not retain the spawned process.
	q.commands[0] = command{}
	if len(q.commands) == 1 {
		q.commands = q.commands[:0]
	} else {
		q.commands = q.commands[1:]
	}
	return c, true
}

// Wait returns a channel that signals when commands may be available.
func (q *commandQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of pending commands.
func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.commands)
}

// Close marks the queue closed and wakes all waiters.
func (q *commandQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
