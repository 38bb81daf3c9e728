// Package session holds per-user state that lives only in process memory.
package session

import (
	"errors"
	"sync"
	"time"
)

// ErrAlreadyWaiting is returned when a user already has a pending prompt.
var ErrAlreadyWaiting = errors.New("already waiting for input from this user")

// State of a user's pending text input
type State int

const (
	StateIdle State = iota
	StateAwaitingText
)

func (s State) String() string {
	switch s {
	case StateAwaitingText:
		return "awaiting_text"
	default:
		return "idle"
	}
}

// InputRegistry is the rendezvous between an operation that asked the user
// a question and the next free-text message from that user.
//
// At most one prompt exists per user. A registration is removed exactly once,
// either by Deliver or by the waiting side on timeout, whichever takes the
// lock first.
type InputRegistry struct {
	mu      sync.Mutex
	pending map[int64]*Prompt // userID -> registration
}

// NewInputRegistry creates an empty registry
func NewInputRegistry() *InputRegistry {
	return &InputRegistry{pending: make(map[int64]*Prompt)}
}

// Prompt is one registered wait. Register it before asking the question so a
// fast reply cannot slip past.
type Prompt struct {
	registry *InputRegistry
	userID   int64
	ch       chan string // buffered(1): Deliver never blocks
}

// Begin registers a prompt for userID. It fails with ErrAlreadyWaiting when
// one is already pending.
func (r *InputRegistry) Begin(userID int64) (*Prompt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[userID]; exists {
		return nil, ErrAlreadyWaiting
	}
	p := &Prompt{registry: r, userID: userID, ch: make(chan string, 1)}
	r.pending[userID] = p
	return p, nil
}

// Await blocks until the reply arrives or timeout elapses. A zero timeout
// waits indefinitely. ok is false on timeout. There is no external
// cancellation.
func (p *Prompt) Await(timeout time.Duration) (text string, ok bool) {
	if timeout <= 0 {
		return <-p.ch, true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case text := <-p.ch:
		return text, true
	case <-timer.C:
	}

	if p.remove() {
		return "", false
	}
	// Deliver removed us between the timer firing and the lock; its value is buffered.
	return <-p.ch, true
}

// Abandon drops a prompt that will never be awaited, e.g. when the
// question could not be sent.
func (p *Prompt) Abandon() {
	p.remove()
}

// remove deletes the registration if it is still this prompt
func (p *Prompt) remove() bool {
	r := p.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.pending[p.userID] != p {
		return false
	}
	delete(r.pending, p.userID)
	return true
}

// Wait registers and awaits in one step
func (r *InputRegistry) Wait(userID int64, timeout time.Duration) (text string, ok bool, err error) {
	p, err := r.Begin(userID)
	if err != nil {
		return "", false, err
	}
	text, ok = p.Await(timeout)
	return text, ok, nil
}

// Deliver hands text to the user's pending prompt. It reports false when
// nobody is waiting, in which case the caller handles the text itself.
func (r *InputRegistry) Deliver(userID int64, text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, exists := r.pending[userID]
	if !exists {
		return false
	}
	delete(r.pending, userID)
	p.ch <- text
	return true
}

// State reports whether the user has a pending prompt
func (r *InputRegistry) State(userID int64) State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pending[userID]; exists {
		return StateAwaitingText
	}
	return StateIdle
}

// Pending returns the number of users with a pending prompt
func (r *InputRegistry) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
