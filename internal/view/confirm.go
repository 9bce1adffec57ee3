package view

import "sync"

// Confirmation is a two-step gate in front of a destructive action. The
// action may only run after Open followed by Confirm; Cancel discards it.
type Confirmation struct {
	mu      sync.Mutex
	pending string
	open    bool
}

// Open arms the gate for subject (e.g. a website id).
func (c *Confirmation) Open(subject string) {
	c.mu.Lock()
	c.pending, c.open = subject, true
	c.mu.Unlock()
}

// Confirm disarms the gate and returns the armed subject. ok is false when
// nothing was armed.
func (c *Confirmation) Confirm() (subject string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.open {
		return "", false
	}
	subject, c.pending, c.open = c.pending, "", false
	return subject, true
}

func (c *Confirmation) Cancel() {
	c.mu.Lock()
	c.pending, c.open = "", false
	c.mu.Unlock()
}

func (c *Confirmation) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}
