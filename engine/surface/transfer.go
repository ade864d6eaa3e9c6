package surface

import (
	"sync"

	"github.com/google/uuid"
)

// Transfer tracks the once-only handoff of a surface's drawing rights.
// The zero value is ready to use; embed it by value in a transferable surface.
type Transfer struct {
	mu          sync.Mutex
	attempts    int
	transferred bool
}

// Do runs transfer if and only if no earlier call succeeded. A failed transfer func does
// not consume the surface.
//
// Parameters:
//   - transfer: builds the Offscreen for the handoff
//
// Returns:
//   - Offscreen: the handle produced by transfer
//   - error: ErrAlreadyTransferred, or the error returned by transfer
func (t *Transfer) Do(transfer func() (Offscreen, error)) (Offscreen, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempts++
	if t.transferred {
		return nil, ErrAlreadyTransferred
	}

	o, err := transfer()
	if err != nil {
		return nil, err
	}
	t.transferred = true
	return o, nil
}

// Transferred reports whether drawing rights have been handed out.
func (t *Transfer) Transferred() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.transferred
}

// Count returns the number of transfer attempts, successful or not.
func (t *Transfer) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

func newID() string {
	return uuid.NewString()
}
