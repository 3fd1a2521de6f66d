package confirm

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PendingAction is a confirmation prompt waiting for the user's answer.
type PendingAction struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type answer struct {
	accepted bool
	err      error
}

type pendingEntry struct {
	action PendingAction
	result chan answer
}

// Broker is a Prompter for environments without a blocking dialog. Confirm
// publishes a PendingAction, for example to a browser over a websocket,
// and waits until Resolve delivers the answer or the context ends.
type Broker struct {
	publish func(PendingAction) error

	mu      sync.Mutex
	pending map[string]*pendingEntry
	closed  bool
}

// NewBroker creates a Broker that announces prompts through publish.
func NewBroker(publish func(PendingAction) error) *Broker {
	return &Broker{
		publish: publish,
		pending: make(map[string]*pendingEntry),
	}
}

// Confirm implements Prompter.
func (b *Broker) Confirm(ctx context.Context, message string) (bool, error) {
	entry := &pendingEntry{
		action: PendingAction{
			ID:        uuid.NewString(),
			Message:   message,
			CreatedAt: time.Now(),
		},
		result: make(chan answer, 1),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false, ErrClosed
	}
	b.pending[entry.action.ID] = entry
	b.mu.Unlock()

	if err := b.publish(entry.action); err != nil {
		b.remove(entry.action.ID)
		return false, fmt.Errorf("confirm: publish: %w", err)
	}

	select {
	case a := <-entry.result:
		return a.accepted, a.err
	case <-ctx.Done():
		b.remove(entry.action.ID)
		return false, ctx.Err()
	}
}

// Resolve delivers the user's answer for the prompt with the given id.
func (b *Broker) Resolve(id string, accepted bool) error {
	b.mu.Lock()
	entry, ok := b.pending[id]
	if ok {
		delete(b.pending, id)
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPrompt, id)
	}
	entry.result <- answer{accepted: accepted}
	return nil
}

// Pending returns the prompts still waiting for an answer, oldest first.
func (b *Broker) Pending() []PendingAction {
	b.mu.Lock()
	out := make([]PendingAction, 0, len(b.pending))
	for _, e := range b.pending {
		out = append(out, e.action)
	}
	b.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Close aborts every pending prompt with ErrClosed and rejects new ones.
func (b *Broker) Close() {
	b.mu.Lock()
	b.closed = true
	entries := b.pending
	b.pending = make(map[string]*pendingEntry)
	b.mu.Unlock()

	for _, e := range entries {
		e.result <- answer{err: ErrClosed}
	}
}

func (b *Broker) remove(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}
