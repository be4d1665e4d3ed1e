// Package notify delivers messages produced by output nodes to
// external channels.
package notify

import (
	"context"
	"fmt"
	"sync"
)

// Message is one outbound delivery. Channel senders that have no
// notion of recipients or subjects ignore the fields they don't use.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// SenderRegistry maps channel names to senders.
type SenderRegistry struct {
	mu      sync.RWMutex
	senders map[string]Sender
}

func NewSenderRegistry() *SenderRegistry {
	return &SenderRegistry{senders: make(map[string]Sender)}
}

func (r *SenderRegistry) Register(s Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.senders[s.Name()] = s
}

// Send delivers msg via the named channel.
func (r *SenderRegistry) Send(ctx context.Context, channel string, msg Message) error {
	r.mu.RLock()
	s, ok := r.senders[channel]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no sender registered for channel %q", channel)
	}
	return s.Send(ctx, msg)
}
