package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/cs2coach/internal/services/mailer"
)

// MockMailer records sent messages for testing
type MockMailer struct {
	mu   sync.Mutex
	sent []mailer.Message

	// Err, when set, is returned from Send instead of recording
	Err error
}

// Ensure MockMailer implements Sender
var _ mailer.Sender = (*MockMailer)(nil)

// NewMockMailer creates a new MockMailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of every recorded message
func (m *MockMailer) Sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mailer.Message, len(m.sent))
	copy(out, m.sent)
	return out
}
