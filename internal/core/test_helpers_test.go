package core

import (
	"testing"
	"time"
)

// queued returns the text payloads currently sitting in the mailbox
// without disturbing delivery.
func queued(t *testing.T, m *Mailbox) []string {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	var lines []string
	for _, p := range m.queue {
		if p.kind == payloadText {
			lines = append(lines, p.text)
		}
	}
	return lines
}

// lastQueued returns the most recent text payload, or "" if none.
func lastQueued(t *testing.T, m *Mailbox) string {
	t.Helper()

	lines := queued(t, m)
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}

// waitClosed fails the test if the mailbox doesn't reject sends soon.
func waitClosed(t *testing.T, m *Mailbox) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if m.Send("probe") == ErrMailboxClosed {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("mailbox was not closed in time")
}
