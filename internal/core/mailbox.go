package core

import (
	"io"
	"sync"
)

type payloadKind int

const (
	payloadText payloadKind = iota
	payloadBinary
)

// payload is one queued outbound item: a text line or an opaque binary
// chunk (kept for file transfer).
type payload struct {
	kind payloadKind
	text string
	data []byte
}

// Mailbox is the ordered outbound queue for one session. Enqueues never
// block on the network; a dedicated delivery goroutine (Run) drains the
// queue in FIFO order onto the connection.
type Mailbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []payload
	closed bool
}

// NewMailbox builds an open, empty mailbox.
func NewMailbox() *Mailbox {
	m := &Mailbox{}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// Send enqueues one line of text. Delivery appends exactly one newline.
// Returns ErrMailboxClosed once the mailbox is closed.
func (m *Mailbox) Send(text string) error {
	return m.enqueue(payload{kind: payloadText, text: text})
}

// SendBinary enqueues an opaque chunk, delivered as-is with no framing.
func (m *Mailbox) SendBinary(data []byte) error {
	return m.enqueue(payload{kind: payloadBinary, data: data})
}

func (m *Mailbox) enqueue(p payload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMailboxClosed
	}
	m.queue = append(m.queue, p)
	m.cond.Signal()
	return nil
}

// Close stops accepting sends. Idempotent. Delivery still drains what
// was enqueued before the close.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.cond.Broadcast()
}

// Run delivers queued payloads to w in enqueue order. It returns nil
// once the mailbox is closed and the backlog is drained, or the write
// error that broke the connection. A write failure closes the mailbox
// and drops whatever is still queued.
func (m *Mailbox) Run(w io.Writer) error {
	for {
		m.mu.Lock()
		for len(m.queue) == 0 && !m.closed {
			m.cond.Wait()
		}
		if len(m.queue) == 0 {
			m.mu.Unlock()
			return nil
		}
		batch := m.queue
		m.queue = nil
		m.mu.Unlock()

		for _, p := range batch {
			var err error
			switch p.kind {
			case payloadText:
				_, err = io.WriteString(w, p.text+"\n")
			case payloadBinary:
				_, err = w.Write(p.data)
			}
			if err != nil {
				m.Close()
				m.mu.Lock()
				m.queue = nil
				m.mu.Unlock()
				return err
			}
		}
	}
}
