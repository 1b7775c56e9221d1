package concurrent

import "sync"

// Mailbox is a FIFO of callbacks posted from any goroutine and run by one
// owner goroutine. It is the usual Executor for a store whose deferred
// effects resolve on worker goroutines.
type Mailbox struct {
	mu      sync.Mutex
	queue   []func()
	notify  chan struct{}
	closed  bool
	dropped uint64
}

func NewMailbox() *Mailbox {
	return &Mailbox{notify: make(chan struct{}, 1)}
}

// Post queues fn. Posting after Close drops fn.
func (m *Mailbox) Post(fn func()) {
	m.mu.Lock()
	if m.closed {
		m.dropped++
		m.mu.Unlock()
		return
	}
	m.queue = append(m.queue, fn)
	m.mu.Unlock()

	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Drain runs every callback queued so far, in posting order, on the calling
// goroutine. Callbacks posted while draining wait for the next Drain.
func (m *Mailbox) Drain() int {
	m.mu.Lock()
	batch := m.queue
	m.queue = nil
	m.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Ready is signalled after a Post; it may fire spuriously.
func (m *Mailbox) Ready() <-chan struct{} { return m.notify }

func (m *Mailbox) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queue)
}

// Close drops queued callbacks and rejects further posts.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.dropped += uint64(len(m.queue))
	m.queue = nil
}

// Dropped counts callbacks discarded by Close or posted after it.
func (m *Mailbox) Dropped() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}
