package notify

import "sync"

// RingBuffer is a bounded, thread-safe queue of notifications. When full, the
// oldest entry is dropped to make room.
type RingBuffer struct {
	mu       sync.Mutex
	items    []Notification
	head     int // next write position
	tail     int // next read position
	count    int
	capacity int
	dropped  int64
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 256
	}
	return &RingBuffer{
		items:    make([]Notification, capacity),
		capacity: capacity,
	}
}

// Enqueue adds n and reports whether an older entry was dropped.
func (b *RingBuffer) Enqueue(n Notification) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := false
	if b.count >= b.capacity {
		b.items[b.tail] = Notification{}
		b.tail = (b.tail + 1) % b.capacity
		b.count--
		b.dropped++
		dropped = true
	}

	b.items[b.head] = n
	b.head = (b.head + 1) % b.capacity
	b.count++
	return dropped
}

// DequeueBatch removes up to n entries in FIFO order.
func (b *RingBuffer) DequeueBatch(n int) []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}

	result := make([]Notification, n)
	for i := 0; i < n; i++ {
		result[i] = b.items[b.tail]
		b.items[b.tail] = Notification{}
		b.tail = (b.tail + 1) % b.capacity
	}
	b.count -= n
	return result
}

func (b *RingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

func (b *RingBuffer) Dropped() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}
