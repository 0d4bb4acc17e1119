package ringbuf

// RingBuffer is a fixed-capacity FIFO. When full, Push evicts the oldest element.
// It is not safe for concurrent use; callers guard it with their own lock.
type RingBuffer[T any] struct {
	buf   []T
	head  int
	count int
}

func New[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{buf: make([]T, capacity)}
}

// Push appends an item, overwriting the oldest if full.
func (r *RingBuffer[T]) Push(item T) {
	idx := (r.head + r.count) % len(r.buf)
	r.buf[idx] = item
	if r.count == len(r.buf) {
		r.head = (r.head + 1) % len(r.buf)
	} else {
		r.count++
	}
}

// Snapshot returns a copy of all elements, oldest first.
func (r *RingBuffer[T]) Snapshot() []T {
	out := make([]T, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

func (r *RingBuffer[T]) Len() int {
	return r.count
}

func (r *RingBuffer[T]) Cap() int {
	return len(r.buf)
}
