package audio

import "sync"

// Buffer accumulates mono PCM samples pushed by the capture callback.
// Appends are dropped while the buffer is closed, so the device stream can
// run continuously and only takes recorded between Open and Close are kept.
type Buffer struct {
	mu        sync.Mutex
	accepting bool
	samples   []int16
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

// Open clears any previous take and starts accepting frames.
func (b *Buffer) Open() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
	b.accepting = true
}

// Close stops accepting frames. Samples already appended stay until Drain.
func (b *Buffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accepting = false
}

// Append copies frame into the buffer when accepting; otherwise the frame is
// silently dropped. Called from the device callback, so it must stay cheap.
func (b *Buffer) Append(frame []int16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.accepting {
		return
	}
	b.samples = append(b.samples, frame...)
}

// Drain atomically takes all accumulated samples and clears the buffer.
func (b *Buffer) Drain() []int16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	samples := b.samples
	b.samples = nil
	return samples
}

// Len reports the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}
