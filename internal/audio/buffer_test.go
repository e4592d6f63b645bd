package audio

import (
	"sync"
	"testing"
)

func TestBuffer_AppendsOnlyWhileOpen(t *testing.T) {
	b := NewBuffer()

	b.Append([]int16{1, 2, 3})
	if got := b.Len(); got != 0 {
		t.Fatalf("expected frames before Open to be dropped, got %d samples", got)
	}

	b.Open()
	b.Append([]int16{1, 2})
	b.Append([]int16{3})
	b.Close()
	b.Append([]int16{4, 5})

	samples := b.Drain()
	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	for i, want := range []int16{1, 2, 3} {
		if samples[i] != want {
			t.Fatalf("sample %d: expected %d, got %d", i, want, samples[i])
		}
	}
}

func TestBuffer_DrainClears(t *testing.T) {
	b := NewBuffer()
	b.Open()
	b.Append([]int16{7})
	b.Close()

	if got := b.Drain(); len(got) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(got))
	}
	if got := b.Drain(); len(got) != 0 {
		t.Fatalf("expected empty buffer after drain, got %d samples", len(got))
	}
}

func TestBuffer_OpenClearsPreviousTake(t *testing.T) {
	b := NewBuffer()
	b.Open()
	b.Append([]int16{1})
	b.Close()

	b.Open()
	b.Append([]int16{2})
	b.Close()

	samples := b.Drain()
	if len(samples) != 1 || samples[0] != 2 {
		t.Fatalf("expected only the second take, got %v", samples)
	}
}

func TestBuffer_ConcurrentAppends(t *testing.T) {
	b := NewBuffer()
	b.Open()

	const writers = 8
	const framesPerWriter = 100
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f := 0; f < framesPerWriter; f++ {
				b.Append([]int16{0, 1})
			}
		}()
	}
	wg.Wait()
	b.Close()

	if got := len(b.Drain()); got != writers*framesPerWriter*2 {
		t.Fatalf("expected %d samples, got %d", writers*framesPerWriter*2, got)
	}
}
