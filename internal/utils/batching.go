package utils

import (
	"log/slog"
	"sync"
)

// BatchBuffer accumulates the items of one batch in arrival order.
type BatchBuffer[T any] struct {
	buffer     []T
	bufferLock sync.Mutex
}

func NewBatchBuffer[T any](capacity int) *BatchBuffer[T] {
	return &BatchBuffer[T]{
		buffer: make([]T, 0, capacity),
	}
}

func (b *BatchBuffer[T]) Add(item T) {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	b.buffer = append(b.buffer, item)
}

// Drain returns everything collected so far and resets the buffer. The result
// is never nil.
func (b *BatchBuffer[T]) Drain() []T {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()

	batch := b.buffer
	if batch == nil {
		batch = []T{}
	}
	b.buffer = make([]T, 0, cap(batch))
	return batch
}

func (b *BatchBuffer[T]) Size() int {
	b.bufferLock.Lock()
	defer b.bufferLock.Unlock()
	return len(b.buffer)
}

func (b *BatchBuffer[T]) HasData() bool {
	return b.Size() > 0
}

func (b *BatchBuffer[T]) LogBatchProcessing(batchType string, total int) {
	slog.Info("[BatchBuffer] Batch complete",
		slog.String("type", batchType),
		slog.Int("collected", b.Size()),
		slog.Int("total", total))
}
