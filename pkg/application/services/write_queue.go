package services

import (
	"context"
	"fmt"
	"sync"
)

// Write is a staged persistence action
type Write func(ctx context.Context) error

// StagedWrite is one pending entry of a WriteQueue
type StagedWrite struct {
	Key         string
	Description string
	write       Write
	seq         uint64
}

// WriteQueue holds writes until the caller flushes them. Staging a key that
// is already pending replaces its write and keeps its place in the queue.
// Nothing is written on a timer.
type WriteQueue struct {
	mu     sync.Mutex
	order  []string
	staged map[string]StagedWrite
	seq    uint64
}

// NewWriteQueue creates an empty queue
func NewWriteQueue() *WriteQueue {
	return &WriteQueue{
		order:  []string{},
		staged: make(map[string]StagedWrite),
	}
}

// Stage adds or replaces the pending write for key
func (q *WriteQueue) Stage(key, description string, write Write) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.staged[key]; !exists {
		q.order = append(q.order, key)
	}
	q.seq++
	q.staged[key] = StagedWrite{Key: key, Description: description, write: write, seq: q.seq}
}

// Pending lists staged writes in staging order
func (q *WriteQueue) Pending() []StagedWrite {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := make([]StagedWrite, 0, len(q.order))
	for _, key := range q.order {
		pending = append(pending, q.staged[key])
	}
	return pending
}

// Len returns the number of staged writes
func (q *WriteQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

// Flush applies staged writes in order. On the first failure it stops; the
// failed write and everything after it stay staged.
func (q *WriteQueue) Flush(ctx context.Context) error {
	for {
		q.mu.Lock()
		if len(q.order) == 0 {
			q.mu.Unlock()
			return nil
		}
		key := q.order[0]
		entry := q.staged[key]
		q.mu.Unlock()

		if err := ctx.Err(); err != nil {
			return err
		}
		if err := entry.write(ctx); err != nil {
			return fmt.Errorf("%s: %w", entry.Description, err)
		}

		q.mu.Lock()
		// the key may have been restaged while writing; keep the newer write
		if current, exists := q.staged[key]; exists && current.seq == entry.seq {
			delete(q.staged, key)
			q.order = removeKey(q.order, key)
		}
		q.mu.Unlock()
	}
}

// Discard drops every staged write and returns how many were dropped
func (q *WriteQueue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.order)
	q.order = []string{}
	q.staged = make(map[string]StagedWrite)
	return dropped
}

func removeKey(keys []string, key string) []string {
	for i, k := range keys {
		if k == key {
			return append(keys[:i:i], keys[i+1:]...)
		}
	}
	return keys
}
