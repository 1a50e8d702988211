package core

import "sync"

// ProgressBroadcaster manages subscriptions to playlist build progress updates.
type ProgressBroadcaster struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *BuildProgress // runId -> list of channels
}

// NewProgressBroadcaster creates a new broadcaster instance.
func NewProgressBroadcaster() *ProgressBroadcaster {
	return &ProgressBroadcaster{
		subscribers: make(map[string][]chan *BuildProgress),
	}
}

// Subscribe adds a new subscriber for progress updates for a specific run id.
func (b *ProgressBroadcaster) Subscribe(runId string) chan *BuildProgress {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan *BuildProgress, 10) // Buffered channel to prevent blocking
	b.subscribers[runId] = append(b.subscribers[runId], ch)
	return ch
}

// Unsubscribe removes a subscriber channel.
func (b *ProgressBroadcaster) Unsubscribe(runId string, ch chan *BuildProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers := b.subscribers[runId]
	for i, subscriber := range subscribers {
		if subscriber == ch {
			b.subscribers[runId] = append(subscribers[:i], subscribers[i+1:]...)
			close(ch)
			break
		}
	}

	if len(b.subscribers[runId]) == 0 {
		delete(b.subscribers, runId)
	}
}

// Broadcast sends a progress update to all subscribers of that run id.
// A full subscriber channel is skipped rather than blocking the build loop.
func (b *ProgressBroadcaster) Broadcast(progress *BuildProgress) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	subscribers, ok := b.subscribers[progress.RunId]
	if !ok {
		return
	}

	for _, ch := range subscribers {
		select {
		case ch <- progress:
		default:
			Warningf("Skipping broadcast to full channel for run %s", progress.RunId)
		}
	}
}

// Close closes all subscriber channels and cleans up.
func (b *ProgressBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for runId, subscribers := range b.subscribers {
		for _, ch := range subscribers {
			close(ch)
		}
		delete(b.subscribers, runId)
	}
}
