// Package events доставка событий спина слою отображения.
package events

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"haunted_slot/internal/model"
)

var ErrClosed = errors.New("events: bus closed")

// Bus рассылка в процессе. Медленный подписчик теряет события, спин не ждет
type Bus struct {
	mu      sync.RWMutex
	subs    map[int]chan *model.Outcome
	nextID  int
	closed  bool
	dropped atomic.Int64
}

func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan *model.Outcome)}
}

// Subscribe возвращает канал с буфером size и функцию отписки
func (b *Bus) Subscribe(size int) (<-chan *model.Outcome, func()) {
	if size < 1 {
		size = 1
	}
	ch := make(chan *model.Outcome, size)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *Bus) Publish(_ context.Context, o *model.Outcome) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	for _, ch := range b.subs {
		select {
		case ch <- o:
		default:
			b.dropped.Add(1)
		}
	}
	return nil
}

// Dropped сколько событий не поместилось в буферы подписчиков
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
