package sync

import (
	"sync"
	"time"
)

// Stats агрегированное состояние очереди, рассылаемое подписчикам
type Stats struct {
	// LastSyncTime максимальный timestamp среди COMPLETED элементов
	LastSyncTime *time.Time `json:"lastSyncTime,omitempty"`
	Total        int        `json:"total"`
	Pending      int        `json:"pending"`
	InProgress   int        `json:"inProgress"`
	Completed    int        `json:"completed"`
	Failed       int        `json:"failed"`
	Conflict     int        `json:"conflict"`
	IsOnline     bool       `json:"isOnline"`
	IsSyncing    bool       `json:"isSyncing"`
}

// Broadcaster рассылает Stats подписчикам в порядке подписки
type Broadcaster struct {
	subscribers map[uint64]func(Stats)
	order       []uint64
	nextID      uint64
	mu          sync.Mutex
}

// NewBroadcaster создает Broadcaster без подписчиков
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make(map[uint64]func(Stats))}
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is a no-op.
func (b *Broadcaster) Subscribe(fn func(Stats)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn
	b.order = append(b.order, id)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subscribers, id)
			for i, sid := range b.order {
				if sid == id {
					b.order = append(b.order[:i], b.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish calls every subscriber with s. Callbacks run outside the lock,
// so a subscriber may unsubscribe from inside its callback.
func (b *Broadcaster) Publish(s Stats) {
	b.mu.Lock()
	fns := make([]func(Stats), 0, len(b.order))
	for _, id := range b.order {
		fns = append(fns, b.subscribers[id])
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Len returns the number of subscribers
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.order)
}
