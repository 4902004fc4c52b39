// Package session carries the "session ended" signal from the API client to
// whatever shows the user a login prompt.
package session

import (
	"context"
	"sync"
)

const (
	TopicLogout         = "session:logout"
	TopicAdminLogout    = "session:admin:logout"
	TopicSupplierLogout = "session:supplier:logout"
)

// Sink receives the payload-less logout notification.
type Sink interface {
	NotifyLoggedOut(ctx context.Context)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(ctx context.Context)

func (f SinkFunc) NotifyLoggedOut(ctx context.Context) { f(ctx) }

// Nop drops every notification.
var Nop Sink = SinkFunc(func(context.Context) {})

// Bus fans out notifications on named topics. The zero value is ready to use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe returns a channel signalled on every publish to topic. Signals
// coalesce: a subscriber that has not drained the previous one gets no second.
// The returned func unsubscribes and closes the channel.
func (b *Bus) Subscribe(topic string) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs == nil {
		b.subs = make(map[string]map[int]chan struct{})
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan struct{})
	}

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	b.subs[topic][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[topic], id)
			close(ch)
		})
	}
}

// Publish signals every subscriber of topic without blocking.
func (b *Bus) Publish(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Sink returns a Sink that publishes to topic.
func (b *Bus) Sink(topic string) Sink {
	return topicSink{bus: b, topic: topic}
}

type topicSink struct {
	bus   *Bus
	topic string
}

func (s topicSink) NotifyLoggedOut(context.Context) {
	s.bus.Publish(s.topic)
}
