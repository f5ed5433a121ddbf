package watch

import (
	"context"
	"sync"

	pubsub "cloud.google.com/go/pubsub/v2"

	"github.com/rekhigroup/livplus-backend/pkg/logger"
)

// Feed signals that the data behind a topic changed and bound queries should
// refetch. Subscribe returns a notification channel and a cancel func that
// must be called on teardown.
type Feed interface {
	Subscribe(topic string) (<-chan struct{}, func())
}

// Hub is an in-process Feed fanning one broadcast out to every subscriber of
// a topic.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[chan struct{}]struct{}{}}
}

func (h *Hub) Subscribe(topic string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = map[chan struct{}]struct{}{}
	}
	h.subs[topic][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[topic]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(h.subs, topic)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Broadcast wakes every subscriber of the topic. The signal is level-style:
// a subscriber that already has a pending signal gets no duplicate.
func (h *Hub) Broadcast(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Consume pumps catalog change events from the Pub/Sub subscription into the
// hub, keyed by the event_type attribute. It blocks until ctx is canceled.
func Consume(ctx context.Context, sub *pubsub.Subscriber, hub *Hub, logg *logger.Logger) error {
	if sub == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		eventType := msg.Attributes["event_type"]
		if eventType == "" {
			msg.Ack()
			return
		}
		hub.Broadcast(eventType)
		if logg != nil {
			logg.Debug(logg.WithField(ctx, "event_type", eventType), "catalog change fanned out")
		}
		msg.Ack()
	})
}
