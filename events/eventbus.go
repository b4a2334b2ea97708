package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

const subscriberBuffer = 64

type SubscriberID string

// Filter selects which events a subscriber receives; nil means all
type Filter func(TreasuryEvent) bool

type Subscriber struct {
	ID      SubscriberID
	Channel chan TreasuryEvent
	filter  Filter
}

// EventBus fans committed treasury events out to subscribers. Publishing
// never blocks: a subscriber with a full buffer misses the event.
type EventBus struct {
	subscribers map[SubscriberID]*Subscriber
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[SubscriberID]*Subscriber),
	}
}

func (eb *EventBus) generateUUIDID() SubscriberID {
	id := uuid.Must(uuid.NewV7())
	return SubscriberID(id.String())
}

// Subscribe registers for every event
func (eb *EventBus) Subscribe() (SubscriberID, <-chan TreasuryEvent) {
	return eb.SubscribeFiltered(nil)
}

// SubscribeTypes registers for the listed event types only
func (eb *EventBus) SubscribeTypes(types ...EventType) (SubscriberID, <-chan TreasuryEvent) {
	wanted := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}
	return eb.SubscribeFiltered(func(e TreasuryEvent) bool {
		_, ok := wanted[e.Type()]
		return ok
	})
}

// SubscribeSubject registers for events about one entity, e.g. a request
func (eb *EventBus) SubscribeSubject(subject string) (SubscriberID, <-chan TreasuryEvent) {
	return eb.SubscribeFiltered(func(e TreasuryEvent) bool {
		return e.Subject() == subject
	})
}

func (eb *EventBus) SubscribeFiltered(filter Filter) (SubscriberID, <-chan TreasuryEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := eb.generateUUIDID()
	ch := make(chan TreasuryEvent, subscriberBuffer)
	eb.subscribers[id] = &Subscriber{ID: id, Channel: ch, filter: filter}

	logx.Debug("EVENTBUS", fmt.Sprintf("subscribed | subscriber_id=%s | total_subscribers=%d", id, len(eb.subscribers)))
	return id, ch
}

// Unsubscribe removes a subscription and closes its channel
func (eb *EventBus) Unsubscribe(id SubscriberID) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subscriber, exists := eb.subscribers[id]
	if !exists {
		logx.Warn("EVENTBUS", fmt.Sprintf("attempted to unsubscribe non-existent subscriber | subscriber_id=%s", id))
		return false
	}

	delete(eb.subscribers, id)
	close(subscriber.Channel)
	return true
}

// Publish delivers event to every matching subscriber without blocking
func (eb *EventBus) Publish(event TreasuryEvent) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	for id, subscriber := range eb.subscribers {
		if subscriber.filter != nil && !subscriber.filter(event) {
			continue
		}
		select {
		case subscriber.Channel <- event:
		default:
			logx.Warn("EVENTBUS", fmt.Sprintf("subscriber channel full | subscriber_id=%s | event_type=%s | subject=%s", id, event.Type(), event.Subject()))
		}
	}
}

func (eb *EventBus) GetTotalSubscriptions() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	return len(eb.subscribers)
}

func (eb *EventBus) HasSubscriber(id SubscriberID) bool {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	_, exists := eb.subscribers[id]
	return exists
}
