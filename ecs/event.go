package ecs

// EventType identifies different types of events
type EventType string

// Event interface that all events must implement
type Event interface {
	Type() EventType
}

// EventHandler is a function that processes events
type EventHandler func(Event)

// Subscription identifies one registered handler so it can be removed later
type Subscription uint64

type subscriber struct {
	id      Subscription
	handler EventHandler
}

// EventManager manages event subscriptions and dispatches.
// Handlers run synchronously, in subscription order, on the emitting goroutine.
type EventManager struct {
	subscribers map[EventType][]subscriber
	nextID      Subscription
}

// NewEventManager creates a new event manager
func NewEventManager() *EventManager {
	return &EventManager{
		subscribers: make(map[EventType][]subscriber),
	}
}

// Subscribe registers a handler for a specific event type
func (em *EventManager) Subscribe(eventType EventType, handler EventHandler) Subscription {
	em.nextID++
	em.subscribers[eventType] = append(em.subscribers[eventType], subscriber{id: em.nextID, handler: handler})
	return em.nextID
}

// Unsubscribe removes a handler for a specific event type
func (em *EventManager) Unsubscribe(eventType EventType, sub Subscription) {
	handlers, exists := em.subscribers[eventType]
	if !exists {
		return
	}

	// Create a new slice without the handler so an Emit in progress keeps its view
	newHandlers := make([]subscriber, 0, len(handlers))
	for _, h := range handlers {
		if h.id != sub {
			newHandlers = append(newHandlers, h)
		}
	}

	if len(newHandlers) == 0 {
		delete(em.subscribers, eventType)
	} else {
		em.subscribers[eventType] = newHandlers
	}
}

// HasSubscribers reports whether anything listens for the event type
func (em *EventManager) HasSubscribers(eventType EventType) bool {
	return len(em.subscribers[eventType]) > 0
}

// Emit dispatches an event to all subscribed handlers
func (em *EventManager) Emit(event Event) {
	eventType := event.Type()
	handlers, exists := em.subscribers[eventType]
	if !exists {
		return
	}

	for _, h := range handlers {
		h.handler(event)
	}
}
