package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRoomCreated   EventType = "room_created"
	EventTypeRoomJoined    EventType = "room_joined"
	EventTypeRoomLeft      EventType = "room_left"
	EventTypeRoomDisbanded EventType = "room_disbanded"
	EventTypePollClosed    EventType = "poll_closed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RoomCreatedEvent is emitted after a guild creates a room
type RoomCreatedEvent struct {
	Room    string
	GuildID int64
}

func (e RoomCreatedEvent) Type() EventType {
	return EventTypeRoomCreated
}

// RoomJoinedEvent is emitted after a guild joins a room
type RoomJoinedEvent struct {
	Room    string
	GuildID int64
}

func (e RoomJoinedEvent) Type() EventType {
	return EventTypeRoomJoined
}

// RoomLeftEvent is emitted after a guild leaves a room or is removed from Discord
type RoomLeftEvent struct {
	Room    string
	GuildID int64
}

func (e RoomLeftEvent) Type() EventType {
	return EventTypeRoomLeft
}

// RoomDisbandedEvent carries the display channels of the former members,
// since the room no longer links them once the event is delivered
type RoomDisbandedEvent struct {
	Room           string
	OwnerGuildID   int64
	MemberChannels []int64
}

func (e RoomDisbandedEvent) Type() EventType {
	return EventTypeRoomDisbanded
}

// PollClosedEvent is emitted once a poll reaches its terminal state
type PollClosedEvent struct {
	PollID  string
	Room    string
	GuildID int64
	Votes   int
}

func (e PollClosedEvent) Type() EventType {
	return EventTypePollClosed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers. Handlers run on their
// own goroutines and a panicking handler does not affect the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Publish emits immediately. It lets the bus stand in wherever a publisher
// outside a unit of work is needed.
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// TransactionalBus holds events raised inside a unit of work until the
// transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Queued event until commit")
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit. Events get a fresh context so
// they outlive the request that produced them.
func (b *TransactionalBus) Flush() {
	for _, ev := range b.pending {
		b.real.Emit(context.Background(), ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
