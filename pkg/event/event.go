// pkg/event/event.go
package event

import (
	"sync"
)

// Type represents the type of event
type Type string

// Arena event types
const (
	GameStarted   Type = "game_started"
	GameEnded     Type = "game_ended"
	WeaponFired   Type = "weapon_fired"
	ShipHit       Type = "ship_hit"
	ShipDestroyed Type = "ship_destroyed"
	KillRecorded  Type = "kill_recorded"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// Subscription identifies a registered handler.
type Subscription struct {
	bus       *Bus
	eventType Type
	id        uint64
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{bus: b, eventType: eventType, id: id}
}

// Cancel removes the subscription's handler. Cancelling twice is a no-op.
func (s *Subscription) Cancel() {
	b := s.bus
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[s.eventType]
	for i, sub := range subs {
		if sub.id == s.id {
			b.handlers[s.eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers. Handlers run
// synchronously on the caller's goroutine, in subscription order.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := b.handlers[event.GetType()]
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(event)
	}
}

// ShipEvent carries information about a ship-related event
type ShipEvent struct {
	BaseEvent
	PlayerID int
	Tick     uint64
}

// NewShipEvent creates a new ship event
func NewShipEvent(eventType Type, source interface{}, playerID int, tick uint64) *ShipEvent {
	return &ShipEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		PlayerID: playerID,
		Tick:     tick,
	}
}

// CombatEvent describes one ship acting on another: a hit or a kill.
type CombatEvent struct {
	BaseEvent
	AttackerID int
	TargetID   int
	Damage     int
	Tick       uint64
}

// NewCombatEvent creates a new combat event
func NewCombatEvent(eventType Type, source interface{}, attackerID, targetID, damage int, tick uint64) *CombatEvent {
	return &CombatEvent{
		BaseEvent: BaseEvent{
			EventType: eventType,
			Source:    source,
		},
		AttackerID: attackerID,
		TargetID:   targetID,
		Damage:     damage,
		Tick:       tick,
	}
}
