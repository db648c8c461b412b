package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type represents the type of an event
type Type string

// Common event types
const (
	DuelCreated       Type = "duel.created"
	DuelAccepted      Type = "duel.accepted"
	DuelDeclined      Type = "duel.declined"
	DuelCancelled     Type = "duel.cancelled"
	DuelCompleted     Type = "duel.completed"
	DuelExpired       Type = "duel.expired"
	SessionSubmitted  Type = "duel.session_submitted"
	NotificationQueue Type = "notification.queued"
)

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata interface{} `json:"metadata"`
}

// Typed event payloads for type safety

// DuelLifecyclePayloadV1 is the typed payload for duel lifecycle events
type DuelLifecyclePayloadV1 struct {
	DuelID          uuid.UUID  `json:"duel_id"`
	CreatorID       uuid.UUID  `json:"creator_id"`
	InvitedPlayerID *uuid.UUID `json:"invited_player_id,omitempty"`
	Status          string     `json:"status"`
	Timestamp       int64      `json:"timestamp"`
}

// DuelCompletedPayloadV1 is the typed payload for duel completion events
type DuelCompletedPayloadV1 struct {
	DuelID    uuid.UUID  `json:"duel_id"`
	CreatorID uuid.UUID  `json:"creator_id"`
	InvitedID uuid.UUID  `json:"invited_id"`
	WinnerID  *uuid.UUID `json:"winner_id,omitempty"` // nil means tie
	Method    string     `json:"method"`
	Timestamp int64      `json:"timestamp"`
}

// NotificationPayloadV1 is the typed payload for queued notifications
type NotificationPayloadV1 struct {
	PlayerID uuid.UUID              `json:"player_id"`
	Kind     string                 `json:"kind"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// NewDuelLifecycleEvent creates a lifecycle event for the given type
func NewDuelLifecycleEvent(t Type, duelID, creatorID uuid.UUID, invitedID *uuid.UUID, status string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    t,
		Payload: DuelLifecyclePayloadV1{
			DuelID:          duelID,
			CreatorID:       creatorID,
			InvitedPlayerID: invitedID,
			Status:          status,
			Timestamp:       time.Now().Unix(),
		},
	}
}

// NewDuelCompletedEvent creates a completion event with the winner
func NewDuelCompletedEvent(duelID, creatorID, invitedID uuid.UUID, winnerID *uuid.UUID, method string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DuelCompleted,
		Payload: DuelCompletedPayloadV1{
			DuelID:    duelID,
			CreatorID: creatorID,
			InvitedID: invitedID,
			WinnerID:  winnerID,
			Method:    method,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
