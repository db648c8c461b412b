package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/proofofputt/duels/internal/event"
	"github.com/proofofputt/duels/internal/logger"
)

// Notification kinds delivered to players
const (
	KindDuelChallenge = "duel_challenge"
	KindDuelAccepted  = "duel_accepted"
	KindDuelDeclined  = "duel_declined"
	KindDuelCancelled = "duel_cancelled"
	KindDuelExpired   = "duel_expired"
	KindMatchResult   = "match_result"
	// KindSessionReminder nudges a participant who has not submitted yet.
	// Sent by downstream digest consumers, not by the lifecycle service.
	KindSessionReminder = "session_reminder"
)

// Notifier delivers in-app notifications to players
type Notifier interface {
	Notify(ctx context.Context, playerID uuid.UUID, kind string, data map[string]interface{}) error
}

// BusNotifier publishes notifications onto the event bus where downstream
// consumers (websocket fanout, push, digest jobs) pick them up.
type BusNotifier struct {
	bus event.Bus
}

// NewBusNotifier creates a Notifier backed by the given event bus
func NewBusNotifier(bus event.Bus) *BusNotifier {
	return &BusNotifier{bus: bus}
}

// Notify queues a notification for the player
func (n *BusNotifier) Notify(ctx context.Context, playerID uuid.UUID, kind string, data map[string]interface{}) error {
	evt := event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.NotificationQueue,
		Payload: event.NotificationPayloadV1{
			PlayerID: playerID,
			Kind:     kind,
			Data:     data,
		},
	}

	if err := n.bus.Publish(ctx, evt); err != nil {
		logger.Warn("Failed to queue notification", "player_id", playerID, "kind", kind, "error", err)
		return err
	}

	return nil
}

// NopNotifier discards notifications. Used in tests and one-shot tooling.
type NopNotifier struct{}

// Notify discards the notification
func (NopNotifier) Notify(context.Context, uuid.UUID, string, map[string]interface{}) error {
	return nil
}
