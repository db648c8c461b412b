package main

import (
	"context"
	"log"
	"time"

	"github.com/proofofputt/duels/internal/config"
	"github.com/proofofputt/duels/internal/database"
	"github.com/proofofputt/duels/internal/database/postgres"
	"github.com/proofofputt/duels/internal/delivery"
	"github.com/proofofputt/duels/internal/duel"
	"github.com/proofofputt/duels/internal/event"
	"github.com/proofofputt/duels/internal/invitation"
	"github.com/proofofputt/duels/internal/notify"
)

// One-shot expiry sweep for cron or manual runs. The server schedules the
// same pass internally; this binary exists for environments that prefer an
// external scheduler.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 5, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	duelRepo := postgres.NewDuelRepository(dbPool)
	playerRepo := postgres.NewPlayerRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)
	invitationRepo := postgres.NewInvitationRepository(dbPool)
	quotaRepo := postgres.NewQuotaRepository(dbPool)

	// The sweep mutates no invitations beyond expiry, so delivery channels
	// and notifications stay disconnected here.
	invitationService := invitation.NewService(invitationRepo, playerRepo, quotaRepo, map[string]delivery.Channel{}, notify.NopNotifier{}, cfg.InviteBaseURL)
	duelService := duel.NewService(duelRepo, playerRepo, sessionRepo, invitationService, notify.NopNotifier{}, event.NewMemoryBus())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	result, err := duelService.SweepExpired(ctx)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	log.Printf("Sweep complete: %d duels expired, %d invitations expired\n", result.DuelsExpired, result.InvitationsExpired)
}
