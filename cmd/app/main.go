package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/proofofputt/duels/internal/config"
	"github.com/proofofputt/duels/internal/database"
	"github.com/proofofputt/duels/internal/database/postgres"
	"github.com/proofofputt/duels/internal/delivery"
	"github.com/proofofputt/duels/internal/duel"
	"github.com/proofofputt/duels/internal/event"
	"github.com/proofofputt/duels/internal/invitation"
	"github.com/proofofputt/duels/internal/notify"
	"github.com/proofofputt/duels/internal/scheduler"
	"github.com/proofofputt/duels/internal/server"
	"github.com/proofofputt/duels/internal/worker"
)

const (
	dbMaxConns     = 25
	dbMaxIdleTime  = 30 * time.Minute
	dbMaxLifetime  = time.Hour
	workerCount    = 4
	workerQueue    = 100
	shutdownGrace  = 10 * time.Second
	deadLetterPath = "dead_letter_events.json"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	duelRepo := postgres.NewDuelRepository(dbPool)
	playerRepo := postgres.NewPlayerRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)
	invitationRepo := postgres.NewInvitationRepository(dbPool)
	quotaRepo := postgres.NewQuotaRepository(dbPool)

	bus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(bus, event.ResilientConfig{
		MaxRetries:     event.RetryMaxAttempts,
		RetryDelay:     event.RetryInitialDelaySeconds * time.Second,
		DeadLetterPath: deadLetterPath,
	})
	notifier := notify.NewBusNotifier(bus)

	channels := buildChannels(cfg)

	invitationService := invitation.NewService(invitationRepo, playerRepo, quotaRepo, channels, notifier, cfg.InviteBaseURL)
	duelService := duel.NewService(duelRepo, playerRepo, sessionRepo, invitationService, notifier, publisher)

	// Background expiry sweep
	pool := worker.NewPool(workerCount, workerQueue)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(time.Duration(cfg.SweepIntervalSeconds)*time.Second, worker.NewSweepJob(duelService))

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, cfg.ServiceName, cfg.Version, dbPool, duelService, invitationService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	sched.Stop()
	pool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// buildChannels wires outbound delivery channels from configuration. A channel
// with no credentials is still registered; it reports itself unconfigured on
// send so the caller gets a delivery failure instead of a missing channel.
func buildChannels(cfg *config.Config) map[string]delivery.Channel {
	email := delivery.NewEmailChannel(delivery.SMTPConfig{
		Host:    cfg.SMTPHost,
		Port:    cfg.SMTPPort,
		User:    cfg.SMTPUser,
		Pass:    cfg.SMTPPass,
		From:    cfg.SMTPFrom,
		Timeout: delivery.DefaultSendTimeout,
	})
	sms := delivery.NewSMSChannel(delivery.SMSConfig{
		AccountSID: cfg.SMSAccountSID,
		AuthToken:  cfg.SMSAuthToken,
		FromNumber: cfg.SMSFromNumber,
		BaseURL:    delivery.TwilioAPIBaseURL,
		Timeout:    delivery.DefaultSendTimeout,
	})

	return map[string]delivery.Channel{
		delivery.ChannelEmail: email,
		delivery.ChannelSMS:   sms,
	}
}
