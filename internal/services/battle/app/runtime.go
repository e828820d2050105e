package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/battlebot/internal/services/battle/alert"
	"github.com/louisbranch/battlebot/internal/services/battle/client"
	"github.com/louisbranch/battlebot/internal/services/battle/cooldown"
	"github.com/louisbranch/battlebot/internal/services/battle/keys"
	battlesqlite "github.com/louisbranch/battlebot/internal/services/battle/storage/sqlite"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// RuntimeConfig controls battle startup, dependencies and loop behavior.
type RuntimeConfig struct {
	// Port serves gRPC health checks; zero disables the server.
	Port     int
	APIURL   string
	KeysPath string
	DBPath   string

	ActionCooldown time.Duration
	Loop           Config

	DiscordWebhook  string
	DiscordPingUser int64
	ProfileAddress  string
}

const (
	defaultBattleDB = "data/battle.db"
)

// Run starts the battle runtime: journal store, API client, alert sinks,
// health server and the orchestrator loop. It returns when ctx is done.
func Run(ctx context.Context, cfg RuntimeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Port < 0 {
		return fmt.Errorf("port must be non-negative, got %d", cfg.Port)
	}
	if strings.TrimSpace(cfg.KeysPath) == "" {
		cfg.KeysPath = keys.DefaultPath
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = defaultBattleDB
	}

	k, err := keys.Load(cfg.KeysPath)
	if err != nil {
		return fmt.Errorf("load keys (run battle-login first): %w", err)
	}
	if exp, ok := k.AccessExpiry(); ok && k.Expired(time.Now()) {
		log.Printf("access token expired at %s; run battle-login to refresh it", exp.Format(time.RFC3339))
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create battle storage dir: %w", err)
		}
	}
	store, err := battlesqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open battle sqlite store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close battle sqlite store: %v", closeErr)
		}
	}()

	sink, err := newSink(cfg)
	if err != nil {
		return err
	}

	var healthServer *health.Server
	var grpcServer *grpc.Server
	var listener net.Listener
	if cfg.Port > 0 {
		listener, err = net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
		if err != nil {
			return fmt.Errorf("listen on battle port %d: %w", cfg.Port, err)
		}
		defer listener.Close()

		grpcServer = grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
		healthServer = health.NewServer()
		grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
		healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
		healthServer.SetServingStatus(HealthService, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	}

	opts := []Option{}
	if healthServer != nil {
		opts = append(opts, WithHealth(healthServer))
	}
	orch := New(
		client.New(cfg.APIURL, k.AccessToken),
		cooldown.NewGate(ActionGateName, cfg.ActionCooldown, nil),
		sink,
		store,
		cfg.Loop,
		opts...,
	)

	g, gctx := errgroup.WithContext(ctx)
	if grpcServer != nil {
		g.Go(func() error {
			log.Printf("battle health server listening at %v", listener.Addr())
			if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve health: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			healthServer.Shutdown()
			grpcServer.GracefulStop()
			return nil
		})
	}
	g.Go(func() error {
		return orch.Run(gctx)
	})
	return g.Wait()
}

func newSink(cfg RuntimeConfig) (alert.Sink, error) {
	if strings.TrimSpace(cfg.DiscordWebhook) == "" {
		return alert.LogSink{}, nil
	}
	discord, err := alert.NewDiscordSink(alert.DiscordConfig{
		WebhookURL:     cfg.DiscordWebhook,
		PingUser:       cfg.DiscordPingUser,
		ProfileAddress: cfg.ProfileAddress,
	})
	if err != nil {
		return nil, fmt.Errorf("configure discord alerts: %w", err)
	}
	return alert.Multi(alert.LogSink{}, discord), nil
}
