// Package battle parses battle command flags and launches the mining loop.
package battle

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	entrypoint "github.com/louisbranch/battlebot/internal/platform/cmd"
	"github.com/louisbranch/battlebot/internal/platform/config"
	platformgrpc "github.com/louisbranch/battlebot/internal/platform/grpc"
	battleapp "github.com/louisbranch/battlebot/internal/services/battle/app"
)

// Config holds battle command configuration.
type Config struct {
	Port            int           `env:"BATTLEBOT_PORT" envDefault:"8095"`
	APIURL          string        `env:"BATTLEBOT_API_URL" envDefault:"https://battle-system-api.crabada.com"`
	KeysPath        string        `env:"BATTLEBOT_KEYS_PATH" envDefault:"battle_keys.json"`
	DBPath          string        `env:"BATTLEBOT_DB_PATH" envDefault:"data/battle.db"`
	PollInterval    time.Duration `env:"BATTLEBOT_POLL_INTERVAL" envDefault:"30s"`
	ActionCooldown  time.Duration `env:"BATTLEBOT_ACTION_COOLDOWN" envDefault:"5s"`
	SettleDelay     time.Duration `env:"BATTLEBOT_SETTLE_DELAY" envDefault:"5s"`
	FeedDelay       time.Duration `env:"BATTLEBOT_FEED_DELAY" envDefault:"2s"`
	RefreshDelay    time.Duration `env:"BATTLEBOT_REFRESH_DELAY" envDefault:"1s"`
	LootClaimBuffer time.Duration `env:"BATTLEBOT_LOOT_CLAIM_BUFFER" envDefault:"31m"`
	MineNode        int           `env:"BATTLEBOT_MINE_NODE" envDefault:"5"`
	FeedThreshold   int           `env:"BATTLEBOT_FEED_THRESHOLD" envDefault:"2"`
	MinSatiation    int           `env:"BATTLEBOT_MIN_SATIATION" envDefault:"2"`
	MinEnergy       int           `env:"BATTLEBOT_MIN_ENERGY" envDefault:"4"`
	DiscordWebhook  string        `env:"BATTLEBOT_DISCORD_WEBHOOK"`
	DiscordPingUser int64         `env:"BATTLEBOT_DISCORD_PING_USER" envDefault:"0"`
	ProfileAddress  string        `env:"BATTLEBOT_PROFILE_ADDRESS"`

	// History prints the newest journal records and exits when positive.
	History int
	// HealthCheck probes a running bot's health server and exits.
	HealthCheck bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The battle health gRPC server port (0 disables)")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "The battle API base URL")
	fs.StringVar(&cfg.KeysPath, "keys-path", cfg.KeysPath, "The token key file written by battle-login")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The action journal SQLite database path")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Sleep between ticks")
	fs.DurationVar(&cfg.ActionCooldown, "action-cooldown", cfg.ActionCooldown, "Minimum time between mutating actions (0 disables)")
	fs.DurationVar(&cfg.SettleDelay, "settle-delay", cfg.SettleDelay, "Delay after a mutating action before the next read")
	fs.DurationVar(&cfg.FeedDelay, "feed-delay", cfg.FeedDelay, "Delay between individual feed calls")
	fs.DurationVar(&cfg.RefreshDelay, "refresh-delay", cfg.RefreshDelay, "Delay after refetching inventory or units")
	fs.DurationVar(&cfg.LootClaimBuffer, "loot-claim-buffer", cfg.LootClaimBuffer, "Time after a loot's attack before it can be claimed")
	fs.IntVar(&cfg.MineNode, "mine-node", cfg.MineNode, "Node mines are opened in")
	fs.IntVar(&cfg.FeedThreshold, "feed-threshold", cfg.FeedThreshold, "Feed units with satiation below this")
	fs.IntVar(&cfg.MinSatiation, "min-satiation", cfg.MinSatiation, "Minimum satiation to mine")
	fs.IntVar(&cfg.MinEnergy, "min-energy", cfg.MinEnergy, "Minimum energy to mine")
	fs.StringVar(&cfg.DiscordWebhook, "discord-webhook", cfg.DiscordWebhook, "Discord webhook URL for alerts")
	fs.Int64Var(&cfg.DiscordPingUser, "discord-ping-user", cfg.DiscordPingUser, "Discord user mentioned on errors")
	fs.StringVar(&cfg.ProfileAddress, "profile-address", cfg.ProfileAddress, "Wallet address linked from alerts")
	fs.IntVar(&cfg.History, "history", 0, "Print the newest N journal records and exit")
	fs.BoolVar(&cfg.HealthCheck, "healthcheck", false, "Probe the running bot's health server on -port and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if err := config.Positive("poll interval", c.PollInterval); err != nil {
		return err
	}
	for _, d := range []struct {
		field string
		value time.Duration
	}{
		{"action cooldown", c.ActionCooldown},
		{"settle delay", c.SettleDelay},
		{"feed delay", c.FeedDelay},
		{"refresh delay", c.RefreshDelay},
		{"loot claim buffer", c.LootClaimBuffer},
	} {
		if err := config.NonNegative(d.field, d.value); err != nil {
			return err
		}
	}
	if c.Port < 0 {
		return fmt.Errorf("port must not be negative, got %d", c.Port)
	}
	if c.MineNode <= 0 {
		return fmt.Errorf("mine node must be positive, got %d", c.MineNode)
	}
	if c.History < 0 {
		return fmt.Errorf("history must not be negative, got %d", c.History)
	}
	if c.HealthCheck && c.Port == 0 {
		return fmt.Errorf("healthcheck requires a non-zero port")
	}
	return nil
}

// Run prints the journal when History is set, probes a running bot when
// HealthCheck is set, otherwise starts the battle runtime.
func Run(ctx context.Context, cfg Config) error {
	if cfg.HealthCheck {
		return healthCheck(ctx, cfg.Port)
	}
	if cfg.History > 0 {
		return battleapp.PrintHistory(ctx, cfg.DBPath, cfg.History, os.Stdout)
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBattle, func(ctx context.Context) error {
		return battleapp.Run(ctx, runtimeConfig(cfg))
	})
}

func healthCheck(ctx context.Context, port int) error {
	addr := net.JoinHostPort("localhost", strconv.Itoa(port))
	if err := platformgrpc.RequireServing(ctx, addr, battleapp.HealthService); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s SERVING\n", battleapp.HealthService)
	return nil
}

func runtimeConfig(cfg Config) battleapp.RuntimeConfig {
	return battleapp.RuntimeConfig{
		Port:           cfg.Port,
		APIURL:         cfg.APIURL,
		KeysPath:       cfg.KeysPath,
		DBPath:         cfg.DBPath,
		ActionCooldown: cfg.ActionCooldown,
		Loop: battleapp.Config{
			PollInterval:    cfg.PollInterval,
			SettleDelay:     cfg.SettleDelay,
			FeedDelay:       cfg.FeedDelay,
			RefreshDelay:    cfg.RefreshDelay,
			LootClaimBuffer: cfg.LootClaimBuffer,
			MineNode:        cfg.MineNode,
			FeedThreshold:   cfg.FeedThreshold,
			MinSatiation:    cfg.MinSatiation,
			MinEnergy:       cfg.MinEnergy,
		},
		DiscordWebhook:  cfg.DiscordWebhook,
		DiscordPingUser: cfg.DiscordPingUser,
		ProfileAddress:  cfg.ProfileAddress,
	}
}
