package app

import "time"

// Defaults for the orchestrator thresholds and delays.
const (
	DefaultPollInterval    = 30 * time.Second
	DefaultActionCooldown  = 5 * time.Second
	DefaultSettleDelay     = 5 * time.Second
	DefaultFeedDelay       = 2 * time.Second
	DefaultRefreshDelay    = time.Second
	DefaultLootClaimBuffer = 31 * time.Minute
	DefaultMineNode        = 5
	DefaultFeedThreshold   = 2
	DefaultMinSatiation    = 2
	DefaultMinEnergy       = 4
)

// Config holds the static thresholds for one run.
type Config struct {
	// PollInterval is the sleep between ticks.
	PollInterval time.Duration
	// SettleDelay follows a mutating call before the next dependent read.
	SettleDelay time.Duration
	// FeedDelay separates individual feed calls.
	FeedDelay time.Duration
	// RefreshDelay follows a re-fetch of inventory or units.
	RefreshDelay time.Duration
	// LootClaimBuffer is added to a loot's attack time before it can be claimed.
	LootClaimBuffer time.Duration
	// MineNode is the node mines are opened in.
	MineNode int
	// FeedThreshold feeds units whose satiation is below it.
	FeedThreshold int
	// MinSatiation and MinEnergy gate which units may mine.
	MinSatiation int
	MinEnergy    int
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		PollInterval:    DefaultPollInterval,
		SettleDelay:     DefaultSettleDelay,
		FeedDelay:       DefaultFeedDelay,
		RefreshDelay:    DefaultRefreshDelay,
		LootClaimBuffer: DefaultLootClaimBuffer,
		MineNode:        DefaultMineNode,
		FeedThreshold:   DefaultFeedThreshold,
		MinSatiation:    DefaultMinSatiation,
		MinEnergy:       DefaultMinEnergy,
	}
}

func (c Config) normalized() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.MineNode <= 0 {
		c.MineNode = DefaultMineNode
	}
	if c.LootClaimBuffer < 0 {
		c.LootClaimBuffer = 0
	}
	for _, d := range []*time.Duration{&c.SettleDelay, &c.FeedDelay, &c.RefreshDelay} {
		if *d < 0 {
			*d = 0
		}
	}
	return c
}
