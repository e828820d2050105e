package domain

import "time"

// Reward is one material line item of a mine.
type Reward struct {
	NodeID       int
	OriginItemID int64
	Amount       float64
}

// Mine is an open mine or loot task. Times are unix seconds.
type Mine struct {
	ID         int64
	NodeID     int
	MinerID    int64
	LooterID   int64
	WinnerID   int64
	Status     int
	StartTime  int64
	EndTime    int64
	AttackTime int64
	Rewards    []Reward
}

// IsComplete reports whether the mine has matured and can be claimed.
func (m Mine) IsComplete(now time.Time) bool {
	return now.Unix() > m.EndTime
}

// CanLooterClaim reports whether the loot can be claimed, allowing buffer
// after the attack time.
func (m Mine) CanLooterClaim(now time.Time, buffer time.Duration) bool {
	return now.Unix() > m.AttackTime+int64(buffer/time.Second)
}

// MinerWon reports whether the miner won the mine's battle.
func (m Mine) MinerWon() bool {
	return m.WinnerID == m.MinerID
}

// AmountFor returns the reward amount for a material, or 0.
func (m Mine) AmountFor(itemID int64) float64 {
	for _, r := range m.Rewards {
		if r.OriginItemID == itemID {
			return r.Amount
		}
	}
	return 0
}

// MineZone describes a campaign node.
type MineZone struct {
	NodeID     int
	IsMineZone bool
	Passed     bool
	CanAttack  bool
}

// IsAttackable reports whether mining is possible in the zone: it must be a
// mine zone the account has beaten and may attack.
func (z MineZone) IsAttackable() bool {
	return z.IsMineZone && z.Passed && z.CanAttack
}

// AttackableNodes returns the node ids of attackable zones.
func AttackableNodes(zones []MineZone) []int {
	var nodes []int
	for _, z := range zones {
		if z.IsAttackable() {
			nodes = append(nodes, z.NodeID)
		}
	}
	return nodes
}
