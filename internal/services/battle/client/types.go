package client

import (
	"github.com/louisbranch/battlebot/internal/services/battle/domain"
)

// LoginResult is the account and token data returned by Login.
type LoginResult struct {
	UserID       int64  `json:"user_id"`
	Owner        string `json:"owner"`
	Level        int    `json:"level"`
	CrabadaSlots int    `json:"crabada_slots"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type energyWire struct {
	Energy    int   `json:"energy"`
	ResetTime int64 `json:"reset_time"`
}

type unitWire struct {
	ID            int64      `json:"crabada_id"`
	Class         int        `json:"crabada_class"`
	Level         int        `json:"level"`
	RealLevel     int        `json:"real_level"`
	PowerLevel    int        `json:"power_level"`
	MaxPowerLevel int        `json:"max_power_level"`
	CombatPower   int        `json:"combat_power"`
	Energy        energyWire `json:"energy"`
}

func (w unitWire) toDomain() domain.Unit {
	return domain.Unit{
		ID:           w.ID,
		Class:        domain.Class(w.Class),
		Level:        w.Level,
		RealLevel:    w.RealLevel,
		Satiation:    w.PowerLevel,
		MaxSatiation: w.MaxPowerLevel,
		CombatPower:  w.CombatPower,
		Energy:       domain.Energy{Energy: w.Energy.Energy, ResetTime: w.Energy.ResetTime},
	}
}

type rewardWire struct {
	NodeID       int     `json:"node_id"`
	OriginItemID int64   `json:"origin_item_id"`
	Amount       float64 `json:"amount"`
}

type mineWire struct {
	ID         int64        `json:"mine_id"`
	NodeID     int          `json:"node_id"`
	MinerID    int64        `json:"miner_id"`
	LooterID   int64        `json:"looter_id"`
	WinnerID   int64        `json:"winner_id"`
	Status     int          `json:"status"`
	StartTime  int64        `json:"start_time"`
	EndTime    int64        `json:"end_time"`
	AttackTime int64        `json:"attack_time"`
	Rewards    []rewardWire `json:"rewards"`
}

func (w mineWire) toDomain() domain.Mine {
	m := domain.Mine{
		ID:         w.ID,
		NodeID:     w.NodeID,
		MinerID:    w.MinerID,
		LooterID:   w.LooterID,
		WinnerID:   w.WinnerID,
		Status:     w.Status,
		StartTime:  w.StartTime,
		EndTime:    w.EndTime,
		AttackTime: w.AttackTime,
	}
	for _, r := range w.Rewards {
		m.Rewards = append(m.Rewards, domain.Reward{NodeID: r.NodeID, OriginItemID: r.OriginItemID, Amount: r.Amount})
	}
	return m
}

type inventoryWire struct {
	OriginItemID int64  `json:"origin_item_id"`
	Amount       int    `json:"amount"`
	ItemName     string `json:"item_name"`
	Level        int    `json:"level"`
}

type moneyWire struct {
	OriginItemID int64   `json:"origin_item_id"`
	Amount       float64 `json:"amount"`
	ItemName     string  `json:"item_name"`
}

type zoneWire struct {
	NodeID     int  `json:"node_id"`
	IsMineZone bool `json:"is_mine_zone"`
	Passed     bool `json:"passed"`
	CanAttack  bool `json:"can_attack"`
}

// Request bodies. Field order is the serialized order.

type loginRequest struct {
	EmailAddress string `json:"email_address"`
	Code         string `json:"code"`
}

type mineIDRequest struct {
	MineID int64 `json:"mine_id"`
}

type startMineRequest struct {
	NodeID     int    `json:"node_id"`
	CrabadaID1 int64  `json:"crabada_id_1"`
	CrabadaID2 int64  `json:"crabada_id_2"`
	CrabadaID3 int64  `json:"crabada_id_3"`
	P1         string `json:"p1"`
	P2         string `json:"p2"`
	P3         string `json:"p3"`
}

type feedRequest struct {
	CrabadaID int64 `json:"crabada_id"`
	FoodID    int64 `json:"food_id"`
}

type craftRequest struct {
	RecipeID        int   `json:"recipe_id"`
	OutputID        int64 `json:"output_id"`
	Amount          int   `json:"amount"`
	Material1ID     int64 `json:"material_1_id"`
	Material1Amount int   `json:"material_1_amount"`
	Material2ID     int64 `json:"material_2_id"`
	Material2Amount int   `json:"material_2_amount"`
	Material3ID     int64 `json:"material_3_id"`
	Material3Amount int   `json:"material_3_amount"`
	Material4ID     int64 `json:"material_4_id"`
	Material4Amount int   `json:"material_4_amount"`
	Material5ID     int64 `json:"material_5_id"`
	Material5Amount int   `json:"material_5_amount"`
}

// Crafting recipes for the level 1 materials.
const (
	recipeCurrency = 1
	recipeFood     = 6

	currencyOutputID int64 = 1
)

func newCraftRequest(recipe int, output int64, amount int) craftRequest {
	return craftRequest{
		RecipeID:        recipe,
		OutputID:        output,
		Amount:          amount,
		Material1ID:     domain.FlagID,
		Material1Amount: amount,
		Material2ID:     domain.FloralID,
		Material2Amount: amount,
		Material3ID:     domain.CoralID,
		Material3Amount: amount,
		Material4ID:     domain.OctoID,
		Material4Amount: amount,
		Material5ID:     domain.TentacraID,
		Material5Amount: amount,
	}
}
