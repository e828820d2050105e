package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/battlebot/internal/platform/errors"
	"github.com/louisbranch/battlebot/internal/services/battle/domain"
	"github.com/louisbranch/battlebot/internal/services/battle/team"
)

// AllNodes lists tasks across every node.
const AllNodes = 0

func nodeParams(nodeID int) url.Values {
	return url.Values{"node_id": []string{strconv.Itoa(nodeID)}}
}

// RequestLoginCode asks the API to email a one-time login code.
func (c *Client) RequestLoginCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "email address is required")
	}
	params := url.Values{"email_address": []string{email}}
	return c.get(ctx, "/public/sub-user/get-login-code", params, false, nil)
}

// Login exchanges an emailed code for tokens.
func (c *Client) Login(ctx context.Context, email, code string) (LoginResult, error) {
	var out LoginResult
	err := c.post(ctx, "/public/sub-user/login", loginRequest{EmailAddress: email, Code: code}, false, &out)
	return out, err
}

// ListOpenMines returns the account's open mining tasks for nodeID.
func (c *Client) ListOpenMines(ctx context.Context, nodeID int) ([]domain.Mine, error) {
	return c.listMines(ctx, "/private/campaign/mine-zones/mine/open/miner", nodeID)
}

// ListOpenLoots returns the account's active looting tasks for nodeID.
func (c *Client) ListOpenLoots(ctx context.Context, nodeID int) ([]domain.Mine, error) {
	return c.listMines(ctx, "/private/campaign/mine-zones/mine/active/looting", nodeID)
}

func (c *Client) listMines(ctx context.Context, path string, nodeID int) ([]domain.Mine, error) {
	var wire []mineWire
	if err := c.get(ctx, path, nodeParams(nodeID), true, &wire); err != nil {
		return nil, err
	}
	mines := make([]domain.Mine, 0, len(wire))
	for _, w := range wire {
		mines = append(mines, w.toDomain())
	}
	return mines, nil
}

// ListAvailableUnits returns the units that can currently be sent mining.
func (c *Client) ListAvailableUnits(ctx context.Context) ([]domain.Unit, error) {
	return c.listUnits(ctx, "/private/crabada/mine")
}

// SyncUnits returns every unit the account owns.
func (c *Client) SyncUnits(ctx context.Context) ([]domain.Unit, error) {
	return c.listUnits(ctx, "/private/sync")
}

func (c *Client) listUnits(ctx context.Context, path string) ([]domain.Unit, error) {
	var wire []unitWire
	if err := c.get(ctx, path, nil, true, &wire); err != nil {
		return nil, err
	}
	units := make([]domain.Unit, 0, len(wire))
	for _, w := range wire {
		units = append(units, w.toDomain())
	}
	return units, nil
}

// Money returns the currency balances.
func (c *Client) Money(ctx context.Context) ([]domain.MoneyItem, error) {
	var wire []moneyWire
	if err := c.get(ctx, "/private/money/info", nil, true, &wire); err != nil {
		return nil, err
	}
	items := make([]domain.MoneyItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, domain.MoneyItem{OriginItemID: w.OriginItemID, Amount: w.Amount, Name: w.ItemName})
	}
	return items, nil
}

// Inventory returns the raw material and food lines.
func (c *Client) Inventory(ctx context.Context) ([]domain.InventoryItem, error) {
	var wire []inventoryWire
	if err := c.get(ctx, "/private/inventory/info", nil, true, &wire); err != nil {
		return nil, err
	}
	items := make([]domain.InventoryItem, 0, len(wire))
	for _, w := range wire {
		items = append(items, domain.InventoryItem{OriginItemID: w.OriginItemID, Amount: w.Amount, Name: w.ItemName, Level: w.Level})
	}
	return items, nil
}

// ListMineZones returns every mine zone and the account's access to it.
func (c *Client) ListMineZones(ctx context.Context) ([]domain.MineZone, error) {
	var wire []zoneWire
	if err := c.get(ctx, "/private/campaign/all/mine-zones", nil, true, &wire); err != nil {
		return nil, err
	}
	zones := make([]domain.MineZone, 0, len(wire))
	for _, w := range wire {
		zones = append(zones, domain.MineZone{NodeID: w.NodeID, IsMineZone: w.IsMineZone, Passed: w.Passed, CanAttack: w.CanAttack})
	}
	return zones, nil
}

// StartMine opens a mine in nodeID with the formation.
func (c *Client) StartMine(ctx context.Context, nodeID int, f team.Formation) (domain.Mine, error) {
	if err := f.Validate(); err != nil {
		return domain.Mine{}, apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid formation", err)
	}
	req := startMineRequest{
		NodeID:     nodeID,
		CrabadaID1: f[0].Unit.ID,
		CrabadaID2: f[1].Unit.ID,
		CrabadaID3: f[2].Unit.ID,
		P1:         string(f[0].Slot),
		P2:         string(f[1].Slot),
		P3:         string(f[2].Slot),
	}
	var wire mineWire
	if err := c.post(ctx, "/private/campaign/mine-zones/mine/create", req, true, &wire); err != nil {
		return domain.Mine{}, err
	}
	return wire.toDomain(), nil
}

// ClaimMine claims a finished mine.
func (c *Client) ClaimMine(ctx context.Context, mineID int64) error {
	return c.post(ctx, "/private/campaign/mine-zones/mine/claim", mineIDRequest{MineID: mineID}, true, nil)
}

// ClaimLoot claims a finished loot.
func (c *Client) ClaimLoot(ctx context.Context, mineID int64) error {
	return c.post(ctx, "/private/campaign/mine-zones/mine/looter-claim", mineIDRequest{MineID: mineID}, true, nil)
}

// FeedUnit feeds one unit a food item.
func (c *Client) FeedUnit(ctx context.Context, unitID, foodID int64) error {
	return c.post(ctx, "/private/crabada/eat", feedRequest{CrabadaID: unitID, FoodID: foodID}, true, nil)
}

// CraftFood converts amount sets of level 1 materials into sandwiches.
func (c *Client) CraftFood(ctx context.Context, amount int) error {
	return c.craft(ctx, newCraftRequest(recipeFood, domain.SandwichID, amount))
}

// CraftCurrency converts amount sets of level 1 materials into currency.
func (c *Client) CraftCurrency(ctx context.Context, amount int) error {
	return c.craft(ctx, newCraftRequest(recipeCurrency, currencyOutputID, amount))
}

func (c *Client) craft(ctx context.Context, req craftRequest) error {
	if req.Amount <= 0 {
		return apperrors.New(apperrors.CodeInvalidArgument, fmt.Sprintf("craft amount must be positive, got %d", req.Amount))
	}
	return c.post(ctx, "/private/crafting/money-food", req, true, nil)
}
