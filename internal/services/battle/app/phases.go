package app

import (
	"context"
	"fmt"
	"log"

	"github.com/louisbranch/battlebot/internal/services/battle/alert"
	"github.com/louisbranch/battlebot/internal/services/battle/domain"
	"github.com/louisbranch/battlebot/internal/services/battle/team"
)

// maxCloseRounds bounds the fetch-and-claim repetition within one tick.
const maxCloseRounds = 20

// closeMines claims every finished mine, refetching until none qualifies.
func (o *Orchestrator) closeMines(ctx context.Context) error {
	return o.closeRepeatedly(ctx, "mines", o.api.ListOpenMines,
		func(m domain.Mine) bool { return m.IsComplete(o.now()) },
		o.claimMine)
}

// closeLoots claims every loot past its attack time plus the buffer.
func (o *Orchestrator) closeLoots(ctx context.Context) error {
	return o.closeRepeatedly(ctx, "loots", o.api.ListOpenLoots,
		func(m domain.Mine) bool { return m.CanLooterClaim(o.now(), o.cfg.LootClaimBuffer) },
		o.claimLoot)
}

func (o *Orchestrator) closeRepeatedly(
	ctx context.Context,
	kind string,
	list func(context.Context, int) ([]domain.Mine, error),
	ready func(domain.Mine) bool,
	claim func(context.Context, domain.Mine) (bool, error),
) error {
	for round := 1; ; round++ {
		log.Printf("checking if %s need to be closed", kind)
		tasks, err := list(ctx, allNodes)
		if err != nil {
			return fmt.Errorf("list open %s: %w", kind, err)
		}
		closed := false
		for _, task := range tasks {
			if !ready(task) {
				continue
			}
			closed = true
			if _, err := claim(ctx, task); err != nil {
				return err
			}
			if err := o.sleep(ctx, o.cfg.SettleDelay); err != nil {
				return err
			}
		}
		if !closed {
			return nil
		}
		if round >= maxCloseRounds {
			log.Printf("close %s: still claimable after %d rounds, continuing next tick", kind, round)
			return nil
		}
	}
}

// acquireFood crafts enough food for one per unit when materials allow.
func (o *Orchestrator) acquireFood(ctx context.Context, st *tickState) error {
	units, err := o.api.SyncUnits(ctx)
	if err != nil {
		return fmt.Errorf("sync units: %w", err)
	}
	summary, err := o.inventory(ctx)
	if err != nil {
		return err
	}
	st.inventory = summary

	plan := domain.PlanFood(summary, len(units))
	if plan.Sufficient() {
		log.Printf("food level is sufficient: %d", summary.Sandwich)
		return nil
	}
	if plan.Craft == 0 {
		log.Printf("food level is deficient but unable to convert, wanted to make: %d", plan.Shortfall)
		return nil
	}

	if _, err := o.craftFood(ctx, plan.Craft); err != nil {
		return err
	}
	if err := o.sleep(ctx, o.cfg.SettleDelay); err != nil {
		return err
	}
	if st.inventory, err = o.inventory(ctx); err != nil {
		return err
	}
	return o.sleep(ctx, o.cfg.RefreshDelay)
}

// convertCurrency turns leftover material batches into currency.
func (o *Orchestrator) convertCurrency(ctx context.Context, st *tickState) error {
	capacity := st.inventory.ConvertAvailable()
	if capacity == 0 {
		log.Printf("insufficient materials to craft tus")
		return nil
	}
	if _, err := o.craftCurrency(ctx, capacity); err != nil {
		return err
	}
	return o.sleep(ctx, o.cfg.SettleDelay)
}

// feedUnits feeds hungry available units and refreshes the available list.
func (o *Orchestrator) feedUnits(ctx context.Context, st *tickState) error {
	available, err := o.api.ListAvailableUnits(ctx)
	if err != nil {
		return fmt.Errorf("list available units: %w", err)
	}
	st.available = available

	var hungry []domain.Unit
	for _, u := range available {
		if u.Satiation < o.cfg.FeedThreshold || u.EffectiveLevel() < u.MaxLevel() {
			hungry = append(hungry, u)
		}
	}
	if len(hungry) == 0 {
		log.Printf("no crabs need to be fed")
		return nil
	}
	if st.inventory.Sandwich == 0 {
		log.Printf("%d crabs need food but none is available", len(hungry))
		return nil
	}

	if _, err := o.feed(ctx, hungry); err != nil {
		return err
	}
	if err := o.sleep(ctx, o.cfg.SettleDelay); err != nil {
		return err
	}
	if st.available, err = o.api.ListAvailableUnits(ctx); err != nil {
		return fmt.Errorf("list available units: %w", err)
	}
	return o.sleep(ctx, o.cfg.RefreshDelay)
}

// checkZones reports whether any mine zone can be attacked.
func (o *Orchestrator) checkZones(ctx context.Context) (bool, error) {
	zones, err := o.api.ListMineZones(ctx)
	if err != nil {
		return false, fmt.Errorf("list mine zones: %w", err)
	}
	if len(domain.AttackableNodes(zones)) == 0 {
		log.Printf("no attackable mine zones")
		o.sink.Notify(ctx, alert.Alert{
			Action:   "Mining not available",
			Content:  "No zones available to attack; complete adventure mode",
			Severity: alert.SeverityWarn,
		})
		return false, nil
	}
	return true, nil
}

// openMines starts as many mines as the eligible units allow.
func (o *Orchestrator) openMines(ctx context.Context, available []domain.Unit) error {
	var eligible []domain.Unit
	for _, u := range available {
		if u.Satiation >= o.cfg.MinSatiation && u.Energy.Energy >= o.cfg.MinEnergy {
			eligible = append(eligible, u)
		}
	}
	if len(eligible) < 3 {
		log.Printf("not enough crabs to mine: %d", len(eligible))
		return nil
	}

	o.shuffle(eligible)
	t, d, s := domain.PartitionByRole(eligible)
	tanks, damage, support := team.Pool(t), team.Pool(d), team.Pool(s)
	log.Printf("trying to open %d mines in %d using %d tank %d damage %d support",
		len(eligible)/3, o.cfg.MineNode, tanks.Len(), damage.Len(), support.Len())

	for team.CanAssemble(&tanks, &damage, &support) {
		f := team.Assemble(&tanks, &damage, &support)
		if _, err := o.startMine(ctx, o.cfg.MineNode, f); err != nil {
			return err
		}
		if err := o.sleep(ctx, o.cfg.SettleDelay); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) inventory(ctx context.Context) (domain.InventorySummary, error) {
	items, err := o.api.Inventory(ctx)
	if err != nil {
		return domain.InventorySummary{}, fmt.Errorf("fetch inventory: %w", err)
	}
	return domain.Summarize(items), nil
}
