package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/battlebot/internal/services/battle/alert"
	"github.com/louisbranch/battlebot/internal/services/battle/domain"
	"github.com/louisbranch/battlebot/internal/services/battle/storage"
	"github.com/louisbranch/battlebot/internal/services/battle/team"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Action names used in alerts and the journal.
const (
	ActionClaimMine     = "Claim Mine"
	ActionClaimLoot     = "Claim Loot"
	ActionCraftFood     = "Craft Food"
	ActionCraftCurrency = "Craft Tus"
	ActionFeedUnits     = "Feed Crabs"
	ActionStartMine     = "Start Mine"
)

// currencyPerBatch is the currency one material batch converts into.
const currencyPerBatch = 51

type action struct {
	name      string
	subjectID int64
	detail    string
}

type outcome struct {
	content string
	icon    string
}

// execute runs fn when the global gate grants it. A denied check skips the
// action and returns false with no error.
func (o *Orchestrator) execute(ctx context.Context, a action, fn func(context.Context) (outcome, error)) (ran bool, err error) {
	if !o.gate.Check(actionGateKey) {
		log.Printf("%s: cooldown active, skipping %s", strings.ToLower(a.name), a.detail)
		o.record(ctx, a, storage.OutcomeSkipped, nil)
		return false, nil
	}

	ctx, span := o.tracer.Start(ctx, "battle.action",
		trace.WithAttributes(attribute.String("battle.action", a.name), subjectAttr(a.subjectID)))
	defer func() { endSpan(span, err) }()

	log.Printf("%s: %s", strings.ToLower(a.name), a.detail)
	o.sink.Notify(ctx, alert.Alert{Action: a.name, Content: a.detail, Severity: alert.SeverityInfo, SubjectID: a.subjectID})

	out, err := fn(ctx)
	if err != nil {
		o.record(ctx, a, storage.OutcomeFailed, err)
		return true, fmt.Errorf("%s: %w", strings.ToLower(a.name), err)
	}
	o.record(ctx, a, storage.OutcomeSucceeded, nil)
	o.sink.Notify(ctx, alert.Alert{Action: a.name, Content: out.content, Severity: alert.SeverityOK, SubjectID: a.subjectID, Icon: out.icon})
	return true, nil
}

func (o *Orchestrator) record(ctx context.Context, a action, result string, cause error) {
	if o.recorder == nil {
		return
	}
	rec := storage.ActionRecord{
		Action:    a.name,
		SubjectID: a.subjectID,
		Detail:    a.detail,
		Outcome:   result,
		CreatedAt: o.now().UTC(),
	}
	if cause != nil {
		rec.LastError = cause.Error()
	}
	if err := o.recorder.RecordAction(ctx, rec); err != nil {
		log.Printf("record action %q: %v", a.name, err)
	}
}

func (o *Orchestrator) claimMine(ctx context.Context, m domain.Mine) (bool, error) {
	a := action{name: ActionClaimMine, subjectID: m.ID, detail: fmt.Sprintf("claim mine %d in node %d", m.ID, m.NodeID)}
	return o.execute(ctx, a, func(ctx context.Context) (outcome, error) {
		if err := o.api.ClaimMine(ctx, m.ID); err != nil {
			return outcome{}, err
		}
		if m.MinerWon() {
			return outcome{content: "You won!", icon: alert.IconWin}, nil
		}
		return outcome{content: "You lost.", icon: alert.IconLoss}, nil
	})
}

func (o *Orchestrator) claimLoot(ctx context.Context, m domain.Mine) (bool, error) {
	a := action{name: ActionClaimLoot, subjectID: m.ID, detail: fmt.Sprintf("claim loot %d in node %d", m.ID, m.NodeID)}
	return o.execute(ctx, a, func(ctx context.Context) (outcome, error) {
		if err := o.api.ClaimLoot(ctx, m.ID); err != nil {
			return outcome{}, err
		}
		return outcome{content: "Done"}, nil
	})
}

func (o *Orchestrator) craftFood(ctx context.Context, amount int) (bool, error) {
	a := action{name: ActionCraftFood, detail: fmt.Sprintf("craft %d sandwiches", amount)}
	return o.execute(ctx, a, func(ctx context.Context) (outcome, error) {
		if err := o.api.CraftFood(ctx, amount); err != nil {
			return outcome{}, err
		}
		return outcome{content: fmt.Sprintf("Crafted %s sandwiches", alert.FormatCount(amount))}, nil
	})
}

func (o *Orchestrator) craftCurrency(ctx context.Context, amount int) (bool, error) {
	a := action{name: ActionCraftCurrency, detail: fmt.Sprintf("craft %d currency batches", amount)}
	return o.execute(ctx, a, func(ctx context.Context) (outcome, error) {
		if err := o.api.CraftCurrency(ctx, amount); err != nil {
			return outcome{}, err
		}
		return outcome{content: fmt.Sprintf("Crafted %s tus", alert.FormatCount(amount*currencyPerBatch))}, nil
	})
}

// feed feeds every unit under one gate grant, pausing between calls.
func (o *Orchestrator) feed(ctx context.Context, units []domain.Unit) (bool, error) {
	a := action{name: ActionFeedUnits, detail: fmt.Sprintf("feed %d units", len(units))}
	return o.execute(ctx, a, func(ctx context.Context) (outcome, error) {
		for _, u := range units {
			if err := o.api.FeedUnit(ctx, u.ID, domain.SandwichID); err != nil {
				return outcome{}, fmt.Errorf("unit %d: %w", u.ID, err)
			}
			if err := o.sleep(ctx, o.cfg.FeedDelay); err != nil {
				return outcome{}, err
			}
		}
		return outcome{content: fmt.Sprintf("Fed %d crabs", len(units))}, nil
	})
}

func (o *Orchestrator) startMine(ctx context.Context, nodeID int, f team.Formation) (bool, error) {
	ids := f.IDs()
	a := action{name: ActionStartMine, detail: fmt.Sprintf("start mine with %d / %d / %d", ids[0], ids[1], ids[2])}
	return o.execute(ctx, a, func(ctx context.Context) (outcome, error) {
		if _, err := o.api.StartMine(ctx, nodeID, f); err != nil {
			return outcome{}, err
		}
		return outcome{content: formationSummary(nodeID, f)}, nil
	})
}

func formationSummary(nodeID int, f team.Formation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Started mine in node %d using:", nodeID)
	for _, m := range f {
		fmt.Fprintf(&b, "\n  %s(%d) in %s", m.Unit.Class, m.Unit.EffectiveLevel(), m.Slot)
	}
	return b.String()
}
