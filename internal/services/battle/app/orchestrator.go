// Package app runs the battle orchestrator: a single cooperative loop that
// snapshots remote state each tick and executes gated mutating actions.
package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	apperrors "github.com/louisbranch/battlebot/internal/platform/errors"
	platformotel "github.com/louisbranch/battlebot/internal/platform/otel"
	"github.com/louisbranch/battlebot/internal/services/battle/alert"
	"github.com/louisbranch/battlebot/internal/services/battle/cooldown"
	"github.com/louisbranch/battlebot/internal/services/battle/domain"
	"github.com/louisbranch/battlebot/internal/services/battle/storage"
	"github.com/louisbranch/battlebot/internal/services/battle/team"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService is the health check service name reporting loop status.
const HealthService = "battle.loop"

// ActionGateName names the global gate every mutating action passes.
const ActionGateName = "execute_action"

// actionGateKey is the single key all mutating actions share.
const actionGateKey = "0"

// allNodes lists open tasks across every node.
const allNodes = 0

// BattleAPI is the remote game state the orchestrator reads and mutates.
type BattleAPI interface {
	ListOpenMines(ctx context.Context, nodeID int) ([]domain.Mine, error)
	ListOpenLoots(ctx context.Context, nodeID int) ([]domain.Mine, error)
	ListAvailableUnits(ctx context.Context) ([]domain.Unit, error)
	SyncUnits(ctx context.Context) ([]domain.Unit, error)
	Inventory(ctx context.Context) ([]domain.InventoryItem, error)
	Money(ctx context.Context) ([]domain.MoneyItem, error)
	ListMineZones(ctx context.Context) ([]domain.MineZone, error)
	StartMine(ctx context.Context, nodeID int, f team.Formation) (domain.Mine, error)
	ClaimMine(ctx context.Context, mineID int64) error
	ClaimLoot(ctx context.Context, mineID int64) error
	FeedUnit(ctx context.Context, unitID, foodID int64) error
	CraftFood(ctx context.Context, amount int) error
	CraftCurrency(ctx context.Context, amount int) error
}

// ActionRecorder journals mutating action attempts.
type ActionRecorder interface {
	RecordAction(ctx context.Context, record storage.ActionRecord) error
}

// HealthReporter receives loop health transitions.
type HealthReporter interface {
	SetServingStatus(service string, status grpc_health_v1.HealthCheckResponse_ServingStatus)
}

// Sleeper pauses the loop; it returns early with ctx's error.
type Sleeper func(ctx context.Context, d time.Duration) error

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithSleeper replaces the context-aware timer sleep.
func WithSleeper(sleep Sleeper) Option {
	return func(o *Orchestrator) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// WithShuffle replaces the random shuffle applied to eligible units.
func WithShuffle(shuffle func([]domain.Unit)) Option {
	return func(o *Orchestrator) {
		if shuffle != nil {
			o.shuffle = shuffle
		}
	}
}

// WithTracer replaces the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *Orchestrator) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

// WithHealth reports loop status after every tick.
func WithHealth(health HealthReporter) Option {
	return func(o *Orchestrator) {
		o.health = health
	}
}

// Orchestrator decides and executes the actions for each tick.
type Orchestrator struct {
	api      BattleAPI
	gate     *cooldown.Gate
	sink     alert.Sink
	recorder ActionRecorder
	cfg      Config

	clock   func() time.Time
	sleep   Sleeper
	shuffle func([]domain.Unit)
	tracer  trace.Tracer
	health  HealthReporter
}

// New builds an orchestrator. A nil sink logs alerts; a nil recorder skips
// the journal.
func New(api BattleAPI, gate *cooldown.Gate, sink alert.Sink, recorder ActionRecorder, cfg Config, opts ...Option) *Orchestrator {
	if sink == nil {
		sink = alert.LogSink{}
	}
	o := &Orchestrator{
		api:      api,
		gate:     gate,
		sink:     sink,
		recorder: recorder,
		cfg:      cfg.normalized(),
		clock:    time.Now,
		sleep:    sleepContext,
		shuffle:  shuffleUnits,
		tracer:   platformotel.Tracer("battlebot/battle"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run announces the account balances, then ticks until ctx is done. A failed
// tick is reported and never stops the loop.
func (o *Orchestrator) Run(ctx context.Context) error {
	if o.api == nil {
		return fmt.Errorf("battle api is required")
	}
	log.Printf("game loop starting")
	o.announce(ctx)

	for {
		if err := o.Tick(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("battle tick: %v", err)
			o.sink.Notify(ctx, alert.Alert{Action: "Battle Loop", Content: err.Error(), Severity: tickSeverity(err)})
			o.setHealth(grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		} else {
			o.setHealth(grpc_health_v1.HealthCheckResponse_SERVING)
		}
		if err := o.sleep(ctx, o.cfg.PollInterval); err != nil {
			return nil
		}
	}
}

// tickSeverity reports remote and transport failures as warnings; anything
// else needs an operator.
func tickSeverity(err error) alert.Severity {
	if apperrors.CodeOf(err).Retryable() {
		return alert.SeverityWarn
	}
	return alert.SeverityError
}

// announce posts the startup balances. Failures are reported, not fatal.
func (o *Orchestrator) announce(ctx context.Context) {
	money, err := o.api.Money(ctx)
	if err != nil {
		log.Printf("fetch money: %v", err)
		o.sink.Notify(ctx, alert.Alert{Action: "Bot Starting", Content: "Unable to fetch money: " + err.Error(), Severity: alert.SeverityWarn})
		return
	}
	var b strings.Builder
	b.WriteString("Money in account")
	for _, m := range money {
		fmt.Fprintf(&b, "\n  %s: %s", m.Name, alert.FormatAmount(m.Amount))
	}
	o.sink.Notify(ctx, alert.Alert{Action: "Bot Starting", Content: b.String(), Severity: alert.SeverityOK})
}

// tickState carries snapshots between dependent phases of one tick.
type tickState struct {
	inventory domain.InventorySummary
	available []domain.Unit
}

// Tick runs one pass of every phase in order. The first error aborts the
// rest of the tick.
func (o *Orchestrator) Tick(ctx context.Context) (err error) {
	ctx, span := o.tracer.Start(ctx, "battle.tick")
	defer func() { endSpan(span, err) }()

	log.Printf("looping through actions")
	var st tickState
	phases := []struct {
		name string
		run  func(context.Context) error
	}{
		{"close_mines", o.closeMines},
		{"close_loots", o.closeLoots},
		{"acquire_food", func(ctx context.Context) error { return o.acquireFood(ctx, &st) }},
		{"convert_currency", func(ctx context.Context) error { return o.convertCurrency(ctx, &st) }},
		{"feed_units", func(ctx context.Context) error { return o.feedUnits(ctx, &st) }},
	}
	for _, p := range phases {
		if err := o.phase(ctx, p.name, p.run); err != nil {
			return err
		}
	}

	var attackable bool
	if err := o.phase(ctx, "check_zones", func(ctx context.Context) error {
		var err error
		attackable, err = o.checkZones(ctx)
		return err
	}); err != nil {
		return err
	}
	if !attackable {
		return nil
	}
	return o.phase(ctx, "open_mines", func(ctx context.Context) error { return o.openMines(ctx, st.available) })
}

func (o *Orchestrator) phase(ctx context.Context, name string, run func(context.Context) error) (err error) {
	ctx, span := o.tracer.Start(ctx, "battle.phase."+name)
	defer func() { endSpan(span, err) }()
	return run(ctx)
}

func (o *Orchestrator) now() time.Time {
	return o.clock()
}

func (o *Orchestrator) setHealth(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	if o.health != nil {
		o.health.SetServingStatus(HealthService, status)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func shuffleUnits(units []domain.Unit) {
	rand.Shuffle(len(units), func(i, j int) { units[i], units[j] = units[j], units[i] })
}

func subjectAttr(id int64) attribute.KeyValue {
	return attribute.Int64("battle.subject_id", id)
}
