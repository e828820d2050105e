package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/battlebot/internal/services/battle/alert"
	"github.com/louisbranch/battlebot/internal/services/battle/cooldown"
	"github.com/louisbranch/battlebot/internal/services/battle/domain"
	"github.com/louisbranch/battlebot/internal/services/battle/storage"
	"github.com/louisbranch/battlebot/internal/services/battle/team"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// sequence returns successive responses, repeating the last one.
type sequence[T any] struct {
	responses [][]T
	calls     int
}

func (s *sequence[T]) next() []T {
	if len(s.responses) == 0 {
		return nil
	}
	i := min(s.calls, len(s.responses)-1)
	s.calls++
	return s.responses[i]
}

type fakeAPI struct {
	mines       sequence[domain.Mine]
	loots       sequence[domain.Mine]
	available   sequence[domain.Unit]
	allUnits    []domain.Unit
	inventories sequence[domain.InventoryItem]
	zones       []domain.MineZone
	money       []domain.MoneyItem

	// errs maps a method name to the error it returns.
	errs map[string]error

	calls           []string
	claimedMines    []int64
	claimedLoots    []int64
	fed             []int64
	craftedFood     []int
	craftedCurrency []int
	started         []team.Formation
	startedNodes    []int
}

func (f *fakeAPI) call(name string) error {
	f.calls = append(f.calls, name)
	return f.errs[name]
}

func (f *fakeAPI) ListOpenMines(context.Context, int) ([]domain.Mine, error) {
	if err := f.call("ListOpenMines"); err != nil {
		return nil, err
	}
	return f.mines.next(), nil
}

func (f *fakeAPI) ListOpenLoots(context.Context, int) ([]domain.Mine, error) {
	if err := f.call("ListOpenLoots"); err != nil {
		return nil, err
	}
	return f.loots.next(), nil
}

func (f *fakeAPI) ListAvailableUnits(context.Context) ([]domain.Unit, error) {
	if err := f.call("ListAvailableUnits"); err != nil {
		return nil, err
	}
	return f.available.next(), nil
}

func (f *fakeAPI) SyncUnits(context.Context) ([]domain.Unit, error) {
	if err := f.call("SyncUnits"); err != nil {
		return nil, err
	}
	return f.allUnits, nil
}

func (f *fakeAPI) Inventory(context.Context) ([]domain.InventoryItem, error) {
	if err := f.call("Inventory"); err != nil {
		return nil, err
	}
	return f.inventories.next(), nil
}

func (f *fakeAPI) Money(context.Context) ([]domain.MoneyItem, error) {
	if err := f.call("Money"); err != nil {
		return nil, err
	}
	return f.money, nil
}

func (f *fakeAPI) ListMineZones(context.Context) ([]domain.MineZone, error) {
	if err := f.call("ListMineZones"); err != nil {
		return nil, err
	}
	return f.zones, nil
}

func (f *fakeAPI) StartMine(_ context.Context, nodeID int, formation team.Formation) (domain.Mine, error) {
	if err := f.call("StartMine"); err != nil {
		return domain.Mine{}, err
	}
	f.started = append(f.started, formation)
	f.startedNodes = append(f.startedNodes, nodeID)
	return domain.Mine{ID: int64(len(f.started)), NodeID: nodeID}, nil
}

func (f *fakeAPI) ClaimMine(_ context.Context, mineID int64) error {
	if err := f.call("ClaimMine"); err != nil {
		return err
	}
	f.claimedMines = append(f.claimedMines, mineID)
	return nil
}

func (f *fakeAPI) ClaimLoot(_ context.Context, mineID int64) error {
	if err := f.call("ClaimLoot"); err != nil {
		return err
	}
	f.claimedLoots = append(f.claimedLoots, mineID)
	return nil
}

func (f *fakeAPI) FeedUnit(_ context.Context, unitID, _ int64) error {
	if err := f.call("FeedUnit"); err != nil {
		return err
	}
	f.fed = append(f.fed, unitID)
	return nil
}

func (f *fakeAPI) CraftFood(_ context.Context, amount int) error {
	if err := f.call("CraftFood"); err != nil {
		return err
	}
	f.craftedFood = append(f.craftedFood, amount)
	return nil
}

func (f *fakeAPI) CraftCurrency(_ context.Context, amount int) error {
	if err := f.call("CraftCurrency"); err != nil {
		return err
	}
	f.craftedCurrency = append(f.craftedCurrency, amount)
	return nil
}

// fakeClock advances only when the fake sleeper sleeps.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
	// cancelAfter cancels the context once this many poll sleeps happened.
	cancelAfter int
	poll        time.Duration
	cancel      context.CancelFunc
	polls       int
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	if c.poll > 0 && d == c.poll {
		c.polls++
		if c.cancelAfter > 0 && c.polls >= c.cancelAfter && c.cancel != nil {
			c.cancel()
			return context.Canceled
		}
	}
	return nil
}

type recordingSink struct {
	mu     sync.Mutex
	alerts []alert.Alert
}

func (s *recordingSink) Notify(_ context.Context, a alert.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
}

func (s *recordingSink) find(action string, severity alert.Severity) []alert.Alert {
	var out []alert.Alert
	for _, a := range s.alerts {
		if a.Action == action && a.Severity == severity {
			out = append(out, a)
		}
	}
	return out
}

type recordingRecorder struct {
	records []storage.ActionRecord
	err     error
}

func (r *recordingRecorder) RecordAction(_ context.Context, rec storage.ActionRecord) error {
	r.records = append(r.records, rec)
	return r.err
}

func (r *recordingRecorder) outcomes(action string) []string {
	var out []string
	for _, rec := range r.records {
		if rec.Action == action {
			out = append(out, rec.Outcome)
		}
	}
	return out
}

type recordingHealth struct {
	statuses []grpc_health_v1.HealthCheckResponse_ServingStatus
}

func (h *recordingHealth) SetServingStatus(service string, status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	if service == HealthService {
		h.statuses = append(h.statuses, status)
	}
}

var errRemote = errors.New("remote failure")

type harness struct {
	api      *fakeAPI
	clock    *fakeClock
	sink     *recordingSink
	recorder *recordingRecorder
	health   *recordingHealth
	orch     *Orchestrator
}

// testConfig keeps the stock thresholds and delays.
func testConfig() Config {
	return DefaultConfig()
}

func newHarness(t *testing.T, api *fakeAPI, cfg Config) *harness {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1_653_400_000, 0).UTC()}
	h := &harness{
		api:      api,
		clock:    clock,
		sink:     &recordingSink{},
		recorder: &recordingRecorder{},
		health:   &recordingHealth{},
	}
	gate := cooldown.NewGate(ActionGateName, DefaultActionCooldown, clock.Now)
	h.orch = New(api, gate, h.sink, h.recorder, cfg,
		WithClock(clock.Now),
		WithSleeper(clock.Sleep),
		WithShuffle(func([]domain.Unit) {}),
		WithHealth(h.health),
	)
	return h
}

func unit(id int64, class domain.Class, satiation, energy int) domain.Unit {
	return domain.Unit{
		ID:           id,
		Class:        class,
		Level:        1,
		RealLevel:    1,
		Satiation:    satiation,
		MaxSatiation: 30,
		Energy:       domain.Energy{Energy: energy},
	}
}

func materials(n, food int) []domain.InventoryItem {
	items := make([]domain.InventoryItem, 0, len(domain.MaterialIDs)+1)
	for _, id := range domain.MaterialIDs {
		items = append(items, domain.InventoryItem{OriginItemID: id, Amount: n})
	}
	return append(items, domain.InventoryItem{OriginItemID: domain.SandwichID, Amount: food})
}

func unitsOfCount(n int) []domain.Unit {
	out := make([]domain.Unit, n)
	for i := range out {
		out[i] = unit(int64(i+1), domain.ClassBulk, 30, 6)
	}
	return out
}

func attackableZones() []domain.MineZone {
	return []domain.MineZone{{NodeID: DefaultMineNode, IsMineZone: true, Passed: true, CanAttack: true}}
}
