package domain

// Inventory item ids for the level 1 materials and the sandwich food.
const (
	FlagID     int64 = 101001
	FloralID   int64 = 101002
	CoralID    int64 = 101003
	OctoID     int64 = 101004
	TentacraID int64 = 101005
	SandwichID int64 = 201001
)

// MaterialIDs lists the five convertible materials in recipe order.
var MaterialIDs = []int64{FlagID, FloralID, CoralID, OctoID, TentacraID}

// InventoryItem is one raw inventory line.
type InventoryItem struct {
	OriginItemID int64
	Amount       int
	Name         string
	Level        int
}

// InventorySummary counts the materials and food the orchestrator uses.
type InventorySummary struct {
	Flag     int
	Floral   int
	Coral    int
	Octo     int
	Tentacra int
	Sandwich int
}

// Summarize aggregates raw inventory lines. Later lines for the same item
// replace earlier ones.
func Summarize(items []InventoryItem) InventorySummary {
	counts := make(map[int64]int, len(items))
	for _, item := range items {
		counts[item.OriginItemID] = item.Amount
	}
	return InventorySummary{
		Flag:     counts[FlagID],
		Floral:   counts[FloralID],
		Coral:    counts[CoralID],
		Octo:     counts[OctoID],
		Tentacra: counts[TentacraID],
		Sandwich: counts[SandwichID],
	}
}

// Count returns the stock for a material or food id.
func (s InventorySummary) Count(itemID int64) int {
	switch itemID {
	case FlagID:
		return s.Flag
	case FloralID:
		return s.Floral
	case CoralID:
		return s.Coral
	case OctoID:
		return s.Octo
	case TentacraID:
		return s.Tentacra
	case SandwichID:
		return s.Sandwich
	default:
		return 0
	}
}

// ConvertAvailable is the number of recipe batches the materials support:
// the minimum over the five material counts.
func (s InventorySummary) ConvertAvailable() int {
	available := s.Flag
	for _, id := range MaterialIDs[1:] {
		if c := s.Count(id); c < available {
			available = c
		}
	}
	if available < 0 {
		return 0
	}
	return available
}

// RarestMaterial returns the material id with the lowest stock. Ties go to
// the earlier id.
func (s InventorySummary) RarestMaterial() int64 {
	rarest := MaterialIDs[0]
	for _, id := range MaterialIDs[1:] {
		if s.Count(id) < s.Count(rarest) {
			rarest = id
		}
	}
	return rarest
}

// FoodPlan is the food acquisition decision for one tick.
type FoodPlan struct {
	// Shortfall is how much food is missing to hold one per unit.
	Shortfall int
	// Capacity is the number of conversions the materials allow.
	Capacity int
	// Craft is the amount to craft; zero means no action.
	Craft int
}

// Sufficient reports whether food already covers every unit.
func (p FoodPlan) Sufficient() bool {
	return p.Shortfall <= 0
}

// PlanFood decides how much food to craft so that there is one per unit.
// It is a pure function of its inputs.
func PlanFood(s InventorySummary, unitCount int) FoodPlan {
	plan := FoodPlan{
		Shortfall: unitCount - s.Sandwich,
		Capacity:  s.ConvertAvailable(),
	}
	if plan.Shortfall <= 0 {
		plan.Shortfall = 0
		return plan
	}
	plan.Craft = min(plan.Shortfall, plan.Capacity)
	return plan
}

// MoneyItem is one currency balance.
type MoneyItem struct {
	OriginItemID int64
	Amount       float64
	Name         string
}
