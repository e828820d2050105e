// Package team builds three-unit mining formations from role pools.
package team

import (
	"fmt"

	"github.com/louisbranch/battlebot/internal/services/battle/domain"
)

// Slot is a two-digit placement code: column (1 front, 2 back) then row
// (1 top, 2 middle, 3 bottom).
type Slot string

const (
	SlotFrontTop    Slot = "11"
	SlotFrontMiddle Slot = "12"
	SlotFrontBottom Slot = "13"
	SlotBackTop     Slot = "21"
	SlotBackMiddle  Slot = "22"
	SlotBackBottom  Slot = "23"
)

const (
	formationSize      = 3
	minimumPoolForTeam = formationSize
)

var (
	slotColumns = map[byte]string{'1': "F", '2': "B"}
	slotRows    = map[byte]string{'1': "T", '2': "M", '3': "B"}
)

// ParseSlot validates a slot code.
func ParseSlot(code string) (Slot, error) {
	if len(code) != 2 {
		return "", fmt.Errorf("invalid slot code %q", code)
	}
	if _, ok := slotColumns[code[0]]; !ok {
		return "", fmt.Errorf("invalid slot column in %q", code)
	}
	if _, ok := slotRows[code[1]]; !ok {
		return "", fmt.Errorf("invalid slot row in %q", code)
	}
	return Slot(code), nil
}

// String renders the slot as column and row letters, e.g. "11" is "FT".
func (s Slot) String() string {
	if len(s) != 2 {
		panic(fmt.Sprintf("team: invalid slot %q", string(s)))
	}
	col, ok := slotColumns[s[0]]
	if !ok {
		panic(fmt.Sprintf("team: invalid slot column %q", string(s)))
	}
	row, ok := slotRows[s[1]]
	if !ok {
		panic(fmt.Sprintf("team: invalid slot row %q", string(s)))
	}
	return col + row
}

// Member is one unit placed in a slot.
type Member struct {
	Unit domain.Unit
	Slot Slot
}

// Formation is exactly three placed units with distinct slots.
type Formation [formationSize]Member

// IDs returns the unit ids in member order.
func (f Formation) IDs() [formationSize]int64 {
	var ids [formationSize]int64
	for i, m := range f {
		ids[i] = m.Unit.ID
	}
	return ids
}

// Validate checks the formation uses distinct valid slots and distinct units.
func (f Formation) Validate() error {
	slots := make(map[Slot]bool, formationSize)
	units := make(map[int64]bool, formationSize)
	for _, m := range f {
		if _, err := ParseSlot(string(m.Slot)); err != nil {
			return err
		}
		if slots[m.Slot] {
			return fmt.Errorf("slot %s used twice", m.Slot)
		}
		if units[m.Unit.ID] {
			return fmt.Errorf("unit %d placed twice", m.Unit.ID)
		}
		slots[m.Slot] = true
		units[m.Unit.ID] = true
	}
	return nil
}

// Pool is a mutable pool of interchangeable units of one role. Units are
// taken from the end.
type Pool []domain.Unit

// Len returns the remaining units.
func (p *Pool) Len() int {
	return len(*p)
}

func (p *Pool) take() domain.Unit {
	old := *p
	u := old[len(old)-1]
	*p = old[:len(old)-1]
	return u
}

// takeFirst takes from the first non-empty pool in preference order.
func takeFirst(pools ...*Pool) domain.Unit {
	for _, p := range pools {
		if p.Len() > 0 {
			return p.take()
		}
	}
	panic("team: all pools empty")
}

// Remaining returns the combined size of the pools.
func Remaining(tanks, damage, support *Pool) int {
	return tanks.Len() + damage.Len() + support.Len()
}

// CanAssemble reports whether the pools hold enough units for a formation.
func CanAssemble(tanks, damage, support *Pool) bool {
	return Remaining(tanks, damage, support) >= minimumPoolForTeam
}

// Assemble consumes three units from the pools and places them.
//
// The front top slot prefers a tank, then support, then damage. The second
// unit comes from the larger of tank and support (ties to tank) into front
// middle when those outnumber damage, otherwise damage into back middle. The
// third prefers damage in back top, falling back to tank, support, then
// damage in front bottom.
//
// The combined pool size must be at least three; calling with fewer panics.
func Assemble(tanks, damage, support *Pool) Formation {
	if !CanAssemble(tanks, damage, support) {
		panic(fmt.Sprintf("team: need %d units, have %d", minimumPoolForTeam, Remaining(tanks, damage, support)))
	}

	var f Formation
	f[0] = Member{Unit: takeFirst(tanks, support, damage), Slot: SlotFrontTop}

	if tanks.Len()+support.Len() > damage.Len() {
		bigger := tanks
		if support.Len() > tanks.Len() {
			bigger = support
		}
		f[1] = Member{Unit: bigger.take(), Slot: SlotFrontMiddle}
	} else {
		f[1] = Member{Unit: damage.take(), Slot: SlotBackMiddle}
	}

	if damage.Len() > 0 {
		f[2] = Member{Unit: damage.take(), Slot: SlotBackTop}
	} else {
		f[2] = Member{Unit: takeFirst(tanks, support, damage), Slot: SlotFrontBottom}
	}
	return f
}
