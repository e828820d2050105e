// Package domain defines the battle game snapshots the orchestrator reasons
// about: units, mine tasks, inventory and mine zones.
package domain

import "math"

// Class is the numeric unit class reported by the API.
type Class int

const (
	ClassSurge   Class = 1
	ClassSunken  Class = 2
	ClassPrime   Class = 3
	ClassBulk    Class = 4
	ClassCraboid Class = 5
	ClassRuined  Class = 6
	ClassGem     Class = 7
	ClassOrganic Class = 8
)

var classNames = map[Class]string{
	ClassSurge:   "SURGE",
	ClassSunken:  "SUNKEN",
	ClassPrime:   "PRIME",
	ClassBulk:    "BULK",
	ClassCraboid: "CRABOID",
	ClassRuined:  "RUINED",
	ClassGem:     "GEM",
	ClassOrganic: "ORGANIC",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Role is the team role derived from a class.
type Role int

const (
	RoleUnknown Role = iota
	RoleTank
	RoleDamage
	RoleSupport
)

func (r Role) String() string {
	switch r {
	case RoleTank:
		return "tank"
	case RoleDamage:
		return "damage"
	case RoleSupport:
		return "support"
	default:
		return "unknown"
	}
}

// Role maps the class to its mutually exclusive team role.
func (c Class) Role() Role {
	switch c {
	case ClassBulk, ClassSurge, ClassGem:
		return RoleTank
	case ClassPrime, ClassCraboid, ClassRuined:
		return RoleDamage
	case ClassSunken, ClassOrganic:
		return RoleSupport
	default:
		return RoleUnknown
	}
}

// Energy is a unit's remaining mining energy.
type Energy struct {
	Energy    int
	ResetTime int64
}

// Unit is a read-only snapshot of one crab.
type Unit struct {
	ID           int64
	Class        Class
	Level        int
	RealLevel    int
	Satiation    int
	MaxSatiation int
	CombatPower  int
	Energy       Energy
}

// Role returns the unit's team role.
func (u Unit) Role() Role {
	return u.Class.Role()
}

// MaxLevel is the nominal level. The API reports two level fields that are
// normally equal; the larger wins.
func (u Unit) MaxLevel() int {
	if u.RealLevel > u.Level {
		return u.RealLevel
	}
	return u.Level
}

// EffectiveLevel scales the nominal level by the satiation ratio, rounding
// up, floored at 1.
func (u Unit) EffectiveLevel() int {
	if u.MaxSatiation <= 0 {
		return 1
	}
	ratio := float64(u.Satiation) / float64(u.MaxSatiation)
	level := int(math.Ceil(ratio * float64(u.MaxLevel())))
	if level < 1 {
		return 1
	}
	return level
}

// PartitionByRole splits units into tank, damage and support pools,
// preserving order. Units with an unknown role are dropped.
func PartitionByRole(units []Unit) (tanks, damage, support []Unit) {
	for _, u := range units {
		switch u.Role() {
		case RoleTank:
			tanks = append(tanks, u)
		case RoleDamage:
			damage = append(damage, u)
		case RoleSupport:
			support = append(support, u)
		}
	}
	return tanks, damage, support
}
