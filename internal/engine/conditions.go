package engine

import (
	"github.com/jamesjt/Tirs-sub000/internal/game"
)

// defaultDurations is the table-default lifetime applied when an ability
// effect names a condition without an explicit duration.
var defaultDurations = map[game.ConditionID]game.Duration{
	game.CondBurning:      game.Permanent,
	game.CondPoisoned:     game.EndOfActivation,
	game.CondProtected:    game.EndOfRound,
	game.CondVulnerable:   game.EndOfRound,
	game.CondStrengthened: game.EndOfRound,
	game.CondWeakness:     game.EndOfRound,
	game.CondBreak:        game.Permanent,
	game.CondTaunted:      game.EndOfRound,
	game.CondDizzy:        game.EndOfRound,
	game.CondArcFire:      game.Permanent,
}

// statModifiers maps condition ids to (stat, delta) pairs used by
// EffectiveStat.
var statModifiers = map[game.ConditionID]struct {
	stat  string
	delta int
}{
	game.CondProtected:    {"armor", +1},
	game.CondVulnerable:   {"armor", -1},
	game.CondStrengthened: {"damage", +1},
	game.CondWeakness:     {"damage", -1},
	game.CondBreak:        {"armor", -1},
}

// knownCondition reports whether the id belongs to the condition vocabulary.
func knownCondition(id game.ConditionID) bool {
	_, ok := defaultDurations[id]
	return ok
}

// AddCondition appends a condition instance unconditionally; stacking of the
// same id is allowed and counted.
func (e *Engine) AddCondition(u *game.Unit, id game.ConditionID, d game.Duration, sourceUnit int, sourceTag string) {
	u.Conditions = append(u.Conditions, game.Condition{ID: id, Duration: d, SourceUnit: sourceUnit, SourceTag: sourceTag})
}

// RemoveCondition removes the first instance of the id, if present.
func (e *Engine) RemoveCondition(u *game.Unit, id game.ConditionID) bool {
	for i, c := range u.Conditions {
		if c.ID == id {
			u.Conditions = append(u.Conditions[:i], u.Conditions[i+1:]...)
			return true
		}
	}
	return false
}

// HasCondition reports whether at least one instance of the id is active.
func (e *Engine) HasCondition(u *game.Unit, id game.ConditionID) bool {
	for _, c := range u.Conditions {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CountCondition returns the number of stacked instances of the id.
func (e *Engine) CountCondition(u *game.Unit, id game.ConditionID) int {
	n := 0
	for _, c := range u.Conditions {
		if c.ID == id {
			n++
		}
	}
	return n
}

// ClearConditions removes every condition whose duration tag equals d. Used
// at activation end, round end and after an attack.
func (e *Engine) ClearConditions(u *game.Unit, d game.Duration) {
	kept := u.Conditions[:0]
	for _, c := range u.Conditions {
		if c.Duration != d {
			kept = append(kept, c)
		}
	}
	u.Conditions = kept
}

// EffectiveStat computes base stat + condition modifiers + passive ability
// modifiers, then applies the type-specific clamps (damage floor 1, armor
// floor 0). It is pure with respect to its inputs: target-set computation
// calls it repeatedly.
func (e *Engine) EffectiveStat(u *game.Unit, stat string) int {
	v := 0
	switch stat {
	case "damage":
		v = u.Damage
	case "armor":
		v = u.Armor
	case "move":
		v = u.Move
	case "range":
		v = u.Range
	default:
		return 0
	}
	for _, c := range u.Conditions {
		if mod, ok := statModifiers[c.ID]; ok && mod.stat == stat {
			v += mod.delta
		}
	}
	v += e.passiveModifier(u, stat)
	switch stat {
	case "damage":
		if v < 1 {
			v = 1
		}
	case "armor", "move", "range":
		if v < 0 {
			v = 0
		}
	}
	return v
}

// conditionArmorDelta returns only the condition-granted armor modifiers,
// used when an attack ignores the defender's base armor.
func (e *Engine) conditionArmorDelta(u *game.Unit) int {
	v := 0
	for _, c := range u.Conditions {
		if mod, ok := statModifiers[c.ID]; ok && mod.stat == "armor" {
			v += mod.delta
		}
	}
	if v < 0 {
		v = 0
	}
	return v
}
