package engine

import (
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
)

// SelectUnit starts an activation for one of the current player's
// non-activated living units. Selection pays off the unit's stored delayed
// attacks, applies invigorating terrain and fires the afterSelect trigger.
func (e *Engine) SelectUnit(unitID int) bool {
	m := e.m
	if m.Phase != game.PhaseBattle || m.Activation != nil {
		return false
	}
	if e.HasPendingEffects() || m.Burning != nil {
		return false
	}
	u := m.UnitByID(unitID)
	if u == nil || !u.Alive() || u.Activated || u.Owner != m.CurrentPlayer {
		return false
	}

	u.Activated = true
	m.Activation = &game.Activation{UnitID: u.ID}
	m.Logf(u.Owner, u.Name+" activates")

	e.resolveDelayed(u)
	if !u.Alive() {
		e.EndActivation()
		return true
	}

	if e.surfaceHas(u.Pos, catalog.TagInvigorating) {
		if u.Health < u.MaxHealth {
			u.Health++
			m.Logf(u.Owner, u.Name+" is invigorated and heals")
		} else {
			e.AddCondition(u, game.CondStrengthened, game.UntilAttack, -1, "")
			m.Logf(u.Owner, u.Name+" is invigorated and strengthened")
		}
	}

	e.dispatch("afterSelect", &abilityContext{actor: u, targetHex: u.Pos})
	if !u.Alive() {
		e.EndActivation()
	}
	return true
}

// resolveDelayed pays off delayed attacks stored by this unit on a prior
// activation. Damage is computed now, so armor and condition changes since
// the wind-up apply.
func (e *Engine) resolveDelayed(u *game.Unit) {
	var rest []game.DelayedEffect
	for _, d := range e.m.Delayed {
		if d.UnitID != u.ID {
			rest = append(rest, d)
			continue
		}
		target := e.m.UnitAt(d.Target)
		if target == nil || target.Owner == u.Owner {
			e.m.Logf(u.Owner, u.Name+"'s delayed strike finds nothing")
			continue
		}
		if e.shotBlocked(u, d.AttackPath) {
			e.m.Logf(u.Owner, u.Name+"'s delayed strike is blocked")
			continue
		}
		dmg := d.AtkDamage - e.EffectiveStat(target, "armor")
		if dmg < 1 {
			dmg = 1
		}
		e.m.Logf(u.Owner, u.Name+"'s delayed strike lands")
		e.damageUnit(target, dmg, damageSource{kind: sourceAttack, attacker: u})
	}
	e.m.Delayed = rest
}

// EndActivation closes the current activation: poison ticks, endOfActivation
// conditions clear and the turn passes.
func (e *Engine) EndActivation() bool {
	m := e.m
	if m.Phase != game.PhaseBattle || m.Activation == nil {
		return false
	}
	if e.HasPendingEffects() || m.Burning != nil {
		return false
	}
	u := m.ActiveUnit()
	if u != nil && u.Alive() {
		if stacks := e.CountCondition(u, game.CondPoisoned); stacks > 0 {
			e.damageUnit(u, stacks, damageSource{kind: sourceCondition})
		}
	}
	if u != nil {
		e.ClearConditions(u, game.EndOfActivation)
	}
	m.Activation = nil
	e.nextTurn()
	return true
}

// maybeAutoEnd closes the activation once both actions are spent, unless the
// table asks for an explicit confirmation or an interactive choice is still
// pending.
func (e *Engine) maybeAutoEnd() {
	m := e.m
	act := m.Activation
	if act == nil || m.Phase != game.PhaseBattle {
		return
	}
	if m.Rules.ConfirmEndTurn {
		return
	}
	if e.HasPendingEffects() || m.Burning != nil {
		return
	}
	u := m.ActiveUnit()
	if u != nil && !u.Alive() {
		e.EndActivation()
		return
	}
	if act.Moved && act.Attacked {
		e.EndActivation()
	}
}
