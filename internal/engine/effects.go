package engine

import (
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
	"github.com/jamesjt/Tirs-sub000/internal/logging"
)

// applyEffect applies one effect keyword to the resolved target set, in the
// fixed precedence order: condition id, terrain surface name, mechanical
// vocabulary, warn-and-skip. Returns whether anything was applied.
func (e *Engine) applyEffect(eff catalog.RuleEffect, rule catalog.AtomicRule, ctx *abilityContext, targets targetSet) bool {
	// 1. Condition ids apply to every target unit with the table-default
	// duration. The acting unit is the source (taunt negation needs it).
	if id := game.ConditionID(eff.Effect); knownCondition(id) {
		for _, u := range targets.units {
			e.AddCondition(u, id, defaultDurations[id], ctx.actor.ID, "")
			e.m.Logf(ctx.actor.Owner, u.Name+" gains "+string(id))
		}
		return len(targets.units) > 0
	}

	// 2. Terrain surface names place that terrain at the target hexes.
	if _, ok := e.cat.Surface(eff.Effect); ok {
		if e.queuing {
			valid := make([]hexgrid.Hex, 0, len(targets.hexes))
			for _, h := range targets.hexes {
				if e.m.ObjectiveAt(h) == nil && e.geo.Contains(h) {
					valid = append(valid, h)
				}
			}
			if len(valid) == 0 {
				return false
			}
			e.m.EffectQueue = append(e.m.EffectQueue, game.EffectQueueEntry{
				Type:    "create",
				UnitID:  ctx.actor.ID,
				Surface: eff.Effect,
				Valid:   valid,
				Player:  ctx.actor.Owner,
			})
			return true
		}
		applied := false
		for _, h := range targets.hexes {
			if e.placeTerrain(h, eff.Effect, ctx.actor.Owner) {
				applied = true
			}
		}
		return applied
	}

	// 3. Mechanical effect vocabulary.
	switch eff.Effect {
	case "push", "pull", "move":
		steps := eff.Value
		if steps <= 0 {
			steps = 1
		}
		applied := false
		for _, u := range targets.units {
			if !u.Alive() {
				continue
			}
			if e.queuing {
				e.m.EffectQueue = append(e.m.EffectQueue, game.EffectQueueEntry{
					Type:      eff.Effect,
					UnitID:    u.ID,
					Ref:       ctx.actor.Pos,
					Remaining: steps,
					Player:    ctx.actor.Owner,
				})
			} else {
				e.forcedMove(u, ctx.actor.Pos, eff.Effect, steps)
			}
			applied = true
		}
		return applied

	case "damage":
		dmg := eff.Value
		if eff.ValueKey == "unitDamage" {
			dmg = e.EffectiveStat(ctx.actor, "damage")
		}
		if dmg <= 0 {
			return false
		}
		applied := false
		for _, u := range targets.units {
			if !u.Alive() {
				continue
			}
			// Units the damage actually reached feed the allDamaged
			// selector of follow-up rules in the same dispatch.
			if e.damageUnit(u, dmg, damageSource{kind: sourceAbility, attacker: ctx.actor}) {
				ctx.damaged = append(ctx.damaged, u)
				applied = true
			}
		}
		return applied

	case "bonusDamage":
		// Adds to an already-resolved attack: raw damage to the attack's
		// target, armor already paid.
		if ctx.target == nil || !ctx.target.Alive() || eff.Value <= 0 {
			return false
		}
		if e.damageUnit(ctx.target, eff.Value, damageSource{kind: sourceAbility, attacker: ctx.actor}) {
			ctx.damaged = append(ctx.damaged, ctx.target)
		}
		return true

	case "armorReduce":
		applied := false
		for _, u := range targets.units {
			v := eff.Value
			if v <= 0 {
				v = 1
			}
			u.Armor -= v
			if u.Armor < 0 {
				u.Armor = 0
			}
			e.m.Logf(ctx.actor.Owner, u.Name+"'s armor is reduced")
			applied = true
		}
		return applied
	}

	// 4. Unrecognized spreadsheet content degrades gracefully.
	logging.Warn("unknown effect keyword", logging.Fields{"keyword": eff.Effect, "rule": rule.ID})
	return false
}

// placeTerrain puts a surface on a hex. Objective hexes never hold terrain.
func (e *Engine) placeTerrain(h hexgrid.Hex, surface string, p game.PlayerID) bool {
	if !e.geo.Contains(h) || e.m.ObjectiveAt(h) != nil {
		return false
	}
	e.m.Terrain[h] = game.TerrainCell{Surface: surface, Player: p}
	e.m.ChangedTerrain = append(e.m.ChangedTerrain, h)
	if t, ok := e.cat.Surface(surface); ok {
		e.m.Logf(p, t.DisplayName+" appears")
	}
	// A unit already standing there feels the new surface immediately.
	if u := e.m.UnitAt(h); u != nil {
		e.onEnterHex(u, h)
	}
	return true
}

// removeTerrain clears a hex's surface.
func (e *Engine) removeTerrain(h hexgrid.Hex) {
	if _, ok := e.m.Terrain[h]; ok {
		delete(e.m.Terrain, h)
		e.m.ChangedTerrain = append(e.m.ChangedTerrain, h)
	}
}

// forcedMove is the immediate (non-interactive) push/pull/move primitive:
// each step picks the first legal neighbor in direction order and stops when
// blocked or when the unit dies or is consumed.
func (e *Engine) forcedMove(u *game.Unit, ref hexgrid.Hex, kind string, steps int) {
	for i := 0; i < steps && u.Alive(); i++ {
		var next *hexgrid.Hex
		for _, n := range e.geo.Neighbors(u.Pos) {
			if !e.stepLegal(u, n) {
				continue
			}
			if !stepMatchesKind(kind, e.geo.Distance(ref, u.Pos), e.geo.Distance(ref, n)) {
				continue
			}
			h := n
			next = &h
			break
		}
		if next == nil {
			return
		}
		u.Pos = *next
		e.claimObjective(u)
		e.onEnterHex(u, *next)
	}
}

func stepMatchesKind(kind string, curDist, nextDist int) bool {
	switch kind {
	case "push":
		return nextDist > curDist
	case "pull":
		return nextDist < curDist
	default: // move: any direction
		return true
	}
}

// stepLegal reports whether a forced step may enter the hex: on board,
// unoccupied and not impassable.
func (e *Engine) stepLegal(u *game.Unit, h hexgrid.Hex) bool {
	if !e.geo.Contains(h) || e.m.UnitAt(h) != nil {
		return false
	}
	if e.surfaceHas(h, catalog.TagImpassable) && !e.unitFlag(u, flagIgnoreImpassable) {
		return false
	}
	return true
}

// --- Interactive effect queue -------------------------------------------

// HasPendingEffects gates whether an activation may auto-end.
func (e *Engine) HasPendingEffects() bool {
	return len(e.m.EffectQueue) > 0
}

// PeekEffect returns the front pending effect, or nil.
func (e *Engine) PeekEffect() *game.EffectQueueEntry {
	if len(e.m.EffectQueue) == 0 {
		return nil
	}
	entry := e.m.EffectQueue[0]
	return &entry
}

// EffectTargetHexes computes the legal destinations for the front pending
// effect. For push/pull/move entries the unit's own hex is always included
// as the "stay in place" decline option.
func (e *Engine) EffectTargetHexes() []hexgrid.Hex {
	if len(e.m.EffectQueue) == 0 {
		return nil
	}
	entry := e.m.EffectQueue[0]
	if entry.Type == "create" {
		return entry.Valid
	}
	u := e.m.UnitByID(entry.UnitID)
	if u == nil || !u.Alive() {
		return nil
	}
	out := []hexgrid.Hex{u.Pos}
	cur := e.geo.Distance(entry.Ref, u.Pos)
	for _, n := range e.geo.Neighbors(u.Pos) {
		if !e.stepLegal(u, n) {
			continue
		}
		if stepMatchesKind(entry.Type, cur, e.geo.Distance(entry.Ref, n)) {
			out = append(out, n)
		}
	}
	return out
}

// ResolveEffect commits one step of the front pending effect to the chosen
// hex. Choosing the unit's own hex declines the remaining steps. Terrain
// entry effects re-trigger on each committed step.
func (e *Engine) ResolveEffect(h hexgrid.Hex) bool {
	if len(e.m.EffectQueue) == 0 {
		return false
	}
	entry := &e.m.EffectQueue[0]

	if entry.Type == "create" {
		ok := false
		for _, v := range entry.Valid {
			if v == h {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
		e.placeTerrain(h, entry.Surface, entry.Player)
		e.popEffect()
		return true
	}

	u := e.m.UnitByID(entry.UnitID)
	if u == nil || !u.Alive() {
		e.popEffect()
		return true
	}
	if h == u.Pos {
		// Decline the remaining steps.
		e.popEffect()
		return true
	}
	legal := false
	for _, v := range e.EffectTargetHexes() {
		if v == h {
			legal = true
			break
		}
	}
	if !legal {
		return false
	}
	u.Pos = h
	e.claimObjective(u)
	e.onEnterHex(u, h)
	entry.Remaining--
	if entry.Remaining <= 0 || !u.Alive() {
		e.popEffect()
	}
	return true
}

// SkipEffect abandons all remaining steps of the front entry.
func (e *Engine) SkipEffect() bool {
	if len(e.m.EffectQueue) == 0 {
		return false
	}
	e.popEffect()
	return true
}

func (e *Engine) popEffect() {
	e.m.EffectQueue = e.m.EffectQueue[1:]
	if len(e.m.EffectQueue) == 0 {
		e.m.EffectQueue = nil
	}
	e.maybeAutoEnd()
}
