package engine

import (
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// moveCost returns the cost of entering a hex for the given unit: 0 on flow
// terrain owned by the mover, 2 on enemy-owned flow or difficult terrain,
// 1 otherwise.
func (e *Engine) moveCost(u *game.Unit) func(hexgrid.Hex) int {
	ignoreDifficult := e.unitFlag(u, flagIgnoreDifficult)
	return func(h hexgrid.Hex) int {
		cell, ok := e.m.Terrain[h]
		if !ok || cell.Surface == "" {
			return 1
		}
		t, ok := e.cat.Surface(cell.Surface)
		if !ok {
			return 1
		}
		if t.Has(catalog.TagFlow) {
			if cell.Player == u.Owner {
				return 0
			}
			return 2
		}
		if t.Has(catalog.TagDifficult) && !ignoreDifficult {
			return 2
		}
		return 1
	}
}

// remainingMove returns the move budget left in the current activation.
// Mobile units split their budget across several MoveUnit calls; everyone
// else commits it in one.
func (e *Engine) remainingMove(u *game.Unit) int {
	act := e.m.Activation
	if act == nil {
		return 0
	}
	mv := e.EffectiveStat(u, "move")
	if e.unitFlag(u, flagMobile) {
		left := mv - act.MoveDistance
		if left < 0 {
			left = 0
		}
		return left
	}
	if act.Moved {
		return 0
	}
	return mv
}

// MoveRange returns the reachable destination hexes of the active unit,
// labelled with movement cost. Enemy-occupied hexes block unless the unit
// moves through or into enemies; impassable terrain blocks unless ignored;
// occupied hexes are passable for allies but removed from the stoppable set.
// The computation is pure: calling it twice without mutating state yields
// identical sets.
func (e *Engine) MoveRange() map[hexgrid.Hex]int {
	act := e.m.Activation
	if act == nil || e.m.Phase != game.PhaseBattle {
		return nil
	}
	u := e.m.ActiveUnit()
	if u == nil || !u.Alive() {
		return nil
	}
	if e.HasCondition(u, game.CondDizzy) && act.Attacked {
		return map[hexgrid.Hex]int{}
	}
	budget := e.remainingMove(u)
	if budget <= 0 {
		return map[hexgrid.Hex]int{}
	}

	throughEnemies := e.unitFlag(u, flagMoveThroughEnemy)
	intoEnemies := e.unitFlag(u, flagMoveIntoEnemy)
	ignoreImpassable := e.unitFlag(u, flagIgnoreImpassable)

	blocked := map[hexgrid.Hex]bool{}
	for _, other := range e.m.Units {
		if other == u || !other.Alive() {
			continue
		}
		if other.Owner != u.Owner && !throughEnemies && !intoEnemies {
			blocked[other.Pos] = true
		}
	}
	for h := range e.m.Terrain {
		if e.surfaceHas(h, catalog.TagImpassable) && !ignoreImpassable {
			blocked[h] = true
		}
	}

	dist, parent := e.geo.Reachable(u.Pos, budget, blocked, e.moveCost(u))

	// Pass-through is allowed over allies (and enemies, with the flag) but
	// stopping on an occupied hex is not, unless the unit moves into
	// enemies. An enemy hex is only a destination if the occupant can be
	// tossed out of it.
	out := make(map[hexgrid.Hex]int, len(dist))
	for h, d := range dist {
		if h == u.Pos {
			continue
		}
		if occ := e.m.UnitAt(h); occ != nil {
			if !(intoEnemies && occ.Owner != u.Owner) {
				continue
			}
			if len(e.tossDestinations(occ, parent[h])) == 0 {
				continue
			}
		}
		out[h] = d
	}
	act.Parent = parent
	act.Reach = dist
	return out
}

// MoveUnit commits a move of the active unit to a destination in the current
// reachable set, walking the path hex by hex and applying terrain entry
// effects and movement triggers at each step. The walk halts early if the
// unit dies or is consumed.
func (e *Engine) MoveUnit(to hexgrid.Hex) bool {
	act := e.m.Activation
	if act == nil || e.m.Phase != game.PhaseBattle {
		return false
	}
	if e.HasPendingEffects() || e.m.Burning != nil {
		return false
	}
	u := e.m.ActiveUnit()
	if u == nil || !u.Alive() {
		return false
	}
	rangeSet := e.MoveRange()
	cost, ok := rangeSet[to]
	if !ok {
		return false
	}

	rec := e.beginUndo(game.UndoMove, u)

	path := e.geo.Path(u.Pos, to, act.Parent)
	if path == nil {
		return false
	}
	from := u.Pos
	tossed := false
	for _, h := range path {
		// Stopping on an enemy hex tosses the occupant; passing through
		// (moveThroughEnemies) leaves it in place.
		if occ := e.m.UnitAt(h); occ != nil && occ.Owner != u.Owner && h == to {
			if !e.tossAside(u, occ, from) {
				break
			}
			tossed = true
		}
		u.Pos = h
		e.claimObjective(u)
		e.dispatch("movement", &abilityContext{actor: u, targetHex: from})
		e.onEnterHex(u, h)
		if !u.Alive() {
			break
		}
		from = h
	}
	if tossed {
		rec.Kind = game.UndoToss
	}

	act.MoveDistance += cost
	if !e.unitFlag(u, flagMobile) || e.remainingMove(u) == 0 {
		act.Moved = true
	}
	// A dizzy unit that moves forecloses its attack, and vice versa.
	if e.HasCondition(u, game.CondDizzy) {
		act.Attacked = true
	}
	e.m.Logf(u.Owner, u.Name+" moves")
	e.commitUndo(rec)
	e.maybeAutoEnd()
	return true
}

// tossDestinations lists the hexes a defender may be thrown to when a unit
// enters its hex from the given approach hex: a legal forced step leading
// further away from the approach.
func (e *Engine) tossDestinations(defender *game.Unit, from hexgrid.Hex) []hexgrid.Hex {
	cur := e.geo.Distance(from, defender.Pos)
	var out []hexgrid.Hex
	for _, n := range e.geo.Neighbors(defender.Pos) {
		if e.stepLegal(defender, n) && e.geo.Distance(from, n) > cur {
			out = append(out, n)
		}
	}
	return out
}

// tossAside throws the defender out of the hex the mover is entering, onto
// the first destination in direction order. The thrown unit re-triggers
// terrain entry where it lands.
func (e *Engine) tossAside(mover, defender *game.Unit, from hexgrid.Hex) bool {
	dests := e.tossDestinations(defender, from)
	if len(dests) == 0 {
		return false
	}
	defender.Pos = dests[0]
	e.m.Logf(mover.Owner, mover.Name+" tosses "+defender.Name+" aside")
	e.claimObjective(defender)
	e.onEnterHex(defender, defender.Pos)
	return true
}

// onEnterHex applies terrain entry effects in fixed order: dangerous,
// poisonous, revealing, consuming. Each is individually skippable when the
// unit's abilities grant immunity to that tag.
func (e *Engine) onEnterHex(u *game.Unit, h hexgrid.Hex) {
	t, ok := e.surface(h)
	if !ok {
		return
	}
	if t.Has(catalog.TagDangerous) && !e.unitFlag(u, flagIgnoreDangerous) {
		e.damageUnit(u, 1, damageSource{kind: sourceTerrain, element: t.Element})
		if !u.Alive() {
			return
		}
	}
	if t.Has(catalog.TagPoisonous) && !e.unitFlag(u, flagIgnorePoisonous) {
		e.AddCondition(u, game.CondPoisoned, game.EndOfActivation, -1, "")
	}
	if t.Has(catalog.TagRevealing) && !e.unitFlag(u, flagIgnoreRevealing) {
		e.AddCondition(u, game.CondVulnerable, game.EndOfRound, -1, "revealing")
	}
	if t.Has(catalog.TagConsuming) && !e.unitFlag(u, flagIgnoreConsuming) {
		pos := h
		u.ConsumedAt = &pos
		u.Pos = hexgrid.OffBoard
		e.m.Consumed = append(e.m.Consumed, u.ID)
		e.m.Logf(u.Owner, u.Name+" is swallowed by "+t.DisplayName)
	}
}

// claimObjective flips control of an objective the unit stands on.
func (e *Engine) claimObjective(u *game.Unit) {
	if o := e.m.ObjectiveAt(u.Pos); o != nil && o.Owner != u.Owner {
		o.Owner = u.Owner
		e.m.Logf(u.Owner, u.Name+" claims an objective")
	}
}
