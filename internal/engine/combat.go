package engine

import (
	"fmt"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

type sourceKind string

const (
	sourceAttack    sourceKind = "attack"
	sourceTerrain   sourceKind = "terrain"
	sourceCondition sourceKind = "condition"
	sourceAbility   sourceKind = "ability"
)

// damageSource describes where damage came from, for the two cross-cutting
// rules evaluated inside damageUnit: protective gear zeroes all
// non-direct-attack damage, and fire charged refreshes once-per-game charges
// on damage from cinder terrain or an ally's ability.
type damageSource struct {
	kind     sourceKind
	element  string     // terrain element, e.g. "cinder"
	attacker *game.Unit // acting unit for attack/ability damage
}

// damageUnit is the single damage primitive every source funnels through.
// It reports whether any damage actually landed.
func (e *Engine) damageUnit(u *game.Unit, dmg int, src damageSource) bool {
	if dmg <= 0 || !u.Alive() {
		return false
	}
	if src.kind != sourceAttack && e.unitFlag(u, flagProtectiveGear) {
		e.m.Logf(u.Owner, u.Name+"'s protective gear absorbs the damage")
		return false
	}
	if e.unitFlag(u, flagFireCharged) {
		fromCinder := src.kind == sourceTerrain && src.element == "cinder"
		fromAlly := src.kind == sourceAbility && src.attacker != nil && src.attacker.Owner == u.Owner
		if fromCinder || fromAlly {
			e.RefreshCharges(u)
			e.m.Logf(u.Owner, u.Name+" is recharged by the flames")
		}
	}
	u.Health -= dmg
	var owner game.PlayerID
	if src.attacker != nil {
		owner = src.attacker.Owner
	} else {
		owner = u.Owner
	}
	e.m.Logf(owner, fmt.Sprintf("%s takes %d damage", u.Name, dmg))
	if u.Health <= 0 {
		e.m.Logf(u.Owner, u.Name+" is destroyed")
		if e.deferDeaths {
			e.deaths = append(e.deaths, pendingDeath{unit: u, killer: src.attacker})
		} else {
			e.dispatch("afterDeath", &abilityContext{actor: u, target: src.attacker, targetHex: u.Pos})
		}
	}
	return true
}

// flushDeaths dispatches the afterDeath triggers held back while an attack
// resolved, in destruction order. Deaths caused by a death rule itself
// dispatch inline.
func (e *Engine) flushDeaths() {
	e.deferDeaths = false
	for len(e.deaths) > 0 {
		d := e.deaths[0]
		e.deaths = e.deaths[1:]
		e.dispatch("afterDeath", &abilityContext{actor: d.unit, target: d.killer, targetHex: d.unit.Pos})
	}
	e.deaths = nil
}

// lineOfSight walks the hex line between two positions; intermediate cover
// terrain blocks sight.
func (e *Engine) lineOfSight(a, b hexgrid.Hex) bool {
	line := e.geo.Line(a, b)
	for i := 1; i < len(line)-1; i++ {
		if e.surfaceHas(line[i], catalog.TagCover) {
			return false
		}
	}
	return true
}

// blocksShot reports whether a hex stops Line/Path attacks passing through
// it: a living unit blocks (unless the attacker is piercing) and cover
// terrain always blocks.
func (e *Engine) blocksShot(attacker *game.Unit, h hexgrid.Hex, terrainOnly bool) bool {
	if e.surfaceHas(h, catalog.TagCover) {
		return true
	}
	if terrainOnly {
		return false
	}
	if e.m.UnitAt(h) != nil && !e.unitFlag(attacker, flagPiercing) {
		return true
	}
	return false
}

// canAttack validates range, concealment, line of sight and the attacker's
// targeting pattern against a target hex.
func (e *Engine) canAttack(attacker *game.Unit, targetHex hexgrid.Hex, terrainOnly bool) bool {
	dist := e.geo.Distance(attacker.Pos, targetHex)
	if dist < 1 || dist > e.EffectiveStat(attacker, "range") {
		return false
	}
	// Concealing terrain requires adjacency unless the target was revealed.
	if e.surfaceHas(targetHex, catalog.TagConcealing) && dist > 1 {
		revealed := false
		if tgt := e.m.UnitAt(targetHex); tgt != nil {
			for _, c := range tgt.Conditions {
				if c.ID == game.CondVulnerable && c.SourceTag == "revealing" {
					revealed = true
					break
				}
			}
		}
		if !revealed {
			return false
		}
	}
	if !e.lineOfSight(attacker.Pos, targetHex) {
		return false
	}
	switch attacker.AtkType {
	case game.AttackDirect:
		return true
	case game.AttackLine:
		dir, between := e.geo.StraightLineDir(attacker.Pos, targetHex)
		if dir < 0 {
			return false
		}
		for _, h := range between {
			if e.blocksShot(attacker, h, terrainOnly) {
				return false
			}
		}
		return true
	case game.AttackPath:
		if dist <= 1 {
			return true
		}
		return e.firstClearPath(attacker, attacker.Pos, targetHex, terrainOnly) != nil
	}
	return false
}

// firstClearPath returns the intermediate hexes of the first shortest path
// from a to b whose every intermediate is non-blocking, or nil when no such
// path exists. Neighbors are tried in direction order, so the result is
// deterministic.
func (e *Engine) firstClearPath(attacker *game.Unit, a, b hexgrid.Hex, terrainOnly bool) []hexgrid.Hex {
	total := e.geo.Distance(a, b)
	if total <= 1 {
		return nil
	}
	var walk func(cur hexgrid.Hex, step int, acc []hexgrid.Hex) []hexgrid.Hex
	walk = func(cur hexgrid.Hex, step int, acc []hexgrid.Hex) []hexgrid.Hex {
		if step == total {
			return acc
		}
		for _, n := range e.geo.Neighbors(cur) {
			if e.geo.Distance(n, b) != total-step {
				continue
			}
			if e.blocksShot(attacker, n, terrainOnly) {
				continue
			}
			if found := walk(n, step+1, append(acc, n)); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(a, 1, nil)
}

// shotPath records the hexes an attack travels through: the straight line
// for Line attackers, a clear shortest path for Path attackers, nothing for
// Direct attacks. Delayed attacks re-check this path at payoff.
func (e *Engine) shotPath(attacker *game.Unit, targetHex hexgrid.Hex) []hexgrid.Hex {
	switch attacker.AtkType {
	case game.AttackLine:
		_, between := e.geo.StraightLineDir(attacker.Pos, targetHex)
		return between
	case game.AttackPath:
		return e.firstClearPath(attacker, attacker.Pos, targetHex, false)
	}
	return nil
}

// computeDamage previews the damage an attack would deal right now.
func (e *Engine) computeDamage(attacker, target *game.Unit, bonus int) int {
	armor := e.EffectiveStat(target, "armor")
	if e.unitFlag(attacker, flagIgnoreBaseArmor) {
		armor = e.conditionArmorDelta(target)
	}
	dmg := e.EffectiveStat(attacker, "damage") + bonus - armor
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// AttackTarget is one legal target annotated with the damage it would take.
type AttackTarget struct {
	UnitID int         `json:"unit_id"`
	Pos    hexgrid.Hex `json:"pos"`
	Damage int         `json:"damage"`
}

// AttackTargets enumerates the enemies the active unit may attack, applying
// the taunt restriction: when a living taunter is attackable now, targets
// shrink to the taunters; when a taunter is only reachable via a move first,
// the current list is empty (move, then attack); when no taunter can ever be
// reached, the taunt is void for targeting and the unrestricted set stands.
func (e *Engine) AttackTargets() []AttackTarget {
	act := e.m.Activation
	if act == nil || e.m.Phase != game.PhaseBattle {
		return nil
	}
	u := e.m.ActiveUnit()
	if u == nil || !u.Alive() || act.Attacked {
		return nil
	}
	var all []AttackTarget
	for _, t := range e.m.Units {
		if !t.Alive() || t.Owner == u.Owner {
			continue
		}
		if e.canAttack(u, t.Pos, false) {
			all = append(all, AttackTarget{UnitID: t.ID, Pos: t.Pos, Damage: e.computeDamage(u, t, 0)})
		}
	}

	taunters := e.livingTaunters(u)
	if len(taunters) == 0 {
		return all
	}
	var restricted []AttackTarget
	for _, at := range all {
		if taunters[at.UnitID] {
			restricted = append(restricted, at)
		}
	}
	if len(restricted) > 0 {
		return restricted
	}
	if e.taunterReachableAfterMove(u, taunters) {
		return nil
	}
	return all
}

// livingTaunters returns the ids of living units that taunt u.
func (e *Engine) livingTaunters(u *game.Unit) map[int]bool {
	out := map[int]bool{}
	for _, c := range u.Conditions {
		if c.ID != game.CondTaunted || c.SourceUnit < 0 {
			continue
		}
		if src := e.m.UnitByID(c.SourceUnit); src != nil && src.Alive() {
			out[src.ID] = true
		}
	}
	return out
}

// taunterReachableAfterMove runs the hypothetical move-then-attack check:
// could the unit attack a taunter from any hex it can still move to?
func (e *Engine) taunterReachableAfterMove(u *game.Unit, taunters map[int]bool) bool {
	reach := e.MoveRange()
	if len(reach) == 0 {
		return false
	}
	orig := u.Pos
	defer func() { u.Pos = orig }()
	for h := range reach {
		u.Pos = h
		for id := range taunters {
			t := e.m.UnitByID(id)
			if t != nil && t.Alive() && e.canAttack(u, t.Pos, false) {
				return true
			}
		}
	}
	return false
}

// AttackUnit resolves an attack by the active unit against the living enemy
// at the hex. Delayed attackers store the intent instead, to be paid off at
// their next activation.
func (e *Engine) AttackUnit(targetHex hexgrid.Hex, bonus int) bool {
	act := e.m.Activation
	if act == nil || e.m.Phase != game.PhaseBattle {
		return false
	}
	if e.HasPendingEffects() || e.m.Burning != nil {
		return false
	}
	u := e.m.ActiveUnit()
	if u == nil || !u.Alive() || act.Attacked {
		return false
	}
	target := e.m.UnitAt(targetHex)
	if target == nil || target.Owner == u.Owner {
		return false
	}
	if !e.canAttack(u, targetHex, false) {
		return false
	}
	// Honor the taunt restriction computed by AttackTargets.
	allowed := false
	for _, at := range e.AttackTargets() {
		if at.UnitID == target.ID {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}

	rec := e.beginUndo(game.UndoAttack, u)

	shot := e.shotPath(u, targetHex)
	act.AttackPath = shot

	if e.unitFlag(u, flagDelayedAttack) {
		e.m.Delayed = append(e.m.Delayed, game.DelayedEffect{
			UnitID:     u.ID,
			Player:     u.Owner,
			Target:     targetHex,
			AtkDamage:  e.EffectiveStat(u, "damage") + bonus,
			Round:      e.m.Round,
			AttackPath: shot,
		})
		e.m.Logf(u.Owner, u.Name+" winds up a delayed strike")
	} else {
		dmg := e.computeDamage(u, target, bonus)
		e.deferDeaths = true
		e.damageUnit(target, dmg, damageSource{kind: sourceAttack, attacker: u})
		e.ClearConditions(u, game.UntilAttack)
		e.applyBurning(u)
		e.dispatch("afterAttack", &abilityContext{actor: u, target: target, targetHex: targetHex})
		e.flushDeaths()
	}

	act.Attacked = true
	if e.HasCondition(u, game.CondDizzy) {
		act.Moved = true
	}
	e.commitUndo(rec)
	e.maybeAutoEnd()
	return true
}

// shotBlocked reports whether a path recorded at wind-up is obstructed now:
// a unit or cover arriving on it since then bodyblocks the payoff.
func (e *Engine) shotBlocked(attacker *game.Unit, path []hexgrid.Hex) bool {
	for _, h := range path {
		if e.blocksShot(attacker, h, false) {
			return true
		}
	}
	return false
}

// applyBurning deals the attacker's stacked burning self-damage, pausing for
// a redirect choice when the unit carries a redirect ability and has an
// adjacent unit to pass the flames to.
func (e *Engine) applyBurning(u *game.Unit) {
	stacks := e.CountCondition(u, game.CondBurning)
	if stacks == 0 || !u.Alive() {
		return
	}
	if e.unitFlag(u, flagRedirectBurning) && len(e.livingAdjacent(u.Pos)) > 0 {
		e.m.Burning = &game.BurningRedirect{UnitID: u.ID, Damage: stacks}
		return
	}
	e.damageUnit(u, stacks, damageSource{kind: sourceCondition})
}

// RedirectBurning resolves a pending burning redirect: the chosen hex must
// hold the burning unit itself or an adjacent unit.
func (e *Engine) RedirectBurning(h hexgrid.Hex) bool {
	br := e.m.Burning
	if br == nil {
		return false
	}
	u := e.m.UnitByID(br.UnitID)
	if u == nil {
		e.m.Burning = nil
		return true
	}
	var victim *game.Unit
	if h == u.Pos {
		victim = u
	} else {
		for _, adj := range e.livingAdjacent(u.Pos) {
			if adj.Pos == h {
				victim = adj
				break
			}
		}
	}
	if victim == nil {
		return false
	}
	e.m.Burning = nil
	e.damageUnit(victim, br.Damage, damageSource{kind: sourceCondition})
	e.maybeAutoEnd()
	return true
}
