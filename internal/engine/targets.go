package engine

import (
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
	"github.com/jamesjt/Tirs-sub000/internal/logging"
)

// targetSet is the resolved target of one atomic rule: the affected units
// and the affected hexes. Condition and damage effects act on the units;
// terrain and creation effects act on the hexes.
type targetSet struct {
	units []*game.Unit
	hexes []hexgrid.Hex
}

func unitsToSet(units []*game.Unit) targetSet {
	ts := targetSet{units: units}
	for _, u := range units {
		ts.hexes = append(ts.hexes, u.Pos)
	}
	return ts
}

// resolveTargets maps a rule's target selector keyword to concrete units and
// hexes. Unknown selectors resolve to an empty set with a warning, never an
// error: rule tables are externally authored.
func (e *Engine) resolveTargets(rule catalog.AtomicRule, ctx *abilityContext) targetSet {
	targetHex := ctx.targetHex
	if ctx.target != nil {
		targetHex = ctx.target.Pos
	}
	switch rule.Target {
	case "atkTarget", "enemy":
		if ctx.target == nil {
			return targetSet{hexes: []hexgrid.Hex{targetHex}}
		}
		return unitsToSet([]*game.Unit{ctx.target})

	case "self":
		return unitsToSet([]*game.Unit{ctx.actor})

	case "adjacentToTarget":
		return unitsToSet(e.livingAdjacent(targetHex))

	case "emptyAdjacentToTarget":
		return targetSet{hexes: e.emptyAdjacent(targetHex)}

	case "selfAndAdjacent":
		hexes := append([]hexgrid.Hex{ctx.actor.Pos}, e.geo.Neighbors(ctx.actor.Pos)...)
		ts := targetSet{hexes: hexes}
		for _, h := range hexes {
			if u := e.m.UnitAt(h); u != nil {
				ts.units = append(ts.units, u)
			}
		}
		return ts

	case "lineToTarget":
		if _, between := e.geo.StraightLineDir(ctx.actor.Pos, targetHex); between != nil {
			var units []*game.Unit
			for _, h := range between {
				if u := e.m.UnitAt(h); u != nil {
					units = append(units, u)
				}
			}
			return unitsToSet(units)
		}
		return targetSet{}

	case "allDamaged":
		if len(ctx.damaged) > 0 {
			return unitsToSet(ctx.damaged)
		}
		if ctx.target != nil {
			return unitsToSet([]*game.Unit{ctx.target})
		}
		return targetSet{}

	case "unitsAroundTarget":
		radius := rule.Range
		if radius <= 0 {
			radius = 1
		}
		var units []*game.Unit
		for _, u := range e.m.Units {
			if !u.Alive() || u == ctx.target {
				continue
			}
			if d := e.geo.Distance(targetHex, u.Pos); d >= 1 && d <= radius {
				units = append(units, u)
			}
		}
		return unitsToSet(units)

	default:
		logging.Warn("unknown target selector", logging.Fields{"keyword": rule.Target, "rule": rule.ID})
		return targetSet{}
	}
}
