package engine

import (
	"strconv"
	"strings"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
	"github.com/jamesjt/Tirs-sub000/internal/logging"
)

// triggerToType routes trigger names to the atomic-rule type that answers
// them. roundStart and movement triggers are dispatched ad hoc by the round
// controller and the movement loop.
var triggerToType = map[string]catalog.RuleType{
	"afterAttack":  catalog.RuleHit,
	"statCalc":     catalog.RulePassive,
	"afterDeath":   catalog.RuleDeath,
	"afterSelect":  catalog.RuleActivation,
	"playerAction": catalog.RuleAction,
	"roundStart":   catalog.RuleRoundStart,
	"movement":     catalog.RuleMovement,
}

// Passive effect keywords the resolver reads as unit flags rather than
// applying as effects.
const (
	flagMobile           = "mobile"
	flagPiercing         = "piercing"
	flagIgnoreDifficult  = "ignoreDifficult"
	flagIgnoreImpassable = "ignoreImpassable"
	flagMoveThroughEnemy = "moveThroughEnemies"
	flagMoveIntoEnemy    = "moveIntoEnemies"
	flagIgnoreBaseArmor  = "ignoreBaseArmor"
	flagDelayedAttack    = "delayedAttack"
	flagProtectiveGear   = "protectiveGear"
	flagFireCharged      = "fireCharged"
	flagRedirectBurning  = "redirectBurning"
	flagIgnoreDangerous  = "ignoreDangerous"
	flagIgnorePoisonous  = "ignorePoisonous"
	flagIgnoreRevealing  = "ignoreRevealing"
	flagIgnoreConsuming  = "ignoreConsuming"
)

// abilityContext carries the situation a trigger fires in.
type abilityContext struct {
	actor     *game.Unit
	target    *game.Unit  // the attack's target, when there is one
	targetHex hexgrid.Hex // hex of the target or targeted space
	damaged   []*game.Unit
}

// BindAbilities resolves a template's special-rule names against the ability
// table. Unresolved names are a non-fatal warning: the unit simply lacks
// that ability.
func (e *Engine) BindAbilities(names []string) []string {
	bound := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := e.cat.Ability(n); !ok {
			logging.Warn("unit template references unknown ability", logging.Fields{"ability": n})
			continue
		}
		bound = append(bound, n)
	}
	return bound
}

// eachRule walks the acting unit's bound abilities in binding order and each
// ability's qualifying atomic rules in rule-id list order, skipping
// exhausted once-per-game abilities. fn returns false to stop.
func (e *Engine) eachRule(u *game.Unit, t catalog.RuleType, fn func(ability catalog.AbilityDef, rule catalog.AtomicRule) bool) {
	for _, name := range u.Abilities {
		def, ok := e.cat.Ability(name)
		if !ok {
			continue
		}
		if def.OncePerGame && u.Spent[name] {
			continue
		}
		for _, id := range def.RuleIDs {
			rule, ok := e.cat.Rule(id)
			if !ok || rule.Type != t {
				continue
			}
			if !fn(def, rule) {
				return
			}
		}
	}
}

// unitFlag reports whether any bound passive rule of the unit carries the
// given effect keyword.
func (e *Engine) unitFlag(u *game.Unit, flag string) bool {
	found := false
	e.eachRule(u, catalog.RulePassive, func(_ catalog.AbilityDef, r catalog.AtomicRule) bool {
		for _, eff := range r.Effects {
			if eff.Effect == flag {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// passiveModifier sums passive rule effects whose keyword names a stat.
func (e *Engine) passiveModifier(u *game.Unit, stat string) int {
	total := 0
	e.eachRule(u, catalog.RulePassive, func(_ catalog.AbilityDef, r catalog.AtomicRule) bool {
		for _, eff := range r.Effects {
			if eff.Effect == stat {
				total += eff.Value
			}
		}
		return true
	})
	return total
}

// dispatch fires one trigger for the acting unit: every bound ability with
// at least one atomic rule of the matching type runs its qualifying rules in
// order. Malformed data degrades to warnings, never a panic.
func (e *Engine) dispatch(trigger string, ctx *abilityContext) {
	t, ok := triggerToType[trigger]
	if !ok {
		logging.Warn("unknown ability trigger", logging.Fields{"keyword": trigger})
		return
	}
	if ctx == nil || ctx.actor == nil {
		return
	}
	prev := e.queuing
	e.queuing = true
	defer func() { e.queuing = prev }()

	type firing struct {
		def  catalog.AbilityDef
		rule catalog.AtomicRule
	}
	var firings []firing
	e.eachRule(ctx.actor, t, func(def catalog.AbilityDef, rule catalog.AtomicRule) bool {
		firings = append(firings, firing{def, rule})
		return true
	})
	for _, f := range firings {
		if !e.rulePredicate(ctx.actor, f.rule.Condition) {
			continue
		}
		targets := e.resolveTargets(f.rule, ctx)
		applied := false
		for _, eff := range f.rule.Effects {
			if e.applyEffect(eff, f.rule, ctx, targets) {
				applied = true
			}
		}
		if applied && f.def.OncePerGame {
			e.markSpent(ctx.actor, f.def.Name)
		}
	}
}

func (e *Engine) markSpent(u *game.Unit, ability string) {
	if u.Spent == nil {
		u.Spent = map[string]bool{}
	}
	u.Spent[ability] = true
}

// RefreshCharges clears every once-per-game spent mark ("fire charged").
func (e *Engine) RefreshCharges(u *game.Unit) {
	u.Spent = nil
}

// rulePredicate evaluates an atomic rule's condition keyword against the
// acting unit. Unrecognized predicates pass with a warning.
func (e *Engine) rulePredicate(actor *game.Unit, cond string) bool {
	if cond == "" {
		return true
	}
	if rest, ok := strings.CutPrefix(cond, "adjEnemies<"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil {
			logging.Warn("unparseable rule condition", logging.Fields{"keyword": cond})
			return true
		}
		count := 0
		for _, adj := range e.livingAdjacent(actor.Pos) {
			if adj.Owner != actor.Owner {
				count++
			}
		}
		return count < n
	}
	if rest, ok := strings.CutPrefix(cond, "ifNot"); ok && rest != "" {
		id := game.ConditionID(lowerFirst(rest))
		return !e.HasCondition(actor, id)
	}
	logging.Warn("unknown rule condition", logging.Fields{"keyword": cond})
	return true
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// AbilityAction is one player-activated ability of a unit, annotated with
// its action-cost tag.
type AbilityAction struct {
	Name string `json:"name"`
	Text string `json:"text,omitempty"`
	Cost string `json:"cost,omitempty"` // "move", "attack" or "" (free)
}

// Actions lists the unit's bound abilities that include an action-type rule
// and still have a charge available.
func (e *Engine) Actions(u *game.Unit) []AbilityAction {
	var out []AbilityAction
	seen := map[string]bool{}
	e.eachRule(u, catalog.RuleAction, func(def catalog.AbilityDef, rule catalog.AtomicRule) bool {
		if !seen[def.Name] {
			seen[def.Name] = true
			out = append(out, AbilityAction{Name: def.Name, Text: def.Text, Cost: rule.Cost})
		}
		return true
	})
	return out
}

// AbilityTargeting is the range/pattern contract of a targeted ability.
type AbilityTargeting struct {
	Range   int             `json:"range"`
	AtkType game.AttackType `json:"atk_type"`
	LOS     bool            `json:"los"`
	Cost    string          `json:"cost,omitempty"`
}

// Targeting returns the targeting contract of a named ability's action rule.
func (e *Engine) Targeting(u *game.Unit, ability string) (AbilityTargeting, bool) {
	def, ok := e.cat.Ability(ability)
	if !ok {
		return AbilityTargeting{}, false
	}
	for _, id := range def.RuleIDs {
		rule, ok := e.cat.Rule(id)
		if !ok || rule.Type != catalog.RuleAction {
			continue
		}
		at := rule.AtkType
		if at == "" {
			at = game.AttackDirect
		}
		return AbilityTargeting{Range: rule.Range, AtkType: at, LOS: rule.LOS, Cost: rule.Cost}, true
	}
	return AbilityTargeting{}, false
}

// ExecuteAction runs a targeted (player-activated) ability against a chosen
// hex: the action-type rules run first, then any sibling hit-type rules, so
// one call can both consume the resource and apply on-hit effects. The
// once-per-game charge is marked afterward.
func (e *Engine) ExecuteAction(ability string, targetHex hexgrid.Hex) bool {
	if e.m.Phase != game.PhaseBattle || e.m.Activation == nil {
		return false
	}
	if e.HasPendingEffects() || e.m.Burning != nil {
		return false
	}
	actor := e.m.ActiveUnit()
	if actor == nil || !actor.Alive() {
		return false
	}
	def, ok := e.cat.Ability(ability)
	if !ok {
		return false
	}
	if def.OncePerGame && actor.Spent[ability] {
		return false
	}
	bound := false
	for _, n := range actor.Abilities {
		if n == ability {
			bound = true
			break
		}
	}
	if !bound {
		return false
	}
	targeting, ok := e.Targeting(actor, ability)
	if !ok {
		return false
	}
	dist := e.geo.Distance(actor.Pos, targetHex)
	if targeting.Range > 0 && dist > targeting.Range {
		return false
	}
	if targeting.LOS && !e.lineOfSight(actor.Pos, targetHex) {
		return false
	}
	// The targeting pattern is enforced like an attack's; an empty hex is
	// space-targeting, where only terrain blocks.
	terrainOnly := e.m.UnitAt(targetHex) == nil
	switch targeting.AtkType {
	case game.AttackLine:
		dir, between := e.geo.StraightLineDir(actor.Pos, targetHex)
		if dir < 0 {
			return false
		}
		for _, h := range between {
			if e.blocksShot(actor, h, terrainOnly) {
				return false
			}
		}
	case game.AttackPath:
		if dist > 1 && e.firstClearPath(actor, actor.Pos, targetHex, terrainOnly) == nil {
			return false
		}
	}
	// Action-cost tags consume the activation budget.
	act := e.m.Activation
	switch targeting.Cost {
	case "move":
		if act.Moved {
			return false
		}
	case "attack":
		if act.Attacked {
			return false
		}
	}

	rec := e.beginAbilityUndo(actor, def.Name)

	ctx := &abilityContext{actor: actor, target: e.m.UnitAt(targetHex), targetHex: targetHex}
	prev := e.queuing
	e.queuing = true
	for _, id := range def.RuleIDs {
		rule, ok := e.cat.Rule(id)
		if !ok || rule.Type != catalog.RuleAction {
			continue
		}
		if !e.rulePredicate(actor, rule.Condition) {
			continue
		}
		targets := e.resolveTargets(rule, ctx)
		for _, eff := range rule.Effects {
			e.applyEffect(eff, rule, ctx, targets)
		}
	}
	for _, id := range def.RuleIDs {
		rule, ok := e.cat.Rule(id)
		if !ok || rule.Type != catalog.RuleHit {
			continue
		}
		if !e.rulePredicate(actor, rule.Condition) {
			continue
		}
		targets := e.resolveTargets(rule, ctx)
		for _, eff := range rule.Effects {
			e.applyEffect(eff, rule, ctx, targets)
		}
	}
	e.queuing = prev

	switch targeting.Cost {
	case "move":
		act.Moved = true
	case "attack":
		act.Attacked = true
	}
	if def.OncePerGame {
		e.markSpent(actor, def.Name)
		rec.SpentAbility = def.Name
	}
	e.commitUndo(rec)
	e.m.Logf(actor.Owner, actor.Name+" uses "+def.Name)
	e.maybeAutoEnd()
	return true
}
