package engine

import (
	"testing"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

func TestBindAbilities_DropsUnknownNames(t *testing.T) {
	e := testEngine(3)
	bound := e.BindAbilities([]string{"Fleet", "Typo In Spreadsheet", "Pierce"})
	if len(bound) != 2 || bound[0] != "Fleet" || bound[1] != "Pierce" {
		t.Fatalf("bound = %v, want [Fleet Pierce]", bound)
	}
}

func TestDispatch_UnknownKeywordsDegradeGracefully(t *testing.T) {
	e := testEngine(3)
	attacker := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	defender := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 0})
	attacker.Abilities = append(attacker.Abilities, "Garble")
	mustSelect(t, e, attacker)

	if !e.AttackUnit(defender.Pos, 0) {
		t.Fatal("attack with a garbage on-hit rule must still resolve")
	}
	if defender.Health != 4 {
		t.Fatalf("defender health = %d, want 4 (plain attack only)", defender.Health)
	}
	if e.HasPendingEffects() {
		t.Fatal("unknown effect keywords must not queue anything")
	}
}

func TestRulePredicates(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})

	if !e.rulePredicate(u, "adjEnemies<1") {
		t.Fatal("no adjacent enemies: adjEnemies<1 must pass")
	}
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 0})
	if e.rulePredicate(u, "adjEnemies<1") {
		t.Fatal("one adjacent enemy: adjEnemies<1 must fail")
	}
	if !e.rulePredicate(u, "ifNotBurning") {
		t.Fatal("unit without burning: ifNotBurning must pass")
	}
	e.AddCondition(u, game.CondBurning, game.Permanent, -1, "")
	if e.rulePredicate(u, "ifNotBurning") {
		t.Fatal("burning unit: ifNotBurning must fail")
	}
	if !e.rulePredicate(u, "someFutureKeyword") {
		t.Fatal("unrecognized predicates must default to pass")
	}
}

func TestTaunt_RestrictsTargetsToTaunter(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	taunter := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 1, R: 1})
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 1})
	e.AddCondition(u, game.CondTaunted, game.EndOfRound, taunter.ID, "")
	mustSelect(t, e, u)

	targets := e.AttackTargets()
	if len(targets) != 1 || targets[0].UnitID != taunter.ID {
		t.Fatalf("targets = %+v, want only the taunter", targets)
	}
}

func TestTaunt_ForcesMoveWhenTaunterNeedsOne(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	taunter := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -1})
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 1})
	e.AddCondition(u, game.CondTaunted, game.EndOfRound, taunter.ID, "")
	mustSelect(t, e, u)

	if targets := e.AttackTargets(); len(targets) != 0 {
		t.Fatalf("targets = %+v, want none until the unit moves toward the taunter", targets)
	}
}

func TestTaunt_VoidWhenTaunterUnreachable(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 3})
	taunter := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -3})
	other := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 2})
	e.AddCondition(u, game.CondTaunted, game.EndOfRound, taunter.ID, "")
	mustSelect(t, e, u)

	targets := e.AttackTargets()
	if len(targets) != 1 || targets[0].UnitID != other.ID {
		t.Fatalf("targets = %+v, want the unrestricted set", targets)
	}
}

func TestEffectQueue_PushResolveAndDecline(t *testing.T) {
	e := testEngine(3)
	attacker := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	defender := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 0})
	attacker.Abilities = append(attacker.Abilities, "Shove")
	mustSelect(t, e, attacker)

	if !e.AttackUnit(defender.Pos, 0) {
		t.Fatal("attack failed")
	}
	if !e.HasPendingEffects() {
		t.Fatal("on-hit push must queue an interactive effect")
	}
	entry := e.PeekEffect()
	if entry.Type != "push" || entry.Remaining != 2 || entry.UnitID != defender.ID {
		t.Fatalf("entry = %+v, want push of 2 against the defender", entry)
	}

	hexes := e.EffectTargetHexes()
	stay := false
	var away *hexgrid.Hex
	for _, h := range hexes {
		if h == defender.Pos {
			stay = true
			continue
		}
		if e.geo.Distance(attacker.Pos, h) > e.geo.Distance(attacker.Pos, defender.Pos) {
			c := h
			away = &c
		}
	}
	if !stay {
		t.Fatal("target hexes must include staying in place as a decline option")
	}
	if away == nil {
		t.Fatal("push must offer at least one hex further from the attacker")
	}

	if !e.ResolveEffect(*away) {
		t.Fatal("first push step failed")
	}
	if defender.Pos != *away {
		t.Fatalf("defender at %v, want %v", defender.Pos, *away)
	}
	if e.PeekEffect() == nil || e.PeekEffect().Remaining != 1 {
		t.Fatal("one push step must remain")
	}
	if !e.ResolveEffect(defender.Pos) {
		t.Fatal("declining the last step failed")
	}
	if e.HasPendingEffects() {
		t.Fatal("decline must pop the entry")
	}
}

func TestExecuteAction_OncePerGameAndCost(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "archer", hexgrid.Hex{Q: 0, R: 1})
	u.Abilities = append(u.Abilities, "Volley")
	victim := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -1})
	nearby := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 1, R: -1})
	mustSelect(t, e, u)

	actions := e.Actions(u)
	found := false
	for _, a := range actions {
		if a.Name == "Volley" && a.Cost == "attack" {
			found = true
		}
	}
	if !found {
		t.Fatalf("actions = %+v, want Volley with attack cost", actions)
	}

	if !e.ExecuteAction("Volley", victim.Pos) {
		t.Fatal("action failed")
	}
	// unitsAroundTarget hits units near the hex, excluding the unit on it.
	if victim.Health != 5 {
		t.Fatalf("victim health = %d, want untouched 5", victim.Health)
	}
	if nearby.Health != 4 {
		t.Fatalf("nearby health = %d, want 4", nearby.Health)
	}
	if !e.m.Activation.Attacked {
		t.Fatal("attack-cost action must spend the attack")
	}
	if e.ExecuteAction("Volley", victim.Pos) {
		t.Fatal("once-per-game ability must not fire twice")
	}
}

func TestPassiveStatModifier(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	u.Abilities = append(u.Abilities, "Guard")
	if got := e.EffectiveStat(u, "armor"); got != 2 {
		t.Fatalf("armor = %d, want 2 with the Guard passive", got)
	}
}

func TestExecuteAction_EnforcesTargetingPattern(t *testing.T) {
	e := testEngine(3)
	e.cat.Rules["lance-action"] = catalog.AtomicRule{ID: "lance-action", Type: catalog.RuleAction, Target: "atkTarget", Range: 3, AtkType: game.AttackLine, Effects: []catalog.RuleEffect{{Effect: "damage", Value: 2}}}
	e.cat.Abilities["Lance"] = catalog.AbilityDef{Name: "Lance", RuleIDs: []string{"lance-action"}}

	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 0})
	u.Abilities = append(u.Abilities, "Lance")
	enemy := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 2, R: 0})
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 1, R: 0})
	mustSelect(t, e, u)

	if e.ExecuteAction("Lance", hexgrid.Hex{Q: 2, R: -1}) {
		t.Fatal("a Line ability must reject targets off the six hex lines")
	}
	if e.ExecuteAction("Lance", enemy.Pos) {
		t.Fatal("a unit on the line must block the targeted ability")
	}

	// Space-targeting only minds terrain: a unit on the line does not block
	// a shot at an empty hex, but cover does.
	spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 1, R: -1})
	if !e.ExecuteAction("Lance", hexgrid.Hex{Q: 2, R: -2}) {
		t.Fatal("space-targeting must ignore units on the line")
	}
	putTerrain(e, hexgrid.Hex{Q: -1, R: 1}, "forest", game.NoPlayer)
	if e.ExecuteAction("Lance", hexgrid.Hex{Q: -2, R: 2}) {
		t.Fatal("cover must still block space-targeting")
	}
}

func TestAllDamaged_SeesEveryUnitTheDamageReached(t *testing.T) {
	e := testEngine(3)
	e.cat.Rules["storm-action"] = catalog.AtomicRule{ID: "storm-action", Type: catalog.RuleAction, Target: "unitsAroundTarget", Range: 2, Effects: []catalog.RuleEffect{{Effect: "damage", Value: 1}}}
	e.cat.Rules["storm-burn"] = catalog.AtomicRule{ID: "storm-burn", Type: catalog.RuleHit, Target: "allDamaged", Effects: []catalog.RuleEffect{{Effect: "burning"}}}
	e.cat.Abilities["Firestorm"] = catalog.AbilityDef{Name: "Firestorm", RuleIDs: []string{"storm-action", "storm-burn"}}
	e.cat.Rules["gear-rule"] = catalog.AtomicRule{ID: "gear-rule", Type: catalog.RulePassive, Target: "self", Effects: []catalog.RuleEffect{{Effect: "protectiveGear"}}}
	e.cat.Abilities["Gear"] = catalog.AbilityDef{Name: "Gear", RuleIDs: []string{"gear-rule"}}

	u := spawn(e, game.Player1, "archer", hexgrid.Hex{Q: 0, R: 2})
	u.Abilities = append(u.Abilities, "Firestorm")
	center := hexgrid.Hex{Q: 0, R: 0}
	near := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 1, R: 0})
	far := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -1})
	geared := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: -1, R: 0})
	geared.Abilities = append(geared.Abilities, "Gear")
	mustSelect(t, e, u)

	if !e.ExecuteAction("Firestorm", center) {
		t.Fatal("action failed")
	}
	if near.Health != 4 || far.Health != 4 {
		t.Fatalf("healths = %d/%d, want 4/4 after the storm", near.Health, far.Health)
	}
	if !e.HasCondition(near, game.CondBurning) || !e.HasCondition(far, game.CondBurning) {
		t.Fatal("every unit the storm damaged must catch fire")
	}
	if geared.Health != 5 || e.HasCondition(geared, game.CondBurning) {
		t.Fatal("a unit whose gear absorbed the storm is not among the damaged")
	}
}
