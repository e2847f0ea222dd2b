package engine

import (
	"testing"

	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

func TestUndoMove_TrueInverse(t *testing.T) {
	e := testEngine(3)
	obj := hexgrid.Hex{Q: 0, R: 0}
	e.m.Objectives = []*game.Objective{{Pos: obj, Value: 1, Owner: game.Player2}}
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	putTerrain(e, hexgrid.Hex{Q: 0, R: 1}, "lava", game.NoPlayer)
	mustSelect(t, e, u)

	prevPos := u.Pos
	prevHealth := u.Health
	prevConds := len(u.Conditions)
	prevLog := len(e.m.Log)

	// The move crosses dangerous terrain and flips objective control.
	if !e.MoveUnit(obj) {
		t.Fatal("move failed")
	}
	if u.Health == prevHealth || e.m.Objectives[0].Owner != game.Player1 {
		t.Fatal("move should have damaged the unit and flipped the objective")
	}

	if !e.UndoLastAction() {
		t.Fatal("undo failed")
	}
	if u.Pos != prevPos {
		t.Fatalf("position = %v, want %v", u.Pos, prevPos)
	}
	if u.Health != prevHealth {
		t.Fatalf("health = %d, want %d", u.Health, prevHealth)
	}
	if len(u.Conditions) != prevConds {
		t.Fatalf("conditions = %d, want %d", len(u.Conditions), prevConds)
	}
	if e.m.Objectives[0].Owner != game.Player2 {
		t.Fatal("objective control must revert")
	}
	if e.m.Activation.Moved || e.m.Activation.MoveDistance != 0 {
		t.Fatal("activation move budget must revert")
	}
	if len(e.m.Log) < prevLog {
		t.Fatal("log trimmed past the pre-action length")
	}
}

func TestUndoAttack_RestoresTargetAndBurning(t *testing.T) {
	e := testEngine(3)
	attacker := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	defender := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 0})
	e.AddCondition(attacker, game.CondBurning, game.Permanent, -1, "")
	mustSelect(t, e, attacker)

	if !e.AttackUnit(defender.Pos, 0) {
		t.Fatal("attack failed")
	}
	if defender.Health == 5 || attacker.Health == 5 {
		t.Fatal("attack and burning self-damage should both have landed")
	}
	if !e.UndoLastAction() {
		t.Fatal("undo failed")
	}
	if defender.Health != 5 || attacker.Health != 5 {
		t.Fatalf("healths = %d/%d, want 5/5", attacker.Health, defender.Health)
	}
	if e.m.Activation.Attacked {
		t.Fatal("attacked flag must revert")
	}
}

func TestUndo_RestoresOncePerGameCharge(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "archer", hexgrid.Hex{Q: 0, R: 1})
	u.Abilities = append(u.Abilities, "Volley")
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -1})
	mustSelect(t, e, u)

	if !e.ExecuteAction("Volley", hexgrid.Hex{Q: 0, R: -1}) {
		t.Fatal("action failed")
	}
	if !u.Spent["Volley"] {
		t.Fatal("once-per-game charge should be spent")
	}
	if !e.UndoLastAction() {
		t.Fatal("undo failed")
	}
	if u.Spent["Volley"] {
		t.Fatal("undo must restore the once-per-game charge")
	}
}

func TestUndo_GatedByTableRules(t *testing.T) {
	e := testEngine(3)
	e.m.Rules.CanUndoMove = false
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	mustSelect(t, e, u)

	if !e.MoveUnit(hexgrid.Hex{Q: 0, R: 1}) {
		t.Fatal("move failed")
	}
	if e.UndoLastAction() {
		t.Fatal("undo must respect the can-undo-move table rule")
	}
}

func TestUndo_OnlyMostRecentAction(t *testing.T) {
	e := testEngine(4)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	enemy := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: 0})
	mustSelect(t, e, u)

	if !e.MoveUnit(hexgrid.Hex{Q: 0, R: 1}) {
		t.Fatal("move failed")
	}
	if !e.AttackUnit(enemy.Pos, 0) {
		t.Fatal("attack failed")
	}
	if !e.UndoLastAction() {
		t.Fatal("undo of attack failed")
	}
	if u.Pos != (hexgrid.Hex{Q: 0, R: 1}) {
		t.Fatal("undoing the attack must not revert the earlier move")
	}
	if !e.UndoLastAction() {
		t.Fatal("undo of move failed")
	}
	if u.Pos != (hexgrid.Hex{Q: 0, R: 2}) {
		t.Fatal("second undo must revert the move")
	}
	if e.UndoLastAction() {
		t.Fatal("undo with empty history must be a no-op")
	}
}
