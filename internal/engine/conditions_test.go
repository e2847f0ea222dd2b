package engine

import (
	"testing"

	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

func TestEffectiveStat_ModifierTable(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})

	e.AddCondition(u, game.CondProtected, game.EndOfRound, -1, "")
	if got := e.EffectiveStat(u, "armor"); got != 2 {
		t.Fatalf("protected armor = %d, want 2", got)
	}
	e.AddCondition(u, game.CondVulnerable, game.EndOfRound, -1, "")
	e.AddCondition(u, game.CondBreak, game.Permanent, -1, "")
	if got := e.EffectiveStat(u, "armor"); got != 0 {
		t.Fatalf("armor after vulnerable+break = %d, want 0", got)
	}
	e.AddCondition(u, game.CondStrengthened, game.EndOfRound, -1, "")
	if got := e.EffectiveStat(u, "damage"); got != 3 {
		t.Fatalf("strengthened damage = %d, want 3", got)
	}
}

func TestEffectiveStat_DamageFloor(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "scout", hexgrid.Hex{Q: 0, R: 2})
	for i := 0; i < 5; i++ {
		e.AddCondition(u, game.CondWeakness, game.EndOfRound, -1, "")
	}
	if got := e.EffectiveStat(u, "damage"); got != 1 {
		t.Fatalf("damage = %d, want floor of 1", got)
	}
}

func TestEffectiveStat_ArmorFloor(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "archer", hexgrid.Hex{Q: 0, R: 2})
	e.AddCondition(u, game.CondBreak, game.Permanent, -1, "")
	e.AddCondition(u, game.CondVulnerable, game.EndOfRound, -1, "")
	if got := e.EffectiveStat(u, "armor"); got != 0 {
		t.Fatalf("armor = %d, want floor of 0", got)
	}
}

func TestConditionStacking(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	e.AddCondition(u, game.CondBurning, game.Permanent, -1, "")
	e.AddCondition(u, game.CondBurning, game.Permanent, -1, "")
	e.AddCondition(u, game.CondBurning, game.Permanent, -1, "")
	if got := e.CountCondition(u, game.CondBurning); got != 3 {
		t.Fatalf("burning stacks = %d, want 3", got)
	}
	e.RemoveCondition(u, game.CondBurning)
	if got := e.CountCondition(u, game.CondBurning); got != 2 {
		t.Fatalf("burning stacks after remove = %d, want 2", got)
	}
}

func TestClearConditions_ByDuration(t *testing.T) {
	e := testEngine(3)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	e.AddCondition(u, game.CondPoisoned, game.EndOfActivation, -1, "")
	e.AddCondition(u, game.CondProtected, game.EndOfRound, -1, "")
	e.AddCondition(u, game.CondStrengthened, game.UntilAttack, -1, "")
	e.AddCondition(u, game.CondBreak, game.Permanent, -1, "")

	e.ClearConditions(u, game.EndOfActivation)
	if e.HasCondition(u, game.CondPoisoned) {
		t.Fatal("poisoned should clear at end of activation")
	}
	e.ClearConditions(u, game.UntilAttack)
	if e.HasCondition(u, game.CondStrengthened) {
		t.Fatal("strengthened should clear after attack")
	}
	if !e.HasCondition(u, game.CondProtected) || !e.HasCondition(u, game.CondBreak) {
		t.Fatal("unrelated durations must survive the clears")
	}
}
