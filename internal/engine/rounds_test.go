package engine

import (
	"testing"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

func TestRoundEnd_ObjectiveScoring(t *testing.T) {
	e := testEngine(3)
	e.m.Round = 3
	e.m.Objectives = []*game.Objective{
		{Pos: hexgrid.Hex{Q: -2, R: 0}, Value: 1, Owner: game.Player1},
		{Pos: hexgrid.Hex{Q: 0, R: 0}, Value: 2, Core: true, Owner: game.Player2},
	}
	spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})

	e.endRound()

	step := e.CurrentStep()
	if step == nil || step.ID != game.StepScoreObjectives {
		t.Fatalf("pending step = %+v, want objective scoring", step)
	}
	if !e.AdvanceRoundStep() {
		t.Fatal("advancing the shard award failed")
	}
	if !e.AdvanceRoundStep() {
		t.Fatal("advancing the core award failed")
	}
	if got := e.m.Players[0].Score; got != 1 {
		t.Fatalf("player 1 score = %d, want 1", got)
	}
	// Core pays 2 + increment*(round-1) = 2 + 1*2 = 4.
	if got := e.m.Players[1].Score; got != 4 {
		t.Fatalf("player 2 score = %d, want 4", got)
	}
}

func TestRoundEnd_AllAutoWithoutShiftingOrConsumed(t *testing.T) {
	e := testEngine(3)
	spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -2})
	round := e.m.Round

	e.endRound()

	if e.m.Round != round+1 {
		t.Fatalf("round = %d, want %d without any external step resolution", e.m.Round, round+1)
	}
	if e.m.Phase != game.PhaseBattle {
		t.Fatalf("phase = %v, want battle", e.m.Phase)
	}
}

func TestRoundEnd_EvanescentTerrainFades(t *testing.T) {
	e := testEngine(3)
	spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	putTerrain(e, hexgrid.Hex{Q: 1, R: 0}, "mirage", game.Player1)
	putTerrain(e, hexgrid.Hex{Q: 1, R: 1}, "forest", game.Player1)

	e.endRound()

	if _, ok := e.m.Terrain[hexgrid.Hex{Q: 1, R: 0}]; ok {
		t.Fatal("evanescent terrain must be removed at round end")
	}
	if _, ok := e.m.Terrain[hexgrid.Hex{Q: 1, R: 1}]; !ok {
		t.Fatal("ordinary terrain must survive round end")
	}
}

func TestRoundEnd_ShiftingTerrainAndRideChoice(t *testing.T) {
	e := testEngine(3)
	origin := hexgrid.Hex{Q: 0, R: 0}
	dest := origin.Neighbor(0)
	putTerrain(e, origin, "floe", game.Player1)
	rider := spawn(e, game.Player1, "grunt", origin)
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -2})

	e.endRound()

	if _, ok := e.m.Terrain[origin]; ok {
		t.Fatal("shifting terrain must leave its origin hex")
	}
	if cell := e.m.Terrain[dest]; cell.Surface != "floe" {
		t.Fatalf("destination surface = %q, want floe", cell.Surface)
	}
	step := e.CurrentStep()
	if step == nil || step.ID != game.StepShiftRide || step.UnitID != rider.ID {
		t.Fatalf("pending step = %+v, want ride choice for the rider", step)
	}
	if !e.ResolveShiftRide(true) {
		t.Fatal("ride resolution failed")
	}
	if rider.Pos != dest {
		t.Fatalf("rider at %v, want %v", rider.Pos, dest)
	}
}

func TestRoundEnd_ConsumedUnitRestoration(t *testing.T) {
	e := testEngine(3)
	maw := hexgrid.Hex{Q: 0, R: 0}
	putTerrain(e, maw, "maw", game.NoPlayer)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -2})
	pos := maw
	u.ConsumedAt = &pos
	u.Pos = hexgrid.OffBoard
	e.m.Consumed = []int{u.ID}

	e.endRound()

	step := e.CurrentStep()
	if step == nil || step.ID != game.StepConsumedReturn {
		t.Fatalf("pending step = %+v, want consumed return", step)
	}
	hexes := e.ConsumedReturnHexes()
	if len(hexes) == 0 {
		t.Fatal("free adjacent hexes expected")
	}
	if !e.ResolveConsumedReturn(hexes[0]) {
		t.Fatal("restoration failed")
	}
	if u.Pos != hexes[0] || u.ConsumedAt != nil {
		t.Fatalf("unit at %v consumedAt %v, want restored", u.Pos, u.ConsumedAt)
	}
	if len(e.m.Consumed) != 0 {
		t.Fatal("restored unit must leave the consumed list")
	}
}

func TestRoundEnd_ConsumedSkipKeepsUnitBuried(t *testing.T) {
	e := testEngine(3)
	maw := hexgrid.Hex{Q: 0, R: 0}
	putTerrain(e, maw, "maw", game.NoPlayer)
	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	pos := maw
	u.ConsumedAt = &pos
	u.Pos = hexgrid.OffBoard
	e.m.Consumed = []int{u.ID}

	e.endRound()
	if !e.SkipConsumedPlacement() {
		t.Fatal("skip failed")
	}
	if u.Pos != hexgrid.OffBoard || len(e.m.Consumed) != 1 {
		t.Fatal("skipped unit must stay buried for another round")
	}
}

func TestRoundStart_ArcFireSpread(t *testing.T) {
	e := testEngine(3)
	bearer := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	target := spawn(e, game.Player2, "grunt", hexgrid.Hex{Q: 0, R: -1})
	e.AddCondition(bearer, game.CondArcFire, game.Permanent, -1, "")
	e.m.Round = 2

	e.startRound()

	step := e.CurrentStep()
	if step == nil || step.ID != game.StepArcFire {
		t.Fatalf("pending step = %+v, want arc fire", step)
	}
	if !e.ResolveArcFire(target.ID) {
		t.Fatal("arc fire jump failed")
	}
	if e.HasCondition(bearer, game.CondArcFire) || !e.HasCondition(target, game.CondArcFire) {
		t.Fatal("the token must move to the new holder")
	}
	if bearer.Health != 4 || target.Health != 4 {
		t.Fatalf("healths = %d/%d, want 4/4 after the jump", bearer.Health, target.Health)
	}
	if e.m.Phase != game.PhaseBattle {
		t.Fatalf("phase = %v, want battle after the queue drains", e.m.Phase)
	}
}

func TestRoundStart_ArcFireSkipFizzles(t *testing.T) {
	e := testEngine(3)
	bearer := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	e.AddCondition(bearer, game.CondArcFire, game.Permanent, -1, "")

	e.startRound()
	if !e.SkipArcFire() {
		t.Fatal("skip failed")
	}
	if e.HasCondition(bearer, game.CondArcFire) {
		t.Fatal("skipped arc fire must fizzle out")
	}
	if bearer.Health != 5 {
		t.Fatalf("health = %d, want 5 (fizzle deals no damage)", bearer.Health)
	}
}

func TestRoundStart_FirstTokenPasses(t *testing.T) {
	e := testEngine(3)
	spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	e.m.Round = 2
	e.m.FirstPlayer = game.Player1

	e.startRound()
	if e.m.FirstPlayer != game.Player2 || e.m.CurrentPlayer != game.Player2 {
		t.Fatalf("first/current = %v/%v, want player 2 holding the token", e.m.FirstPlayer, e.m.CurrentPlayer)
	}

	// With token passing disabled the holder keeps it.
	e = testEngine(3)
	spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	e.m.Round = 2
	e.m.Rules.PassFirstToken = false
	e.startRound()
	if e.m.FirstPlayer != game.Player1 {
		t.Fatalf("first = %v, want player 1 keeping the token", e.m.FirstPlayer)
	}
}

func TestRoundEnd_TurnLimitEndsGame(t *testing.T) {
	e := testEngine(3)
	spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 2})
	e.m.Round = 5
	e.m.Players[0].Score = 3
	e.m.Players[1].Score = 7

	e.endRound()

	if e.m.Phase != game.PhaseGameOver {
		t.Fatalf("phase = %v, want game over past the turn limit", e.m.Phase)
	}
	if e.m.Winner != game.Player2 {
		t.Fatalf("winner = %v, want player 2 on score", e.m.Winner)
	}
}

func TestRoundEnd_TieIsADraw(t *testing.T) {
	e := testEngine(3)
	e.m.Round = 5
	e.m.Players[0].Score = 4
	e.m.Players[1].Score = 4

	e.endRound()
	if e.m.Phase != game.PhaseGameOver || e.m.Winner != game.NoPlayer {
		t.Fatalf("phase %v winner %v, want a drawn game over", e.m.Phase, e.m.Winner)
	}
}

func TestRoundStart_DispatchesRoundStartRules(t *testing.T) {
	e := testEngine(3)
	e.cat.Rules["surge-rule"] = catalog.AtomicRule{
		ID:      "surge-rule",
		Type:    catalog.RuleRoundStart,
		Target:  "self",
		Effects: []catalog.RuleEffect{{Effect: "protected"}},
	}
	e.cat.Abilities["Surge"] = catalog.AbilityDef{Name: "Surge", RuleIDs: []string{"surge-rule"}}

	u := spawn(e, game.Player1, "grunt", hexgrid.Hex{Q: 0, R: 1})
	u.Abilities = append(u.Abilities, "Surge")

	e.startRound()
	if !e.HasCondition(u, game.CondProtected) {
		t.Fatal("roundStart rule must fire during the round-start queue")
	}
}

func TestEvanescentFade_MarksTheHexChanged(t *testing.T) {
	e := testEngine(3)
	h := hexgrid.Hex{Q: 1, R: 0}
	putTerrain(e, h, "mirage", game.Player1)

	e.execStep(game.RoundStep{ID: game.StepEvanescent})

	if _, ok := e.m.Terrain[h]; ok {
		t.Fatal("evanescent surface must be removed")
	}
	found := false
	for _, c := range e.m.ChangedTerrain {
		if c == h {
			found = true
		}
	}
	if !found {
		t.Fatal("a faded hex must be recorded as changed terrain")
	}
}
