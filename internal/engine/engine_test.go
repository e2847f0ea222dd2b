package engine

import (
	"testing"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// testCatalog builds the fixed data set the engine tests run against. It is
// assembled in code rather than loaded from JSON so each test reads as a
// self-contained scenario.
func testCatalog() *catalog.Catalog {
	units := []catalog.UnitTemplate{
		{Name: "grunt", Faction: "ember", Cost: 2, Health: 5, Armor: 1, Move: 3, AtkType: game.AttackDirect, Range: 1, Damage: 2},
		{Name: "archer", Faction: "ember", Cost: 3, Health: 4, Armor: 0, Move: 3, AtkType: game.AttackLine, Range: 4, Damage: 3},
		{Name: "stalker", Faction: "tide", Cost: 3, Health: 4, Armor: 0, Move: 3, AtkType: game.AttackPath, Range: 3, Damage: 2},
		{Name: "brute", Faction: "ember", Cost: 4, Health: 8, Armor: 6, Move: 2, AtkType: game.AttackDirect, Range: 1, Damage: 4, SpecialRules: []string{"Sunder"}},
		{Name: "scout", Faction: "tide", Cost: 1, Health: 3, Armor: 0, Move: 4, AtkType: game.AttackDirect, Range: 1, Damage: 1, SpecialRules: []string{"Fleet"}},
	}
	c := &catalog.Catalog{
		Units:    map[string]catalog.UnitTemplate{},
		UnitList: units,
		Terrain: map[string]catalog.TerrainRule{
			"forest": {Name: "forest", DisplayName: "Forest", Element: "wood", Rules: []string{catalog.TagCover, catalog.TagDifficult}},
			"mist":   {Name: "mist", DisplayName: "Mist", Rules: []string{catalog.TagConcealing}},
			"wall":   {Name: "wall", DisplayName: "Wall", Rules: []string{catalog.TagImpassable}},
			"lava":   {Name: "lava", DisplayName: "Lava", Element: "cinder", Rules: []string{catalog.TagDangerous}},
			"bog":    {Name: "bog", DisplayName: "Bog", Rules: []string{catalog.TagPoisonous}},
			"beacon": {Name: "beacon", DisplayName: "Beacon", Rules: []string{catalog.TagRevealing}},
			"maw":    {Name: "maw", DisplayName: "Maw", Rules: []string{catalog.TagConsuming}},
			"spring": {Name: "spring", DisplayName: "Spring", Rules: []string{catalog.TagInvigorating}},
			"stream": {Name: "stream", DisplayName: "Stream", Rules: []string{catalog.TagFlow}},
			"mirage": {Name: "mirage", DisplayName: "Mirage", Rules: []string{catalog.TagEvanescent}},
			"floe":   {Name: "floe", DisplayName: "Floe", Rules: []string{catalog.TagShifting}},
		},
		Rules: map[string]catalog.AtomicRule{
			"sunder-rule":   {ID: "sunder-rule", Type: catalog.RulePassive, Target: "self", Effects: []catalog.RuleEffect{{Effect: "ignoreBaseArmor"}}},
			"fleet-rule":    {ID: "fleet-rule", Type: catalog.RulePassive, Target: "self", Effects: []catalog.RuleEffect{{Effect: "mobile"}}},
			"pierce-rule":   {ID: "pierce-rule", Type: catalog.RulePassive, Target: "self", Effects: []catalog.RuleEffect{{Effect: "piercing"}}},
			"guard-rule":    {ID: "guard-rule", Type: catalog.RulePassive, Target: "self", Effects: []catalog.RuleEffect{{Effect: "armor", Value: 1}}},
			"windup-rule":   {ID: "windup-rule", Type: catalog.RulePassive, Target: "self", Effects: []catalog.RuleEffect{{Effect: "delayedAttack"}}},
			"backdraft":     {ID: "backdraft", Type: catalog.RulePassive, Target: "self", Effects: []catalog.RuleEffect{{Effect: "redirectBurning"}}},
			"ember-hit":     {ID: "ember-hit", Type: catalog.RuleHit, Target: "atkTarget", Effects: []catalog.RuleEffect{{Effect: "burning"}}},
			"jeer-hit":      {ID: "jeer-hit", Type: catalog.RuleHit, Target: "atkTarget", Effects: []catalog.RuleEffect{{Effect: "taunted"}}},
			"shove-hit":     {ID: "shove-hit", Type: catalog.RuleHit, Target: "atkTarget", Effects: []catalog.RuleEffect{{Effect: "push", Value: 2}}},
			"garble-hit":    {ID: "garble-hit", Type: catalog.RuleHit, Target: "mystery", Effects: []catalog.RuleEffect{{Effect: "sparkle", Value: 3}}},
			"volley-action": {ID: "volley-action", Type: catalog.RuleAction, Target: "unitsAroundTarget", Range: 3, LOS: true, Cost: "attack", Effects: []catalog.RuleEffect{{Effect: "damage", Value: 1}}},
		},
		Abilities: map[string]catalog.AbilityDef{
			"Sunder":      {Name: "Sunder", RuleIDs: []string{"sunder-rule"}},
			"Fleet":       {Name: "Fleet", RuleIDs: []string{"fleet-rule"}},
			"Pierce":      {Name: "Pierce", RuleIDs: []string{"pierce-rule"}},
			"Guard":       {Name: "Guard", RuleIDs: []string{"guard-rule"}},
			"Wind Up":     {Name: "Wind Up", RuleIDs: []string{"windup-rule"}},
			"Backdraft":   {Name: "Backdraft", RuleIDs: []string{"backdraft"}},
			"Ember Blade": {Name: "Ember Blade", RuleIDs: []string{"ember-hit"}},
			"Jeer":        {Name: "Jeer", RuleIDs: []string{"jeer-hit"}},
			"Shove":       {Name: "Shove", RuleIDs: []string{"shove-hit"}},
			"Garble":      {Name: "Garble", RuleIDs: []string{"garble-hit"}},
			"Volley":      {Name: "Volley", RuleIDs: []string{"volley-action"}, OncePerGame: true},
		},
		FactionTerrain: map[string][]string{"ember": {"lava", "forest"}},
	}
	for _, u := range units {
		c.Units[u.Name] = u
	}
	return c
}

// testEngine starts a match directly in the battle phase. Confirm-end-turn is
// on so activations never auto-close under a test's feet; tests exercising
// auto-end flip it off.
func testEngine(radius int) *Engine {
	m := game.NewMatch(game.TableRules{
		TurnLimit:      5,
		CoreIncrement:  1,
		ConfirmEndTurn: true,
		CanUndoMove:    true,
		CanUndoAttack:  true,
		PassFirstToken: true,
	})
	m.Phase = game.PhaseBattle
	m.Round = 1
	m.CurrentPlayer = game.Player1
	m.FirstPlayer = game.Player1
	m.Players[0].Name = "P1"
	m.Players[1].Name = "P2"
	return New(m, testCatalog(), hexgrid.NewBoard(radius))
}

// spawn instantiates a template directly on the board, bypassing the
// deployment phase.
func spawn(e *Engine, p game.PlayerID, name string, h hexgrid.Hex) *game.Unit {
	tpl, ok := e.cat.Unit(name)
	if !ok {
		panic("test template missing: " + name)
	}
	u := &game.Unit{
		ID:        len(e.m.Units),
		Name:      tpl.Name,
		Faction:   tpl.Faction,
		Owner:     p,
		Health:    tpl.Health,
		MaxHealth: tpl.Health,
		Armor:     tpl.Armor,
		Move:      tpl.Move,
		AtkType:   tpl.AtkType,
		Range:     tpl.Range,
		Damage:    tpl.Damage,
		Cost:      tpl.Cost,
		Pos:       h,
		Abilities: e.BindAbilities(tpl.SpecialRules),
	}
	e.m.Units = append(e.m.Units, u)
	return u
}

func putTerrain(e *Engine, h hexgrid.Hex, surface string, p game.PlayerID) {
	e.m.Terrain[h] = game.TerrainCell{Surface: surface, Player: p}
}

func mustSelect(t *testing.T, e *Engine, u *game.Unit) {
	t.Helper()
	if !e.SelectUnit(u.ID) {
		t.Fatalf("could not select unit %d (%s)", u.ID, u.Name)
	}
}
