package engine

import (
	"strings"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// ConfirmRoster locks in a player's faction and unit picks. When both seats
// have confirmed, initiative is computed and the match advances to terrain
// deployment (or straight to unit deployment when neither faction brings
// terrain).
func (e *Engine) ConfirmRoster(p game.PlayerID, faction string, roster []string) bool {
	m := e.m
	if m.Phase != game.PhaseFactionRoster || len(roster) == 0 {
		return false
	}
	ps := m.Player(p)
	if ps == nil || ps.RosterConfirmed {
		return false
	}
	for _, name := range roster {
		tpl, ok := e.cat.Unit(name)
		if !ok {
			return false
		}
		if faction != "" && !strings.EqualFold(tpl.Faction, faction) {
			return false
		}
	}
	ps.Faction = faction
	ps.Roster = append([]string(nil), roster...)
	for name, surfaces := range e.cat.FactionTerrain {
		if strings.EqualFold(name, faction) {
			ps.TerrainPool = append([]string(nil), surfaces...)
			break
		}
	}
	ps.RosterConfirmed = true
	m.Logf(p, ps.Name+" confirms a roster of "+strings.Join(roster, ", "))

	if m.Players[0].RosterConfirmed && m.Players[1].RosterConfirmed {
		m.FirstPlayer = e.initiative()
		m.CurrentPlayer = m.FirstPlayer
		e.placeObjectives()
		if len(m.Players[0].TerrainPool) == 0 && len(m.Players[1].TerrainPool) == 0 {
			m.Phase = game.PhaseUnitDeploy
		} else {
			m.Phase = game.PhaseTerrainDeploy
		}
		m.Logf(m.FirstPlayer, m.Player(m.FirstPlayer).Name+" takes the initiative")
	}
	return true
}

// initiative picks the first player: higher average move stat across the
// roster, ties broken by the smaller roster, then player 1.
func (e *Engine) initiative() game.PlayerID {
	avg := func(roster []string) float64 {
		if len(roster) == 0 {
			return 0
		}
		total := 0
		for _, name := range roster {
			if tpl, ok := e.cat.Unit(name); ok {
				total += tpl.Move
			}
		}
		return float64(total) / float64(len(roster))
	}
	a1, a2 := avg(e.m.Players[0].Roster), avg(e.m.Players[1].Roster)
	switch {
	case a1 > a2:
		return game.Player1
	case a2 > a1:
		return game.Player2
	case len(e.m.Players[0].Roster) < len(e.m.Players[1].Roster):
		return game.Player1
	case len(e.m.Players[1].Roster) < len(e.m.Players[0].Roster):
		return game.Player2
	default:
		return game.Player1
	}
}

// boardRadius derives the board extent from the geometry oracle.
func (e *Engine) boardRadius() int {
	radius := 0
	for _, h := range e.geo.AllHexes() {
		if d := e.geo.Distance(hexgrid.Hex{}, h); d > radius {
			radius = d
		}
	}
	return radius
}

// placeObjectives seeds the fixed objective layout: the core crystal at the
// board center and one shard on each flank of the midline.
func (e *Engine) placeObjectives() {
	radius := e.boardRadius()
	off := (radius + 1) / 2
	e.m.Objectives = []*game.Objective{
		{Pos: hexgrid.Hex{Q: 0, R: 0}, Value: 2, Core: true, Owner: game.NoPlayer},
		{Pos: hexgrid.Hex{Q: -off, R: 0}, Value: 1, Owner: game.NoPlayer},
		{Pos: hexgrid.Hex{Q: off, R: 0}, Value: 1, Owner: game.NoPlayer},
	}
}

// deployZone reports whether a hex lies in the player's deployment rows, the
// two rows nearest that player's board edge.
func (e *Engine) deployZone(p game.PlayerID, h hexgrid.Hex) bool {
	radius := e.boardRadius()
	switch p {
	case game.Player1:
		return h.R >= radius-1
	case game.Player2:
		return h.R <= -(radius - 1)
	}
	return false
}

// deployTurnOK checks whose turn it is to place. Hidden deployment lets both
// seats place at any time.
func (e *Engine) deployTurnOK(p game.PlayerID) bool {
	return e.m.Rules.HiddenDeploy || p == e.m.CurrentPlayer
}

// DeployTerrain places one surface from the player's terrain pool on an
// empty non-objective hex outside the opponent's deployment zone.
func (e *Engine) DeployTerrain(p game.PlayerID, surface string, h hexgrid.Hex) bool {
	m := e.m
	if m.Phase != game.PhaseTerrainDeploy || !e.deployTurnOK(p) {
		return false
	}
	ps := m.Player(p)
	if ps == nil {
		return false
	}
	idx := -1
	for i, s := range ps.TerrainPool {
		if s == surface {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	if !e.geo.Contains(h) || m.ObjectiveAt(h) != nil || e.deployZone(p.Other(), h) {
		return false
	}
	if _, taken := m.Terrain[h]; taken {
		return false
	}
	t, ok := e.cat.Surface(surface)
	if !ok {
		return false
	}
	ps.TerrainPool = append(ps.TerrainPool[:idx], ps.TerrainPool[idx+1:]...)
	m.Terrain[h] = game.TerrainCell{Surface: surface, Player: p}
	m.Logf(p, ps.Name+" places "+t.DisplayName)
	e.advanceDeploy(func(q *game.PlayerState) bool { return len(q.TerrainPool) > 0 })
	return true
}

// SkipTerrain forfeits the player's remaining terrain placements.
func (e *Engine) SkipTerrain(p game.PlayerID) bool {
	m := e.m
	if m.Phase != game.PhaseTerrainDeploy || !e.deployTurnOK(p) {
		return false
	}
	ps := m.Player(p)
	if ps == nil {
		return false
	}
	ps.TerrainPool = nil
	e.advanceDeploy(func(q *game.PlayerState) bool { return len(q.TerrainPool) > 0 })
	return true
}

// DeployUnit instantiates the next copy of a roster template on an empty hex
// in the player's deployment zone.
func (e *Engine) DeployUnit(p game.PlayerID, template string, h hexgrid.Hex) bool {
	m := e.m
	if m.Phase != game.PhaseUnitDeploy || !e.deployTurnOK(p) {
		return false
	}
	ps := m.Player(p)
	if ps == nil {
		return false
	}
	if e.remainingDeploys(p, template) == 0 {
		return false
	}
	if !e.geo.Contains(h) || !e.deployZone(p, h) || m.UnitAt(h) != nil {
		return false
	}
	if m.ObjectiveAt(h) != nil || e.surfaceHas(h, catalog.TagImpassable) {
		return false
	}
	tpl, ok := e.cat.Unit(template)
	if !ok {
		return false
	}
	u := &game.Unit{
		ID:        len(m.Units),
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
	m.Units = append(m.Units, u)
	m.Logf(p, ps.Name+" deploys "+u.Name)

	e.advanceDeploy(func(q *game.PlayerState) bool {
		return e.pendingDeploys(q) > 0
	})
	return true
}

// remainingDeploys counts how many copies of a template the player has yet
// to place.
func (e *Engine) remainingDeploys(p game.PlayerID, template string) int {
	ps := e.m.Player(p)
	if ps == nil {
		return 0
	}
	want := 0
	for _, name := range ps.Roster {
		if strings.EqualFold(name, template) {
			want++
		}
	}
	for _, u := range e.m.Units {
		if u.Owner == p && strings.EqualFold(u.Name, template) {
			want--
		}
	}
	if want < 0 {
		return 0
	}
	return want
}

// pendingDeploys counts the player's roster entries not yet on the board.
func (e *Engine) pendingDeploys(ps *game.PlayerState) int {
	placed := 0
	for _, u := range e.m.Units {
		if e.m.Player(u.Owner) == ps {
			placed++
		}
	}
	return len(ps.Roster) - placed
}

// advanceDeploy alternates the deployment turn, skipping a seat with nothing
// left to place, and moves to the next phase once both seats are done.
// pending reports whether a seat still has placements.
func (e *Engine) advanceDeploy(pending func(*game.PlayerState) bool) {
	m := e.m
	p1, p2 := &m.Players[0], &m.Players[1]
	if !pending(p1) && !pending(p2) {
		if m.Phase == game.PhaseTerrainDeploy {
			m.Phase = game.PhaseUnitDeploy
			m.CurrentPlayer = m.FirstPlayer
			return
		}
		e.startRound()
		return
	}
	other := m.Player(m.CurrentPlayer.Other())
	if pending(other) {
		m.CurrentPlayer = m.CurrentPlayer.Other()
	}
}

// nextTurn passes the battle turn: the other player goes if they still have
// non-activated living units, else the current player continues, else the
// round ends.
func (e *Engine) nextTurn() {
	m := e.m
	if e.hasActivatable(m.CurrentPlayer.Other()) {
		m.CurrentPlayer = m.CurrentPlayer.Other()
		return
	}
	if e.hasActivatable(m.CurrentPlayer) {
		return
	}
	e.endRound()
}

func (e *Engine) hasActivatable(p game.PlayerID) bool {
	for _, u := range e.m.Units {
		if u.Owner == p && u.Alive() && !u.Activated {
			return true
		}
	}
	return false
}
