package engine

import (
	"fmt"
	"sort"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// startRound builds and runs the round-start step queue, then opens the
// battle phase.
func (e *Engine) startRound() {
	m := e.m
	m.Phase = game.PhaseRoundStart
	m.Steps = nil
	m.StepIndex = 0

	m.Steps = append(m.Steps,
		game.RoundStep{ID: game.StepResetActivation, Label: "Ready all units", Auto: true},
		game.RoundStep{ID: game.StepFirstToken, Label: "Pass the first-turn token", Auto: true},
	)
	var bearers []*game.Unit
	for _, u := range m.Units {
		if u.Alive() && e.HasCondition(u, game.CondArcFire) {
			bearers = append(bearers, u)
		}
	}
	for _, u := range bearers {
		m.Steps = append(m.Steps, game.RoundStep{
			ID:     game.StepArcFire,
			Label:  "Arc Fire jumps from " + u.Name,
			UnitID: u.ID,
		})
	}
	m.Steps = append(m.Steps, game.RoundStep{ID: game.StepRoundStartRules, Label: "Round-start abilities", Auto: true})

	e.runSteps()
}

// endRound builds and runs the round-end step queue.
func (e *Engine) endRound() {
	m := e.m
	m.Phase = game.PhaseRoundEnd
	m.Steps = nil
	m.StepIndex = 0
	m.Activation = nil

	for i, o := range m.Objectives {
		if o.Owner == game.NoPlayer {
			continue
		}
		m.Steps = append(m.Steps, game.RoundStep{
			ID:    game.StepScoreObjectives,
			Label: "Score " + objectiveName(o),
			Hex:   o.Pos,
			Value: e.objectivePoints(o),
			// UnitID doubles as the objective index here.
			UnitID: i,
		})
	}
	m.Steps = append(m.Steps,
		game.RoundStep{ID: game.StepEvanescent, Label: "Evanescent terrain fades", Auto: true},
		game.RoundStep{ID: game.StepShiftTerrain, Label: "Shifting terrain drifts", Auto: true},
	)
	for _, id := range m.Consumed {
		u := m.UnitByID(id)
		if u == nil || u.ConsumedAt == nil {
			continue
		}
		m.Steps = append(m.Steps, game.RoundStep{
			ID:     game.StepConsumedReturn,
			Label:  u.Name + " resurfaces",
			UnitID: u.ID,
			Hex:    *u.ConsumedAt,
		})
	}
	m.Steps = append(m.Steps,
		game.RoundStep{ID: game.StepTerrainRetrigger, Label: "Changed terrain takes hold", Auto: true},
		game.RoundStep{ID: game.StepClearEndOfRound, Label: "Lingering effects fade", Auto: true},
	)

	e.runSteps()
}

func objectiveName(o *game.Objective) string {
	if o.Core {
		return "the core crystal"
	}
	return "a shard"
}

// objectivePoints is the award an objective pays this round. The core
// crystal grows by the configured increment every round.
func (e *Engine) objectivePoints(o *game.Objective) int {
	if o.Core {
		return o.Value + e.m.Rules.CoreIncrement*(e.m.Round-1)
	}
	return o.Value
}

// CurrentStep returns the pending step, or nil when no queue is suspended.
func (e *Engine) CurrentStep() *game.RoundStep {
	m := e.m
	if m.Phase != game.PhaseRoundStart && m.Phase != game.PhaseRoundEnd {
		return nil
	}
	if m.StepIndex >= len(m.Steps) {
		return nil
	}
	return &m.Steps[m.StepIndex]
}

// runSteps executes consecutive auto steps and halts at the first non-auto
// one. Reaching the end of the queue transitions to the next phase.
func (e *Engine) runSteps() {
	m := e.m
	for m.StepIndex < len(m.Steps) {
		step := m.Steps[m.StepIndex]
		if !step.Auto {
			return
		}
		e.execStep(step)
		m.StepIndex++
	}
	if m.Phase == game.PhaseRoundStart {
		m.Phase = game.PhaseBattle
		m.CurrentPlayer = m.FirstPlayer
		m.Logf(m.FirstPlayer, fmt.Sprintf("round %d begins", m.Round))
		return
	}
	// Round end completed.
	m.Round++
	if m.Round > m.Rules.TurnLimit {
		e.gameOver()
		return
	}
	e.startRound()
}

func (e *Engine) execStep(step game.RoundStep) {
	switch step.ID {
	case game.StepResetActivation:
		for _, u := range e.m.Units {
			u.Activated = false
		}
	case game.StepFirstToken:
		if e.m.Round > 1 && e.m.Rules.PassFirstToken {
			e.m.FirstPlayer = e.m.FirstPlayer.Other()
		}
	case game.StepRoundStartRules:
		for _, u := range e.m.Units {
			if u.Alive() {
				e.dispatch("roundStart", &abilityContext{actor: u, targetHex: u.Pos})
			}
		}
	case game.StepEvanescent:
		for _, h := range e.terrainHexes(catalog.TagEvanescent) {
			cell := e.m.Terrain[h]
			e.removeTerrain(h)
			if t, ok := e.cat.Surface(cell.Surface); ok {
				e.m.Logf(cell.Player, t.DisplayName+" fades away")
			}
		}
	case game.StepShiftTerrain:
		e.shiftTerrain()
	case game.StepTerrainRetrigger:
		seen := map[hexgrid.Hex]bool{}
		for _, h := range e.m.ChangedTerrain {
			if seen[h] {
				continue
			}
			seen[h] = true
			if u := e.m.UnitAt(h); u != nil {
				e.onEnterHex(u, h)
			}
		}
		e.m.ChangedTerrain = nil
	case game.StepClearEndOfRound:
		for _, u := range e.m.Units {
			e.ClearConditions(u, game.EndOfRound)
		}
	}
}

// terrainHexes lists hexes carrying a surface with the tag, in stable order.
func (e *Engine) terrainHexes(tag string) []hexgrid.Hex {
	var out []hexgrid.Hex
	for h, cell := range e.m.Terrain {
		if e.cat.SurfaceHas(cell.Surface, tag) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Q != out[j].Q {
			return out[i].Q < out[j].Q
		}
		return out[i].R < out[j].R
	})
	return out
}

// shiftTerrain drifts every shifting surface one hex along direction 0 when
// the destination is on board and free of terrain and objectives. A unit
// standing on shifted terrain gets a ride/stay choice, inserted as a
// non-auto step right after the shift.
func (e *Engine) shiftTerrain() {
	m := e.m
	var rides []game.RoundStep
	for _, h := range e.terrainHexes(catalog.TagShifting) {
		dest := h.Neighbor(0)
		if !e.geo.Contains(dest) || m.ObjectiveAt(dest) != nil {
			continue
		}
		if _, taken := m.Terrain[dest]; taken {
			continue
		}
		cell := m.Terrain[h]
		e.removeTerrain(h)
		m.Terrain[dest] = cell
		m.ChangedTerrain = append(m.ChangedTerrain, dest)
		if t, ok := e.cat.Surface(cell.Surface); ok {
			m.Logf(cell.Player, t.DisplayName+" drifts")
		}
		if u := m.UnitAt(h); u != nil && m.UnitAt(dest) == nil {
			rides = append(rides, game.RoundStep{
				ID:     game.StepShiftRide,
				Label:  u.Name + " may ride the drift",
				UnitID: u.ID,
				Hex:    h,
				Dest:   dest,
			})
		}
	}
	if len(rides) > 0 {
		tail := append([]game.RoundStep(nil), m.Steps[m.StepIndex+1:]...)
		m.Steps = append(m.Steps[:m.StepIndex+1], append(rides, tail...)...)
	}
}

// AdvanceRoundStep resolves the pending non-auto step with its default
// outcome: objective points are awarded, Arc Fire fizzles, a drifting unit
// stays put and a consumed unit stays buried for another round.
func (e *Engine) AdvanceRoundStep() bool {
	step := e.CurrentStep()
	if step == nil || step.Auto {
		return false
	}
	switch step.ID {
	case game.StepScoreObjectives:
		e.awardObjective(*step)
	case game.StepArcFire:
		e.fizzleArcFire(step.UnitID)
	case game.StepShiftRide:
		// Stay in place.
	case game.StepConsumedReturn:
		// Remains consumed; a fresh step is built next round.
	default:
		return false
	}
	e.m.StepIndex++
	e.runSteps()
	return true
}

func (e *Engine) awardObjective(step game.RoundStep) {
	m := e.m
	if step.UnitID < 0 || step.UnitID >= len(m.Objectives) {
		return
	}
	o := m.Objectives[step.UnitID]
	ps := m.Player(o.Owner)
	if ps == nil {
		return
	}
	ps.Score += step.Value
	m.Logf(o.Owner, fmt.Sprintf("%s scores %d from %s", ps.Name, step.Value, objectiveName(o)))
}

func (e *Engine) fizzleArcFire(unitID int) {
	u := e.m.UnitByID(unitID)
	if u == nil {
		return
	}
	e.RemoveCondition(u, game.CondArcFire)
	e.m.Logf(u.Owner, "Arc Fire fizzles out on "+u.Name)
}

// ResolveArcFire jumps the Arc Fire token from the pending bearer to a
// living unit within two hexes; both take 1 damage when they differ.
func (e *Engine) ResolveArcFire(targetID int) bool {
	step := e.CurrentStep()
	if step == nil || step.ID != game.StepArcFire {
		return false
	}
	bearer := e.m.UnitByID(step.UnitID)
	target := e.m.UnitByID(targetID)
	if bearer == nil || target == nil || !target.Alive() {
		return false
	}
	if !bearer.Alive() {
		e.m.StepIndex++
		e.runSteps()
		return true
	}
	if e.geo.Distance(bearer.Pos, target.Pos) > 2 {
		return false
	}
	if target != bearer {
		e.RemoveCondition(bearer, game.CondArcFire)
		e.AddCondition(target, game.CondArcFire, game.Permanent, bearer.ID, "")
		e.m.Logf(bearer.Owner, "Arc Fire jumps from "+bearer.Name+" to "+target.Name)
		e.damageUnit(bearer, 1, damageSource{kind: sourceCondition})
		e.damageUnit(target, 1, damageSource{kind: sourceCondition})
	}
	e.m.StepIndex++
	e.runSteps()
	return true
}

// SkipArcFire lets the pending Arc Fire token fizzle without damage.
func (e *Engine) SkipArcFire() bool {
	step := e.CurrentStep()
	if step == nil || step.ID != game.StepArcFire {
		return false
	}
	e.fizzleArcFire(step.UnitID)
	e.m.StepIndex++
	e.runSteps()
	return true
}

// ResolveShiftRide commits the ride/stay choice of a unit whose terrain
// drifted. Riding is refused when the destination became occupied.
func (e *Engine) ResolveShiftRide(ride bool) bool {
	step := e.CurrentStep()
	if step == nil || step.ID != game.StepShiftRide {
		return false
	}
	u := e.m.UnitByID(step.UnitID)
	if ride && u != nil && u.Alive() && u.Pos == step.Hex && e.m.UnitAt(step.Dest) == nil {
		u.Pos = step.Dest
		e.claimObjective(u)
		e.m.Logf(u.Owner, u.Name+" rides the drifting terrain")
	}
	e.m.StepIndex++
	e.runSteps()
	return true
}

// ConsumedReturnHexes lists the free adjacent hexes a consumed unit may
// resurface on. An empty list means only skipping is possible.
func (e *Engine) ConsumedReturnHexes() []hexgrid.Hex {
	step := e.CurrentStep()
	if step == nil || step.ID != game.StepConsumedReturn {
		return nil
	}
	var out []hexgrid.Hex
	for _, n := range e.emptyAdjacent(step.Hex) {
		if !e.surfaceHas(n, catalog.TagImpassable) {
			out = append(out, n)
		}
	}
	return out
}

// ResolveConsumedReturn places the pending consumed unit on a free hex
// adjacent to the terrain that swallowed it.
func (e *Engine) ResolveConsumedReturn(h hexgrid.Hex) bool {
	step := e.CurrentStep()
	if step == nil || step.ID != game.StepConsumedReturn {
		return false
	}
	legal := false
	for _, c := range e.ConsumedReturnHexes() {
		if c == h {
			legal = true
			break
		}
	}
	if !legal {
		return false
	}
	u := e.m.UnitByID(step.UnitID)
	if u == nil {
		return false
	}
	u.Pos = h
	u.ConsumedAt = nil
	for i, id := range e.m.Consumed {
		if id == u.ID {
			e.m.Consumed = append(e.m.Consumed[:i], e.m.Consumed[i+1:]...)
			break
		}
	}
	e.m.Logf(u.Owner, u.Name+" resurfaces")
	e.claimObjective(u)
	e.onEnterHex(u, h)
	e.m.StepIndex++
	e.runSteps()
	return true
}

// SkipConsumedPlacement leaves the pending consumed unit buried for another
// round.
func (e *Engine) SkipConsumedPlacement() bool {
	step := e.CurrentStep()
	if step == nil || step.ID != game.StepConsumedReturn {
		return false
	}
	e.m.StepIndex++
	e.runSteps()
	return true
}

// gameOver closes the match; the higher score wins, a tie is a draw.
func (e *Engine) gameOver() {
	m := e.m
	m.Phase = game.PhaseGameOver
	s1, s2 := m.Players[0].Score, m.Players[1].Score
	switch {
	case s1 > s2:
		m.Winner = game.Player1
	case s2 > s1:
		m.Winner = game.Player2
	default:
		m.Winner = game.NoPlayer
	}
	if m.Winner == game.NoPlayer {
		m.Logf(game.NoPlayer, "the match ends in a draw")
	} else {
		m.Logf(m.Winner, m.Player(m.Winner).Name+" wins the match")
	}
}
