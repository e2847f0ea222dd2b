package engine

import (
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// beginUndo snapshots everything an action and its triggered abilities may
// disturb. Restoring the snapshot is a true inverse regardless of which
// catalog rules fired.
func (e *Engine) beginUndo(kind game.UndoKind, u *game.Unit) *game.UndoRecord {
	m := e.m
	rec := &game.UndoRecord{
		Kind:       kind,
		UnitID:     u.ID,
		Positions:  map[int]hexgrid.Hex{},
		Health:     map[int]int{},
		Conditions: map[int][]game.Condition{},
		Spent:      map[int]map[string]bool{},
		Terrain:    map[hexgrid.Hex]game.TerrainCell{},
		LogLen:     len(m.Log),
	}
	for _, unit := range m.Units {
		rec.Positions[unit.ID] = unit.Pos
		rec.Health[unit.ID] = unit.Health
		rec.Conditions[unit.ID] = append([]game.Condition(nil), unit.Conditions...)
		if len(unit.Spent) > 0 {
			sp := map[string]bool{}
			for k, v := range unit.Spent {
				sp[k] = v
			}
			rec.Spent[unit.ID] = sp
		}
	}
	for h, cell := range m.Terrain {
		rec.Terrain[h] = cell
	}
	for _, o := range m.Objectives {
		rec.Owners = append(rec.Owners, o.Owner)
	}
	rec.Consumed = append([]int(nil), m.Consumed...)
	rec.Delayed = append([]game.DelayedEffect(nil), m.Delayed...)
	rec.Changed = append([]hexgrid.Hex(nil), m.ChangedTerrain...)
	if act := m.Activation; act != nil {
		rec.PrevMoved = act.Moved
		rec.PrevAttacked = act.Attacked
		rec.PrevMoveDist = act.MoveDistance
		rec.PrevAttackPath = append([]hexgrid.Hex(nil), act.AttackPath...)
	}
	return rec
}

func (e *Engine) beginAbilityUndo(u *game.Unit, ability string) *game.UndoRecord {
	return e.beginUndo(game.UndoAbility, u)
}

// commitUndo pushes the record onto the activation history. Only the newest
// record is undoable.
func (e *Engine) commitUndo(rec *game.UndoRecord) {
	if act := e.m.Activation; act != nil {
		act.History = append(act.History, *rec)
	}
}

// CanUndo reports whether an undo is available right now.
func (e *Engine) CanUndo() bool {
	act := e.m.Activation
	if act == nil || len(act.History) == 0 {
		return false
	}
	if e.m.Burning != nil {
		return false
	}
	rec := act.History[len(act.History)-1]
	switch rec.Kind {
	case game.UndoMove, game.UndoToss:
		return e.m.Rules.CanUndoMove
	case game.UndoAttack, game.UndoAbility:
		return e.m.Rules.CanUndoAttack
	}
	return false
}

// UndoLastAction reverts the most recent move, attack or ability of the
// current activation by restoring its snapshot. Pending interactive effects
// queued by the action are discarded wholesale, since every change already
// applied by resolving them is inside the snapshot.
func (e *Engine) UndoLastAction() bool {
	if !e.CanUndo() {
		return false
	}
	m := e.m
	act := m.Activation
	rec := act.History[len(act.History)-1]
	act.History = act.History[:len(act.History)-1]

	for _, unit := range m.Units {
		unit.Pos = rec.Positions[unit.ID]
		unit.Health = rec.Health[unit.ID]
		unit.Conditions = append([]game.Condition(nil), rec.Conditions[unit.ID]...)
		if sp, ok := rec.Spent[unit.ID]; ok {
			restored := map[string]bool{}
			for k, v := range sp {
				restored[k] = v
			}
			unit.Spent = restored
		} else {
			unit.Spent = nil
		}
		if unit.Pos != hexgrid.OffBoard {
			unit.ConsumedAt = nil
		}
	}
	m.Terrain = map[hexgrid.Hex]game.TerrainCell{}
	for h, cell := range rec.Terrain {
		m.Terrain[h] = cell
	}
	for i := range m.Objectives {
		if i < len(rec.Owners) {
			m.Objectives[i].Owner = rec.Owners[i]
		}
	}
	m.Consumed = append([]int(nil), rec.Consumed...)
	m.Delayed = append([]game.DelayedEffect(nil), rec.Delayed...)
	m.EffectQueue = nil
	m.Burning = nil
	m.ChangedTerrain = append([]hexgrid.Hex(nil), rec.Changed...)
	if rec.LogLen <= len(m.Log) {
		m.Log = m.Log[:rec.LogLen]
	}

	act.Moved = rec.PrevMoved
	act.Attacked = rec.PrevAttacked
	act.MoveDistance = rec.PrevMoveDist
	act.AttackPath = append([]hexgrid.Hex(nil), rec.PrevAttackPath...)
	act.Parent = nil
	act.Reach = nil

	u := m.UnitByID(rec.UnitID)
	if u != nil {
		m.Logf(u.Owner, u.Name+" takes back the last action")
	}
	return true
}
