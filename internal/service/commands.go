package service

import (
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/engine"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// apply loads a match, authenticates the seat, runs the mutation and saves.
// The mutation returns false for anything the rules reject, which surfaces
// as ErrIllegalAction without persisting.
func apply(repo MatchRepo, cat *catalog.Catalog, id uint, token string, fn func(s *Session, seat game.PlayerID) bool) (*Session, error) {
	s, err := LoadSession(repo, cat, id)
	if err != nil {
		return nil, err
	}
	seat, err := s.Seat(token)
	if err != nil {
		return nil, err
	}
	if !fn(s, seat) {
		return nil, ErrIllegalAction
	}
	if err := s.Save(repo); err != nil {
		return nil, err
	}
	return s, nil
}

// onTurn gates battle commands to the seat whose turn it is. The engine
// re-checks unit ownership; this stops a seat from driving the other's turn.
func onTurn(s *Session, seat game.PlayerID) bool {
	return s.Match.CurrentPlayer == game.NoPlayer || s.Match.CurrentPlayer == seat
}

func ConfirmRoster(repo MatchRepo, cat *catalog.Catalog, id uint, token, faction string, roster []string) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return s.Eng.ConfirmRoster(seat, faction, roster)
	})
}

func DeployTerrain(repo MatchRepo, cat *catalog.Catalog, id uint, token, surface string, h hexgrid.Hex, skip bool) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		if skip {
			return s.Eng.SkipTerrain(seat)
		}
		return s.Eng.DeployTerrain(seat, surface, h)
	})
}

func DeployUnit(repo MatchRepo, cat *catalog.Catalog, id uint, token, template string, h hexgrid.Hex) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return s.Eng.DeployUnit(seat, template, h)
	})
}

func SelectUnit(repo MatchRepo, cat *catalog.Catalog, id uint, token string, unitID int) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return onTurn(s, seat) && s.Eng.SelectUnit(unitID)
	})
}

func MoveUnit(repo MatchRepo, cat *catalog.Catalog, id uint, token string, to hexgrid.Hex) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return onTurn(s, seat) && s.Eng.MoveUnit(to)
	})
}

func AttackUnit(repo MatchRepo, cat *catalog.Catalog, id uint, token string, target hexgrid.Hex) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return onTurn(s, seat) && s.Eng.AttackUnit(target, 0)
	})
}

func ExecuteAbility(repo MatchRepo, cat *catalog.Catalog, id uint, token, ability string, target hexgrid.Hex) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return onTurn(s, seat) && s.Eng.ExecuteAction(ability, target)
	})
}

// ResolveEffect answers the match's pending interactive decision: a paused
// burning redirect when one is open, the head of the effect queue otherwise.
func ResolveEffect(repo MatchRepo, cat *catalog.Catalog, id uint, token string, skip bool, h hexgrid.Hex) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		if b := s.Match.Burning; b != nil {
			bearer := s.Match.UnitByID(b.UnitID)
			if bearer == nil || bearer.Owner != seat {
				return false
			}
			return s.Eng.RedirectBurning(h)
		}
		entry := s.Eng.PeekEffect()
		if entry == nil || entry.Player != seat {
			return false
		}
		if skip {
			return s.Eng.SkipEffect()
		}
		return s.Eng.ResolveEffect(h)
	})
}

func Undo(repo MatchRepo, cat *catalog.Catalog, id uint, token string) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return onTurn(s, seat) && s.Eng.UndoLastAction()
	})
}

func EndActivation(repo MatchRepo, cat *catalog.Catalog, id uint, token string) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		return onTurn(s, seat) && s.Eng.EndActivation()
	})
}

// RoundStepInput carries the optional choice data of a suspended round step.
type RoundStepInput struct {
	Skip       bool
	TargetUnit int
	Hex        *hexgrid.Hex
	Ride       bool
}

// AdvanceRoundStep resolves the pending non-auto round step. Steps tied to a
// unit may only be resolved by that unit's owner; objective scoring by the
// objective's owner.
func AdvanceRoundStep(repo MatchRepo, cat *catalog.Catalog, id uint, token string, in RoundStepInput) (*Session, error) {
	return apply(repo, cat, id, token, func(s *Session, seat game.PlayerID) bool {
		step := s.Eng.CurrentStep()
		if step == nil {
			return false
		}
		if owner := stepOwner(s, step); owner != game.NoPlayer && owner != seat {
			return false
		}
		switch step.ID {
		case game.StepArcFire:
			if in.Skip {
				return s.Eng.SkipArcFire()
			}
			if in.TargetUnit >= 0 {
				return s.Eng.ResolveArcFire(in.TargetUnit)
			}
			return s.Eng.AdvanceRoundStep()
		case game.StepShiftRide:
			return s.Eng.ResolveShiftRide(in.Ride)
		case game.StepConsumedReturn:
			if in.Skip {
				return s.Eng.SkipConsumedPlacement()
			}
			if in.Hex != nil {
				return s.Eng.ResolveConsumedReturn(*in.Hex)
			}
			return s.Eng.AdvanceRoundStep()
		default:
			return s.Eng.AdvanceRoundStep()
		}
	})
}

func stepOwner(s *Session, step *game.RoundStep) game.PlayerID {
	switch step.ID {
	case game.StepScoreObjectives:
		if step.UnitID >= 0 && step.UnitID < len(s.Match.Objectives) {
			return s.Match.Objectives[step.UnitID].Owner
		}
	case game.StepArcFire, game.StepShiftRide, game.StepConsumedReturn:
		if u := s.Match.UnitByID(step.UnitID); u != nil {
			return u.Owner
		}
	}
	return game.NoPlayer
}

// SelectionView is the decision surface returned after selecting a unit.
type SelectionView struct {
	MoveRange     map[hexgrid.Hex]int    `json:"move_range"`
	AttackTargets []engine.AttackTarget  `json:"attack_targets"`
	Actions       []engine.AbilityAction `json:"actions"`
}

// Selection computes the active unit's legal moves, attack targets and
// usable abilities for a loaded session.
func Selection(s *Session) *SelectionView {
	u := s.Match.ActiveUnit()
	if u == nil {
		return nil
	}
	return &SelectionView{
		MoveRange:     s.Eng.MoveRange(),
		AttackTargets: s.Eng.AttackTargets(),
		Actions:       s.Eng.Actions(u),
	}
}
