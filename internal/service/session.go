package service

import (
	"encoding/json"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/engine"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
	"github.com/jamesjt/Tirs-sub000/internal/storage"
)

// MatchRepo is the minimal repository interface required by match commands.
type MatchRepo interface {
	GetMatchByID(id uint) (*storage.MatchRecord, error)
	UpdateMatch(rec *storage.MatchRecord) error
	UpdateStatsOnMatchEnd(rec *storage.MatchRecord) error
}

// Session is one loaded match: the persisted record plus an engine rebuilt
// around its deserialized state. The rules core never touches persistence;
// the session serializes around it.
type Session struct {
	Rec   *storage.MatchRecord
	Match *game.Match
	Eng   *engine.Engine
}

// LoadSession fetches a match record and rebuilds the engine from its state
// blob.
func LoadSession(repo MatchRepo, cat *catalog.Catalog, id uint) (*Session, error) {
	rec, err := repo.GetMatchByID(id)
	if err != nil || rec == nil {
		return nil, ErrMatchNotFound
	}
	var m game.Match
	if err := json.Unmarshal(rec.StateJSON, &m); err != nil {
		return nil, ErrCorruptState
	}
	if m.Terrain == nil {
		m.Terrain = map[hexgrid.Hex]game.TerrainCell{}
	}
	board := hexgrid.NewBoard(rec.BoardRadius)
	return &Session{Rec: rec, Match: &m, Eng: engine.New(&m, cat, board)}, nil
}

// Seat resolves a bearer token to the seat it identifies.
func (s *Session) Seat(token string) (game.PlayerID, error) {
	switch {
	case token != "" && token == s.Rec.Player1Token:
		return game.Player1, nil
	case token != "" && token == s.Rec.Player2Token:
		return game.Player2, nil
	}
	return game.NoPlayer, ErrNotYourSeat
}

// Save serializes the match back into the record, syncs the metadata
// columns and persists. Profile stats are counted exactly once when the
// match reaches game over.
func (s *Session) Save(repo MatchRepo) error {
	state, err := json.Marshal(s.Match)
	if err != nil {
		return err
	}
	s.Rec.StateJSON = state
	s.Rec.Phase = string(s.Match.Phase)
	s.Rec.Round = s.Match.Round
	if s.Match.Phase == game.PhaseGameOver {
		s.Rec.Status = storage.StatusFinished
		s.Rec.WinnerSeat = int(s.Match.Winner)
		if !s.Rec.StatsCounted {
			if err := repo.UpdateStatsOnMatchEnd(s.Rec); err != nil {
				return err
			}
			s.Rec.StatsCounted = true
		}
	}
	return repo.UpdateMatch(s.Rec)
}
