package service

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/storage"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchFull     = errors.New("match already has two players")
	ErrNotYourSeat   = errors.New("seat token does not match a player in this match")
	ErrIllegalAction = errors.New("action is not legal in the current state")
	ErrCorruptState  = errors.New("stored match state is corrupt")
)

// LobbyRepo is the minimal repository interface required by match creation
// and joining. Using a small interface simplifies testing.
type LobbyRepo interface {
	CreateMatch(rec *storage.MatchRecord) error
	FindMatchByJoinCode(code string) (*storage.MatchRecord, error)
	UpdateMatch(rec *storage.MatchRecord) error
}

const codeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const codeLength = 8

// generateJoinCode creates a short alphanumeric code for joining matches.
func generateJoinCode() string {
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = codeCharset[int(b[i])%len(codeCharset)]
	}
	return string(b)
}

// newSeatToken creates the bearer secret identifying one seat of a match.
func newSeatToken() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

type CreateMatchRequest struct {
	Name       string
	Private    bool
	PlayerName string
}

// CreateMatch initializes a fresh match in the roster phase, persists it and
// returns the record plus the creator's seat token.
func CreateMatch(repo LobbyRepo, rules game.TableRules, boardRadius int, req CreateMatchRequest) (*storage.MatchRecord, string, error) {
	m := game.NewMatch(rules)
	m.Players[0].Name = req.PlayerName

	state, err := json.Marshal(m)
	if err != nil {
		return nil, "", err
	}

	token := newSeatToken()
	rec := &storage.MatchRecord{
		Name:         req.Name,
		Private:      req.Private,
		JoinCode:     generateJoinCode(),
		Status:       storage.StatusWaitingForOpponent,
		Phase:        string(m.Phase),
		Round:        m.Round,
		BoardRadius:  boardRadius,
		Player1Name:  req.PlayerName,
		Player1Token: token,
		StateJSON:    state,
	}
	if err := repo.CreateMatch(rec); err != nil {
		return nil, "", err
	}
	return rec, token, nil
}

// JoinMatch seats the second player into a waiting match found by join code
// and returns the record plus the joiner's seat token.
func JoinMatch(repo LobbyRepo, joinCode, playerName string) (*storage.MatchRecord, string, error) {
	rec, err := repo.FindMatchByJoinCode(joinCode)
	if err != nil || rec == nil {
		return nil, "", ErrMatchNotFound
	}
	if rec.Player2Token != "" {
		return nil, "", ErrMatchFull
	}

	var m game.Match
	if err := json.Unmarshal(rec.StateJSON, &m); err != nil {
		return nil, "", ErrCorruptState
	}
	m.Players[1].Name = playerName
	state, err := json.Marshal(&m)
	if err != nil {
		return nil, "", err
	}

	token := newSeatToken()
	rec.Player2Name = playerName
	rec.Player2Token = token
	rec.Status = storage.StatusInProgress
	rec.StateJSON = state
	if err := repo.UpdateMatch(rec); err != nil {
		return nil, "", err
	}
	return rec, token, nil
}
