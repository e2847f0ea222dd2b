package api

import (
	"net/http"
	"unicode/utf8"

	"github.com/jamesjt/Tirs-sub000/internal/constants"
	"github.com/jamesjt/Tirs-sub000/internal/logging"
	"github.com/jamesjt/Tirs-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type CreateMatchPayload struct {
	PlayerName string `json:"player_name"`
	Name       string `json:"name"`
	Private    bool   `json:"private"`
}

// CreateMatch creates a new match and returns its ID, join code and the
// creator's seat token.
func (h *MatchHandler) CreateMatch(c *gin.Context) {
	var req CreateMatchPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.PlayerName == "" || utf8.RuneCountInString(req.PlayerName) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if utf8.RuneCountInString(req.Name) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rec, token, err := service.CreateMatch(h.repo, h.rules, h.boardRadius, service.CreateMatchRequest{
		Name:       req.Name,
		Private:    req.Private,
		PlayerName: req.PlayerName,
	})
	if err != nil {
		logging.Error("failed to create match", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateMatch})
		return
	}

	logging.Info("match created", logging.Fields{constants.LogFieldMatchID: rec.ID})
	c.JSON(http.StatusCreated, gin.H{
		"match_id":   rec.ID,
		"join_code":  rec.JoinCode,
		"seat_token": token,
	})
}

type JoinMatchPayload struct {
	JoinCode   string `json:"join_code"`
	PlayerName string `json:"player_name"`
}

// JoinMatch seats the second player into a waiting match via join code.
func (h *MatchHandler) JoinMatch(c *gin.Context) {
	var req JoinMatchPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	if req.PlayerName == "" || utf8.RuneCountInString(req.PlayerName) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	code := normalizeJoinCode(req.JoinCode)
	if !joinCodeRegex.MatchString(code) {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}

	rec, token, err := service.JoinMatch(h.repo, code, req.PlayerName)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	logging.Info("player joined match", logging.Fields{constants.LogFieldMatchID: rec.ID})
	c.JSON(http.StatusOK, gin.H{
		"match_id":   rec.ID,
		"seat_token": token,
	})
}

// ListOpenMatches lists recent public matches still waiting for an opponent.
func (h *MatchHandler) ListOpenMatches(c *gin.Context) {
	recs, err := h.repo.GetOpenMatches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchMatch})
		return
	}
	c.JSON(http.StatusOK, recs)
}

// GetMatch returns the full state snapshot of one match.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	s, err := service.LoadSession(h.repo, h.cat, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// GetPlayerStats returns one player's profile; unknown names get a zeroed
// profile rather than an error.
func (h *MatchHandler) GetPlayerStats(c *gin.Context) {
	name := c.Param("name")
	if name == "" || utf8.RuneCountInString(name) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	profile, err := h.repo.GetStatsByName(name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaderboard})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListLeaderboard returns the top player profiles by wins.
func (h *MatchHandler) ListLeaderboard(c *gin.Context) {
	profiles, err := h.repo.GetTopPlayers(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaderboard})
		return
	}
	c.JSON(http.StatusOK, profiles)
}
