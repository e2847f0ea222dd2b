package api

import (
	"net/http"

	"github.com/jamesjt/Tirs-sub000/internal/constants"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
	"github.com/jamesjt/Tirs-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type RosterPayload struct {
	Faction string   `json:"faction"`
	Roster  []string `json:"roster"`
}

// ConfirmRoster locks in the calling seat's faction and unit picks.
func (h *MatchHandler) ConfirmRoster(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req RosterPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := service.ConfirmRoster(h.repo, h.cat, id, seatToken(c), req.Faction, req.Roster)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

type DeployTerrainPayload struct {
	Surface string     `json:"surface"`
	Hex     hexPayload `json:"hex"`
	Skip    bool       `json:"skip"`
}

// DeployTerrain places one surface from the seat's terrain pool, or skips
// the seat's remaining placements.
func (h *MatchHandler) DeployTerrain(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req DeployTerrainPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := service.DeployTerrain(h.repo, h.cat, id, seatToken(c), req.Surface, req.Hex.toHex(), req.Skip)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

type DeployUnitPayload struct {
	Template string     `json:"template"`
	Hex      hexPayload `json:"hex"`
}

// DeployUnit places one roster unit into the seat's deployment zone.
func (h *MatchHandler) DeployUnit(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req DeployUnitPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := service.DeployUnit(h.repo, h.cat, id, seatToken(c), req.Template, req.Hex.toHex())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

type SelectUnitPayload struct {
	UnitID int `json:"unit_id"`
}

// SelectUnit opens an activation and returns the unit's decision surface:
// move range, legal attack targets and usable abilities.
func (h *MatchHandler) SelectUnit(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req SelectUnitPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := service.SelectUnit(h.repo, h.cat, id, seatToken(c), req.UnitID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := snapshot(s)
	if view := service.Selection(s); view != nil {
		out["selection"] = view
	}
	c.JSON(http.StatusOK, out)
}

type HexActionPayload struct {
	Hex hexPayload `json:"hex"`
}

// MoveUnit commits a move of the active unit.
func (h *MatchHandler) MoveUnit(c *gin.Context) {
	h.hexAction(c, func(id uint, token string, hex hexgrid.Hex) (*service.Session, error) {
		return service.MoveUnit(h.repo, h.cat, id, token, hex)
	})
}

// AttackUnit resolves an attack of the active unit against a target hex.
func (h *MatchHandler) AttackUnit(c *gin.Context) {
	h.hexAction(c, func(id uint, token string, hex hexgrid.Hex) (*service.Session, error) {
		return service.AttackUnit(h.repo, h.cat, id, token, hex)
	})
}

func (h *MatchHandler) hexAction(c *gin.Context, fn func(uint, string, hexgrid.Hex) (*service.Session, error)) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req HexActionPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := fn(id, seatToken(c), req.Hex.toHex())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

type AbilityPayload struct {
	Ability string     `json:"ability"`
	Hex     hexPayload `json:"hex"`
}

// ExecuteAbility runs a targeted player-activated ability.
func (h *MatchHandler) ExecuteAbility(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req AbilityPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := service.ExecuteAbility(h.repo, h.cat, id, seatToken(c), req.Ability, req.Hex.toHex())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

type EffectPayload struct {
	Skip bool       `json:"skip"`
	Hex  hexPayload `json:"hex"`
}

// ResolveEffect answers the pending interactive decision: a paused burning
// redirect when one is open, the head of the effect queue otherwise.
func (h *MatchHandler) ResolveEffect(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req EffectPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	s, err := service.ResolveEffect(h.repo, h.cat, id, seatToken(c), req.Skip, req.Hex.toHex())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

// Undo reverts the most recent action of the open activation.
func (h *MatchHandler) Undo(c *gin.Context) {
	h.bareAction(c, func(id uint, token string) (*service.Session, error) {
		return service.Undo(h.repo, h.cat, id, token)
	})
}

// EndActivation closes the open activation and passes the turn.
func (h *MatchHandler) EndActivation(c *gin.Context) {
	h.bareAction(c, func(id uint, token string) (*service.Session, error) {
		return service.EndActivation(h.repo, h.cat, id, token)
	})
}

func (h *MatchHandler) bareAction(c *gin.Context, fn func(uint, string) (*service.Session, error)) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	s, err := fn(id, seatToken(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}

type RoundStepPayload struct {
	Skip       bool        `json:"skip"`
	TargetUnit *int        `json:"target_unit,omitempty"`
	Hex        *hexPayload `json:"hex,omitempty"`
	Ride       bool        `json:"ride"`
}

// RoundStep resolves or skips the pending non-auto round step.
func (h *MatchHandler) RoundStep(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	var req RoundStepPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	in := service.RoundStepInput{Skip: req.Skip, TargetUnit: -1, Ride: req.Ride}
	if req.TargetUnit != nil {
		in.TargetUnit = *req.TargetUnit
	}
	if req.Hex != nil {
		hex := req.Hex.toHex()
		in.Hex = &hex
	}
	s, err := service.AdvanceRoundStep(h.repo, h.cat, id, seatToken(c), in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot(s))
}
