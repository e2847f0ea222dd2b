package api

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/jamesjt/Tirs-sub000/internal/constants"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
	"github.com/jamesjt/Tirs-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

var joinCodeRegex = regexp.MustCompile("^[A-Z0-9]{8}$")

func normalizeJoinCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// matchID parses the :id path parameter. A false return means the handler
// already wrote the error response.
func matchID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidMatchID})
		return 0, false
	}
	return uint(id), true
}

// seatToken extracts the bearer seat token from the request header.
func seatToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(constants.HeaderSeatToken))
}

// hexPayload is the wire form of a board coordinate.
type hexPayload struct {
	Q int `json:"q"`
	R int `json:"r"`
}

func (h hexPayload) toHex() hexgrid.Hex {
	return hexgrid.Hex{Q: h.Q, R: h.R}
}

// snapshot is the response body shared by every state-mutating endpoint:
// record metadata plus the full rules state, with any pending decision
// surfaced so clients know what input is expected next.
func snapshot(s *service.Session) gin.H {
	out := gin.H{
		"id":     s.Rec.ID,
		"status": s.Rec.Status,
		"match":  s.Match,
	}
	if step := s.Eng.CurrentStep(); step != nil {
		out["pending_step"] = step
	}
	if entry := s.Eng.PeekEffect(); entry != nil {
		out["pending_effect"] = entry
		out["effect_hexes"] = s.Eng.EffectTargetHexes()
	}
	if s.Match.Burning != nil {
		out["pending_burning"] = s.Match.Burning
	}
	return out
}

// writeServiceError maps service sentinel errors onto HTTP statuses.
func writeServiceError(c *gin.Context, err error) {
	switch err {
	case service.ErrMatchNotFound:
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrMatchNotFound})
	case service.ErrMatchFull:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrMatchFull})
	case service.ErrNotYourSeat:
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotYourSeat})
	case service.ErrIllegalAction:
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrIllegalAction})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSaveMatch})
	}
}
