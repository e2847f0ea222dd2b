package api

import (
	"net/http"
	"sort"

	"github.com/jamesjt/Tirs-sub000/internal/catalog"

	"github.com/gin-gonic/gin"
)

// ListUnits returns the unit template table in catalog order.
func (h *MatchHandler) ListUnits(c *gin.Context) {
	c.JSON(http.StatusOK, h.cat.UnitList)
}

// ListTerrain returns the terrain rule table sorted by surface name.
func (h *MatchHandler) ListTerrain(c *gin.Context) {
	names := make([]string, 0, len(h.cat.Terrain))
	for name := range h.cat.Terrain {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]catalog.TerrainRule, 0, len(names))
	for _, name := range names {
		out = append(out, h.cat.Terrain[name])
	}
	c.JSON(http.StatusOK, out)
}
