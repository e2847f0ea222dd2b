package api

import (
	"net/http"

	"github.com/jamesjt/Tirs-sub000/internal/version"

	"github.com/gin-gonic/gin"
)

// Version reports the build identity of the running server.
func (h *MatchHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.Version,
		"commit":  version.Commit,
		"date":    version.Date,
		"dirty":   version.Dirty,
	})
}
