package api

import (
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/storage"
)

// MatchHandler groups all match-related HTTP handlers.
type MatchHandler struct {
	repo        storage.Repository
	cat         *catalog.Catalog
	rules       game.TableRules
	boardRadius int
}

// NewMatchHandler creates a MatchHandler with the given repository, catalog
// snapshot and table rules applied to newly created matches.
func NewMatchHandler(repo storage.Repository, cat *catalog.Catalog, rules game.TableRules, boardRadius int) *MatchHandler {
	return &MatchHandler{repo: repo, cat: cat, rules: rules, boardRadius: boardRadius}
}
