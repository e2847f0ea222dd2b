package main

import (
	"os"

	"github.com/jamesjt/Tirs-sub000/internal/api"
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/config"
	"github.com/jamesjt/Tirs-sub000/internal/constants"
	"github.com/jamesjt/Tirs-sub000/internal/logging"
	"github.com/jamesjt/Tirs-sub000/internal/storage"
	"github.com/jamesjt/Tirs-sub000/internal/version"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./tirs_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, logging.Fields{constants.LogFieldConfig: configPath})
	}

	catalogPath := os.Getenv(constants.EnvCatalog)
	if catalogPath == "" {
		catalogPath = cfg.CatalogPath
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		logging.Fatal("Missing or invalid catalog", err, logging.Fields{constants.LogFieldCatalog: catalogPath})
	}

	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db, 0)
	handler := api.NewMatchHandler(repo, cat, cfg.Rules, cfg.BoardRadius)
	relay := api.NewRelay()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteCatalogUnits, handler.ListUnits)
		apiRoutes.GET(constants.RouteCatalogTiles, handler.ListTerrain)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)
		apiRoutes.GET(constants.RoutePlayerStats, handler.GetPlayerStats)
		apiRoutes.GET(constants.RouteVersion, handler.Version)

		apiRoutes.GET(constants.RouteMatches, handler.ListOpenMatches)
		apiRoutes.POST(constants.RouteMatches, handler.CreateMatch)
		apiRoutes.POST(constants.RouteMatchesJoin, handler.JoinMatch)
		apiRoutes.GET(constants.RouteMatchByID, handler.GetMatch)

		apiRoutes.POST(constants.RouteMatchRoster, handler.ConfirmRoster)
		apiRoutes.POST(constants.RouteMatchTerrain, handler.DeployTerrain)
		apiRoutes.POST(constants.RouteMatchDeploy, handler.DeployUnit)
		apiRoutes.POST(constants.RouteMatchSelect, handler.SelectUnit)
		apiRoutes.POST(constants.RouteMatchMove, handler.MoveUnit)
		apiRoutes.POST(constants.RouteMatchAttack, handler.AttackUnit)
		apiRoutes.POST(constants.RouteMatchAbility, handler.ExecuteAbility)
		apiRoutes.POST(constants.RouteMatchEffect, handler.ResolveEffect)
		apiRoutes.POST(constants.RouteMatchUndo, handler.Undo)
		apiRoutes.POST(constants.RouteMatchEnd, handler.EndActivation)
		apiRoutes.POST(constants.RouteMatchStep, handler.RoundStep)
	}
	router.GET(constants.RouteMatchRelay, relay.Handle)

	logging.Info("server starting", logging.Fields{
		constants.LogFieldAddr:    cfg.ServerAddress,
		constants.LogFieldVersion: version.Version,
	})
	if err := router.Run(cfg.ServerAddress); err != nil {
		logging.Fatal("server exited", err, nil)
	}
}
