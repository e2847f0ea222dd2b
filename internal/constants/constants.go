package constants

// Centralized constants for env keys, routes and shared JSON/log field names.
const (
	// Environment variable keys
	EnvConfigPath = "TIRS_CONFIG"
	EnvDBPath     = "TIRS_DB"
	EnvCatalog    = "TIRS_CATALOG"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	HeaderSeatToken   = "X-Seat-Token"
	ContentTypeJSON   = "application/json"

	// JSON response keys
	JSONKeyError = "error"
)

// Routes used by the backend router
const (
	RouteAPIPrefix    = "/api"
	RouteCatalogUnits = "/catalog/units"
	RouteCatalogTiles = "/catalog/terrain"
	RouteMatches      = "/matches"
	RouteMatchesJoin  = "/matches/join"
	RouteMatchByID    = "/matches/:id"
	RouteMatchRoster  = "/matches/:id/roster"
	RouteMatchTerrain = "/matches/:id/deploy-terrain"
	RouteMatchDeploy  = "/matches/:id/deploy-unit"
	RouteMatchSelect  = "/matches/:id/select"
	RouteMatchMove    = "/matches/:id/move"
	RouteMatchAttack  = "/matches/:id/attack"
	RouteMatchAbility = "/matches/:id/ability"
	RouteMatchEffect  = "/matches/:id/effect"
	RouteMatchUndo    = "/matches/:id/undo"
	RouteMatchEnd     = "/matches/:id/end-activation"
	RouteMatchStep    = "/matches/:id/round-step"
	RouteLeaderboard  = "/leaderboard"
	RoutePlayerStats  = "/players/:name"
	RouteVersion      = "/version"
	RouteMatchRelay   = "/ws/matches/:id"
)

// Error message strings returned to clients
const (
	ErrInvalidRequest    = "invalid request"
	ErrInvalidMatchID    = "invalid match id"
	ErrMatchNotFound     = "match not found"
	ErrMatchFull         = "match already has two players"
	ErrNotYourSeat       = "seat token does not match a player in this match"
	ErrIllegalAction     = "action is not legal in the current state"
	ErrFailedCreateMatch = "failed to create match"
	ErrFailedFetchMatch  = "failed to fetch match"
	ErrFailedSaveMatch   = "failed to save match"
	ErrFailedLeaderboard = "failed to fetch leaderboard"
	ErrFailedEncode      = "failed to encode response"
)

// Structured log field keys
const (
	LogFieldAddr    = "addr"
	LogFieldMatchID = "match_id"
	LogFieldPlayer  = "player"
	LogFieldUnit    = "unit"
	LogFieldAbility = "ability"
	LogFieldRule    = "rule"
	LogFieldKeyword = "keyword"
	LogFieldRound   = "round"
	LogFieldPhase   = "phase"
	LogFieldCatalog = "catalog_path"
	LogFieldConfig  = "config_path"
	LogFieldVersion = "version"
)
