package storage

// Repository is the persistence surface the service and API layers depend
// on. A small interface keeps service tests on in-memory mocks.
type Repository interface {
	CreateMatch(rec *MatchRecord) error
	GetMatchByID(id uint) (*MatchRecord, error)
	FindMatchByJoinCode(code string) (*MatchRecord, error)
	// GetOpenMatches returns public matches still waiting for an opponent.
	GetOpenMatches() ([]MatchRecord, error)
	UpdateMatch(rec *MatchRecord) error

	// UpdateStatsOnMatchEnd upserts both players' profiles for a finished
	// match: one game played each, one win for the winning seat (none on a
	// draw). Callers guard with MatchRecord.StatsCounted.
	UpdateStatsOnMatchEnd(rec *MatchRecord) error
	GetStatsByName(name string) (*PlayerProfile, error)
	// GetTopPlayers returns up to limit profiles by wins, then games played.
	GetTopPlayers(limit int) ([]PlayerProfile, error)
}
