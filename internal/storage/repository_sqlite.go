package storage

import (
	"time"

	"github.com/jamesjt/Tirs-sub000/internal/game"

	"gorm.io/gorm"
)

type sqliteRepository struct {
	db *gorm.DB
	// openTTL bounds how long a waiting match stays in lobby listings.
	openTTL time.Duration
}

// NewSQLiteRepository wraps a gorm DB in the Repository interface. openTTL
// limits lobby listings; zero means the default of five minutes.
func NewSQLiteRepository(db *gorm.DB, openTTL time.Duration) Repository {
	if openTTL <= 0 {
		openTTL = 5 * time.Minute
	}
	return &sqliteRepository{db: db, openTTL: openTTL}
}

func (r *sqliteRepository) CreateMatch(rec *MatchRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) GetMatchByID(id uint) (*MatchRecord, error) {
	var rec MatchRecord
	if err := r.db.First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) FindMatchByJoinCode(code string) (*MatchRecord, error) {
	var rec MatchRecord
	err := r.db.Where("join_code = ?", code).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *sqliteRepository) GetOpenMatches() ([]MatchRecord, error) {
	var recs []MatchRecord
	cutoff := time.Now().Add(-r.openTTL)
	err := r.db.
		Where("private = ? AND status = ? AND created_at > ?", false, StatusWaitingForOpponent, cutoff).
		Order("created_at desc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *sqliteRepository) UpdateMatch(rec *MatchRecord) error {
	return r.db.Save(rec).Error
}

func (r *sqliteRepository) UpdateStatsOnMatchEnd(rec *MatchRecord) error {
	upsert := func(name string, played, wins int) error {
		if name == "" {
			return nil
		}
		var ps PlayerProfile
		if err := r.db.Where("name = ?", name).First(&ps).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				return err
			}
			ps = PlayerProfile{Name: name}
		}
		ps.GamesPlayed += played
		ps.Wins += wins
		return r.db.Save(&ps).Error
	}
	if err := upsert(rec.Player1Name, 1, 0); err != nil {
		return err
	}
	if err := upsert(rec.Player2Name, 1, 0); err != nil {
		return err
	}
	switch game.PlayerID(rec.WinnerSeat) {
	case game.Player1:
		return upsert(rec.Player1Name, 0, 1)
	case game.Player2:
		return upsert(rec.Player2Name, 0, 1)
	}
	return nil
}

func (r *sqliteRepository) GetStatsByName(name string) (*PlayerProfile, error) {
	var ps PlayerProfile
	if err := r.db.Where("name = ?", name).First(&ps).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &PlayerProfile{Name: name}, nil
		}
		return nil, err
	}
	return &ps, nil
}

func (r *sqliteRepository) GetTopPlayers(limit int) ([]PlayerProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	var profiles []PlayerProfile
	err := r.db.Model(&PlayerProfile{}).
		Order("wins DESC").
		Order("games_played DESC").
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}
