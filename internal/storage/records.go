package storage

import "time"

// Match lifecycle states stored on the record. The authoritative rules state
// lives in StateJSON; these columns exist so lobby listings and the timeout
// scanner can query without decoding every blob.
const (
	StatusWaitingForOpponent = "waiting_for_opponent"
	StatusInProgress         = "in_progress"
	StatusFinished           = "finished"
)

// MatchRecord is the persisted form of one match: queryable metadata columns
// plus the serialized rules state. Seat tokens are bearer secrets handed to
// each player on create/join and are never included in API responses.
type MatchRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name     string `json:"name"`
	Private  bool   `json:"private"`
	JoinCode string `gorm:"uniqueIndex" json:"join_code,omitempty"`

	Status      string `json:"status"`
	Phase       string `json:"phase"`
	Round       int    `json:"round"`
	WinnerSeat  int    `json:"winner_seat"`
	BoardRadius int    `json:"board_radius"`

	Player1Name  string `json:"player1_name"`
	Player2Name  string `json:"player2_name"`
	Player1Token string `json:"-"`
	Player2Token string `json:"-"`

	// StatsCounted prevents double-counting profile stats when a finished
	// match is saved again.
	StatsCounted bool `json:"-"`

	StateJSON []byte `gorm:"type:blob" json:"-"`
}

// PlayerProfile accumulates per-name results for the leaderboard.
type PlayerProfile struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"uniqueIndex" json:"name"`
	GamesPlayed int       `json:"games_played"`
	Wins        int       `json:"wins"`
}
