package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jamesjt/Tirs-sub000/internal/game"
)

type rawConfig struct {
	Server *struct {
		Address string `json:"address"`
	} `json:"server"`
	Database *struct {
		Path string `json:"path"`
	} `json:"database"`
	CatalogPath string `json:"catalog_path"`
	BoardRadius int    `json:"board_radius"`
	Table       *struct {
		TurnLimit      *int  `json:"turn_limit"`
		CoreIncrement  *int  `json:"core_increment"`
		ConfirmEndTurn *bool `json:"confirm_end_turn"`
		CanUndoMove    *bool `json:"can_undo_move"`
		CanUndoAttack  *bool `json:"can_undo_attack"`
		HiddenDeploy   *bool `json:"hidden_deploy"`
		PassFirstToken *bool `json:"pass_first_token"`
	} `json:"table"`
}

// LoadedConfig is the parsed server configuration.
type LoadedConfig struct {
	ServerAddress string
	DBPath        string
	CatalogPath   string
	BoardRadius   int
	Rules         game.TableRules
}

// DefaultRules are the table rules used when the config omits the table
// block or individual keys.
func DefaultRules() game.TableRules {
	return game.TableRules{
		TurnLimit:      5,
		CoreIncrement:  1,
		ConfirmEndTurn: false,
		CanUndoMove:    true,
		CanUndoAttack:  false,
		HiddenDeploy:   false,
		PassFirstToken: true,
	}
}

// LoadConfig reads the configuration file at path. Every key is optional;
// missing keys fall back to defaults so a minimal `{}` file is valid.
func LoadConfig(path string) (*LoadedConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var rc rawConfig
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	out := &LoadedConfig{
		ServerAddress: ":8080",
		DBPath:        "./data/tirs.db",
		CatalogPath:   "./tirs_catalog.json",
		BoardRadius:   5,
		Rules:         DefaultRules(),
	}
	if rc.Server != nil && rc.Server.Address != "" {
		out.ServerAddress = rc.Server.Address
	}
	if rc.Database != nil && rc.Database.Path != "" {
		out.DBPath = rc.Database.Path
	}
	if rc.CatalogPath != "" {
		out.CatalogPath = rc.CatalogPath
	}
	if rc.BoardRadius > 0 {
		out.BoardRadius = rc.BoardRadius
	}
	if t := rc.Table; t != nil {
		if t.TurnLimit != nil && *t.TurnLimit > 0 {
			out.Rules.TurnLimit = *t.TurnLimit
		}
		if t.CoreIncrement != nil && *t.CoreIncrement >= 0 {
			out.Rules.CoreIncrement = *t.CoreIncrement
		}
		if t.ConfirmEndTurn != nil {
			out.Rules.ConfirmEndTurn = *t.ConfirmEndTurn
		}
		if t.CanUndoMove != nil {
			out.Rules.CanUndoMove = *t.CanUndoMove
		}
		if t.CanUndoAttack != nil {
			out.Rules.CanUndoAttack = *t.CanUndoAttack
		}
		if t.HiddenDeploy != nil {
			out.Rules.HiddenDeploy = *t.HiddenDeploy
		}
		if t.PassFirstToken != nil {
			out.Rules.PassFirstToken = *t.PassFirstToken
		}
	}
	return out, nil
}
