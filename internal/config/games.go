package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Game identifiers for the built-in slot machines
const (
	GlitchGrid        = "glitch"
	StarlightSmuggler = "starlight"
)

// GameConfig describes one slot machine as the client sees it. Outcomes and
// payouts stay on the server; this only drives wagers and the animation.
type GameConfig struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Endpoint string   `yaml:"endpoint"` // path segment under /api/v1/casino/
	Rows     int      `yaml:"rows"`
	Cols     int      `yaml:"cols"`
	Symbols  []string `yaml:"symbols"`

	MinBet     int64 `yaml:"min_bet"`
	MaxBet     int64 `yaml:"max_bet"`
	BetStep    int64 `yaml:"bet_step"`
	DefaultBet int64 `yaml:"default_bet"`

	SpinDuration  time.Duration `yaml:"spin_duration"`  // minimum time a round animates
	FrameInterval time.Duration `yaml:"frame_interval"` // cadence of provisional frames
}

type gamesFile struct {
	Games []GameConfig `yaml:"games"`
}

// DefaultGames returns the built-in machines
func DefaultGames() []GameConfig {
	return []GameConfig{
		{
			ID:            GlitchGrid,
			Name:          "Glitch Grid",
			Endpoint:      "glitch-grid",
			Rows:          1,
			Cols:          3,
			Symbols:       []string{"💀", "01", "🔌", "㊙️", "🏢"},
			MinBet:        10,
			MaxBet:        1000,
			BetStep:       10,
			DefaultBet:    10,
			SpinDuration:  2000 * time.Millisecond,
			FrameInterval: 100 * time.Millisecond,
		},
		{
			ID:            StarlightSmuggler,
			Name:          "Starlight Smuggler",
			Endpoint:      "starlight-smuggler",
			Rows:          3,
			Cols:          5,
			Symbols:       []string{"🚀", "🗺️", "🔫", "💎", "🌀", "⭐"},
			MinBet:        5,
			MaxBet:        500,
			BetStep:       5,
			DefaultBet:    5,
			SpinDuration:  2500 * time.Millisecond,
			FrameInterval: 100 * time.Millisecond,
		},
	}
}

// LoadGames reads game definitions from a YAML file
func LoadGames(path string) ([]GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read games config: %w", err)
	}
	return ParseGames(data)
}

// ParseGames decodes game definitions from YAML and validates them
func ParseGames(data []byte) ([]GameConfig, error) {
	var file gamesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse games config: %w", err)
	}
	if err := ValidateGames(file.Games); err != nil {
		return nil, err
	}
	return file.Games, nil
}

// ValidateGames checks every game definition and rejects duplicate ids
func ValidateGames(games []GameConfig) error {
	if len(games) == 0 {
		return fmt.Errorf("at least one game must be configured")
	}
	seen := make(map[string]bool, len(games))
	for _, g := range games {
		if err := g.validate(); err != nil {
			return err
		}
		if seen[g.ID] {
			return fmt.Errorf("game %s is configured twice", g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}

func (g GameConfig) validate() error {
	switch {
	case g.ID == "":
		return fmt.Errorf("game id is required")
	case g.Endpoint == "":
		return fmt.Errorf("game %s: endpoint is required", g.ID)
	case g.Rows <= 0 || g.Cols <= 0:
		return fmt.Errorf("game %s: board must have at least one row and column", g.ID)
	case len(g.Symbols) == 0:
		return fmt.Errorf("game %s: symbols are required", g.ID)
	case g.BetStep <= 0:
		return fmt.Errorf("game %s: bet_step must be positive", g.ID)
	case g.MinBet <= 0 || g.MinBet > g.MaxBet:
		return fmt.Errorf("game %s: bet range [%d,%d] is invalid", g.ID, g.MinBet, g.MaxBet)
	case g.MinBet%g.BetStep != 0 || g.MaxBet%g.BetStep != 0:
		return fmt.Errorf("game %s: bet range must be a multiple of %d", g.ID, g.BetStep)
	case g.DefaultBet < g.MinBet || g.DefaultBet > g.MaxBet || g.DefaultBet%g.BetStep != 0:
		return fmt.Errorf("game %s: default_bet %d is outside the bet grid", g.ID, g.DefaultBet)
	case g.SpinDuration <= 0:
		return fmt.Errorf("game %s: spin_duration must be positive", g.ID)
	case g.FrameInterval <= 0:
		return fmt.Errorf("game %s: frame_interval must be positive", g.ID)
	}
	return nil
}
