package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config is the top-level configuration for gridclash binaries.
type Config struct {
	Rules   Rules         `mapstructure:"rules"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Rules holds every tunable constant of the rules engine.
type Rules struct {
	StartingCoins      int `mapstructure:"starting_coins"`
	CoinsPerTurn       int `mapstructure:"coins_per_turn"`
	MovementCost       int `mapstructure:"movement_cost"`
	AttackCost         int `mapstructure:"attack_cost"`
	OptionalDrawCost   int `mapstructure:"optional_draw_cost"`
	EvolutionDiscount  int `mapstructure:"evolution_discount"`
	MaxFieldCreatures  int `mapstructure:"max_field_creatures"`
	ApprenticeZoneSize int `mapstructure:"apprentice_zone_size"`
	InitialHandSize    int `mapstructure:"initial_hand_size"`
	SecurityCount      int `mapstructure:"security_count"`
	MinDeckSize        int `mapstructure:"min_deck_size"`
	MaxDeckSize        int `mapstructure:"max_deck_size"`
	MaxApprenticeDeck  int `mapstructure:"max_apprentice_deck"`
	DefaultCopies      int `mapstructure:"default_copies"`
}

// LoggingConfig selects the zap level and encoder.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		StartingCoins:      3,
		CoinsPerTurn:       1,
		MovementCost:       1,
		AttackCost:         1,
		OptionalDrawCost:   1,
		EvolutionDiscount:  2,
		MaxFieldCreatures:  6,
		ApprenticeZoneSize: 3,
		InitialHandSize:    5,
		SecurityCount:      5,
		MinDeckSize:        30,
		MaxDeckSize:        50,
		MaxApprenticeDeck:  5,
		DefaultCopies:      6,
	}
}

// Default returns a Config with default rules and console logging at info.
func Default() Config {
	return Config{
		Rules:   DefaultRules(),
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("rules.starting_coins", d.Rules.StartingCoins)
	v.SetDefault("rules.coins_per_turn", d.Rules.CoinsPerTurn)
	v.SetDefault("rules.movement_cost", d.Rules.MovementCost)
	v.SetDefault("rules.attack_cost", d.Rules.AttackCost)
	v.SetDefault("rules.optional_draw_cost", d.Rules.OptionalDrawCost)
	v.SetDefault("rules.evolution_discount", d.Rules.EvolutionDiscount)
	v.SetDefault("rules.max_field_creatures", d.Rules.MaxFieldCreatures)
	v.SetDefault("rules.apprentice_zone_size", d.Rules.ApprenticeZoneSize)
	v.SetDefault("rules.initial_hand_size", d.Rules.InitialHandSize)
	v.SetDefault("rules.security_count", d.Rules.SecurityCount)
	v.SetDefault("rules.min_deck_size", d.Rules.MinDeckSize)
	v.SetDefault("rules.max_deck_size", d.Rules.MaxDeckSize)
	v.SetDefault("rules.max_apprentice_deck", d.Rules.MaxApprenticeDeck)
	v.SetDefault("rules.default_copies", d.Rules.DefaultCopies)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads configuration from path (optional, YAML) with GRIDCLASH_* environment
// overrides. An empty path uses defaults and the environment only.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("GRIDCLASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Rules.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects rule sets the engine cannot run with.
func (r Rules) Validate() error {
	switch {
	case r.StartingCoins < 0, r.CoinsPerTurn < 0, r.MovementCost < 0, r.AttackCost < 0,
		r.OptionalDrawCost < 0, r.EvolutionDiscount < 0:
		return errors.New("rules: coin values must not be negative")
	case r.MaxFieldCreatures < 1 || r.MaxFieldCreatures > 9:
		return fmt.Errorf("rules: max_field_creatures must be 1-9, got %d", r.MaxFieldCreatures)
	case r.ApprenticeZoneSize < 1 || r.ApprenticeZoneSize > 9:
		return fmt.Errorf("rules: apprentice_zone_size must be 1-9, got %d", r.ApprenticeZoneSize)
	case r.MinDeckSize > r.MaxDeckSize:
		return fmt.Errorf("rules: min_deck_size %d exceeds max_deck_size %d", r.MinDeckSize, r.MaxDeckSize)
	case r.InitialHandSize+r.SecurityCount > r.MinDeckSize:
		return fmt.Errorf("rules: initial hand plus security (%d) exceeds the minimum deck size %d",
			r.InitialHandSize+r.SecurityCount, r.MinDeckSize)
	}
	return nil
}

// NewLogger builds a zap logger from the logging section.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	// stdout belongs to the terminal UI and the MCP stdio transport.
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
