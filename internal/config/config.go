package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"holdem-engine/internal/util"
	"holdem-engine/pkg/playable/poker/betting"
	"holdem-engine/pkg/playable/poker/texasholdem"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// FileEnv names the environment variable with the path to the config file
const FileEnv = "HOLDEM_CONFIG_FILE"

// Config provides configuration for the hold'em engine
type Config struct {
	loaded         bool
	PGDSN          string      `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string      `yaml:"migrationsPath" envconfig:"migrations_path"`
	Log            LogConfig   `yaml:"log"`
	Table          TableConfig `yaml:"table"`
	Sim            SimConfig   `yaml:"sim"`
}

// LogConfig configures logrus
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"level"`
	Format string `yaml:"format" envconfig:"format"`
}

// TableConfig configures the stakes and timing of a table
type TableConfig struct {
	SmallBlind      int           `yaml:"smallBlind" envconfig:"small_blind"`
	BigBlind        int           `yaml:"bigBlind" envconfig:"big_blind"`
	MaxSeats        int           `yaml:"maxSeats" envconfig:"max_seats"`
	DecisionTimeout time.Duration `yaml:"decisionTimeout" envconfig:"decision_timeout"`
	StreetDelay     time.Duration `yaml:"streetDelay" envconfig:"street_delay"`
	StackPolicy     string        `yaml:"stackPolicy" envconfig:"stack_policy"`
}

// SimConfig configures cmd/holdem-sim
type SimConfig struct {
	Tables  int `yaml:"tables" envconfig:"tables"`
	Hands   int `yaml:"hands" envconfig:"hands"`
	Players int `yaml:"players" envconfig:"players"`
	BuyIn   int `yaml:"buyIn" envconfig:"buy_in"`
	// Seed makes the simulation reproducible. Zero uses crypto/rand
	Seed int64 `yaml:"seed" envconfig:"seed"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	return Config{
		PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "./sql",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Table: TableConfig{
			SmallBlind:      25,
			BigBlind:        50,
			MaxSeats:        9,
			DecisionTimeout: time.Second * 30,
			StreetDelay:     time.Second,
			StackPolicy:     "convert",
		},
		Sim: SimConfig{
			Tables:  4,
			Hands:   100,
			Players: 6,
			BuyIn:   1000,
		},
	}
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The file is optional, without it the defaults are used. Environment variables override both
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv(FileEnv, "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if file != nil {
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return fmt.Errorf("could not decode %s: %w", configFile, err)
		}
	}

	if err := envconfig.Process("holdem", &cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// Validate checks the values that cannot be caught by the decoders
func (c Config) Validate() error {
	if _, err := c.Table.GameOptions(); err != nil {
		return err
	}

	if c.Table.MaxSeats < 2 {
		return errors.New("a table needs at least two seats")
	}

	// two hole cards each plus the board
	if c.Table.MaxSeats*2+5 > 52 {
		return fmt.Errorf("a table cannot have more than 23 seats, got %d", c.Table.MaxSeats)
	}

	return nil
}

// GameOptions converts the table configuration into options for a hand
func (t TableConfig) GameOptions() (texasholdem.Options, error) {
	policy, err := betting.StackPolicyFromString(t.StackPolicy)
	if err != nil {
		return texasholdem.Options{}, err
	}

	opts := texasholdem.Options{
		SmallBlind:      t.SmallBlind,
		BigBlind:        t.BigBlind,
		DecisionTimeout: t.DecisionTimeout,
		StreetDelay:     t.StreetDelay,
		StackPolicy:     policy,
	}

	if err := texasholdem.ValidateOptions(opts); err != nil {
		return texasholdem.Options{}, err
	}

	return opts, nil
}
