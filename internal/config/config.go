package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/fadedpez/tucotable/pkg/shoe"
	"github.com/joho/godotenv"
)

// Config holds all configuration for a table
type Config struct {
	// Shoe
	Decks       int
	Penetration float64

	// Rules, as raw values for rules.Builder
	DealerRule        string
	DealerPeek        bool
	BlackjackPayout   string
	Surrender         string
	DoubleAfterSplit  bool
	DoubleRestriction string
	ResplitAces       bool
	HitSplitAces      bool
	MaxSplits         int
	CharlieCards      int
	Dealer22Push      bool
	BlackjackTie      string

	// Table limits in cents
	TableMin  int64
	TableMax  int64
	TableUnit int64

	// Integrations, empty disables
	LedgerDBPath     string
	ElasticsearchURL string
	DiscordToken     string
	DiscordChannelID string

	LogLevel logging.Level
}

// Load reads .env files (the default .env when none are given) and then the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !errors.Is(err, os.ErrNotExist) {
			return nil, types.WrapError(types.ErrInvalidArgument, "error loading .env file", err)
		}
	}

	p := &parser{}
	cfg := &Config{
		Decks:             p.int("TABLE_DECKS", 6),
		Penetration:       p.float("TABLE_PENETRATION", 0.75),
		DealerRule:        getEnvWithDefault("DEALER_RULE", string(rules.StandSoft17)),
		DealerPeek:        p.bool("DEALER_PEEK", true),
		BlackjackPayout:   getEnvWithDefault("BLACKJACK_PAYOUT", "3:2"),
		Surrender:         getEnvWithDefault("SURRENDER", string(rules.SurrenderNone)),
		DoubleAfterSplit:  p.bool("DOUBLE_AFTER_SPLIT", true),
		DoubleRestriction: getEnvWithDefault("DOUBLE_RESTRICTION", string(rules.DoubleAny)),
		ResplitAces:       p.bool("RESPLIT_ACES", false),
		HitSplitAces:      p.bool("HIT_SPLIT_ACES", false),
		MaxSplits:         p.int("MAX_SPLITS", 3),
		CharlieCards:      p.int("CHARLIE_CARDS", 0),
		Dealer22Push:      p.bool("DEALER_22_PUSH", false),
		BlackjackTie:      getEnvWithDefault("BLACKJACK_TIE", string(rules.TiePush)),
		TableMin:          int64(p.int("TABLE_MIN", 1000)),
		TableMax:          int64(p.int("TABLE_MAX", 50000)),
		TableUnit:         int64(p.int("TABLE_UNIT", 100)),
		LedgerDBPath:      os.Getenv("LEDGER_DB_PATH"),
		ElasticsearchURL:  os.Getenv("ELASTICSEARCH_URL"),
		DiscordToken:      os.Getenv("DISCORD_TOKEN"),
		DiscordChannelID:  os.Getenv("DISCORD_CHANNEL_ID"),
		LogLevel:          logging.INFO,
	}

	if name := os.Getenv("LOG_LEVEL"); name != "" {
		level, ok := logging.ParseLevel(name)
		if !ok {
			p.fail("LOG_LEVEL", name)
		}
		cfg.LogLevel = level
	}

	if err := p.err(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks values that parse but cannot build a table, and
// integration settings that only make sense together
func (c *Config) validate() error {
	if c.Penetration < 0 || c.Penetration > 1 || math.IsNaN(c.Penetration) {
		return types.WrapError(types.ErrInvalidArgument,
			fmt.Sprintf("TABLE_PENETRATION %v is outside [0, 1]", c.Penetration), shoe.ErrInvalidPenetration)
	}
	if c.DiscordToken != "" && c.DiscordChannelID == "" {
		return types.NewGameError(types.ErrInvalidArgument, "DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

// DiscordEnabled reports whether round summaries should be posted
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

// RuleSet resolves the configured rules
func (c *Config) RuleSet() (*rules.CompleteRuleSet, error) {
	payout, err := rules.ParseRatio(c.BlackjackPayout)
	if err != nil {
		return nil, types.WrapError(types.ErrInvalidRule, "invalid BLACKJACK_PAYOUT", err)
	}

	ruleSet, err := rules.NewBuilder().
		Name("env").
		Decks(c.Decks).
		DealerRule(rules.DealerRule(strings.ToUpper(c.DealerRule))).
		DealerPeek(c.DealerPeek).
		BlackjackPayout(payout.Numerator, payout.Denominator).
		Surrender(rules.SurrenderMode(strings.ToLower(c.Surrender))).
		DoubleAfterSplit(c.DoubleAfterSplit).
		DoubleRestriction(rules.DoubleRestriction(strings.ToLower(c.DoubleRestriction))).
		ResplitAces(c.ResplitAces).
		HitSplitAces(c.HitSplitAces).
		MaxSplits(c.MaxSplits).
		CharlieCards(c.CharlieCards).
		Dealer22Push(c.Dealer22Push).
		BlackjackTie(rules.TieOutcome(strings.ToLower(c.BlackjackTie))).
		TableLimits(c.TableMin, c.TableMax, c.TableUnit).
		Build()
	if err != nil {
		return nil, types.WrapError(types.ErrInvalidRule, "invalid table rules", err)
	}
	return ruleSet, nil
}

// parser collects every malformed variable instead of stopping at the first
type parser struct {
	errs []error
}

func (p *parser) fail(key, value string) {
	p.errs = append(p.errs, fmt.Errorf("%s: cannot parse %q", key, value))
}

func (p *parser) err() error {
	if len(p.errs) == 0 {
		return nil
	}
	return types.WrapError(types.ErrInvalidArgument, "invalid configuration", errors.Join(p.errs...))
}

func (p *parser) int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return n
}

func (p *parser) float(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return f
}

func (p *parser) bool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value)
		return defaultValue
	}
	return b
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
