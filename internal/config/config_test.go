package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/types"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/fadedpez/tucotable/pkg/shoe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in
func clearEnv(t *testing.T) {
	for _, key := range []string{
		"TABLE_DECKS", "TABLE_PENETRATION", "DEALER_RULE", "DEALER_PEEK", "BLACKJACK_PAYOUT",
		"SURRENDER", "DOUBLE_AFTER_SPLIT", "DOUBLE_RESTRICTION", "RESPLIT_ACES", "HIT_SPLIT_ACES",
		"MAX_SPLITS", "CHARLIE_CARDS", "DEALER_22_PUSH", "BLACKJACK_TIE", "TABLE_MIN", "TABLE_MAX",
		"TABLE_UNIT", "LEDGER_DB_PATH", "ELASTICSEARCH_URL", "DISCORD_TOKEN", "DISCORD_CHANNEL_ID", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Decks)
	assert.Equal(t, 0.75, cfg.Penetration)
	assert.Equal(t, logging.INFO, cfg.LogLevel)
	assert.False(t, cfg.DiscordEnabled())

	r, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.Equal(t, "env", r.Name)
	assert.Equal(t, rules.StandSoft17, r.DealerRule)
	assert.Equal(t, rules.SurrenderNone, r.SurrenderMode())
	assert.Equal(t, int64(1000), r.TableMin)
	assert.InDelta(t, 0.40, r.HouseEdge, 1e-9)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TABLE_DECKS", "2")
	t.Setenv("DEALER_RULE", "h17")
	t.Setenv("SURRENDER", "late")
	t.Setenv("BLACKJACK_PAYOUT", "6:5")
	t.Setenv("DOUBLE_RESTRICTION", "10-11")
	t.Setenv("CHARLIE_CARDS", "5")
	t.Setenv("TABLE_MIN", "500")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, logging.DEBUG, cfg.LogLevel)

	r, err := cfg.RuleSet()
	require.NoError(t, err)
	assert.Equal(t, 2, r.Decks)
	assert.Equal(t, rules.HitSoft17, r.DealerRule)
	assert.True(t, r.LateSurrender)
	assert.Equal(t, rules.Ratio{Numerator: 6, Denominator: 5}, r.BlackjackPayout)
	assert.Equal(t, rules.DoubleTenToEleven, r.DoubleRestriction)
	assert.Equal(t, 5, r.CharlieCards)
	assert.Equal(t, int64(500), r.TableMin)
}

func TestLoadDotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "table.env")
	require.NoError(t, os.WriteFile(path, []byte("TABLE_DECKS=8\nMAX_SPLITS=1\n"), 0o644))

	// Unset so the file value applies; Setenv registers the restore
	t.Setenv("TABLE_DECKS", "")
	os.Unsetenv("TABLE_DECKS")
	t.Setenv("MAX_SPLITS", "2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Decks)
	assert.Equal(t, 2, cfg.MaxSplits, "environment wins over the file")
}

func TestLoadReportsEveryBadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("TABLE_DECKS", "six")
	t.Setenv("DEALER_PEEK", "maybe")
	t.Setenv("LOG_LEVEL", "loud")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "TABLE_DECKS")
	assert.Contains(t, err.Error(), "DEALER_PEEK")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestRuleSetRejectsBadRules(t *testing.T) {
	clearEnv(t)
	t.Setenv("DEALER_RULE", "S18")
	t.Setenv("BLACKJACK_TIE", "maybe")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	_, err = cfg.RuleSet()
	require.Error(t, err)
	assert.True(t, types.IsGameError(err, types.ErrInvalidRule))
}

func TestLoadRejectsPenetrationOutOfRange(t *testing.T) {
	for _, value := range []string{"1.5", "-0.1"} {
		clearEnv(t)
		t.Setenv("TABLE_PENETRATION", value)

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorIs(t, err, shoe.ErrInvalidPenetration, value)
	}

	clearEnv(t)
	t.Setenv("TABLE_PENETRATION", "1")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Penetration)
}

func TestDiscordNeedsChannel(t *testing.T) {
	clearEnv(t)
	t.Setenv("DISCORD_TOKEN", "secret")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("DISCORD_CHANNEL_ID", "1234")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.True(t, cfg.DiscordEnabled())
}
