package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/fadedpez/tucotable/internal/config"
	"github.com/fadedpez/tucotable/internal/discord"
	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/fadedpez/tucotable/internal/sim"
	"github.com/fadedpez/tucotable/pkg/events"
	"github.com/fadedpez/tucotable/pkg/ledger"
	ledgerrepo "github.com/fadedpez/tucotable/pkg/repositories/ledger"
	"github.com/fadedpez/tucotable/pkg/rules"
	"github.com/fadedpez/tucotable/pkg/scheduler"
	"github.com/fadedpez/tucotable/pkg/services/statistics"
)

type CLI struct {
	Rounds        int           `kong:"default='1000',help='Number of rounds to play'"`
	Players       int           `kong:"default='3',help='Number of seats'"`
	Bankroll      int64         `kong:"default='100000',help='Starting bank per player in cents'"`
	Bet           int64         `kong:"default='0',help='Flat bet in cents (0 uses the table minimum)'"`
	HouseBank     int64         `kong:"default='100000000',help='Starting house bank in cents'"`
	Policy        string        `kong:"default='simple',enum='simple,mimic',help='Player policy (simple, mimic)'"`
	Seed          int64         `kong:"default='0',help='Shuffle seed (0 uses the current time)'"`
	FlushInterval time.Duration `kong:"default='5s',help='How often buffered sinks are flushed'"`
	EnvFile       []string      `kong:"help='.env files to load before the environment'"`
	Debug         bool          `kong:"default='false',help='Show debug logs'"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("tablesim"),
		kong.Description("Plays simulated blackjack rounds against a configured rule set"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	cfg, err := config.Load(cli.EnvFile...)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	level := cfg.LogLevel
	if cli.Debug {
		level = logging.DEBUG
	}
	logger := logging.NewLogger(level)

	ruleSet, err := cfg.RuleSet()
	if err != nil {
		log.Fatalf("Failed to build rules: %v", err)
	}
	fmt.Printf("Rules: %s\n", ruleSet)
	fmt.Printf("Estimated house edge: %.2f%%\n", ruleSet.HouseEdge)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := quartz.NewReal()
	stats := statistics.NewService(clock)
	sinks := events.Multi{events.NewLog(logger), stats}
	sched := scheduler.NewScheduler(clock, logger)
	var flushers []scheduler.Flusher

	if cfg.ElasticsearchURL != "" {
		esConfig := events.DefaultElasticsearchConfig()
		esConfig.URL = cfg.ElasticsearchURL
		es, err := events.NewElasticsearch(esConfig, logger)
		if err != nil {
			log.Fatalf("Failed to create Elasticsearch sink: %v", err)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			log.Fatalf("Failed to prepare Elasticsearch index: %v", err)
		}
		sinks = append(sinks, es)
		sched.AddFlusher("elasticsearch", cli.FlushInterval, es)
		flushers = append(flushers, es)
	}

	var announcer *events.Discord
	if cfg.DiscordEnabled() {
		session, err := discord.NewSession(cfg.DiscordToken)
		if err != nil {
			log.Fatalf("Failed to create Discord session: %v", err)
		}
		if err := session.Open(); err != nil {
			log.Fatalf("Failed to open Discord session: %v", err)
		}
		defer session.Close()

		announcer = events.NewDiscord(session, cfg.DiscordChannelID, logger)
		sinks = append(sinks, announcer)
		sched.AddFlusher("discord", cli.FlushInterval, announcer)
		flushers = append(flushers, announcer)
	}

	var repo ledgerrepo.Repository = ledgerrepo.NewMemoryRepository()
	if cfg.LedgerDBPath != "" {
		repo, err = ledgerrepo.NewSQLiteRepository(cfg.LedgerDBPath)
		if err != nil {
			log.Fatalf("Failed to open ledger database: %v", err)
		}
	}
	defer repo.Close()

	bet := cli.Bet
	if bet == 0 {
		bet = ruleSet.TableMin
	}
	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	house := ledger.NewHouse("house", cli.HouseBank, ledger.WithClock(clock))
	players := make([]*sim.Player, 0, cli.Players)
	for i := 0; i < cli.Players; i++ {
		id := fmt.Sprintf("seat-%d", i+1)
		players = append(players, &sim.Player{
			ID:     id,
			Bank:   ledger.NewAccount(id, cli.Bankroll, ledger.WithClock(clock)),
			Bet:    bet,
			Policy: policyFor(cli.Policy),
		})
	}

	table, err := sim.NewTable(sim.Config{
		Rules:       ruleSet,
		Penetration: cfg.Penetration,
		Seed:        seed,
		House:       house,
		Players:     players,
		Sink:        sinks,
		Logger:      logger,
		Clock:       clock,
		Repository:  repo,
	})
	if err != nil {
		log.Fatalf("Failed to set up table: %v", err)
	}

	sched.Start(ctx)
	runErr := table.Run(ctx, cli.Rounds)
	sched.Stop()

	if runErr != nil {
		logger.LogError(runErr)
		if announcer != nil {
			announcer.Announce(runErr)
		}
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := scheduler.FlushAll(flushCtx, flushers...); err != nil {
		logger.Error("Failed to flush sinks: %v", err)
	}

	fmt.Printf("Played %d rounds on %d shoes\n", table.Rounds(), table.Shoes())
	fmt.Printf("House P/L: %s\n", rules.FormatCents(house.ProfitLoss()))
	board := stats.GetLeaderboard(1, len(players))
	for _, p := range board.Players {
		fmt.Printf("%2d. %-8s hands=%-6d win=%5.1f%% net=%s\n",
			p.Rank, p.PlayerID, p.HandsPlayed, p.WinRate, rules.FormatCents(p.NetProfit()))
	}

	if runErr != nil {
		os.Exit(1)
	}
}

func policyFor(name string) sim.Policy {
	if name == "mimic" {
		return sim.DealerMimic{}
	}
	return sim.Simple{}
}
