package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"time"

	"holdem-engine/internal/config"
	"holdem-engine/internal/rng"
	"holdem-engine/internal/util"
	"holdem-engine/pkg/db"
	"holdem-engine/pkg/ledger"
	"holdem-engine/pkg/room"
	"holdem-engine/pkg/room/gamefactory"
	"holdem-engine/pkg/table"

	"github.com/sirupsen/logrus"
)

var (
	tables  = flag.Int("tables", 0, "number of tables, overrides the config")
	hands   = flag.Int("hands", 0, "hands per table, overrides the config")
	players = flag.Int("players", 0, "players per table, overrides the config")
	seed    = flag.Int64("seed", 0, "seed for reproducible runs, overrides the config")
	verify  = flag.Bool("verify", false, "check every showdown against an independent evaluator")
	usePG   = flag.Bool("pg", false, "use the Postgres ledger instead of the in-memory one")
)

func main() {
	flag.Parse()

	cfg := config.Instance()
	setupLogger(cfg.Log)
	applyFlags(&cfg.Sim)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		logrus.WithError(err).Fatal("simulation failed")
	}
}

func applyFlags(sim *config.SimConfig) {
	if *tables > 0 {
		sim.Tables = *tables
	}

	if *hands > 0 {
		sim.Hands = *hands
	}

	if *players > 0 {
		sim.Players = *players
	}

	if *seed != 0 {
		sim.Seed = *seed
	}
}

func run(ctx context.Context, cfg config.Config) error {
	opts, err := cfg.Table.GameOptions()
	if err != nil {
		return err
	}

	// nobody is waiting on a bot
	opts.DecisionTimeout = 0
	opts.StreetDelay = 0

	if cfg.Sim.Players < 2 || cfg.Sim.Players > cfg.Table.MaxSeats {
		return fmt.Errorf("players must be between 2 and %d", cfg.Table.MaxSeats)
	}

	var gen rng.Generator = rng.Crypto{}
	if cfg.Sim.Seed != 0 {
		gen = rng.NewSeeded(cfg.Sim.Seed)
	}

	l, firstID, err := openLedger(cfg)
	if err != nil {
		return err
	}

	logger := logrus.StandardLogger()
	pitBoss := room.NewPitBoss(logger)
	factory := gamefactory.NewTexasHoldEm(opts)

	playerIDs := make([]int64, 0, cfg.Sim.Tables*cfg.Sim.Players)
	for i := 0; i < cfg.Sim.Tables; i++ {
		tbl, err := table.New(util.GetRandomName(gen), cfg.Table.MaxSeats, l)
		if err != nil {
			return err
		}

		for j := 0; j < cfg.Sim.Players; j++ {
			id := firstID + int64(len(playerIDs))
			if err := l.Credit(ctx, id, cfg.Sim.BuyIn, "buy-in"); err != nil {
				return err
			}

			if _, err := tbl.Sit(ctx, id); err != nil {
				return err
			}

			playerIDs = append(playerIDs, id)
		}

		if err := pitBoss.OpenTable(room.NewDealer(logger, tbl, l, factory, gen)); err != nil {
			return err
		}
	}

	before, err := totalBalance(ctx, l, playerIDs)
	if err != nil {
		return err
	}

	var checker *verifier
	if *verify {
		checker = newVerifier()
	}

	start := time.Now()
	strategy := room.RandomStrategy{Gen: gen}

	var mu sync.Mutex
	summaries := make([]string, 0, cfg.Sim.Tables)

	err = pitBoss.RunAll(ctx, func(ctx context.Context, d *room.Dealer) error {
		played := 0
		for played < cfg.Sim.Hands {
			details, err := d.PlayHand(ctx, nil, strategy)
			if errors.Is(err, room.ErrNotEnoughPlayers) {
				break
			}

			if err != nil {
				return err
			}

			if checker != nil {
				if err := checker.check(details); err != nil {
					return err
				}
			}

			played++
		}

		mu.Lock()
		summaries = append(summaries, fmt.Sprintf("%s: %d hands", d.Table().Name, played))
		mu.Unlock()
		return nil
	})
	if err != nil {
		return err
	}

	after, err := totalBalance(ctx, l, playerIDs)
	if err != nil {
		return err
	}

	sort.Strings(summaries)
	logger.WithFields(logrus.Fields{
		"tables":   cfg.Sim.Tables,
		"duration": time.Since(start).String(),
		"chips":    after,
	}).Info(strings.Join(summaries, ", "))

	if checker != nil {
		logger.WithField("showdowns", checker.showdowns()).Info("every showdown agreed with the reference evaluator")
	}

	if before != after {
		return fmt.Errorf("chips were not conserved: started with ${%d}, ended with ${%d}", before, after)
	}

	return nil
}

// openLedger returns the ledger and the first player ID to use
// Postgres runs get fresh player IDs so earlier runs do not interfere
func openLedger(cfg config.Config) (ledger.Ledger, int64, error) {
	if !*usePG {
		return ledger.NewMemory(), 1, nil
	}

	dbh, err := db.Open(cfg.PGDSN)
	if err != nil {
		return nil, 0, err
	}

	if err := db.Migrate(logrus.StandardLogger(), dbh, cfg.MigrationsPath); err != nil {
		return nil, 0, err
	}

	return ledger.NewPostgres(logrus.StandardLogger(), dbh), time.Now().UnixNano() / int64(time.Millisecond) * 1000, nil
}

func totalBalance(ctx context.Context, l ledger.Ledger, playerIDs []int64) (int, error) {
	total := 0
	for _, id := range playerIDs {
		balance, err := l.Balance(ctx, id)
		if err != nil {
			return 0, err
		}

		total += balance
	}

	return total, nil
}

func setupLogger(cfg config.LogConfig) {
	if lvl := cfg.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(cfg.Format) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
