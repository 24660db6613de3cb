package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"

	"haunted_slot/internal/config/env"
	"haunted_slot/internal/model"
	"haunted_slot/internal/sim"
	"haunted_slot/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	_ "go.uber.org/automaxprocs"
)

func main() {
	path := flag.String("config", "configs/slot.yaml", "slot math config")
	volatility := flag.String("volatility", "", "low, medium or high (default from config)")
	rtpMode := flag.String("rtp", "", "tight, standard or loose (default from config)")
	spins := flag.Int("spins", 1_000_000, "number of spins to simulate")
	workers := flag.Int("workers", runtime.GOMAXPROCS(0), "parallel workers, each with its own machine")
	bet := flag.Float64("bet", 10, "stake per paid spin, must be one of bet_options")
	seed := flag.Uint64("seed", 0, "0 for a random seed")
	flag.Parse()

	log := logger.New(&logger.Config{Mode: logger.Dev, Level: "info", App: "slot-sim"})
	defer func() { _ = log.Sync() }()

	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("read config", zap.Error(err))
	}
	cfg, err := env.ParseSlotConfig(data, *volatility, *rtpMode)
	if err != nil {
		log.Fatal("parse config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rep, err := sim.Run(ctx, cfg, sim.Options{
		Spins:   *spins,
		Workers: *workers,
		Bet:     decimal.NewFromFloat(*bet),
		Seed:    *seed,
	}, log)
	if err != nil {
		log.Fatal("simulation", zap.Error(err))
	}

	fmt.Printf("volatility=%s rtp_mode=%s reels=%s\n", cfg.Volatility(), cfg.RTPMode(), cfg.ReelMode())
	fmt.Printf("spins        %d (paid %d, free %d)\n", rep.Spins, rep.PaidSpins, rep.FreeSpins)
	fmt.Printf("bet / win    %s / %s\n", rep.TotalBet.StringFixed(2), rep.TotalWin.StringFixed(2))
	fmt.Printf("rtp          %.4f\n", rep.RTP())
	fmt.Printf("hit rate     %.4f\n", rep.HitRate())
	fmt.Printf("max win      %s\n", rep.MaxWin.StringFixed(2))
	fmt.Printf("free spins   triggers %d, sessions %d\n", rep.Triggers, rep.Sessions)
	fmt.Printf("jackpots     %s total\n", rep.JackpotWin.StringFixed(2))
	for _, tier := range model.TierPriority {
		fmt.Printf("  %-8s %d\n", tier, rep.JackpotHits[tier])
	}

	names := make([]string, 0, len(rep.Symbols))
	for name := range rep.Symbols {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return rep.Symbols[names[i]] > rep.Symbols[names[j]] })
	cells := float64(rep.Spins * model.Rows * model.Reels)
	fmt.Println("symbols")
	for _, name := range names {
		fmt.Printf("  %-14s %.4f\n", name, float64(rep.Symbols[name])/cells)
	}
	fmt.Printf("elapsed      %s\n", rep.Elapsed)
}
