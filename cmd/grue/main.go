// Package main provides the grue binary: an interactive table console that
// seats a party of character sheets and resolves checks against them.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/rollforgrue/grue/internal/app"
	"github.com/rollforgrue/grue/internal/config"
	"github.com/rollforgrue/grue/internal/console"
	"github.com/rollforgrue/grue/internal/game/dice"
	"github.com/rollforgrue/grue/internal/game/environment"
	"github.com/rollforgrue/grue/internal/game/sheet"
	"github.com/rollforgrue/grue/internal/game/table"
	"github.com/rollforgrue/grue/internal/observability"
	"github.com/rollforgrue/grue/internal/scripting"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/grue.yaml", "path to configuration file")
	sheetsDir := flag.String("sheets", "", "character sheet YAML directory; overrides table.sheets_dir")
	macrosDir := flag.String("macros", "", "Lua macro directory; overrides macros.dir")
	seed := flag.Int64("seed", 0, "dice seed for a replayable session; overrides table.seed")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *sheetsDir != "" {
		cfg.Table.SheetsDir = *sheetsDir
	}
	if *macrosDir != "" {
		cfg.Macros.Dir = *macrosDir
	}
	if *seed != 0 {
		cfg.Table.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	var src dice.Source
	if cfg.Table.Seed != 0 {
		src = dice.NewSeededSource(cfg.Table.Seed)
		logger.Info("dice seeded for replay", zap.Int64("seed", cfg.Table.Seed))
	} else {
		src = dice.NewTimeSource()
	}

	tbl := table.New(dice.NewDice(src, logger), logger)
	lighting, err := environment.ParseLighting(cfg.Table.Lighting)
	if err != nil {
		logger.Fatal("configuring lighting", zap.Error(err))
	}
	tbl.SetLighting(lighting)

	// Seat the party
	seatStart := time.Now()
	sheets, err := sheet.LoadDirectory(cfg.Table.SheetsDir)
	if err != nil {
		logger.Fatal("loading sheets", zap.Error(err))
	}
	for _, s := range sheets {
		if _, err := tbl.AddSheet(s); err != nil {
			logger.Fatal("seating character",
				zap.String("name", s.Name),
				zap.Error(err),
			)
		}
	}
	logger.Info("party seated",
		zap.Int("characters", tbl.Size()),
		zap.Duration("elapsed", time.Since(seatStart)),
	)

	// Initialise macro engine
	var macroMgr *scripting.Manager
	if cfg.Macros.Dir != "" {
		macroMgr = scripting.NewManager(logger)
		defer macroMgr.Close()
		if err := macroMgr.Load(cfg.Macros.Dir, cfg.Macros.Budget); err != nil {
			logger.Fatal("loading macros", zap.Error(err))
		}
	}

	repl := console.New(tbl, macroMgr, os.Stdin, os.Stdout, logger)

	// Wire lifecycle
	lifecycle := app.NewLifecycle(logger)
	lifecycle.Add("console", &app.FuncService{
		StartFn: repl.Run,
		StopFn:  repl.Stop,
	})

	logger.Info("table ready",
		zap.String("table_id", tbl.ID()),
		zap.String("lighting", tbl.Lighting().String()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("console error", zap.Error(err))
	}
}
