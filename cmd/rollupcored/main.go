// Package main provides the rollupcored daemon - a minimal state-and-mempool
// core for a layer-2 rollup node.
package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/klingon-exchange/rollupcore/internal/config"
	"github.com/klingon-exchange/rollupcore/internal/kv"
	"github.com/klingon-exchange/rollupcore/internal/mempool"
	"github.com/klingon-exchange/rollupcore/internal/smt"
	"github.com/klingon-exchange/rollupcore/internal/store"
	"github.com/klingon-exchange/rollupcore/pkg/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "unknown"
)

func main() {
	var (
		dataDir     = flag.String("data-dir", "~/.rollupcore", "Data directory")
		configFile  = flag.String("config", "", "Config file path; only its directory is used and the file read there is config.yaml (default: <data-dir>/config.yaml)")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		seedGenesis = flag.Bool("seed-genesis", false, "Seed genesis state if the store is empty, then continue")
		showVersion = flag.Bool("version", false, "Show version and exit")
	)
	flag.Parse()

	log := logging.New(&logging.Config{
		Level:      *logLevel,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	if *showVersion {
		log.Infof("rollupcored %s (commit: %s)", version, commit)
		os.Exit(0)
	}

	effectiveDataDir := *dataDir

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadConfig(filepath.Dir(*configFile))
	} else {
		cfg, err = config.LoadConfig(effectiveDataDir)
	}
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}
	cfg.Logging.Level = *logLevel
	cfg.Storage.DataDir = effectiveDataDir

	log = logging.New(&logging.Config{
		Level:      cfg.Logging.Level,
		TimeFormat: time.TimeOnly,
	})
	logging.SetDefault(log)

	loadedPath := config.ConfigPath(effectiveDataDir)
	if *configFile != "" {
		loadedPath = config.ConfigPath(filepath.Dir(*configFile))
	}
	log.Info("Config loaded", "path", loadedPath)

	dataPath := expandPath(cfg.Storage.DataDir)
	kvStore, err := kv.Open(filepath.Join(dataPath, "db"))
	if err != nil {
		log.Fatal("Failed to open store", "error", err)
	}
	defer kvStore.Close()
	log.Info("Store opened", "path", dataPath)

	coreStore := store.New(kvStore)

	if *seedGenesis {
		if err := coreStore.InitGenesis(smt.Zero, smt.Zero[:]); err != nil && err != store.ErrAlreadySeeded {
			log.Fatal("Failed to seed genesis", "error", err)
		} else if err == nil {
			log.Info("Genesis seeded")
		} else {
			log.Info("Genesis already seeded, continuing")
		}
	}

	queue := mempool.New()
	log.Info("Mempool queue initialized")

	printBanner(log, cfg, dataPath)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	statusDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-statusDone:
				return
			case <-ticker.C:
				log.Info("Status", "pending_entries", queue.Len())
			}
		}
	}()

	<-sigCh
	log.Info("Shutting down...")
	close(statusDone)
	log.Info("Goodbye!")
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

func printBanner(log *logging.Logger, cfg *config.Config, dataPath string) {
	log.Info("")
	log.Info("=================================================")
	log.Infof("  rollupcore state-and-mempool core")
	log.Infof("  Version: %s", version)
	log.Info("=================================================")
	log.Info("")
	log.Infof("  Data dir: %s", dataPath)
	log.Infof("  Fee schedule: meta=%d eth-addr-reg=%d sudt=%d withdraw=%d",
		cfg.Fee.MetaCyclesLimit, cfg.Fee.EthAddrRegCyclesLimit, cfg.Fee.SudtCyclesLimit, cfg.Fee.WithdrawCyclesLimit)
	log.Info("")
	log.Info("=================================================")
	log.Info("")
}
