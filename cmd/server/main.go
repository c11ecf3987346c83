// Command server runs the lottery aggregation server: it listens for
// agency connections, persists bets, and hands out winners once every
// expected agency has announced completion.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/noahmasri/tp0-distribuidos/config"
	"github.com/noahmasri/tp0-distribuidos/lottery"
)

func main() {
	os.Exit(run())
}

func run() int {
	if isTerminal(os.Stderr) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return 1
	}

	srv, err := lottery.New(cfg, log.Logger)
	if err != nil {
		log.Error().Err(err).Str("bets_file", cfg.BetsFile).Msg("failed to open bet store")
		return 1
	}

	// SIGTERM for container orchestration, SIGINT for a foreground Ctrl-C;
	// both fold into the same one-way should_stop latch in lottery.Server.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		return 1
	}
	return 0
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
