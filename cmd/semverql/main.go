// semverql - semantic versions in SQLite
//
// Installs semver functions, the "semver" collation and the
// semver_requirements table into an embedded SQLite database and exposes
// them through a small CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/asteroid-belt/semverql/internal/cli"
	"github.com/asteroid-belt/semverql/internal/config"
	"github.com/asteroid-belt/semverql/internal/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Errorf("load config: %v", err)
		os.Exit(1)
	}

	if err := log.Init(cfg.LogDir, cfg.Debug); err != nil {
		log.Errorf("init log: %v", err)
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	if err := cli.Execute(ctx, cfg); err != nil {
		_ = log.Close()
		os.Exit(1)
	}
}
