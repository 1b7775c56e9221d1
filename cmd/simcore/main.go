package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/zeusync/simcore/internal/config"
	"github.com/zeusync/simcore/internal/injector"
	"github.com/zeusync/simcore/internal/sandbox"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a .yaml or .toml config file")
		ticks      = flag.Int("ticks", -1, "ticks to run; overrides simulation.ticks")
		load       = flag.Bool("load", false, "restore the snapshot before running")
		save       = flag.Bool("save", true, "write a snapshot after running")
		preload    = flag.Bool("preload", true, "load every sprite before the first tick")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, injector.ConfigPath(*configPath), *ticks, *load, *save, *preload); err != nil {
		fmt.Fprintln(os.Stderr, "simcore:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path injector.ConfigPath, ticks int, load, save, preload bool) error {
	cfg, err := injector.ProvideConfig(path)
	if err != nil {
		return err
	}
	if ticks >= 0 {
		cfg.Simulation.Ticks = ticks
	}

	runner, cleanup, err := injector.InitializeRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	defer runner.Close()

	if preload {
		names := make([]string, 0, len(sandbox.DefaultCatalog()))
		for name := range sandbox.DefaultCatalog() {
			names = append(names, name)
		}
		if _, err = sandbox.Preload(ctx, sandbox.DefaultCatalog(), 4, names...); err != nil {
			return err
		}
	}

	if load {
		if err = runner.Load(); err != nil {
			return err
		}
	} else if err = seed(runner, cfg); err != nil {
		return err
	}

	if err = runner.Run(ctx, cfg.Simulation.Ticks); err != nil {
		return err
	}
	if save {
		return runner.Save()
	}
	return nil
}

func seed(runner *sandbox.Runner, cfg *config.Config) error {
	return runner.Dispatch(sandbox.Action{
		Kind:     sandbox.Wave,
		Count:    cfg.Simulation.Wave,
		Velocity: sandbox.Velocity{DX: cfg.Simulation.Speed},
	})
}
