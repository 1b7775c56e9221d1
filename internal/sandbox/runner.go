package sandbox

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/zeusync/simcore/internal/config"
	"github.com/zeusync/simcore/internal/core/events/bus"
	"github.com/zeusync/simcore/internal/core/observability/log"
	"github.com/zeusync/simcore/internal/core/store"
	"github.com/zeusync/simcore/pkg/concurrent"
)

// Runner owns a sandbox store and drives it at the configured tick rate.
// Deferred effects resolve on loader goroutines and are posted back through
// a mailbox that the tick loop drains.
type Runner struct {
	cfg     store.Config[*World, Action, Env]
	store   *store.Store[*World, Action, Env]
	mailbox *concurrent.Mailbox
	logger  log.Log
	dt      float64
	rate    time.Duration
	path    string
}

// NewRunner builds a runner around a fresh World. ctx bounds asset loads.
func NewRunner(ctx context.Context, cfg *config.Config, logger log.Log, events bus.Bus, assets AssetLoader) (*Runner, error) {
	mailbox := concurrent.NewMailbox()
	sc := store.Config[*World, Action, Env]{
		Reducer: Reducer(cfg.Simulation.Throttle),
		Environment: Env{
			Context: ctx,
			Assets:  assets,
			Asset:   "spark",
			Bounds:  cfg.Simulation.Bounds,
		},
		Entities:   repository,
		Components: Components(),
		Logger:     logger,
		Events:     events,
		Executor:   mailbox.Post,
	}
	if err := sc.Apply(cfg); err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	return &Runner{
		cfg:     sc,
		store:   store.New(NewWorld(), sc),
		mailbox: mailbox,
		logger:  logger.With(log.String("component", "sandbox")),
		dt:      cfg.Simulation.TickRate.Seconds(),
		rate:    cfg.Simulation.TickRate,
		path:    cfg.Snapshot.Path,
	}, nil
}

func (r *Runner) Store() *store.Store[*World, Action, Env] { return r.store }

func (r *Runner) World() *World { return r.store.State() }

func (r *Runner) Dispatch(a Action) error {
	r.mailbox.Drain()
	return r.store.Dispatch(a)
}

// Step runs resolved deferred effects, then advances one tick.
func (r *Runner) Step() error {
	r.mailbox.Drain()
	return r.store.Tick(r.dt)
}

// Run advances ticks steps in real time, or until ctx is done.
func (r *Runner) Run(ctx context.Context, ticks int) error {
	ticker := time.NewTicker(r.rate)
	defer ticker.Stop()

	for done := 0; done < ticks; {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.mailbox.Ready():
			r.mailbox.Drain()
		case <-ticker.C:
			if err := r.Step(); err != nil {
				return err
			}
			done++
		}
	}
	st := r.store.Stats()
	r.logger.Info("run finished",
		log.Uint64("ticks", st.Ticks),
		log.Uint64("dispatches", st.Dispatches),
		log.Int("live", r.World().Live),
		log.Int("pending", st.Pending),
	)
	return nil
}

// Save writes a snapshot to the configured path.
func (r *Runner) Save() error {
	data, err := r.store.Save()
	if err != nil {
		return err
	}
	if err = os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("sandbox: write snapshot: %w", err)
	}
	r.logger.Info("snapshot saved", log.String("path", r.path), log.Int("bytes", len(data)))
	return nil
}

// Load replaces the current store with the snapshot at the configured path.
// The current store is kept when the snapshot is rejected.
func (r *Runner) Load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("sandbox: read snapshot: %w", err)
	}
	restored, err := store.Restore(data, r.cfg)
	if err != nil {
		return err
	}
	r.store.Close()
	r.store = restored
	r.logger.Info("snapshot loaded", log.String("path", r.path), log.Int("entities", restored.Entities().Len()))
	return nil
}

func (r *Runner) Close() {
	r.store.Close()
	r.mailbox.Close()
}
