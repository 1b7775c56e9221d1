package store

import (
	"fmt"

	"github.com/zeusync/simcore/internal/core/component"
)

const snapshotVersion uint16 = 1

// envelope frames a saved state. Schema is the component registry
// fingerprint; a state saved with a different set of component types is
// rejected instead of decoded into the wrong layout.
type envelope[S any] struct {
	Version uint16 `yaml:"version"`
	Schema  uint64 `yaml:"schema"`
	Codec   string `yaml:"codec"`
	State   S      `yaml:"state"`
}

// Save encodes the state with the configured codec. Pending and deferred
// effects are not part of a snapshot.
func (s *Store[S, A, E]) Save() ([]byte, error) {
	data, err := s.codec.Marshal(envelope[S]{
		Version: snapshotVersion,
		Schema:  s.registry.Fingerprint(),
		Codec:   s.codec.Name(),
		State:   s.state,
	})
	if err != nil {
		return nil, fmt.Errorf("store: encode snapshot: %w", err)
	}
	return data, nil
}

// Restore builds a store around a state decoded from data. Nothing is
// returned unless the version, component schema and entity repository all
// check out.
func Restore[S, A, E any](data []byte, cfg Config[S, A, E]) (*Store[S, A, E], error) {
	codec := cfg.codec()
	var env envelope[S]
	if err := codec.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("store: decode snapshot: %w", err)
	}
	if env.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrSnapshotVersion, env.Version)
	}
	if env.Codec != codec.Name() {
		return nil, fmt.Errorf("store: snapshot written by codec %q, reading with %q", env.Codec, codec.Name())
	}
	want := component.NewRegistry(cfg.Components...).Fingerprint()
	if env.Schema != want {
		return nil, fmt.Errorf("%w: have %x, want %x", ErrSnapshotSchema, env.Schema, want)
	}
	if cfg.Entities == nil || cfg.Entities(env.State) == nil {
		return nil, ErrSnapshotState
	}
	return New(env.State, cfg), nil
}
