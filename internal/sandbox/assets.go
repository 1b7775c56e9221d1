package sandbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/zeusync/simcore/internal/core/future"
)

var ErrAssetNotFound = errors.New("sandbox: asset not found")

type AssetLoader interface {
	Load(ctx context.Context, name string) (Sprite, error)
}

// Catalog serves sprites from memory.
type Catalog map[string]Sprite

func DefaultCatalog() Catalog {
	return Catalog{
		"spark": {Name: "spark", Frames: 4},
		"ember": {Name: "ember", Frames: 6},
		"smoke": {Name: "smoke", Frames: 12},
	}
}

func (c Catalog) Load(ctx context.Context, name string) (Sprite, error) {
	if err := ctx.Err(); err != nil {
		return Sprite{}, err
	}
	s, ok := c[name]
	if !ok {
		return Sprite{}, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
	}
	return s, nil
}

// Preload loads names with at most limit concurrent loads and returns the
// sprites in the order requested.
func Preload(ctx context.Context, loader AssetLoader, limit int, names ...string) ([]Sprite, error) {
	loaders := make([]func(context.Context) (Sprite, error), len(names))
	for i, name := range names {
		loaders[i] = func(ctx context.Context) (Sprite, error) { return loader.Load(ctx, name) }
	}
	return future.Collect(ctx, limit, loaders...).Await(ctx)
}
