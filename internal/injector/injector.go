//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"context"

	"github.com/google/wire"

	"github.com/zeusync/simcore/internal/config"
	"github.com/zeusync/simcore/internal/sandbox"
)

func InitializeRunner(ctx context.Context, cfg *config.Config) (*sandbox.Runner, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
