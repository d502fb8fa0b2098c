package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/elicit/internal/catalog"
	"github.com/sells-group/elicit/internal/engine"
)

// elicitEnv holds the category store and engine shared by the turn, serve,
// and replay commands.
type elicitEnv struct {
	Store  catalog.Store
	Engine *engine.Engine
}

// Close releases the store.
func (ee *elicitEnv) Close() {
	if ee.Store != nil {
		_ = ee.Store.Close()
	}
}

// openCatalog validates config for mode and opens the configured category
// store.
func openCatalog(ctx context.Context, mode string) (catalog.Store, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := catalog.Open(ctx, cfg.Catalog)
	if err != nil {
		return nil, eris.Wrap(err, "open catalog")
	}

	zap.L().Debug("catalog opened",
		zap.String("driver", cfg.Catalog.Driver),
		zap.String("mode", mode),
	)
	return st, nil
}

// initEngine opens the catalog and builds the engine. Callers should defer
// env.Close().
func initEngine(ctx context.Context, mode string) (*elicitEnv, error) {
	st, err := openCatalog(ctx, mode)
	if err != nil {
		return nil, err
	}

	return &elicitEnv{
		Store:  st,
		Engine: engine.New(st, cfg.Engine),
	}, nil
}
