package main

import (
	"context"

	"github.com/sells-group/prospect-cli/internal/store"
)

// initStore opens the configured scan archive and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("runs"); err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}
