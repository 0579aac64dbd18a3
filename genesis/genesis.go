package genesis

import (
	"context"
	"errors"

	"github.com/emberchain/ember/snapshot"
	"github.com/emberchain/ember/storage"
)

// Load replays a snapshot into the store, anchoring genesis outputs at
// height. It returns nil on success, context.Canceled when the caller's
// token fired (each category stays independently resumable), or the
// first category error encountered.
func Load(ctx context.Context, store storage.Store, decoder *snapshot.Decoder, height uint32, workers int) error {
	return NewWorkers(store, decoder, height).Run(ctx, workers)
}

// Canceled reports whether a load outcome was a cooperative stop rather
// than a failure.
func Canceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
