package genesis

import (
	"context"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
	"github.com/emberchain/ember/snapshot"
	"github.com/emberchain/ember/storage"
	"golang.org/x/sync/errgroup"
)

// Workers runs one genesis runner per snapshot category on a bounded
// pool. The first failing runner cancels the shared context and its
// error is surfaced; sibling runners observe the cancellation at their
// next group boundary. The contracts-root phase runs as a separate
// later stage, only after every contract, state and balance group has
// been applied.
type Workers struct {
	store   storage.Store
	decoder *snapshot.Decoder
	height  uint32
	done    chan common.Resource
}

func NewWorkers(store storage.Store, decoder *snapshot.Decoder, height uint32) *Workers {
	return &Workers{
		store:   store,
		decoder: decoder,
		height:  height,
		done:    make(chan common.Resource, len(common.SnapshotResources())+1),
	}
}

// Done receives one notification per category that ran to natural
// exhaustion, usable for progress reporting. The channel is closed once
// Run returns.
func (w *Workers) Done() <-chan common.Resource {
	return w.done
}

// Run drives both stages to completion and closes the Done channel on
// return, so it must be called at most once per Workers.
func (w *Workers) Run(ctx context.Context, workers int) error {
	defer close(w.done)
	if workers <= 0 {
		workers = 1
	}
	eg, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	spawn := func(fn func(context.Context) error) {
		eg.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()
			return fn(gctx)
		})
	}

	// coins and contracts share the output-index counter, so they run
	// sequentially in one worker to keep slot assignment deterministic
	spawn(w.runOutputs)
	spawn(w.runMessages)
	spawn(w.runContractStates)
	spawn(w.runContractBalances)
	err := eg.Wait()
	if err != nil {
		return err
	}

	// Wait cancels the derived context even when every runner succeeds,
	// so the root phase runs on the caller's context instead
	return w.runContractsRoot(ctx)
}

func (w *Workers) runOutputs(ctx context.Context) error {
	err := w.runCoins(ctx)
	if err != nil {
		return err
	}
	return w.runContracts(ctx)
}

func (w *Workers) runCoins(ctx context.Context) error {
	handler := &outputHandler{height: w.height}
	runner := NewRunner(ctx, w.store, common.ResourceCoins, w.decoder.Coins(),
		handlerFunc[common.Coin](handler.processCoins), w.notify(common.ResourceCoins))
	return runner.Run()
}

func (w *Workers) runContracts(ctx context.Context) error {
	handler := &outputHandler{height: w.height}
	runner := NewRunner(ctx, w.store, common.ResourceContracts, w.decoder.Contracts(),
		handlerFunc[common.Contract](handler.processContracts), w.notify(common.ResourceContracts))
	return runner.Run()
}

func (w *Workers) runMessages(ctx context.Context) error {
	handler := &outputHandler{height: w.height}
	runner := NewRunner(ctx, w.store, common.ResourceMessages, w.decoder.Messages(),
		handlerFunc[common.Message](handler.processMessages), w.notify(common.ResourceMessages))
	return runner.Run()
}

func (w *Workers) runContractStates(ctx context.Context) error {
	runner := NewRunner(ctx, w.store, common.ResourceContractStates, w.decoder.ContractStates(),
		handlerFunc[common.ContractState](processContractStates), w.notify(common.ResourceContractStates))
	return runner.Run()
}

func (w *Workers) runContractBalances(ctx context.Context) error {
	runner := NewRunner(ctx, w.store, common.ResourceContractBalances, w.decoder.ContractBalances(),
		handlerFunc[common.ContractBalance](processContractBalances), w.notify(common.ResourceContractBalances))
	return runner.Run()
}

func (w *Workers) runContractsRoot(ctx context.Context) error {
	ids, err := w.store.ListContractIds()
	if err != nil {
		return err
	}
	groups := make([]common.Group[crypto.Hash], len(ids))
	for i, id := range ids {
		groups[i] = common.Group[crypto.Hash]{Index: uint64(i), Data: []crypto.Hash{id}}
	}
	handler := &contractsRootHandler{store: w.store}
	runner := NewRunner(ctx, w.store, common.ResourceContractsRoot, newSliceSource(groups),
		handler, w.notify(common.ResourceContractsRoot))
	return runner.Run()
}

func (w *Workers) notify(res common.Resource) func() {
	return func() {
		select {
		case w.done <- res:
		default:
		}
	}
}
