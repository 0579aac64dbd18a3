package genesis

import (
	"context"
	"fmt"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/logger"
	"github.com/emberchain/ember/storage"
)

// GroupSource is a lazy, finite sequence of one category's groups in
// increasing index order. snapshot.Groups satisfies it; the final
// contracts-root phase feeds a slice-backed source instead.
type GroupSource[T any] interface {
	Next() bool
	Group() common.Group[T]
	Err() error
	Close() error
}

type groupHandler[T any] interface {
	processGroup(txn *storage.GenesisTxn, group common.Group[T]) error
}

// Runner drives one category's group sequence through its handler.
// Groups at or below the persisted cursor are skipped without invoking
// the handler, which makes a rerun after a crash apply every group
// exactly once. Cancellation is observed at group boundaries only, so a
// canceled runner leaves its last group either fully committed or not
// started.
type Runner[T any] struct {
	resource common.Resource
	source   GroupSource[T]
	handler  groupHandler[T]
	store    storage.Store
	ctx      context.Context
	done     func()
}

func NewRunner[T any](ctx context.Context, store storage.Store, resource common.Resource, source GroupSource[T], handler groupHandler[T], done func()) *Runner[T] {
	return &Runner[T]{
		resource: resource,
		source:   source,
		handler:  handler,
		store:    store,
		ctx:      ctx,
		done:     done,
	}
}

func (r *Runner[T]) Run() error {
	defer r.source.Close()

	cursor, applied, err := r.store.ReadProgress(r.resource)
	if err != nil {
		return fmt.Errorf("genesis %s read progress: %w", r.resource, err)
	}
	if applied {
		logger.Printf("genesis %s resuming after group %d\n", r.resource, cursor)
	}

	for r.source.Next() {
		select {
		case <-r.ctx.Done():
			logger.Printf("genesis %s canceled at group boundary\n", r.resource)
			return r.ctx.Err()
		default:
		}

		group := r.source.Group()
		if applied && group.Index <= cursor {
			logger.Debugf("genesis %s skipping applied group %d\n", r.resource, group.Index)
			continue
		}

		err = r.store.ApplyGroup(r.resource, group.Index, func(txn *storage.GenesisTxn) error {
			return r.handler.processGroup(txn, group)
		})
		if err != nil {
			return fmt.Errorf("genesis %s group %d: %w", r.resource, group.Index, err)
		}
		cursor, applied = group.Index, true
		logger.Verbosef("genesis %s applied group %d with %d records\n", r.resource, group.Index, len(group.Data))
	}
	if err := r.source.Err(); err != nil {
		return fmt.Errorf("genesis %s: %w", r.resource, err)
	}

	if r.done != nil {
		r.done()
	}
	return nil
}

// sliceSource adapts pre-built groups to the GroupSource contract.
type sliceSource[T any] struct {
	groups []common.Group[T]
	offset int
}

func newSliceSource[T any](groups []common.Group[T]) *sliceSource[T] {
	return &sliceSource[T]{groups: groups}
}

func (s *sliceSource[T]) Next() bool {
	if s.offset >= len(s.groups) {
		return false
	}
	s.offset++
	return true
}

func (s *sliceSource[T]) Group() common.Group[T] {
	return s.groups[s.offset-1]
}

func (s *sliceSource[T]) Err() error {
	return nil
}

func (s *sliceSource[T]) Close() error {
	return nil
}
