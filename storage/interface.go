package storage

import (
	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
)

// Store is the persistence contract the genesis loader depends on. The
// store serializes concurrent group transactions; runners only share
// read-only snapshot input and the cancellation signals.
type Store interface {
	ApplyGroup(res common.Resource, index uint64, fn func(*GenesisTxn) error) error
	ReadProgress(res common.Resource) (uint64, bool, error)
	ReadResourceRoot(res common.Resource) (crypto.Hash, error)
	ReadOutputIndex() (uint64, error)

	ListContractIds() ([]crypto.Hash, error)
	ComputeContractRoot(id crypto.Hash) (crypto.Hash, error)
	ReadContractRoot(id crypto.Hash) (crypto.Hash, error)
}
