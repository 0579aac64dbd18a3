package genesis

import (
	"math"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
	"github.com/emberchain/ember/storage"
)

// outputHandler applies the record-level categories. Coins and
// contracts both consume identity slots from one output-index counter;
// the counter lives in the store and is advanced inside each group
// transaction, so a resumed run continues exactly where the last
// committed group left it.
type outputHandler struct {
	height uint32
}

func (h *outputHandler) processCoins(txn *storage.GenesisTxn, group common.Group[common.Coin]) error {
	index, err := txn.ReadOutputIndex()
	if err != nil {
		return err
	}
	for i := range group.Data {
		coin := &group.Data[i]
		utxo := coin.ProvenanceOr(common.SyntheticUtxoId(index))
		err = txn.WriteCoin(coin, utxo, h.height)
		if err != nil {
			return err
		}
		err = txn.FoldResourceRoot(common.ResourceCoins, coin.CommitmentLeaf(utxo, h.height))
		if err != nil {
			return err
		}
		index = nextOutputIndex(index)
	}
	return txn.WriteOutputIndex(index)
}

func (h *outputHandler) processContracts(txn *storage.GenesisTxn, group common.Group[common.Contract]) error {
	index, err := txn.ReadOutputIndex()
	if err != nil {
		return err
	}
	for i := range group.Data {
		contract := &group.Data[i]
		utxo := contract.ProvenanceOr(common.SyntheticUtxoId(index))
		err = txn.WriteContract(contract, utxo, h.height)
		if err != nil {
			return err
		}
		// embedded entries land exactly as their standalone encodings would
		err = txn.WriteContractStates(contract.StateRecords())
		if err != nil {
			return err
		}
		err = txn.WriteContractBalances(contract.BalanceRecords())
		if err != nil {
			return err
		}
		err = txn.FoldResourceRoot(common.ResourceContracts, contract.CommitmentLeaf(utxo, h.height))
		if err != nil {
			return err
		}
		index = nextOutputIndex(index)
	}
	return txn.WriteOutputIndex(index)
}

func (h *outputHandler) processMessages(txn *storage.GenesisTxn, group common.Group[common.Message]) error {
	for i := range group.Data {
		msg := &group.Data[i]
		err := txn.WriteMessage(msg)
		if err != nil {
			return err
		}
		err = txn.FoldResourceRoot(common.ResourceMessages, msg.CommitmentLeaf())
		if err != nil {
			return err
		}
	}
	return nil
}

func nextOutputIndex(index uint64) uint64 {
	if index == math.MaxUint64 {
		panic("the maximum number of genesis outputs has been exceeded")
	}
	return index + 1
}

// handlerFunc adapts a method to the groupHandler contract.
type handlerFunc[T any] func(txn *storage.GenesisTxn, group common.Group[T]) error

func (f handlerFunc[T]) processGroup(txn *storage.GenesisTxn, group common.Group[T]) error {
	return f(txn, group)
}

// The group-level categories write whole batches with no per-record
// commitment folding; their records only influence the per-contract
// roots computed in the final phase.
func processContractStates(txn *storage.GenesisTxn, group common.Group[common.ContractState]) error {
	return txn.WriteContractStates(group.Data)
}

func processContractBalances(txn *storage.GenesisTxn, group common.Group[common.ContractBalance]) error {
	return txn.WriteContractBalances(group.Data)
}

// contractsRootHandler recomputes and persists one contract root per
// record. It reads committed store contents, so it must only run after
// every contract, state and balance group has been applied.
type contractsRootHandler struct {
	store storage.Store
}

func (h *contractsRootHandler) processGroup(txn *storage.GenesisTxn, group common.Group[crypto.Hash]) error {
	for _, id := range group.Data {
		root, err := h.store.ComputeContractRoot(id)
		if err != nil {
			return err
		}
		err = txn.WriteContractRoot(id, root)
		if err != nil {
			return err
		}
		payload := append([]byte("EMBER:LEAF:CONTRACTROOT"), id[:]...)
		payload = append(payload, root[:]...)
		err = txn.FoldResourceRoot(common.ResourceContractsRoot, crypto.Blake3Hash(payload))
		if err != nil {
			return err
		}
	}
	return nil
}
