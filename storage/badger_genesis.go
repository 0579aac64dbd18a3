package storage

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v4"
	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
)

const (
	genesisPrefixUTXO            = "UTXO"            // canonical utxo id to stored coin
	genesisPrefixMessage         = "MESSAGE"         // nonce to stored message
	genesisPrefixContract        = "CONTRACTINFO"    // contract id to metadata and code
	genesisPrefixContractState   = "CONTRACTSTATE"   // contract id and slot key to value
	genesisPrefixContractBalance = "CONTRACTBALANCE" // contract id and asset id to amount
	genesisPrefixContractRoot    = "CONTRACTROOT"    // contract id to state and balance root
	genesisPrefixProgress        = "GENESISPROGRESS" // category to last applied group index
	genesisPrefixRoot            = "GENESISROOT"     // category to commitment accumulator
	genesisKeyOutputIndex        = "GENESISOUTPUTINDEX"
)

// GenesisTxn scopes all mutations of one group application. Everything
// written through it, plus the progress cursor advance ApplyGroup adds,
// lands in one badger transaction: it commits entirely or not at all.
type GenesisTxn struct {
	txn *badger.Txn
}

// ApplyGroup runs fn inside a transaction and, when fn succeeds,
// advances the category's progress cursor to index before committing.
func (s *BadgerStore) ApplyGroup(res common.Resource, index uint64, fn func(*GenesisTxn) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := fn(&GenesisTxn{txn: txn})
		if err != nil {
			return err
		}
		return txn.Set(genesisProgressKey(res), uint64ToBytes(index))
	})
}

func (t *GenesisTxn) WriteCoin(coin *common.Coin, utxo common.UtxoId, height uint32) error {
	canonical := coin.Canonical(utxo, height)
	key := append([]byte(genesisPrefixUTXO), utxo.Key()...)
	return t.txn.Set(key, common.MsgpackMarshalPanic(canonical))
}

func (t *GenesisTxn) WriteMessage(msg *common.Message) error {
	key := append([]byte(genesisPrefixMessage), uint64ToBytes(msg.Nonce)...)
	return t.txn.Set(key, common.MsgpackMarshalPanic(msg))
}

func (t *GenesisTxn) WriteContract(contract *common.Contract, utxo common.UtxoId, height uint32) error {
	meta := *contract
	meta.State = nil
	meta.Balances = nil
	meta.TxId = &utxo.TxId
	meta.OutputIndex = &utxo.OutputIndex
	if meta.TxPointerBlockHeight == nil {
		meta.TxPointerBlockHeight = &height
	}
	key := append([]byte(genesisPrefixContract), contract.ContractId[:]...)
	return t.txn.Set(key, common.MsgpackMarshalPanic(&meta))
}

func (t *GenesisTxn) WriteContractStates(states []common.ContractState) error {
	for i := range states {
		s := &states[i]
		key := append([]byte(genesisPrefixContractState), s.ContractId[:]...)
		key = append(key, s.Key[:]...)
		err := t.txn.Set(key, s.Value[:])
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *GenesisTxn) WriteContractBalances(balances []common.ContractBalance) error {
	for i := range balances {
		b := &balances[i]
		key := append([]byte(genesisPrefixContractBalance), b.ContractId[:]...)
		key = append(key, b.Asset[:]...)
		err := t.txn.Set(key, uint64ToBytes(b.Amount))
		if err != nil {
			return err
		}
	}
	return nil
}

// FoldResourceRoot folds one commitment leaf into the category's durable
// accumulator. The fold is part of the group transaction, so the
// accumulator can never run ahead of or behind the applied records.
func (t *GenesisTxn) FoldResourceRoot(res common.Resource, leaf crypto.Hash) error {
	key := genesisRootKey(res)
	acc, err := readHash(t.txn, key)
	if err != nil {
		return err
	}
	folded := crypto.FoldRoot(acc, leaf)
	return t.txn.Set(key, folded[:])
}

func (t *GenesisTxn) WriteContractRoot(id, root crypto.Hash) error {
	key := append([]byte(genesisPrefixContractRoot), id[:]...)
	return t.txn.Set(key, root[:])
}

func (t *GenesisTxn) ReadOutputIndex() (uint64, error) {
	item, err := t.txn.Get([]byte(genesisKeyOutputIndex))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	ival, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return bytesToUint64(ival), nil
}

func (t *GenesisTxn) WriteOutputIndex(index uint64) error {
	return t.txn.Set([]byte(genesisKeyOutputIndex), uint64ToBytes(index))
}

// ReadProgress returns the last fully applied group index of a category,
// or ok false when no group has been applied yet.
func (s *BadgerStore) ReadProgress(res common.Resource) (uint64, bool, error) {
	var index uint64
	var ok bool
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(genesisProgressKey(res))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		ival, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		index, ok = bytesToUint64(ival), true
		return nil
	})
	return index, ok, err
}

func (s *BadgerStore) ReadResourceRoot(res common.Resource) (crypto.Hash, error) {
	var root crypto.Hash
	err := s.db.View(func(txn *badger.Txn) error {
		acc, err := readHash(txn, genesisRootKey(res))
		root = acc
		return err
	})
	return root, err
}

func (s *BadgerStore) ReadOutputIndex() (uint64, error) {
	var index uint64
	err := s.db.View(func(txn *badger.Txn) error {
		gt := &GenesisTxn{txn: txn}
		i, err := gt.ReadOutputIndex()
		index = i
		return err
	})
	return index, err
}

func genesisProgressKey(res common.Resource) []byte {
	return append([]byte(genesisPrefixProgress), res.String()...)
}

func genesisRootKey(res common.Resource) []byte {
	return append([]byte(genesisPrefixRoot), res.String()...)
}

func readHash(txn *badger.Txn, key []byte) (crypto.Hash, error) {
	var hash crypto.Hash
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return hash, nil
	}
	if err != nil {
		return hash, err
	}
	ival, err := item.ValueCopy(nil)
	if err != nil {
		return hash, err
	}
	copy(hash[:], ival)
	return hash, nil
}

func uint64ToBytes(i uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, i)
	return buf
}

func bytesToUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
