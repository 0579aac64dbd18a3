package storage

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
)

// ListContractIds enumerates every contract written so far, in
// lexicographic id order.
func (s *BadgerStore) ListContractIds() ([]crypto.Hash, error) {
	var ids []crypto.Hash
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(genesisPrefixContract)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := it.Item().Key()
			var id crypto.Hash
			copy(id[:], key[len(genesisPrefixContract):])
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

// ComputeContractRoot folds the contract's state entries then balance
// entries, both in lexicographic key order, into one root. It reads the
// now-complete store contents, so it must only run after every group
// contributing to the contract has been applied.
func (s *BadgerStore) ComputeContractRoot(id crypto.Hash) (crypto.Hash, error) {
	var root crypto.Hash
	err := s.db.View(func(txn *badger.Txn) error {
		statePrefix := append([]byte(genesisPrefixContractState), id[:]...)
		err := foldPrefix(txn, statePrefix, "EMBER:LEAF:STATE", &root)
		if err != nil {
			return err
		}
		balancePrefix := append([]byte(genesisPrefixContractBalance), id[:]...)
		return foldPrefix(txn, balancePrefix, "EMBER:LEAF:BALANCE", &root)
	})
	return root, err
}

func foldPrefix(txn *badger.Txn, prefix []byte, domain string, root *crypto.Hash) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		payload := append([]byte(domain), item.Key()[len(prefix):]...)
		payload = append(payload, val...)
		*root = crypto.FoldRoot(*root, crypto.Blake3Hash(payload))
	}
	return nil
}

func (s *BadgerStore) ReadContractRoot(id crypto.Hash) (crypto.Hash, error) {
	var root crypto.Hash
	err := s.db.View(func(txn *badger.Txn) error {
		key := append([]byte(genesisPrefixContractRoot), id[:]...)
		hash, err := readHash(txn, key)
		root = hash
		return err
	})
	return root, err
}

// ReadContract returns the stored metadata of one contract, or nil when
// the contract is unknown.
func (s *BadgerStore) ReadContract(id crypto.Hash) (*common.Contract, error) {
	var contract *common.Contract
	err := s.db.View(func(txn *badger.Txn) error {
		key := append([]byte(genesisPrefixContract), id[:]...)
		item, err := txn.Get(key)
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
		var out common.Contract
		err = common.MsgpackUnmarshal(ival, &out)
		if err != nil {
			return err
		}
		contract = &out
		return nil
	})
	return contract, err
}
