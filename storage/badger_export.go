package storage

import (
	"github.com/dgraph-io/badger/v4"
	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
)

// The List methods stream loaded records back out in store key order,
// used to regenerate a snapshot from a populated store. Contract state
// and balances are emitted as standalone records, never re-embedded.

func (s *BadgerStore) ListCoins() ([]common.Coin, error) {
	var coins []common.Coin
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, genesisPrefixUTXO, func(key, val []byte) error {
			var coin common.Coin
			err := common.MsgpackUnmarshal(val, &coin)
			if err != nil {
				return err
			}
			coins = append(coins, coin)
			return nil
		})
	})
	return coins, err
}

func (s *BadgerStore) ListMessages() ([]common.Message, error) {
	var messages []common.Message
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, genesisPrefixMessage, func(key, val []byte) error {
			var msg common.Message
			err := common.MsgpackUnmarshal(val, &msg)
			if err != nil {
				return err
			}
			messages = append(messages, msg)
			return nil
		})
	})
	return messages, err
}

func (s *BadgerStore) ListContracts() ([]common.Contract, error) {
	var contracts []common.Contract
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, genesisPrefixContract, func(key, val []byte) error {
			var contract common.Contract
			err := common.MsgpackUnmarshal(val, &contract)
			if err != nil {
				return err
			}
			contracts = append(contracts, contract)
			return nil
		})
	})
	return contracts, err
}

func (s *BadgerStore) ListContractStates(id crypto.Hash) ([]common.ContractState, error) {
	var states []common.ContractState
	prefix := string(append([]byte(genesisPrefixContractState), id[:]...))
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func(key, val []byte) error {
			state := common.ContractState{ContractId: id}
			copy(state.Key[:], key)
			copy(state.Value[:], val)
			states = append(states, state)
			return nil
		})
	})
	return states, err
}

func (s *BadgerStore) ListContractBalances(id crypto.Hash) ([]common.ContractBalance, error) {
	var balances []common.ContractBalance
	prefix := string(append([]byte(genesisPrefixContractBalance), id[:]...))
	err := s.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, prefix, func(key, val []byte) error {
			balance := common.ContractBalance{ContractId: id, Amount: bytesToUint64(val)}
			copy(balance.Asset[:], key)
			balances = append(balances, balance)
			return nil
		})
	})
	return balances, err
}

// scanPrefix visits every entry under prefix in key order, passing the
// key suffix after the prefix and a copy of the value.
func scanPrefix(txn *badger.Txn, prefix string, fn func(key, val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		err = fn(item.Key()[len(prefix):], val)
		if err != nil {
			return err
		}
	}
	return nil
}
