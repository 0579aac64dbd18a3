package storage

import (
	"fmt"
	"testing"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/config"
	"github.com/emberchain/ember/crypto"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *BadgerStore {
	custom, err := config.Initialize("")
	require.Nil(t, err)
	store, err := NewBadgerStore(custom, t.TempDir())
	require.Nil(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestGenesisProgress(t *testing.T) {
	require := require.New(t)
	store := testStore(t)

	_, ok, err := store.ReadProgress(common.ResourceCoins)
	require.Nil(err)
	require.False(ok)

	coin := &common.Coin{Amount: 10, Asset: crypto.Blake3Hash([]byte("asset"))}
	err = store.ApplyGroup(common.ResourceCoins, 0, func(txn *GenesisTxn) error {
		utxo := common.SyntheticUtxoId(0)
		err := txn.WriteCoin(coin, utxo, 0)
		if err != nil {
			return err
		}
		return txn.FoldResourceRoot(common.ResourceCoins, coin.CommitmentLeaf(utxo, 0))
	})
	require.Nil(err)

	index, ok, err := store.ReadProgress(common.ResourceCoins)
	require.Nil(err)
	require.True(ok)
	require.Equal(uint64(0), index)

	root, err := store.ReadResourceRoot(common.ResourceCoins)
	require.Nil(err)
	require.True(root.HasValue())

	// other categories are untouched
	_, ok, err = store.ReadProgress(common.ResourceMessages)
	require.Nil(err)
	require.False(ok)
}

func TestApplyGroupIsAtomic(t *testing.T) {
	require := require.New(t)
	store := testStore(t)

	coin := &common.Coin{Amount: 5}
	err := store.ApplyGroup(common.ResourceCoins, 0, func(txn *GenesisTxn) error {
		err := txn.WriteCoin(coin, common.SyntheticUtxoId(0), 0)
		require.Nil(err)
		return fmt.Errorf("handler failed")
	})
	require.NotNil(err)

	_, ok, err := store.ReadProgress(common.ResourceCoins)
	require.Nil(err)
	require.False(ok)
	coins, err := store.ListCoins()
	require.Nil(err)
	require.Empty(coins)
}

func TestOutputIndexCounter(t *testing.T) {
	require := require.New(t)
	store := testStore(t)

	index, err := store.ReadOutputIndex()
	require.Nil(err)
	require.Equal(uint64(0), index)

	err = store.ApplyGroup(common.ResourceCoins, 0, func(txn *GenesisTxn) error {
		i, err := txn.ReadOutputIndex()
		require.Nil(err)
		return txn.WriteOutputIndex(i + 3)
	})
	require.Nil(err)

	index, err = store.ReadOutputIndex()
	require.Nil(err)
	require.Equal(uint64(3), index)
}

func TestContractRoots(t *testing.T) {
	require := require.New(t)
	store := testStore(t)

	id := crypto.Blake3Hash([]byte("contract"))
	contract := &common.Contract{ContractId: id, Code: []byte{0x90}}
	states := []common.ContractState{
		{ContractId: id, Key: crypto.Hash{0x02}, Value: crypto.Blake3Hash([]byte("v1"))},
		{ContractId: id, Key: crypto.Hash{0x01}, Value: crypto.Blake3Hash([]byte("v0"))},
	}
	balances := []common.ContractBalance{
		{ContractId: id, Asset: crypto.Blake3Hash([]byte("asset")), Amount: 100},
	}

	err := store.ApplyGroup(common.ResourceContracts, 0, func(txn *GenesisTxn) error {
		return txn.WriteContract(contract, common.SyntheticUtxoId(0), 0)
	})
	require.Nil(err)
	err = store.ApplyGroup(common.ResourceContractStates, 0, func(txn *GenesisTxn) error {
		return txn.WriteContractStates(states)
	})
	require.Nil(err)
	err = store.ApplyGroup(common.ResourceContractBalances, 0, func(txn *GenesisTxn) error {
		return txn.WriteContractBalances(balances)
	})
	require.Nil(err)

	ids, err := store.ListContractIds()
	require.Nil(err)
	require.Equal([]crypto.Hash{id}, ids)

	root, err := store.ComputeContractRoot(id)
	require.Nil(err)
	require.True(root.HasValue())

	// roots are independent of write order, entries fold in key order
	again, err := store.ComputeContractRoot(id)
	require.Nil(err)
	require.Equal(root, again)

	err = store.ApplyGroup(common.ResourceContractsRoot, 0, func(txn *GenesisTxn) error {
		return txn.WriteContractRoot(id, root)
	})
	require.Nil(err)
	persisted, err := store.ReadContractRoot(id)
	require.Nil(err)
	require.Equal(root, persisted)

	loadedStates, err := store.ListContractStates(id)
	require.Nil(err)
	require.Len(loadedStates, 2)
	// key order, not insertion order
	require.Equal(states[1].Key, loadedStates[0].Key)

	loadedBalances, err := store.ListContractBalances(id)
	require.Nil(err)
	require.Len(loadedBalances, 1)
	require.Equal(uint64(100), loadedBalances[0].Amount)
}

func TestExportListers(t *testing.T) {
	require := require.New(t)
	store := testStore(t)

	coin := &common.Coin{Amount: 7, Owner: common.Address{1}}
	msg := &common.Message{Nonce: 9, Amount: 3, Data: []byte{0xde}}
	err := store.ApplyGroup(common.ResourceCoins, 0, func(txn *GenesisTxn) error {
		return txn.WriteCoin(coin, common.SyntheticUtxoId(0), 4)
	})
	require.Nil(err)
	err = store.ApplyGroup(common.ResourceMessages, 0, func(txn *GenesisTxn) error {
		return txn.WriteMessage(msg)
	})
	require.Nil(err)

	coins, err := store.ListCoins()
	require.Nil(err)
	require.Len(coins, 1)
	require.Equal(uint64(7), coins[0].Amount)
	require.Equal(common.SyntheticUtxoId(0).TxId, *coins[0].TxId)
	require.Equal(uint32(4), *coins[0].TxPointerBlockHeight)

	messages, err := store.ListMessages()
	require.Nil(err)
	require.Len(messages, 1)
	require.Equal(*msg, messages[0])
}
