package genesis

import (
	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/snapshot"
	"github.com/emberchain/ember/storage"
)

// Export regenerates a snapshot from a loaded store. Records stream out
// in store key order, regrouped to the encoder's group size; contract
// state and balances are emitted standalone, never re-embedded, which
// is commitment-equivalent to the embedded encoding.
func Export(store *storage.BadgerStore, enc *snapshot.Encoder) error {
	coins, err := store.ListCoins()
	if err != nil {
		return err
	}
	for _, group := range common.MakeGroups(coins, enc.GroupSize()) {
		err = enc.WriteCoins(group.Data)
		if err != nil {
			return err
		}
	}

	messages, err := store.ListMessages()
	if err != nil {
		return err
	}
	for _, group := range common.MakeGroups(messages, enc.GroupSize()) {
		err = enc.WriteMessages(group.Data)
		if err != nil {
			return err
		}
	}

	contracts, err := store.ListContracts()
	if err != nil {
		return err
	}
	for _, group := range common.MakeGroups(contracts, enc.GroupSize()) {
		err = enc.WriteContracts(group.Data)
		if err != nil {
			return err
		}
	}

	var states []common.ContractState
	var balances []common.ContractBalance
	for _, contract := range contracts {
		cs, err := store.ListContractStates(contract.ContractId)
		if err != nil {
			return err
		}
		states = append(states, cs...)
		cb, err := store.ListContractBalances(contract.ContractId)
		if err != nil {
			return err
		}
		balances = append(balances, cb...)
	}
	for _, group := range common.MakeGroups(states, enc.GroupSize()) {
		err = enc.WriteContractStates(group.Data)
		if err != nil {
			return err
		}
	}
	for _, group := range common.MakeGroups(balances, enc.GroupSize()) {
		err = enc.WriteContractBalances(group.Data)
		if err != nil {
			return err
		}
	}

	return enc.Close()
}
