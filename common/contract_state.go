package common

import "github.com/emberchain/ember/crypto"

// ContractState is one key/value slot of a contract's storage.
type ContractState struct {
	ContractId crypto.Hash `json:"contract_id"`
	Key        crypto.Hash `json:"key"`
	Value      crypto.Hash `json:"value"`
}
