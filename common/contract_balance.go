package common

import "github.com/emberchain/ember/crypto"

// ContractBalance is one asset balance held by a contract.
type ContractBalance struct {
	ContractId crypto.Hash `json:"contract_id"`
	Asset      crypto.Hash `json:"asset_id"`
	Amount     uint64      `json:"amount"`
}
