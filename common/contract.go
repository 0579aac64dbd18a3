package common

import "github.com/emberchain/ember/crypto"

// Contract is the metadata of one deployed contract, optionally carrying
// its initial key/value state and asset balances inline. A contract with
// embedded entries is equivalent to the same contract emitted bare plus
// standalone ContractState/ContractBalance records: both paths produce
// identical store contents and identical commitments.
type Contract struct {
	ContractId           crypto.Hash    `json:"contract_id"`
	Code                 []byte         `json:"code"`
	Salt                 crypto.Hash    `json:"salt"`
	State                []StateEntry   `json:"state,omitempty"`
	Balances             []BalanceEntry `json:"balances,omitempty"`
	TxId                 *crypto.Hash   `json:"tx_id,omitempty"`
	OutputIndex          *uint8         `json:"output_index,omitempty"`
	TxPointerBlockHeight *uint32        `json:"tx_pointer_block_height,omitempty"`
	TxPointerTxIndex     *uint16        `json:"tx_pointer_tx_idx,omitempty"`
}

type StateEntry struct {
	Key   crypto.Hash `json:"key"`
	Value crypto.Hash `json:"value"`
}

type BalanceEntry struct {
	Asset  crypto.Hash `json:"asset_id"`
	Amount uint64      `json:"amount"`
}

func (c *Contract) HasProvenance() bool {
	return c.TxId != nil && c.OutputIndex != nil
}

func (c *Contract) ProvenanceOr(synthetic UtxoId) UtxoId {
	if c.HasProvenance() {
		return UtxoId{TxId: *c.TxId, OutputIndex: *c.OutputIndex}
	}
	return synthetic
}

// StateRecords expands the embedded state entries to standalone records.
func (c *Contract) StateRecords() []ContractState {
	records := make([]ContractState, len(c.State))
	for i, entry := range c.State {
		records[i] = ContractState{
			ContractId: c.ContractId,
			Key:        entry.Key,
			Value:      entry.Value,
		}
	}
	return records
}

// BalanceRecords expands the embedded balance entries to standalone
// records.
func (c *Contract) BalanceRecords() []ContractBalance {
	records := make([]ContractBalance, len(c.Balances))
	for i, entry := range c.Balances {
		records[i] = ContractBalance{
			ContractId: c.ContractId,
			Asset:      entry.Asset,
			Amount:     entry.Amount,
		}
	}
	return records
}

// CommitmentLeaf covers the contract metadata and provenance only. The
// embedded state and balance entries are deliberately excluded, they
// contribute to the per-contract root computed in the final phase.
func (c *Contract) CommitmentLeaf(utxo UtxoId, height uint32) crypto.Hash {
	canonical := *c
	canonical.State = nil
	canonical.Balances = nil
	canonical.TxId = &utxo.TxId
	canonical.OutputIndex = &utxo.OutputIndex
	if canonical.TxPointerBlockHeight == nil {
		canonical.TxPointerBlockHeight = &height
	}
	if canonical.TxPointerTxIndex == nil {
		idx := uint16(0)
		canonical.TxPointerTxIndex = &idx
	}
	payload := MsgpackMarshalPanic(&canonical)
	return crypto.Blake3Hash(append([]byte("EMBER:LEAF:CONTRACT"), payload...))
}
