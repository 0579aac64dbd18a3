package common

import "github.com/emberchain/ember/crypto"

// Coin is one spendable output in the genesis snapshot. Origin fields
// are optional: a coin without a tx id is a bare genesis coin and gets a
// synthetic deterministic identity when loaded; a coin without a tx
// pointer height is treated as already matured at the genesis height.
type Coin struct {
	TxId                 *crypto.Hash `json:"tx_id,omitempty"`
	OutputIndex          *uint8       `json:"output_index,omitempty"`
	TxPointerBlockHeight *uint32      `json:"tx_pointer_block_height,omitempty"`
	TxPointerTxIndex     *uint16      `json:"tx_pointer_tx_idx,omitempty"`
	Maturity             *uint32      `json:"maturity,omitempty"`
	Owner                Address      `json:"owner"`
	Amount               uint64       `json:"amount"`
	Asset                crypto.Hash  `json:"asset_id"`
}

// HasProvenance reports whether the coin carries an explicit origin.
func (c *Coin) HasProvenance() bool {
	return c.TxId != nil && c.OutputIndex != nil
}

// ProvenanceOr resolves the coin's canonical identity, falling back to
// the given synthetic id when the snapshot left the origin absent.
func (c *Coin) ProvenanceOr(synthetic UtxoId) UtxoId {
	if c.HasProvenance() {
		return UtxoId{TxId: *c.TxId, OutputIndex: *c.OutputIndex}
	}
	return synthetic
}

// Canonical returns a copy with all optional fields resolved, the form
// the store persists and the commitment leaf covers.
func (c *Coin) Canonical(utxo UtxoId, height uint32) *Coin {
	canonical := *c
	canonical.TxId = &utxo.TxId
	canonical.OutputIndex = &utxo.OutputIndex
	if canonical.TxPointerBlockHeight == nil {
		canonical.TxPointerBlockHeight = &height
	}
	if canonical.TxPointerTxIndex == nil {
		idx := uint16(0)
		canonical.TxPointerTxIndex = &idx
	}
	if canonical.Maturity == nil {
		maturity := uint32(0)
		canonical.Maturity = &maturity
	}
	return &canonical
}

// CommitmentLeaf folds to the coin's contribution to the coins root.
func (c *Coin) CommitmentLeaf(utxo UtxoId, height uint32) crypto.Hash {
	payload := MsgpackMarshalPanic(c.Canonical(utxo, height))
	return crypto.Blake3Hash(append([]byte("EMBER:LEAF:COIN"), payload...))
}
