package common

import (
	"encoding/binary"

	"github.com/emberchain/ember/crypto"
)

// UtxoId is the canonical provenance of a coin or contract output.
type UtxoId struct {
	TxId        crypto.Hash
	OutputIndex uint8
}

const syntheticOutputDomain = "EMBER:GENESIS:OUTPUT"

// SyntheticUtxoId derives a deterministic origin for a genesis record
// that carries no explicit provenance. Each record draws one slot from
// the shared output-index counter, so bare coins and contracts still get
// unique, reproducible identities.
func SyntheticUtxoId(slot uint64) UtxoId {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, slot)
	return UtxoId{
		TxId: crypto.Blake3Hash(append([]byte(syntheticOutputDomain), buf...)),
	}
}

// Key renders the id as a fixed-width byte key suitable for store
// prefixed lookups.
func (u UtxoId) Key() []byte {
	return append(append([]byte{}, u.TxId[:]...), u.OutputIndex)
}
