package common

import "github.com/emberchain/ember/crypto"

// Message is a cross-chain message relayed from the foreign chain at
// DaHeight, spendable by Recipient once loaded.
type Message struct {
	Sender    Address `json:"sender"`
	Recipient Address `json:"recipient"`
	Nonce     uint64  `json:"nonce"`
	Amount    uint64  `json:"amount"`
	Data      []byte  `json:"data"`
	DaHeight  uint64  `json:"da_height"`
}

func (m *Message) CommitmentLeaf() crypto.Hash {
	payload := MsgpackMarshalPanic(m)
	return crypto.Blake3Hash(append([]byte("EMBER:LEAF:MESSAGE"), payload...))
}
