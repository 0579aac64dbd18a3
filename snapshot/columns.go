package snapshot

import (
	"fmt"

	"github.com/emberchain/ember/common"
	"github.com/emberchain/ember/crypto"
)

// The chunked format is columnar: each chunk stores the group's records
// as per-field vectors. A codec pair splits records into column vectors
// for encode and joins a decoded vector payload back into records.
type columnsCodec[T any] struct {
	split func([]T) interface{}
	join  func([]byte) ([]T, error)
}

type coinColumns struct {
	TxId                 []*crypto.Hash
	OutputIndex          []*uint8
	TxPointerBlockHeight []*uint32
	TxPointerTxIndex     []*uint16
	Maturity             []*uint32
	Owner                []common.Address
	Amount               []uint64
	Asset                []crypto.Hash
}

var coinCodec = columnsCodec[common.Coin]{
	split: func(coins []common.Coin) interface{} {
		cols := coinColumns{}
		for _, c := range coins {
			cols.TxId = append(cols.TxId, c.TxId)
			cols.OutputIndex = append(cols.OutputIndex, c.OutputIndex)
			cols.TxPointerBlockHeight = append(cols.TxPointerBlockHeight, c.TxPointerBlockHeight)
			cols.TxPointerTxIndex = append(cols.TxPointerTxIndex, c.TxPointerTxIndex)
			cols.Maturity = append(cols.Maturity, c.Maturity)
			cols.Owner = append(cols.Owner, c.Owner)
			cols.Amount = append(cols.Amount, c.Amount)
			cols.Asset = append(cols.Asset, c.Asset)
		}
		return &cols
	},
	join: func(data []byte) ([]common.Coin, error) {
		var cols coinColumns
		err := common.MsgpackUnmarshal(data, &cols)
		if err != nil {
			return nil, err
		}
		n := len(cols.Owner)
		err = checkColumns(n, len(cols.TxId), len(cols.OutputIndex),
			len(cols.TxPointerBlockHeight), len(cols.TxPointerTxIndex),
			len(cols.Maturity), len(cols.Amount), len(cols.Asset))
		if err != nil {
			return nil, err
		}
		coins := make([]common.Coin, n)
		for i := range coins {
			coins[i] = common.Coin{
				TxId:                 cols.TxId[i],
				OutputIndex:          cols.OutputIndex[i],
				TxPointerBlockHeight: cols.TxPointerBlockHeight[i],
				TxPointerTxIndex:     cols.TxPointerTxIndex[i],
				Maturity:             cols.Maturity[i],
				Owner:                cols.Owner[i],
				Amount:               cols.Amount[i],
				Asset:                cols.Asset[i],
			}
		}
		return coins, nil
	},
}

type messageColumns struct {
	Sender    []common.Address
	Recipient []common.Address
	Nonce     []uint64
	Amount    []uint64
	Data      [][]byte
	DaHeight  []uint64
}

var messageCodec = columnsCodec[common.Message]{
	split: func(messages []common.Message) interface{} {
		cols := messageColumns{}
		for _, m := range messages {
			cols.Sender = append(cols.Sender, m.Sender)
			cols.Recipient = append(cols.Recipient, m.Recipient)
			cols.Nonce = append(cols.Nonce, m.Nonce)
			cols.Amount = append(cols.Amount, m.Amount)
			cols.Data = append(cols.Data, m.Data)
			cols.DaHeight = append(cols.DaHeight, m.DaHeight)
		}
		return &cols
	},
	join: func(data []byte) ([]common.Message, error) {
		var cols messageColumns
		err := common.MsgpackUnmarshal(data, &cols)
		if err != nil {
			return nil, err
		}
		n := len(cols.Sender)
		err = checkColumns(n, len(cols.Recipient), len(cols.Nonce),
			len(cols.Amount), len(cols.Data), len(cols.DaHeight))
		if err != nil {
			return nil, err
		}
		messages := make([]common.Message, n)
		for i := range messages {
			messages[i] = common.Message{
				Sender:    cols.Sender[i],
				Recipient: cols.Recipient[i],
				Nonce:     cols.Nonce[i],
				Amount:    cols.Amount[i],
				Data:      cols.Data[i],
				DaHeight:  cols.DaHeight[i],
			}
		}
		return messages, nil
	},
}

type contractColumns struct {
	ContractId           []crypto.Hash
	Code                 [][]byte
	Salt                 []crypto.Hash
	State                [][]common.StateEntry
	Balances             [][]common.BalanceEntry
	TxId                 []*crypto.Hash
	OutputIndex          []*uint8
	TxPointerBlockHeight []*uint32
	TxPointerTxIndex     []*uint16
}

var contractCodec = columnsCodec[common.Contract]{
	split: func(contracts []common.Contract) interface{} {
		cols := contractColumns{}
		for _, c := range contracts {
			cols.ContractId = append(cols.ContractId, c.ContractId)
			cols.Code = append(cols.Code, c.Code)
			cols.Salt = append(cols.Salt, c.Salt)
			cols.State = append(cols.State, c.State)
			cols.Balances = append(cols.Balances, c.Balances)
			cols.TxId = append(cols.TxId, c.TxId)
			cols.OutputIndex = append(cols.OutputIndex, c.OutputIndex)
			cols.TxPointerBlockHeight = append(cols.TxPointerBlockHeight, c.TxPointerBlockHeight)
			cols.TxPointerTxIndex = append(cols.TxPointerTxIndex, c.TxPointerTxIndex)
		}
		return &cols
	},
	join: func(data []byte) ([]common.Contract, error) {
		var cols contractColumns
		err := common.MsgpackUnmarshal(data, &cols)
		if err != nil {
			return nil, err
		}
		n := len(cols.ContractId)
		err = checkColumns(n, len(cols.Code), len(cols.Salt), len(cols.State),
			len(cols.Balances), len(cols.TxId), len(cols.OutputIndex),
			len(cols.TxPointerBlockHeight), len(cols.TxPointerTxIndex))
		if err != nil {
			return nil, err
		}
		contracts := make([]common.Contract, n)
		for i := range contracts {
			contracts[i] = common.Contract{
				ContractId:           cols.ContractId[i],
				Code:                 cols.Code[i],
				Salt:                 cols.Salt[i],
				State:                cols.State[i],
				Balances:             cols.Balances[i],
				TxId:                 cols.TxId[i],
				OutputIndex:          cols.OutputIndex[i],
				TxPointerBlockHeight: cols.TxPointerBlockHeight[i],
				TxPointerTxIndex:     cols.TxPointerTxIndex[i],
			}
		}
		return contracts, nil
	},
}

type contractStateColumns struct {
	ContractId []crypto.Hash
	Key        []crypto.Hash
	Value      []crypto.Hash
}

var contractStateCodec = columnsCodec[common.ContractState]{
	split: func(states []common.ContractState) interface{} {
		cols := contractStateColumns{}
		for _, s := range states {
			cols.ContractId = append(cols.ContractId, s.ContractId)
			cols.Key = append(cols.Key, s.Key)
			cols.Value = append(cols.Value, s.Value)
		}
		return &cols
	},
	join: func(data []byte) ([]common.ContractState, error) {
		var cols contractStateColumns
		err := common.MsgpackUnmarshal(data, &cols)
		if err != nil {
			return nil, err
		}
		n := len(cols.ContractId)
		err = checkColumns(n, len(cols.Key), len(cols.Value))
		if err != nil {
			return nil, err
		}
		states := make([]common.ContractState, n)
		for i := range states {
			states[i] = common.ContractState{
				ContractId: cols.ContractId[i],
				Key:        cols.Key[i],
				Value:      cols.Value[i],
			}
		}
		return states, nil
	},
}

type contractBalanceColumns struct {
	ContractId []crypto.Hash
	Asset      []crypto.Hash
	Amount     []uint64
}

var contractBalanceCodec = columnsCodec[common.ContractBalance]{
	split: func(balances []common.ContractBalance) interface{} {
		cols := contractBalanceColumns{}
		for _, b := range balances {
			cols.ContractId = append(cols.ContractId, b.ContractId)
			cols.Asset = append(cols.Asset, b.Asset)
			cols.Amount = append(cols.Amount, b.Amount)
		}
		return &cols
	},
	join: func(data []byte) ([]common.ContractBalance, error) {
		var cols contractBalanceColumns
		err := common.MsgpackUnmarshal(data, &cols)
		if err != nil {
			return nil, err
		}
		n := len(cols.ContractId)
		err = checkColumns(n, len(cols.Asset), len(cols.Amount))
		if err != nil {
			return nil, err
		}
		balances := make([]common.ContractBalance, n)
		for i := range balances {
			balances[i] = common.ContractBalance{
				ContractId: cols.ContractId[i],
				Asset:      cols.Asset[i],
				Amount:     cols.Amount[i],
			}
		}
		return balances, nil
	},
}

func checkColumns(n int, lengths ...int) error {
	for _, l := range lengths {
		if l != n {
			return fmt.Errorf("mismatched column lengths %d %d", n, l)
		}
	}
	return nil
}
