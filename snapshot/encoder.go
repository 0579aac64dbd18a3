package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/emberchain/ember/common"
)

const (
	rowSuffix     = ".mpk.zst"
	chunkedSuffix = ".col"
)

func categoryPath(dir string, format Format, res common.Resource) string {
	suffix := rowSuffix
	if format == FormatChunked {
		suffix = chunkedSuffix
	}
	return filepath.Join(dir, res.String()+suffix)
}

// Encoder writes record groups of every category into one snapshot
// directory. One Write call per logical group; nothing written before
// Close is guaranteed durable, and Close finalizes all category files
// and the snapshot metadata.
type Encoder struct {
	dir       string
	format    Format
	groupSize int
	rows      map[common.Resource]*rowWriter
	chunks    map[common.Resource]*chunkWriter
	closed    bool
}

func NewEncoder(dir string, format Format, groupSize int) (*Encoder, error) {
	if format != FormatRow && format != FormatChunked {
		return nil, fmt.Errorf("invalid snapshot format %s", format)
	}
	if groupSize <= 0 {
		return nil, fmt.Errorf("invalid snapshot group size %d", groupSize)
	}
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	return &Encoder{
		dir:       dir,
		format:    format,
		groupSize: groupSize,
		rows:      make(map[common.Resource]*rowWriter),
		chunks:    make(map[common.Resource]*chunkWriter),
	}, nil
}

func (e *Encoder) GroupSize() int {
	return e.groupSize
}

func (e *Encoder) WriteCoins(coins []common.Coin) error {
	return encodeGroup(e, common.ResourceCoins, coins, coinCodec)
}

func (e *Encoder) WriteMessages(messages []common.Message) error {
	return encodeGroup(e, common.ResourceMessages, messages, messageCodec)
}

func (e *Encoder) WriteContracts(contracts []common.Contract) error {
	return encodeGroup(e, common.ResourceContracts, contracts, contractCodec)
}

func (e *Encoder) WriteContractStates(states []common.ContractState) error {
	return encodeGroup(e, common.ResourceContractStates, states, contractStateCodec)
}

func (e *Encoder) WriteContractBalances(balances []common.ContractBalance) error {
	return encodeGroup(e, common.ResourceContractBalances, balances, contractBalanceCodec)
}

// Close flushes and finalizes every category file, then writes the
// snapshot metadata. A snapshot directory without metadata is not a
// valid snapshot.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	for res, w := range e.rows {
		err := w.close()
		if err != nil {
			return fmt.Errorf("close %s: %s", res, err)
		}
	}
	for res, w := range e.chunks {
		err := w.close()
		if err != nil {
			return fmt.Errorf("close %s: %s", res, err)
		}
	}
	return writeMetadata(e.dir, e.format, e.groupSize)
}

func encodeGroup[T any](e *Encoder, res common.Resource, records []T, codec columnsCodec[T]) error {
	if e.closed {
		return fmt.Errorf("snapshot encoder already closed")
	}
	// an empty write consumes no group index in either format
	if len(records) == 0 {
		return nil
	}
	switch e.format {
	case FormatRow:
		w := e.rows[res]
		if w == nil {
			var err error
			w, err = newRowWriter(categoryPath(e.dir, e.format, res))
			if err != nil {
				return err
			}
			e.rows[res] = w
		}
		for i := range records {
			err := w.writeRecord(common.MsgpackMarshalPanic(records[i]))
			if err != nil {
				return err
			}
		}
		return nil
	case FormatChunked:
		w := e.chunks[res]
		if w == nil {
			var err error
			w, err = newChunkWriter(categoryPath(e.dir, e.format, res))
			if err != nil {
				return err
			}
			e.chunks[res] = w
		}
		return w.writeChunk(common.MsgpackMarshalPanic(codec.split(records)))
	}
	panic(e.format)
}
