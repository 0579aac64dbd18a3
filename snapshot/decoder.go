package snapshot

import (
	"fmt"
	"io"
	"os"

	"github.com/emberchain/ember/common"
)

// Decoder opens group sequences over one snapshot directory. Every
// category method returns a fresh iterator bound to its own file handle,
// so sequences are independently restartable and replayable.
type Decoder struct {
	dir       string
	format    Format
	groupSize int
}

func OpenDecoder(dir string) (*Decoder, error) {
	format, groupSize, err := readMetadata(dir)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %s", dir, err)
	}
	return &Decoder{dir: dir, format: format, groupSize: groupSize}, nil
}

func (d *Decoder) Format() Format {
	return d.format
}

func (d *Decoder) GroupSize() int {
	return d.groupSize
}

// WithGroupSize overrides the row-format regrouping size. The size must
// match or exceed the encode-time group size, otherwise decoded group
// indices will not line up with persisted progress cursors. It has no
// effect on the chunked format, whose boundaries are self-describing.
func (d *Decoder) WithGroupSize(size int) *Decoder {
	override := *d
	override.groupSize = size
	return &override
}

func (d *Decoder) Coins() *Groups[common.Coin] {
	return openGroups(d, common.ResourceCoins, coinCodec)
}

func (d *Decoder) Messages() *Groups[common.Message] {
	return openGroups(d, common.ResourceMessages, messageCodec)
}

func (d *Decoder) Contracts() *Groups[common.Contract] {
	return openGroups(d, common.ResourceContracts, contractCodec)
}

func (d *Decoder) ContractStates() *Groups[common.ContractState] {
	return openGroups(d, common.ResourceContractStates, contractStateCodec)
}

func (d *Decoder) ContractBalances() *Groups[common.ContractBalance] {
	return openGroups(d, common.ResourceContractBalances, contractBalanceCodec)
}

type groupSource[T any] interface {
	nextGroup() ([]T, error)
	close() error
}

// Groups lazily yields one category's groups in encode order, assigning
// sequential indices from 0. Decode failures surface on the offending
// group; groups already yielded stay valid. A missing category file is
// an empty sequence.
type Groups[T any] struct {
	source groupSource[T]
	cur    common.Group[T]
	next   uint64
	err    error
	done   bool
}

func openGroups[T any](d *Decoder, res common.Resource, codec columnsCodec[T]) *Groups[T] {
	path := categoryPath(d.dir, d.format, res)
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &Groups[T]{done: true}
	}
	if err != nil {
		return &Groups[T]{err: err, done: true}
	}
	switch d.format {
	case FormatRow:
		r, err := newRowReader(path)
		if err != nil {
			return &Groups[T]{err: err, done: true}
		}
		return &Groups[T]{source: &rowSource[T]{reader: r, size: d.groupSize}}
	case FormatChunked:
		r, err := newChunkReader(path)
		if err != nil {
			return &Groups[T]{err: err, done: true}
		}
		return &Groups[T]{source: &chunkSource[T]{reader: r, codec: codec}}
	}
	panic(d.format)
}

func (g *Groups[T]) Next() bool {
	if g.done || g.err != nil {
		return false
	}
	data, err := g.source.nextGroup()
	if err == io.EOF {
		g.done = true
		g.Close()
		return false
	}
	if err != nil {
		g.err = err
		g.done = true
		g.Close()
		return false
	}
	g.cur = common.Group[T]{Index: g.next, Data: data}
	g.next++
	return true
}

func (g *Groups[T]) Group() common.Group[T] {
	return g.cur
}

func (g *Groups[T]) Err() error {
	return g.err
}

func (g *Groups[T]) Close() error {
	if g.source == nil {
		return nil
	}
	source := g.source
	g.source = nil
	g.done = true
	return source.close()
}

type rowSource[T any] struct {
	reader *rowReader
	size   int
}

func (s *rowSource[T]) nextGroup() ([]T, error) {
	var records []T
	for len(records) < s.size {
		var record T
		err := s.reader.decodeRecord(&record)
		if err == io.EOF {
			if len(records) == 0 {
				return nil, io.EOF
			}
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("malformed row record: %s", err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *rowSource[T]) close() error {
	return s.reader.close()
}

type chunkSource[T any] struct {
	reader *chunkReader
	codec  columnsCodec[T]
}

func (s *chunkSource[T]) nextGroup() ([]T, error) {
	payload, err := s.reader.readChunk()
	if err != nil {
		return nil, err
	}
	return s.codec.join(payload)
}

func (s *chunkSource[T]) close() error {
	return s.reader.close()
}
