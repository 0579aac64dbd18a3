package snapshot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Chunked container layout: a fixed header followed by one
// uvarint-length-prefixed zstd frame per chunk, each frame holding the
// msgpack encoding of the chunk's column vectors. Boundaries are fully
// self-describing, so decode yields exactly the chunks as written.
var chunkedMagic = []byte{0xe4, 0x3b, 0x45, 0x52, 0x01}

type chunkWriter struct {
	file *os.File
	buf  *bufio.Writer
}

func newChunkWriter(path string) (*chunkWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewWriter(f)
	_, err = buf.Write(chunkedMagic)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &chunkWriter{file: f, buf: buf}, nil
}

func (w *chunkWriter) writeChunk(payload []byte) error {
	compressed := zstdEncoder.EncodeAll(payload, make([]byte, 0, len(payload)))
	var length [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(length[:], uint64(len(compressed)))
	_, err := w.buf.Write(length[:n])
	if err != nil {
		return err
	}
	_, err = w.buf.Write(compressed)
	return err
}

func (w *chunkWriter) close() error {
	err := w.buf.Flush()
	if err != nil {
		w.file.Close()
		return err
	}
	err = w.file.Sync()
	if err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

type chunkReader struct {
	file *os.File
	buf  *bufio.Reader
}

func newChunkReader(path string) (*chunkReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	buf := bufio.NewReader(f)
	header := make([]byte, len(chunkedMagic))
	_, err = io.ReadFull(buf, header)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("invalid chunked snapshot header: %s", err)
	}
	for i, b := range chunkedMagic {
		if header[i] != b {
			f.Close()
			return nil, fmt.Errorf("invalid chunked snapshot magic %x", header)
		}
	}
	return &chunkReader{file: f, buf: buf}, nil
}

// readChunk returns the next decompressed chunk payload, or io.EOF after
// the last chunk. A length prefix without its full payload means the
// file was truncated.
func (r *chunkReader) readChunk() ([]byte, error) {
	length, err := binary.ReadUvarint(r.buf)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("invalid chunk length: %s", err)
	}
	compressed := make([]byte, length)
	_, err = io.ReadFull(r.buf, compressed)
	if err != nil {
		return nil, fmt.Errorf("truncated chunk of %d bytes: %s", length, err)
	}
	payload, err := zstdDecoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("malformed chunk frame: %s", err)
	}
	return payload, nil
}

func (r *chunkReader) close() error {
	return r.file.Close()
}
