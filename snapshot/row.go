package snapshot

import (
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v4"
)

// Row container layout: one zstd stream per category holding the
// concatenated msgpack encodings of every record, with no group framing.
// Decode re-derives group boundaries from the configured group size.
type rowWriter struct {
	file *os.File
	zw   *zstd.Encoder
}

func newRowWriter(path string) (*rowWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(3))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &rowWriter{file: f, zw: zw}, nil
}

func (w *rowWriter) writeRecord(encoded []byte) error {
	_, err := w.zw.Write(encoded)
	return err
}

func (w *rowWriter) close() error {
	err := w.zw.Close()
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

type rowReader struct {
	file *os.File
	zr   *zstd.Decoder
	dec  *msgpack.Decoder
}

func newRowReader(path string) (*rowReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &rowReader{file: f, zr: zr, dec: msgpack.NewDecoder(zr)}, nil
}

// decodeRecord reads the next record off the stream. io.EOF marks the
// clean end of the stream; any other error means the file is malformed
// or truncated.
func (r *rowReader) decodeRecord(val interface{}) error {
	return r.dec.Decode(val)
}

func (r *rowReader) close() error {
	r.zr.Close()
	return r.file.Close()
}
