package bitcode

import (
	"bytes"
	"encoding/binary"
)

// Writer builds a tagged record stream, the mirror image of Reader. It is
// used by tests to construct .gzc payloads without hand assembling byte
// slices at every call site.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// WriteHeader emits the magic and format version.
func (w *Writer) WriteHeader() {
	w.buf.WriteString(Magic)
	w.WriteUint32(Version)
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) { w.buf.WriteByte(v) }

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteUint64 appends a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteBytes appends raw bytes verbatim.
func (w *Writer) WriteBytes(b []byte) { w.buf.Write(b) }

// WriteString appends a uint32-length-prefixed string.
func (w *Writer) WriteString(s string) {
	w.WriteUint32(uint32(len(s)))
	w.buf.WriteString(s)
}

// WriteBool appends a one-byte boolean.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
	} else {
		w.WriteUint8(0)
	}
}

// WriteBlock appends a tag+length-prefixed block.
func (w *Writer) WriteBlock(tag uint8, payload []byte) {
	w.WriteUint8(tag)
	w.WriteUint32(uint32(len(payload)))
	w.buf.Write(payload)
}

// Bytes returns the accumulated stream.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }
