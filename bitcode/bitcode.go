// Package bitcode implements the tagged, length-delimited record stream
// that compiled grammar files (.gzc) are framed in. It knows nothing about
// grammars, RTNs, GLAs or IntFAs; it only understands bytes, tags and
// lengths, the same way a bitstream reader in a larger toolchain would.
package bitcode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic is the four-byte file signature every .gzc stream starts with.
const Magic = "GZLB"

// Version is the only bitcode format version this reader understands.
const Version uint32 = 1

// ErrMangled is wrapped into every error a read primitive or ReadBlock
// returns for truncated input, so callers can test for it with errors.Is
// regardless of which specific read failed. ReadHeader reports a missing or
// wrong magic with ErrBadMagic and an unknown version with
// ErrUnsupportedVersion instead.
var ErrMangled = errors.New("bitcode: mangled record stream")

// ErrBadMagic indicates the stream does not start with the expected header.
var ErrBadMagic = errors.New("bitcode: bad magic")

// ErrUnsupportedVersion indicates the stream's format version postdates (or
// predates) what this reader understands.
var ErrUnsupportedVersion = errors.New("bitcode: unsupported version")

// Block is one tag-prefixed, length-delimited record read from a Reader.
type Block struct {
	Tag     uint8
	Payload []byte
}

// Reader decodes a byte-aligned tagged record stream. It keeps a simple
// cursor over an in-memory buffer; a window/extend/release scheme isn't
// needed here since callers always load the whole grammar file up front,
// but the read primitives are shaped the same way regardless.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for sequential decoding.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Pos returns the current byte offset into the underlying buffer.
func (r *Reader) Pos() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

func (r *Reader) next(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, fmt.Errorf("%w: want %d bytes, have %d at offset %d", ErrMangled, n, r.Remaining(), r.pos)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadUint8 reads a single byte.
func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadBytes reads n raw bytes. The returned slice aliases the reader's
// backing array and must not be retained past further use of the Reader's
// source buffer if that buffer is mutated by the caller.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.next(n)
}

// ReadString reads a uint32-length-prefixed UTF-8 string.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint32()
	if err != nil {
		return "", err
	}
	b, err := r.next(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadBool reads a one-byte boolean (0 = false, anything else = true).
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadHeader validates the magic and returns the declared format version.
func (r *Reader) ReadHeader() (uint32, error) {
	magic, err := r.next(len(Magic))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrBadMagic, err)
	}
	if string(magic) != Magic {
		return 0, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}
	version, err := r.ReadUint32()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMangled, err)
	}
	if version != Version {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	return version, nil
}

// ReadBlock reads one tag+length-prefixed block. Callers that don't
// recognize the tag can simply discard Payload and keep reading; the
// length prefix guarantees the stream stays in sync.
func (r *Reader) ReadBlock() (Block, error) {
	tag, err := r.ReadUint8()
	if err != nil {
		return Block{}, err
	}
	length, err := r.ReadUint32()
	if err != nil {
		return Block{}, err
	}
	payload, err := r.next(int(length))
	if err != nil {
		return Block{}, fmt.Errorf("%w: block tag %d truncated", ErrMangled, tag)
	}
	return Block{Tag: tag, Payload: payload}, nil
}

// Done reports whether the stream has been fully consumed.
func (r *Reader) Done() bool { return r.pos >= len(r.data) }
