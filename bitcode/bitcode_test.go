package bitcode

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteHeader()
	w.WriteBlock(1, []byte("payload-one"))
	w.WriteBlock(2, []byte{})
	w.WriteBlock(3, []byte("last"))

	r := NewReader(w.Bytes())
	version, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, Version, version)

	b1, err := r.ReadBlock()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), b1.Tag)
	assert.Equal(t, "payload-one", string(b1.Payload))

	b2, err := r.ReadBlock()
	require.NoError(t, err)
	assert.Equal(t, uint8(2), b2.Tag)
	assert.Empty(t, b2.Payload)

	b3, err := r.ReadBlock()
	require.NoError(t, err)
	assert.Equal(t, "last", string(b3.Payload))

	assert.True(t, r.Done())
}

func TestReadHeaderBadMagic(t *testing.T) {
	r := NewReader([]byte("NOPE\x01\x00\x00\x00"))
	_, err := r.ReadHeader()
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestReadHeaderUnsupportedVersion(t *testing.T) {
	w := NewWriter()
	w.buf.WriteString(Magic)
	w.WriteUint32(99)
	r := NewReader(w.Bytes())
	_, err := r.ReadHeader()
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestReadBlockTruncatedPayload(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(7)
	w.WriteUint32(100) // claims 100 bytes, provides none
	r := NewReader(w.Bytes())
	_, err := r.ReadBlock()
	assert.ErrorIs(t, err, ErrMangled)
}

func TestReadStringAndBool(t *testing.T) {
	w := NewWriter()
	w.WriteString("hello")
	w.WriteBool(true)
	w.WriteBool(false)

	r := NewReader(w.Bytes())
	s, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	tv, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, tv)

	fv, err := r.ReadBool()
	require.NoError(t, err)
	assert.False(t, fv)
}

// FuzzReadBlock exercises the record reader against arbitrary byte
// sequences, asserting only that it never panics and that any error it
// returns for malformed input is (or wraps) ErrMangled, ErrBadMagic or
// ErrUnsupportedVersion.
func FuzzReadBlock(f *testing.F) {
	w := NewWriter()
	w.WriteHeader()
	w.WriteBlock(1, []byte("seed"))
	f.Add(w.Bytes())
	f.Add([]byte{})
	f.Add([]byte("GZLB"))

	f.Fuzz(func(t *testing.T, data []byte) {
		r := NewReader(data)
		if _, err := r.ReadHeader(); err != nil {
			if !errors.Is(err, ErrBadMagic) && !errors.Is(err, ErrMangled) && !errors.Is(err, ErrUnsupportedVersion) {
				t.Fatalf("unexpected error type: %v", err)
			}
			return
		}
		for !r.Done() {
			if _, err := r.ReadBlock(); err != nil {
				if !errors.Is(err, ErrMangled) {
					t.Fatalf("unexpected error type: %v", err)
				}
				return
			}
		}
	})
}
