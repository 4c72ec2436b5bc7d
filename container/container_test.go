package container

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePayloadOnly(t *testing.T) {
	payload := bytes.Repeat([]byte{0xaa}, 0x1234)

	b, err := Marshal(payload, 0x00402000, PayloadOnly)
	require.NoError(t, err)
	require.Len(t, b, HeaderSize+len(payload))
	assert.Equal(t, []byte{0x00, 0x40, 0x20, 0x00, 0x00, 0x00, 0x12, 0x34}, b[:HeaderSize])
	assert.Equal(t, payload, b[HeaderSize:])
}

func TestEncodeHeaderPlusPayload(t *testing.T) {
	b, err := Marshal([]byte{1, 2, 3}, 0x00200000, HeaderPlusPayload)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0b, 1, 2, 3}, b)
}

func TestEncodeRaw(t *testing.T) {
	b, err := Marshal([]byte{1, 2, 3}, 0x00200000, Raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
}

func TestEncodeEmpty(t *testing.T) {
	b, err := Marshal(nil, 0xdeadbeef, PayloadOnly)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef, 0, 0, 0, 0}, b)
}

func TestLengthField(t *testing.T) {
	n, err := lengthField(maxLength-HeaderSize, PayloadOnly)
	require.NoError(t, err)
	assert.Equal(t, uint32(maxLength-HeaderSize), n)

	n, err = lengthField(maxLength-HeaderSize, HeaderPlusPayload)
	require.NoError(t, err)
	assert.Equal(t, uint32(maxLength), n)

	for _, mode := range []Mode{PayloadOnly, HeaderPlusPayload} {
		_, err = lengthField(maxLength-HeaderSize+1, mode)
		assert.True(t, errors.Is(err, ErrPayloadTooLarge), "mode %s", mode)
	}

	_, err = lengthField(16, Raw)
	assert.Error(t, err)
}

func TestHeader(t *testing.T) {
	h := Header{LoadAddress: 0x01020304, Length: 0x05060708}

	b, err := h.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, b)

	var dup Header
	require.NoError(t, dup.UnmarshalBinary(b))
	assert.Equal(t, h, dup)

	assert.Error(t, dup.UnmarshalBinary(b[:7]))
}

func TestDecode(t *testing.T) {
	tables := []struct {
		mode Mode
	}{
		{PayloadOnly},
		{HeaderPlusPayload},
	}

	for _, table := range tables {
		t.Run(table.mode.String(), func(t *testing.T) {
			payload := []byte{0x12, 0x34, 0x56}
			b, err := Marshal(payload, 0x00402000, table.mode)
			require.NoError(t, err)

			f, err := Decode(bytes.NewReader(b))
			require.NoError(t, err)
			assert.Equal(t, uint32(0x00402000), f.LoadAddress)
			assert.Equal(t, payload, f.Payload)

			mode, err := f.Mode()
			require.NoError(t, err)
			assert.Equal(t, table.mode, mode)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{0, 0, 0}))
	assert.Error(t, err)

	f, err := Decode(bytes.NewReader([]byte{0, 0, 0, 0, 0, 0, 0, 5, 1, 2}))
	require.NoError(t, err)
	_, err = f.Mode()
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{Raw, PayloadOnly, HeaderPlusPayload} {
		m, err := ParseMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, m)
	}

	_, err := ParseMode("bogus")
	assert.Error(t, err)
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
