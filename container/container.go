/*
Package container implements the minimal binary wrapper understood by the
target loader.

A container is a 4-byte big-endian load address followed by a 4-byte
big-endian length and then the payload bytes unmodified. The loader copies
the payload verbatim to the load address. Depending on the target the length
counts either the payload alone or the payload plus the 8 byte header, and
some targets take the raw payload with no header at all.
*/
package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
)

// HeaderSize is the size in bytes of the load address and length fields
const HeaderSize = 8

const maxLength = 1<<32 - 1

// Mode selects how the length field is computed, or whether a header is
// written at all
type Mode int

const (
	// Raw writes the payload with no header
	Raw Mode = iota
	// PayloadOnly sets the length to the payload size
	PayloadOnly
	// HeaderPlusPayload sets the length to the payload size plus HeaderSize
	HeaderPlusPayload
)

var modeNames = map[Mode]string{
	Raw:               "none",
	PayloadOnly:       "payload",
	HeaderPlusPayload: "total",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode returns the Mode named by s, one of "none", "payload" or "total"
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return Raw, fmt.Errorf("container: unknown length mode %q", s)
}

var (
	// ErrPayloadTooLarge is returned when the length field cannot represent
	// the payload
	ErrPayloadTooLarge = errors.New("container: payload too large")

	errNoHeader       = errors.New("container: raw mode has no header")
	errNotEnough      = errors.New("container: not enough header data")
	errLengthMismatch = errors.New("container: length does not match payload")
)

// Header is the fixed prefix of a container. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Header struct {
	LoadAddress uint32
	Length      uint32
}

func lengthField(n uint64, mode Mode) (uint32, error) {
	if n+HeaderSize > maxLength {
		return 0, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, n)
	}

	switch mode {
	case PayloadOnly:
		return uint32(n), nil
	case HeaderPlusPayload:
		return uint32(n + HeaderSize), nil
	case Raw:
		return 0, errNoHeader
	default:
		return 0, fmt.Errorf("container: unknown length mode %d", int(mode))
	}
}

// NewHeader returns the header for a payload of n bytes loaded at address
func NewHeader(address uint32, n int, mode Mode) (Header, error) {
	length, err := lengthField(uint64(n), mode)
	if err != nil {
		return Header{}, err
	}
	return Header{LoadAddress: address, Length: length}, nil
}

// MarshalBinary encodes the header in big-endian byte order
func (h Header) MarshalBinary() ([]byte, error) {
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(b[0:], h.LoadAddress)
	binary.BigEndian.PutUint32(b[4:], h.Length)
	return b, nil
}

// UnmarshalBinary decodes the header from the first HeaderSize bytes of b
func (h *Header) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return errNotEnough
	}
	h.LoadAddress = binary.BigEndian.Uint32(b[0:])
	h.Length = binary.BigEndian.Uint32(b[4:])
	return nil
}

// Encode writes payload to w wrapped according to mode. In Raw mode the
// address is ignored and only the payload is written.
func Encode(w io.Writer, payload []byte, address uint32, mode Mode) error {
	if mode != Raw {
		h, err := NewHeader(address, len(payload), mode)
		if err != nil {
			return err
		}
		b, err := h.MarshalBinary()
		if err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}

	_, err := w.Write(payload)
	return err
}

// Marshal returns payload wrapped according to mode
func Marshal(payload []byte, address uint32, mode Mode) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, payload, address, mode); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// File is a decoded container
type File struct {
	Header
	Payload []byte
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Decode reads a container with a header from r
func Decode(r io.Reader) (*File, error) {
	var tmp [HeaderSize]byte
	if err := readFull(r, tmp[:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, errNotEnough
	}

	f := new(File)
	if err := f.Header.UnmarshalBinary(tmp[:]); err != nil {
		return nil, err
	}

	var err error
	if f.Payload, err = ioutil.ReadAll(r); err != nil {
		return nil, err
	}

	return f, nil
}

// Mode returns the length mode the header is consistent with
func (f *File) Mode() (Mode, error) {
	switch uint64(f.Length) {
	case uint64(len(f.Payload)):
		return PayloadOnly, nil
	case uint64(len(f.Payload)) + HeaderSize:
		return HeaderPlusPayload, nil
	default:
		return Raw, fmt.Errorf("%w: length %d, payload %d bytes", errLengthMismatch, f.Length, len(f.Payload))
	}
}
