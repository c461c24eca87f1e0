package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"unicode/utf8"

	"github.com/danmuck/pngme/internal/png/chunktype"
)

const (
	LengthSize = 4
	TypeSize   = chunktype.Size
	CRCSize    = 4
	// MinLen is the wire size of a chunk with no data.
	MinLen = LengthSize + TypeSize + CRCSize
)

var ErrInvalidUTF8 = errors.New("chunk: data is not valid utf-8")

// MinimumLengthError reports a buffer too short for the fixed chunk fields.
type MinimumLengthError struct {
	Got int
}

func (e *MinimumLengthError) Error() string {
	return fmt.Sprintf("chunk: expected at least %d bytes (length, chunk type and crc), got %d", MinLen, e.Got)
}

// DataLengthError reports a declared data length the buffer cannot hold.
type DataLengthError struct {
	Expected int
	Got      int
}

func (e *DataLengthError) Error() string {
	return fmt.Sprintf("chunk: expected data of length %d, got %d", e.Expected, e.Got)
}

// CRCError reports a checksum mismatch. Expected is the value computed from
// the type and data, Got is the value read from the wire.
type CRCError struct {
	Expected uint32
	Got      uint32
}

func (e *CRCError) Error() string {
	return fmt.Sprintf("chunk: expected crc %d, got %d", e.Expected, e.Got)
}

// ChunkTypeError wraps a chunktype failure met while parsing a chunk.
type ChunkTypeError struct {
	Err error
}

func (e *ChunkTypeError) Error() string {
	return fmt.Sprintf("chunk: invalid chunk type: %v", e.Err)
}

func (e *ChunkTypeError) Unwrap() error {
	return e.Err
}

// Chunk is one PNG chunk record. Neither the length nor the CRC is stored;
// both are derived from Data whenever they are needed.
type Chunk struct {
	Type chunktype.ChunkType
	Data []byte
}

// New builds a chunk over a copy of data. len(data) must fit in a uint32;
// larger payloads truncate the length field.
func New(t chunktype.ChunkType, data []byte) Chunk {
	buf := make([]byte, len(data))
	copy(buf, data)
	return Chunk{Type: t, Data: buf}
}

// Parse decodes the chunk at the start of b. Only the first WireLen bytes are
// consumed; anything after them is left for the caller.
func Parse(b []byte) (Chunk, error) {
	if len(b) < MinLen {
		return Chunk{}, &MinimumLengthError{Got: len(b)}
	}
	length := binary.BigEndian.Uint32(b[0:LengthSize])
	if uint64(len(b)) < uint64(length)+MinLen {
		return Chunk{}, &DataLengthError{Expected: int(length), Got: len(b)}
	}

	var raw [TypeSize]byte
	copy(raw[:], b[LengthSize:LengthSize+TypeSize])
	t, err := chunktype.FromBytes(raw)
	if err != nil {
		return Chunk{}, &ChunkTypeError{Err: err}
	}

	start := LengthSize + TypeSize
	end := start + int(length)
	data := make([]byte, length)
	copy(data, b[start:end])
	wire := binary.BigEndian.Uint32(b[end : end+CRCSize])

	c := Chunk{Type: t, Data: data}
	if sum := c.CRC(); sum != wire {
		return Chunk{}, &CRCError{Expected: sum, Got: wire}
	}
	return c, nil
}

// CRC returns the CRC-32/IEEE of the type tag followed by the data.
func (c Chunk) CRC() uint32 {
	t := c.Type.Bytes()
	sum := crc32.Update(0, crc32.IEEETable, t[:])
	return crc32.Update(sum, crc32.IEEETable, c.Data)
}

// Clone returns a chunk that shares no storage with c.
func (c Chunk) Clone() Chunk {
	return New(c.Type, c.Data)
}

// Length is the value of the wire length field: the byte count of Data.
func (c Chunk) Length() uint32 {
	return uint32(len(c.Data))
}

// WireLen is the encoded size of the chunk.
func (c Chunk) WireLen() int {
	return len(c.Data) + MinLen
}

func (c Chunk) Bytes() []byte {
	buf := make([]byte, c.WireLen())
	binary.BigEndian.PutUint32(buf[0:LengthSize], c.Length())
	t := c.Type.Bytes()
	copy(buf[LengthSize:LengthSize+TypeSize], t[:])
	end := LengthSize + TypeSize + copy(buf[LengthSize+TypeSize:], c.Data)
	binary.BigEndian.PutUint32(buf[end:end+CRCSize], c.CRC())
	return buf
}

func (c Chunk) DataString() (string, error) {
	if !utf8.Valid(c.Data) {
		return "", ErrInvalidUTF8
	}
	return string(c.Data), nil
}

// String is a debugging form and is not meant to be parsed back.
func (c Chunk) String() string {
	return fmt.Sprintf("%s (%d)%v (CRC: %d)", c.Type, c.Length(), c.Data, c.CRC())
}
