package chunktype

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Size is the byte width of a chunk type tag.
const Size = 4

var ErrInvalidCharacters = errors.New("chunktype: expected ascii letter characters")

// StringLengthError reports a type string that is not exactly Size characters.
type StringLengthError struct {
	Expected int
	Got      int
}

func (e *StringLengthError) Error() string {
	return fmt.Sprintf("chunktype: expected string of length %d, got %d", e.Expected, e.Got)
}

// ChunkType is the 4-byte tag of a PNG chunk. Bit 5 of each byte (letter case)
// carries the critical, public, reserved and safe-to-copy flags.
type ChunkType struct {
	b [Size]byte
}

// Well-known critical types.
var (
	IHDR = ChunkType{b: [Size]byte{'I', 'H', 'D', 'R'}}
	IDAT = ChunkType{b: [Size]byte{'I', 'D', 'A', 'T'}}
	IEND = ChunkType{b: [Size]byte{'I', 'E', 'N', 'D'}}
)

func FromBytes(b [Size]byte) (ChunkType, error) {
	for _, c := range b {
		if !isLetter(c) {
			return ChunkType{}, ErrInvalidCharacters
		}
	}
	return ChunkType{b: b}, nil
}

// Parse builds a ChunkType from a 4-character string. Length is counted in
// runes and any rune outside the ASCII letter ranges is rejected, so multi-byte
// characters never get narrowed into a tag.
func Parse(s string) (ChunkType, error) {
	if n := utf8.RuneCountInString(s); n != Size {
		return ChunkType{}, &StringLengthError{Expected: Size, Got: n}
	}
	var b [Size]byte
	i := 0
	for _, r := range s {
		if r >= utf8.RuneSelf || !isLetter(byte(r)) {
			return ChunkType{}, ErrInvalidCharacters
		}
		b[i] = byte(r)
		i++
	}
	return FromBytes(b)
}

func MustParse(s string) ChunkType {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t ChunkType) Bytes() [Size]byte {
	return t.b
}

func (t ChunkType) String() string {
	return string(t.b[:])
}

func (t ChunkType) IsCritical() bool {
	return isUpper(t.b[0])
}

func (t ChunkType) IsPublic() bool {
	return isUpper(t.b[1])
}

func (t ChunkType) IsReservedBitValid() bool {
	return isUpper(t.b[2])
}

func (t ChunkType) IsSafeToCopy() bool {
	return !isUpper(t.b[3])
}

// IsValid reports a letters-only tag whose reserved bit is clear.
func (t ChunkType) IsValid() bool {
	for _, c := range t.b {
		if !isLetter(c) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// Case lives in bit 5: clear for uppercase letters.
func isUpper(c byte) bool {
	return c&0x20 == 0
}
