package png

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/pngme/internal/png/chunk"
	"github.com/danmuck/pngme/internal/png/chunktype"
)

const SignatureLen = 8

// Signature is the fixed magic prefix of every PNG file.
var Signature = [SignatureLen]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// PNG is a signature followed by chunks in file order.
type PNG struct {
	chunks []chunk.Chunk
}

// New builds a container over copies of chunks.
func New(chunks ...chunk.Chunk) *PNG {
	out := make([]chunk.Chunk, len(chunks))
	for i, c := range chunks {
		out[i] = c.Clone()
	}
	return &PNG{chunks: out}
}

// Parse decodes a whole PNG file. The first malformed chunk aborts the parse.
func Parse(b []byte) (*PNG, error) {
	if len(b) < SignatureLen || !bytes.Equal(b[:SignatureLen], Signature[:]) {
		return nil, ErrInvalidSignature
	}
	p := &PNG{chunks: make([]chunk.Chunk, 0, 8)}
	for offset := SignatureLen; offset < len(b); {
		c, err := chunk.Parse(b[offset:])
		if err != nil {
			return nil, fmt.Errorf("png: chunk %d at offset %d: %w", len(p.chunks), offset, err)
		}
		p.chunks = append(p.chunks, c)
		offset += c.WireLen()
	}
	return p, nil
}

// Read consumes r to completion and parses the result.
func Read(r io.Reader) (*PNG, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// AppendChunk adds c at the end of the sequence. The container takes
// ownership of c.Data.
func (p *PNG) AppendChunk(c chunk.Chunk) {
	p.chunks = append(p.chunks, c)
}

// RemoveFirstChunk removes and returns the first chunk of the given type.
// A miss is reported with ErrChunkNotFound.
func (p *PNG) RemoveFirstChunk(typ string) (chunk.Chunk, error) {
	t, err := chunktype.Parse(typ)
	if err != nil {
		return chunk.Chunk{}, err
	}
	i := p.index(t)
	if i < 0 {
		return chunk.Chunk{}, fmt.Errorf("%w: %s", ErrChunkNotFound, t)
	}
	removed := p.chunks[i]
	p.chunks = append(p.chunks[:i], p.chunks[i+1:]...)
	return removed, nil
}

// ChunkByType returns a copy of the first chunk of the given type. An
// unparsable type string cannot match any chunk and reports false.
func (p *PNG) ChunkByType(typ string) (chunk.Chunk, bool) {
	t, err := chunktype.Parse(typ)
	if err != nil {
		return chunk.Chunk{}, false
	}
	i := p.index(t)
	if i < 0 {
		return chunk.Chunk{}, false
	}
	return p.chunks[i].Clone(), true
}

// Chunks returns a deep copy of the chunk sequence.
func (p *PNG) Chunks() []chunk.Chunk {
	out := make([]chunk.Chunk, len(p.chunks))
	for i, c := range p.chunks {
		out[i] = c.Clone()
	}
	return out
}

func (p *PNG) Len() int {
	return len(p.chunks)
}

// WireLen is the encoded size of the file.
func (p *PNG) WireLen() int {
	n := SignatureLen
	for _, c := range p.chunks {
		n += c.WireLen()
	}
	return n
}

func (p *PNG) Bytes() []byte {
	out := make([]byte, 0, p.WireLen())
	out = append(out, Signature[:]...)
	for _, c := range p.chunks {
		out = append(out, c.Bytes()...)
	}
	return out
}

func (p *PNG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(p.Bytes())
	return int64(n), err
}

func (p *PNG) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "signature: valid %v\n", Signature)
	fmt.Fprintf(&sb, "chunks: %d\n", len(p.chunks))
	for i, c := range p.chunks {
		fmt.Fprintf(&sb, "[%d] %s\n", i, c)
	}
	return sb.String()
}

func (p *PNG) index(t chunktype.ChunkType) int {
	for i, c := range p.chunks {
		if c.Type == t {
			return i
		}
	}
	return -1
}
