package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/danmuck/pngme/internal/png"
	"github.com/danmuck/pngme/internal/png/chunk"
	"github.com/danmuck/pngme/internal/png/chunktype"
	"github.com/danmuck/pngme/internal/tools"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EncodeRequest describes one encode operation. OutputPath defaults to Path.
type EncodeRequest struct {
	Path       string
	ChunkType  string
	Message    string
	OutputPath string
}

// DecodeResult is the outcome of a decode. Found is false when no chunk of the
// requested type exists; UTF8 is false when the chunk data is not text.
type DecodeResult struct {
	Found   bool
	UTF8    bool
	Message string
	Chunk   chunk.Chunk
}

// Service hides and recovers messages in PNG files.
type Service struct {
	Store tools.FileStore
	Log   zerolog.Logger
}

func NewService(store tools.FileStore) *Service {
	return &Service{
		Store: store,
		Log:   log.Logger.With().Str("component", "message").Logger(),
	}
}

// Encode replaces the first chunk of req.ChunkType, if any, with a new chunk
// carrying req.Message appended at the end of the file. It returns the path
// written.
func (s *Service) Encode(ctx context.Context, req EncodeRequest) (string, error) {
	t, err := chunktype.Parse(req.ChunkType)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	p, err := s.load(ctx, req.Path)
	if err != nil {
		return "", err
	}

	if old, err := p.RemoveFirstChunk(req.ChunkType); err == nil {
		s.Log.Debug().Str("chunk_type", t.String()).Uint32("length", old.Length()).Msg("message.Encode replaced existing chunk")
	} else if !errors.Is(err, png.ErrChunkNotFound) {
		return "", fmt.Errorf("encode: %w", err)
	}
	p.AppendChunk(chunk.New(t, []byte(req.Message)))

	target := req.OutputPath
	if target == "" {
		target = req.Path
	}
	if err := s.store(ctx, target, p); err != nil {
		return "", err
	}
	s.Log.Info().Str("path", target).Str("chunk_type", t.String()).Int("bytes", len(req.Message)).Msg("message.Encode written")
	return target, nil
}

// Decode looks up the first chunk of chunkType. A missing chunk is reported
// through DecodeResult.Found, not as an error. An invalid chunkType is an
// error, unlike png.ChunkByType which treats it as absence.
func (s *Service) Decode(ctx context.Context, path, chunkType string) (DecodeResult, error) {
	t, err := chunktype.Parse(chunkType)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("decode: %w", err)
	}
	p, err := s.load(ctx, path)
	if err != nil {
		return DecodeResult{}, err
	}
	c, ok := p.ChunkByType(t.String())
	if !ok {
		s.Log.Debug().Str("path", path).Str("chunk_type", t.String()).Msg("message.Decode chunk not found")
		return DecodeResult{}, nil
	}
	res := DecodeResult{Found: true, Chunk: c}
	msg, err := c.DataString()
	if err != nil {
		s.Log.Debug().Str("chunk_type", t.String()).Err(err).Msg("message.Decode non-text chunk")
		return res, nil
	}
	res.UTF8 = true
	res.Message = msg
	return res, nil
}

// Remove drops the first chunk of chunkType and rewrites path. It reports false,
// without writing, when no such chunk exists. An invalid chunkType is an error.
func (s *Service) Remove(ctx context.Context, path, chunkType string) (bool, error) {
	p, err := s.load(ctx, path)
	if err != nil {
		return false, err
	}
	removed, err := p.RemoveFirstChunk(chunkType)
	if errors.Is(err, png.ErrChunkNotFound) {
		s.Log.Debug().Str("path", path).Str("chunk_type", chunkType).Msg("message.Remove chunk not found")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remove: %w", err)
	}
	if err := s.store(ctx, path, p); err != nil {
		return false, err
	}
	s.Log.Info().Str("path", path).Str("chunk_type", removed.Type.String()).Msg("message.Remove written")
	return true, nil
}

// Inspect loads path for display.
func (s *Service) Inspect(ctx context.Context, path string) (*png.PNG, error) {
	return s.load(ctx, path)
}

func (s *Service) load(ctx context.Context, path string) (*png.PNG, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := s.Store.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := png.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	s.Log.Debug().Str("path", path).Int("chunks", p.Len()).Int("bytes", len(b)).Msg("message.load parsed png")
	return p, nil
}

func (s *Service) store(ctx context.Context, path string, p *png.PNG) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.Store.WriteFile(path, p.Bytes())
}
