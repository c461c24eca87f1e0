package message

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/pngme/internal/png"
	"github.com/danmuck/pngme/internal/png/chunk"
	"github.com/danmuck/pngme/internal/png/chunktype"
	"github.com/danmuck/pngme/internal/testutil/testlog"
	"github.com/danmuck/pngme/internal/tools"
)

const imagePath = "image.png"

func testImage() []byte {
	return png.New(
		chunk.New(chunktype.IHDR, make([]byte, 13)),
		chunk.New(chunktype.IDAT, []byte{0x78, 0x9c, 0x01}),
		chunk.New(chunktype.IEND, nil),
	).Bytes()
}

func newTestService(t *testing.T) (*Service, *tools.MemFileStore) {
	t.Helper()
	logger := testlog.Start(t)
	store := tools.NewMemFileStore()
	if err := store.WriteFile(imagePath, testImage()); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	svc := NewService(store)
	svc.Log = logger
	return svc, store
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	written, err := svc.Encode(ctx, EncodeRequest{Path: imagePath, ChunkType: "ruSt", Message: "hidden message"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if written != imagePath {
		t.Fatalf("unexpected target: %q", written)
	}

	res, err := svc.Decode(ctx, imagePath, "ruSt")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Found || !res.UTF8 || res.Message != "hidden message" {
		t.Fatalf("unexpected decode result: %+v", res)
	}
}

func TestEncodeAppendsAfterExistingChunks(t *testing.T) {
	svc, store := newTestService(t)
	if _, err := svc.Encode(context.Background(), EncodeRequest{Path: imagePath, ChunkType: "ruSt", Message: "m"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, _ := store.ReadFile(imagePath)
	p, err := png.Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cs := p.Chunks()
	if len(cs) != 4 || cs[2].Type != chunktype.IEND || cs[3].Type.String() != "ruSt" {
		t.Fatalf("unexpected chunk order: %v", cs)
	}
	if !bytes.HasPrefix(b, testImage()) {
		t.Fatalf("existing chunks were not preserved byte-for-byte")
	}
}

func TestEncodeReplacesExistingChunk(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	for _, msg := range []string{"first", "second"} {
		if _, err := svc.Encode(ctx, EncodeRequest{Path: imagePath, ChunkType: "ruSt", Message: msg}); err != nil {
			t.Fatalf("encode %q: %v", msg, err)
		}
	}
	b, _ := store.ReadFile(imagePath)
	p, err := png.Parse(b)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Len() != 4 {
		t.Fatalf("expected replacement, got %d chunks", p.Len())
	}
	res, err := svc.Decode(ctx, imagePath, "ruSt")
	if err != nil || res.Message != "second" {
		t.Fatalf("unexpected decode: %+v err=%v", res, err)
	}
}

func TestEncodeToOutputPath(t *testing.T) {
	svc, store := newTestService(t)
	written, err := svc.Encode(context.Background(), EncodeRequest{
		Path: imagePath, ChunkType: "ruSt", Message: "m", OutputPath: "out.png",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if written != "out.png" {
		t.Fatalf("unexpected target: %q", written)
	}
	orig, _ := store.ReadFile(imagePath)
	if !bytes.Equal(orig, testImage()) {
		t.Fatalf("source file modified")
	}
	if _, err := store.ReadFile("out.png"); err != nil {
		t.Fatalf("output missing: %v", err)
	}
}

func TestEncodeInvalidChunkType(t *testing.T) {
	svc, store := newTestService(t)
	_, err := svc.Encode(context.Background(), EncodeRequest{Path: imagePath, ChunkType: "ru5t", Message: "m"})
	if !errors.Is(err, chunktype.ErrInvalidCharacters) {
		t.Fatalf("expected ErrInvalidCharacters, got %v", err)
	}
	if store.Writes() != 1 {
		t.Fatalf("file written despite invalid type")
	}
}

func TestDecodeMissingChunkIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.Decode(context.Background(), imagePath, "ruSt")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Found {
		t.Fatalf("expected not found: %+v", res)
	}
}

func TestDecodeNonUTF8Chunk(t *testing.T) {
	svc, _ := newTestService(t)
	res, err := svc.Decode(context.Background(), imagePath, "IDAT")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Found || res.UTF8 {
		t.Fatalf("expected found non-utf8 chunk: %+v", res)
	}
}

func TestDecodeInvalidChunkType(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Decode(context.Background(), imagePath, "toolong")
	var lenErr *chunktype.StringLengthError
	if !errors.As(err, &lenErr) {
		t.Fatalf("expected StringLengthError, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	if _, err := svc.Encode(ctx, EncodeRequest{Path: imagePath, ChunkType: "ruSt", Message: "m"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	removed, err := svc.Remove(ctx, imagePath, "ruSt")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !removed {
		t.Fatalf("expected removal")
	}
	b, _ := store.ReadFile(imagePath)
	if !bytes.Equal(b, testImage()) {
		t.Fatalf("remove did not restore the original file")
	}
}

func TestRemoveMissingChunkLeavesFileUntouched(t *testing.T) {
	svc, store := newTestService(t)
	removed, err := svc.Remove(context.Background(), imagePath, "ruSt")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed {
		t.Fatalf("expected no removal")
	}
	if store.Writes() != 1 {
		t.Fatalf("file rewritten on miss")
	}
}

func TestRemoveInvalidChunkType(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Remove(context.Background(), imagePath, "r"); err == nil {
		t.Fatalf("expected error for invalid chunk type")
	}
}

func TestLoadRejectsNonPNG(t *testing.T) {
	svc, store := newTestService(t)
	if err := store.WriteFile("text.txt", []byte("not a png at all")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := svc.Inspect(context.Background(), "text.txt")
	if !errors.Is(err, png.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Inspect(context.Background(), "missing.png")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	svc, store := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Encode(ctx, EncodeRequest{Path: imagePath, ChunkType: "ruSt", Message: "m"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if store.Writes() != 1 {
		t.Fatalf("file written after cancel")
	}
}

func TestServiceOnDisk(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "image.png")
	if err := os.WriteFile(path, testImage(), 0o644); err != nil {
		t.Fatalf("write image: %v", err)
	}
	svc := NewService(tools.OSFileStore{})
	ctx := context.Background()
	if _, err := svc.Encode(ctx, EncodeRequest{Path: path, ChunkType: "ruSt", Message: "on disk"}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	res, err := svc.Decode(ctx, path, "ruSt")
	if err != nil || res.Message != "on disk" {
		t.Fatalf("unexpected decode: %+v err=%v", res, err)
	}
}
