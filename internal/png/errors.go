package png

import "errors"

var (
	ErrInvalidSignature = errors.New("png: invalid signature")
	ErrChunkNotFound    = errors.New("png: chunk not found")
)
