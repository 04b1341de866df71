package ports

import (
	"context"
	"io"
	"time"
)

// AssetStore — хранилище аудио (inputs + outputs).
// Store нормализует вход в канонический WAV перед записью.
type AssetStore interface {
	Store(ctx context.Context, r io.Reader, originalName string) (assetID string, err error)
	Retrieve(ctx context.Context, assetID string) (io.ReadCloser, error)
	StoreOutput(ctx context.Context, jobID string, data []byte) (assetID string, err error)
	RetrieveOutput(ctx context.Context, jobID string) (io.ReadCloser, error)
	Sweep(ctx context.Context, maxAge time.Duration) (removed int, err error)
}

// Normalizer приводит произвольное аудио к mono 16kHz PCM WAV.
type Normalizer interface {
	Normalize(ctx context.Context, data []byte) ([]byte, error)
}
