package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Vovarama1992/voice_bridge/internal/ports"
	"github.com/google/uuid"
)

// LocalStore — файловое хранилище: uploads/ для исходников,
// conversions/ для результатов. Ключ ассета = имя файла.
type LocalStore struct {
	uploadsDir     string
	conversionsDir string
	norm           ports.Normalizer
}

func NewLocalStore(baseDir string, norm ports.Normalizer) (*LocalStore, error) {
	s := &LocalStore{
		uploadsDir:     filepath.Join(baseDir, "uploads"),
		conversionsDir: filepath.Join(baseDir, "conversions"),
		norm:           norm,
	}

	for _, dir := range []string{s.uploadsDir, s.conversionsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: mkdir %s: %v", ports.ErrStorage, dir, err)
		}
	}
	return s, nil
}

func (s *LocalStore) Store(ctx context.Context, r io.Reader, originalName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("%w: read upload: %v", ports.ErrStorage, err)
	}

	normalized, err := s.norm.Normalize(ctx, data)
	if err != nil {
		return "", err
	}

	assetID := uuid.NewString()
	if err := os.WriteFile(s.inputPath(assetID), normalized, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}
	return assetID, nil
}

func (s *LocalStore) Retrieve(ctx context.Context, assetID string) (io.ReadCloser, error) {
	return openFile(s.inputPath(assetID))
}

func (s *LocalStore) StoreOutput(ctx context.Context, jobID string, data []byte) (string, error) {
	if err := os.WriteFile(s.outputPath(jobID), data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}
	return jobID, nil
}

func (s *LocalStore) RetrieveOutput(ctx context.Context, jobID string) (io.ReadCloser, error) {
	return openFile(s.outputPath(jobID))
}

// Sweep удаляет все ассеты старше maxAge в обеих зонах.
func (s *LocalStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	removed := 0
	cutoff := time.Now().Add(-maxAge)

	for _, dir := range []string{s.uploadsDir, s.conversionsDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ports.ErrStorage, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

func (s *LocalStore) inputPath(assetID string) string {
	return filepath.Join(s.uploadsDir, assetID+".wav")
}

func (s *LocalStore) outputPath(jobID string) string {
	return filepath.Join(s.conversionsDir, jobID+".wav")
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}
	return f, nil
}
