package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/Vovarama1992/voice_bridge/internal/ports"
)

// FFmpegNormalizer приводит любой входной контейнер/кодек
// к mono 16kHz PCM WAV — дальше пайплайн работает только с ним.
type FFmpegNormalizer struct{}

func NewFFmpegNormalizer() *FFmpegNormalizer {
	return &FFmpegNormalizer{}
}

func (n *FFmpegNormalizer) Normalize(ctx context.Context, data []byte) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "voice_bridge_norm")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}
	defer os.RemoveAll(tmpDir)

	inPath := filepath.Join(tmpDir, "in")
	outPath := filepath.Join(tmpDir, "out.wav")

	if err := os.WriteFile(inPath, data, 0644); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-y",
		"-i", inPath,
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outPath,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// нет бинарника — проблема окружения, а не входного аудио
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: ffmpeg: %v", ports.ErrStorage, err)
		}
		return nil, fmt.Errorf("%w: ffmpeg: %s", ports.ErrEncoding, stderr.String())
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrStorage, err)
	}
	return out, nil
}
