package ports

import (
	"context"
	"io"
)

type STTClient interface {
	// голос → текст, язык — фиксированная подсказка источника
	Transcribe(ctx context.Context, audio io.Reader, language string) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error)
}

type TTSClient interface {
	// текст → голос, возвращает WAV-байты
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// ConversionStarter запускает фоновый пайплайн для созданной задачи.
type ConversionStarter interface {
	Start(jobID, sourceAudioID, targetLanguage string)
}
