package speech

import (
	"context"
	"io"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

const darijaPrompt = "Ceci est un enregistrement en darija (arabe marocain dialectal). Transcrivez fidèlement ce qui est dit."

type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient() *WhisperClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	return &WhisperClient{
		client: openai.NewClient(apiKey),
	}
}

func (c *WhisperClient) Transcribe(ctx context.Context, audio io.Reader, language string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   audio,
		FilePath: "audio.wav", // только для определения формата
		Language: language,
		Prompt:   darijaPrompt,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
