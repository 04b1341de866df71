package speech

import (
	"context"
	"io"
	"log"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAITTSClient struct {
	client *openai.Client
	speed  float64
}

func NewOpenAITTSClient() *OpenAITTSClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	return &OpenAITTSClient{
		client: openai.NewClient(apiKey),
		speed:  1.0,
	}
}

func (c *OpenAITTSClient) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1,
		Voice:          voiceForLanguage(language),
		Input:          text,
		ResponseFormat: openai.SpeechResponseFormatWav,
		Speed:          clampSpeed(c.speed),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Close()

	return io.ReadAll(resp)
}

func voiceForLanguage(language string) openai.SpeechVoice {
	switch language {
	case "fr":
		return openai.VoiceNova
	case "en":
		return openai.VoiceAlloy
	case "es":
		return openai.VoiceEcho
	case "ar":
		return openai.VoiceFable
	default:
		return openai.VoiceNova
	}
}

// OpenAI принимает скорость только в [0.25, 4.0]
func clampSpeed(speed float64) float64 {
	if speed < 0.25 {
		return 0.25
	}
	if speed > 4.0 {
		return 4.0
	}
	return speed
}
