package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

type ElevenLabsClient struct {
	apiKey  string
	voiceID string
	httpCli *http.Client
}

func NewElevenLabsClient() *ElevenLabsClient {
	key := os.Getenv("ELEVENLABS_API_KEY")
	if key == "" {
		panic("ELEVENLABS_API_KEY not set")
	}

	voiceID := os.Getenv("ELEVENLABS_VOICE_ID")
	if voiceID == "" {
		voiceID = "EXAVITQu4vr4xnSDxMaL" // Rachel (дефолт)
	}

	return &ElevenLabsClient{
		apiKey:  key,
		voiceID: voiceID,
		httpCli: http.DefaultClient,
	}
}

// TEXT → SPEECH
func (c *ElevenLabsClient) Synthesize(ctx context.Context, text, language string) ([]byte, error) {
	payload := []byte(fmt.Sprintf(`{"text": %q}`, text))

	req, err := http.NewRequestWithContext(ctx, "POST", synthesizeURL(c.voiceID), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tts failed: %s", string(b))
	}

	return io.ReadAll(resp.Body)
}

// формат задаётся query-параметром, Accept API игнорирует.
// pcm_16000 совпадает с каноническим форматом хранилища.
func synthesizeURL(voiceID string) string {
	return fmt.Sprintf("https://api.elevenlabs.io/v1/text-to-speech/%s?output_format=pcm_16000", voiceID)
}
