package translate

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "Vous êtes un expert traducteur spécialisé dans la traduction de l'arabe dialectal marocain (darija) vers le français. Traduisez fidèlement le sens et l'intention du message."

type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient() *OpenAIClient {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
	}
}

func (c *OpenAIClient) Translate(ctx context.Context, text, sourceLanguage, targetLanguage string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text, sourceLanguage, targetLanguage),
			},
		},
		Temperature: 0.3,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation received")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var languageNames = map[string]string{
	"ar": "arabe dialectal marocain (darija)",
	"fr": "français",
	"en": "anglais",
	"es": "espagnol",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

func buildPrompt(text, sourceLanguage, targetLanguage string) string {
	sourceLang := languageName(sourceLanguage)
	targetLang := languageName(targetLanguage)

	return fmt.Sprintf(`Traduisez le texte suivant du %s vers le %s:

Texte original:
"%s"

Instructions:
- Conservez le sens et l'intention du message
- Adaptez la traduction pour qu'elle soit naturelle en %s
- Si le texte contient des expressions culturelles spécifiques, expliquez-les ou trouvez un équivalent approprié
- Gardez un registre de langue cohérent avec l'original

Traduction:`, sourceLang, targetLang, text, targetLang)
}
