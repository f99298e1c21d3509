package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"tameny.app/tameny-server/internal/config"
	"tameny.app/tameny-server/internal/store"
)

const (
	defaultChatModelName      = "gemini-1.5-flash-latest"
	defaultEmbeddingModelName = "text-embedding-004"
	defaultTitleModelName     = "gemini-1.5-flash-latest"

	chatSystemInstruction = "أنت «طمّني»، المساعد الطبي الذكي لصحة الأطفال في تطبيق طمّني. " +
		"أجب عن أسئلة الوالدين حول صحة الطفل ونموه وتغذيته بلغة عربية بسيطة ودافئة. " +
		"استند إلى المعلومات الطبية المرفقة عند توفرها، ولا تختلق معلومات. " +
		"ذكّر المستخدم دائماً بأن المعلومات استرشادية وليست بديلاً عن استشارة الطبيب المختص، " +
		"وفي الحالات الطارئة وجّهه فوراً لطلب الرعاية الطبية."

	titleSystemInstruction = "You are a helpful assistant that generates concise Arabic titles for chat conversations. " +
		"The title should be 3-5 words maximum. Just return the title itself, nothing else."
)

// LanguageModel is the surface of the AI chat backend the services consume.
type LanguageModel interface {
	Reply(history []store.ChatMessage, knowledgeContext, question string) (string, error)
	Title(basis string) (string, error)
	Embed(text string) ([]float32, error)
}

type LLMService struct {
	client *genai.Client
	logger *zap.Logger
}

func NewLLMService(logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(config.AppConfig.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &LLMService{
		client: client,
		logger: logger,
	}, nil
}

func (s *LLMService) Close() {
	if s.client != nil {
		if err := s.client.Close(); err != nil {
			s.logger.Warn("Error closing GenAI client", zap.Error(err))
		}
	}
}

func (s *LLMService) Embed(text string) ([]float32, error) {
	ctx := context.Background()
	em := s.client.EmbeddingModel(defaultEmbeddingModelName)
	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}

	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embedding.Values, nil
}

// Reply generates the assistant turn from the prior conversation, the
// retrieved knowledge context (may be empty) and the current question.
func (s *LLMService) Reply(history []store.ChatMessage, knowledgeContext, question string) (string, error) {
	ctx := context.Background()
	model := s.client.GenerativeModel(defaultChatModelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(chatSystemInstruction)},
	}

	var contents []*genai.Content
	for _, msg := range history {
		role := "user"
		if msg.Role == store.RoleMessageAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	finalUserContent := question
	if knowledgeContext != "" {
		finalUserContent = fmt.Sprintf(
			"استعيني بالمعلومات الطبية التالية إن كانت ذات صلة:\n\n--- بداية المعلومات ---\n%s\n--- نهاية المعلومات ---\n\nالسؤال: %s",
			knowledgeContext, question)
	}
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []genai.Part{genai.Text(finalUserContent)},
	})

	resp, err := model.GenerateContent(ctx, flattenContents(contents)...)
	if err != nil {
		return "", fmt.Errorf("gemini chat request failed: %w", err)
	}

	return extractText(resp)
}

func flattenContents(contents []*genai.Content) []genai.Part {
	if len(contents) == 1 {
		return contents[0].Parts
	}
	// Replay prior turns as a transcript ahead of the final question. The
	// flash models handle this fine and it avoids a stateful session object.
	var transcript strings.Builder
	for _, c := range contents[:len(contents)-1] {
		speaker := "المستخدم"
		if c.Role == "model" {
			speaker = "المساعد"
		}
		for _, p := range c.Parts {
			if txt, ok := p.(genai.Text); ok {
				transcript.WriteString(speaker + ": " + string(txt) + "\n")
			}
		}
	}
	last := contents[len(contents)-1]
	parts := []genai.Part{genai.Text("المحادثة السابقة:\n" + transcript.String() + "\n")}
	parts = append(parts, last.Parts...)
	return parts
}

func (s *LLMService) Title(basis string) (string, error) {
	ctx := context.Background()
	model := s.client.GenerativeModel(defaultTitleModelName)

	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(titleSystemInstruction)},
	}

	temp := float32(0.3)
	maxTokens := int32(20)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	prompt := fmt.Sprintf("Generate a very concise Arabic title (3-5 words maximum) for a consultation that starts with: \"%s\".", basis)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini title generation request failed: %w", err)
	}

	title, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return strings.Trim(title, "\"'\n\r\t ."), nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini response contained no text parts")
	}
	return text.String(), nil
}
