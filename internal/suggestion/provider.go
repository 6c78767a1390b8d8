package suggestion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/saulo-duarte/chronos-habits/internal/config"
	"google.golang.org/genai"
)

const geminiModel = "gemini-2.0-flash"

type Provider interface {
	SendPrompt(ctx context.Context, system, user string) ([]Suggestion, error)
}

type geminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider reads its credentials from GEMINI_API_KEY.
func NewGeminiProvider(ctx context.Context) (Provider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &geminiProvider{client: client}, nil
}

func (p *geminiProvider) SendPrompt(ctx context.Context, system, user string) ([]Suggestion, error) {
	log := config.WithContext(ctx)

	result, err := p.client.Models.GenerateContent(
		ctx,
		geminiModel,
		genai.Text(user),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		log.WithError(err).Error("Gemini content generation failed")
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := result.Text()
	log.Debugf("Raw Gemini suggestion response:\n%s", raw)

	suggestions, err := ParseSuggestions(raw)
	if err != nil {
		log.WithError(err).Error("Failed to decode Gemini suggestions")
		return nil, err
	}

	log.Infof("Generated %d sub-habit suggestions", len(suggestions))
	return suggestions, nil
}

// ParseSuggestions decodes a model answer, tolerating a surrounding markdown code fence.
func ParseSuggestions(raw string) ([]Suggestion, error) {
	clean := strings.TrimSpace(raw)
	if clean == "" {
		return nil, errors.New("empty model response")
	}
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(strings.Trim(clean, "`"))

	var suggestions []Suggestion
	if err := json.Unmarshal([]byte(clean), &suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	out := suggestions[:0]
	for _, s := range suggestions {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}
