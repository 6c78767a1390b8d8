package suggestion

import (
	"context"
	"os"

	"github.com/saulo-duarte/chronos-habits/internal/config"
)

type SuggestionContainer struct {
	Service Service
	Handler *Handler
}

func NewSuggestionContainer(ctx context.Context, habits HabitFinder) *SuggestionContainer {
	var provider Provider
	if os.Getenv("GEMINI_API_KEY") != "" {
		p, err := NewGeminiProvider(ctx)
		if err != nil {
			config.Log.WithError(err).Warn("Gemini provider disabled")
		} else {
			provider = p
		}
	}

	service := NewService(provider, habits)
	return &SuggestionContainer{
		Service: service,
		Handler: NewHandler(service),
	}
}
