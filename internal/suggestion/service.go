package suggestion

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/saulo-duarte/chronos-habits/internal/habit"
	"github.com/sirupsen/logrus"
)

var ErrProviderUnavailable = errors.New("suggestion provider unavailable")

// HabitFinder resolves a habit owned by the caller.
type HabitFinder interface {
	GetHabit(ctx context.Context, userID, habitID uuid.UUID) (*habit.Habit, error)
}

type Service interface {
	Suggest(ctx context.Context, userID, habitID uuid.UUID, req SuggestionRequest) (*SuggestionResponse, error)
}

type service struct {
	provider Provider
	habits   HabitFinder
}

func NewService(provider Provider, habits HabitFinder) Service {
	return &service{provider: provider, habits: habits}
}

func (s *service) Suggest(ctx context.Context, userID, habitID uuid.UUID, req SuggestionRequest) (*SuggestionResponse, error) {
	log := config.WithContext(ctx).WithFields(logrus.Fields{"user_id": userID, "habit_id": habitID})

	h, err := s.habits.GetHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if s.provider == nil {
		log.Warn("Sub-habit suggestions requested without a configured provider")
		return nil, ErrProviderUnavailable
	}

	suggestions, err := s.provider.SendPrompt(ctx, systemPrompt, BuildUserPrompt(h, req))
	if err != nil {
		log.WithError(err).Error("Failed to generate sub-habit suggestions")
		return nil, errors.Join(ErrProviderUnavailable, err)
	}

	if limit := clampCount(req.Count); len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return &SuggestionResponse{HabitID: h.ID, Suggestions: suggestions}, nil
}
