package container

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/saulo-duarte/chronos-habits/internal/auth"
	"github.com/saulo-duarte/chronos-habits/internal/cache"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	googlecalendar "github.com/saulo-duarte/chronos-habits/internal/google_calendar"
	"github.com/saulo-duarte/chronos-habits/internal/habit"
	"github.com/saulo-duarte/chronos-habits/internal/metrics"
	"github.com/saulo-duarte/chronos-habits/internal/router"
	"github.com/saulo-duarte/chronos-habits/internal/suggestion"
	"github.com/saulo-duarte/chronos-habits/internal/user"
	"github.com/saulo-duarte/chronos-habits/internal/weekly_review"
)

type Container struct {
	UserContainer           *user.UserContainer
	HabitContainer          *habit.Container
	GoogleCalendarContainer *googlecalendar.GoogleCalendarContainer
	SuggestionContainer     *suggestion.SuggestionContainer
	WeeklyReviewContainer   *weekly_review.Container
}

func New(ctx context.Context) *Container {
	config.Init()
	auth.Init()
	config.InitCrypto()
	metrics.Init()

	dsn := os.Getenv("DATABASE_DSN")
	if err := config.Connect(ctx, dsn); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}

	if os.Getenv("AUTO_MIGRATE") == "true" {
		models := append(habit.Models(), &user.User{}, &weekly_review.WeeklyReview{})
		if err := config.DB.WithContext(ctx).AutoMigrate(models...); err != nil {
			log.Fatalf("failed to migrate DB: %v", err)
		}
		config.Log.Info("Database migrated")
	}

	habitCache := cache.NewNoopCache()
	if url := os.Getenv("REDIS_URL"); url != "" {
		c, err := cache.NewRedisCache(ctx, url)
		if err != nil {
			config.Log.WithError(err).Warn("Redis unavailable, history cache disabled")
		} else {
			habitCache = c
		}
	}

	userContainer := user.NewUserContainer(config.DB)
	calendarContainer := googlecalendar.NewGoogleCalendarContainer(userContainer.Repository)
	habitContainer := habit.NewContainer(config.DB, habitCache, calendarContainer.CalendarManager)
	suggestionContainer := suggestion.NewSuggestionContainer(ctx, habitContainer.Service)
	weeklyReviewContainer := weekly_review.NewContainer(config.DB, habitContainer.Service)

	return &Container{
		UserContainer:           userContainer,
		HabitContainer:          habitContainer,
		GoogleCalendarContainer: calendarContainer,
		SuggestionContainer:     suggestionContainer,
		WeeklyReviewContainer:   weeklyReviewContainer,
	}
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		UserHandler:         c.UserContainer.Handler,
		HabitHandler:        c.HabitContainer.Handler,
		SuggestionHandler:   c.SuggestionContainer.Handler,
		WeeklyReviewHandler: c.WeeklyReviewContainer.Handler,
	})
}
