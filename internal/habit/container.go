package habit

import (
	"github.com/saulo-duarte/chronos-habits/internal/cache"
	googlecalendar "github.com/saulo-duarte/chronos-habits/internal/google_calendar"
	"gorm.io/gorm"
)

type Container struct {
	Repository Repository
	Service    Service
	Handler    *Handler
}

func NewContainer(db *gorm.DB, c cache.Cache, calendar googlecalendar.CalendarManager) *Container {
	repo := NewRepository(db)
	service := NewService(repo, c, calendar)

	return &Container{
		Repository: repo,
		Service:    service,
		Handler:    NewHandler(service),
	}
}
