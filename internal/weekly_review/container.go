package weekly_review

import "gorm.io/gorm"

type Container struct {
	Handler *Handler
	Service Service
}

func NewContainer(db *gorm.DB, calendar CalendarBuilder) *Container {
	repo := NewRepository(db)
	service := NewService(repo, calendar)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
	}
}
