package user

import "gorm.io/gorm"

type UserContainer struct {
	Repository UserRepository
	Service    Service
	Handler    *Handler
}

func NewUserContainer(db *gorm.DB) *UserContainer {
	repo := NewUserRepository(db)
	service := NewService(repo)

	return &UserContainer{
		Repository: repo,
		Service:    service,
		Handler:    NewHandler(service),
	}
}
