package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/saulo-duarte/chronos-habits/internal/config"
	"github.com/sirupsen/logrus"
)

var ErrInvalidToken = errors.New("google access token is required")

type Service interface {
	// Me returns the caller's record, creating it on first use since accounts are
	// provisioned by the identity provider that issued the token.
	Me(ctx context.Context, userID uuid.UUID, role string) (*User, error)
	ConnectGoogle(ctx context.Context, userID uuid.UUID, dto ConnectGoogleDTO) (*User, error)
}

type service struct {
	repo UserRepository
}

func NewService(repo UserRepository) Service {
	return &service{repo: repo}
}

func (s *service) Me(ctx context.Context, userID uuid.UUID, role string) (*User, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load user")
		return nil, err
	}
	if u != nil {
		return u, nil
	}

	if role == "" {
		role = "user"
	}
	u = &User{ID: userID, Role: role}
	if err := s.repo.Create(ctx, u); err != nil {
		log.WithError(err).Error("Failed to create user")
		return nil, err
	}
	log.Info("User record created")
	return u, nil
}

func (s *service) ConnectGoogle(ctx context.Context, userID uuid.UUID, dto ConnectGoogleDTO) (*User, error) {
	log := config.WithContext(ctx).WithField("user_id", userID)

	if strings.TrimSpace(dto.AccessToken) == "" {
		return nil, ErrInvalidToken
	}

	u, err := s.Me(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	access, err := config.Encrypt(dto.AccessToken)
	if err != nil {
		log.WithError(err).Error("Failed to encrypt Google access token")
		return nil, err
	}
	u.EncryptedGoogleAccessToken = access

	if dto.RefreshToken != "" {
		refresh, err := config.Encrypt(dto.RefreshToken)
		if err != nil {
			log.WithError(err).Error("Failed to encrypt Google refresh token")
			return nil, err
		}
		u.EncryptedGoogleRefreshToken = refresh
	}

	if err := s.repo.Update(ctx, u); err != nil {
		log.WithError(err).Error("Failed to store Google tokens")
		return nil, err
	}

	log.WithFields(logrus.Fields{"has_refresh_token": dto.RefreshToken != ""}).Info("Google account connected")
	return u, nil
}
