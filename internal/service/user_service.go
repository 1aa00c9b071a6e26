package service

import (
	"context"

	"github.com/Freeeeeet/shelf_server/internal/apperr"
	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/Freeeeeet/shelf_server/internal/repository/base"
	"go.uber.org/zap"
)

const labelUser = "User"

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// Get возвращает пользователя или NotFound
func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(labelUser, "failed to load user", err)
	}
	if user == nil {
		return nil, apperr.NotFound(labelUser, "user not found").With("id", id)
	}
	return user, nil
}

// GetByTelegramChat возвращает пользователя с привязанным чатом, nil если такого нет
func (s *UserService) GetByTelegramChat(ctx context.Context, chatID int64) (*model.User, error) {
	user, err := s.users.GetByTelegramChatID(ctx, chatID)
	if err != nil {
		return nil, apperr.Internal(labelUser, "failed to load user", err)
	}
	return user, nil
}

// LinkTelegram привязывает чат Telegram для уведомлений, nil отвязывает
func (s *UserService) LinkTelegram(ctx context.Context, userID string, chatID *int64) error {
	if err := s.users.SetTelegramChatID(ctx, userID, chatID); err != nil {
		switch {
		case base.IsNotFound(err):
			return apperr.NotFound(labelUser, "user not found").With("id", userID)
		case base.IsUniqueViolation(err):
			return apperr.Conflict(labelUser, "this Telegram chat is already linked to another user", err)
		}
		return apperr.Internal(labelUser, "failed to link telegram chat", err)
	}

	s.logger.Info("Telegram chat linked",
		zap.String("user_id", userID),
		zap.Bool("linked", chatID != nil),
	)
	return nil
}
