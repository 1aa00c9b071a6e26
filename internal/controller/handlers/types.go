package handlers

import (
	"context"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Sender часть API бота, через которую отвечают обработчики
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

type UserFinder interface {
	GetByTelegramChat(ctx context.Context, chatID int64) (*model.User, error)
}

type BookingLister interface {
	ListForUser(ctx context.Context, userID string) ([]*model.Booking, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	users     UserFinder
	bookings  BookingLister
	serverURL string
	logger    *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(users UserFinder, bookings BookingLister, serverURL string, logger *zap.Logger) *Handlers {
	return &Handlers{
		users:     users,
		bookings:  bookings,
		serverURL: serverURL,
		logger:    logger,
	}
}
