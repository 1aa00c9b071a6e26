package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Commands:\n\n" +
	"/start - Link status and your chat id\n" +
	"/mybookings - Your active bookings\n" +
	"/help - Show this help\n\n" +
	"Booking reminders are sent to this chat once it is linked to your account."

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.start(ctx, b, update)
}

func (h *Handlers) start(ctx context.Context, b Sender, update *models.Update) {
	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID

	user, err := h.users.GetByTelegramChat(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to get user by chat", zap.Int64("chat_id", chatID), zap.Error(err))
		h.send(ctx, b, chatID, "❌ Something went wrong. Please try again later.")
		return
	}

	if user == nil {
		h.send(ctx, b, chatID, "👋 Welcome to Shelf!\n\n"+notLinkedText(chatID))
		return
	}

	h.send(ctx, b, chatID, fmt.Sprintf(
		"👋 Hi, %s!\n\nThis chat is linked to %s. Booking reminders will arrive here.\n\n%s",
		user.FirstName, user.Email, helpText,
	))
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.help(ctx, b, update)
}

func (h *Handlers) help(ctx context.Context, b Sender, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.send(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleMyBookings обрабатывает команду /mybookings
func (h *Handlers) HandleMyBookings(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.myBookings(ctx, b, update)
}

func (h *Handlers) myBookings(ctx context.Context, b Sender, update *models.Update) {
	if update.Message == nil {
		return
	}

	user, ok := h.requireLinkedUser(ctx, b, update)
	if !ok {
		return
	}

	chatID := update.Message.Chat.ID
	bookings, err := h.bookings.ListForUser(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list user bookings", zap.String("user_id", user.ID), zap.Error(err))
		h.send(ctx, b, chatID, "❌ Failed to load your bookings. Please try again later.")
		return
	}

	if len(bookings) == 0 {
		h.send(ctx, b, chatID, "📭 You have no active bookings.")
		return
	}

	parts := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		parts = append(parts, FormatBooking(booking, h.serverURL))
	}

	h.send(ctx, b, chatID, fmt.Sprintf("📅 Your bookings (%d):\n\n%s", len(bookings), strings.Join(parts, "\n\n")))
}
