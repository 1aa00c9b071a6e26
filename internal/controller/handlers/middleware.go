package handlers

import (
	"context"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// requireLinkedUser находит пользователя, привязавшего этот чат.
// Возвращает user и true если OK, nil и false если нет
func (h *Handlers) requireLinkedUser(ctx context.Context, b Sender, update *models.Update) (*model.User, bool) {
	chatID := update.Message.Chat.ID

	user, err := h.users.GetByTelegramChat(ctx, chatID)
	if err != nil {
		h.logger.Error("Failed to get user by chat", zap.Int64("chat_id", chatID), zap.Error(err))
		h.send(ctx, b, chatID, "❌ Something went wrong. Please try again later.")
		return nil, false
	}

	if user == nil {
		h.send(ctx, b, chatID, notLinkedText(chatID))
		return nil, false
	}

	return user, true
}

// send отправляет сообщение и логирует если не удалось
func (h *Handlers) send(ctx context.Context, b Sender, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
