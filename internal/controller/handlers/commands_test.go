package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []*bot.SendMessageParams
}

func (s *recordingSender) SendMessage(_ context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	s.sent = append(s.sent, params)
	return &models.Message{}, nil
}

func (s *recordingSender) last(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.sent)
	return s.sent[len(s.sent)-1].Text
}

type fakeUsers struct{ mock.Mock }

func (f *fakeUsers) GetByTelegramChat(ctx context.Context, chatID int64) (*model.User, error) {
	args := f.Called(ctx, chatID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type fakeBookings struct{ mock.Mock }

func (f *fakeBookings) ListForUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	args := f.Called(ctx, userID)
	list, _ := args.Get(0).([]*model.Booking)
	return list, args.Error(1)
}

func message(chatID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID},
		Text: text,
	}}
}

func newTestHandlers(users *fakeUsers, bookings *fakeBookings) *Handlers {
	return NewHandlers(users, bookings, "https://app.shelf.nu/", zap.NewNop())
}

func TestStart_UnlinkedChatShowsChatID(t *testing.T) {
	users := &fakeUsers{}
	users.On("GetByTelegramChat", mock.Anything, int64(555)).Return(nil, nil)
	sender := &recordingSender{}

	newTestHandlers(users, &fakeBookings{}).start(context.Background(), sender, message(555, "/start"))

	assert.Contains(t, sender.last(t), "Your chat id is 555")
	users.AssertExpectations(t)
}

func TestStart_LinkedChatGreetsUser(t *testing.T) {
	users := &fakeUsers{}
	users.On("GetByTelegramChat", mock.Anything, int64(555)).
		Return(&model.User{ID: "user-1", FirstName: "Jane", Email: "jane@example.com"}, nil)
	sender := &recordingSender{}

	newTestHandlers(users, &fakeBookings{}).start(context.Background(), sender, message(555, "/start"))

	assert.Contains(t, sender.last(t), "Hi, Jane!")
	assert.Contains(t, sender.last(t), "jane@example.com")
}

func TestMyBookings_ListsActiveBookings(t *testing.T) {
	users := &fakeUsers{}
	users.On("GetByTelegramChat", mock.Anything, int64(555)).Return(&model.User{ID: "user-1"}, nil)

	from := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 2, 17, 0, 0, 0, time.UTC)
	bookings := &fakeBookings{}
	bookings.On("ListForUser", mock.Anything, "user-1").Return([]*model.Booking{{
		ID:           "b-1",
		Name:         "Camera kit",
		Status:       model.BookingStatusOngoing,
		From:         &from,
		To:           &to,
		AssetsCount:  4,
		Organization: &model.Organization{Name: "Acme"},
	}}, nil)
	sender := &recordingSender{}

	newTestHandlers(users, bookings).myBookings(context.Background(), sender, message(555, "/mybookings"))

	text := sender.last(t)
	assert.Contains(t, text, "Your bookings (1)")
	assert.Contains(t, text, "📦 Camera kit (ONGOING)")
	assert.Contains(t, text, "🏢 Acme")
	assert.Contains(t, text, "01 Jun 2024 09:00 UTC - 02 Jun 2024 17:00 UTC")
	assert.Contains(t, text, "Assets: 4")
	assert.Contains(t, text, "https://app.shelf.nu/bookings/b-1")
}

func TestMyBookings_Empty(t *testing.T) {
	users := &fakeUsers{}
	users.On("GetByTelegramChat", mock.Anything, int64(555)).Return(&model.User{ID: "user-1"}, nil)
	bookings := &fakeBookings{}
	bookings.On("ListForUser", mock.Anything, "user-1").Return(nil, nil)
	sender := &recordingSender{}

	newTestHandlers(users, bookings).myBookings(context.Background(), sender, message(555, "/mybookings"))

	assert.Equal(t, "📭 You have no active bookings.", sender.last(t))
}

func TestMyBookings_UnlinkedChatStops(t *testing.T) {
	users := &fakeUsers{}
	users.On("GetByTelegramChat", mock.Anything, int64(555)).Return(nil, nil)
	bookings := &fakeBookings{}
	sender := &recordingSender{}

	newTestHandlers(users, bookings).myBookings(context.Background(), sender, message(555, "/mybookings"))

	assert.Contains(t, sender.last(t), "not linked")
	bookings.AssertNotCalled(t, "ListForUser", mock.Anything, mock.Anything)
}

func TestMyBookings_LookupError(t *testing.T) {
	users := &fakeUsers{}
	users.On("GetByTelegramChat", mock.Anything, int64(555)).Return(nil, errors.New("db down"))
	sender := &recordingSender{}

	newTestHandlers(users, &fakeBookings{}).myBookings(context.Background(), sender, message(555, "/mybookings"))

	assert.Contains(t, sender.last(t), "Something went wrong")
}

func TestHelp(t *testing.T) {
	sender := &recordingSender{}

	newTestHandlers(&fakeUsers{}, &fakeBookings{}).help(context.Background(), sender, message(1, "/help"))

	assert.Equal(t, helpText, sender.last(t))
	assert.Equal(t, int64(1), sender.sent[0].ChatID)
}
