package notifier

import (
	"context"
	"errors"
)

// Recipient адресат уведомления. Каналы без адреса пропускаются.
type Recipient struct {
	Name           string
	Email          string
	TelegramChatID *int64
}

// Message уведомление в виде простого текста
type Message struct {
	To      Recipient
	Subject string
	Text    string
}

// Notifier канал доставки уведомлений
//
//go:generate mockery --name=Notifier --output=../service/mocks --outpkg=mocks
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi рассылает уведомление во все каналы. Ошибка одного канала не мешает остальным.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, msg Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop ничего не отправляет
type Nop struct{}

func (Nop) Notify(context.Context, Message) error { return nil }
