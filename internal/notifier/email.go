package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// SMTPConfig параметры почтового сервера
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailNotifier отправляет письма через SMTP
type EmailNotifier struct {
	cfg      SMTPConfig
	auth     smtp.Auth
	sendMail sendMailFunc
	logger   *zap.Logger
}

func NewEmailNotifier(cfg SMTPConfig, logger *zap.Logger) *EmailNotifier {
	var auth smtp.Auth
	if cfg.User != "" {
		auth = smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host)
	}
	return &EmailNotifier{
		cfg:      cfg,
		auth:     auth,
		sendMail: smtp.SendMail,
		logger:   logger,
	}
}

func (n *EmailNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.To.Email == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := n.cfg.Host + ":" + strconv.Itoa(n.cfg.Port)
	if err := n.sendMail(addr, n.auth, n.cfg.From, []string{msg.To.Email}, n.build(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", msg.To.Email, err)
	}

	n.logger.Debug("Email sent",
		zap.String("to", msg.To.Email),
		zap.String("subject", msg.Subject),
	)
	return nil
}

func (n *EmailNotifier) build(msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + n.cfg.From + "\r\n")
	b.WriteString("To: " + msg.To.Email + "\r\n")
	b.WriteString("Subject: " + msg.Subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Text, "\n", "\r\n"))
	return []byte(b.String())
}
