package notifier

import (
	"fmt"
	"strings"
	"time"
)

const (
	SubjectCheckoutReminder = "Checkout reminder - shelf.nu"
	SubjectCheckinReminder  = "Checkin reminder - shelf.nu"
	SubjectOverdueReminder  = "Overdue reminder - shelf.nu"

	dateLayout = "Mon, 02 Jan 2006 15:04 MST"
)

// ReminderContent данные бронирования для текста напоминания
type ReminderContent struct {
	BookingID   string
	BookingName string
	AssetsCount int
	Custodian   string
	From        time.Time
	To          time.Time
	// Базовый адрес сервера для ссылки на бронирование, может быть пустым
	ServerURL string
}

func (c ReminderContent) link() string {
	if c.ServerURL == "" {
		return ""
	}
	return strings.TrimRight(c.ServerURL, "/") + "/bookings/" + c.BookingID
}

func (c ReminderContent) details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Booking: %s\n", c.BookingName)
	fmt.Fprintf(&b, "Custodian: %s\n", c.Custodian)
	fmt.Fprintf(&b, "Assets: %d\n", c.AssetsCount)
	fmt.Fprintf(&b, "From: %s\n", c.From.UTC().Format(dateLayout))
	fmt.Fprintf(&b, "To: %s\n", c.To.UTC().Format(dateLayout))
	if link := c.link(); link != "" {
		fmt.Fprintf(&b, "\nView booking: %s\n", link)
	}
	return b.String()
}

// CheckoutReminderContent текст напоминания о скорой выдаче
func CheckoutReminderContent(c ReminderContent) string {
	return fmt.Sprintf("Hi %s, your booking %q is due for checkout within the hour.\n\n%s",
		c.Custodian, c.BookingName, c.details())
}

// CheckinReminderContent текст напоминания о скором возврате
func CheckinReminderContent(c ReminderContent) string {
	return fmt.Sprintf("Hi %s, your booking %q is due for checkin within the hour.\n\n%s",
		c.Custodian, c.BookingName, c.details())
}

// OverdueReminderContent текст о просроченном возврате
func OverdueReminderContent(bookingName, organizationName string) string {
	return fmt.Sprintf("You have passed the deadline for checking in your booking %q of %s.",
		bookingName, organizationName)
}
