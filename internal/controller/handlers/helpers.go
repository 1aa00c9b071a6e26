package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/model"
)

const dateLayout = "02 Jan 2006 15:04 MST"

var statusEmoji = map[model.BookingStatus]string{
	model.BookingStatusReserved: "📌",
	model.BookingStatusOngoing:  "📦",
	model.BookingStatusOverdue:  "⏰",
}

func notLinkedText(chatID int64) string {
	return fmt.Sprintf(
		"This chat is not linked to a Shelf account yet.\n\n"+
			"Your chat id is %d. Add it in your Shelf profile to get booking reminders here.",
		chatID,
	)
}

// FormatBooking форматирует бронирование для отображения
func FormatBooking(booking *model.Booking, serverURL string) string {
	emoji, ok := statusEmoji[booking.Status]
	if !ok {
		emoji = "📄"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%s)\n", emoji, booking.Name, booking.Status)
	if booking.Organization != nil {
		fmt.Fprintf(&sb, "🏢 %s\n", booking.Organization.Name)
	}
	if booking.From != nil && booking.To != nil {
		fmt.Fprintf(&sb, "🗓 %s - %s\n", formatTime(*booking.From), formatTime(*booking.To))
	}
	fmt.Fprintf(&sb, "🧰 Assets: %d\n", booking.AssetsCount)
	fmt.Fprintf(&sb, "%s/bookings/%s", strings.TrimRight(serverURL, "/"), booking.ID)

	return sb.String()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
