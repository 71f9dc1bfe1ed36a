package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"os"
	"strings"
	"time"

	"lagoon-hotel-backend/models"

	"github.com/sirupsen/logrus"
)

// Notifier is the notification sink the booking flows call after a state
// transition: guest email plus a Telegram alert to the front desk channel.
// Both are best-effort; a failed notification never fails the booking.
type Notifier struct {
	httpClient *http.Client
}

func NewNotifier() *Notifier {
	return &Notifier{httpClient: &http.Client{Timeout: 10 * time.Second}}
}

func (n *Notifier) BookingCreated(booking *models.Booking, client *models.Client) {
	subject := fmt.Sprintf("Booking %s received", booking.ReferenceCode)
	body := fmt.Sprintf(
		"Hi %s,\n\nWe received your booking %s:\n%s, %d room(s), %s to %s (%d nights).\nTotal: %.2f\nStatus: %s\n\nLagoon Breeze Hotel\n",
		client.FullName, booking.ReferenceCode, booking.RoomType.TypeName, booking.RoomsBooked,
		booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"),
		booking.Nights, booking.TotalPrice, booking.Status,
	)
	n.sendEmail(client.Email, subject, body)
	n.sendTelegram(fmt.Sprintf("New booking %s: %s, %d room(s), %s → %s (%s)",
		booking.ReferenceCode, booking.RoomType.TypeName, booking.RoomsBooked,
		booking.CheckIn.Format("2006-01-02"), booking.CheckOut.Format("2006-01-02"), booking.Status))
}

func (n *Notifier) BookingCancelled(booking *models.Booking, client *models.Client) {
	subject := fmt.Sprintf("Booking %s cancelled", booking.ReferenceCode)
	body := fmt.Sprintf(
		"Hi %s,\n\nYour booking %s has been cancelled.\nPayment status: %s\n\nLagoon Breeze Hotel\n",
		client.FullName, booking.ReferenceCode, booking.PaymentStatus,
	)
	n.sendEmail(client.Email, subject, body)
	n.sendTelegram(fmt.Sprintf("Booking %s cancelled (%s)", booking.ReferenceCode, booking.CancelReason))
}

func (n *Notifier) BookingStatusChanged(booking *models.Booking) {
	n.sendTelegram(fmt.Sprintf("Booking %s is now %s (payment: %s)",
		booking.ReferenceCode, booking.Status, booking.PaymentStatus))
}

// sendEmail delivers over SMTP when configured and logs a mock line when not,
// so local development works without a mail account.
func (n *Notifier) sendEmail(recipient, subject, body string) {
	if strings.TrimSpace(recipient) == "" {
		return
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		logrus.WithFields(logrus.Fields{"to": recipient, "subject": subject}).Info("[MOCK EMAIL]")
		return
	}

	fromName := EnvOrDefault("SMTP_FROM_NAME", "Lagoon Breeze Hotel")
	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(body + "\r\n")

	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)
	if err := smtp.SendMail(addr, auth, smtpUser, []string{recipient}, []byte(sb.String())); err != nil {
		logrus.WithError(err).WithField("to", recipient).Warn("failed to send email")
	}
}

// sendTelegram posts to the Bot API. Disabled unless both the bot token and
// chat id are configured.
func (n *Notifier) sendTelegram(text string) {
	token := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	chatID := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if token == "" || chatID == "" {
		return
	}

	payload, err := json.Marshal(map[string]string{"chat_id": chatID, "text": text})
	if err != nil {
		return
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", token)
	resp, err := n.httpClient.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		logrus.WithError(err).Warn("failed to send telegram alert")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logrus.WithField("status", resp.StatusCode).Warn("telegram alert rejected")
	}
}
