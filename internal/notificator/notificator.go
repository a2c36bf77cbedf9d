package notificator

import (
	"runtime/debug"

	"github.com/Glayre/Proyecto-Final-Cavenet/internal/models"
	"github.com/Glayre/Proyecto-Final-Cavenet/pkg/logger"
)

// Notificator fans a billing reminder out to every configured channel:
// email to the customer and telegram to the operations channel. Channels are
// optional; a nil channel is skipped. Failures are logged and swallowed so a
// broken notifier can never block an invoice transition.
type Notificator struct {
	logger *logger.Logger

	TelegramNotificator *TelegramNotificator
	EmailNotificator    *EmailNotificator
}

func NewNotificator(logger *logger.Logger, telNotif *TelegramNotificator, emailNotif *EmailNotificator) *Notificator {
	return &Notificator{logger: logger, TelegramNotificator: telNotif, EmailNotificator: emailNotif}
}

// safeCall runs a function with panic recovery.
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// SendReminder delivers a due-date reminder on all channels.
func (n *Notificator) SendReminder(reminder *models.Reminder) {
	message := reminder.String()

	if n.EmailNotificator != nil && reminder.Email != "" {
		email := reminder.Email
		n.safeCall(func() { n.EmailNotificator.SendNotification(email, message) }, "emailReminder")
	}
	if n.TelegramNotificator != nil {
		n.safeCall(func() { n.TelegramNotificator.SendNotification(message) }, "telegramReminder")
	}
}
