// Package notifier pushes admin notifications about portal activity.
package notifier

import (
	"fmt"

	"reclamation-portal/internal/config"
	"reclamation-portal/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier receives portal events worth surfacing to administrators.
type Notifier interface {
	ReclamationCreated(rec *models.Reclamation, ownerName string)
}

// TelegramNotifier sends a one-way message to a configured admin chat
// whenever a worker submits a new reclamation.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegram creates the Telegram notifier. It returns nil (no
// notifier) when notifications are disabled or no token is set.
func NewTelegram(cfg *config.Config, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Notifications.Enabled || cfg.Notifications.TelegramBotToken == "" {
		logger.Info("Telegram notifications are disabled")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Notifications.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:    botAPI,
		chatID: cfg.Notifications.TelegramChatID,
		logger: logger,
	}, nil
}

func (n *TelegramNotifier) ReclamationCreated(rec *models.Reclamation, ownerName string) {
	if n == nil {
		return
	}

	text := fmt.Sprintf("New reclamation from %s:\n%s", ownerName, rec.Title)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		// Notification failures never fail the request that
		// triggered them.
		n.logger.Warn("Failed to send Telegram notification",
			zap.String("reclamation_id", rec.ID),
			zap.Error(err))
	}
}
