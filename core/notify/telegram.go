package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// TelegramNotifier delivers events as Telegram bot messages. The token and
// chat IDs come from configuration; nothing is hard-coded. Delivery errors
// are logged and swallowed.
type TelegramNotifier struct {
	baseURL string
	token   string
	chatIDs []string
	client  *http.Client
	logger  *zap.Logger
}

// NewTelegramNotifier builds a notifier for the Telegram Bot API.
func NewTelegramNotifier(cfg Config, logger *zap.Logger) *TelegramNotifier {
	baseURL := cfg.TelegramAPIURL
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}
	return &TelegramNotifier{
		baseURL: baseURL,
		token:   cfg.TelegramToken,
		chatIDs: cfg.TelegramChatIDs,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (n *TelegramNotifier) Notify(ctx context.Context, ev Event) {
	text := ev.Message
	if ev.Err != nil {
		text = fmt.Sprintf("%s: %v", ev.Message, ev.Err)
	}
	for _, chatID := range n.chatIDs {
		if err := n.send(ctx, chatID, text); err != nil {
			n.logger.Warn("Failed to send Telegram notification",
				zap.String("chat_id", chatID), zap.Error(err))
		}
	}
}

func (n *TelegramNotifier) send(ctx context.Context, chatID, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}
