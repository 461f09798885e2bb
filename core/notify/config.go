package notify

import "strings"

// Config holds configuration for run notifications.
type Config struct {
	// TelegramToken is the bot token. Telegram delivery is disabled when
	// empty.
	TelegramToken string `mapstructure:"telegram_token" default:""`
	// TelegramChats is a comma-separated list of chat IDs.
	TelegramChats string `mapstructure:"telegram_chats" default:""`
	// TelegramAPIURL overrides the Bot API endpoint (tests).
	TelegramAPIURL string `mapstructure:"telegram_api_url" default:""`

	// TelegramChatIDs is the parsed form of TelegramChats.
	TelegramChatIDs []string `mapstructure:"-"`
}

// Enabled reports whether Telegram delivery is configured.
func (c *Config) Enabled() bool {
	return c.TelegramToken != "" && len(c.ChatIDs()) > 0
}

// ChatIDs splits and caches the configured chat list.
func (c *Config) ChatIDs() []string {
	if c.TelegramChatIDs != nil {
		return c.TelegramChatIDs
	}
	for _, part := range strings.Split(c.TelegramChats, ",") {
		if id := strings.TrimSpace(part); id != "" {
			c.TelegramChatIDs = append(c.TelegramChatIDs, id)
		}
	}
	return c.TelegramChatIDs
}
