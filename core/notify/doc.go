// Package notify delivers run-phase notifications.
//
// The audit orchestrator calls the Notifier on run start, on every phase
// transition with a progress percentage, and on completion or failure.
// Delivery is strictly best effort: a notifier that cannot deliver logs
// the problem and never fails the audit.
//
// Two implementations ship with the tool: LogNotifier writes events to the
// structured log, and TelegramNotifier posts them to the Telegram Bot API
// using a token and chat list taken from configuration. Multi combines
// several notifiers.
package notify
