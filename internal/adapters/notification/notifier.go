// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/pomokit/pomokit/internal/config"
	"github.com/pomokit/pomokit/internal/domain"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg *config.NotificationConfig
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if n.cfg == nil || !n.cfg.Enabled {
		return nil
	}

	return beeep.Notify(title, message, "")
}

// NotifySessionComplete displays a notification for a finished session.
func (n *Notifier) NotifySessionComplete(sessionType domain.SessionType, durationMinutes int) error {
	if sessionType == domain.SessionTypeWork {
		title := "🍅 Pomodoro Complete!"
		message := fmt.Sprintf("Great job! You completed a %d minute work session.", durationMinutes)
		return n.Notify(title, message)
	}

	title := "☕ Break Over!"
	message := "Your break is complete. Ready to focus?"
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}
