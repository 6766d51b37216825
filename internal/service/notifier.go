package service

import (
	"errors"
	"fmt"

	"vintedwatch/internal/external/discord"
	"vintedwatch/internal/model"

	"go.uber.org/zap"
)

// Notifier delivers new-listing notifications to Discord.
type Notifier struct {
	sender           Sender
	settings         model.SettingRepository
	defaultChannelID string
	lang             string
	stats            *Stats
	logger           *zap.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(sender Sender, settings model.SettingRepository, defaultChannelID, lang string, stats *Stats, logger *zap.Logger) *Notifier {
	return &Notifier{
		sender:           sender,
		settings:         settings,
		defaultChannelID: defaultChannelID,
		lang:             lang,
		stats:            stats,
		logger:           logger,
	}
}

// Notify sends a listing to the search owner. The listing goes to the
// owner's DM when the search asks for it, and to the resolved channel
// with an owner mention. An error is returned only when no delivery
// succeeded.
func (n *Notifier) Notify(search *model.Search, listing *model.Listing) error {
	embed := discord.BuildListingEmbed(listing, n.lang)

	var delivered bool
	var errs []error

	if search.DMNotifications {
		if err := n.sender.SendDM(search.UserID, embed); err != nil {
			n.logger.Warn("Failed to send DM notification",
				zap.String("user_id", search.UserID),
				zap.Error(err))
			errs = append(errs, err)
		} else {
			delivered = true
			n.stats.IncNotificationsSent()
		}
	}

	if channelID := n.resolveChannel(search); channelID != "" {
		mention := fmt.Sprintf("<@%s>", search.UserID)
		if err := n.sender.SendEmbed(channelID, mention, embed); err != nil {
			n.logger.Error("Failed to send channel notification",
				zap.String("channel_id", channelID),
				zap.Error(err))
			errs = append(errs, err)
		} else {
			delivered = true
			n.stats.IncNotificationsSent()
		}
	}

	if !delivered && len(errs) > 0 {
		return fmt.Errorf("notification failed: %w", errors.Join(errs...))
	}
	if !delivered {
		n.logger.Debug("No notification target for search",
			zap.Int("search_id", search.SearchID))
	}

	return nil
}

// resolveChannel picks the notification channel: the search's own channel
// first, then the runtime setting, then the configured default.
func (n *Notifier) resolveChannel(search *model.Search) string {
	if search.ChannelID != "" {
		return search.ChannelID
	}

	if value, err := n.settings.Get(model.SettingNotificationChannel); err == nil && value != "" {
		return value
	}

	return n.defaultChannelID
}
