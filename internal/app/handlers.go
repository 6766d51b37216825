package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vintedwatch/internal/external/discord"
	"vintedwatch/internal/model"
	"vintedwatch/internal/service"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// testFetchTimeout bounds the catalog fetch behind /vinted test.
const testFetchTimeout = 30 * time.Second

// searchFromAddOptions builds a search from the add subcommand. The
// invoking channel becomes the search's notification channel.
func searchFromAddOptions(sub *discordgo.ApplicationCommandInteractionDataOption, i *discordgo.InteractionCreate, userID string) *model.Search {
	options := optionMap(sub)

	return &model.Search{
		UserID:          userID,
		GuildID:         i.GuildID,
		ChannelID:       i.ChannelID,
		Keyword:         stringOption(options, "keyword"),
		MinPrice:        intOption(options, "min_price"),
		MaxPrice:        intOption(options, "max_price"),
		Size:            stringOption(options, "size"),
		Brand:           stringOption(options, "brand"),
		Condition:       stringOption(options, "condition"),
		Location:        stringOption(options, "location"),
		DMNotifications: boolOption(options, "dm"),
		Enabled:         true,
	}
}

func (r *Router) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption, userID string) {
	search := searchFromAddOptions(sub, i, userID)

	if err := r.services.Search.Add(search); err != nil {
		r.respondError(s, i, fmt.Sprintf("Could not add the search: %v", err))
		return
	}

	message := fmt.Sprintf("Search #%d added: **%s**", search.SearchID, search.Keyword)
	if filters := discord.FormatSearchFilters(search); filters != "" {
		message += "\n" + filters
	}
	r.respondEmbed(s, i, discord.SuccessEmbed(message))
}

func (r *Router) handleList(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	searches, err := r.services.Search.ListByUser(userID)
	if err != nil {
		r.logger.Error("Failed to list searches", zap.String("user_id", userID), zap.Error(err))
		r.respondError(s, i, "Could not load your searches.")
		return
	}

	r.respondEmbed(s, i, discord.BuildSearchListEmbed(searches, r.config.Language))
}

func (r *Router) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption, userID string) {
	searchID := intOption(optionMap(sub), "id")

	err := r.services.Search.Remove(searchID, userID)
	switch {
	case errors.Is(err, service.ErrSearchNotFound):
		r.respondError(s, i, fmt.Sprintf("Search #%d does not exist.", searchID))
	case errors.Is(err, service.ErrNotOwner):
		r.respondError(s, i, fmt.Sprintf("Search #%d belongs to someone else.", searchID))
	case err != nil:
		r.logger.Error("Failed to remove search", zap.Int("search_id", searchID), zap.Error(err))
		r.respondError(s, i, "Could not remove the search.")
	default:
		r.respondEmbed(s, i, discord.SuccessEmbed(fmt.Sprintf("Search #%d removed.", searchID)))
	}
}

func (r *Router) handleTest(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption, userID string) {
	searchID := intOption(optionMap(sub), "id")

	// The fetch can take a few seconds, so defer the response first.
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		r.logger.Error("Failed to defer response", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), testFetchTimeout)
	defer cancel()

	listings, err := r.services.Search.Test(ctx, searchID, userID)
	switch {
	case errors.Is(err, service.ErrSearchNotFound):
		r.followupError(s, i, fmt.Sprintf("Search #%d does not exist.", searchID))
		return
	case errors.Is(err, service.ErrNotOwner):
		r.followupError(s, i, fmt.Sprintf("Search #%d belongs to someone else.", searchID))
		return
	case err != nil:
		r.logger.Error("Test fetch failed", zap.Int("search_id", searchID), zap.Error(err))
		r.followupError(s, i, "The test fetch failed, try again in a minute.")
		return
	}

	if len(listings) == 0 {
		r.followupError(s, i, "No listings found for this search right now.")
		return
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(listings))
	for idx := range listings {
		embeds = append(embeds, discord.BuildListingEmbed(&listings[idx], r.config.Language))
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	}); err != nil {
		r.logger.Error("Failed to send test results", zap.Error(err))
	}
}

func (r *Router) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) {
	if !r.isAdmin(i, userID) {
		r.respondError(s, i, "Only administrators can view the statistics.")
		return
	}

	snapshot := r.services.Stats.Snapshot()

	totalSearches := 0
	if searches, err := r.services.Search.GetAll(); err == nil {
		totalSearches = len(searches)
	}

	seenCount := 0
	if count, err := r.seen.Count(); err == nil {
		seenCount = count
	}

	embed := &discordgo.MessageEmbed{
		Title: "Watcher statistics",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Scrape cycles", Value: strconv.FormatInt(snapshot.CyclesRun, 10), Inline: true},
			{Name: "Searches processed", Value: strconv.FormatInt(snapshot.SearchesProcessed, 10), Inline: true},
			{Name: "New items found", Value: strconv.FormatInt(snapshot.ItemsFound, 10), Inline: true},
			{Name: "Notifications sent", Value: strconv.FormatInt(snapshot.NotificationsSent, 10), Inline: true},
			{Name: "Saved searches", Value: strconv.Itoa(totalSearches), Inline: true},
			{Name: "Seen cache size", Value: strconv.Itoa(seenCount), Inline: true},
			{Name: "Scrape interval", Value: r.services.Watcher.Interval().String(), Inline: true},
		},
	}

	r.respondEmbed(s, i, embed)
}

func (r *Router) handleChannel(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption, userID string) {
	if !r.isAdmin(i, userID) {
		r.respondError(s, i, "Only administrators can change the notification channel.")
		return
	}

	options := optionMap(sub)
	option, ok := options["channel"]
	if !ok {
		r.respondError(s, i, "A channel is required.")
		return
	}
	channel := option.ChannelValue(s)
	if channel == nil {
		r.respondError(s, i, "A channel is required.")
		return
	}

	if err := r.settings.Set(model.SettingNotificationChannel, channel.ID); err != nil {
		r.logger.Error("Failed to save notification channel", zap.Error(err))
		r.respondError(s, i, "Could not save the notification channel.")
		return
	}

	r.logger.Info("Notification channel updated",
		zap.String("channel_id", channel.ID),
		zap.String("user_id", userID))
	r.respondEmbed(s, i, discord.SuccessEmbed(fmt.Sprintf("Notifications now go to <#%s>.", channel.ID)))
}

func (r *Router) handleInterval(s *discordgo.Session, i *discordgo.InteractionCreate, sub *discordgo.ApplicationCommandInteractionDataOption, userID string) {
	if !r.isAdmin(i, userID) {
		r.respondError(s, i, "Only administrators can change the scrape interval.")
		return
	}

	seconds := intOption(optionMap(sub), "seconds")
	interval := time.Duration(seconds) * time.Second

	if err := r.services.Watcher.SetInterval(interval); err != nil {
		r.respondError(s, i, fmt.Sprintf("Invalid interval: %v", err))
		return
	}

	if err := r.settings.Set(model.SettingScrapeInterval, strconv.Itoa(seconds)); err != nil {
		r.logger.Error("Failed to persist scrape interval", zap.Error(err))
	}

	r.respondEmbed(s, i, discord.SuccessEmbed(fmt.Sprintf("Scrape interval set to %s.", interval)))
}

// respondEmbed sends an ephemeral embed response to an interaction.
func (r *Router) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		r.logger.Error("Failed to respond to interaction", zap.Error(err))
	}
}

func (r *Router) respondError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	r.respondEmbed(s, i, discord.ErrorEmbed(message, r.config.Language))
}

// followupError edits a deferred response into an error embed.
func (r *Router) followupError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	embeds := []*discordgo.MessageEmbed{discord.ErrorEmbed(message, r.config.Language)}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
	}); err != nil {
		r.logger.Error("Failed to edit deferred response", zap.Error(err))
	}
}
