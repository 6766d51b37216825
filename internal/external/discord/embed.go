package discord

import (
	"fmt"
	"strings"
	"time"

	"vintedwatch/internal/model"

	"github.com/bwmarrin/discordgo"
)

// Discord hard limits.
const (
	embedTitleLimit = 256
	embedFieldLimit = 25
)

// Embed accent colors.
const (
	colorBlue   = 0x3498db
	colorGreen  = 0x2ecc71
	colorOrange = 0xe67e22
	colorRed    = 0xe74c3c
)

// truncate caps a string at max runes, never splitting a multi-byte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// BuildListingEmbed renders a listing as a notification embed.
func BuildListingEmbed(listing *model.Listing, lang string) *discordgo.MessageEmbed {
	title := truncate(listing.Title, embedTitleLimit)

	embed := &discordgo.MessageEmbed{
		Title:       title,
		URL:         listing.URL,
		Description: fmt.Sprintf("**%s:** %s", getText("price", lang), listing.PriceText),
		Color:       colorBlue,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Vinted • %s", getText("posted", lang)),
		},
	}

	if listing.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: listing.ImageURL}
	}

	if listing.Brand != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   getText("brand", lang),
			Value:  listing.Brand,
			Inline: true,
		})
	}

	if listing.Size != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   getText("size", lang),
			Value:  listing.Size,
			Inline: true,
		})
	}

	if listing.Condition != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   getText("condition", lang),
			Value:  listing.Condition,
			Inline: true,
		})
	}

	return embed
}

// BuildSearchListEmbed renders a user's saved searches.
func BuildSearchListEmbed(searches []model.Search, lang string) *discordgo.MessageEmbed {
	if len(searches) == 0 {
		return &discordgo.MessageEmbed{
			Title:       getText("your_searches", lang),
			Description: getText("no_searches", lang),
			Color:       colorOrange,
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: getText("your_searches", lang),
		Color: colorGreen,
	}

	shown := searches
	if len(shown) > embedFieldLimit {
		shown = shown[:embedFieldLimit]
	}

	for _, search := range shown {
		notifyVia := getText("channel", lang)
		if search.DMNotifications {
			notifyVia = getText("dm", lang)
		}

		value := fmt.Sprintf("**%s:** %s\n", getText("keyword", lang), search.Keyword)
		if filters := FormatSearchFilters(&search); filters != "" {
			value += fmt.Sprintf("**%s:** %s\n", getText("filters", lang), filters)
		}
		value += fmt.Sprintf("**%s:** %s", getText("notifications", lang), notifyVia)

		name := truncate(search.Keyword, 50)

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("#%d - %s", search.SearchID, name),
			Value:  value,
			Inline: false,
		})
	}

	if len(searches) > embedFieldLimit {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf(getText("and_more", lang), len(searches)-embedFieldLimit),
		}
	}

	return embed
}

// ErrorEmbed renders an error message.
func ErrorEmbed(message, lang string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("❌ %s", getText("error", lang)),
		Description: message,
		Color:       colorRed,
	}
}

// SuccessEmbed renders a confirmation message.
func SuccessEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Description: fmt.Sprintf("✅ %s", message),
		Color:       colorGreen,
	}
}

// FormatSearchFilters renders the optional criteria of a search as a
// short human-readable line.
func FormatSearchFilters(search *model.Search) string {
	var parts []string

	if search.MinPrice > 0 {
		parts = append(parts, fmt.Sprintf("Prix min: %d€", search.MinPrice))
	}
	if search.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("Prix max: %d€", search.MaxPrice))
	}
	if search.Size != "" {
		parts = append(parts, fmt.Sprintf("Taille: %s", search.Size))
	}
	if search.Brand != "" {
		parts = append(parts, fmt.Sprintf("Marque: %s", search.Brand))
	}
	if search.Condition != "" {
		parts = append(parts, fmt.Sprintf("État: %s", search.Condition))
	}
	if search.Location != "" {
		parts = append(parts, fmt.Sprintf("Localisation: %s", search.Location))
	}

	return strings.Join(parts, " | ")
}
