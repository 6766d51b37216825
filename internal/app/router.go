// Package app wires the application components and routes slash commands.
package app

import (
	"vintedwatch/internal/config"
	"vintedwatch/internal/middleware"
	"vintedwatch/internal/model"
	"vintedwatch/internal/service"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Router dispatches /vinted subcommands to their handlers.
type Router struct {
	services    *service.Services
	settings    model.SettingRepository
	seen        model.SeenListingRepository
	config      *config.Config
	rateLimiter *middleware.RateLimiter
	logger      *zap.Logger
}

// NewRouter creates the command router.
func NewRouter(services *service.Services, settings model.SettingRepository, seen model.SeenListingRepository, cfg *config.Config, rateLimiter *middleware.RateLimiter, logger *zap.Logger) *Router {
	return &Router{
		services:    services,
		settings:    settings,
		seen:        seen,
		config:      cfg,
		rateLimiter: rateLimiter,
		logger:      logger,
	}
}

// Commands returns the slash command definitions to register.
func (r *Router) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "vinted",
			Description: "Watch Vinted searches and get notified about new listings",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a search to watch",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "keyword",
							Description: "Search keywords, e.g. veste cuir",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "min_price",
							Description: "Minimum price in euros",
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "max_price",
							Description: "Maximum price in euros",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "size",
							Description: "Size filter, e.g. M or 42",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "brand",
							Description: "Brand filter",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "condition",
							Description: "Condition filter",
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "location",
							Description: "City or region filter",
						},
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "dm",
							Description: "Also send matches as direct messages",
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "list",
					Description: "List your watched searches",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove one of your searches",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Search id from /vinted list",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "test",
					Description: "Run a search now and show up to three results",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "id",
							Description: "Search id from /vinted list",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "stats",
					Description: "Show watcher statistics (admin)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "channel",
					Description: "Set the notification channel (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "Channel that receives notifications",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "interval",
					Description: "Set the scrape interval in seconds (admin)",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "seconds",
							Description: "Seconds between scrape cycles, 30 or more",
							Required:    true,
						},
					},
				},
			},
		},
	}
}

// HandleInteraction routes an interaction to the matching subcommand
// handler.
func (r *Router) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	if data.Name != "vinted" || len(data.Options) == 0 {
		return
	}

	userID := interactionUserID(i)
	if userID == "" {
		return
	}

	if !r.rateLimiter.Allow(userID) {
		r.respondError(s, i, "Too many commands, slow down a little.")
		return
	}

	sub := data.Options[0]
	r.logger.Info("Command received",
		zap.String("subcommand", sub.Name),
		zap.String("user_id", userID))

	switch sub.Name {
	case "add":
		r.handleAdd(s, i, sub, userID)
	case "list":
		r.handleList(s, i, userID)
	case "remove":
		r.handleRemove(s, i, sub, userID)
	case "test":
		r.handleTest(s, i, sub, userID)
	case "stats":
		r.handleStats(s, i, userID)
	case "channel":
		r.handleChannel(s, i, sub, userID)
	case "interval":
		r.handleInterval(s, i, sub, userID)
	default:
		r.respondError(s, i, "Unknown subcommand.")
	}
}

// isAdmin allows the configured admin user and guild administrators.
func (r *Router) isAdmin(i *discordgo.InteractionCreate, userID string) bool {
	if r.config.AdminUserID != "" && userID == r.config.AdminUserID {
		return true
	}
	if i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return false
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// optionMap indexes subcommand options by name.
func optionMap(sub *discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(sub.Options))
	for _, option := range sub.Options {
		options[option.Name] = option
	}
	return options
}

func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if option, ok := options[name]; ok {
		return option.StringValue()
	}
	return ""
}

func intOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) int {
	if option, ok := options[name]; ok {
		return int(option.IntValue())
	}
	return 0
}

func boolOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	if option, ok := options[name]; ok {
		return option.BoolValue()
	}
	return false
}
