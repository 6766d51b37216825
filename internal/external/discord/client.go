// Package discord contains the Discord gateway integration.
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Router dispatches slash command interactions to the application.
type Router interface {
	HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate)
	Commands() []*discordgo.ApplicationCommand
}

// Client wraps the discordgo session.
type Client struct {
	session    *discordgo.Session
	guildID    string
	logger     *zap.Logger
	registered []*discordgo.ApplicationCommand
}

// NewClient creates a new Discord client.
func NewClient(botToken, guildID string, logger *zap.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages

	return &Client{
		session: session,
		guildID: guildID,
		logger:  logger,
	}, nil
}

// Start opens the gateway connection and registers slash commands.
func (c *Client) Start(ctx context.Context, router Router) error {
	c.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.logger.Info("Discord session ready",
			zap.String("username", r.User.Username),
			zap.String("user_id", r.User.ID))
	})

	c.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		select {
		case <-ctx.Done():
			return
		default:
		}
		router.HandleInteraction(s, i)
	})

	if err := c.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}

	appID := c.session.State.User.ID
	for _, command := range router.Commands() {
		registered, err := c.session.ApplicationCommandCreate(appID, c.guildID, command)
		if err != nil {
			return fmt.Errorf("failed to register command %q: %w", command.Name, err)
		}
		c.registered = append(c.registered, registered)
	}

	c.logger.Info("Slash commands registered", zap.Int("count", len(c.registered)))
	return nil
}

// Stop unregisters commands and closes the gateway connection.
func (c *Client) Stop() error {
	if c.session.State != nil && c.session.State.User != nil {
		appID := c.session.State.User.ID
		for _, command := range c.registered {
			if err := c.session.ApplicationCommandDelete(appID, c.guildID, command.ID); err != nil {
				c.logger.Warn("Failed to unregister command",
					zap.String("command", command.Name),
					zap.Error(err))
			}
		}
	}

	return c.session.Close()
}

// SendEmbed posts an embed to a channel, optionally with a content line
// (used for owner mentions).
func (c *Client) SendEmbed(channelID, content string, embed *discordgo.MessageEmbed) error {
	_, err := c.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return fmt.Errorf("failed to send embed to channel %s: %w", channelID, err)
	}
	return nil
}

// SendDM delivers an embed to a user's direct message channel.
func (c *Client) SendDM(userID string, embed *discordgo.MessageEmbed) error {
	channel, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open DM channel for user %s: %w", userID, err)
	}

	_, err = c.session.ChannelMessageSendEmbed(channel.ID, embed)
	if err != nil {
		return fmt.Errorf("failed to send DM to user %s: %w", userID, err)
	}
	return nil
}
