package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Discord posts operator alerts to a channel. All methods are safe on a nil
// receiver so callers do not have to care whether alerting is configured.
type Discord struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscord returns nil (and no error) when no bot token is configured.
func NewDiscord(botToken, channelID string) (*Discord, error) {
	if botToken == "" || channelID == "" {
		return nil, nil
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &Discord{session: session, channelID: channelID}, nil
}

func (d *Discord) send(message string) {
	if d == nil || d.session == nil {
		return
	}
	if _, err := d.session.ChannelMessageSend(d.channelID, message); err != nil {
		log.Warn().Err(err).Msg("failed to send Discord alert")
	}
}

// SyncFailed alerts that an order sync aborted at a specific step.
func (d *Discord) SyncFailed(orderName, step string, cause error) {
	d.send(fmt.Sprintf("🚨 Sync failed for order %s at %s: %v", orderName, step, cause))
}

// SyncDeferred alerts that an order is still waiting on Shopify routing.
func (d *Discord) SyncDeferred(orderName string) {
	d.send(fmt.Sprintf("⏳ Order %s is awaiting Shopify routing, sync deferred", orderName))
}
