package relay

import (
	"context"
	"errors"

	"roomrelay/bot/common"
	"roomrelay/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature mirrors chat from a guild's display channel to the rest of its room
type Feature struct {
	relayService service.RelayService
}

// NewFeature creates a new relay feature instance
func NewFeature(relayService service.RelayService) *Feature {
	return &Feature{relayService: relayService}
}

// TooLongEmbed is posted in the source channel when a message cannot be relayed
func TooLongEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Message is too long to pass through.",
		Color: common.ColorTooLong,
	}
}

// Inbound converts a Discord message into what the relay compiles
func Inbound(m *discordgo.Message) (service.InboundMessage, error) {
	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		return service.InboundMessage{}, err
	}
	channelID, err := common.ParseSnowflake(m.ChannelID)
	if err != nil {
		return service.InboundMessage{}, err
	}

	urls := make([]string, 0, len(m.Attachments))
	for _, a := range m.Attachments {
		urls = append(urls, a.URL)
	}

	return service.InboundMessage{
		GuildID:        guildID,
		ChannelID:      channelID,
		AuthorTag:      common.UserTag(m.Author),
		Content:        m.Content,
		AttachmentURLs: urls,
	}, nil
}

// Payload is the outgoing message for a transmission. Mentions are never
// resolved in other guilds.
func Payload(t *service.Transmission) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         t.Content,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}
}

// Notifier posts notices back into the source channel. *discordgo.Session
// satisfies it.
type Notifier interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// HandleMessage relays m if it was posted in a display channel
func (f *Feature) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	f.relay(context.Background(), s, m.Message)
}

func (f *Feature) relay(ctx context.Context, n Notifier, m *discordgo.Message) {
	msg, err := Inbound(m)
	if err != nil {
		return
	}

	transmission, err := f.relayService.Compile(ctx, msg)
	switch {
	case errors.Is(err, service.ErrNotInRoom):
		return
	case errors.Is(err, service.ErrMessageTooLong):
		if _, err := n.ChannelMessageSendEmbed(m.ChannelID, TooLongEmbed()); err != nil {
			log.WithFields(log.Fields{
				"channelID": m.ChannelID,
				"error":     err,
			}).Warn("Failed to send too-long notice")
		}
		return
	case err != nil:
		log.WithFields(log.Fields{
			"guildID":   m.GuildID,
			"channelID": m.ChannelID,
			"error":     err,
		}).Error("Failed to compile relay message")
		return
	}

	sent, err := f.relayService.Transmit(ctx, transmission.Room, Payload(transmission), transmission.ExcludeGuildID)
	if err != nil {
		log.WithFields(log.Fields{
			"room":  transmission.Room,
			"error": err,
		}).Error("Failed to relay message")
		return
	}

	log.WithFields(log.Fields{
		"room":       transmission.Room,
		"guildID":    m.GuildID,
		"recipients": len(sent),
	}).Debug("Relayed message")
}
