package bot

import (
	"context"
	"fmt"

	"roomrelay/bot/common"
	"roomrelay/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// registerSubscriptions announces room membership changes to the room
func (b *Bot) registerSubscriptions() {
	b.eventBus.Subscribe(events.EventTypeRoomJoined, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RoomJoinedEvent); ok {
			b.announce(ctx, e.Room, e.GuildID, fmt.Sprintf("📥 **%s** joined the room.", b.guildName(e.GuildID)))
		}
	})

	b.eventBus.Subscribe(events.EventTypeRoomLeft, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RoomLeftEvent); ok {
			b.announce(ctx, e.Room, e.GuildID, fmt.Sprintf("📤 **%s** left the room.", b.guildName(e.GuildID)))
		}
	})

	b.eventBus.Subscribe(events.EventTypeRoomDisbanded, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RoomDisbandedEvent); ok {
			b.announceDisband(e)
		}
	})

	b.eventBus.Subscribe(events.EventTypeRoomCreated, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RoomCreatedEvent); ok {
			log.WithFields(log.Fields{
				"room":    e.Room,
				"guildID": e.GuildID,
			}).Info("Room created")
		}
	})

	b.eventBus.Subscribe(events.EventTypePollClosed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.PollClosedEvent); ok {
			log.WithFields(log.Fields{
				"pollID": e.PollID,
				"room":   e.Room,
				"votes":  e.Votes,
			}).Debug("Poll closed event received")
		}
	})

	log.Info("Bot event subscriptions registered successfully")
}

func (b *Bot) guildName(guildID int64) string {
	return common.GuildName(b.session, common.FormatSnowflake(guildID))
}

// announce sends notice to every guild in room except guildID
func (b *Bot) announce(ctx context.Context, room string, guildID int64, notice string) {
	payload := &discordgo.MessageSend{
		Content:         notice,
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}
	if _, err := b.relayService.Transmit(ctx, room, payload, guildID); err != nil {
		log.WithFields(log.Fields{
			"room":  room,
			"error": err,
		}).Error("Failed to announce room change")
	}
}

// announceDisband tells former members directly, since the room no longer links them
func (b *Bot) announceDisband(e events.RoomDisbandedEvent) {
	notice := fmt.Sprintf("💥 Room **%s** was disbanded by its owner.", e.Room)
	for _, channel := range e.MemberChannels {
		if _, err := b.session.ChannelMessageSend(common.FormatSnowflake(channel), notice); err != nil {
			log.WithFields(log.Fields{
				"room":      e.Room,
				"channelID": channel,
				"error":     err,
			}).Warn("Failed to deliver disband notice")
		}
	}
}
