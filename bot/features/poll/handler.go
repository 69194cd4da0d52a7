package poll

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"roomrelay/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// HandleCommand handles /poll
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var name, choices string
	var minutes int
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "name":
			name = opt.StringValue()
		case "choices":
			choices = opt.StringValue()
		case "timeout":
			minutes = int(opt.IntValue())
		}
	}

	req, err := NewRequest(name, choices, minutes, f.defaultTimeout)
	if err != nil {
		common.HandleError(s, i, err, "poll")
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "invalid guild ID"), "poll")
		return
	}

	guild, err := f.relayService.GuildConfig(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load guild"), "poll")
		return
	}

	o := origin{
		guildID:   i.GuildID,
		guild:     guild,
		level:     common.InteractionLevel(s, i, guild),
		initiator: common.UserTag(common.InteractionUser(i)),
	}
	if err := f.startPoll(ctx, o, req); err != nil {
		common.HandleError(s, i, err, "poll")
		return
	}

	common.RespondWithMessage(s, i, "Poll created!", true)
}

// HandleTextCommand handles `<prefix>poll name|choices|minutes`
func (f *Feature) HandleTextCommand(s *discordgo.Session, m *discordgo.MessageCreate, args string) {
	ctx := context.Background()

	reply := func(message string) {
		if _, err := s.ChannelMessageSendReply(m.ChannelID, message, m.Reference()); err != nil {
			log.WithFields(log.Fields{
				"channelID": m.ChannelID,
				"error":     err,
			}).Warn("Failed to reply to poll command")
		}
	}

	req, err := ParseArgs(args, f.defaultTimeout)
	if err != nil {
		message, _ := common.UserMessage(err)
		reply(message)
		return
	}

	guildID, err := common.ParseSnowflake(m.GuildID)
	if err != nil {
		return
	}

	guild, err := f.relayService.GuildConfig(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to load guild %d for poll: %v", guildID, err)
		reply("Something went wrong. Please try again later.")
		return
	}

	o := origin{
		guildID:   m.GuildID,
		guild:     guild,
		level:     common.MessageLevel(s, m, guild),
		initiator: common.UserTag(m.Author),
	}
	if err := f.startPoll(ctx, o, req); err != nil {
		message, ok := common.UserMessage(err)
		if !ok {
			log.Errorf("Failed to start poll in guild %d: %v", guildID, err)
		}
		reply(message)
		return
	}

	reply("Poll created!")
}

// HandleInteraction handles ballot buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, votePrefix):
		f.handleVote(s, i, strings.TrimPrefix(customID, votePrefix))
	case strings.HasPrefix(customID, cancelPrefix):
		f.handleCancel(s, i, strings.TrimPrefix(customID, cancelPrefix))
	}
}

func (f *Feature) handleVote(s *discordgo.Session, i *discordgo.InteractionCreate, rest string) {
	sep := strings.LastIndex(rest, "_")
	if sep < 0 {
		return
	}
	pollID := rest[:sep]
	index, err := strconv.Atoi(rest[sep+1:])
	if err != nil {
		return
	}

	p, err := f.tracker.Vote(pollID, common.InteractionUserID(i), index)
	switch {
	case errors.Is(err, ErrPollClosed):
		common.RespondWithMessage(s, i, "This poll is closed.", true)
	case errors.Is(err, ErrAlreadyVoted):
		common.RespondWithMessage(s, i, "You have already voted in this poll.", true)
	case err != nil:
		common.RespondWithMessage(s, i, "That choice is not on this ballot.", true)
	default:
		label := p.Snapshot().Choices[index].Label
		common.RespondWithMessage(s, i, fmt.Sprintf("Vote recorded for **%s**.", label), true)
	}
}

func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, pollID string) {
	ctx := context.Background()

	p := f.tracker.Get(pollID)
	if p == nil {
		common.RespondWithMessage(s, i, "This poll is closed.", true)
		return
	}

	guildID, err := common.ParseSnowflake(i.GuildID)
	if err != nil || guildID != p.OriginGuildID {
		common.RespondWithError(s, i, "Only the server that started this poll can close it.")
		return
	}

	guild, err := f.relayService.GuildConfig(ctx, guildID)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "failed to load guild"), "poll_cancel")
		return
	}
	if common.InteractionLevel(s, i, guild) < common.LevelAdmin {
		common.RespondWithError(s, i, "You need the room admin role to close this poll.")
		return
	}

	if err := common.AcknowledgeComponent(s, i); err != nil {
		log.Errorf("Failed to acknowledge poll cancel: %v", err)
	}
	f.tracker.Close(ctx, pollID)
}
